package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// UserStatus 定义了用户账户的生命周期状态。
type UserStatus string

const (
	StatusPending     UserStatus = "pending"     // 账号待激活或验证
	StatusActive      UserStatus = "active"      // 账号正常
	StatusSuspended   UserStatus = "suspended"   // 账号被暂停
	StatusDeactivated UserStatus = "deactivated" // 账号已停用
)

// User 代表系统中的一个用户账户。
// Balance 是钱包余额，所有变动都必须通过台账事务以相对增量方式写入，
// 应用层禁止读出后回写。
type User struct {
	gorm.Model

	Username  string `gorm:"size:64;not null"`
	Phone     string `gorm:"uniqueIndex;size:20;not null"`
	AvatarURL string

	// 钱包余额（元），decimal 定点存储避免浮点误差。
	Balance decimal.Decimal `gorm:"type:decimal(10,2);not null;default:0.00"`

	// 支付密码的 bcrypt 哈希，json 中忽略。
	PayPassword string `gorm:"size:255" json:"-"`

	// 银豹会员号，绑定后可查询/核销积分。
	PospalMemberNo string `gorm:"size:64;index"`

	Status      UserStatus `gorm:"type:varchar(20);default:'pending';not null"`
	LastLoginAt *time.Time
	Settings    datatypes.JSON
}

func (User) TableName() string {
	return "users"
}
