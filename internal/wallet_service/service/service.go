package service

import (
	"Renwuquan/internal/models"
	"Renwuquan/internal/wallet_service/store"
	"bytes"
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
	"golang.org/x/crypto/bcrypt"
)

// Service 封装了钱包查询与支付密码的业务逻辑。
type Service struct {
	store *store.Store
}

// NewService 创建一个新的 Service 实例。
func NewService(s *store.Store) *Service {
	return &Service{store: s}
}

// Balance 返回用户当前余额。
func (s *Service) Balance(userID uint) (decimal.Decimal, error) {
	user, err := s.store.GetUser(userID)
	if err != nil {
		return decimal.Zero, err
	}
	return user.Balance, nil
}

// Transactions 返回用户的流水列表。
func (s *Service) Transactions(userID uint, limit, offset int) ([]models.WalletTransaction, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	return s.store.ListTransactions(userID, limit, offset)
}

// SetPayPassword 设置支付密码（bcrypt 哈希存储）。
func (s *Service) SetPayPassword(userID uint, password string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("支付密码哈希失败: %w", err)
	}
	return s.store.SavePayPassword(userID, string(hash))
}

// VerifyPayPassword 校验支付密码。
func (s *Service) VerifyPayPassword(userID uint, password string) error {
	user, err := s.store.GetUser(userID)
	if err != nil {
		return err
	}
	if user.PayPassword == "" {
		return models.ErrPayPasswordMismatch
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PayPassword), []byte(password)); err != nil {
		return models.ErrPayPasswordMismatch
	}
	return nil
}

// ExportStatement 导出用户全部流水为 xlsx 对账单。
func (s *Service) ExportStatement(userID uint) ([]byte, error) {
	txns, err := s.store.ListTransactions(userID, 10000, 0)
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Sheet1"
	headers := []string{"流水号", "类型", "金额", "方向", "说明", "时间"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheet, cell, h)
	}

	for row, txn := range txns {
		direction := "收入"
		if txn.FromUserID != nil && *txn.FromUserID == userID {
			direction = "支出"
		}
		values := []interface{}{
			txn.TradeNo,
			string(txn.Type),
			txn.Amount.StringFixed(2),
			direction,
			txn.Description,
			txn.CreatedAt.Format("2006-01-02 15:04:05"),
		}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row+2)
			f.SetCellValue(sheet, cell, v)
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("生成对账单失败: %w", err)
	}
	return buf.Bytes(), nil
}
