package service

import (
	"Renwuquan/internal/clients/pospal"
	"Renwuquan/internal/clients/sms"
	"Renwuquan/internal/config"
	"Renwuquan/internal/models"
	"Renwuquan/internal/user_service/store"
	"Renwuquan/internal/verification"
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/golang-jwt/jwt"
)

// Service 封装了登录注册的业务逻辑。
// 会话本身是无状态的：验证码放在 Redis（带 TTL），身份放在 JWT。
type Service struct {
	store     *store.Store
	codes     *verification.CodeStore
	sms       *sms.Client
	pospal    *pospal.Client
	jwtSecret []byte
	codeTTL   time.Duration
	tokenTTL  time.Duration
}

// NewService 创建一个新的 Service 实例。
func NewService(s *store.Store, codes *verification.CodeStore, smsClient *sms.Client, pospalClient *pospal.Client, cfg *config.AppConfig) *Service {
	return &Service{
		store:     s,
		codes:     codes,
		sms:       smsClient,
		pospal:    pospalClient,
		jwtSecret: []byte(cfg.Auth.JwtSecret),
		codeTTL:   time.Duration(cfg.SMS.CodeTTL) * time.Second,
		tokenTTL:  time.Duration(cfg.Auth.TokenTTL) * time.Second,
	}
}

// SendLoginCode 生成 6 位验证码，写入带 TTL 的验证码存储并下发短信。
func (s *Service) SendLoginCode(ctx context.Context, phone string) error {
	code, err := randomCode()
	if err != nil {
		return fmt.Errorf("生成验证码失败: %w", err)
	}
	if err := s.codes.Save(ctx, phone, code, s.codeTTL); err != nil {
		return fmt.Errorf("保存验证码失败: %w", err)
	}
	if err := s.sms.SendCode(ctx, phone, code); err != nil {
		return fmt.Errorf("下发验证码短信失败: %w", err)
	}
	return nil
}

// LoginWithCode 校验验证码（一次性消费）并签发 JWT。
// 手机号首次登录时自动注册。
func (s *Service) LoginWithCode(ctx context.Context, phone, code string) (string, *models.User, error) {
	if err := s.codes.Consume(ctx, phone, code); err != nil {
		return "", nil, err
	}

	user, err := s.store.GetUserByPhone(phone)
	if errors.Is(err, models.ErrUserNotFound) {
		user = &models.User{
			Username: "用户" + phone[len(phone)-4:],
			Phone:    phone,
			Status:   models.StatusActive,
		}
		if err := s.store.CreateUser(user); err != nil {
			return "", nil, err
		}
	} else if err != nil {
		return "", nil, err
	}

	now := time.Now()
	user.LastLoginAt = &now
	if err := s.store.UpdateUser(user); err != nil {
		return "", nil, err
	}

	token, err := s.generateJWT(user.ID)
	if err != nil {
		return "", nil, err
	}
	return token, user, nil
}

// GetUser 读取用户档案。
func (s *Service) GetUser(id uint) (*models.User, error) {
	return s.store.GetUserByID(id)
}

// Membership 查询用户绑定的银豹会员档案（积分、储值余额）。
func (s *Service) Membership(ctx context.Context, userID uint) (*pospal.Member, error) {
	user, err := s.store.GetUserByID(userID)
	if err != nil {
		return nil, err
	}
	if user.PospalMemberNo == "" {
		return nil, fmt.Errorf("用户未绑定会员号")
	}
	return s.pospal.QueryMemberByNumber(ctx, user.PospalMemberNo)
}

// BindMembership 绑定银豹会员号（先远端校验会员存在）。
func (s *Service) BindMembership(ctx context.Context, userID uint, memberNo string) (*pospal.Member, error) {
	member, err := s.pospal.QueryMemberByNumber(ctx, memberNo)
	if err != nil {
		return nil, fmt.Errorf("会员号校验失败: %w", err)
	}
	user, err := s.store.GetUserByID(userID)
	if err != nil {
		return nil, err
	}
	user.PospalMemberNo = memberNo
	if err := s.store.UpdateUser(user); err != nil {
		return nil, err
	}
	return member, nil
}

// generateJWT 为指定用户 ID 生成一个新的 JWT。
func (s *Service) generateJWT(userID uint) (string, error) {
	claims := jwt.MapClaims{
		"sub": userID,
		"iss": "renwuquan_server",
		"exp": time.Now().Add(s.tokenTTL).Unix(),
		"iat": time.Now().Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.jwtSecret)
}

// randomCode 用加密随机源生成 6 位数字验证码。
func randomCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}
