package verification

import (
	"Renwuquan/internal/models"
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

// CodeStore 把短信验证码存放在外部的带 TTL 键值存储（Redis）中，
// 而不是进程内的 map，保证服务无状态、可水平扩展。
type CodeStore struct {
	rdb *redis.Client
}

// NewCodeStore 创建一个 CodeStore。
func NewCodeStore(rdb *redis.Client) *CodeStore {
	return &CodeStore{rdb: rdb}
}

func key(phone string) string {
	return fmt.Sprintf("sms:code:%s", phone)
}

// Save 写入验证码并设置过期时间。同一手机号重复下发会覆盖旧码。
func (s *CodeStore) Save(ctx context.Context, phone, code string, ttl time.Duration) error {
	return s.rdb.Set(ctx, key(phone), code, ttl).Err()
}

// Consume 校验并一次性消费验证码。
// 校验成功后验证码即删除，同一个码不能用于第二次登录。
func (s *CodeStore) Consume(ctx context.Context, phone, code string) error {
	stored, err := s.rdb.GetDel(ctx, key(phone)).Result()
	if errors.Is(err, redis.Nil) {
		return models.ErrCodeMismatch
	}
	if err != nil {
		return fmt.Errorf("读取验证码失败: %w", err)
	}
	if stored != code {
		return models.ErrCodeMismatch
	}
	return nil
}
