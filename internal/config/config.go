package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// RedisConfig 定义了 Redis 数据库的连接配置。
type RedisConfig struct {
	Address  string `yaml:"address"`  // Redis 服务器地址 (例如: "localhost:6379")
	Password string `yaml:"password"` // Redis 密码
	DB       int    `yaml:"db"`       // Redis 数据库编号
}

// MySQLConfig 定义了 MySQL 数据库的连接配置。
type MySQLConfig struct {
	Address         string `yaml:"address"`         // MySQL 服务器地址
	Username        string `yaml:"username"`        // 用户名
	Password        string `yaml:"password"`        // 密码
	Database        string `yaml:"database"`        // 数据库名称
	MaxOpenConns    int    `yaml:"maxOpenConns"`    // 最大打开连接数
	MaxIdleConns    int    `yaml:"maxIdleConns"`    // 最大空闲连接数
	ConnMaxLifetime int    `yaml:"connMaxLifetime"` // 连接最大生命周期 (秒)
}

// MinIOConfig 定义了 MinIO 对象存储的连接配置。
type MinIOConfig struct {
	Endpoint  string `yaml:"endpoint"`  // MinIO 服务端点
	AccessKey string `yaml:"accessKey"` // 访问密钥
	SecretKey string `yaml:"secretKey"` // Secret 密钥
	Bucket    string `yaml:"bucket"`    // 默认存储桶名称
	PublicURL string `yaml:"publicURL"` // 对外访问的基础 URL
	Secure    bool   `yaml:"secure"`    // 是否使用HTTPS
}

// KafkaConfig 定义了 Kafka 消息队列的连接配置。
type KafkaConfig struct {
	Enabled       bool     `yaml:"enabled"`       // 是否启用 Kafka（未启用时动态事件只写日志）
	Brokers       []string `yaml:"brokers"`       // Kafka Broker 地址列表
	ActivityTopic string   `yaml:"activityTopic"` // 动态事件主题
}

// DatabaseConfigs 包含所有数据库的配置。
type DatabaseConfigs struct {
	MySQL MySQLConfig `yaml:"mysql"` // MySQL 数据库配置
	Redis RedisConfig `yaml:"redis"` // Redis 数据库配置
	MinIO MinIOConfig `yaml:"minio"` // MinIO 对象存储配置
	Kafka KafkaConfig `yaml:"kafka"` // Kafka 消息队列配置
}

// AuthConfig 用于配置认证方法和相关设置。
type AuthConfig struct {
	JwtSecret string `yaml:"jwtSecret"` // JWT 密钥
	TokenTTL  int    `yaml:"tokenTTL"`  // JWT 令牌的有效期（秒）
}

// SMSConfig 定义了短信验证码服务的配置。
type SMSConfig struct {
	Endpoint  string `yaml:"endpoint"`  // 短信服务商 API 地址
	AccessKey string `yaml:"accessKey"` // 访问密钥
	SignName  string `yaml:"signName"`  // 短信签名
	Template  string `yaml:"template"`  // 验证码模板编号
	CodeTTL   int    `yaml:"codeTTL"`   // 验证码有效期（秒）
	SendRate  float64 `yaml:"sendRate"` // 每秒允许发送的验证码数（令牌桶速率）
	SendBurst int    `yaml:"sendBurst"` // 发送突发容量（令牌桶容量）
}

// PospalConfig 定义了银豹会员系统的接入配置。
type PospalConfig struct {
	Endpoint string `yaml:"endpoint"` // 银豹开放平台地址
	AppID    string `yaml:"appId"`    // 应用 ID
	AppKey   string `yaml:"appKey"`   // 应用密钥（参与签名计算）
}

// TTSConfig 定义了语音合成服务的配置。
type TTSConfig struct {
	Endpoint string `yaml:"endpoint"` // TTS 服务商 API 地址
	APIKey   string `yaml:"apiKey"`   // API 密钥
	Voice    string `yaml:"voice"`    // 默认音色
}

// CircuitBreakerConfig 定义了熔断器的配置。
type CircuitBreakerConfig struct {
	Enabled          bool   `yaml:"enabled"`
	FailureThreshold uint32 `yaml:"failureThreshold"`
	SuccessThreshold uint32 `yaml:"successThreshold"`
	Timeout          string `yaml:"timeout"` // 例如: "30s"
}

// AppInfo 对应 'app' 部分，包含应用程序的基本信息。
type AppInfo struct {
	Name        string `yaml:"name"`        // 应用程序名称
	Version     string `yaml:"version"`     // 应用程序版本
	Environment string `yaml:"environment"` // 运行环境 (例如: "development", "production")
	Listen      string `yaml:"listen"`      // HTTP 监听地址 (例如: ":8080")
}

// LoggerConfig 定义了日志记录器的配置。
type LoggerConfig struct {
	Level string `yaml:"level"` // 日志级别 (例如: "info", "debug", "warn", "error")
}

// AppConfig 是整个 YAML 文件的根结构，包含了应用程序的所有配置。
type AppConfig struct {
	App       AppInfo              `yaml:"app"`       // 应用程序信息
	Auth      AuthConfig           `yaml:"auth"`      // 认证配置
	Logger    LoggerConfig         `yaml:"logger"`    // 日志记录器配置
	Databases DatabaseConfigs      `yaml:"databases"` // 数据库配置
	SMS       SMSConfig            `yaml:"sms"`       // 短信服务配置
	Pospal    PospalConfig         `yaml:"pospal"`    // 银豹会员系统配置
	TTS       TTSConfig            `yaml:"tts"`       // 语音合成配置
	Breaker   CircuitBreakerConfig `yaml:"breaker"`   // 外部服务熔断配置
}

// LoadConfig 函数从指定路径加载并解析 YAML 配置文件。
func LoadConfig(path string) (*AppConfig, error) {
	yamlFile, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("无法读取 YAML 文件 '%s': %w", path, err)
	}
	var cfg AppConfig
	if err := yaml.Unmarshal(yamlFile, &cfg); err != nil {
		return nil, fmt.Errorf("解析 YAML 文件失败: %w", err)
	}
	return &cfg, nil
}
