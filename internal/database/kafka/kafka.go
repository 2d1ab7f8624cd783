package kafka

import (
	"Renwuquan/internal/config"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/segmentio/kafka-go"
)

var (
	writer  *kafka.Writer
	once    sync.Once
	initErr error
)

// GetWriter 使用单例模式初始化并返回动态事件主题的 Kafka writer。
// 首次调用时会确保主题存在（不存在则以单分区创建）。
func GetWriter(cfg *config.KafkaConfig) (*kafka.Writer, error) {
	once.Do(func() {
		if len(cfg.Brokers) == 0 {
			initErr = fmt.Errorf("未配置 Kafka brokers")
			return
		}
		if cfg.ActivityTopic == "" {
			initErr = fmt.Errorf("未配置动态事件主题")
			return
		}

		conn, err := kafka.Dial("tcp", cfg.Brokers[0])
		if err != nil {
			initErr = fmt.Errorf("kafka 初始化连接失败: %w", err)
			return
		}
		defer conn.Close()

		partitions, err := conn.ReadPartitions()
		if err != nil {
			initErr = fmt.Errorf("无法读取 Kafka 分区信息: %w", err)
			return
		}
		exists := false
		for _, p := range partitions {
			if p.Topic == cfg.ActivityTopic {
				exists = true
				break
			}
		}
		if !exists {
			log.Printf("主题 '%s' 不存在，准备创建...", cfg.ActivityTopic)
			err = conn.CreateTopics(kafka.TopicConfig{
				Topic:             cfg.ActivityTopic,
				NumPartitions:     1,
				ReplicationFactor: 1,
			})
			if err != nil {
				initErr = fmt.Errorf("自动创建 Kafka 主题失败: %w", err)
				return
			}
		}

		writer = &kafka.Writer{
			Addr:         kafka.TCP(cfg.Brokers...),
			Topic:        cfg.ActivityTopic,
			Balancer:     &kafka.LeastBytes{},
			WriteTimeout: 5 * time.Second,
			// 动态事件是尽力而为的旁路副作用，不等待全量确认。
			RequiredAcks: kafka.RequireOne,
		}

		log.Println("✅ 成功连接到 Kafka!")
	})

	return writer, initErr
}

// Close 安全地关闭单例的 Kafka writer。
func Close() error {
	if writer != nil {
		return writer.Close()
	}
	return nil
}
