package main

import (
	"Renwuquan/internal/clients/pospal"
	"Renwuquan/internal/clients/sms"
	"Renwuquan/internal/clients/tts"
	"Renwuquan/internal/config"
	"Renwuquan/internal/database/kafka"
	"Renwuquan/internal/database/minio"
	"Renwuquan/internal/database/mysql"
	"Renwuquan/internal/database/redis"
	mediaapi "Renwuquan/internal/media_service/api"
	mediaservice "Renwuquan/internal/media_service/service"
	"Renwuquan/internal/models"
	taskapi "Renwuquan/internal/task_service/api"
	"Renwuquan/internal/task_service/notifier"
	taskservice "Renwuquan/internal/task_service/service"
	taskstore "Renwuquan/internal/task_service/store"
	userapi "Renwuquan/internal/user_service/api"
	userservice "Renwuquan/internal/user_service/service"
	userstore "Renwuquan/internal/user_service/store"
	"Renwuquan/internal/verification"
	walletapi "Renwuquan/internal/wallet_service/api"
	walletservice "Renwuquan/internal/wallet_service/service"
	walletstore "Renwuquan/internal/wallet_service/store"
	"Renwuquan/pkg/httpclient"
	"Renwuquan/pkg/logger"
	"Renwuquan/pkg/ratelimiter"
	"log"

	"github.com/gin-gonic/gin"
	kafkago "github.com/segmentio/kafka-go"
	"github.com/sirupsen/logrus"
)

func main() {
	// 加载配置
	cfg, err := config.LoadConfig("config.yaml")
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	// 初始化日志
	level, err := logrus.ParseLevel(cfg.Logger.Level)
	if err != nil {
		level = logrus.InfoLevel
	}
	logger.Init(level)
	appLogger := logger.New("renwuquan_server")
	appLogger.Info("Logger initialized")

	// 初始化数据库连接
	db, err := mysql.GetDB(&cfg.Databases.MySQL)
	if err != nil {
		appLogger.Fatal(err.Error())
	}
	appLogger.Info("Database connection established")

	err = db.AutoMigrate(
		&models.User{},
		&models.Task{},
		&models.WalletTransaction{},
		&models.Conversation{},
		&models.Message{},
		&models.Activity{},
	)
	if err != nil {
		appLogger.Fatal(err.Error())
	}
	appLogger.Info("Database migration completed")

	rdb, err := redis.GetClient(&cfg.Databases.Redis)
	if err != nil {
		appLogger.Fatal(err.Error())
	}

	minioClient, err := minio.GetClient(&cfg.Databases.MinIO)
	if err != nil {
		appLogger.Fatal(err.Error())
	}

	// Kafka 是可选依赖：未启用时动态事件只落库。
	var activityWriter *kafkago.Writer
	if cfg.Databases.Kafka.Enabled {
		activityWriter, err = kafka.GetWriter(&cfg.Databases.Kafka)
		if err != nil {
			appLogger.Fatal(err.Error())
		}
	}

	// 出站 HTTP 客户端（厂商接口共用一套熔断策略）
	outbound, err := httpclient.New(cfg.Breaker)
	if err != nil {
		appLogger.Fatal(err.Error())
	}
	smsClient := sms.New(cfg.SMS, outbound)
	pospalClient := pospal.New(cfg.Pospal, outbound)
	ttsClient := tts.New(cfg.TTS, outbound)

	// 依赖注入 (Store -> Service -> Handler)
	taskLedger := taskstore.NewStore(db)
	taskNotifier := notifier.New(db, activityWriter, logger.New("notifier"))
	taskSvc := taskservice.NewService(taskLedger, taskNotifier, logger.New("task_service"))
	taskHandler := taskapi.NewHandler(taskSvc)

	userSvc := userservice.NewService(
		userstore.NewStore(db),
		verification.NewCodeStore(rdb),
		smsClient,
		pospalClient,
		cfg,
	)
	smsLimiter := ratelimiter.NewTokenBucket(cfg.SMS.SendRate, cfg.SMS.SendBurst)
	userHandler := userapi.NewHandler(userSvc, smsLimiter)

	walletSvc := walletservice.NewService(walletstore.NewStore(db))
	walletHandler := walletapi.NewHandler(walletSvc)

	mediaSvc := mediaservice.NewService(minioClient, ttsClient, cfg.Databases.MinIO)
	mediaHandler := mediaapi.NewHandler(mediaSvc)

	appLogger.Info("Dependencies injected")

	// 路由装配
	r := gin.Default()
	authMiddleware := userapi.AuthMiddleware(cfg.Auth.JwtSecret)

	apiV1 := r.Group("/api/v1")
	userHandler.RegisterRoutes(apiV1, authMiddleware)
	taskHandler.RegisterRoutes(apiV1, authMiddleware)
	walletHandler.RegisterRoutes(apiV1, authMiddleware)
	mediaHandler.RegisterRoutes(apiV1, authMiddleware)
	appLogger.Info("Router setup completed")

	listen := cfg.App.Listen
	if listen == "" {
		listen = ":8080"
	}
	appLogger.Info("Starting server on " + listen)

	if err := r.Run(listen); err != nil {
		appLogger.Fatal(err.Error())
	}
}
