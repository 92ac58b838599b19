package main

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/ekesta/portfolio/internal/authservice"
	"github.com/ekesta/portfolio/internal/blogservice"
	"github.com/ekesta/portfolio/internal/common"
	"github.com/ekesta/portfolio/internal/contactservice"
	"github.com/ekesta/portfolio/internal/mailservice"
)

type application struct {
	config         *Config
	logger         *slog.Logger
	blogService    *blogservice.BlogService
	contactService *contactservice.ContactService
	authService    *authservice.AuthService
	mailService    *mailservice.MailService
	broker         *common.MessageBroker
	limiters       limiters
}

type limiters struct {
	auth         *common.WindowLimiter
	contactIP    *common.WindowLimiter
	contactEmail *common.WindowLimiter
}

func newLimiters() limiters {
	return limiters{
		auth:         common.NewWindowLimiter(5, 15*time.Minute),
		contactIP:    common.NewWindowLimiter(3, 15*time.Minute),
		contactEmail: common.NewWindowLimiter(5, time.Hour),
	}
}

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	cfg, err := loadConfig(".env")
	if err != nil {
		logger.Error("failed to load configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	if cfg.Auth.JWTSecret == "" {
		cfg.Auth.JWTSecret, err = randomSecret()
		if err != nil {
			logger.Error("failed to generate a signing secret", slog.String("error", err.Error()))
			os.Exit(1)
		}
		logger.Warn("JWT_SECRET is not set, tokens will not survive a restart")
	}

	if cfg.Auth.AdminPassword == "" {
		logger.Warn("BLOG_ADMIN_PASSWORD is not set, admin login is disabled")
	}

	db, err := common.NewDB(cfg.DB.Host, cfg.DB.Port, cfg.DB.User, cfg.DB.Password, cfg.DB.Name, 10, 5, 15*time.Minute)
	if err != nil {
		logger.Error("failed to connect to the database", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer common.CloseDB(db)

	err = common.Migrate(db)
	if err != nil {
		logger.Error("failed to apply migrations", slog.String("error", err.Error()))
		os.Exit(1)
	}

	URI := fmt.Sprintf("amqp://%s:%s@%s:%s/", cfg.RabbitMQ.User, cfg.RabbitMQ.Password, cfg.RabbitMQ.Host, cfg.RabbitMQ.Port)
	broker, err := common.NewMessageBroker(URI)
	if err != nil {
		logger.Error("failed to connect to the message broker", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer broker.Close()

	err = common.SetupContactExchange(broker)
	if err != nil {
		logger.Error("failed to setup the contact exchange", slog.String("error", err.Error()))
		os.Exit(1)
	}

	authService, err := authservice.NewAuthService(cfg.Auth.AdminPassword, cfg.Auth.JWTSecret)
	if err != nil {
		logger.Error("failed to initialize authentication", slog.String("error", err.Error()))
		os.Exit(1)
	}

	mailCfg := mailservice.Config{
		Host:         cfg.Mail.Host,
		Port:         cfg.Mail.Port,
		Username:     cfg.Mail.User,
		Password:     cfg.Mail.Password,
		Sender:       cfg.Mail.Sender,
		AdminAddress: cfg.Mail.AdminAddress,
		AdminName:    cfg.Mail.AdminName,
		AutoReply:    cfg.Mail.AutoReply,
	}

	app := &application{
		config:         cfg,
		logger:         logger,
		blogService:    blogservice.NewBlogService(db, common.NewCache(10*time.Minute, 20*time.Minute)),
		contactService: contactservice.NewContactService(db, broker, logger),
		authService:    authService,
		mailService:    mailservice.NewMailService(broker, mailCfg, logger),
		broker:         broker,
		limiters:       newLimiters(),
	}

	err = app.mailService.HandleContactMessages()
	if err != nil {
		logger.Error("failed to start the mail consumer", slog.String("error", err.Error()))
		os.Exit(1)
	}

	err = app.serve(cfg.Port)
	if err != nil {
		logger.Error("failed to start the server", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func randomSecret() (string, error) {
	b := make([]byte, 32)
	_, err := rand.Read(b)
	if err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
