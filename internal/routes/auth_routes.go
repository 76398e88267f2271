package routes

import (
	"context"
	"database/sql"
	"os"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"accountd/internal/config"
	"accountd/internal/handlers"
	"accountd/internal/services"
)

func RegisterAuthRoutes(router chi.Router, db *sql.DB, cfg *config.Config) {
	authHandler := handlers.NewAuthHandler(db, cfg, newMailer(cfg))

	router.Post("/signup", authHandler.Signup)
	router.Post("/login", authHandler.Login)
	router.Post("/forgotpass", authHandler.ForgotPassword)
	router.Post("/resetpassword", authHandler.ResetPassword)
}

func newMailer(cfg *config.Config) services.EmailSender {
	if cfg.MailerDriver == "ses" {
		opts := []func(*awsconfig.LoadOptions) error{
			awsconfig.WithRegion(os.Getenv("AWS_REGION")),
		}
		if os.Getenv("AWS_ACCESS_KEY_ID") != "" {
			opts = append(opts, awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
				os.Getenv("AWS_ACCESS_KEY_ID"),
				os.Getenv("AWS_SECRET_ACCESS_KEY"),
				"",
			)))
		}
		awsCfg, err := awsconfig.LoadDefaultConfig(context.Background(), opts...)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to load AWS config for SES mailer")
		}
		return services.NewSESSender(awsCfg, cfg.EmailFrom)
	}

	return &services.SMTPSender{
		Host:   cfg.SMTPHost,
		Port:   cfg.SMTPPort,
		User:   cfg.SMTPUser,
		Pass:   cfg.SMTPPassword,
		From:   cfg.EmailFrom,
		UseTLS: cfg.SMTPUseTLS,
	}
}
