package app

import (
	"database/sql"
	"fmt"
	"log"

	"shopcore/internal/config"
	"shopcore/internal/handlers"
	"shopcore/internal/pdf"
	"shopcore/internal/repositories"
	"shopcore/internal/routes"
	"shopcore/internal/services"
	"shopcore/internal/utils"

	"github.com/gin-gonic/gin"
	_ "github.com/lib/pq"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	_ "shopcore/docs"
)

func Run() {
	cfg := config.LoadConfig()

	// === DB ===
	db, err := sql.Open("postgres", cfg.Database.DSN)
	if err != nil {
		log.Fatal("failed to open database: ", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Printf("failed to close database: %v", err)
		}
	}()

	// === Repos ===
	userRepo := repositories.NewUserRepository(db)
	resetRepo := repositories.NewResetRecordRepository(db)
	invoiceRepo := repositories.NewInvoiceRepository(db)

	// === Services ===
	authService := services.NewAuthService()
	resendClient := utils.NewResendClient()
	smtpMailer := services.NewSMTPMailer(&cfg.Email)
	emailService := services.NewEmailService(&cfg.Email, resendClient, smtpMailer)

	// Telegram ops alerts; nil when not configured
	alertService := services.NewAlertService(cfg.Telegram.BotToken, cfg.Telegram.AlertChatID)

	resetService := services.NewPasswordResetService(cfg, userRepo, resetRepo, emailService, authService, alertService)

	invoiceRenderer := pdf.NewInvoiceRenderer(cfg.Email.FromName)
	invoiceService := services.NewInvoiceService(invoiceRepo, invoiceRenderer, emailService)

	// === Handlers ===
	passwordResetHandler := handlers.NewPasswordResetHandler(resetService)
	invoiceHandler := handlers.NewInvoiceHandler(invoiceService)

	// === Gin ===
	router := gin.Default()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())
	router.Use(corsMiddleware())

	// Swagger
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	routes.SetupRoutes(router, passwordResetHandler, invoiceHandler)

	// === Run ===
	listenAddr := fmt.Sprintf(":%d", cfg.Server.Port)
	log.Printf("server listening on %s (env=%s)", listenAddr, cfg.Env)
	if err := router.Run(listenAddr); err != nil {
		log.Fatal("failed to start server: ", err)
	}
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Origin, Content-Type, Authorization")
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}
		c.Next()
	}
}
