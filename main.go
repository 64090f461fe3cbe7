package main

import (
	"log"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"gorm.io/gorm"

	"github.com/booknbite/backend/config"
	"github.com/booknbite/backend/controllers"
	"github.com/booknbite/backend/models"
	"github.com/booknbite/backend/router"
	"github.com/booknbite/backend/scheduler"
	"github.com/booknbite/backend/services"
	"github.com/booknbite/backend/utils"
)

func init() {
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found: %v", err)
	}
	utils.InitLogger()
}

func main() {
	cfg := config.Load()

	db, err := config.InitDB()
	if err != nil {
		utils.ErrorLogger.Fatalf("Failed to connect to database: %v", err)
	}
	utils.InitDB(db)

	if os.Getenv("GIN_MODE") == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	autoMigrate(db)

	sched := scheduler.New(db, cfg.ReservationDuration, cfg.ActiveGraceWindow)

	var mailer services.Mailer
	if cfg.SMTPHost != "" {
		mailer = &services.SMTPMailer{
			Host:     cfg.SMTPHost,
			Port:     cfg.SMTPPort,
			User:     cfg.SMTPUser,
			Password: cfg.SMTPPassword,
			From:     cfg.MailFrom,
		}
	} else {
		utils.InfoLogger.Println("SMTP not configured, confirmation emails disabled")
	}
	notifier := services.NewNotifier(db, mailer)

	cleaner := services.NewRequestCleaner(db, cfg.CleanupInterval, cfg.CleanupRetention)
	cleaner.Start()
	defer cleaner.Stop()

	cache := config.NewRedisClient()
	if cache == nil {
		utils.InfoLogger.Println("Redis not configured, menu caching disabled")
	}

	var gateway services.PaymentGateway
	if cfg.StripeSecretKey != "" {
		gateway = services.NewStripeGateway(cfg.StripeSecretKey, cfg.StripePublicKey)
	} else {
		utils.InfoLogger.Println("Stripe not configured, card payments disabled")
	}
	paymentCtrl := controllers.NewPaymentController(gateway, cfg.StripePublicKey, cfg.PaymentCurrency)

	r := router.SetupRouter(db, sched, notifier, cache, paymentCtrl)

	utils.InfoLogger.Printf("Listening on port %s", cfg.Port)
	if err := r.Run(":" + cfg.Port); err != nil {
		utils.ErrorLogger.Fatal(err)
	}
}

func autoMigrate(db *gorm.DB) {
	err := db.AutoMigrate(
		&models.User{},
		&models.Table{},
		&models.Booking{},
		&models.MenuItem{},
		&models.Order{},
		&models.OrderItem{},
		&models.ServiceRequest{},
		&models.Rating{},
		&models.Notification{},
		&models.Feedback{},
	)
	if err != nil {
		utils.ErrorLogger.Fatalf("Failed to AutoMigrate: %v", err)
	}
	utils.InfoLogger.Println("AutoMigrate completed.")
}
