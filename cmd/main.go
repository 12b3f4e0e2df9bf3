package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"time"

	"civicbot/backend/internal/api/handler"
	"civicbot/backend/internal/audit"
	"civicbot/backend/internal/feedhub"
	"civicbot/backend/internal/localization"
	"civicbot/backend/internal/models"
	"civicbot/backend/internal/notify"
	"civicbot/backend/internal/storage"
	"civicbot/backend/internal/workflow"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func setupDependencies() (*gorm.DB, *redis.Client) {
	dsn := os.Getenv("DATABASE_DSN")
	if dsn == "" {
		dsn = "host=localhost user=user password=password dbname=civicbot port=5432 sslmode=disable"
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatalf("Failed to connect PostgreSQL: %v", err)
	}

	redisAddr := os.Getenv("REDIS_ADDR")
	if redisAddr == "" {
		redisAddr = "localhost:6379"
	}
	rdb := redis.NewClient(&redis.Options{
		Addr:     redisAddr,
		Password: os.Getenv("REDIS_PASSWORD"),
		DB:       0,
	})

	ctx := context.Background()
	if _, err := rdb.Ping(ctx).Result(); err != nil {
		log.Fatalf("Failed to connect Redis: %v", err)
	}

	err = db.AutoMigrate(
		&models.Company{},
		&models.Department{},
		&models.User{},
		&models.Grievance{},
		&models.Appointment{},
		&models.StatusHistory{},
		&models.AuditLog{},
	)
	if err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	log.Println("Database and Redis connections established, migrations complete.")
	return db, rdb
}

func main() {
	log.Println("Starting civicbot Backend...")

	if err := godotenv.Load(); err != nil {
		log.Println("Warning: Error loading .env file")
	}

	db, rdb := setupDependencies()
	s := storage.NewStorageService(db, rdb)

	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		log.Fatal("JWT_SECRET is not set!")
	}

	// Citizen notifications over the WhatsApp Cloud API.
	waToken := os.Getenv("WHATSAPP_TOKEN")
	waPhoneID := os.Getenv("WHATSAPP_PHONE_NUMBER_ID")
	if waToken == "" || waPhoneID == "" {
		log.Fatal("WHATSAPP_TOKEN and WHATSAPP_PHONE_NUMBER_ID must be set!")
	}

	templateDir := os.Getenv("TEMPLATE_DIR")
	if templateDir == "" {
		templateDir = "internal/localization/templates"
	}
	localizer, err := localization.NewLocalizer(templateDir)
	if err != nil {
		log.Fatalf("Failed to load notification templates: %v", err)
	}

	dispatcher := notify.NewWhatsAppDispatcher(notify.NewWhatsAppClient(waToken, waPhoneID), localizer)

	// Staff assignment alerts over Telegram are optional.
	var alerter workflow.Alerter
	if tgToken := os.Getenv("TELEGRAM_BOT_TOKEN"); tgToken != "" {
		staffAlerter, err := notify.NewStaffAlerter(tgToken)
		if err != nil {
			log.Printf("WARN: Staff alert bot unavailable: %v", err)
		} else {
			alerter = staffAlerter
		}
	}

	recorder := audit.NewRecorder(s)
	engine := workflow.NewEngine(s, dispatcher, recorder, alerter)
	hub := feedhub.NewHub(s)

	go recorder.Run()
	go dispatcher.Run()
	go hub.Run()

	h := handler.NewHandler(s, engine, recorder, hub, []byte(jwtSecret))

	r := gin.Default()
	h.RegisterRoutes(r)

	addr := os.Getenv("LISTEN_ADDR")
	if addr == "" {
		addr = ":8080"
	}
	server := &http.Server{
		Addr:           addr,
		Handler:        r,
		ReadTimeout:    10 * time.Second,
		WriteTimeout:   10 * time.Second,
		MaxHeaderBytes: 1 << 20,
	}

	log.Fatal(server.ListenAndServe())
}
