package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	"rentgo/backend/internal/api/handler"
	"rentgo/backend/internal/callhub"
	"rentgo/backend/internal/complaint"
	"rentgo/backend/internal/models"
	"rentgo/backend/internal/storage"
	"rentgo/backend/internal/telegram"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func setupDependencies() (*gorm.DB, *redis.Client) {
	// 1. PostgreSQL
	dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
		os.Getenv("DB_HOST"),
		os.Getenv("DB_USER"),
		os.Getenv("DB_PASSWORD"),
		os.Getenv("DB_NAME"),
		os.Getenv("DB_PORT"),
	)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatalf("Failed to connect PostgreSQL: %v", err)
	}

	// 2. Redis
	redisAddr := os.Getenv("REDIS_ADDR")
	if redisAddr == "" {
		redisAddr = "localhost:6379"
	}
	rdb := redis.NewClient(&redis.Options{
		Addr:     redisAddr,
		Password: os.Getenv("REDIS_PASSWORD"),
		DB:       0,
	})

	// Перевірка з'єднання Redis
	ctx := context.Background()
	if _, err := rdb.Ping(ctx).Result(); err != nil {
		log.Fatalf("Failed to connect Redis: %v", err)
	}

	// 3. Міграції (Створення таблиць)
	err = db.AutoMigrate(
		&models.User{},
		&models.ChatHistory{},
		&models.CallReport{},
	)
	if err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	log.Println("Database and Redis connections established, migrations complete.")
	return db, rdb
}

func main() {
	log.Println("Starting RentGo Realtime Backend...")

	if err := godotenv.Load(); err != nil {
		log.Println("Warning: Error loading .env file")
	}

	// 1. Ініціалізація залежностей
	db, rdb := setupDependencies()
	s := storage.NewStorageService(db, rdb)

	// 2. Ініціалізація Call Hub та сервісу скарг
	hub := callhub.NewManagerService(s)
	reports := complaint.NewService(s)

	// Telegram-сповіщення про пропущені дзвінки — опціональні
	if botToken := os.Getenv("TELEGRAM_BOT_TOKEN"); botToken != "" {
		notifier, err := telegram.NewNotifier(botToken, s)
		if err != nil {
			log.Fatalf("Не вдалося запустити Telegram-сповіщення: %v", err)
		}
		hub.SetNotifier(notifier)
	} else {
		log.Println("TELEGRAM_BOT_TOKEN не встановлено, сповіщення про пропущені дзвінки вимкнені")
	}

	// 3. Запуск головного диспетчера
	go hub.Run()

	// 4. Налаштування Gin та роутингу
	r := gin.Default()
	h := handler.NewHandler(hub, s, reports)

	// Роути
	r.POST("/auth/token", h.GetToken)      // Отримання JWT
	r.GET("/ws", h.ServeWebSocket)         // WebSocket Upgrade
	r.POST("/messages", h.SendMessage)     // Колаборатор чат-фічі
	r.GET("/history/:peer", h.GetHistory)  // Історія листування
	r.POST("/reports", h.CreateReport)     // Скарга після дзвінка

	// Запуск HTTP-сервера
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
