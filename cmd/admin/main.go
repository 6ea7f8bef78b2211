package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"rentgo/backend/internal/config"
	"rentgo/backend/internal/storage"

	"github.com/redis/go-redis/v9"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func main() {
	dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
		os.Getenv("DB_HOST"),
		os.Getenv("DB_USER"),
		os.Getenv("DB_PASSWORD"),
		os.Getenv("DB_NAME"),
		os.Getenv("DB_PORT"),
	)
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatalf("failed to connect database: %v", err)
	}

	redisAddr := os.Getenv("REDIS_ADDR")
	if redisAddr == "" {
		redisAddr = "localhost:6379"
	}
	rdb := redis.NewClient(&redis.Options{Addr: redisAddr})
	if _, err := rdb.Ping(context.Background()).Result(); err != nil {
		log.Fatalf("failed to connect redis: %v", err)
	}

	storageSvc := storage.NewStorageService(db, rdb)

	if len(os.Args) < 2 {
		fmt.Println("Usage: admin <command> [args]")
		os.Exit(1)
	}

	command := os.Args[1]

	switch command {
	case "block":
		if len(os.Args) < 3 {
			fmt.Println("Usage: admin block <user_id> [duration_in_hours]")
			os.Exit(1)
		}
		userID := os.Args[2]
		duration := 24
		if len(os.Args) > 3 {
			var err error
			duration, err = strconv.Atoi(os.Args[3])
			if err != nil {
				fmt.Println("Invalid duration. Please provide an integer.")
				os.Exit(1)
			}
		}
		if err := blockUser(storageSvc, userID, duration); err != nil {
			log.Fatalf("Error blocking user: %v", err)
		}
		fmt.Printf("User %s has been blocked from calling.\n", userID)
	case "unblock":
		if len(os.Args) != 3 {
			fmt.Println("Usage: admin unblock <user_id>")
			os.Exit(1)
		}
		userID := os.Args[2]
		if err := unblockUser(storageSvc, userID); err != nil {
			log.Fatalf("Error unblocking user: %v", err)
		}
		fmt.Printf("User %s has been unblocked.\n", userID)
	case "confirm-report":
		if len(os.Args) != 3 {
			fmt.Println("Usage: admin confirm-report <report_id>")
			os.Exit(1)
		}
		reportID, err := strconv.Atoi(os.Args[2])
		if err != nil {
			fmt.Println("Invalid report ID. Please provide an integer.")
			os.Exit(1)
		}
		if err := confirmReport(storageSvc, uint(reportID)); err != nil {
			log.Fatalf("Error confirming report: %v", err)
		}
		fmt.Printf("Report %d has been confirmed.\n", reportID)
	case "online":
		// Читаємо дзеркало присутності, яке веде хаб
		users, err := storageSvc.GetOnlineUsers()
		if err != nil {
			log.Fatalf("Error listing online users: %v", err)
		}
		fmt.Printf("%d user(s) online:\n", len(users))
		for _, id := range users {
			fmt.Println("  " + id)
		}
	default:
		fmt.Println("Unknown command")
		os.Exit(1)
	}
}

func blockUser(s storage.Storage, userID string, durationHours int) error {
	user, err := s.GetUserByID(userID)
	if err != nil {
		return err
	}
	until := time.Now().Add(time.Duration(durationHours) * time.Hour)
	user.IsBlocked = true
	user.BlockEndTime = until.Unix()
	user.LastBlockDate = time.Now().Unix()
	if err := s.UpdateUser(user); err != nil {
		return err
	}
	return s.BlockUser(userID, until)
}

func unblockUser(s storage.Storage, userID string) error {
	user, err := s.GetUserByID(userID)
	if err != nil {
		return err
	}
	user.IsBlocked = false
	user.BlockEndTime = 0
	if err := s.UpdateUser(user); err != nil {
		return err
	}
	return s.UnblockUser(userID)
}

func confirmReport(s storage.Storage, reportID uint) error {
	report, err := s.GetReportByID(reportID)
	if err != nil {
		return err
	}
	if report == nil {
		return fmt.Errorf("report %d not found", reportID)
	}
	return s.UpdateUserReputation(report.ReporterID, config.ConfirmedReportBonus)
}
