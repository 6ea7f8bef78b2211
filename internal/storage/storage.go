package storage

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"time"

	"rentgo/backend/internal/config"
	"rentgo/backend/internal/models"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Ключі Redis, які ділимо з admin CLI та іншими сервісами.
const (
	onlineSetKey       = "presence:online"
	deliveryChannelKey = "delivery:notify"
	blockKeyPrefix     = "block:"
)

type Storage interface {
	SaveUser(user *models.User) error
	SaveUserIfNotExists(userID string) (*models.User, error)
	GetUserByID(userID string) (*models.User, error)
	UpdateUser(user *models.User) error
	UpdateUserReputation(userID string, delta int) error

	SaveMessage(msg *models.ChatMessage) error
	GetChatHistory(userID, peerID string) ([]models.ChatHistory, error)
	PublishDelivery(msg models.ChatMessage) error
	SubscribeDeliveries() *redis.PubSub

	SaveReport(report *models.CallReport) error
	GetReportByID(id uint) (*models.CallReport, error)
	GetReportsForUser(userID string, since time.Time) ([]models.CallReport, error)

	IsUserBlocked(userID string) (bool, error)
	BlockUser(userID string, until time.Time) error
	UnblockUser(userID string) error

	AddOnlineUser(userID string) error
	RemoveOnlineUser(userID string) error
	GetOnlineUsers() ([]string, error)
}

type Service struct {
	DB    *gorm.DB
	Redis *redis.Client
	Ctx   context.Context
}

// NewStorageService Constructor
func NewStorageService(db *gorm.DB, rdb *redis.Client) *Service {
	return &Service{
		DB:    db,
		Redis: rdb,
		Ctx:   context.Background(),
	}
}

// SaveUser зберігає користувача в PostgreSQL
func (s *Service) SaveUser(user *models.User) error {
	return s.DB.Save(user).Error
}

// SaveUserIfNotExists створює користувача з дефолтною репутацією, якщо його
// ще немає (профіль підтягнеться з CRUD-сервісу пізніше).
func (s *Service) SaveUserIfNotExists(userID string) (*models.User, error) {
	var user models.User

	defaults := models.User{
		ID:              userID,
		ReputationScore: config.InitialReputation,
	}

	result := s.DB.Where("id = ?", userID).FirstOrCreate(&user, defaults)
	if result.Error != nil {
		log.Printf("ERROR: Failed to save user %s on first contact: %v", userID, result.Error)
		return nil, result.Error
	}

	if result.RowsAffected > 0 {
		log.Printf("INFO: New user %s saved to database.", user.ID)
	}

	return &user, nil
}

func (s *Service) GetUserByID(userID string) (*models.User, error) {
	var user models.User

	err := s.DB.Where("id = ?", userID).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, errors.New("user not found")
	}
	if err != nil {
		log.Printf("ERROR: Failed to get user %s: %v", userID, err)
		return nil, err
	}
	return &user, nil
}

func (s *Service) UpdateUser(user *models.User) error {
	return s.DB.Save(user).Error
}

// UpdateUserReputation зсуває репутацію на delta (може бути від'ємною).
func (s *Service) UpdateUserReputation(userID string, delta int) error {
	return s.DB.Model(&models.User{}).
		Where("id = ?", userID).
		Update("reputation_score", gorm.Expr("reputation_score + ?", delta)).Error
}

// SaveMessage зберігає повідомлення в PostgreSQL та оновлює ChatMessage ID
func (s *Service) SaveMessage(msg *models.ChatMessage) error {
	history := models.ChatHistory{
		SenderID:   msg.SenderID,
		ReceiverID: msg.ReceiverID,
		Content:    msg.Content,
		Type:       msg.Type,
		Metadata:   msg.Metadata,
	}

	// Створення запису в БД. history.ID буде заповнено GORM.
	if err := s.DB.Create(&history).Error; err != nil {
		log.Printf("ERROR: Failed to save message %s -> %s: %v", msg.SenderID, msg.ReceiverID, err)
		return err
	}

	// Оновлюємо ID в оригінальній структурі ChatMessage, щоб його можна було опублікувати.
	msg.ID = history.ID

	return nil
}

// GetChatHistory отримує історію листування між двома користувачами
func (s *Service) GetChatHistory(userID, peerID string) ([]models.ChatHistory, error) {
	var history []models.ChatHistory

	err := s.DB.
		Where("(sender_id = ? AND receiver_id = ?) OR (sender_id = ? AND receiver_id = ?)",
			userID, peerID, peerID, userID).
		Order("created_at asc").
		Find(&history).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return history, nil // Пустий список, а не помилка
		}
		log.Printf("ERROR: Failed to get chat history %s <-> %s: %v", userID, peerID, err)
		return nil, err
	}
	return history, nil
}

// PublishDelivery публікує збережене повідомлення в Redis Pub/Sub, звідки
// його підхопить хаб і донесе до живого з'єднання адресата.
func (s *Service) PublishDelivery(msg models.ChatMessage) error {
	msgBytes, err := json.Marshal(msg)
	if err != nil {
		return err
	}

	return s.Redis.Publish(s.Ctx, deliveryChannelKey, string(msgBytes)).Err()
}

func (s *Service) SubscribeDeliveries() *redis.PubSub {
	return s.Redis.Subscribe(s.Ctx, deliveryChannelKey)
}

func (s *Service) SaveReport(report *models.CallReport) error {
	if report.Status == "" {
		report.Status = "new"
	}

	result := s.DB.Create(report)
	if result.Error != nil {
		log.Printf("ERROR: Failed to save report on %s: %v", report.ReportedUserID, result.Error)
		return result.Error
	}

	return nil
}

func (s *Service) GetReportByID(id uint) (*models.CallReport, error) {
	var report models.CallReport

	err := s.DB.First(&report, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &report, nil
}

func (s *Service) GetReportsForUser(userID string, since time.Time) ([]models.CallReport, error) {
	var reports []models.CallReport

	err := s.DB.
		Where("reported_user_id = ? AND created_at > ?", userID, since).
		Find(&reports).Error
	if err != nil {
		return nil, err
	}
	return reports, nil
}

// IsUserBlocked перевіряє статус блокування в Redis (швидка перевірка)
func (s *Service) IsUserBlocked(userID string) (bool, error) {
	key := blockKeyPrefix + userID
	status, err := s.Redis.Get(s.Ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return status != "", nil
}

// BlockUser ставить block-ключ з TTL до кінця блокування.
func (s *Service) BlockUser(userID string, until time.Time) error {
	ttl := time.Until(until)
	if ttl <= 0 {
		return nil
	}
	return s.Redis.Set(s.Ctx, blockKeyPrefix+userID, "active", ttl).Err()
}

func (s *Service) UnblockUser(userID string) error {
	return s.Redis.Del(s.Ctx, blockKeyPrefix+userID).Err()
}

// AddOnlineUser додає користувача до дзеркала присутності в Redis
func (s *Service) AddOnlineUser(userID string) error {
	return s.Redis.SAdd(s.Ctx, onlineSetKey, userID).Err()
}

// RemoveOnlineUser видаляє користувача з дзеркала присутності
func (s *Service) RemoveOnlineUser(userID string) error {
	return s.Redis.SRem(s.Ctx, onlineSetKey, userID).Err()
}

// GetOnlineUsers повертає всіх користувачів, які зараз онлайн (за дзеркалом)
func (s *Service) GetOnlineUsers() ([]string, error) {
	return s.Redis.SMembers(s.Ctx, onlineSetKey).Result()
}
