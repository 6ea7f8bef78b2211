package models

import (
	"github.com/google/uuid"
	"github.com/lib/pq" // Необхідний для pq.StringArray
	"gorm.io/gorm"
)

// User представляє користувача застосунку (орендар або власник житла).
// Профільні дані (ім'я, аватар) дублюються сюди з основного CRUD-сервісу,
// щоб сигнальний бекенд міг віддавати їх у подіях дзвінків.
type User struct {
	ID          string         `gorm:"primaryKey" json:"id"` // UUID
	DisplayName string         `json:"display_name"`
	AvatarURL   string         `json:"avatar_url"`
	TelegramID  string         `gorm:"uniqueIndex"` // Прив'язаний Telegram-акаунт, може бути порожнім
	Languages   pq.StringArray `gorm:"type:text[]" json:"languages"`

	// Репутація та блокування (наповнюється сервісом скарг)
	ReputationScore int
	IsBlocked       bool
	BlockEndTime    int64
	BlockLevel      int
	LastBlockDate   int64

	// Locale використовується для локалізації сповіщень про пропущені дзвінки.
	Locale string
}

// BeforeCreate — це хук GORM, який викликається перед створенням запису.
// Він генерує новий UUID для користувача, якщо ID ще не встановлено.
func (u *User) BeforeCreate(tx *gorm.DB) (err error) {
	if u.ID == "" {
		u.ID = uuid.New().String()
	}
	return
}
