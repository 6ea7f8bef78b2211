package models

import "gorm.io/gorm"

// ChatHistory represents a saved chat message in the PostgreSQL database.
// The embedded gorm.Model provides ID, CreatedAt, UpdatedAt, and DeletedAt fields,
// which serve as the message ID and timestamps.
type ChatHistory struct {
	gorm.Model // Includes fields ID (primary key, uint), CreatedAt, UpdatedAt, DeletedAt

	// SenderID is the ID of the user who sent the message.
	SenderID string `gorm:"type:text;not null;index:idx_conversation"`
	// ReceiverID is the ID of the user the message is addressed to.
	ReceiverID string `gorm:"type:text;not null;index:idx_conversation"`
	// Content is the main content of the message (e.g., text, image URL).
	Content string `gorm:"type:text;not null"`
	// Type indicates the kind of message (e.g., "text", "photo").
	Type string `gorm:"type:text;not null"`
	// Metadata contains additional information, such as captions for media.
	Metadata string `gorm:"type:text"`
	// Delivered is set when the recipient had a live connection at send time.
	Delivered bool
}
