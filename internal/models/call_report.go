package models

import "gorm.io/gorm"

// CallReport — скарга одного учасника дзвінка на іншого.
type CallReport struct {
	gorm.Model

	ReporterID     string `gorm:"type:text;not null;index"`
	ReportedUserID string `gorm:"type:text;not null;index"`
	CallID         string `gorm:"type:uuid"`
	ReportType     string // "Low", "Medium", "Critical"
	Reason         string
	Status         string // "new", "confirmed", "dismissed"
}
