// Package complaint provides the core logic for handling call reports,
// including reputation management and applying call restrictions.
package complaint

import (
	"time"

	"rentgo/backend/internal/analysis"
	"rentgo/backend/internal/config"
	"rentgo/backend/internal/models"
	"rentgo/backend/internal/storage"
)

// Service handles the business logic for call reports.
type Service struct {
	Storage storage.Storage
}

// NewService creates a new report service.
func NewService(s storage.Storage) *Service {
	return &Service{Storage: s}
}

// HandleReport processes a new report: persists it, applies the reputation
// penalty and checks whether the reported user must be blocked from calling.
func (s *Service) HandleReport(report *models.CallReport) error {
	if err := s.Storage.SaveReport(report); err != nil {
		return err
	}

	weight := analysis.GetWeight(report.ReportType)
	if err := s.Storage.UpdateUserReputation(report.ReportedUserID, -weight); err != nil {
		return err
	}

	return s.CheckForBlock(report.ReportedUserID)
}

// CheckForBlock checks if a user should be blocked based on their reputation
// and recent report history.
func (s *Service) CheckForBlock(userID string) error {
	user, err := s.Storage.GetUserByID(userID)
	if err != nil {
		return err
	}

	// Threshold block
	if user.ReputationScore < config.BlockThresholdReputation {
		return s.applyBlock(user)
	}

	// Frequency block
	reports, err := s.Storage.GetReportsForUser(userID, time.Now().Add(-config.BlockFrequencyWindow))
	if err != nil {
		return err
	}
	if len(reports) > config.BlockThresholdFrequency {
		return s.applyBlock(user)
	}

	return nil
}

func (s *Service) applyBlock(user *models.User) error {
	level := 1
	if user.LastBlockDate > 0 {
		if time.Since(time.Unix(user.LastBlockDate, 0)) < 7*24*time.Hour {
			level = 2
		} else if time.Since(time.Unix(user.LastBlockDate, 0)) < 30*24*time.Hour {
			level = 3
		}
	}

	duration := getBlockDuration(level)
	until := time.Now().Add(duration)

	user.IsBlocked = true
	user.BlockEndTime = until.Unix()
	user.BlockLevel = level
	user.LastBlockDate = time.Now().Unix()
	if err := s.Storage.UpdateUser(user); err != nil {
		return err
	}

	// Швидкий ключ у Redis, щоб хаб не ходив у Postgres на кожен initiate-call.
	return s.Storage.BlockUser(user.ID, until)
}

func getBlockDuration(level int) time.Duration {
	switch level {
	case 1:
		return config.BlockLevel1Duration
	case 2:
		return config.BlockLevel2Duration
	default:
		return config.BlockLevel3Duration
	}
}
