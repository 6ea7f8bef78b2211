package complaint_test

import (
	"testing"
	"time"

	"rentgo/backend/internal/complaint"
	"rentgo/backend/internal/config"
	"rentgo/backend/internal/models"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// MockStorage implements the subset of storage.Storage the report service touches.
type MockStorage struct {
	mock.Mock
}

func (m *MockStorage) SaveUser(user *models.User) error { args := m.Called(user); return args.Error(0) }

func (m *MockStorage) SaveUserIfNotExists(userID string) (*models.User, error) {
	args := m.Called(userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockStorage) GetUserByID(userID string) (*models.User, error) {
	args := m.Called(userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockStorage) UpdateUser(user *models.User) error { args := m.Called(user); return args.Error(0) }

func (m *MockStorage) UpdateUserReputation(userID string, delta int) error {
	args := m.Called(userID, delta)
	return args.Error(0)
}

func (m *MockStorage) SaveMessage(msg *models.ChatMessage) error {
	args := m.Called(msg)
	return args.Error(0)
}

func (m *MockStorage) GetChatHistory(userID, peerID string) ([]models.ChatHistory, error) {
	args := m.Called(userID, peerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.ChatHistory), args.Error(1)
}

func (m *MockStorage) PublishDelivery(msg models.ChatMessage) error {
	args := m.Called(msg)
	return args.Error(0)
}

func (m *MockStorage) SubscribeDeliveries() *redis.PubSub { return nil }

func (m *MockStorage) SaveReport(report *models.CallReport) error {
	args := m.Called(report)
	return args.Error(0)
}

func (m *MockStorage) GetReportByID(id uint) (*models.CallReport, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.CallReport), args.Error(1)
}

func (m *MockStorage) GetReportsForUser(userID string, since time.Time) ([]models.CallReport, error) {
	args := m.Called(userID, since)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.CallReport), args.Error(1)
}

func (m *MockStorage) IsUserBlocked(userID string) (bool, error) {
	args := m.Called(userID)
	return args.Bool(0), args.Error(1)
}

func (m *MockStorage) BlockUser(userID string, until time.Time) error {
	args := m.Called(userID, until)
	return args.Error(0)
}

func (m *MockStorage) UnblockUser(userID string) error {
	args := m.Called(userID)
	return args.Error(0)
}

func (m *MockStorage) AddOnlineUser(userID string) error {
	args := m.Called(userID)
	return args.Error(0)
}

func (m *MockStorage) RemoveOnlineUser(userID string) error {
	args := m.Called(userID)
	return args.Error(0)
}

func (m *MockStorage) GetOnlineUsers() ([]string, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

// TestHandleReport_AppliesPenaltyWithoutBlock: репутація просідає на вагу
// скарги, але поріг блокування не перетнуто.
func TestHandleReport_AppliesPenaltyWithoutBlock(t *testing.T) {
	storageMock := new(MockStorage)
	svc := complaint.NewService(storageMock)

	report := &models.CallReport{
		ReporterID:     "u1",
		ReportedUserID: "u2",
		ReportType:     "Low",
	}

	storageMock.On("SaveReport", report).Return(nil)
	storageMock.On("UpdateUserReputation", "u2", -config.ReportWeights["Low"]).Return(nil)
	storageMock.On("GetUserByID", "u2").Return(&models.User{ID: "u2", ReputationScore: 900}, nil)
	storageMock.On("GetReportsForUser", "u2", mock.AnythingOfType("time.Time")).
		Return([]models.CallReport{}, nil)

	err := svc.HandleReport(report)

	assert.NoError(t, err)
	storageMock.AssertNotCalled(t, "UpdateUser", mock.Anything)
	storageMock.AssertNotCalled(t, "BlockUser", mock.Anything, mock.Anything)
}

// TestHandleReport_BlocksBelowReputationThreshold: репутація нижче порогу —
// користувача блокують і ставлять швидкий ключ у Redis.
func TestHandleReport_BlocksBelowReputationThreshold(t *testing.T) {
	storageMock := new(MockStorage)
	svc := complaint.NewService(storageMock)

	report := &models.CallReport{
		ReporterID:     "u1",
		ReportedUserID: "u2",
		ReportType:     "Critical",
	}
	reported := &models.User{ID: "u2", ReputationScore: 300}

	storageMock.On("SaveReport", report).Return(nil)
	storageMock.On("UpdateUserReputation", "u2", -config.ReportWeights["Critical"]).Return(nil)
	storageMock.On("GetUserByID", "u2").Return(reported, nil)
	storageMock.On("UpdateUser", reported).Return(nil)
	storageMock.On("BlockUser", "u2", mock.AnythingOfType("time.Time")).Return(nil)

	err := svc.HandleReport(report)

	assert.NoError(t, err)
	assert.True(t, reported.IsBlocked)
	assert.Equal(t, 1, reported.BlockLevel, "first offence gets level 1")
	assert.Greater(t, reported.BlockEndTime, time.Now().Unix())
	storageMock.AssertCalled(t, "BlockUser", "u2", mock.AnythingOfType("time.Time"))
}

// TestHandleReport_FrequencyBlock: репутація в нормі, але скарг за вікно
// більше порогу.
func TestHandleReport_FrequencyBlock(t *testing.T) {
	storageMock := new(MockStorage)
	svc := complaint.NewService(storageMock)

	report := &models.CallReport{ReporterID: "u1", ReportedUserID: "u2", ReportType: "Low"}
	reported := &models.User{ID: "u2", ReputationScore: 950}

	recent := make([]models.CallReport, config.BlockThresholdFrequency+1)

	storageMock.On("SaveReport", report).Return(nil)
	storageMock.On("UpdateUserReputation", "u2", mock.AnythingOfType("int")).Return(nil)
	storageMock.On("GetUserByID", "u2").Return(reported, nil)
	storageMock.On("GetReportsForUser", "u2", mock.AnythingOfType("time.Time")).Return(recent, nil)
	storageMock.On("UpdateUser", reported).Return(nil)
	storageMock.On("BlockUser", "u2", mock.AnythingOfType("time.Time")).Return(nil)

	err := svc.HandleReport(report)

	assert.NoError(t, err)
	assert.True(t, reported.IsBlocked)
}

// TestHandleReport_RepeatOffenceEscalates: повторне блокування протягом
// тижня піднімає рівень до 2.
func TestHandleReport_RepeatOffenceEscalates(t *testing.T) {
	storageMock := new(MockStorage)
	svc := complaint.NewService(storageMock)

	reported := &models.User{
		ID:              "u2",
		ReputationScore: 200,
		LastBlockDate:   time.Now().Add(-48 * time.Hour).Unix(),
	}

	storageMock.On("GetUserByID", "u2").Return(reported, nil)
	storageMock.On("UpdateUser", reported).Return(nil)
	storageMock.On("BlockUser", "u2", mock.AnythingOfType("time.Time")).Return(nil)

	err := svc.CheckForBlock("u2")

	assert.NoError(t, err)
	assert.Equal(t, 2, reported.BlockLevel)
}
