package config

import "time"

const (
	// Calls
	RingTimeout = 45 * time.Second // скільки кімната може висіти в "ringing"

	// Reputation
	InitialReputation        = 1000
	MaxReputation            = 1000
	MinReputation            = 0
	ConfirmedReportBonus     = 50
	ReputationRecoveryAmount = 100

	// Blocking
	BlockThresholdReputation = 500
	BlockThresholdFrequency  = 5
	BlockFrequencyWindow     = 24 * time.Hour
	BlockLevel1Duration      = 30 * time.Minute
	BlockLevel2Duration      = 6 * time.Hour
	BlockLevel3Duration      = 24 * time.Hour
)

var ReportWeights = map[string]int{
	"Low":      5,
	"Medium":   50,
	"Critical": 250,
}
