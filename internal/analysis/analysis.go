// Package analysis provides functionalities for analyzing user behavior and reports.
// It includes logic for determining the severity of call reports and calculating
// their impact on user reputation.
package analysis

import "rentgo/backend/internal/config"

// GetWeight returns the weight (penalty) for a given report type.
// It returns 0 if the report type is not recognized.
func GetWeight(reportType string) int {
	return config.ReportWeights[reportType]
}
