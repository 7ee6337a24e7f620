// Package reporting renders risk assessments for human and file consumption.
// The risk core itself only produces values; everything here is presentation.
package reporting

import (
	"github.com/GuidoEspinoza/Crypto-Trading-Analyzer-sub003/pkg/types"
)

// ConsoleReporter defines interface for console output
type ConsoleReporter interface {
	OutputAssessment(assessment *types.RiskAssessment)
	OutputAlertSummary(alerts []string)
}

// FileReporter defines interface for file output
type FileReporter interface {
	WriteAssessmentJSON(assessment *types.RiskAssessment, path string) error
	WriteAssessmentsXLSX(assessments []types.RiskAssessment, path string) error
}

// Reporter combines all reporting interfaces
type Reporter interface {
	ConsoleReporter
	FileReporter
}

// ReportingConfig holds configuration for reporting
type ReportingConfig struct {
	EnableConsole   bool
	EnableFiles     bool
	OutputDirectory string
	JSONEnabled     bool
	ExcelEnabled    bool
}

// DefaultReporter implements Reporter with console, JSON and Excel output.
type DefaultReporter struct{}

// NewDefaultReporter creates the standard reporter
func NewDefaultReporter() *DefaultReporter {
	return &DefaultReporter{}
}
