package reporting

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/GuidoEspinoza/Crypto-Trading-Analyzer-sub003/pkg/types"
)

// FormatAssessment returns the indented JSON encoding of an assessment.
func FormatAssessment(assessment *types.RiskAssessment) ([]byte, error) {
	return json.MarshalIndent(assessment, "", "  ")
}

// WriteAssessmentJSON writes one assessment to a JSON file, creating parent
// directories as needed.
func (r *DefaultReporter) WriteAssessmentJSON(assessment *types.RiskAssessment, path string) error {
	if assessment == nil {
		return fmt.Errorf("nil assessment")
	}
	data, err := FormatAssessment(assessment)
	if err != nil {
		return fmt.Errorf("failed to encode assessment: %w", err)
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write assessment JSON: %w", err)
	}
	return nil
}
