package reporting

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"

	"github.com/GuidoEspinoza/Crypto-Trading-Analyzer-sub003/pkg/types"
)

// WriteAssessmentsXLSX writes an assessment log to an Excel workbook, one row
// per assessment.
func (r *DefaultReporter) WriteAssessmentsXLSX(assessments []types.RiskAssessment, path string) error {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	fx := excelize.NewFile()
	defer fx.Close()

	const sheet = "Assessments"
	fx.SetSheetName(fx.GetSheetName(0), sheet)

	headerStyle, err := fx.NewStyle(&excelize.Style{
		Font: &excelize.Font{
			Bold:   true,
			Size:   11,
			Color:  "FFFFFF",
			Family: "Calibri",
		},
		Fill: excelize.Fill{
			Type:    "pattern",
			Color:   []string{"1F4E79"},
			Pattern: 1,
		},
	})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}

	headers := []string{
		"Timestamp", "Symbol", "Direction", "Entry Price", "Score", "Level",
		"Recommended Size", "Max Size", "Risk Amount", "Stop Loss", "Take Profit",
		"TP Adjustments", "Approved", "Reasoning",
	}
	for i, header := range headers {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return err
		}
		if err := fx.SetCellValue(sheet, cell, header); err != nil {
			return err
		}
	}
	endHeader, _ := excelize.CoordinatesToCellName(len(headers), 1)
	if err := fx.SetCellStyle(sheet, "A1", endHeader, headerStyle); err != nil {
		return err
	}

	for i, a := range assessments {
		row := i + 2
		values := []interface{}{
			a.Timestamp.Format("2006-01-02 15:04:05"),
			a.Symbol,
			a.Direction.String(),
			a.EntryPrice,
			a.OverallRiskScore,
			a.RiskLevel.String(),
			a.PositionSizing.RecommendedSize,
			a.PositionSizing.MaxPositionSize,
			a.PositionSizing.RiskAmount,
			a.StopLoss.CurrentStop,
			a.TakeProfit.CurrentTarget,
			fmt.Sprintf("%d/%d", a.TakeProfit.AdjustmentsMade, a.TakeProfit.MaxAdjustments),
			a.Approved,
			a.PositionSizing.Reasoning,
		}
		for j, value := range values {
			cell, err := excelize.CoordinatesToCellName(j+1, row)
			if err != nil {
				return err
			}
			if err := fx.SetCellValue(sheet, cell, value); err != nil {
				return err
			}
		}
	}

	return fx.SaveAs(path)
}
