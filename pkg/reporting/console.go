package reporting

import (
	"fmt"
	"os"
	"sort"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/GuidoEspinoza/Crypto-Trading-Analyzer-sub003/pkg/types"
)

// OutputAssessment prints one assessment as a rounded table.
func (r *DefaultReporter) OutputAssessment(assessment *types.RiskAssessment) {
	if assessment == nil {
		return
	}

	verdict := "❌ REJECTED"
	if assessment.Approved {
		verdict = "✅ APPROVED"
	}

	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.SetStyle(table.StyleRounded)
	t.SetTitle(fmt.Sprintf("Risk Assessment — %s %s", assessment.Symbol, assessment.Direction))

	t.AppendRows([]table.Row{
		{"Entry Price", fmt.Sprintf("$%.2f", assessment.EntryPrice)},
		{"Overall Score", fmt.Sprintf("%.1f / 100 (%s)", assessment.OverallRiskScore, assessment.RiskLevel)},
		{"Verdict", verdict},
	})
	t.AppendSeparator()
	t.AppendRows([]table.Row{
		{"Recommended Size", fmt.Sprintf("$%.2f", assessment.PositionSizing.RecommendedSize)},
		{"Max Size", fmt.Sprintf("$%.2f", assessment.PositionSizing.MaxPositionSize)},
		{"Risk Amount", fmt.Sprintf("$%.2f", assessment.PositionSizing.RiskAmount)},
		{"Sizing Level", assessment.PositionSizing.RiskLevel.String()},
	})
	t.AppendSeparator()
	t.AppendRows([]table.Row{
		{"Stop Loss", fmt.Sprintf("$%.2f (%s)", assessment.StopLoss.CurrentStop, assessment.StopLoss.Type)},
		{"Take Profit", fmt.Sprintf("$%.2f (%s)", assessment.TakeProfit.CurrentTarget, assessment.TakeProfit.Type)},
		{"TP Adjustments", fmt.Sprintf("%d / %d", assessment.TakeProfit.AdjustmentsMade, assessment.TakeProfit.MaxAdjustments)},
	})
	t.AppendSeparator()
	for _, name := range sortedKeys(assessment.MarketRiskFactors) {
		t.AppendRow(table.Row{name, fmt.Sprintf("%.2f", assessment.MarketRiskFactors[name])})
	}

	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 2, Align: text.AlignRight},
	})
	t.Render()

	if len(assessment.Recommendations) > 0 {
		fmt.Println("Recommendations:")
		for _, rec := range assessment.Recommendations {
			fmt.Printf("  • %s\n", rec)
		}
	}
}

// OutputAlertSummary prints portfolio alerts, one line each.
func (r *DefaultReporter) OutputAlertSummary(alerts []string) {
	if len(alerts) == 0 {
		return
	}
	fmt.Println("⚠️  Portfolio alerts:")
	for _, alert := range alerts {
		fmt.Printf("  • %s\n", alert)
	}
}

func sortedKeys(m map[string]float64) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
