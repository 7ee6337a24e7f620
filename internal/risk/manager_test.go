package risk

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GuidoEspinoza/Crypto-Trading-Analyzer-sub003/internal/stoploss"
	"github.com/GuidoEspinoza/Crypto-Trading-Analyzer-sub003/internal/takeprofit"
	"github.com/GuidoEspinoza/Crypto-Trading-Analyzer-sub003/pkg/types"
)

func healthySignal() types.TradingSignal {
	return types.TradingSignal{
		Symbol:          "BTCUSDT",
		Direction:       types.DirectionBuy,
		Price:           50000,
		Confidence:      72,
		Regime:          types.RegimeTrending,
		ATR:             1000,
		VolumeConfirmed: true,
		Indicators:      types.IndicatorSnapshot{RSI: 55, MomentumStrength: 0.7, VolumeRatio: 1.3},
	}
}

func healthySnapshot() types.PortfolioSnapshot {
	return types.PortfolioSnapshot{
		Value:         100000,
		OpenPositions: map[string]types.OpenPosition{},
	}
}

// TestAssess_HealthyInputs tests the full pipeline on a clean signal
func TestAssess_HealthyInputs(t *testing.T) {
	manager := NewManager(nil, nil)

	assessment := manager.Assess(healthySignal(), healthySnapshot())

	assert.True(t, assessment.Approved)
	assert.GreaterOrEqual(t, assessment.OverallRiskScore, 0.0)
	assert.LessOrEqual(t, assessment.OverallRiskScore, 100.0)
	assert.Greater(t, assessment.PositionSizing.RecommendedSize, 0.0)
	assert.LessOrEqual(t, assessment.PositionSizing.RecommendedSize, assessment.PositionSizing.MaxPositionSize)
	assert.Less(t, assessment.StopLoss.CurrentStop, assessment.EntryPrice)
	assert.Greater(t, assessment.TakeProfit.CurrentTarget, assessment.EntryPrice)
	assert.NotEmpty(t, assessment.Recommendations)
	assert.NotEmpty(t, assessment.MarketRiskFactors)
}

// TestAssess_PortfolioMetricsComplete tests the metrics map contract
func TestAssess_PortfolioMetricsComplete(t *testing.T) {
	manager := NewManager(nil, nil)

	snapshot := healthySnapshot()
	snapshot.OpenPositions["ETHUSDT"] = types.OpenPosition{
		Symbol: "ETHUSDT", Direction: types.DirectionBuy, Size: 20000, EntryPrice: 3000,
	}
	assessment := manager.Assess(healthySignal(), snapshot)

	for _, key := range []string{
		"portfolio_value", "current_drawdown", "max_drawdown",
		"daily_pnl", "open_positions", "utilization", "risk_budget_used",
	} {
		_, ok := assessment.PortfolioMetrics[key]
		assert.True(t, ok, "missing portfolio metric %s", key)
	}
	assert.Equal(t, 1.0, assessment.PortfolioMetrics["open_positions"])
	assert.InDelta(t, 0.2, assessment.PortfolioMetrics["utilization"], 1e-9)
}

// TestAssess_DrawdownRejection tests the assess-but-reject path (Scenario B)
func TestAssess_DrawdownRejection(t *testing.T) {
	manager := NewManager(nil, nil)

	snapshot := healthySnapshot()
	snapshot.CurrentDrawdown = 0.12

	assessment := manager.Assess(healthySignal(), snapshot)

	assert.False(t, assessment.Approved)
	assert.Greater(t, assessment.PositionSizing.RecommendedSize, 0.0,
		"a rejected assessment still carries complete records")
	assert.Greater(t, assessment.StopLoss.CurrentStop, 0.0)
	assert.NotEmpty(t, assessment.Recommendations)
}

// TestAssess_DegradedOnBadPrice tests the conservative default path
func TestAssess_DegradedOnBadPrice(t *testing.T) {
	manager := NewManager(nil, nil)

	signal := healthySignal()
	signal.Price = 0

	assessment := manager.Assess(signal, healthySnapshot())

	assert.False(t, assessment.Approved)
	assert.Equal(t, 75.0, assessment.OverallRiskScore)
	assert.Equal(t, types.RiskHigh, assessment.RiskLevel)
	assert.Equal(t, types.StopFixed, assessment.StopLoss.Type)
	assert.Equal(t, types.TakeProfitFixed, assessment.TakeProfit.Type)
	assert.Greater(t, assessment.PositionSizing.RecommendedSize, 0.0)
	assert.Contains(t, assessment.Recommendations, "do not trade on this assessment")
}

// TestAssess_DegradedOnBadPortfolio tests the same default on a zero-value snapshot
func TestAssess_DegradedOnBadPortfolio(t *testing.T) {
	manager := NewManager(nil, nil)

	assessment := manager.Assess(healthySignal(), types.PortfolioSnapshot{})

	assert.False(t, assessment.Approved)
	assert.Equal(t, 75.0, assessment.OverallRiskScore)
	assert.Equal(t, "BTCUSDT", assessment.Symbol)
	assert.NotEmpty(t, assessment.Recommendations)
}

// TestAssess_ClampsAnomalousConfidence tests boundary normalization
func TestAssess_ClampsAnomalousConfidence(t *testing.T) {
	manager := NewManager(nil, nil)

	signal := healthySignal()
	signal.Confidence = 140

	assessment := manager.Assess(signal, healthySnapshot())
	assert.True(t, assessment.Approved, "over-range confidence clamps to 100 and assesses normally")
}

// TestUpdateStopLoss_Wrapper tests the live-position stop wrapper
func TestUpdateStopLoss_Wrapper(t *testing.T) {
	manager := NewManager(nil, nil)

	assessment := manager.Assess(healthySignal(), healthySnapshot())
	stop := assessment.StopLoss

	updated := manager.UpdateStopLoss("BTCUSDT", &stop, types.DirectionBuy, 50000,
		stoploss.Tick{Price: 55000, Momentum: 0.5, VolatilityRisk: 0.5, VolumeRatio: 1.0})
	assert.Greater(t, updated, assessment.StopLoss.CurrentStop)
	assert.Equal(t, updated, stop.CurrentStop)

	// A bad tick returns the stop in force without moving it.
	unchanged := manager.UpdateStopLoss("BTCUSDT", &stop, types.DirectionBuy, 50000,
		stoploss.Tick{Price: -1})
	assert.Equal(t, updated, unchanged)

	assert.Equal(t, 0.0, manager.UpdateStopLoss("BTCUSDT", nil, types.DirectionBuy, 50000,
		stoploss.Tick{Price: 55000}))
}

// TestUpdateTakeProfit_Wrapper tests the live-position target wrapper
func TestUpdateTakeProfit_Wrapper(t *testing.T) {
	manager := NewManager(nil, nil)

	assessment := manager.Assess(healthySignal(), healthySnapshot())
	target := assessment.TakeProfit
	require.NotEqual(t, types.TakeProfitFixed, target.Type)

	updated := manager.UpdateTakeProfit("BTCUSDT", &target, types.DirectionBuy, 50000,
		takeprofit.Tick{Price: 53000, Regime: types.RegimeTrending, Momentum: 0.5})
	assert.Greater(t, updated, assessment.TakeProfit.CurrentTarget)
	assert.Equal(t, 1, target.AdjustmentsMade)

	assert.Equal(t, 0.0, manager.UpdateTakeProfit("BTCUSDT", nil, types.DirectionBuy, 50000,
		takeprofit.Tick{Price: 53000}))
}

// TestRiskError_Unwrap tests the categorized error context
func TestRiskError_Unwrap(t *testing.T) {
	cause := fmt.Errorf("invalid tick price")
	err := wrapError(cause, ErrorCategoryStop, "BTCUSDT", "update")

	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "STOP_LOSS")
	assert.Contains(t, err.Error(), "BTCUSDT")

	var riskErr *RiskError
	assert.True(t, errors.As(error(err), &riskErr))
	assert.Equal(t, ErrorCategoryStop, riskErr.Category)
}
