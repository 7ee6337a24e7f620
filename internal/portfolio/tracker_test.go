package portfolio

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GuidoEspinoza/Crypto-Trading-Analyzer-sub003/pkg/config"
	"github.com/GuidoEspinoza/Crypto-Trading-Analyzer-sub003/pkg/types"
)

var testTime = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func position(symbol string, size float64) types.OpenPosition {
	return types.OpenPosition{
		Symbol:     symbol,
		Direction:  types.DirectionBuy,
		Size:       size,
		EntryPrice: 50000,
		OpenedAt:   testTime,
	}
}

// TestOpenClosePosition tests the position bookkeeping round trip
func TestOpenClosePosition(t *testing.T) {
	tracker := NewTracker(nil, 100000)

	tracker.OpenPosition(position("BTCUSDT", 10000))
	tracker.OpenPosition(position("ETHUSDT", 5000))
	assert.Len(t, tracker.Snapshot().OpenPositions, 2)

	tracker.ClosePosition("BTCUSDT", 250)
	snapshot := tracker.Snapshot()
	assert.Len(t, snapshot.OpenPositions, 1)
	assert.Equal(t, 250.0, snapshot.DailyPnL)

	// Closing an unknown symbol changes nothing.
	tracker.ClosePosition("XRPUSDT", 999)
	assert.Equal(t, 250.0, tracker.Snapshot().DailyPnL)
}

// TestUpdateValue_DrawdownTracking tests peak and drawdown maintenance
func TestUpdateValue_DrawdownTracking(t *testing.T) {
	tracker := NewTracker(nil, 100000)

	tracker.UpdateValue(110000, testTime)
	snapshot := tracker.Snapshot()
	assert.Equal(t, 0.0, snapshot.CurrentDrawdown, "a new peak has no drawdown")

	tracker.UpdateValue(99000, testTime)
	snapshot = tracker.Snapshot()
	assert.InDelta(t, 0.1, snapshot.CurrentDrawdown, 1e-9, "10% off the 110k peak")
	assert.InDelta(t, 0.1, snapshot.MaxDrawdown, 1e-9)

	// Recovery clears the current drawdown but not the historical worst.
	tracker.UpdateValue(110000, testTime)
	snapshot = tracker.Snapshot()
	assert.Equal(t, 0.0, snapshot.CurrentDrawdown)
	assert.InDelta(t, 0.1, snapshot.MaxDrawdown, 1e-9)
}

// TestUtilizationAndRiskBudget tests the exposure accounting
func TestUtilizationAndRiskBudget(t *testing.T) {
	cfg := config.DefaultRiskConfig()
	tracker := NewTracker(cfg, 100000)

	assert.Equal(t, 0.0, tracker.Utilization())

	tracker.OpenPosition(position("BTCUSDT", 10000))
	tracker.OpenPosition(position("ETHUSDT", 15000))
	assert.InDelta(t, 0.25, tracker.Utilization(), 1e-9)
	assert.InDelta(t, 2*cfg.MaxPortfolioRisk, tracker.RiskBudgetUsed(), 1e-9)
}

// TestCheckAlerts tests the three limit checks
func TestCheckAlerts(t *testing.T) {
	cfg := config.DefaultRiskConfig()
	tracker := NewTracker(cfg, 100000)

	assert.Empty(t, tracker.CheckAlerts(testTime))

	// 9% drawdown sits between the 8% alert threshold and the 10% limit.
	tracker.UpdateValue(91000, testTime)
	alerts := tracker.CheckAlerts(testTime)
	require.Len(t, alerts, 1)
	assert.Equal(t, "drawdown", alerts[0].Type)
	assert.Equal(t, SeverityWarning, alerts[0].Severity)

	// Past the hard limit the severity escalates.
	tracker.UpdateValue(88000, testTime)
	alerts = tracker.CheckAlerts(testTime)
	require.Len(t, alerts, 1)
	assert.Equal(t, SeverityCritical, alerts[0].Severity)
}

// TestCheckAlerts_PositionAndExposureLimits tests the count and exposure breaches
func TestCheckAlerts_PositionAndExposureLimits(t *testing.T) {
	cfg := config.DefaultRiskConfig()
	cfg.MaxOpenPositions = 2
	tracker := NewTracker(cfg, 100000)

	tracker.OpenPosition(position("BTCUSDT", 30000))
	tracker.OpenPosition(position("ETHUSDT", 30000))
	tracker.OpenPosition(position("SOLUSDT", 10000))

	alerts := tracker.CheckAlerts(testTime)
	require.Len(t, alerts, 2)

	byType := map[string]Alert{}
	for _, alert := range alerts {
		byType[alert.Type] = alert
	}
	assert.Equal(t, SeverityWarning, byType["open_positions"].Severity)
	assert.Equal(t, SeverityCritical, byType["exposure"].Severity)
	assert.InDelta(t, 0.7, byType["exposure"].Current, 1e-9)
}

// TestSnapshot_Isolation tests that snapshots share nothing with the tracker
func TestSnapshot_Isolation(t *testing.T) {
	tracker := NewTracker(nil, 100000)
	tracker.OpenPosition(position("BTCUSDT", 10000))

	snapshot := tracker.Snapshot()
	snapshot.OpenPositions["FAKEUSDT"] = position("FAKEUSDT", 99999)
	snapshot.Value = 1

	fresh := tracker.Snapshot()
	assert.Len(t, fresh.OpenPositions, 1)
	assert.Equal(t, 100000.0, fresh.Value)
}

// TestDailyReset tests that the daily PnL zeroes on a new calendar day
func TestDailyReset(t *testing.T) {
	tracker := NewTracker(nil, 100000)
	tracker.OpenPosition(position("BTCUSDT", 10000))
	tracker.ClosePosition("BTCUSDT", 500)
	require.Equal(t, 500.0, tracker.Snapshot().DailyPnL)

	tracker.UpdateValue(100500, time.Now().Add(48*time.Hour))
	assert.Equal(t, 0.0, tracker.Snapshot().DailyPnL)
}
