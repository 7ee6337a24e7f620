package stoploss

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GuidoEspinoza/Crypto-Trading-Analyzer-sub003/pkg/config"
	"github.com/GuidoEspinoza/Crypto-Trading-Analyzer-sub003/pkg/types"
)

var testTime = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func buySignal(regime types.MarketRegime) types.TradingSignal {
	return types.TradingSignal{
		Symbol:    "BTCUSDT",
		Direction: types.DirectionBuy,
		Price:     50000,
		Regime:    regime,
		ATR:       1000,
	}
}

func neutralTick(price float64) Tick {
	return Tick{Price: price, Momentum: 0.5, VolatilityRisk: 0.5, VolumeRatio: 1.0}
}

// TestInitialize_ATRDerived tests the regime-adjusted ATR stop (Scenario A entry)
func TestInitialize_ATRDerived(t *testing.T) {
	engine := NewEngine(nil)

	stop := engine.Initialize(buySignal(types.RegimeTrending), testTime)

	assert.InDelta(t, 48000, stop.InitialStop, 1e-9, "2x ATR below entry")
	assert.Equal(t, stop.InitialStop, stop.CurrentStop)
	assert.Equal(t, types.StopATRBased, stop.Type)
	assert.False(t, stop.Trailing)
}

// TestInitialize_RegimeAdjustsMultiplier tests wider volatile and narrower ranging stops
func TestInitialize_RegimeAdjustsMultiplier(t *testing.T) {
	engine := NewEngine(nil)

	volatile := engine.Initialize(buySignal(types.RegimeVolatile), testTime)
	ranging := engine.Initialize(buySignal(types.RegimeRanging), testTime)
	trending := engine.Initialize(buySignal(types.RegimeTrending), testTime)

	assert.Less(t, volatile.InitialStop, trending.InitialStop, "volatile stop sits further away")
	assert.Greater(t, ranging.InitialStop, trending.InitialStop, "ranging stop sits closer")
}

// TestInitialize_SignalSuppliedStop tests that a valid supplied stop is honored
func TestInitialize_SignalSuppliedStop(t *testing.T) {
	engine := NewEngine(nil)

	signal := buySignal(types.RegimeTrending)
	signal.StopLoss = 47500

	stop := engine.Initialize(signal, testTime)
	assert.Equal(t, 47500.0, stop.InitialStop)
	assert.Equal(t, types.StopFixed, stop.Type)
}

// TestInitialize_WrongSideStopIsReplaced tests the input-anomaly clamp
func TestInitialize_WrongSideStopIsReplaced(t *testing.T) {
	engine := NewEngine(nil)

	signal := buySignal(types.RegimeTrending)
	signal.StopLoss = 51000 // above entry on a BUY

	stop := engine.Initialize(signal, testTime)
	assert.Less(t, stop.InitialStop, signal.Price, "stop must protect a BUY from below")
	assert.Equal(t, types.StopATRBased, stop.Type)
}

// TestInitialize_SellDirection tests the symmetric SELL stop placement
func TestInitialize_SellDirection(t *testing.T) {
	engine := NewEngine(nil)

	signal := buySignal(types.RegimeTrending)
	signal.Direction = types.DirectionSell

	stop := engine.Initialize(signal, testTime)
	assert.Greater(t, stop.InitialStop, signal.Price)
}

// TestUpdate_NoTrailingBeforeActivation tests the profit gate
func TestUpdate_NoTrailingBeforeActivation(t *testing.T) {
	engine := NewEngine(nil)
	stop := engine.Initialize(buySignal(types.RegimeTrending), testTime)

	// +0.5% is below the 1% activation threshold.
	updated, err := engine.Update(&stop, types.DirectionBuy, 50000, neutralTick(50250), testTime)
	require.NoError(t, err)
	assert.Equal(t, 48000.0, updated)
	assert.False(t, stop.Trailing)
}

// TestUpdate_ScenarioA tests the trailing result after a 10% rally
func TestUpdate_ScenarioA(t *testing.T) {
	engine := NewEngine(nil)
	stop := engine.Initialize(buySignal(types.RegimeTrending), testTime)

	updated, err := engine.Update(&stop, types.DirectionBuy, 50000, neutralTick(55000), testTime)
	require.NoError(t, err)

	assert.True(t, stop.Trailing)
	assert.Greater(t, updated, 48000.0)
	assert.Less(t, updated, 55000.0)
}

// TestUpdate_MonotoneOverTickSequence tests the one-directional guarantee
func TestUpdate_MonotoneOverTickSequence(t *testing.T) {
	engine := NewEngine(nil)
	stop := engine.Initialize(buySignal(types.RegimeTrending), testTime)

	prices := []float64{50500, 51500, 53000, 52000, 50800, 54000, 53500, 56000}
	previous := stop.CurrentStop
	for _, price := range prices {
		updated, err := engine.Update(&stop, types.DirectionBuy, 50000, neutralTick(price), testTime)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, updated, previous, "stop regressed at price %.0f", price)
		previous = updated
	}
}

// TestUpdate_SellMonotone tests the symmetric SELL ratchet
func TestUpdate_SellMonotone(t *testing.T) {
	engine := NewEngine(nil)
	signal := buySignal(types.RegimeTrending)
	signal.Direction = types.DirectionSell
	stop := engine.Initialize(signal, testTime)

	prices := []float64{49400, 48500, 49000, 47000, 47500, 46000}
	previous := stop.CurrentStop
	for _, price := range prices {
		updated, err := engine.Update(&stop, types.DirectionSell, 50000, neutralTick(price), testTime)
		require.NoError(t, err)
		assert.LessOrEqual(t, updated, previous, "stop regressed at price %.0f", price)
		previous = updated
	}
}

// TestUpdate_IdempotentAtUnchangedPrice tests repeated ticks at one price
func TestUpdate_IdempotentAtUnchangedPrice(t *testing.T) {
	engine := NewEngine(nil)
	stop := engine.Initialize(buySignal(types.RegimeTrending), testTime)

	first, err := engine.Update(&stop, types.DirectionBuy, 50000, neutralTick(55000), testTime)
	require.NoError(t, err)
	second, err := engine.Update(&stop, types.DirectionBuy, 50000, neutralTick(55000), testTime)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

// TestUpdate_ContextTightensAndWidens tests the additive distance terms
func TestUpdate_ContextTightensAndWidens(t *testing.T) {
	cfg := config.DefaultRiskConfig()
	engine := NewEngine(cfg)

	wide := engine.trailingDistance(0.02, Tick{Momentum: 0.3, VolatilityRisk: 0.8, VolumeRatio: 1.0})
	tight := engine.trailingDistance(0.02, Tick{Momentum: 0.8, VolatilityRisk: 0.2, VolumeRatio: 2.0})

	assert.Greater(t, wide, tight)
	assert.GreaterOrEqual(t, tight, cfg.MinTrailingDistance)
	assert.LessOrEqual(t, wide, cfg.MaxTrailingDistance)
}

// TestUpdate_InvalidTickKeepsStop tests the failure policy
func TestUpdate_InvalidTickKeepsStop(t *testing.T) {
	engine := NewEngine(nil)
	stop := engine.Initialize(buySignal(types.RegimeTrending), testTime)

	updated, err := engine.Update(&stop, types.DirectionBuy, 50000, neutralTick(0), testTime)
	assert.Error(t, err)
	assert.Equal(t, 48000.0, updated, "protection must not move on error")
}
