package types

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestParseTradeDirection tests the case-insensitive parse and its failure mode
func TestParseTradeDirection(t *testing.T) {
	d, err := ParseTradeDirection("buy")
	require.NoError(t, err)
	assert.Equal(t, DirectionBuy, d)

	d, err = ParseTradeDirection("SELL")
	require.NoError(t, err)
	assert.Equal(t, DirectionSell, d)

	_, err = ParseTradeDirection("short")
	assert.Error(t, err)
}

// TestParseMarketRegime tests the regime parse
func TestParseMarketRegime(t *testing.T) {
	r, err := ParseMarketRegime("volatile")
	require.NoError(t, err)
	assert.Equal(t, RegimeVolatile, r)

	_, err = ParseMarketRegime("sideways")
	assert.Error(t, err)
}

// TestEnumJSONRoundTrip tests that enums encode as their string names
func TestEnumJSONRoundTrip(t *testing.T) {
	signal := TradingSignal{
		Symbol:    "BTCUSDT",
		Direction: DirectionSell,
		Regime:    RegimeRanging,
		Price:     50000,
	}
	raw, err := json.Marshal(signal)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"SELL"`)
	assert.Contains(t, string(raw), `"RANGING"`)

	var decoded TradingSignal
	require.NoError(t, json.Unmarshal(raw, &decoded))
	assert.Equal(t, DirectionSell, decoded.Direction)
	assert.Equal(t, RegimeRanging, decoded.Regime)
}

// TestIndicatorSnapshot_Normalized tests the neutral defaults at the boundary
func TestIndicatorSnapshot_Normalized(t *testing.T) {
	out := IndicatorSnapshot{}.Normalized()
	assert.Equal(t, 50.0, out.RSI)
	assert.Equal(t, 0.5, out.MomentumStrength)
	assert.Equal(t, 1.0, out.VolumeRatio)

	kept := IndicatorSnapshot{RSI: 62, MomentumStrength: 0.8, VolumeRatio: 1.4}.Normalized()
	assert.Equal(t, 62.0, kept.RSI)
	assert.Equal(t, 0.8, kept.MomentumStrength)
}

// TestDynamicTakeProfit_Locked tests the adjustment-budget check
func TestDynamicTakeProfit_Locked(t *testing.T) {
	tp := DynamicTakeProfit{MaxAdjustments: 5, AdjustmentsMade: 4}
	assert.False(t, tp.Locked())
	tp.AdjustmentsMade = 5
	assert.True(t, tp.Locked())
}
