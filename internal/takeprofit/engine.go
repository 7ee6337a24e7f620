package takeprofit

import (
	"fmt"
	"math"
	"time"

	"github.com/GuidoEspinoza/Crypto-Trading-Analyzer-sub003/pkg/config"
	"github.com/GuidoEspinoza/Crypto-Trading-Analyzer-sub003/pkg/types"
)

// Target multipliers by target win rate. A strategy that needs a high win
// rate takes profit closer to entry.
const (
	conservativeTPMultiplier = 2.0 // target win rate >= 0.6
	balancedTPMultiplier     = 2.5 // target win rate >= 0.5
	aggressiveTPMultiplier   = 3.0

	conservativeWinRate = 0.6
	balancedWinRate     = 0.5
)

// Increment scaling applied to the base ratchet step.
const (
	trendingIncrementFactor = 1.5
	volatileIncrementFactor = 0.8
	momentumIncrementFactor = 1.2
	strongMomentumLevel     = 0.7
)

// Tick carries the per-update market context for a ratchet evaluation.
type Tick struct {
	Price    float64
	Regime   types.MarketRegime
	Momentum float64 // 0-1 momentum strength
}

// Engine computes and ratchets profit targets. A target only ever moves in
// the favorable direction and at most MaxAdjustments times; after that the
// record is locked and further calls are no-ops. Updates to the same
// DynamicTakeProfit must be serialized by the caller.
type Engine struct {
	cfg *config.RiskConfig
}

// NewEngine creates a take-profit engine. A nil config resolves to the defaults.
func NewEngine(cfg *config.RiskConfig) *Engine {
	return &Engine{cfg: config.Resolve(cfg)}
}

// Initialize derives the initial profit target for a signal. A signal-supplied
// target on the profit side of entry is honored as a fixed target; otherwise
// the target is derived from ATR, the target win rate and the regime.
func (e *Engine) Initialize(signal types.TradingSignal, now time.Time) types.DynamicTakeProfit {
	if signal.TakeProfit > 0 && onProfitSide(signal.Direction, signal.Price, signal.TakeProfit) {
		return types.DynamicTakeProfit{
			InitialTarget:       signal.TakeProfit,
			CurrentTarget:       signal.TakeProfit,
			TrailingTarget:      signal.TakeProfit,
			IncrementPct:        e.cfg.TPIncrementPct,
			Type:                types.TakeProfitFixed,
			ConfidenceThreshold: e.cfg.TPConfidenceThreshold,
			MaxAdjustments:      e.cfg.TPMaxAdjustments,
			LastUpdated:         now,
		}
	}

	atr := signal.ATR
	if atr <= 0 {
		atr = signal.Price * 0.02
	}

	multiplier := e.winRateMultiplier() * e.regimeFactor(signal.Regime, signal.Indicators.MomentumStrength)
	distance := multiplier * atr

	var target float64
	if signal.Direction == types.DirectionBuy {
		target = signal.Price + distance
	} else {
		target = signal.Price - distance
		if target <= 0 {
			target = signal.Price * (1 - e.cfg.MaxTrailingDistance)
		}
	}

	tpType := types.TakeProfitPartialDynamic
	if signal.Confidence >= e.cfg.TPConfidenceThreshold {
		tpType = types.TakeProfitDynamic
	}

	return types.DynamicTakeProfit{
		InitialTarget:       target,
		CurrentTarget:       target,
		TrailingTarget:      target,
		IncrementPct:        e.cfg.TPIncrementPct,
		Type:                tpType,
		ConfidenceThreshold: e.cfg.TPConfidenceThreshold,
		MaxAdjustments:      e.cfg.TPMaxAdjustments,
		LastUpdated:         now,
	}
}

// Update runs one ratchet evaluation against a price tick. It returns the
// target in force after the tick; on any error the current target is returned
// unmodified. A locked record is a no-op, never an error.
func (e *Engine) Update(tp *types.DynamicTakeProfit, direction types.TradeDirection,
	entryPrice float64, tick Tick, now time.Time) (float64, error) {

	if tp == nil {
		return 0, fmt.Errorf("nil take-profit record")
	}
	if tick.Price <= 0 || math.IsNaN(tick.Price) {
		return tp.CurrentTarget, fmt.Errorf("invalid tick price %.4f", tick.Price)
	}
	if entryPrice <= 0 {
		return tp.CurrentTarget, fmt.Errorf("invalid entry price %.4f", entryPrice)
	}

	if tp.Type == types.TakeProfitFixed || tp.Locked() {
		return tp.CurrentTarget, nil
	}
	if unrealizedProfit(direction, entryPrice, tick.Price) < e.cfg.TPMinProfitPct {
		return tp.CurrentTarget, nil
	}

	// Each ratchet needs a fresh favorable extreme one profit step beyond
	// the last accepted trigger, so a repeated tick at an unchanged price
	// cannot ratchet twice.
	if tp.LastTriggerPrice > 0 {
		if direction == types.DirectionBuy && tick.Price < tp.LastTriggerPrice*(1+e.cfg.TPMinProfitPct) {
			return tp.CurrentTarget, nil
		}
		if direction == types.DirectionSell && tick.Price > tp.LastTriggerPrice*(1-e.cfg.TPMinProfitPct) {
			return tp.CurrentTarget, nil
		}
	}

	increment := e.scaledIncrement(tp.IncrementPct, tick.Regime, tick.Momentum)
	var candidate float64
	if direction == types.DirectionBuy {
		candidate = tp.CurrentTarget * (1 + increment/100)
	} else {
		candidate = tp.CurrentTarget * (1 - increment/100)
	}

	// Only a strictly more favorable target is accepted.
	if !moreFavorable(direction, candidate, tp.CurrentTarget) {
		return tp.CurrentTarget, nil
	}

	tp.CurrentTarget = candidate
	tp.TrailingTarget = candidate
	tp.AdjustmentsMade++
	tp.LastTriggerPrice = tick.Price
	tp.LastUpdated = now
	return tp.CurrentTarget, nil
}

func (e *Engine) winRateMultiplier() float64 {
	switch {
	case e.cfg.TargetWinRate >= conservativeWinRate:
		return conservativeTPMultiplier
	case e.cfg.TargetWinRate >= balancedWinRate:
		return balancedTPMultiplier
	default:
		return aggressiveTPMultiplier
	}
}

// regimeFactor widens the target in a strong trend and narrows it when the
// market is volatile or ranging.
func (e *Engine) regimeFactor(regime types.MarketRegime, momentum float64) float64 {
	switch regime {
	case types.RegimeTrending:
		if momentum >= strongMomentumLevel {
			return e.cfg.TrendingTPFactor
		}
		return 1.0
	case types.RegimeVolatile, types.RegimeRanging:
		return e.cfg.VolatileTPFactor
	default:
		return 1.0
	}
}

func (e *Engine) scaledIncrement(basePct float64, regime types.MarketRegime, momentum float64) float64 {
	increment := basePct
	switch regime {
	case types.RegimeTrending:
		increment *= trendingIncrementFactor
	case types.RegimeVolatile:
		increment *= volatileIncrementFactor
	}
	if momentum >= strongMomentumLevel {
		increment *= momentumIncrementFactor
	}
	return increment
}

func onProfitSide(direction types.TradeDirection, price, target float64) bool {
	if direction == types.DirectionBuy {
		return target > price
	}
	return target < price
}

func moreFavorable(direction types.TradeDirection, candidate, current float64) bool {
	if direction == types.DirectionBuy {
		return candidate > current
	}
	return candidate < current
}

func unrealizedProfit(direction types.TradeDirection, entry, price float64) float64 {
	if direction == types.DirectionBuy {
		return (price - entry) / entry
	}
	return (entry - price) / entry
}
