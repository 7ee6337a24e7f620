package stoploss

import (
	"fmt"
	"math"
	"time"

	"github.com/GuidoEspinoza/Crypto-Trading-Analyzer-sub003/pkg/config"
	"github.com/GuidoEspinoza/Crypto-Trading-Analyzer-sub003/pkg/types"
)

// Additive trailing-distance terms. Strong momentum and confirming volume
// tighten the trail; elevated volatility widens it. All terms are fractions
// of price and the sum is clamped to the configured bounds.
const (
	momentumTightening   = 0.002
	volumeTightening     = 0.002
	volatilityWidening   = 0.005
	strongMomentumLevel  = 0.65
	strongVolumeRatio    = 1.5
	highVolatilityFactor = 0.6
)

// Tick carries the per-update market context for a trailing evaluation.
type Tick struct {
	Price          float64
	Momentum       float64 // 0-1 momentum strength
	VolatilityRisk float64 // 0-1, from the market analyzer
	VolumeRatio    float64 // current / average volume
}

// Engine computes and trails protective stop prices. A stop only ever moves
// in the protective direction; rejected candidates leave the record unchanged.
// Updates to the same DynamicStopLoss must be serialized by the caller.
type Engine struct {
	cfg *config.RiskConfig
}

// NewEngine creates a stop-loss engine. A nil config resolves to the defaults.
func NewEngine(cfg *config.RiskConfig) *Engine {
	return &Engine{cfg: config.Resolve(cfg)}
}

// Initialize derives the initial protective stop for a signal. A signal-
// supplied stop is honored when it sits on the protective side of entry;
// anything else is replaced by an ATR-derived stop rather than rejected.
func (e *Engine) Initialize(signal types.TradingSignal, now time.Time) types.DynamicStopLoss {
	multiplier := e.regimeMultiplier(signal.Regime)

	if signal.StopLoss > 0 && onProtectiveSide(signal.Direction, signal.Price, signal.StopLoss) {
		return types.DynamicStopLoss{
			InitialStop:      signal.StopLoss,
			CurrentStop:      signal.StopLoss,
			ATRMultiplier:    multiplier,
			Type:             types.StopFixed,
			TrailingDistance: math.Abs(signal.Price-signal.StopLoss) / signal.Price,
			LastUpdated:      now,
		}
	}

	atr := signal.ATR
	if atr <= 0 {
		// Missing volatility context: assume 2% of price so a stop always exists.
		atr = signal.Price * 0.02
	}

	distance := multiplier * atr
	var stop float64
	if signal.Direction == types.DirectionBuy {
		stop = signal.Price - distance
		if stop <= 0 {
			stop = signal.Price * (1 - e.cfg.MaxTrailingDistance)
		}
	} else {
		stop = signal.Price + distance
	}

	return types.DynamicStopLoss{
		InitialStop:      stop,
		CurrentStop:      stop,
		ATRMultiplier:    multiplier,
		Type:             types.StopATRBased,
		TrailingDistance: math.Abs(signal.Price-stop) / signal.Price,
		LastUpdated:      now,
	}
}

// Update runs one trailing evaluation against a price tick. It returns the
// stop price in force after the tick; on any error the current stop is
// returned unmodified. Protection is never widened or removed.
func (e *Engine) Update(stop *types.DynamicStopLoss, direction types.TradeDirection,
	entryPrice float64, tick Tick, now time.Time) (float64, error) {

	if stop == nil {
		return 0, fmt.Errorf("nil stop-loss record")
	}
	if tick.Price <= 0 || math.IsNaN(tick.Price) {
		return stop.CurrentStop, fmt.Errorf("invalid tick price %.4f", tick.Price)
	}
	if entryPrice <= 0 {
		return stop.CurrentStop, fmt.Errorf("invalid entry price %.4f", entryPrice)
	}

	// Trailing arms only once the position shows enough profit.
	if !stop.Trailing {
		if unrealizedProfit(direction, entryPrice, tick.Price) < e.cfg.TrailingActivationPct {
			return stop.CurrentStop, nil
		}
		stop.Trailing = true
	}

	distance := e.trailingDistance(stop.TrailingDistance, tick)
	candidate := candidateStop(direction, tick.Price, distance)

	// Monotonicity: accept only a strict improvement in protection.
	if !improves(direction, candidate, stop.CurrentStop) {
		return stop.CurrentStop, nil
	}

	stop.CurrentStop = candidate
	stop.TrailingDistance = distance
	stop.LastUpdated = now
	return stop.CurrentStop, nil
}

// regimeMultiplier widens the stop in volatile markets and narrows it when
// price is ranging.
func (e *Engine) regimeMultiplier(regime types.MarketRegime) float64 {
	switch regime {
	case types.RegimeVolatile:
		return e.cfg.ATRStopMultiplier * e.cfg.VolatileStopFactor
	case types.RegimeRanging:
		return e.cfg.ATRStopMultiplier * e.cfg.RangingStopFactor
	default:
		return e.cfg.ATRStopMultiplier
	}
}

func (e *Engine) trailingDistance(base float64, tick Tick) float64 {
	distance := base
	if tick.Momentum >= strongMomentumLevel {
		distance -= momentumTightening
	}
	if tick.VolatilityRisk >= highVolatilityFactor {
		distance += volatilityWidening
	}
	if tick.VolumeRatio >= strongVolumeRatio {
		distance -= volumeTightening
	}
	return math.Max(e.cfg.MinTrailingDistance, math.Min(e.cfg.MaxTrailingDistance, distance))
}

func candidateStop(direction types.TradeDirection, price, distance float64) float64 {
	if direction == types.DirectionBuy {
		return price * (1 - distance)
	}
	return price * (1 + distance)
}

func improves(direction types.TradeDirection, candidate, current float64) bool {
	if direction == types.DirectionBuy {
		return candidate > current
	}
	return candidate < current
}

func onProtectiveSide(direction types.TradeDirection, price, stop float64) bool {
	if direction == types.DirectionBuy {
		return stop < price
	}
	return stop > price
}

func unrealizedProfit(direction types.TradeDirection, entry, price float64) float64 {
	if direction == types.DirectionBuy {
		return (price - entry) / entry
	}
	return (entry - price) / entry
}
