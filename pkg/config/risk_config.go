package config

import (
	"fmt"
)

// CorrelationRiskPlaceholder is the constant correlation risk factor emitted by
// the market analyzer. A multi-position correlation model is not integrated
// yet; this value is a placeholder, not a calibrated estimate.
const CorrelationRiskPlaceholder = 0.3

// RiskConfig holds every tunable of the risk core. Several scaling constants
// carry no documented derivation in the reference parameters; they are kept as
// named, overridable fields rather than recalibrated.
type RiskConfig struct {
	// Position sizing
	MaxPortfolioRisk    float64 `json:"max_portfolio_risk"`    // fraction of value risked per trade
	MaxPositionFraction float64 `json:"max_position_fraction"` // hard cap on size / value
	MinPositionSize     float64 `json:"min_position_size"`     // quote currency floor
	KellyFraction       float64 `json:"kelly_fraction"`        // fractional Kelly safety factor

	// Kelly inputs. Externally supplied statistics, not derived from live
	// trade history inside this core.
	KellyWinRate float64 `json:"kelly_win_rate"`
	KellyAvgWin  float64 `json:"kelly_avg_win"`
	KellyAvgLoss float64 `json:"kelly_avg_loss"`

	// Stop-loss engine
	ATRStopMultiplier     float64 `json:"atr_stop_multiplier"`     // base stop distance in ATRs
	VolatileStopFactor    float64 `json:"volatile_stop_factor"`    // widens the stop in VOLATILE regime
	RangingStopFactor     float64 `json:"ranging_stop_factor"`     // narrows the stop in RANGING regime
	TrailingActivationPct float64 `json:"trailing_activation_pct"` // profit needed before trailing starts
	MinTrailingDistance   float64 `json:"min_trailing_distance"`   // fraction of price
	MaxTrailingDistance   float64 `json:"max_trailing_distance"`   // fraction of price

	// Take-profit engine
	TargetWinRate         float64 `json:"target_win_rate"`         // higher -> more conservative target
	TrendingTPFactor      float64 `json:"trending_tp_factor"`      // widens the target in strong trends
	VolatileTPFactor      float64 `json:"volatile_tp_factor"`      // narrows the target in VOLATILE/RANGING
	TPIncrementPct        float64 `json:"tp_increment_pct"`        // base ratchet step, percent
	TPMinProfitPct        float64 `json:"tp_min_profit_pct"`       // profit needed before a ratchet
	TPMaxAdjustments      int     `json:"tp_max_adjustments"`
	TPConfidenceThreshold float64 `json:"tp_confidence_threshold"` // 0-100

	// Risk scoring / approval
	MaxDrawdown       float64 `json:"max_drawdown"`       // approval gate
	MinConfidence     float64 `json:"min_confidence"`     // approval gate, 0-100
	VolatilityRiskAdj float64 `json:"volatility_risk_adj"` // scales the VOLATILE base factor

	// Portfolio aggregator limits
	MaxOpenPositions  int     `json:"max_open_positions"`
	MaxExposure       float64 `json:"max_exposure"`        // fraction of value
	DrawdownAlertPct  float64 `json:"drawdown_alert_pct"`  // alert threshold
	FallbackStopPct   float64 `json:"fallback_stop_pct"`   // degraded-assessment stop distance
	FallbackTargetPct float64 `json:"fallback_target_pct"` // degraded-assessment target distance
}

// DefaultRiskConfig returns the conservative reference defaults. Construction
// from a nil or invalid config resolves to these; it never fails outright.
func DefaultRiskConfig() *RiskConfig {
	return &RiskConfig{
		MaxPortfolioRisk:    0.02, // 2% per trade
		MaxPositionFraction: 0.10, // 10% of portfolio
		MinPositionSize:     10.0,
		KellyFraction:       0.5,

		KellyWinRate: 0.55,
		KellyAvgWin:  0.03,
		KellyAvgLoss: 0.02,

		ATRStopMultiplier:     2.0,
		VolatileStopFactor:    1.25,
		RangingStopFactor:     0.8,
		TrailingActivationPct: 0.01, // 1%
		MinTrailingDistance:   0.005,
		MaxTrailingDistance:   0.03,

		TargetWinRate:         0.55,
		TrendingTPFactor:      1.2,
		VolatileTPFactor:      0.8,
		TPIncrementPct:        1.0, // 1% per ratchet
		TPMinProfitPct:        0.015,
		TPMaxAdjustments:      5,
		TPConfidenceThreshold: 60.0,

		MaxDrawdown:       0.10,
		MinConfidence:     40.0,
		VolatilityRiskAdj: 1.2,

		MaxOpenPositions:  5,
		MaxExposure:       0.5,
		DrawdownAlertPct:  0.08,
		FallbackStopPct:   0.05,
		FallbackTargetPct: 0.05,
	}
}

// Validate checks internal consistency of the configuration.
func (c *RiskConfig) Validate() error {
	if c.MaxPortfolioRisk <= 0 || c.MaxPortfolioRisk > 0.5 {
		return fmt.Errorf("max portfolio risk must be in (0, 0.5], got %.4f", c.MaxPortfolioRisk)
	}
	if c.MaxPositionFraction <= 0 || c.MaxPositionFraction > 1 {
		return fmt.Errorf("max position fraction must be in (0, 1], got %.4f", c.MaxPositionFraction)
	}
	if c.MinPositionSize <= 0 {
		return fmt.Errorf("min position size must be positive, got %.2f", c.MinPositionSize)
	}
	if c.KellyFraction <= 0 || c.KellyFraction > 1 {
		return fmt.Errorf("kelly fraction must be in (0, 1], got %.4f", c.KellyFraction)
	}
	if c.KellyWinRate <= 0 || c.KellyWinRate >= 1 {
		return fmt.Errorf("kelly win rate must be in (0, 1), got %.4f", c.KellyWinRate)
	}
	if c.KellyAvgWin <= 0 || c.KellyAvgLoss <= 0 {
		return fmt.Errorf("kelly avg win/loss must be positive, got %.4f/%.4f", c.KellyAvgWin, c.KellyAvgLoss)
	}
	if c.ATRStopMultiplier <= 0 {
		return fmt.Errorf("ATR stop multiplier must be positive, got %.2f", c.ATRStopMultiplier)
	}
	if c.MinTrailingDistance <= 0 || c.MinTrailingDistance >= c.MaxTrailingDistance {
		return fmt.Errorf("trailing distance bounds invalid: min %.4f, max %.4f",
			c.MinTrailingDistance, c.MaxTrailingDistance)
	}
	if c.TPMaxAdjustments < 0 {
		return fmt.Errorf("max TP adjustments must not be negative, got %d", c.TPMaxAdjustments)
	}
	if c.TPIncrementPct <= 0 {
		return fmt.Errorf("TP increment must be positive, got %.2f", c.TPIncrementPct)
	}
	if c.MaxDrawdown <= 0 || c.MaxDrawdown > 1 {
		return fmt.Errorf("max drawdown must be in (0, 1], got %.4f", c.MaxDrawdown)
	}
	if c.MinConfidence < 0 || c.MinConfidence > 100 {
		return fmt.Errorf("min confidence must be in [0, 100], got %.1f", c.MinConfidence)
	}
	if c.MaxOpenPositions < 1 {
		return fmt.Errorf("max open positions must be at least 1, got %d", c.MaxOpenPositions)
	}
	if c.MaxExposure <= 0 || c.MaxExposure > 1 {
		return fmt.Errorf("max exposure must be in (0, 1], got %.4f", c.MaxExposure)
	}
	return nil
}

// Resolve returns a validated configuration: the input itself when it is
// complete and consistent, the defaults otherwise.
func Resolve(c *RiskConfig) *RiskConfig {
	if c == nil {
		return DefaultRiskConfig()
	}
	if err := c.Validate(); err != nil {
		return DefaultRiskConfig()
	}
	return c
}
