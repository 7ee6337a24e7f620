package sizing

import (
	"fmt"
	"math"

	"github.com/GuidoEspinoza/Crypto-Trading-Analyzer-sub003/internal/market"
	"github.com/GuidoEspinoza/Crypto-Trading-Analyzer-sub003/pkg/config"
	"github.com/GuidoEspinoza/Crypto-Trading-Analyzer-sub003/pkg/types"
)

// Risk level bucket boundaries on recommended size / portfolio value.
const (
	veryLowSizeFraction  = 0.01
	lowSizeFraction      = 0.02
	moderateSizeFraction = 0.05
	highSizeFraction     = 0.08
)

// Sizer reconciles three competing sizing heuristics into one bounded
// recommendation: a fixed-risk size, a fractional-Kelly size and a
// volatility-discounted size. The smallest candidate wins.
type Sizer struct {
	cfg *config.RiskConfig
}

// NewSizer creates a position sizer. A nil config resolves to the defaults.
func NewSizer(cfg *config.RiskConfig) *Sizer {
	return &Sizer{cfg: config.Resolve(cfg)}
}

// Calculate produces the sizing recommendation for one trade.
//
// entryPrice and stopPrice bound the per-trade loss; exposureUsed is the
// portfolio utilization fraction reported by the aggregator and tightens the
// upper bound. All sizes are notional amounts in quote currency.
func (s *Sizer) Calculate(portfolioValue, entryPrice, stopPrice float64,
	riskFactors map[string]float64, exposureUsed float64) (types.PositionSizing, error) {

	if portfolioValue <= 0 || entryPrice <= 0 {
		return s.Fallback(portfolioValue), fmt.Errorf("sizing requires positive portfolio value and entry price")
	}

	riskAmount := portfolioValue * s.cfg.MaxPortfolioRisk
	maxSize := s.maxPositionSize(portfolioValue, exposureUsed)

	// Candidate 1: fixed risk. Size the position so that a move from entry
	// to the stop loses exactly the risk budget.
	stopDistance := math.Abs(entryPrice - stopPrice)
	var fixedRiskSize float64
	if stopDistance == 0 {
		// Zero stop distance would divide by zero; fall back to the floor.
		fixedRiskSize = s.cfg.MinPositionSize
	} else {
		fixedRiskSize = riskAmount / (stopDistance / entryPrice)
	}

	// Candidate 2: fractional Kelly from externally supplied statistics.
	kellySize := s.kellySize(portfolioValue)

	// Candidate 3: the fixed-risk size discounted by volatility risk.
	volatilityRisk := riskFactors[market.FactorVolatility]
	volAdjustedSize := fixedRiskSize * (1 - clamp01(volatilityRisk))

	recommended := math.Min(fixedRiskSize, math.Min(kellySize, volAdjustedSize))
	binding := bindingCandidate(recommended, fixedRiskSize, kellySize)

	// Clamp into [floor, cap].
	if recommended > maxSize {
		recommended = maxSize
		binding = "exposure cap"
	}
	if recommended < s.cfg.MinPositionSize {
		recommended = s.cfg.MinPositionSize
		binding = "minimum size floor"
	}
	if recommended > maxSize {
		// Floor above cap; the cap wins so the invariant holds.
		recommended = maxSize
	}
	if math.IsNaN(recommended) || math.IsInf(recommended, 0) || recommended <= 0 {
		return s.Fallback(portfolioValue), fmt.Errorf("sizing produced unusable value %.4f", recommended)
	}

	sizeFraction := recommended / portfolioValue
	return types.PositionSizing{
		RecommendedSize: recommended,
		MaxPositionSize: maxSize,
		RiskAmount:      riskAmount,
		Leverage:        sizeFraction,
		RiskLevel:       levelForFraction(sizeFraction),
		Reasoning: fmt.Sprintf("min of fixed-risk %.2f, kelly %.2f, vol-adjusted %.2f; bound by %s",
			fixedRiskSize, kellySize, volAdjustedSize, binding),
	}, nil
}

// Fallback returns the documented degraded recommendation: minimum size at a
// LOW risk level. Errors never propagate past the sizing boundary.
func (s *Sizer) Fallback(portfolioValue float64) types.PositionSizing {
	maxSize := s.cfg.MinPositionSize
	leverage := 0.0
	if portfolioValue > 0 {
		maxSize = math.Max(s.cfg.MinPositionSize, portfolioValue*s.cfg.MaxPositionFraction)
		leverage = s.cfg.MinPositionSize / portfolioValue
	}
	return types.PositionSizing{
		RecommendedSize: s.cfg.MinPositionSize,
		MaxPositionSize: maxSize,
		RiskAmount:      0,
		Leverage:        leverage,
		RiskLevel:       types.RiskLow,
		Reasoning:       "fallback used: sizing computation failed, minimum size applied",
	}
}

// kellySize computes max(0, kelly fraction) scaled by the safety fraction.
func (s *Sizer) kellySize(portfolioValue float64) float64 {
	w := s.cfg.KellyWinRate
	kellyF := (w*s.cfg.KellyAvgWin - (1-w)*s.cfg.KellyAvgLoss) / s.cfg.KellyAvgWin
	return math.Max(0, kellyF) * s.cfg.KellyFraction * portfolioValue
}

// maxPositionSize combines the configured fraction cap with the remaining
// exposure headroom reported by the portfolio aggregator.
func (s *Sizer) maxPositionSize(portfolioValue, exposureUsed float64) float64 {
	limit := portfolioValue * s.cfg.MaxPositionFraction
	headroom := (s.cfg.MaxExposure - clamp01(exposureUsed)) * portfolioValue
	if headroom < limit {
		limit = headroom
	}
	// The cap never drops below the floor so a valid recommendation exists.
	return math.Max(limit, s.cfg.MinPositionSize)
}

func bindingCandidate(chosen, fixedRisk, kelly float64) string {
	switch chosen {
	case fixedRisk:
		return "fixed-risk budget"
	case kelly:
		return "kelly criterion (placeholder statistics)"
	default:
		return "volatility discount"
	}
}

func levelForFraction(fraction float64) types.RiskLevel {
	switch {
	case fraction <= veryLowSizeFraction:
		return types.RiskVeryLow
	case fraction <= lowSizeFraction:
		return types.RiskLow
	case fraction <= moderateSizeFraction:
		return types.RiskModerate
	case fraction <= highSizeFraction:
		return types.RiskHigh
	default:
		return types.RiskVeryHigh
	}
}

func clamp01(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}
