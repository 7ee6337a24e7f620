package market

import (
	"math"

	"github.com/GuidoEspinoza/Crypto-Trading-Analyzer-sub003/pkg/config"
	"github.com/GuidoEspinoza/Crypto-Trading-Analyzer-sub003/pkg/types"
)

// Factor names used as keys in the risk-factor vector.
const (
	FactorVolatility   = "volatility_risk"
	FactorLiquidity    = "liquidity_risk"
	FactorCorrelation  = "correlation_risk"
	FactorMarketRegime = "market_regime_risk"
	FactorConfidence   = "confidence_risk"
)

// Base factor values per rule. The volatile base is scaled by the configured
// volatility adjustment before clamping.
const (
	volatileVolatilityBase = 0.8
	trendingVolatilityRisk = 0.5
	rangingVolatilityRisk  = 0.3

	confirmedLiquidityRisk   = 0.2
	unconfirmedLiquidityRisk = 0.6

	trendingRegimeRisk = 0.3
	rangingRegimeRisk  = 0.5
	volatileRegimeRisk = 0.7

	neutralRisk = 0.5
)

// Analyzer normalizes a signal and its market context into a risk-factor
// vector with every component clamped to [0, 1].
type Analyzer struct {
	cfg *config.RiskConfig
}

// NewAnalyzer creates a market risk analyzer. A nil config resolves to the
// conservative defaults.
func NewAnalyzer(cfg *config.RiskConfig) *Analyzer {
	return &Analyzer{cfg: config.Resolve(cfg)}
}

// Analyze computes the risk-factor vector for a signal. It never fails: an
// unusable signal yields the neutral vector so the pipeline always proceeds.
func (a *Analyzer) Analyze(signal types.TradingSignal) map[string]float64 {
	if signal.Price <= 0 || math.IsNaN(signal.Price) || math.IsNaN(signal.ATR) {
		return NeutralFactors()
	}

	factors := map[string]float64{
		FactorVolatility:   a.volatilityRisk(signal.Regime),
		FactorLiquidity:    liquidityRisk(signal.VolumeConfirmed),
		FactorCorrelation:  config.CorrelationRiskPlaceholder,
		FactorMarketRegime: regimeRisk(signal.Regime),
		FactorConfidence:   confidenceRisk(signal.Confidence),
	}

	for name, v := range factors {
		factors[name] = clamp01(v)
	}
	return factors
}

// NeutralFactors returns the degraded-mode vector: 0.5 for every factor.
func NeutralFactors() map[string]float64 {
	return map[string]float64{
		FactorVolatility:   neutralRisk,
		FactorLiquidity:    neutralRisk,
		FactorCorrelation:  neutralRisk,
		FactorMarketRegime: neutralRisk,
		FactorConfidence:   neutralRisk,
	}
}

func (a *Analyzer) volatilityRisk(regime types.MarketRegime) float64 {
	switch regime {
	case types.RegimeVolatile:
		return volatileVolatilityBase * a.cfg.VolatilityRiskAdj
	case types.RegimeRanging:
		return rangingVolatilityRisk
	default:
		return trendingVolatilityRisk
	}
}

func liquidityRisk(volumeConfirmed bool) float64 {
	if volumeConfirmed {
		return confirmedLiquidityRisk
	}
	return unconfirmedLiquidityRisk
}

func regimeRisk(regime types.MarketRegime) float64 {
	switch regime {
	case types.RegimeTrending:
		return trendingRegimeRisk
	case types.RegimeRanging:
		return rangingRegimeRisk
	case types.RegimeVolatile:
		return volatileRegimeRisk
	default:
		return neutralRisk
	}
}

func confidenceRisk(confidence float64) float64 {
	return math.Max(0, (100-confidence)/100)
}

func clamp01(v float64) float64 {
	if math.IsNaN(v) {
		return neutralRisk
	}
	return math.Max(0, math.Min(1, v))
}
