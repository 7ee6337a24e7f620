package risk

import (
	"math"

	"github.com/GuidoEspinoza/Crypto-Trading-Analyzer-sub003/internal/market"
	"github.com/GuidoEspinoza/Crypto-Trading-Analyzer-sub003/pkg/config"
	"github.com/GuidoEspinoza/Crypto-Trading-Analyzer-sub003/pkg/types"
)

// Composite weights. They sum to 1.0; the drawdown term comes from portfolio
// state rather than the factor vector.
const (
	weightConfidence   = 0.25
	weightVolatility   = 0.20
	weightDrawdown     = 0.20
	weightLiquidity    = 0.15
	weightCorrelation  = 0.10
	weightMarketRegime = 0.10
)

// drawdownRiskScale converts a drawdown fraction into a 0-100 risk term;
// a 20% drawdown saturates the term.
const drawdownRiskScale = 500

// Level bucket upper bounds over the 0-100 score. Contiguous and exhaustive:
// anything above the VERY_HIGH bound is EXTREME.
const (
	veryLowScoreMax  = 20.0
	lowScoreMax      = 40.0
	moderateScoreMax = 60.0
	highScoreMax     = 80.0
	veryHighScoreMax = 95.0
)

// Scorer aggregates market risk factors and portfolio drawdown into an
// overall 0-100 score, a discrete level and an approval decision.
type Scorer struct {
	cfg *config.RiskConfig
}

// NewScorer creates a risk scorer. A nil config resolves to the defaults.
func NewScorer(cfg *config.RiskConfig) *Scorer {
	return &Scorer{cfg: config.Resolve(cfg)}
}

// Score computes the weighted composite score and its level. Missing factors
// contribute their neutral value so a sparse vector cannot skew the score
// toward zero risk.
func (s *Scorer) Score(factors map[string]float64, currentDrawdown float64) (float64, types.RiskLevel) {
	drawdownRisk := math.Min(100, math.Max(0, currentDrawdown)*drawdownRiskScale)

	score := factorTerm(factors, market.FactorConfidence)*weightConfidence +
		factorTerm(factors, market.FactorVolatility)*weightVolatility +
		drawdownRisk*weightDrawdown +
		factorTerm(factors, market.FactorLiquidity)*weightLiquidity +
		factorTerm(factors, market.FactorCorrelation)*weightCorrelation +
		factorTerm(factors, market.FactorMarketRegime)*weightMarketRegime

	score = math.Max(0, math.Min(100, score))
	return score, LevelForScore(score)
}

// Approve applies the composite gate: an acceptable level, drawdown below the
// configured maximum and confidence at or above the minimum.
func (s *Scorer) Approve(level types.RiskLevel, currentDrawdown, confidence float64) bool {
	if level == types.RiskVeryHigh || level == types.RiskExtreme {
		return false
	}
	if currentDrawdown >= s.cfg.MaxDrawdown {
		return false
	}
	return confidence >= s.cfg.MinConfidence
}

// LevelForScore buckets a 0-100 score into its discrete risk level.
func LevelForScore(score float64) types.RiskLevel {
	switch {
	case score <= veryLowScoreMax:
		return types.RiskVeryLow
	case score <= lowScoreMax:
		return types.RiskLow
	case score <= moderateScoreMax:
		return types.RiskModerate
	case score <= highScoreMax:
		return types.RiskHigh
	case score <= veryHighScoreMax:
		return types.RiskVeryHigh
	default:
		return types.RiskExtreme
	}
}

func factorTerm(factors map[string]float64, name string) float64 {
	v, ok := factors[name]
	if !ok || math.IsNaN(v) {
		v = 0.5
	}
	return math.Max(0, math.Min(1, v)) * 100
}
