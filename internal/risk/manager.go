package risk

import (
	"fmt"
	"math"
	"time"

	"github.com/GuidoEspinoza/Crypto-Trading-Analyzer-sub003/internal/logger"
	"github.com/GuidoEspinoza/Crypto-Trading-Analyzer-sub003/internal/market"
	"github.com/GuidoEspinoza/Crypto-Trading-Analyzer-sub003/internal/monitoring"
	"github.com/GuidoEspinoza/Crypto-Trading-Analyzer-sub003/internal/sizing"
	"github.com/GuidoEspinoza/Crypto-Trading-Analyzer-sub003/internal/stoploss"
	"github.com/GuidoEspinoza/Crypto-Trading-Analyzer-sub003/internal/takeprofit"
	"github.com/GuidoEspinoza/Crypto-Trading-Analyzer-sub003/pkg/config"
	"github.com/GuidoEspinoza/Crypto-Trading-Analyzer-sub003/pkg/types"
)

// Manager composes the analyzer, sizer, trailing engines and scorer into the
// single assessment entry point. Assess is a pure, synchronous computation
// over its inputs and never returns an error: any internal failure degrades
// into a conservative, unapproved assessment.
type Manager struct {
	cfg      *config.RiskConfig
	analyzer *market.Analyzer
	sizer    *sizing.Sizer
	stops    *stoploss.Engine
	targets  *takeprofit.Engine
	scorer   *Scorer
	log      *logger.Logger
}

// NewManager creates a risk manager. A nil config resolves to the defaults; a
// nil logger discards.
func NewManager(cfg *config.RiskConfig, log *logger.Logger) *Manager {
	cfg = config.Resolve(cfg)
	if log == nil {
		log = logger.NewDiscard()
	}
	return &Manager{
		cfg:      cfg,
		analyzer: market.NewAnalyzer(cfg),
		sizer:    sizing.NewSizer(cfg),
		stops:    stoploss.NewEngine(cfg),
		targets:  takeprofit.NewEngine(cfg),
		scorer:   NewScorer(cfg),
		log:      log,
	}
}

// Assess evaluates one trade candidate against a portfolio snapshot. The
// returned assessment is always usable; a degraded one carries
// Approved=false and recommendations explaining why.
func (m *Manager) Assess(signal types.TradingSignal, snapshot types.PortfolioSnapshot) types.RiskAssessment {
	now := time.Now()

	signal, ok := normalizeSignal(signal)
	if !ok || snapshot.Value <= 0 {
		m.log.Warning("unusable assessment inputs for %s: price=%.4f portfolio=%.2f",
			signal.Symbol, signal.Price, snapshot.Value)
		monitoring.RecordFallback("assessment")
		return m.conservativeDefault(signal, snapshot, now)
	}

	factors := m.analyzer.Analyze(signal)

	stop := m.stops.Initialize(signal, now)
	target := m.targets.Initialize(signal, now)

	sizingResult, err := m.sizer.Calculate(snapshot.Value, signal.Price, stop.InitialStop,
		factors, utilization(snapshot))
	if err != nil {
		m.log.LogError("position sizing degraded",
			wrapError(err, ErrorCategorySizing, signal.Symbol, "calculate"))
		monitoring.RecordFallback("sizer")
	}

	score, level := m.scorer.Score(factors, snapshot.CurrentDrawdown)
	approved := m.scorer.Approve(level, snapshot.CurrentDrawdown, signal.Confidence)

	assessment := types.RiskAssessment{
		Timestamp:         now,
		Symbol:            signal.Symbol,
		Direction:         signal.Direction,
		EntryPrice:        signal.Price,
		OverallRiskScore:  score,
		RiskLevel:         level,
		PositionSizing:    sizingResult,
		StopLoss:          stop,
		TakeProfit:        target,
		MarketRiskFactors: factors,
		PortfolioMetrics:  portfolioMetrics(snapshot, m.cfg),
		Recommendations:   m.recommendations(signal, factors, level, snapshot, approved),
		Approved:          approved,
	}

	m.log.Risk("%s %s @ %.2f: score=%.1f level=%s size=%.2f approved=%v",
		signal.Symbol, signal.Direction, signal.Price, score, level,
		sizingResult.RecommendedSize, approved)
	monitoring.RecordAssessment(signal.Symbol, approved, score, sizingResult.RecommendedSize)

	return assessment
}

// UpdateStopLoss runs one trailing stop evaluation for a live position. On
// failure the unmodified current stop is returned and the condition is
// logged; protection is never weakened.
func (m *Manager) UpdateStopLoss(symbol string, stop *types.DynamicStopLoss,
	direction types.TradeDirection, entryPrice float64, tick stoploss.Tick) float64 {

	if stop == nil {
		m.log.Warning("trailing stop update for %s skipped: no stop record", symbol)
		return 0
	}
	before := stop.CurrentStop
	updated, err := m.stops.Update(stop, direction, entryPrice, tick, time.Now())
	if err != nil {
		m.log.LogError("trailing stop update failed",
			wrapError(err, ErrorCategoryStop, symbol, "update"))
		return before
	}
	if updated != before {
		monitoring.RecordStopAdjustment(symbol)
		m.log.Risk("%s trailing stop moved %.2f -> %.2f", symbol, before, updated)
	}
	return updated
}

// UpdateTakeProfit runs one take-profit ratchet evaluation for a live
// position, with the same failure policy as UpdateStopLoss.
func (m *Manager) UpdateTakeProfit(symbol string, target *types.DynamicTakeProfit,
	direction types.TradeDirection, entryPrice float64, tick takeprofit.Tick) float64 {

	if target == nil {
		m.log.Warning("take-profit update for %s skipped: no target record", symbol)
		return 0
	}
	before := target.CurrentTarget
	updated, err := m.targets.Update(target, direction, entryPrice, tick, time.Now())
	if err != nil {
		m.log.LogError("take-profit update failed",
			wrapError(err, ErrorCategoryTarget, symbol, "update"))
		return before
	}
	if updated != before {
		monitoring.RecordTargetAdjustment(symbol)
		m.log.Risk("%s take-profit ratcheted %.2f -> %.2f (%d/%d)",
			symbol, before, updated, target.AdjustmentsMade, target.MaxAdjustments)
	}
	return updated
}

// conservativeDefault is the documented degraded assessment: HIGH risk,
// minimum size, fixed stop and target at the fallback distances, not
// approved.
func (m *Manager) conservativeDefault(signal types.TradingSignal,
	snapshot types.PortfolioSnapshot, now time.Time) types.RiskAssessment {

	price := signal.Price
	if price <= 0 {
		price = 1 // keeps the fallback records well-formed
	}

	var stopPrice, targetPrice float64
	if signal.Direction == types.DirectionBuy {
		stopPrice = price * (1 - m.cfg.FallbackStopPct)
		targetPrice = price * (1 + m.cfg.FallbackTargetPct)
	} else {
		stopPrice = price * (1 + m.cfg.FallbackStopPct)
		targetPrice = price * (1 - m.cfg.FallbackTargetPct)
	}

	const fallbackScore = 75.0

	return types.RiskAssessment{
		Timestamp:        now,
		Symbol:           signal.Symbol,
		Direction:        signal.Direction,
		EntryPrice:       signal.Price,
		OverallRiskScore: fallbackScore,
		RiskLevel:        LevelForScore(fallbackScore),
		PositionSizing:   m.sizer.Fallback(snapshot.Value),
		StopLoss: types.DynamicStopLoss{
			InitialStop:      stopPrice,
			CurrentStop:      stopPrice,
			ATRMultiplier:    0,
			Type:             types.StopFixed,
			TrailingDistance: m.cfg.FallbackStopPct,
			LastUpdated:      now,
		},
		TakeProfit: types.DynamicTakeProfit{
			InitialTarget:       targetPrice,
			CurrentTarget:       targetPrice,
			TrailingTarget:      targetPrice,
			IncrementPct:        0,
			Type:                types.TakeProfitFixed,
			ConfidenceThreshold: m.cfg.TPConfidenceThreshold,
			MaxAdjustments:      0,
			LastUpdated:         now,
		},
		MarketRiskFactors: market.NeutralFactors(),
		PortfolioMetrics:  portfolioMetrics(snapshot, m.cfg),
		Recommendations: []string{
			"assessment degraded to conservative defaults: inputs could not be evaluated",
			"do not trade on this assessment",
		},
		Approved: false,
	}
}

func (m *Manager) recommendations(signal types.TradingSignal, factors map[string]float64,
	level types.RiskLevel, snapshot types.PortfolioSnapshot, approved bool) []string {

	var recs []string

	if level == types.RiskVeryHigh || level == types.RiskExtreme {
		recs = append(recs, fmt.Sprintf("overall risk level %s exceeds the approval ceiling", level))
	}
	if snapshot.CurrentDrawdown >= m.cfg.MaxDrawdown {
		recs = append(recs, fmt.Sprintf("portfolio drawdown %.1f%% is at or above the %.1f%% limit",
			snapshot.CurrentDrawdown*100, m.cfg.MaxDrawdown*100))
	}
	if signal.Confidence < m.cfg.MinConfidence {
		recs = append(recs, fmt.Sprintf("signal confidence %.0f is below the minimum %.0f",
			signal.Confidence, m.cfg.MinConfidence))
	}
	if factors[market.FactorVolatility] >= 0.7 {
		recs = append(recs, "volatile conditions: prefer a reduced position and a wider stop")
	}
	if !signal.VolumeConfirmed {
		recs = append(recs, "volume confirmation missing: treat the signal with caution")
	}
	if util := utilization(snapshot); util >= m.cfg.MaxExposure {
		recs = append(recs, fmt.Sprintf("portfolio exposure %.1f%% is at the configured ceiling", util*100))
	}
	if !approved && len(recs) == 0 {
		recs = append(recs, "trade not approved under the current risk profile")
	}
	if approved && len(recs) == 0 {
		recs = append(recs, "risk profile acceptable: size within recommendation, keep the stop in place")
	}
	return recs
}

// normalizeSignal clamps anomalous signal fields to safe values at the
// boundary. It reports false only when no safe interpretation exists.
func normalizeSignal(signal types.TradingSignal) (types.TradingSignal, bool) {
	if signal.Price <= 0 || math.IsNaN(signal.Price) || math.IsInf(signal.Price, 0) {
		return signal, false
	}
	if signal.Confidence < 0 {
		signal.Confidence = 0
	}
	if signal.Confidence > 100 {
		signal.Confidence = 100
	}
	if signal.ATR < 0 || math.IsNaN(signal.ATR) {
		signal.ATR = 0
	}
	signal.Indicators = signal.Indicators.Normalized()
	if signal.Timestamp.IsZero() {
		signal.Timestamp = time.Now()
	}
	return signal, true
}

func utilization(snapshot types.PortfolioSnapshot) float64 {
	if snapshot.Value <= 0 {
		return 0
	}
	total := 0.0
	for _, pos := range snapshot.OpenPositions {
		total += pos.Size
	}
	return total / snapshot.Value
}

func portfolioMetrics(snapshot types.PortfolioSnapshot, cfg *config.RiskConfig) map[string]float64 {
	return map[string]float64{
		"portfolio_value":  snapshot.Value,
		"current_drawdown": snapshot.CurrentDrawdown,
		"max_drawdown":     snapshot.MaxDrawdown,
		"daily_pnl":        snapshot.DailyPnL,
		"open_positions":   float64(len(snapshot.OpenPositions)),
		"utilization":      utilization(snapshot),
		"risk_budget_used": float64(len(snapshot.OpenPositions)) * cfg.MaxPortfolioRisk,
	}
}
