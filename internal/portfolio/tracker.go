package portfolio

import (
	"fmt"
	"sync"
	"time"

	"github.com/GuidoEspinoza/Crypto-Trading-Analyzer-sub003/pkg/config"
	"github.com/GuidoEspinoza/Crypto-Trading-Analyzer-sub003/pkg/types"
)

// AlertSeverity classifies portfolio risk alerts.
type AlertSeverity string

const (
	SeverityInfo     AlertSeverity = "info"
	SeverityWarning  AlertSeverity = "warning"
	SeverityCritical AlertSeverity = "critical"
)

// Alert is a structured portfolio risk alert. Delivery (logs, notifications)
// belongs to external collaborators; the tracker only emits the records.
type Alert struct {
	Type      string        `json:"type"`
	Severity  AlertSeverity `json:"severity"`
	Message   string        `json:"message"`
	Current   float64       `json:"current"`
	Limit     float64       `json:"limit"`
	Timestamp time.Time     `json:"timestamp"`
}

// Tracker maintains open-position, drawdown and exposure bookkeeping. All
// mutation goes through its locked methods (the single writer path); reads
// hand out copies so concurrent assessments see consistent snapshots.
type Tracker struct {
	cfg *config.RiskConfig

	mu            sync.RWMutex
	value         float64
	peakValue     float64
	drawdown      float64 // current, fraction of peak
	maxDrawdown   float64 // historical worst
	dailyPnL      float64
	positions     map[string]types.OpenPosition
	lastResetDate time.Time
}

// NewTracker creates a portfolio tracker seeded with the starting value.
func NewTracker(cfg *config.RiskConfig, startingValue float64) *Tracker {
	if startingValue <= 0 {
		startingValue = 0
	}
	return &Tracker{
		cfg:           config.Resolve(cfg),
		value:         startingValue,
		peakValue:     startingValue,
		positions:     make(map[string]types.OpenPosition),
		lastResetDate: time.Now(),
	}
}

// OpenPosition records a newly opened position. An existing position for the
// same symbol is replaced.
func (t *Tracker) OpenPosition(pos types.OpenPosition) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.positions[pos.Symbol] = pos
}

// ClosePosition removes a position and books its realized PnL into the daily
// total. Closing an unknown symbol is a no-op.
func (t *Tracker) ClosePosition(symbol string, realizedPnL float64) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if _, ok := t.positions[symbol]; !ok {
		return
	}
	delete(t.positions, symbol)
	t.resetDailyIfNeededLocked(time.Now())
	t.dailyPnL += realizedPnL
}

// UpdateValue records a new mark-to-market portfolio value and refreshes the
// peak and drawdown figures.
func (t *Tracker) UpdateValue(value float64, now time.Time) {
	if value < 0 {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()

	t.resetDailyIfNeededLocked(now)

	t.value = value
	if value > t.peakValue {
		t.peakValue = value
	}
	if t.peakValue > 0 {
		t.drawdown = (t.peakValue - value) / t.peakValue
	}
	if t.drawdown > t.maxDrawdown {
		t.maxDrawdown = t.drawdown
	}
}

// Snapshot returns a consistent copy of the portfolio state for one
// assessment. The returned value shares nothing with the tracker.
func (t *Tracker) Snapshot() types.PortfolioSnapshot {
	t.mu.RLock()
	defer t.mu.RUnlock()

	positions := make(map[string]types.OpenPosition, len(t.positions))
	for symbol, pos := range t.positions {
		positions[symbol] = pos
	}
	return types.PortfolioSnapshot{
		Value:           t.value,
		CurrentDrawdown: t.drawdown,
		MaxDrawdown:     t.maxDrawdown,
		DailyPnL:        t.dailyPnL,
		OpenPositions:   positions,
	}
}

// Utilization returns the fraction of portfolio value tied up in open
// positions.
func (t *Tracker) Utilization() float64 {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.utilizationLocked()
}

// RiskBudgetUsed returns the per-trade risk budget already committed across
// open positions, as a fraction of portfolio value.
func (t *Tracker) RiskBudgetUsed() float64 {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return float64(len(t.positions)) * t.cfg.MaxPortfolioRisk
}

// CheckAlerts evaluates the drawdown, position-count and exposure limits and
// returns a structured alert per breach.
func (t *Tracker) CheckAlerts(now time.Time) []Alert {
	t.mu.RLock()
	defer t.mu.RUnlock()

	var alerts []Alert

	if t.drawdown >= t.cfg.DrawdownAlertPct {
		severity := SeverityWarning
		if t.drawdown >= t.cfg.MaxDrawdown {
			severity = SeverityCritical
		}
		alerts = append(alerts, Alert{
			Type:     "drawdown",
			Severity: severity,
			Message: fmt.Sprintf("drawdown %.2f%% at or above alert threshold %.2f%%",
				t.drawdown*100, t.cfg.DrawdownAlertPct*100),
			Current:   t.drawdown,
			Limit:     t.cfg.DrawdownAlertPct,
			Timestamp: now,
		})
	}

	if len(t.positions) > t.cfg.MaxOpenPositions {
		alerts = append(alerts, Alert{
			Type:     "open_positions",
			Severity: SeverityWarning,
			Message: fmt.Sprintf("%d open positions exceed the configured maximum %d",
				len(t.positions), t.cfg.MaxOpenPositions),
			Current:   float64(len(t.positions)),
			Limit:     float64(t.cfg.MaxOpenPositions),
			Timestamp: now,
		})
	}

	if utilization := t.utilizationLocked(); utilization > t.cfg.MaxExposure {
		alerts = append(alerts, Alert{
			Type:     "exposure",
			Severity: SeverityCritical,
			Message: fmt.Sprintf("exposure %.2f%% exceeds the configured ceiling %.2f%%",
				utilization*100, t.cfg.MaxExposure*100),
			Current:   utilization,
			Limit:     t.cfg.MaxExposure,
			Timestamp: now,
		})
	}

	return alerts
}

func (t *Tracker) utilizationLocked() float64 {
	if t.value <= 0 {
		return 0
	}
	total := 0.0
	for _, pos := range t.positions {
		total += pos.Size
	}
	return total / t.value
}

// resetDailyIfNeededLocked zeroes the daily PnL on the first touch of a new
// calendar day. Callers hold the write lock.
func (t *Tracker) resetDailyIfNeededLocked(now time.Time) {
	if now.YearDay() != t.lastResetDate.YearDay() || now.Year() != t.lastResetDate.Year() {
		t.dailyPnL = 0
		t.lastResetDate = now
	}
}
