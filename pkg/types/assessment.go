package types

import "time"

// PositionSizing holds the bounded size recommendation for one trade.
type PositionSizing struct {
	RecommendedSize float64   `json:"recommended_size"` // notional, quote currency
	MaxPositionSize float64   `json:"max_position_size"`
	RiskAmount      float64   `json:"risk_amount"` // budget at risk for this trade
	Leverage        float64   `json:"leverage"`    // recommended size / portfolio value
	RiskLevel       RiskLevel `json:"risk_level"`
	Reasoning       string    `json:"reasoning"`
}

// DynamicStopLoss is the per-position protective stop record. It is owned by
// the live position and mutated tick-by-tick by the stop-loss engine; callers
// must serialize updates to the same record.
type DynamicStopLoss struct {
	InitialStop      float64   `json:"initial_stop"`
	CurrentStop      float64   `json:"current_stop"`
	ATRMultiplier    float64   `json:"atr_multiplier"`
	Type             StopType  `json:"type"`
	TrailingDistance float64   `json:"trailing_distance"` // fraction of price
	Trailing         bool      `json:"trailing"`          // activation state
	LastUpdated      time.Time `json:"last_updated"`
}

// DynamicTakeProfit is the per-position profit target record, ratcheted in the
// favorable direction at most MaxAdjustments times.
type DynamicTakeProfit struct {
	InitialTarget       float64        `json:"initial_target"`
	CurrentTarget       float64        `json:"current_target"`
	TrailingTarget      float64        `json:"trailing_target"`
	IncrementPct        float64        `json:"increment_pct"`
	Type                TakeProfitType `json:"type"`
	ConfidenceThreshold float64        `json:"confidence_threshold"`
	MaxAdjustments      int            `json:"max_adjustments"`
	AdjustmentsMade     int            `json:"adjustments_made"`
	LastTriggerPrice    float64        `json:"last_trigger_price,omitempty"` // price of the last accepted ratchet
	LastUpdated         time.Time      `json:"last_updated"`
}

// Locked reports whether the target has exhausted its adjustment budget.
func (tp *DynamicTakeProfit) Locked() bool {
	return tp.AdjustmentsMade >= tp.MaxAdjustments
}

// RiskAssessment is the self-contained result of assessing one signal. It owns
// copies of its sub-records; it is a value, not shared mutable state, and is
// suitable for JSON encoding.
type RiskAssessment struct {
	Timestamp         time.Time          `json:"timestamp"`
	Symbol            string             `json:"symbol"`
	Direction         TradeDirection     `json:"direction"`
	EntryPrice        float64            `json:"entry_price"`
	OverallRiskScore  float64            `json:"overall_risk_score"` // 0-100
	RiskLevel         RiskLevel          `json:"risk_level"`
	PositionSizing    PositionSizing     `json:"position_sizing"`
	StopLoss          DynamicStopLoss    `json:"stop_loss"`
	TakeProfit        DynamicTakeProfit  `json:"take_profit"`
	MarketRiskFactors map[string]float64 `json:"market_risk_factors"`
	PortfolioMetrics  map[string]float64 `json:"portfolio_metrics"`
	Recommendations   []string           `json:"recommendations"`
	Approved          bool               `json:"approved"`
}
