package types

import "time"

// IndicatorSnapshot carries the indicator readings a strategy attaches to a
// signal. Every field has a sane zero-value default so missing readings are
// resolved here, at the boundary, instead of inside the engines.
type IndicatorSnapshot struct {
	RSI              float64 `json:"rsi"`
	MACDHistogram    float64 `json:"macd_histogram"`
	MomentumStrength float64 `json:"momentum_strength"` // 0-1, 0.5 = neutral
	VolumeRatio      float64 `json:"volume_ratio"`      // current volume / average volume
}

// Normalized returns a copy with unset fields replaced by neutral defaults.
func (i IndicatorSnapshot) Normalized() IndicatorSnapshot {
	out := i
	if out.RSI <= 0 || out.RSI > 100 {
		out.RSI = 50
	}
	if out.MomentumStrength <= 0 || out.MomentumStrength > 1 {
		out.MomentumStrength = 0.5
	}
	if out.VolumeRatio <= 0 {
		out.VolumeRatio = 1.0
	}
	return out
}

// TradingSignal is the fully-formed trade candidate produced by the external
// strategy layer. It is immutable and consumed once per assessment.
type TradingSignal struct {
	Symbol          string            `json:"symbol"`
	Direction       TradeDirection    `json:"direction"`
	Price           float64           `json:"price"`
	Confidence      float64           `json:"confidence"` // 0-100
	Regime          MarketRegime      `json:"market_regime"`
	ATR             float64           `json:"atr"`
	VolumeConfirmed bool              `json:"volume_confirmation"`
	StopLoss        float64           `json:"stop_loss,omitempty"`   // optional, 0 = derive
	TakeProfit      float64           `json:"take_profit,omitempty"` // optional, 0 = derive
	Indicators      IndicatorSnapshot `json:"indicators"`
	Timestamp       time.Time         `json:"timestamp"`
}

// OpenPosition describes one live position tracked by the portfolio aggregator.
type OpenPosition struct {
	Symbol     string         `json:"symbol"`
	Direction  TradeDirection `json:"direction"`
	Size       float64        `json:"size"` // notional, quote currency
	EntryPrice float64        `json:"entry_price"`
	OpenedAt   time.Time      `json:"opened_at"`
}

// PortfolioSnapshot is a consistent, read-only view of portfolio state taken
// at assessment time. The core never mutates it.
type PortfolioSnapshot struct {
	Value           float64                 `json:"value"`
	CurrentDrawdown float64                 `json:"current_drawdown"` // fraction of peak, 0.05 = 5%
	MaxDrawdown     float64                 `json:"max_drawdown"`
	DailyPnL        float64                 `json:"daily_pnl"`
	OpenPositions   map[string]OpenPosition `json:"open_positions"`
}
