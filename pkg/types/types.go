package types

import (
	"encoding/json"
	"fmt"
	"strings"
)

// TradeDirection represents the side of a proposed trade
type TradeDirection int

const (
	DirectionBuy TradeDirection = iota
	DirectionSell
)

func (d TradeDirection) String() string {
	switch d {
	case DirectionBuy:
		return "BUY"
	case DirectionSell:
		return "SELL"
	default:
		return "UNKNOWN"
	}
}

// MarketRegime represents broad market conditions attached to a signal
type MarketRegime int

const (
	RegimeTrending MarketRegime = iota
	RegimeRanging
	RegimeVolatile
)

func (r MarketRegime) String() string {
	switch r {
	case RegimeTrending:
		return "TRENDING"
	case RegimeRanging:
		return "RANGING"
	case RegimeVolatile:
		return "VOLATILE"
	default:
		return "UNKNOWN"
	}
}

// RiskLevel represents a discrete risk classification derived from the 0-100 score
type RiskLevel int

const (
	RiskVeryLow RiskLevel = iota
	RiskLow
	RiskModerate
	RiskHigh
	RiskVeryHigh
	RiskExtreme
)

func (l RiskLevel) String() string {
	switch l {
	case RiskVeryLow:
		return "VERY_LOW"
	case RiskLow:
		return "LOW"
	case RiskModerate:
		return "MODERATE"
	case RiskHigh:
		return "HIGH"
	case RiskVeryHigh:
		return "VERY_HIGH"
	case RiskExtreme:
		return "EXTREME"
	default:
		return "UNKNOWN"
	}
}

// StopType distinguishes how a protective stop price was derived
type StopType int

const (
	StopFixed StopType = iota // supplied by the signal
	StopATRBased
)

func (s StopType) String() string {
	switch s {
	case StopFixed:
		return "FIXED"
	case StopATRBased:
		return "ATR_BASED"
	default:
		return "UNKNOWN"
	}
}

// TakeProfitType distinguishes how a profit target behaves over time
type TakeProfitType int

const (
	TakeProfitFixed TakeProfitType = iota // supplied by the signal, never adjusted
	TakeProfitDynamic
	TakeProfitPartialDynamic
)

func (t TakeProfitType) String() string {
	switch t {
	case TakeProfitFixed:
		return "FIXED"
	case TakeProfitDynamic:
		return "DYNAMIC"
	case TakeProfitPartialDynamic:
		return "PARTIAL_DYNAMIC"
	default:
		return "UNKNOWN"
	}
}

// MarshalJSON encodes enums as their string names so assessments serialize
// the same way they log.

func (d TradeDirection) MarshalJSON() ([]byte, error) { return json.Marshal(d.String()) }
func (r MarketRegime) MarshalJSON() ([]byte, error)   { return json.Marshal(r.String()) }
func (l RiskLevel) MarshalJSON() ([]byte, error)      { return json.Marshal(l.String()) }
func (s StopType) MarshalJSON() ([]byte, error)       { return json.Marshal(s.String()) }
func (t TakeProfitType) MarshalJSON() ([]byte, error) { return json.Marshal(t.String()) }

// ParseTradeDirection converts a direction name to its enum value
func ParseTradeDirection(s string) (TradeDirection, error) {
	switch strings.ToUpper(s) {
	case "BUY":
		return DirectionBuy, nil
	case "SELL":
		return DirectionSell, nil
	default:
		return DirectionBuy, fmt.Errorf("unknown trade direction: %q", s)
	}
}

// ParseMarketRegime converts a regime name to its enum value
func ParseMarketRegime(s string) (MarketRegime, error) {
	switch strings.ToUpper(s) {
	case "TRENDING":
		return RegimeTrending, nil
	case "RANGING":
		return RegimeRanging, nil
	case "VOLATILE":
		return RegimeVolatile, nil
	default:
		return RegimeTrending, fmt.Errorf("unknown market regime: %q", s)
	}
}

func (d *TradeDirection) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	v, err := ParseTradeDirection(s)
	if err != nil {
		return err
	}
	*d = v
	return nil
}

func (r *MarketRegime) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	v, err := ParseMarketRegime(s)
	if err != nil {
		return err
	}
	*r = v
	return nil
}
