package risk

import "fmt"

// ErrorCategory classifies assessment failures by the component that degraded.
type ErrorCategory string

const (
	ErrorCategoryInput  ErrorCategory = "INPUT"
	ErrorCategorySizing ErrorCategory = "SIZING"
	ErrorCategoryStop   ErrorCategory = "STOP_LOSS"
	ErrorCategoryTarget ErrorCategory = "TAKE_PROFIT"
)

// RiskError carries the component and operation context for a degraded
// computation. Every RiskError corresponds to a recorded fallback or a
// rejected update, never to an aborted assessment.
type RiskError struct {
	Category   ErrorCategory
	Symbol     string
	Operation  string
	Underlying error
}

// Error implements the error interface
func (e *RiskError) Error() string {
	if e.Underlying != nil {
		return fmt.Sprintf("[%s] %s %s: %v", e.Category, e.Symbol, e.Operation, e.Underlying)
	}
	return fmt.Sprintf("[%s] %s %s", e.Category, e.Symbol, e.Operation)
}

// Unwrap returns the underlying error for error unwrapping
func (e *RiskError) Unwrap() error {
	return e.Underlying
}

// wrapError attaches risk context to a component error.
func wrapError(err error, category ErrorCategory, symbol, operation string) *RiskError {
	return &RiskError{
		Category:   category,
		Symbol:     symbol,
		Operation:  operation,
		Underlying: err,
	}
}
