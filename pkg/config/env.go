package config

import (
	"os"
	"strconv"
)

// FromEnv returns the default configuration with any RISK_* environment
// overrides applied. The library itself never reads the environment; commands
// call this after loading their .env file.
func FromEnv() *RiskConfig {
	cfg := DefaultRiskConfig()

	cfg.MaxPortfolioRisk = getEnvFloat("RISK_MAX_PORTFOLIO_RISK", cfg.MaxPortfolioRisk)
	cfg.MaxPositionFraction = getEnvFloat("RISK_MAX_POSITION_FRACTION", cfg.MaxPositionFraction)
	cfg.MinPositionSize = getEnvFloat("RISK_MIN_POSITION_SIZE", cfg.MinPositionSize)
	cfg.KellyFraction = getEnvFloat("RISK_KELLY_FRACTION", cfg.KellyFraction)
	cfg.KellyWinRate = getEnvFloat("RISK_KELLY_WIN_RATE", cfg.KellyWinRate)
	cfg.KellyAvgWin = getEnvFloat("RISK_KELLY_AVG_WIN", cfg.KellyAvgWin)
	cfg.KellyAvgLoss = getEnvFloat("RISK_KELLY_AVG_LOSS", cfg.KellyAvgLoss)
	cfg.ATRStopMultiplier = getEnvFloat("RISK_ATR_STOP_MULTIPLIER", cfg.ATRStopMultiplier)
	cfg.TrailingActivationPct = getEnvFloat("RISK_TRAILING_ACTIVATION_PCT", cfg.TrailingActivationPct)
	cfg.TPIncrementPct = getEnvFloat("RISK_TP_INCREMENT_PCT", cfg.TPIncrementPct)
	cfg.TPMaxAdjustments = getEnvInt("RISK_TP_MAX_ADJUSTMENTS", cfg.TPMaxAdjustments)
	cfg.MaxDrawdown = getEnvFloat("RISK_MAX_DRAWDOWN", cfg.MaxDrawdown)
	cfg.MinConfidence = getEnvFloat("RISK_MIN_CONFIDENCE", cfg.MinConfidence)
	cfg.MaxOpenPositions = getEnvInt("RISK_MAX_OPEN_POSITIONS", cfg.MaxOpenPositions)
	cfg.MaxExposure = getEnvFloat("RISK_MAX_EXPOSURE", cfg.MaxExposure)

	if err := cfg.Validate(); err != nil {
		return DefaultRiskConfig()
	}
	return cfg
}

func getEnvFloat(key string, defaultVal float64) float64 {
	if val := os.Getenv(key); val != "" {
		if f, err := strconv.ParseFloat(val, 64); err == nil {
			return f
		}
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if val := os.Getenv(key); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			return i
		}
	}
	return defaultVal
}
