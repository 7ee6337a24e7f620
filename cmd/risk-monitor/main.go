package main

import (
	"flag"
	"log"
	"net/http"
	"time"

	"github.com/joho/godotenv"

	"github.com/GuidoEspinoza/Crypto-Trading-Analyzer-sub003/internal/logger"
	"github.com/GuidoEspinoza/Crypto-Trading-Analyzer-sub003/internal/monitoring"
	"github.com/GuidoEspinoza/Crypto-Trading-Analyzer-sub003/internal/portfolio"
	"github.com/GuidoEspinoza/Crypto-Trading-Analyzer-sub003/internal/risk"
	"github.com/GuidoEspinoza/Crypto-Trading-Analyzer-sub003/internal/stoploss"
	"github.com/GuidoEspinoza/Crypto-Trading-Analyzer-sub003/internal/takeprofit"
	"github.com/GuidoEspinoza/Crypto-Trading-Analyzer-sub003/pkg/config"
	"github.com/GuidoEspinoza/Crypto-Trading-Analyzer-sub003/pkg/reporting"
	"github.com/GuidoEspinoza/Crypto-Trading-Analyzer-sub003/pkg/types"
)

// risk-monitor runs one synthetic trade candidate through the full assessment
// pipeline and then drives the trailing engines across a scripted tick
// sequence. It exists to exercise the library end to end; it talks to no
// exchange and places no orders.
func main() {
	var (
		symbol      = flag.String("symbol", "BTCUSDT", "symbol for the demo signal")
		entry       = flag.Float64("entry", 50000, "entry price for the demo signal")
		atr         = flag.Float64("atr", 1000, "ATR for the demo signal")
		value       = flag.Float64("portfolio", 100000, "portfolio value")
		metricsAddr = flag.String("metrics", "", "optional address for the Prometheus endpoint, e.g. :9100")
		jsonOut     = flag.String("json", "", "optional path for the assessment JSON")
		xlsxOut     = flag.String("xlsx", "", "optional path for the assessment XLSX log")
	)
	flag.Parse()

	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using defaults and environment")
	}
	cfg := config.FromEnv()

	riskLog, err := logger.New("monitor")
	if err != nil {
		log.Printf("file logging unavailable: %v", err)
		riskLog = logger.NewDiscard()
	}
	defer riskLog.Close()

	if *metricsAddr != "" {
		go func() {
			log.Printf("Prometheus metrics on %s/metrics", *metricsAddr)
			if err := http.ListenAndServe(*metricsAddr, monitoring.Handler()); err != nil {
				log.Printf("metrics server stopped: %v", err)
			}
		}()
	}

	manager := risk.NewManager(cfg, riskLog)
	tracker := portfolio.NewTracker(cfg, *value)
	reporter := reporting.NewDefaultReporter()

	signal := types.TradingSignal{
		Symbol:          *symbol,
		Direction:       types.DirectionBuy,
		Price:           *entry,
		Confidence:      72,
		Regime:          types.RegimeTrending,
		ATR:             *atr,
		VolumeConfirmed: true,
		Indicators: types.IndicatorSnapshot{
			RSI:              58,
			MomentumStrength: 0.7,
			VolumeRatio:      1.3,
		},
		Timestamp: time.Now(),
	}

	assessment := manager.Assess(signal, tracker.Snapshot())
	reporter.OutputAssessment(&assessment)

	if !assessment.Approved {
		log.Println("Signal rejected; nothing to trail")
		return
	}

	tracker.OpenPosition(types.OpenPosition{
		Symbol:     signal.Symbol,
		Direction:  signal.Direction,
		Size:       assessment.PositionSizing.RecommendedSize,
		EntryPrice: signal.Price,
		OpenedAt:   time.Now(),
	})

	// Scripted rally: each tick moves 1% above the last, enough to arm the
	// trailing stop and exhaust the take-profit adjustment budget.
	stop := assessment.StopLoss
	target := assessment.TakeProfit
	price := signal.Price
	for i := 0; i < 12; i++ {
		price *= 1.01
		manager.UpdateStopLoss(signal.Symbol, &stop, signal.Direction, signal.Price, stoploss.Tick{
			Price:          price,
			Momentum:       0.7,
			VolatilityRisk: 0.4,
			VolumeRatio:    1.3,
		})
		manager.UpdateTakeProfit(signal.Symbol, &target, signal.Direction, signal.Price, takeprofit.Tick{
			Price:    price,
			Regime:   signal.Regime,
			Momentum: 0.7,
		})
		log.Printf("tick %2d: price=%.2f stop=%.2f target=%.2f (adj %d/%d)",
			i+1, price, stop.CurrentStop, target.CurrentTarget,
			target.AdjustmentsMade, target.MaxAdjustments)
	}

	assessment.StopLoss = stop
	assessment.TakeProfit = target

	if alerts := tracker.CheckAlerts(time.Now()); len(alerts) > 0 {
		lines := make([]string, 0, len(alerts))
		for _, alert := range alerts {
			lines = append(lines, alert.Message)
		}
		reporter.OutputAlertSummary(lines)
	}

	if *jsonOut != "" {
		if err := reporter.WriteAssessmentJSON(&assessment, *jsonOut); err != nil {
			log.Printf("JSON export failed: %v", err)
		} else {
			log.Printf("Assessment written to %s", *jsonOut)
		}
	}
	if *xlsxOut != "" {
		if err := reporter.WriteAssessmentsXLSX([]types.RiskAssessment{assessment}, *xlsxOut); err != nil {
			log.Printf("XLSX export failed: %v", err)
		} else {
			log.Printf("Assessment log written to %s", *xlsxOut)
		}
	}
}
