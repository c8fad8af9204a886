package main

import (
	"context"
	"flag"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/Navneet1710/ten-days-of-voice-agents-2025/store"
)

// demoCases mirrors the sample alerts used throughout development. The
// security answers are intentionally simple; this data is for demos only.
func demoCases() []*store.FraudCase {
	return []*store.FraudCase{
		{
			CustomerName:     "Asha",
			CardLast4:        "4242",
			Merchant:         "XYZ Store",
			Amount:           4999.00,
			TxTime:           time.Date(2025, 11, 3, 14, 12, 0, 0, time.UTC),
			Category:         "electronics",
			Source:           "online",
			Location:         "Mumbai, IN",
			SecurityQuestion: "What is your favorite color?",
			SecurityAnswer:   "blue",
		},
		{
			CustomerName:     "Ravi Kumar",
			CardLast4:        "9031",
			Merchant:         "Skyline Travel",
			Amount:           1250.50,
			TxTime:           time.Date(2025, 11, 4, 9, 45, 0, 0, time.UTC),
			Category:         "travel",
			Source:           "in person",
			Location:         "Delhi, IN",
			SecurityQuestion: "What city were you born in?",
			SecurityAnswer:   "Jaipur",
		},
		{
			CustomerName:     "Meera Shah",
			CardLast4:        "7718",
			Merchant:         "Gadget Hub",
			Amount:           329.99,
			TxTime:           time.Date(2025, 11, 5, 19, 3, 0, 0, time.UTC),
			Category:         "electronics",
			Source:           "online",
			Location:         "Pune, IN",
			SecurityQuestion: "What was the name of your first pet?",
			SecurityAnswer:   "Simba",
		},
	}
}

func runSeed(args []string) {
	fs := flag.NewFlagSet("seed", flag.ExitOnError)
	configPath := fs.String("config", "", "Path to config file")
	fs.Parse(args)

	cfg := loadConfig(*configPath)
	logger := initLogger(cfg.Log)
	defer logger.Sync()

	cases, err := newCaseStore(cfg, logger)
	if err != nil {
		exitErr(err)
	}
	defer cases.Close()

	ctx := context.Background()
	for _, c := range demoCases() {
		if err := cases.Create(ctx, c); err != nil {
			exitErr(fmt.Errorf("failed to seed case for %s: %w", c.CustomerName, err))
		}
		logger.Info("seeded fraud case",
			zap.Uint("case_id", c.ID),
			zap.String("customer", c.CustomerName),
			zap.String("merchant", c.Merchant),
		)
	}
	fmt.Printf("Seeded %d fraud cases into the %s backend.\n", len(demoCases()), cfg.Cases.Backend)
}
