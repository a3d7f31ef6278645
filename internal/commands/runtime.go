package commands

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/rs/zerolog"

	"github.com/noora-ekramy/accounting-demo/internal/chart"
	"github.com/noora-ekramy/accounting-demo/internal/config"
	"github.com/noora-ekramy/accounting-demo/internal/engine"
	"github.com/noora-ekramy/accounting-demo/internal/journal"
	"github.com/noora-ekramy/accounting-demo/internal/logger"
	"github.com/noora-ekramy/accounting-demo/internal/oracle"
)

// configFile is the project configuration at the repo root.
const configFile = "acct.yaml"

// rulesFile is the keyword rule file used by the rules oracle.
const rulesFile = "rules/categorization-rules.yaml"

// runtime bundles the loaded services a command works against.
type runtime struct {
	repoRoot string
	cfg      *config.Config
	chart    *chart.Service
	journal  *journal.Service
	engine   *engine.Engine
	log      zerolog.Logger
}

// loadRuntime loads config and chart from repoDir and wires up the engine
// with the configured oracle.
func loadRuntime(ctx context.Context, repoDir string, verbose bool) (*runtime, error) {
	absDir, err := filepath.Abs(repoDir)
	if err != nil {
		return nil, fmt.Errorf("resolving path: %w", err)
	}

	log := logger.New(verbose)

	cfg, err := config.Load(filepath.Join(absDir, configFile))
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	chartSvc, err := chart.Load(absDir)
	if err != nil {
		return nil, fmt.Errorf("loading chart of accounts: %w", err)
	}

	jrnl := journal.NewService(absDir, chartSvc.Snapshot())

	classifier, err := buildClassifier(ctx, absDir, cfg, jrnl)
	if err != nil {
		return nil, err
	}

	eng, err := engine.New(chartSvc, classifier, engine.Options{
		CounterAccountID:  cfg.Engine.CounterAccountID,
		FallbackExpenseID: cfg.Engine.FallbackExpenseID,
		FallbackIncomeID:  cfg.Engine.FallbackIncomeID,
		OracleTimeout:     cfg.Oracle.Timeout(),
		MaxSuggestions:    cfg.Engine.MaxSuggestions,
	}, log)
	if err != nil {
		return nil, fmt.Errorf("creating engine: %w", err)
	}

	return &runtime{
		repoRoot: absDir,
		cfg:      cfg,
		chart:    chartSvc,
		journal:  jrnl,
		engine:   eng,
		log:      log,
	}, nil
}

func buildClassifier(ctx context.Context, repoRoot string, cfg *config.Config, jrnl *journal.Service) (oracle.Classifier, error) {
	switch cfg.Oracle.Provider {
	case "", "gemini":
		g, err := oracle.NewGemini(ctx, cfg.Oracle.Model)
		if err != nil {
			return nil, fmt.Errorf("creating gemini oracle: %w", err)
		}
		return g, nil
	case "rules":
		r, err := oracle.LoadRules(filepath.Join(repoRoot, rulesFile))
		if err != nil {
			return nil, fmt.Errorf("loading rules oracle: %w", err)
		}
		return r, nil
	case "bayes":
		legs, err := jrnl.ReadAll()
		if err != nil {
			return nil, fmt.Errorf("reading journal history: %w", err)
		}
		b, err := oracle.NewBayes(legs, cfg.Engine.CounterAccountID)
		if err != nil {
			return nil, fmt.Errorf("training bayes oracle: %w", err)
		}
		return b, nil
	default:
		return nil, fmt.Errorf("unknown oracle provider %q", cfg.Oracle.Provider)
	}
}
