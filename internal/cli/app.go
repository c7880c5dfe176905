package cli

import (
	"fmt"
	"os"

	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/veridex/veridex/internal/boundary"
	"github.com/veridex/veridex/internal/cache"
	"github.com/veridex/veridex/internal/extract"
	"github.com/veridex/veridex/internal/logging"
	"github.com/veridex/veridex/internal/model"
	"github.com/veridex/veridex/internal/ner"
	"github.com/veridex/veridex/internal/store"
	"github.com/veridex/veridex/internal/worker"
)

// loadConfig merges defaults, config file, and environment into one Config.
// The API key only ever comes from the environment.
func loadConfig() (*model.Config, error) {
	cfg := model.DefaultConfig()
	if err := viper.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("parse configuration: %w", err)
	}
	cfg.Output.Verbose = cfg.Output.Verbose || verbose
	cfg.NER.APIKey = os.Getenv("OPENAI_API_KEY")
	return cfg, nil
}

// newLogger builds the command logger from the merged config
func newLogger(cfg *model.Config) (*zap.Logger, error) {
	return logging.New(cfg.Output.Verbose)
}

// openStore opens (and if needed creates) the evidence database
func openStore(cfg *model.Config) (*store.Store, error) {
	return store.Open(cfg.DBPath)
}

// newExtractor wires recognizer, cache, and rate limiter into a signal
// extractor per the config.
func newExtractor(cfg *model.Config, logger *zap.Logger) (*extract.SignalExtractor, error) {
	recognizer, err := ner.NewRecognizer(cfg.NER)
	if err != nil {
		return nil, err
	}

	if cfg.NER.Provider != "" {
		var c cache.Cache
		if cfg.Cache.Enabled {
			c = cache.NewLayeredCache(cfg.Cache.TTL, cfg.Cache.Dir, cfg.Cache.TTL)
		}
		limiter := worker.NewLimiter(cfg.Rate.RequestsPerSecond, cfg.Rate.BurstSize)
		recognizer = ner.NewCachedRecognizer(recognizer, c, limiter)
	}

	return extract.NewSignalExtractor(recognizer, cfg.NER.MinTextLen, cfg.NER.MinAlphaRatio, logger), nil
}

// newEnforcer builds the assertion boundary with any configured extra
// patterns on top of the immutable floor.
func newEnforcer(cfg *model.Config) (*boundary.Enforcer, error) {
	sl, err := boundary.NewStopline(cfg.ExtraStopPatterns)
	if err != nil {
		return nil, err
	}
	return boundary.NewEnforcer(sl), nil
}

// printStatements renders a statement batch for terminal consumption
func printStatements(stmts []model.Statement) {
	for i, s := range stmts {
		fmt.Printf("%d. [%s %.2f] %s\n", i+1, s.Type, s.Confidence, s.Text)
		for _, src := range s.PrimarySources {
			fmt.Printf("   source: %s p.%d: %s\n", src.Filename, src.Page, src.Snippet)
		}
		if len(s.SecondarySources) > 0 {
			for _, src := range s.SecondarySources {
				fmt.Printf("   secondary: %s\n", src)
			}
		}
		if blocked, ok := s.Metadata["blocked_original"]; ok {
			fmt.Printf("   blocked: %v\n", blocked)
		}
		if p, ok := s.Metadata["approx_p_value"]; ok {
			fmt.Printf("   approx_p_value: %v\n", p)
		}
	}
}

// analyzeDeps opens everything the analysis commands share
func analyzeDeps() (*store.Store, *boundary.Enforcer, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, nil, err
	}
	st, err := openStore(cfg)
	if err != nil {
		return nil, nil, err
	}
	enf, err := newEnforcer(cfg)
	if err != nil {
		st.Close()
		return nil, nil, err
	}
	return st, enf, nil
}
