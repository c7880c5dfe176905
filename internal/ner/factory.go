package ner

import (
	"strings"

	"github.com/cockroachdb/errors"

	"github.com/veridex/veridex/internal/model"
)

// NewRecognizer creates a recognizer from configuration. An empty provider
// yields the Null recognizer: extraction degrades to pattern-only.
func NewRecognizer(cfg model.NERConfig) (Recognizer, error) {
	switch strings.ToLower(cfg.Provider) {
	case "openai":
		return NewOpenAIRecognizer(cfg)
	case "":
		return Null{}, nil
	default:
		return nil, errors.Newf("unknown NER provider: %s (supported: openai)", cfg.Provider)
	}
}
