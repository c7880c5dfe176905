package boundary

import (
	"github.com/veridex/veridex/internal/model"
)

// Enforcer applies assertion-boundary rules to statement batches
type Enforcer struct {
	stopline *Stopline
}

// NewEnforcer creates an enforcer with the given stop-line scanner
func NewEnforcer(stopline *Stopline) *Enforcer {
	return &Enforcer{stopline: stopline}
}

// Enforce transforms a batch so the output never reads as an accusation.
// Per statement, in order: confidence clamped to [0,1]; stop-line scan, where
// a blocked statement is replaced one-for-one by an IMPLICATION carrying the
// refusal text and the original sources; a surviving FACT with no primary
// sources is downgraded to INFERENCE capped at 0.6. The input is not
// mutated, and the output is a fixed point: enforcing it again is a no-op.
func (e *Enforcer) Enforce(stmts []model.Statement) []model.Statement {
	safe := make([]model.Statement, 0, len(stmts))

	for i := range stmts {
		s := stmts[i].Clone()

		if s.Confidence < 0 {
			s.Confidence = 0
		} else if s.Confidence > 1 {
			s.Confidence = 1
		}

		if allowed, reason := e.stopline.Check(s.Text); !allowed {
			safe = append(safe, model.Statement{
				Type:             model.StatementImplication,
				Confidence:       1.0,
				Text:             reason,
				PrimarySources:   s.PrimarySources,
				SecondarySources: s.SecondarySources,
				Metadata: map[string]any{
					"blocked_original": s.Text,
					"rule":             RuleStopline,
				},
			})
			continue
		}

		if s.Type == model.StatementFact && len(s.PrimarySources) == 0 {
			s.Type = model.StatementInference
			if s.Confidence > 0.6 {
				s.Confidence = 0.6
			}
			if s.Metadata == nil {
				s.Metadata = map[string]any{}
			}
			s.Metadata["downgraded"] = "FACT_WITHOUT_SOURCES"
		}

		safe = append(safe, s)
	}

	return safe
}
