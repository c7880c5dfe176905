package model

// StatementType grades how strongly a statement is anchored to source material
type StatementType string

const (
	StatementFact        StatementType = "FACT"        // Directly anchored to a document page
	StatementInference   StatementType = "INFERENCE"   // Derived from anchored data
	StatementImplication StatementType = "IMPLICATION" // Structural observation, weakest grade
)

// SourceRef is a primary citation pointing at one ingested page
type SourceRef struct {
	Filename string `json:"filename"`
	Page     int    `json:"page"`
	Snippet  string `json:"snippet"`
}

// Statement is a single evidentiary claim. Statements are transient: they are
// produced by analysis calls, transformed by the assertion boundary, and
// rendered, never persisted.
type Statement struct {
	Type             StatementType  `json:"statement_type"`
	Confidence       float64        `json:"confidence_score"`
	Text             string         `json:"text"`
	PrimarySources   []SourceRef    `json:"primary_sources"`
	SecondarySources []string       `json:"secondary_sources,omitempty"`
	Metadata         map[string]any `json:"metadata,omitempty"`
}

// Clone returns a deep copy so boundary transforms never alias caller state.
func (s Statement) Clone() Statement {
	out := s
	if s.PrimarySources != nil {
		out.PrimarySources = append([]SourceRef(nil), s.PrimarySources...)
	}
	if s.SecondarySources != nil {
		out.SecondarySources = append([]string(nil), s.SecondarySources...)
	}
	if s.Metadata != nil {
		out.Metadata = make(map[string]any, len(s.Metadata))
		for k, v := range s.Metadata {
			out.Metadata[k] = v
		}
	}
	return out
}
