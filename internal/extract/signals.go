package extract

import (
	"context"
	"unicode"

	"go.uber.org/zap"

	"github.com/veridex/veridex/internal/ner"
	"github.com/veridex/veridex/internal/normalize"
)

// EntitySignal is one entity occurrence summary for a page of text
type EntitySignal struct {
	Text       string
	Label      string
	Normalized string
	Count      int
}

// AssetSignal is one asset occurrence summary for a page of text
type AssetSignal struct {
	Type       string
	Value      string
	Normalized string
	Count      int
}

// SignalExtractor merges recognizer entities with pattern-derived signals.
// Extraction never fails a page: a recognizer error is logged and the
// pattern signals are returned on their own.
type SignalExtractor struct {
	recognizer    ner.Recognizer
	minTextLen    int
	minAlphaRatio float64
	logger        *zap.Logger
}

// NewSignalExtractor creates a signal extractor. The recognizer gate skips
// short or low-alpha text, which is usually OCR noise or binary junk.
func NewSignalExtractor(recognizer ner.Recognizer, minTextLen int, minAlphaRatio float64, logger *zap.Logger) *SignalExtractor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SignalExtractor{
		recognizer:    recognizer,
		minTextLen:    minTextLen,
		minAlphaRatio: minAlphaRatio,
		logger:        logger,
	}
}

// Extract returns the merged entity and asset signals for one page of text
func (e *SignalExtractor) Extract(ctx context.Context, text string) ([]EntitySignal, []AssetSignal) {
	type entKey struct{ text, label, norm string }
	entCounts := make(map[entKey]int)
	var entOrder []entKey

	addEnt := func(t, label string) {
		if t == "" {
			return
		}
		k := entKey{t, label, normalize.Key(t)}
		if _, seen := entCounts[k]; !seen {
			entOrder = append(entOrder, k)
		}
		entCounts[k]++
	}

	if e.shouldRecognize(text) {
		spans, err := e.recognizer.Recognize(ctx, text)
		if err != nil {
			e.logger.Warn("entity recognition failed, keeping pattern signals",
				zap.String("recognizer", e.recognizer.Name()),
				zap.Error(err))
		} else {
			for _, sp := range spans {
				addEnt(sp.Text, sp.Label)
			}
		}
	}

	for _, m := range emailRE.FindAllString(text, -1) {
		addEnt(m, LabelEmail)
	}
	for _, m := range phoneRE.FindAllString(text, -1) {
		addEnt(m, LabelPhone)
	}
	for _, m := range urlRE.FindAllString(text, -1) {
		addEnt(m, LabelURL)
	}

	type assetKey struct{ typ, value, norm string }
	assetCounts := make(map[assetKey]int)
	var assetOrder []assetKey

	addAsset := func(typ, value string) {
		k := assetKey{typ, value, normalize.Key(value)}
		if _, seen := assetCounts[k]; !seen {
			assetOrder = append(assetOrder, k)
		}
		assetCounts[k]++
	}

	for _, m := range aircraftRegRE.FindAllString(text, -1) {
		addAsset(AssetAircraftReg, m)
	}
	for _, m := range imoRE.FindAllString(text, -1) {
		addAsset(AssetIMO, m)
	}

	entities := make([]EntitySignal, 0, len(entOrder))
	for _, k := range entOrder {
		entities = append(entities, EntitySignal{
			Text:       k.text,
			Label:      k.label,
			Normalized: k.norm,
			Count:      entCounts[k],
		})
	}

	assets := make([]AssetSignal, 0, len(assetOrder))
	for _, k := range assetOrder {
		assets = append(assets, AssetSignal{
			Type:       k.typ,
			Value:      k.value,
			Normalized: k.norm,
			Count:      assetCounts[k],
		})
	}

	return entities, assets
}

func (e *SignalExtractor) shouldRecognize(text string) bool {
	if e.recognizer == nil {
		return false
	}
	if len(text) < e.minTextLen {
		return false
	}
	return alphaRatio(text) >= e.minAlphaRatio
}

func alphaRatio(text string) float64 {
	if len(text) == 0 {
		return 0
	}
	alpha := 0
	for _, r := range text {
		if unicode.IsLetter(r) {
			alpha++
		}
	}
	return float64(alpha) / float64(len(text))
}
