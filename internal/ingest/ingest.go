// Package ingest walks a directory of raw files and loads them into the
// evidence store: one row per non-empty page, deduplicated by content
// fingerprint, with entity/asset signals linked and events derived. The whole
// run happens inside a single write transaction; per-file failures are logged
// and skipped so one bad file never aborts a batch.
package ingest

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/cockroachdb/errors"
	"go.uber.org/zap"

	"github.com/veridex/veridex/internal/extract"
	"github.com/veridex/veridex/internal/model"
	"github.com/veridex/veridex/internal/normalize"
	"github.com/veridex/veridex/internal/store"
)

// Ingestor orchestrates a batch ingestion run
type Ingestor struct {
	store     *store.Store
	extractor *extract.SignalExtractor
	maxBytes  int64
	logger    *zap.Logger
}

// NewIngestor creates an ingestor. maxFileSizeMB bounds individual files;
// anything larger is skipped.
func NewIngestor(st *store.Store, extractor *extract.SignalExtractor, maxFileSizeMB int, logger *zap.Logger) *Ingestor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Ingestor{
		store:     st,
		extractor: extractor,
		maxBytes:  int64(maxFileSizeMB) * 1024 * 1024,
		logger:    logger,
	}
}

// Run ingests every supported file under rawDir. Returns the run report; a
// non-nil error means the transaction rolled back and nothing was written.
func (ing *Ingestor) Run(ctx context.Context, rawDir string) (model.IngestReport, error) {
	var report model.IngestReport

	var files []string
	err := filepath.WalkDir(rawDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || d.Type()&fs.ModeSymlink != 0 {
			return nil
		}
		files = append(files, path)
		return nil
	})
	if err != nil {
		return report, errors.Wrap(err, "walk raw dir")
	}

	if len(files) == 0 {
		return report, errors.Newf("no files found in %s", rawDir)
	}

	err = ing.store.WithTx(func(tx *store.Tx) error {
		for _, path := range files {
			if err := ctx.Err(); err != nil {
				return err
			}
			report.FilesSeen++
			if err := ing.ingestFile(ctx, tx, path, &report); err != nil {
				report.FilesFailed++
				ing.logger.Warn("skipping file", zap.String("path", path), zap.Error(err))
			}
		}
		return nil
	})
	if err != nil {
		return model.IngestReport{}, err
	}

	return report, nil
}

func (ing *Ingestor) ingestFile(ctx context.Context, tx *store.Tx, path string, report *model.IngestReport) error {
	info, err := os.Lstat(path)
	if err != nil {
		return errors.Wrap(err, "stat")
	}
	if info.Size() > ing.maxBytes {
		ing.logger.Debug("file over size cap", zap.String("path", path), zap.Int64("bytes", info.Size()))
		return nil
	}

	pages, err := readPages(path)
	if err != nil {
		return err
	}

	filename := filepath.Base(path)
	for _, page := range pages {
		fingerprint := normalize.Fingerprint(page.Text)

		exists, err := tx.HasFingerprint(fingerprint)
		if err != nil {
			return err
		}
		if exists {
			report.PagesSkipped++
			continue
		}

		docID, err := tx.InsertDocument(filename, page.Number, page.Text, fingerprint)
		if err != nil {
			return err
		}
		report.PagesInserted++

		entities, assets := ing.extractor.Extract(ctx, page.Text)

		// index into entities -> entity row id, for event linking
		entityIDs := make(map[int]int64, len(entities))
		for i, es := range entities {
			eid, err := tx.UpsertEntity(es.Text, es.Label, es.Normalized)
			if err != nil {
				return err
			}
			if err := tx.LinkDocumentEntity(docID, eid, es.Count); err != nil {
				return err
			}
			entityIDs[i] = eid
			report.EntitiesLinked++
		}

		assetIDs := make([]int64, 0, len(assets))
		for _, as := range assets {
			aid, err := tx.UpsertAsset(as.Type, as.Value, as.Normalized)
			if err != nil {
				return err
			}
			if err := tx.LinkDocumentAsset(docID, aid, as.Count); err != nil {
				return err
			}
			assetIDs = append(assetIDs, aid)
			report.AssetsLinked++
		}

		derived, err := deriveEvent(tx, filename, page.Number, entities, entityIDs, assetIDs)
		if err != nil {
			return err
		}
		if derived {
			report.EventsDerived++
		}
	}

	return nil
}
