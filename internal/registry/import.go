// Package registry loads offline registry extracts (CSV) into the store as
// FACT records with confidence 1.0, keyed so re-imports are idempotent.
package registry

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/cockroachdb/errors"

	"github.com/veridex/veridex/internal/model"
	"github.com/veridex/veridex/internal/normalize"
	"github.com/veridex/veridex/internal/store"
)

var requiredColumns = []string{
	"registry_name",
	"record_type",
	"subject_type",
	"subject_value",
	"field_key",
	"field_value",
	"primary_source",
}

// Importer loads registry CSV files
type Importer struct {
	store *store.Store
}

// NewImporter creates a registry importer
func NewImporter(st *store.Store) *Importer {
	return &Importer{store: st}
}

// ImportDir imports every CSV file in dir inside one transaction. Per-row
// and per-file problems become warnings in the report, never errors: a bad
// registry extract must not abort the rest of the import.
func (im *Importer) ImportDir(dir string) (model.RegistryImportReport, error) {
	var report model.RegistryImportReport

	matches, err := filepath.Glob(filepath.Join(dir, "*.csv"))
	if err != nil {
		return report, errors.Wrap(err, "list registry files")
	}
	sort.Strings(matches)

	if len(matches) == 0 {
		report.Warnings = append(report.Warnings, fmt.Sprintf("No CSV files found in %s", dir))
		return report, nil
	}

	err = im.store.WithTx(func(tx *store.Tx) error {
		for _, path := range matches {
			if err := im.importFile(tx, path, &report); err != nil {
				report.Warnings = append(report.Warnings, fmt.Sprintf("%s: failed to read (%v)", filepath.Base(path), err))
				continue
			}
			report.FilesProcessed++
		}
		return nil
	})
	if err != nil {
		return model.RegistryImportReport{}, err
	}

	return report, nil
}

func (im *Importer) importFile(tx *store.Tx, path string, report *model.RegistryImportReport) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	name := filepath.Base(path)
	reader := csv.NewReader(f)

	header, err := reader.Read()
	if err != nil {
		return err
	}

	col := make(map[string]int, len(header))
	for i, h := range header {
		col[strings.TrimSpace(h)] = i
	}

	var missing []string
	for _, c := range requiredColumns {
		if _, ok := col[c]; !ok {
			missing = append(missing, c)
		}
	}
	if len(missing) > 0 {
		report.Warnings = append(report.Warnings,
			fmt.Sprintf("%s: missing required columns: %s", name, strings.Join(missing, ", ")))
		return nil
	}

	field := func(record []string, key string) string {
		i := col[key]
		if i >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[i])
	}

	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			report.Warnings = append(report.Warnings, fmt.Sprintf("%s: bad row (%v)", name, err))
			continue
		}
		report.RowsLoaded++

		registryName := field(record, "registry_name")
		recordType := field(record, "record_type")
		subjectType := strings.ToUpper(field(record, "subject_type"))
		subjectValue := field(record, "subject_value")
		fieldKey := field(record, "field_key")
		fieldValue := field(record, "field_value")
		primarySource := field(record, "primary_source")
		if primarySource == "" {
			primarySource = name
		}

		var secondarySource *string
		if _, ok := col["secondary_source"]; ok {
			if v := field(record, "secondary_source"); v != "" {
				secondarySource = &v
			}
		}

		if subjectType != "ENTITY" && subjectType != "ASSET" {
			report.Warnings = append(report.Warnings,
				fmt.Sprintf("%s: invalid subject_type '%s' (must be ENTITY or ASSET)", name, subjectType))
			continue
		}
		if registryName == "" || recordType == "" || subjectValue == "" || fieldKey == "" || fieldValue == "" {
			continue
		}

		inserted, err := tx.InsertRegistryRecord(
			registryName, recordType, subjectType, normalize.Key(subjectValue),
			fieldKey, fieldValue, primarySource, secondarySource,
		)
		if err != nil {
			return err
		}
		if inserted {
			report.RowsInserted++
		}
	}

	return nil
}

// Lookup returns registry records for a subject value. The value is
// normalized the same way imports normalize it.
func (im *Importer) Lookup(subjectType, subjectValue string, limit int) ([]model.RegistryRecord, error) {
	return im.store.RegistryLookup(strings.ToUpper(strings.TrimSpace(subjectType)), normalize.Key(subjectValue), limit)
}
