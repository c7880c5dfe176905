package model

// SearchHit is one full-text search result
type SearchHit struct {
	Filename string `json:"filename"`
	Page     int    `json:"page"`
	Snippet  string `json:"snippet"`
}

// EntityCount is an entity with its aggregate occurrence count
type EntityCount struct {
	Text  string `json:"text"`
	Label string `json:"label"`
	Count int    `json:"count"`
}

// AssetCount is an asset with its aggregate occurrence count
type AssetCount struct {
	Value string `json:"value"`
	Type  string `json:"type"`
	Count int    `json:"count"`
}

// Mention is one page on which an entity or asset occurs
type Mention struct {
	Filename string `json:"filename"`
	Page     int    `json:"page"`
	Content  string `json:"content"`
}

// EventSummary is one derived event row
type EventSummary struct {
	ID           int64  `json:"event_id"`
	DateText     string `json:"date_text"`
	LocationText string `json:"location_text"`
	Filename     string `json:"filename"`
	Page         int    `json:"page"`
}

// EventEntityRef is an entity participating in an event
type EventEntityRef struct {
	Text  string `json:"text"`
	Label string `json:"label"`
}

// EventAssetRef is an asset participating in an event
type EventAssetRef struct {
	Value string `json:"value"`
	Type  string `json:"type"`
}

// EventDetail is a single event with its participants
type EventDetail struct {
	EventSummary
	Entities []EventEntityRef `json:"entities"`
	Assets   []EventAssetRef  `json:"assets"`
}

// RegistryRecord is one externally supplied FACT-grade registry field
type RegistryRecord struct {
	RegistryName    string `json:"registry_name"`
	RecordType      string `json:"record_type"`
	FieldKey        string `json:"field_key"`
	FieldValue      string `json:"field_value"`
	PrimarySource   string `json:"primary_source"`
	SecondarySource string `json:"secondary_source,omitempty"`
}

// RegistryImportReport summarizes one registry import run
type RegistryImportReport struct {
	FilesProcessed int      `json:"files_processed"`
	RowsLoaded     int      `json:"rows_loaded"`
	RowsInserted   int      `json:"rows_inserted"`
	Warnings       []string `json:"warnings,omitempty"`
}

// IngestReport summarizes one ingestion run
type IngestReport struct {
	FilesSeen       int `json:"files_seen"`
	PagesInserted   int `json:"pages_inserted"`
	PagesSkipped    int `json:"pages_skipped"` // already ingested (fingerprint match)
	FilesFailed     int `json:"files_failed"`
	EventsDerived   int `json:"events_derived"`
	EntitiesLinked  int `json:"entities_linked"`
	AssetsLinked    int `json:"assets_linked"`
}
