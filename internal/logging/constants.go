package logging

// Standardized field names for structured logging.
const (
	FieldComponent  = "component"
	FieldSource     = "source"
	FieldSourceKind = "source_kind"
	FieldStage      = "stage"
	FieldRows       = "rows"
	FieldDropped    = "dropped_rows"
	FieldCount      = "count"
	FieldColumns    = "columns"
	FieldDuration   = "duration_ms"
	FieldCacheHit   = "cache_hit"
	FieldStatus     = "status"
	FieldURL        = "url"
	FieldStart      = "start"
	FieldEnd        = "end"
	FieldFormat     = "format"
	FieldOutputFile = "output_file"
	FieldAddress    = "address"
	FieldTTL        = "ttl"
	FieldFetchedAt  = "fetched_at"
)

// Component names used with FieldComponent.
const (
	ComponentNormalizer = "normalizer"
	ComponentFetcher    = "fetcher"
	ComponentLoader     = "loader"
	ComponentReport     = "report"
	ComponentServer     = "server"
)
