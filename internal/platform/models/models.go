package models

import (
	"encoding/json"
	"strconv"

	"github.com/gosimple/slug"
)

// ResourceKind is category of Printful catalog entities handled by the source.
type ResourceKind string

// Resource kinds supported by the source.
const (
	KindSyncProduct      ResourceKind = "SyncProduct"
	KindWarehouseProduct ResourceKind = "WarehouseProduct"
	KindCountry          ResourceKind = "Country"
	KindTaxRate          ResourceKind = "TaxRate"
)

// Record is single semi-structured Printful record.
// Vendor fields are kept exactly as decoded from JSON, normalization only adds keys.
type Record map[string]any

// ApplySlug sets "slug" field derived from the record's "name" field.
// Records without a name get no slug. Slugs are not unique across records,
// collisions are tolerated downstream.
func (r Record) ApplySlug() {
	if name, ok := r["name"].(string); ok && name != "" {
		r["slug"] = slug.Make(name)
	}
}

// AsRecord converts a decoded JSON value into Record.
// Returns the record and whether the value was a JSON object.
func AsRecord(value any) (Record, bool) {
	switch val := value.(type) {
	case Record:
		return val, true
	case map[string]any:
		return Record(val), true
	default:
		return nil, false
	}
}

// Float coerces a value decoded from JSON into float64.
// Returns the coerced value and whether coercion succeeded.
func Float(value any) (float64, bool) {
	switch val := value.(type) {
	case float64:
		return val, true
	case int:
		return float64(val), true
	case json.Number:
		parsed, err := val.Float64()
		return parsed, err == nil
	case string:
		parsed, err := strconv.ParseFloat(val, 64)
		return parsed, err == nil
	default:
		return 0, false
	}
}

// OwnerID renders a vendor id as a stable string usable in filenames.
// JSON numbers decode as float64, so integer ids must be rendered without
// exponent notation or a trailing fraction.
func OwnerID(id any) string {
	switch val := id.(type) {
	case string:
		return val
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case json.Number:
		return val.String()
	case int:
		return strconv.Itoa(val)
	default:
		return ""
	}
}
