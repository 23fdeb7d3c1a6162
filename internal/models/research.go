package models

// FoundationSchemaVersion is the only upstream research schema this engine
// accepts. Exact match, no forward compatibility.
const FoundationSchemaVersion = "2.0"

// EmotionEntry is one entry of the pillar-6 emotional driver inventory.
// Entry order is meaningful and preserved into the emotion axis.
type EmotionEntry struct {
	Key            string   `json:"key"`
	Label          string   `json:"label"`
	SampleQuoteIDs []string `json:"sample_quote_ids"`
	LedgerRef      *string  `json:"ledger_ref,omitempty"`
}

// FoundationResearch is the upstream research artifact. It is consumed
// read-only: validation either accepts it whole or rejects it with a
// field-identifying InputError, and never mutates it.
type FoundationResearch struct {
	SchemaVersion string         `json:"schema_version"`
	BrandID       string         `json:"brand_id"`
	ProductID     string         `json:"product_id"`
	Inventory     []EmotionEntry `json:"pillar_6_emotional_driver_inventory"`
}
