package matrix

import (
	"errors"
	"testing"

	"github.com/creativeops/briefmatrix/internal/models"
)

func TestValidateResearch_Valid(t *testing.T) {
	t.Parallel()

	research := testResearch()
	validated, err := ValidateResearch(research, "acme", "widget")
	if err != nil {
		t.Fatalf("ValidateResearch: %v", err)
	}
	if validated != research {
		t.Fatalf("validated artifact should be the input, unmutated")
	}
}

func TestValidateResearch_Rejections(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		mutate    func(*models.FoundationResearch) *models.FoundationResearch
		wantKind  models.InputErrorKind
		wantField string
	}{
		{
			name:     "missing artifact",
			mutate:   func(r *models.FoundationResearch) *models.FoundationResearch { return nil },
			wantKind: models.InputMissingArtifact, wantField: "research",
		},
		{
			name: "schema version 1.0",
			mutate: func(r *models.FoundationResearch) *models.FoundationResearch {
				r.SchemaVersion = "1.0"
				return r
			},
			wantKind: models.InputSchemaVersionMismatch, wantField: "schema_version",
		},
		{
			name: "schema version 2.1 is not forward compatible",
			mutate: func(r *models.FoundationResearch) *models.FoundationResearch {
				r.SchemaVersion = "2.1"
				return r
			},
			wantKind: models.InputSchemaVersionMismatch, wantField: "schema_version",
		},
		{
			name: "brand mismatch",
			mutate: func(r *models.FoundationResearch) *models.FoundationResearch {
				r.BrandID = "other-brand"
				return r
			},
			wantKind: models.InputContextMismatch, wantField: "brand_id",
		},
		{
			name: "product mismatch",
			mutate: func(r *models.FoundationResearch) *models.FoundationResearch {
				r.ProductID = "other-product"
				return r
			},
			wantKind: models.InputContextMismatch, wantField: "product_id",
		},
		{
			name: "empty inventory",
			mutate: func(r *models.FoundationResearch) *models.FoundationResearch {
				r.Inventory = nil
				return r
			},
			wantKind: models.InputEmptyEmotionInventory, wantField: "pillar_6_emotional_driver_inventory",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := ValidateResearch(tt.mutate(testResearch()), "acme", "widget")
			var inputErr *models.InputError
			if !errors.As(err, &inputErr) {
				t.Fatalf("want InputError, got %v", err)
			}
			if inputErr.Kind != tt.wantKind {
				t.Fatalf("Kind=%s, want %s", inputErr.Kind, tt.wantKind)
			}
			if inputErr.Field != tt.wantField {
				t.Fatalf("Field=%s, want %s", inputErr.Field, tt.wantField)
			}
		})
	}
}

func TestValidateResearch_ShortCircuitsOnFirstFailure(t *testing.T) {
	t.Parallel()

	// Both the version and the inventory are wrong; the earlier check wins.
	research := testResearch()
	research.SchemaVersion = "1.0"
	research.Inventory = nil

	_, err := ValidateResearch(research, "acme", "widget")
	var inputErr *models.InputError
	if !errors.As(err, &inputErr) {
		t.Fatalf("want InputError, got %v", err)
	}
	if inputErr.Kind != models.InputSchemaVersionMismatch {
		t.Fatalf("Kind=%s, want %s", inputErr.Kind, models.InputSchemaVersionMismatch)
	}
}
