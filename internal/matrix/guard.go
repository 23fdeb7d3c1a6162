// Package matrix implements the planning grid engine: input validation,
// axis construction, cell storage, the four approval gates, and the
// draft-to-approved state machine.
package matrix

import (
	"fmt"

	"github.com/creativeops/briefmatrix/internal/models"
)

// ValidateResearch checks the upstream research artifact against the run's
// declared brand and product. Checks run in order and stop at the first
// failure; the result is either the fully valid artifact or a
// field-identifying InputError. Upstream data is never mutated.
func ValidateResearch(research *models.FoundationResearch, brandID, productID string) (*models.FoundationResearch, error) {
	if research == nil {
		return nil, &models.InputError{
			Kind:   models.InputMissingArtifact,
			Field:  "research",
			Detail: "no research artifact was provided",
		}
	}
	if research.SchemaVersion != models.FoundationSchemaVersion {
		return nil, &models.InputError{
			Kind:   models.InputSchemaVersionMismatch,
			Field:  "schema_version",
			Detail: fmt.Sprintf("got %q, need exactly %q", research.SchemaVersion, models.FoundationSchemaVersion),
		}
	}
	if research.BrandID != brandID {
		return nil, &models.InputError{
			Kind:   models.InputContextMismatch,
			Field:  "brand_id",
			Detail: fmt.Sprintf("research is for brand %q, run declares %q", research.BrandID, brandID),
		}
	}
	if research.ProductID != productID {
		return nil, &models.InputError{
			Kind:   models.InputContextMismatch,
			Field:  "product_id",
			Detail: fmt.Sprintf("research is for product %q, run declares %q", research.ProductID, productID),
		}
	}
	if len(research.Inventory) == 0 {
		return nil, &models.InputError{
			Kind:   models.InputEmptyEmotionInventory,
			Field:  "pillar_6_emotional_driver_inventory",
			Detail: "inventory is missing or empty",
		}
	}
	return research, nil
}
