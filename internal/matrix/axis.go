package matrix

import (
	"strings"
	"unicode"

	"github.com/creativeops/briefmatrix/internal/models"
)

// NormalizeEmotionKey canonicalizes an emotion key once, at axis build
// time: lowercased, trimmed, and interior separator runs collapsed to a
// single underscore. After this point keys are opaque and compared only
// for equality.
func NormalizeEmotionKey(key string) string {
	var b strings.Builder
	pendingSep := false
	for _, r := range strings.ToLower(strings.TrimSpace(key)) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			if pendingSep && b.Len() > 0 {
				b.WriteByte('_')
			}
			pendingSep = false
			b.WriteRune(r)
		} else {
			pendingSep = true
		}
	}
	return b.String()
}

// BuildPlan derives the planning grid from validated research. The
// awareness axis is always the 5 canonical levels in canonical order; the
// emotion axis preserves inventory order, collapsing entries whose keys
// normalize to the same value (evidence references merge into the first
// occurrence). Every awareness×emotion cell is created up front with a
// zero count, so no cell is ever missing by construction.
//
// Evidence may legitimately be empty here: Gate C reports it later with
// the rest of the picture instead of crashing the build.
func BuildPlan(research *models.FoundationResearch, runID string) (*models.MatrixPlan, error) {
	rows := make([]models.EmotionRow, 0, len(research.Inventory))
	rowIndex := make(map[string]int, len(research.Inventory))

	for _, entry := range research.Inventory {
		key := NormalizeEmotionKey(entry.Key)
		if key == "" {
			continue
		}
		refs := entry.SampleQuoteIDs
		if entry.LedgerRef != nil && *entry.LedgerRef != "" {
			refs = append(append([]string{}, refs...), *entry.LedgerRef)
		}
		if i, ok := rowIndex[key]; ok {
			rows[i].EvidenceRefs = dedupeRefs(append(rows[i].EvidenceRefs, refs...))
			continue
		}
		rowIndex[key] = len(rows)
		rows = append(rows, models.EmotionRow{
			EmotionKey:   key,
			EmotionLabel: entry.Label,
			EvidenceRefs: dedupeRefs(refs),
		})
	}

	if len(rows) == 0 {
		return nil, &models.AxisBuildError{
			Kind:   models.AxisNoEmotionRows,
			Detail: "inventory yielded zero emotion rows after normalization",
		}
	}

	levels := models.CanonicalAwarenessLevels()
	cells := make([]models.MatrixCell, 0, len(levels)*len(rows))
	for _, level := range levels {
		for _, row := range rows {
			cells = append(cells, models.MatrixCell{
				AwarenessLevel: level,
				EmotionKey:     row.EmotionKey,
				BriefCount:     0,
			})
		}
	}

	plan := &models.MatrixPlan{
		RunMetadata: models.RunMetadata{
			BrandID:                 research.BrandID,
			ProductID:               research.ProductID,
			RunID:                   runID,
			FoundationSchemaVersion: research.SchemaVersion,
		},
		AwarenessLevels: levels,
		EmotionRows:     rows,
		Cells:           cells,
	}
	plan.Totals = ComputeTotals(plan)
	return plan, nil
}

// dedupeRefs removes blank and duplicate references, preserving order.
func dedupeRefs(in []string) []string {
	seen := make(map[string]struct{}, len(in))
	out := make([]string, 0, len(in))
	for _, s := range in {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}
