package matrix

import (
	"sync"

	"github.com/creativeops/briefmatrix/internal/models"
	"github.com/creativeops/briefmatrix/internal/search"
)

// Policy carries deployment-time write constraints. The cap is
// configuration, never a code constant.
type Policy struct {
	// BriefCountCap is the maximum brief_count per cell; 0 means uncapped.
	BriefCountCap int
}

// Capped reports whether a cap is configured.
func (p Policy) Capped() bool { return p.BriefCountCap > 0 }

type cellKey struct {
	level   models.AwarenessLevel
	emotion string
}

// CellStore holds the mutable cell counts for one run. The axis set is
// frozen at construction: writes to coordinates outside the cross product
// fail rather than extending it. Single-writer per run; the mutex
// serializes edits within one operator session.
type CellStore struct {
	mu     sync.Mutex
	plan   models.MatrixPlan
	policy Policy
	index  map[cellKey]int
}

// NewCellStore wraps a freshly built plan. The store takes its own deep
// copy so later mutations of the argument cannot leak in.
func NewCellStore(plan *models.MatrixPlan, policy Policy) *CellStore {
	s := &CellStore{
		plan:   plan.Clone(),
		policy: policy,
		index:  make(map[cellKey]int, len(plan.Cells)),
	}
	for i, cell := range s.plan.Cells {
		s.index[cellKey{cell.AwarenessLevel, cell.EmotionKey}] = i
	}
	return s
}

// SetCell writes one brief count. Unknown coordinates, negative counts,
// and counts over the configured cap are rejected with a CellError naming
// the offending cell.
func (s *CellStore) SetCell(level models.AwarenessLevel, emotionKey string, count int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i, ok := s.index[cellKey{level, emotionKey}]
	if !ok {
		return s.unknownCellError(level, emotionKey, count)
	}
	if count < 0 {
		return &models.CellError{
			Kind:           models.CellNegativeCount,
			AwarenessLevel: string(level),
			EmotionKey:     emotionKey,
			BriefCount:     count,
		}
	}
	if s.policy.Capped() && count > s.policy.BriefCountCap {
		return &models.CellError{
			Kind:           models.CellExceedsCap,
			AwarenessLevel: string(level),
			EmotionKey:     emotionKey,
			BriefCount:     count,
			Cap:            s.policy.BriefCountCap,
		}
	}
	s.plan.Cells[i].BriefCount = count
	return nil
}

// ApplyCells writes a full cell set in submission order, stopping at the
// first rejected write.
func (s *CellStore) ApplyCells(cells []models.MatrixCell) error {
	for _, cell := range cells {
		if err := s.SetCell(cell.AwarenessLevel, cell.EmotionKey, cell.BriefCount); err != nil {
			return err
		}
	}
	return nil
}

// Snapshot returns a fully consistent deep copy of the plan with totals
// recomputed. Totals are never cached, so they cannot drift from the
// cells.
func (s *CellStore) Snapshot() models.MatrixPlan {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := s.plan.Clone()
	out.Totals = ComputeTotals(&out)
	return out
}

// unknownCellError builds the rejection for an off-matrix coordinate,
// attaching the nearest known level or key when one is close enough.
func (s *CellStore) unknownCellError(level models.AwarenessLevel, emotionKey string, count int) error {
	cellErr := &models.CellError{
		Kind:           models.CellUnknown,
		AwarenessLevel: string(level),
		EmotionKey:     emotionKey,
		BriefCount:     count,
	}

	knownLevel := false
	for _, l := range s.plan.AwarenessLevels {
		if l == level {
			knownLevel = true
			break
		}
	}
	if !knownLevel {
		candidates := make([]string, 0, len(s.plan.AwarenessLevels))
		for _, l := range s.plan.AwarenessLevels {
			candidates = append(candidates, string(l))
		}
		cellErr.Suggestion = search.Closest(string(level), candidates)
		return cellErr
	}

	candidates := make([]string, 0, len(s.plan.EmotionRows))
	for _, row := range s.plan.EmotionRows {
		candidates = append(candidates, row.EmotionKey)
	}
	cellErr.Suggestion = search.Closest(emotionKey, candidates)
	return cellErr
}

// ComputeTotals derives the grand total and per-axis rollups from the
// current cell set.
func ComputeTotals(plan *models.MatrixPlan) models.Totals {
	totals := models.Totals{
		ByAwareness: make(map[string]int, len(plan.AwarenessLevels)),
		ByEmotion:   make(map[string]int, len(plan.EmotionRows)),
	}
	for _, level := range plan.AwarenessLevels {
		totals.ByAwareness[string(level)] = 0
	}
	for _, row := range plan.EmotionRows {
		totals.ByEmotion[row.EmotionKey] = 0
	}
	for _, cell := range plan.Cells {
		totals.TotalBriefs += cell.BriefCount
		totals.ByAwareness[string(cell.AwarenessLevel)] += cell.BriefCount
		totals.ByEmotion[cell.EmotionKey] += cell.BriefCount
	}
	return totals
}
