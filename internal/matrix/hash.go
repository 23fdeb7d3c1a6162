package matrix

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"

	"github.com/zeebo/blake3"

	"github.com/creativeops/briefmatrix/internal/models"
)

// Hasher produces the snapshot fingerprint. The algorithm is a
// deployment-time configuration point, so it sits behind an interface
// rather than a hardcoded call.
type Hasher interface {
	Name() string
	Sum(data []byte) string
}

// Blake3Hasher is the default snapshot hasher.
type Blake3Hasher struct{}

func (Blake3Hasher) Name() string { return "blake3" }

func (Blake3Hasher) Sum(data []byte) string {
	digest := blake3.Sum256(data)
	return hex.EncodeToString(digest[:])
}

// SHA256Hasher is the configurable alternative.
type SHA256Hasher struct{}

func (SHA256Hasher) Name() string { return "sha256" }

func (SHA256Hasher) Sum(data []byte) string {
	digest := sha256.Sum256(data)
	return hex.EncodeToString(digest[:])
}

// HasherFor resolves a configured algorithm name. An empty name selects
// the default.
func HasherFor(name string) (Hasher, error) {
	switch name {
	case "", "blake3":
		return Blake3Hasher{}, nil
	case "sha256":
		return SHA256Hasher{}, nil
	}
	return nil, fmt.Errorf("unknown hash algorithm %q (supported: blake3, sha256)", name)
}

// snapshotDocument fixes exactly what the snapshot hash covers: the frozen
// axes, every cell, and the derived totals. The approval record and run
// metadata are excluded, so the hash is reproducible from the plan content
// alone. Field order is fixed by this struct; Go marshals struct fields in
// declaration order and map keys sorted, which makes the serialization
// canonical.
type snapshotDocument struct {
	AwarenessLevels []models.AwarenessLevel `json:"awareness_levels"`
	EmotionRows     []models.EmotionRow     `json:"emotion_rows"`
	Cells           []models.MatrixCell     `json:"cells"`
	Totals          models.Totals           `json:"totals"`
}

// SnapshotHash computes the content fingerprint of a frozen plan.
func SnapshotHash(plan models.MatrixPlan, hasher Hasher) (string, error) {
	doc := snapshotDocument{
		AwarenessLevels: plan.AwarenessLevels,
		EmotionRows:     plan.EmotionRows,
		Cells:           plan.Cells,
		Totals:          plan.Totals,
	}
	raw, err := json.Marshal(doc)
	if err != nil {
		return "", fmt.Errorf("failed to serialize snapshot: %w", err)
	}
	return hasher.Sum(raw), nil
}

// VerifySnapshotHash recomputes the hash over a loaded artifact and
// compares it with the stored one.
func VerifySnapshotHash(artifact *models.MatrixPlanV1, hasher Hasher) error {
	if artifact.Approval == nil {
		return fmt.Errorf("artifact for run %s has no approval record", artifact.RunMetadata.RunID)
	}
	recomputed, err := SnapshotHash(artifact.Plan(), hasher)
	if err != nil {
		return err
	}
	if recomputed != artifact.Approval.SnapshotHash {
		return fmt.Errorf("snapshot hash mismatch for run %s: stored %s, recomputed %s",
			artifact.RunMetadata.RunID, artifact.Approval.SnapshotHash, recomputed)
	}
	return nil
}
