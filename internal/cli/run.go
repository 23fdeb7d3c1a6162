package cli

import (
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/creativeops/briefmatrix/internal/db"
	"github.com/creativeops/briefmatrix/internal/matrix"
	"github.com/creativeops/briefmatrix/internal/models"
)

func init() {
	startCmd.Flags().String("research", "", "Path to the foundation research JSON (use - for stdin)")
	startCmd.Flags().String("brand", "", "Brand identifier this run is for")
	startCmd.Flags().String("product", "", "Product identifier this run is for")
	startCmd.Flags().String("run-id", "", "Run identifier (generated when omitted)")
	startCmd.MarkFlagRequired("research")
	startCmd.MarkFlagRequired("brand")
	startCmd.MarkFlagRequired("product")

	submitCmd.Flags().String("cells", "", "Path to a full cell set JSON (use - for stdin)")

	approveCmd.Flags().String("by", "", "Approver identity")
	approveCmd.MarkFlagRequired("by")

	showCmd.Flags().Bool("draft", false, "Show the draft snapshot instead of the persisted artifact")

	listCmd.Flags().Int("limit", 20, "Maximum number of runs to list")

	rootCmd.AddCommand(startCmd, setCellCmd, submitCmd, approveCmd, showCmd, listCmd, abandonCmd)
}

// restoreRun rebuilds the run context from a stored record.
func restoreRun(record *db.RunRecord) (*matrix.Run, error) {
	engine, err := matrix.NewGateEngine(policy())
	if err != nil {
		return nil, err
	}
	h, err := hasher()
	if err != nil {
		return nil, err
	}
	return matrix.RestoreRun(&record.Plan, record.State, engine, policy(), h, nil), nil
}

// saveRun writes the run's current snapshot and state back to storage.
func saveRun(record *db.RunRecord, run *matrix.Run) error {
	record.Plan = run.Snapshot()
	record.State = run.State()
	return db.NewRunRepository(database).Update(record)
}

// requireRun loads a run or fails with a named error.
func requireRun(runID string) (*db.RunRecord, error) {
	record, err := db.NewRunRepository(database).Get(runID)
	if err != nil {
		return nil, fmt.Errorf("failed to load run: %w", err)
	}
	if record == nil {
		return nil, fmt.Errorf("no run with id %s", runID)
	}
	return record, nil
}

var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Validate research and start a planning run",
	Long: `Validate the upstream foundation research and build the planning grid.

The research artifact must be schema_version 2.0, match the declared brand
and product, and carry a non-empty pillar-6 emotional driver inventory.
On success the run starts in draft with every cell at zero briefs.

Example:
  briefmatrix start --research research.json --brand acme --product widget`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		researchPath, _ := cmd.Flags().GetString("research")
		brandID, _ := cmd.Flags().GetString("brand")
		productID, _ := cmd.Flags().GetString("product")
		runID, _ := cmd.Flags().GetString("run-id")

		var research models.FoundationResearch
		if err := readInputJSON(researchPath, &research); err != nil {
			return &models.InputError{
				Kind:   models.InputMissingArtifact,
				Field:  "research",
				Detail: err.Error(),
			}
		}

		validated, err := matrix.ValidateResearch(&research, brandID, productID)
		if err != nil {
			return err
		}

		if runID == "" {
			runID = models.NewRunID()
		}
		plan, err := matrix.BuildPlan(validated, runID)
		if err != nil {
			return err
		}
		slog.Debug("axes built", "run_id", runID, "emotion_rows", len(plan.EmotionRows), "cells", len(plan.Cells))

		now := time.Now().UTC()
		record := &db.RunRecord{
			RunID:     runID,
			BrandID:   brandID,
			ProductID: productID,
			State:     matrix.StateDraft,
			Plan:      *plan,
			CreatedAt: now,
			UpdatedAt: now,
		}
		if err := db.NewRunRepository(database).Create(record); err != nil {
			return fmt.Errorf("failed to store run: %w", err)
		}

		outputResult(map[string]interface{}{
			"run_id": runID,
			"state":  matrix.StateDraft,
			"plan":   plan,
		})
		return nil
	},
}

var setCellCmd = &cobra.Command{
	Use:   "set-cell <run-id> <awareness-level> <emotion-key> <count>",
	Short: "Set the brief count for one matrix cell",
	Long: `Set the brief count for one awareness/emotion intersection.

Counts must be non-negative integers and, when a cap is configured, within
it. Writing any cell after a gate pass drops the run back to draft.

Example:
  briefmatrix set-cell 4f2a problem_aware fear_of_missing_out 3`,
	Args: cobra.ExactArgs(4),
	RunE: func(cmd *cobra.Command, args []string) error {
		runID := args[0]
		level := models.AwarenessLevel(args[1])
		emotionKey := args[2]
		count, err := strconv.Atoi(args[3])
		if err != nil {
			return fmt.Errorf("brief count must be an integer, got %q", args[3])
		}

		record, err := requireRun(runID)
		if err != nil {
			return err
		}
		run, err := restoreRun(record)
		if err != nil {
			return err
		}

		if err := run.SetCell(level, emotionKey, count); err != nil {
			return err
		}
		if err := saveRun(record, run); err != nil {
			return err
		}

		snapshot := run.Snapshot()
		outputResult(map[string]interface{}{
			"run_id": runID,
			"state":  run.State(),
			"cell": models.MatrixCell{
				AwarenessLevel: level,
				EmotionKey:     emotionKey,
				BriefCount:     count,
			},
			"totals": snapshot.Totals,
		})
		return nil
	},
}

var submitCmd = &cobra.Command{
	Use:   "submit <run-id>",
	Short: "Evaluate all four approval gates",
	Long: `Evaluate the plan against all four gates and print the full report.

With --cells, a complete cell set is applied first:
  [{"awareness_level": "...", "emotion_key": "...", "brief_count": N}, ...]

All four gates always report, even when one fails, so every problem can be
fixed before resubmitting. On an all-pass the run becomes eligible for
approval.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		runID := args[0]
		cellsPath, _ := cmd.Flags().GetString("cells")

		record, err := requireRun(runID)
		if err != nil {
			return err
		}
		run, err := restoreRun(record)
		if err != nil {
			return err
		}

		if cellsPath != "" {
			var cells []models.MatrixCell
			if err := readInputJSON(cellsPath, &cells); err != nil {
				return err
			}
			if err := run.ApplyCells(cells); err != nil {
				// Keep the applied prefix so the operator corrects in place.
				if saveErr := saveRun(record, run); saveErr != nil {
					return saveErr
				}
				return err
			}
		}

		report, err := run.Submit()
		if err != nil {
			return err
		}
		if err := saveRun(record, run); err != nil {
			return err
		}

		snapshot := run.Snapshot()
		outputResult(map[string]interface{}{
			"run_id":       runID,
			"state":        run.State(),
			"gate_report":  report,
			"all_passed":   report.AllPassed(),
			"total_briefs": snapshot.Totals.TotalBriefs,
		})
		return nil
	},
}

var approveCmd = &cobra.Command{
	Use:   "approve <run-id>",
	Short: "Approve a gate-passing plan and persist the artifact",
	Long: `Freeze the plan, record the approver and snapshot hash, and persist the
immutable MatrixPlan_v1 artifact.

Approval requires a gate pass on the current cells; there is no bypass.
Once approved, corrections require a new run.

Example:
  briefmatrix approve 4f2a --by jane@acme`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		runID := args[0]
		approvedBy, _ := cmd.Flags().GetString("by")

		record, err := requireRun(runID)
		if err != nil {
			return err
		}
		run, err := restoreRun(record)
		if err != nil {
			return err
		}

		artifact, err := run.Approve(approvedBy)
		if err != nil {
			return err
		}

		ref, err := db.NewArtifactRepository(database).Persist(artifact)
		if err != nil {
			return err
		}
		if err := saveRun(record, run); err != nil {
			return err
		}
		slog.Debug("artifact persisted", "run_id", runID, "hash", ref.SnapshotHash)

		outputResult(map[string]interface{}{
			"run_id":   runID,
			"state":    run.State(),
			"artifact": ref,
		})
		return nil
	},
}

var showCmd = &cobra.Command{
	Use:   "show <run-id>",
	Short: "Show the persisted artifact (or the draft snapshot)",
	Long: `Load the persisted MatrixPlan_v1 artifact for a run. The stored snapshot
hash is re-verified against the loaded content before anything is printed.

With --draft, show the current in-progress plan snapshot instead.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		runID := args[0]
		draft, _ := cmd.Flags().GetBool("draft")

		if draft {
			record, err := requireRun(runID)
			if err != nil {
				return err
			}
			// Totals are derived on read, never trusted from storage.
			record.Plan.Totals = matrix.ComputeTotals(&record.Plan)
			outputResult(map[string]interface{}{
				"run_id": runID,
				"state":  record.State,
				"plan":   record.Plan,
			})
			return nil
		}

		artifact, err := db.NewArtifactRepository(database).Load(runID)
		if err != nil {
			return err
		}
		h, err := hasher()
		if err != nil {
			return err
		}
		if err := matrix.VerifySnapshotHash(artifact, h); err != nil {
			return fmt.Errorf("artifact integrity check failed: %w", err)
		}
		outputResult(artifact)
		return nil
	},
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List planning runs",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")

		records, err := db.NewRunRepository(database).List(limit)
		if err != nil {
			return fmt.Errorf("failed to list runs: %w", err)
		}

		type runSummary struct {
			RunID       string       `json:"run_id"`
			BrandID     string       `json:"brand_id"`
			ProductID   string       `json:"product_id"`
			State       matrix.State `json:"state"`
			EmotionRows int          `json:"emotion_rows"`
			TotalBriefs int          `json:"total_briefs"`
			UpdatedAt   time.Time    `json:"updated_at"`
		}
		summaries := make([]runSummary, 0, len(records))
		for _, record := range records {
			totals := matrix.ComputeTotals(&record.Plan)
			summaries = append(summaries, runSummary{
				RunID:       record.RunID,
				BrandID:     record.BrandID,
				ProductID:   record.ProductID,
				State:       record.State,
				EmotionRows: len(record.Plan.EmotionRows),
				TotalBriefs: totals.TotalBriefs,
				UpdatedAt:   record.UpdatedAt,
			})
		}
		outputResult(map[string]interface{}{
			"runs":  summaries,
			"count": len(summaries),
		})
		return nil
	},
}

var abandonCmd = &cobra.Command{
	Use:   "abandon <run-id>",
	Short: "Abandon an unapproved run",
	Long: `Delete a draft run, leaving no persisted trace. Approved runs cannot be
abandoned: their artifacts are permanent.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		runID := args[0]

		record, err := requireRun(runID)
		if err != nil {
			return err
		}
		if record.State == matrix.StateApproved {
			return &models.ApprovalError{Kind: models.ApprovalAlreadyApproved, State: string(record.State)}
		}
		exists, err := db.NewArtifactRepository(database).Exists(runID)
		if err != nil {
			return err
		}
		if exists {
			return &models.PersistenceError{Kind: models.PersistenceAlreadyExists, RunID: runID}
		}

		if err := db.NewRunRepository(database).Delete(runID); err != nil {
			return fmt.Errorf("failed to delete run: %w", err)
		}
		outputResult(map[string]interface{}{
			"run_id": runID,
			"status": "abandoned",
		})
		return nil
	},
}
