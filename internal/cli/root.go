// Package cli provides the command-line interface for briefmatrix
package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/creativeops/briefmatrix/internal/config"
	"github.com/creativeops/briefmatrix/internal/db"
	"github.com/creativeops/briefmatrix/internal/matrix"
)

var (
	database   *db.DB
	cfg        config.Config
	configPath string
	outputText bool // --text flag for human-readable output (default is JSON)
	verbose    bool
)

// rootCmd is the base command
var rootCmd = &cobra.Command{
	Use:   "briefmatrix",
	Short: "Plan and gate creative-brief production matrices",
	Long: `briefmatrix - Matrix Planning and Validation Engine

Convert upstream foundation research into a frozen awareness x emotion
planning grid, enter per-cell brief counts, enforce the four approval
gates, and persist the immutable approved plan.

Workflow:
  briefmatrix start --research r.json --brand b --product p   # Validate input, build axes
  briefmatrix set-cell <run-id> <awareness> <emotion> <count> # Enter counts
  briefmatrix submit <run-id> [--cells cells.json]            # Evaluate all four gates
  briefmatrix approve <run-id> --by <identity>                # Freeze and persist
  briefmatrix show <run-id>                                   # Read the approved artifact`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Skip setup for help commands
		if cmd.Name() == "help" || cmd.Name() == "version" {
			return nil
		}

		if verbose {
			slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug})))
		} else {
			slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn})))
		}

		var err error
		cfg, err = config.Load(configPath)
		if err != nil {
			return err
		}
		slog.Debug("config loaded", "cap", cfg.BriefCountCap, "hash", cfg.HashAlgorithm)

		database, err = db.Open(cfg.DatabasePath)
		if err != nil {
			return fmt.Errorf("failed to open database: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if database != nil {
			database.Close()
		}
	},
}

// Execute runs the CLI
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to config file (default .briefmatrix/config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&outputText, "text", false, "Human-readable text output (default is JSON)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Verbose diagnostics on stderr")

	rootCmd.AddCommand(versionCmd)
}

// policy derives the write policy from the loaded configuration.
func policy() matrix.Policy {
	return matrix.Policy{BriefCountCap: cfg.BriefCountCap}
}

// hasher resolves the configured snapshot hasher.
func hasher() (matrix.Hasher, error) {
	return matrix.HasherFor(cfg.HashAlgorithm)
}

// outputResult outputs the result in the appropriate format
// Default is JSON, use --text for human-readable
func outputResult(result interface{}) {
	if outputText {
		fmt.Printf("%+v\n", result)
	} else {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		enc.Encode(result)
	}
}

// outputError outputs an error in the appropriate format
func outputError(err error) {
	if outputText {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	} else {
		result := map[string]interface{}{
			"status": "error",
			"error":  err.Error(),
		}
		enc := json.NewEncoder(os.Stderr)
		enc.Encode(result)
	}
}

// readStdinJSON reads JSON from stdin
func readStdinJSON(v interface{}) error {
	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		return fmt.Errorf("failed to read stdin: %w", err)
	}
	if len(data) == 0 {
		return fmt.Errorf("no input provided on stdin")
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("failed to parse JSON: %w", err)
	}
	return nil
}

// readInputJSON reads JSON from stdin or file
func readInputJSON(input string, v interface{}) error {
	if input == "-" {
		return readStdinJSON(v)
	}

	data, err := os.ReadFile(input)
	if err != nil {
		return fmt.Errorf("failed to read file: %w", err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("failed to parse JSON: %w", err)
	}
	return nil
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("briefmatrix version 1.0.0")
	},
}
