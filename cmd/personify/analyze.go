package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"personify/internal/generation"
	"personify/internal/manual"
	"personify/internal/protocol"
	"personify/internal/storage"
	"personify/internal/store"
)

var (
	analyzeEmail     string
	analyzeResponses string
	analyzeSession   string
	analyzeOutputDir string
	analyzeUpload    bool
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Generate the personification manual from a session's responses",
	Long: `Runs the full analysis pipeline: loads the responses (from a JSON file or
a stored session), fans out the facet and domain analyses, assembles the
manual, and writes the manual, the markdown report and the fine-tuning
dataset. With --upload the artifacts also go to object storage.

Examples:
  personify analyze --email maria@example.com --responses responses.json
  personify analyze --email maria@example.com --session 6b1f... --upload`,
	RunE: runAnalyze,
}

func init() {
	analyzeCmd.Flags().StringVar(&analyzeEmail, "email", "", "user email (required)")
	analyzeCmd.Flags().StringVar(&analyzeResponses, "responses", "", "JSON file with response records")
	analyzeCmd.Flags().StringVar(&analyzeSession, "session", "", "stored session ID to analyze")
	analyzeCmd.Flags().StringVarP(&analyzeOutputDir, "output", "o", ".", "directory for generated artifacts")
	analyzeCmd.Flags().BoolVar(&analyzeUpload, "upload", false, "upload artifacts to object storage")
	_ = analyzeCmd.MarkFlagRequired("email")
	analyzeCmd.MarkFlagsMutuallyExclusive("responses", "session")
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	records, db, sessionID, err := loadRecords(ctx)
	if err != nil {
		return err
	}
	if db != nil {
		defer db.Close()
	}
	logger.Info("responses loaded", zap.Int("count", len(records)), zap.String("email", analyzeEmail))

	client, err := generation.NewClient(ctx, cfg.Generation)
	if err != nil {
		return err
	}

	assembler := manual.NewAssembler(client, cfg.Analysis)
	start := time.Now()
	result, err := assembler.Generate(ctx, records)
	if err != nil {
		if db != nil && sessionID != "" {
			_ = db.UpdateSessionStatus(ctx, sessionID, store.StatusError)
		}
		return err
	}
	logger.Info("manual assembled",
		zap.Duration("elapsed", time.Since(start)),
		zap.Int("domains", len(result.Manual.DomainAnalysis)),
		zap.Int("dataset_examples", len(result.Manual.FineTuningDataset)),
		zap.Strings("degraded_facets", result.Degraded))

	if err := writeArtifacts(result.Manual, records); err != nil {
		return err
	}

	if analyzeUpload {
		if err := uploadArtifacts(ctx, result.Manual, records); err != nil {
			return err
		}
	}

	if db != nil && sessionID != "" {
		if err := db.UpdateSessionStatus(ctx, sessionID, store.StatusCompleted); err != nil {
			return err
		}
	}

	fmt.Printf("Manual generated: %d domains, %d dataset examples",
		len(result.Manual.DomainAnalysis), len(result.Manual.FineTuningDataset))
	if len(result.Degraded) > 0 {
		fmt.Printf(" (%d facets degraded: %v)", len(result.Degraded), result.Degraded)
	}
	fmt.Println()
	return nil
}

// loadRecords reads the responses from the --responses file or the --session
// store. When a session is used, the opened store and session ID are returned
// so the caller can transition the session afterwards.
func loadRecords(ctx context.Context) ([]protocol.ResponseRecord, *store.Store, string, error) {
	switch {
	case analyzeResponses != "":
		data, err := os.ReadFile(analyzeResponses)
		if err != nil {
			return nil, nil, "", fmt.Errorf("failed to read responses file: %w", err)
		}
		var records []protocol.ResponseRecord
		if err := json.Unmarshal(data, &records); err != nil {
			return nil, nil, "", fmt.Errorf("failed to parse responses file: %w", err)
		}
		return records, nil, "", nil

	case analyzeSession != "":
		db, err := store.Open(cfg.Store.DatabasePath)
		if err != nil {
			return nil, nil, "", err
		}
		records, err := db.ResponseRecords(ctx, analyzeSession)
		if err != nil {
			db.Close()
			return nil, nil, "", err
		}
		return records, db, analyzeSession, nil

	default:
		return nil, nil, "", fmt.Errorf("either --responses or --session is required")
	}
}

func writeArtifacts(m *manual.PersonificationManual, records []protocol.ResponseRecord) error {
	if err := os.MkdirAll(analyzeOutputDir, 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	manualJSON, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal manual: %w", err)
	}
	manualPath := filepath.Join(analyzeOutputDir, "manual.json")
	if err := os.WriteFile(manualPath, manualJSON, 0o644); err != nil {
		return fmt.Errorf("failed to write manual: %w", err)
	}

	report := storage.RenderReport(analyzeEmail, m, records, time.Now())
	reportPath := filepath.Join(analyzeOutputDir, "report.md")
	if err := os.WriteFile(reportPath, []byte(report), 0o644); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}

	jsonl, err := storage.RenderJSONL(m.FineTuningDataset)
	if err != nil {
		return err
	}
	datasetPath := filepath.Join(analyzeOutputDir, "dataset.jsonl")
	if err := os.WriteFile(datasetPath, jsonl, 0o644); err != nil {
		return fmt.Errorf("failed to write dataset: %w", err)
	}

	logger.Info("artifacts written",
		zap.String("manual", manualPath),
		zap.String("report", reportPath),
		zap.String("dataset", datasetPath))
	return nil
}

func uploadArtifacts(ctx context.Context, m *manual.PersonificationManual, records []protocol.ResponseRecord) error {
	uploader, err := storage.New(cfg.Storage)
	if err != nil {
		return err
	}

	report, err := uploader.UploadReport(ctx, analyzeEmail, m, records)
	if err != nil {
		return err
	}
	dataset, err := uploader.UploadDataset(ctx, analyzeEmail, m.FineTuningDataset)
	if err != nil {
		return err
	}
	snapshot, err := uploader.UploadResponsesSnapshot(ctx, analyzeEmail, records)
	if err != nil {
		return err
	}

	logger.Info("artifacts uploaded",
		zap.String("report", report.PublicURL),
		zap.String("dataset", dataset.PublicURL),
		zap.String("responses", snapshot.PublicURL))
	fmt.Println("Report:", report.PublicURL)
	fmt.Println("Dataset:", dataset.PublicURL)
	return nil
}
