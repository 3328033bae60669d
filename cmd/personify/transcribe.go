package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"personify/internal/protocol"
	"personify/internal/storage"
	"personify/internal/store"
	"personify/internal/transcription"
)

var (
	transcribeEmail    string
	transcribeIndex    int
	transcribeQuestion string
	transcribeDomain   string
	transcribeStore    bool
	transcribeUpload   bool
)

var transcribeCmd = &cobra.Command{
	Use:   "transcribe [audio-file]",
	Short: "Transcribe one recorded answer",
	Long: `Sends an audio recording to the transcription service and prints the
transcript with its confidence and keywords. With --store the answer is
appended to the user's ongoing session; with --upload the audio and the
transcription also go to object storage.

Example:
  personify transcribe q042.wav --email maria@example.com \
    --question-index 42 --question "Qual é o seu maior medo?" --domain "Ambições & Medos" \
    --store --upload`,
	Args: cobra.ExactArgs(1),
	RunE: runTranscribe,
}

func init() {
	transcribeCmd.Flags().StringVar(&transcribeEmail, "email", "", "user email (required)")
	transcribeCmd.Flags().IntVar(&transcribeIndex, "question-index", 0, "question number (required)")
	transcribeCmd.Flags().StringVar(&transcribeQuestion, "question", "", "question text")
	transcribeCmd.Flags().StringVar(&transcribeDomain, "domain", "", "question domain")
	transcribeCmd.Flags().BoolVar(&transcribeStore, "store", false, "append the answer to the ongoing session")
	transcribeCmd.Flags().BoolVar(&transcribeUpload, "upload", false, "upload audio and transcription to object storage")
	_ = transcribeCmd.MarkFlagRequired("email")
	_ = transcribeCmd.MarkFlagRequired("question-index")
}

func runTranscribe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	audio, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("failed to read audio file: %w", err)
	}

	transcriber, err := transcription.New(cfg.Transcription)
	if err != nil {
		return err
	}

	result, err := transcriber.Transcribe(ctx, audio)
	if err != nil {
		return err
	}
	logger.Info("transcription finished",
		zap.Float64("confidence", result.Confidence),
		zap.Float64("duration_seconds", result.Duration),
		zap.Int("chars", len(result.Transcript)))

	fmt.Println(result.Transcript)
	fmt.Printf("\nConfidence: %.2f  Duration: %.1fs\n", result.Confidence, result.Duration)
	if len(result.Keywords) > 0 {
		fmt.Println("Keywords:", strings.Join(result.Keywords, ", "))
	}

	audioURL := ""
	if transcribeUpload {
		uploader, err := storage.New(cfg.Storage)
		if err != nil {
			return err
		}
		audioUpload, err := uploader.UploadAudio(ctx, transcribeEmail, transcribeIndex, audio)
		if err != nil {
			return err
		}
		audioURL = audioUpload.PublicURL
		if _, err := uploader.UploadTranscription(ctx, transcribeEmail, transcribeIndex,
			transcribeQuestion, result.Transcript); err != nil {
			return err
		}
		fmt.Println("Audio:", audioURL)
	}

	if transcribeStore {
		db, err := store.Open(cfg.Store.DatabasePath)
		if err != nil {
			return err
		}
		defer db.Close()

		session, err := db.FindOrCreateOngoing(ctx, transcribeEmail, transcribeEmail)
		if err != nil {
			return err
		}
		rec := protocol.ResponseRecord{
			QuestionIndex:  transcribeIndex,
			QuestionDomain: transcribeDomain,
			QuestionText:   transcribeQuestion,
			TranscriptText: result.Transcript,
		}
		if _, err := db.AddResponse(ctx, session.ID, rec, audioURL, result.Duration); err != nil {
			return err
		}

		count, err := db.CountResponses(ctx, session.ID)
		if err != nil {
			return err
		}
		fmt.Printf("Stored in session %s (%d responses)\n", session.ID, count)
	}
	return nil
}
