package main

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"personify/internal/store"
)

var sessionsEmail string

var sessionsCmd = &cobra.Command{
	Use:   "sessions",
	Short: "Inspect stored analysis sessions",
}

var sessionsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List a user's sessions, newest first",
	RunE:  runSessionsList,
}

var sessionsShowCmd = &cobra.Command{
	Use:   "show [session-id]",
	Short: "Show one session and its responses",
	Args:  cobra.ExactArgs(1),
	RunE:  runSessionsShow,
}

func init() {
	sessionsListCmd.Flags().StringVar(&sessionsEmail, "email", "", "user email (required)")
	_ = sessionsListCmd.MarkFlagRequired("email")

	sessionsCmd.AddCommand(sessionsListCmd)
	sessionsCmd.AddCommand(sessionsShowCmd)
}

func runSessionsList(cmd *cobra.Command, args []string) error {
	db, err := store.Open(cfg.Store.DatabasePath)
	if err != nil {
		return err
	}
	defer db.Close()

	ctx := context.Background()
	sessions, err := db.ListSessions(ctx, sessionsEmail, 0)
	if err != nil {
		return err
	}
	if len(sessions) == 0 {
		fmt.Println("No sessions found.")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tSTATUS\tRESPONSES\tCREATED")
	for _, s := range sessions {
		count, err := db.CountResponses(ctx, s.ID)
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "%s\t%s\t%d\t%s\n", s.ID, s.Status, count, s.CreatedAt.Format("2006-01-02 15:04"))
	}
	return w.Flush()
}

func runSessionsShow(cmd *cobra.Command, args []string) error {
	db, err := store.Open(cfg.Store.DatabasePath)
	if err != nil {
		return err
	}
	defer db.Close()

	ctx := context.Background()
	session, err := db.GetSession(ctx, args[0])
	if err != nil {
		return err
	}
	responses, err := db.SessionResponses(ctx, session.ID)
	if err != nil {
		return err
	}

	fmt.Printf("Session %s\n", session.ID)
	fmt.Printf("  User:    %s\n", session.UserEmail)
	fmt.Printf("  Status:  %s\n", session.Status)
	fmt.Printf("  Created: %s\n", session.CreatedAt.Format("2006-01-02 15:04:05"))
	fmt.Printf("  Responses: %d\n\n", len(responses))

	for _, r := range responses {
		fmt.Printf("[%d] %s\n", r.QuestionIndex, r.QuestionDomain)
		if r.QuestionText != "" {
			fmt.Printf("  Q: %s\n", r.QuestionText)
		}
		if r.TranscriptText != "" {
			fmt.Printf("  A: %s\n", r.TranscriptText)
		}
		if r.AudioURL != "" {
			fmt.Printf("  Audio: %s (%.1fs)\n", r.AudioURL, r.AudioDuration)
		}
	}
	return nil
}
