package cmd

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/k12coteacher/coteacher/internal/chat"
	"github.com/k12coteacher/coteacher/internal/profile"
	"github.com/k12coteacher/coteacher/internal/store"
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Chat about students with streaming responses",
	Long:  "Starts an interactive conversation. With exactly one --student the model can record teacher observations into that student's profile.",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		teacherID, _ := cmd.Flags().GetString("teacher")
		if teacherID == "" {
			return fmt.Errorf("--teacher is required")
		}
		sessionID, _ := cmd.Flags().GetString("session")
		studentIDs, _ := cmd.Flags().GetStringSlice("student")
		classID, _ := cmd.Flags().GetString("class")

		log, err := newLogger(cmd)
		if err != nil {
			return err
		}
		defer log.Sync()

		s, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		provider, err := newProvider(ctx, s)
		if err != nil {
			return err
		}

		profiles, err := buildProfileService(s)
		if err != nil {
			return err
		}

		format, err := loadFormatConfig(cmd)
		if err != nil {
			return err
		}

		loop := chat.NewLoop(provider, s.Conversations(), profiles, format, log)
		sink := &stdoutSink{}

		scanner := bufio.NewScanner(os.Stdin)
		fmt.Println("Type a message, or \"exit\" to quit.")
		for {
			fmt.Print("> ")
			if !scanner.Scan() {
				break
			}
			body := strings.TrimSpace(scanner.Text())
			if body == "" {
				continue
			}
			if body == "exit" || body == "quit" {
				break
			}

			result, err := loop.Turn(ctx, chat.TurnInput{
				Body:       body,
				TeacherID:  teacherID,
				SessionID:  sessionID,
				StudentIDs: studentIDs,
				ClassID:    classID,
			}, sink)
			if err != nil {
				fmt.Fprintf(os.Stderr, "error: %v\n", err)
				continue
			}
			sessionID = result.SessionID
		}
		return scanner.Err()
	},
}

func init() {
	chatCmd.Flags().String("teacher", "", "Teacher id")
	chatCmd.Flags().String("session", "", "Continue an existing conversation")
	chatCmd.Flags().StringSlice("student", nil, "Student id (repeatable)")
	chatCmd.Flags().String("class", "", "Class id for new conversations")
	chatCmd.Flags().String("format", "", "Profile format config YAML (default: built-in)")
}

// buildProfileService uses the remote profile API when either endpoint is
// configured, otherwise the local store. A partially configured API is an
// error rather than a silent fallback.
func buildProfileService(s *store.Store) (chat.ProfileService, error) {
	getURL := os.Getenv("COTEACHER_PROFILE_API")
	editURL := os.Getenv("COTEACHER_EDIT_PROFILE_API")
	if getURL == "" && editURL == "" {
		return chat.NewStoreProfileService(s.Profiles()), nil
	}
	return chat.NewHTTPProfileService(getURL, editURL)
}

// stdoutSink streams deltas to the terminal.
type stdoutSink struct{}

func (s *stdoutSink) Send(_ context.Context, text string) error {
	fmt.Print(text)
	return nil
}

func (s *stdoutSink) Complete(_ context.Context, sessionID string) error {
	fmt.Printf("\n[session %s]\n", sessionID)
	return nil
}

// loadFormatConfig reads --format when given, else uses the default.
func loadFormatConfig(cmd *cobra.Command) (profile.FormatConfig, error) {
	path, _ := cmd.Flags().GetString("format")
	if path == "" {
		return profile.DefaultFormatConfig(), nil
	}
	return profile.LoadFormatConfig(path)
}
