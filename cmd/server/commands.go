package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"carepoint.io/care-assistant/internal/auth"
	"carepoint.io/care-assistant/internal/config"
	"carepoint.io/care-assistant/internal/speech"
	"carepoint.io/care-assistant/internal/store"
)

func kbCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "kb",
		Short: "Manage the medical knowledge base",
	}

	importCmd := &cobra.Command{
		Use:   "import <file.md>",
		Short: "Replace the knowledge base with the rows of a markdown table",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			db, err := store.NewSQLiteStore(cfg.DatabaseURL)
			if err != nil {
				return err
			}
			defer db.Close()

			n, err := db.IngestKnowledgeFromFile(cmd.Context(), args[0], newLogger(cfg))
			if err != nil {
				return fmt.Errorf("import failed: %w", err)
			}
			fmt.Printf("Imported %d knowledge entries.\n", n)
			return nil
		},
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List the entries the assistant answers from",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := bootstrap(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "KEY\tKIND\tTITLE")
			for _, e := range a.resolver.KnowledgeBase().Entries() {
				fmt.Fprintf(tw, "%s\t%s\t%s\n", e.Key, e.Kind, e.Title)
			}
			return tw.Flush()
		},
	}

	cmd.AddCommand(importCmd, listCmd)
	return cmd
}

func askCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ask [message]",
		Short: "Ask the assistant a single question",
		Long:  "Ask the assistant a single question, typed or spoken with --listen.",
		RunE: func(cmd *cobra.Command, args []string) error {
			speak, _ := cmd.Flags().GetBool("speak")
			binary, _ := cmd.Flags().GetString("espeak")
			listen, _ := cmd.Flags().GetBool("listen")
			recognizer, _ := cmd.Flags().GetString("recognizer")
			lang, _ := cmd.Flags().GetString("lang")

			if !listen && len(args) == 0 {
				return errors.New("a message is required unless --listen is set")
			}

			a, err := bootstrap(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			message := strings.Join(args, " ")
			if listen {
				if recognizer == "" {
					recognizer = a.cfg.SpeechRecognizer
				}
				message, err = listenOnce(cmd.Context(), recognizer, lang)
				if err != nil {
					return err
				}
				fmt.Printf("Heard: %s\n\n", message)
			}

			reply := a.resolver.Resolve(cmd.Context(), message, nil)
			fmt.Println(reply.Text)
			fmt.Printf("\n[source=%s confidence=%.2f language=%s]\n", reply.Source, reply.Confidence, reply.Language)
			for _, s := range reply.Suggestions {
				fmt.Printf("  > %s\n", s)
			}

			if !speak {
				return nil
			}
			var tts speech.TextToSpeech = speech.NoopSynthesizer{}
			if es := speech.NewESpeakSynthesizer(binary); es.Available() {
				tts = es
			} else {
				a.logger.Warn().Str("binary", binary).Msg("Speech synthesizer not found; reply not spoken")
			}
			return speech.NewSpeaker(tts, a.logger).Speak(cmd.Context(), reply.Text, reply.Language)
		},
	}
	cmd.Flags().Bool("speak", false, "Read the reply aloud")
	cmd.Flags().String("espeak", "espeak-ng", "Speech synthesizer binary")
	cmd.Flags().Bool("listen", false, "Take the question from the microphone")
	cmd.Flags().String("recognizer", "", "Speech-to-text command, {locale} is replaced with the session locale (default $SPEECH_RECOGNIZER)")
	cmd.Flags().String("lang", "en", "Language spoken with --listen")
	return cmd
}

// listenOnce runs one recognition session. Ctrl-C ends it.
func listenOnce(ctx context.Context, recognizer, lang string) (string, error) {
	rec, err := speech.NewCommandRecognizer(recognizer)
	if err != nil {
		return "", fmt.Errorf("%w (set --recognizer or SPEECH_RECOGNIZER)", err)
	}
	if !rec.Available() {
		return "", fmt.Errorf("%w: %s not found", speech.ErrRecognitionUnavailable, rec.Binary)
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	fmt.Fprintf(os.Stderr, "Listening (%s)...\n", speech.LocaleFor(lang))
	return speech.NewListener(rec).StartListening(ctx, lang)
}

func userCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "user",
		Short: "Manage accounts",
	}

	addCmd := &cobra.Command{
		Use:   "add <user-id>",
		Short: "Create an account with any role",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			role, _ := cmd.Flags().GetString("role")
			password, _ := cmd.Flags().GetString("password")
			if password == "" {
				return errors.New("--password is required")
			}
			switch role {
			case store.RolePatient, store.RoleDoctor, store.RoleAdmin:
			default:
				return fmt.Errorf("unknown role %q", role)
			}

			cfg, err := config.Load()
			if err != nil {
				return err
			}
			db, err := store.NewSQLiteStore(cfg.DatabaseURL)
			if err != nil {
				return err
			}
			defer db.Close()

			ctx := cmd.Context()
			if _, err := db.GetUserByExternalID(ctx, args[0]); err == nil {
				return fmt.Errorf("user %s already exists", args[0])
			} else if !errors.Is(err, store.ErrNotFound) {
				return err
			}

			hash, err := auth.HashPassword(password)
			if err != nil {
				return err
			}
			user, err := db.CreateUser(ctx, args[0], hash, role)
			if err != nil {
				return err
			}
			fmt.Printf("Created %s %s (id %d).\n", user.Role, user.ExternalUserID, user.ID)
			return nil
		},
	}
	addCmd.Flags().String("role", store.RolePatient, "patient, doctor or admin")
	addCmd.Flags().String("password", "", "Initial password")
	cmd.AddCommand(addCmd)
	return cmd
}
