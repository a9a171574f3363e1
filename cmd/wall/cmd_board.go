package main

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/ahmetcoskunkizilkaya/freedom-wall/internal/models"
	"github.com/ahmetcoskunkizilkaya/freedom-wall/internal/services"
)

func (a *cli) feedCmd() *cobra.Command {
	var mood string
	cmd := &cobra.Command{
		Use:   "feed",
		Short: "Show the wall, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.openSession()
			if err != nil {
				return err
			}
			items, err := s.Feed(commandContext(cmd), moodFlag(mood))
			if err != nil {
				return err
			}
			if a.jsonOut {
				return writeJSON(cmd, items)
			}
			if len(items) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "The wall is empty.")
				return nil
			}
			now := time.Now()
			for _, it := range items {
				printFeedItem(cmd, it, now)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&mood, "mood", "", "only show confessions with this mood")
	return cmd
}

func (a *cli) postCmd() *cobra.Command {
	var mood string
	cmd := &cobra.Command{
		Use:   "post <message>",
		Short: "Post an anonymous confession",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.openSession()
			if err != nil {
				return err
			}
			c, err := s.Submit(commandContext(cmd), strings.Join(args, " "), moodFlag(mood))
			var rl *services.RateLimitedError
			if errors.As(err, &rl) {
				return fmt.Errorf("you can post again in %d seconds", rl.RetryAfterSeconds)
			}
			if err != nil {
				return err
			}
			if a.jsonOut {
				return writeJSON(cmd, c)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Posted %s\n", c.ID)
			return nil
		},
	}
	cmd.Flags().StringVar(&mood, "mood", "", "Gratitude, Regret, Love, Apology, Hope or Others")
	return cmd
}

func (a *cli) reactCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "react <confession-id>",
		Short: "Send a heart to a confession",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := uuid.Parse(args[0])
			if err != nil {
				return fmt.Errorf("invalid confession id %q", args[0])
			}
			s, err := a.openSession()
			if err != nil {
				return err
			}
			res, err := s.React(commandContext(cmd), id)
			if err != nil {
				return err
			}
			if a.jsonOut {
				return writeJSON(cmd, res)
			}
			if res.AlreadyReacted {
				fmt.Fprintln(cmd.OutOrStdout(), "You already sent a heart to this one.")
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "♥ %d\n", res.Hearts)
			return nil
		},
	}
}

func (a *cli) reportCmd() *cobra.Command {
	var reason, details string
	cmd := &cobra.Command{
		Use:   "report <confession-id>",
		Short: "Report a confession to the moderators",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := uuid.Parse(args[0])
			if err != nil {
				return fmt.Errorf("invalid confession id %q", args[0])
			}
			r := models.ReportReason(reason)
			if !r.Valid() {
				return fmt.Errorf("unknown reason %q", reason)
			}
			s, err := a.openSession()
			if err != nil {
				return err
			}
			out, err := s.Report(commandContext(cmd), id, r, details)
			if err != nil {
				return err
			}
			if a.jsonOut {
				return writeJSON(cmd, out)
			}
			if out.AlreadyReported {
				fmt.Fprintln(cmd.OutOrStdout(), "You already reported this confession.")
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Thanks, the moderators will take a look.")
			return nil
		},
	}
	cmd.Flags().StringVar(&reason, "reason", string(models.ReasonOther), "harassment, sexual_content, self_harm, personal_info, spam or other")
	cmd.Flags().StringVar(&details, "details", "", "optional details for the moderators")
	return cmd
}

func (a *cli) welcomeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "welcome",
		Short: "Print the welcome note, only on the first run",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.openSession()
			if err != nil {
				return err
			}
			if s.Welcome() {
				fmt.Fprintln(cmd.OutOrStdout(), "Welcome to the Freedom Wall. Say what you never said. Be kind: no names, no slurs.")
			}
			return nil
		},
	}
}

func (a *cli) resetIdentityCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "reset-identity",
		Short: "Forget the anonymous client token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.openSession()
			if err != nil {
				return err
			}
			s.ResetIdentity()
			fmt.Fprintln(cmd.OutOrStdout(), "Identity reset. A new token is created on the next action.")
			return nil
		},
	}
}

func (a *cli) configCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Show the board settings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := a.client().BoardConfig(commandContext(cmd))
			if err != nil {
				return err
			}
			if a.jsonOut {
				return writeJSON(cmd, cfg)
			}
			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "Moods:   %s\n", strings.Join(cfg.Moods, ", "))
			for _, r := range cfg.Reasons {
				fmt.Fprintf(w, "Reason:  %-14s %s\n", r.Value, r.Label)
			}
			fmt.Fprintf(w, "Max message length: %d\n", cfg.MaxMessageLength)
			fmt.Fprintf(w, "Submit interval:    %ds\n", cfg.SubmitIntervalSeconds)
			if cfg.PostingClosesAt != nil {
				fmt.Fprintf(w, "Posting closes at:  %s\n", cfg.PostingClosesAt.Format(time.RFC1123))
			}
			return nil
		},
	}
}

func moodFlag(raw string) *models.Mood {
	if raw == "" {
		return nil
	}
	m := models.Mood(raw)
	return &m
}

func printFeedItem(cmd *cobra.Command, it services.FeedItem, now time.Time) {
	w := cmd.OutOrStdout()
	heart := "♡"
	if it.Reacted {
		heart = "♥"
	}
	tag := ""
	if it.Mood != nil {
		tag = " [" + string(*it.Mood) + "]"
	}
	if it.IsLatest {
		tag += " (new)"
	}
	fmt.Fprintf(w, "%s%s  %s %d  %s\n", it.ID, tag, heart, it.Hearts, it.CreatedAt.Local().Format("Jan 2 15:04"))
	fmt.Fprintf(w, "    %s\n", it.Message)
}
