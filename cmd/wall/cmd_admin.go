package main

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

func (a *cli) adminCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "admin",
		Short: "Moderator commands (needs --admin-token or WALL_ADMIN_TOKEN)",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if a.adminToken == "" {
				return fmt.Errorf("admin token is required")
			}
			return nil
		},
	}
	cmd.AddCommand(a.adminReportsCmd(), a.adminReviewCmd(), a.adminResolveCmd(), a.adminDeleteCmd())
	return cmd
}

func (a *cli) adminReportsCmd() *cobra.Command {
	var status string
	cmd := &cobra.Command{
		Use:   "reports",
		Short: "List reported confessions, most recently reported first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			groups, err := a.client().ReportGroups(commandContext(cmd), status)
			if err != nil {
				return err
			}
			if a.jsonOut {
				return writeJSON(cmd, groups)
			}
			w := cmd.OutOrStdout()
			if len(groups) == 0 {
				fmt.Fprintln(w, "No reports.")
				return nil
			}
			for _, g := range groups {
				preview := "(confession deleted)"
				if g.Confession != nil {
					preview = g.Confession.Message
				}
				fmt.Fprintf(w, "%s  %d report(s), last %s\n    %s\n", g.ContentID, g.Count, g.LatestTimestamp.Local().Format("Jan 2 15:04"), preview)
				for _, r := range g.Reports {
					fmt.Fprintf(w, "    - %s %-9s %s\n", r.ID, r.Status, r.Reason.Label())
				}
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&status, "status", "", "pending, reviewed or resolved")
	return cmd
}

func (a *cli) adminReviewCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "review <report-id>...",
		Short: "Mark reports as reviewed",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ids, err := parseUUIDs(args)
			if err != nil {
				return err
			}
			if err := a.client().MarkReviewed(commandContext(cmd), ids); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d report(s) marked as reviewed\n", len(ids))
			return nil
		},
	}
}

func (a *cli) adminResolveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "resolve <report-id>...",
		Short: "Resolve reports",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ids, err := parseUUIDs(args)
			if err != nil {
				return err
			}
			if err := a.client().Resolve(commandContext(cmd), ids); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d report(s) resolved\n", len(ids))
			return nil
		},
	}
}

func (a *cli) adminDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <confession-id>",
		Short: "Delete a confession with its reports and hearts",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := uuid.Parse(args[0])
			if err != nil {
				return fmt.Errorf("invalid confession id %q", args[0])
			}
			if err := a.client().DeleteConfession(commandContext(cmd), id); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Confession deleted")
			return nil
		},
	}
}

func parseUUIDs(raw []string) ([]uuid.UUID, error) {
	ids := make([]uuid.UUID, len(raw))
	for i, r := range raw {
		id, err := uuid.Parse(r)
		if err != nil {
			return nil, fmt.Errorf("invalid id %q", r)
		}
		ids[i] = id
	}
	return ids, nil
}
