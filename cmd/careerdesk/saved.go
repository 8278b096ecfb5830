package main

import (
	"fmt"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/alexisbeaulieu97/careerdesk/internal/bookmarks"
	"github.com/alexisbeaulieu97/careerdesk/internal/record"
	"github.com/alexisbeaulieu97/careerdesk/pkg/diff"
)

func newSavedCmd(rootFlags *rootFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "saved",
		Short: "Manage saved listings",
		Long:  "List, add and remove records saved for later. Saved records keep a copy of their data and are available offline.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	cmd.AddCommand(newSavedListCmd(rootFlags))
	cmd.AddCommand(newSavedAddCmd(rootFlags))
	cmd.AddCommand(newSavedRemoveCmd(rootFlags))
	cmd.AddCommand(newSavedDiffCmd(rootFlags))

	return cmd
}

type savedListOptions struct {
	collection string
	jsonOutput bool
}

func newSavedListCmd(rootFlags *rootFlags) *cobra.Command {
	opts := &savedListOptions{}

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List saved records, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newAppContext(cmd, rootFlags, "saved list", appOptions{})
			if err != nil {
				return err
			}
			defer app.Close()

			saved := app.Bookmarks.List(opts.collection)
			if opts.jsonOutput {
				return writeJSON(cmd.OutOrStdout(), savedJSONPayload{Version: "1.0", Count: len(saved), Bookmarks: saved})
			}
			return renderSavedTable(cmd, saved)
		},
	}

	cmd.Flags().StringVarP(&opts.collection, "collection", "c", "", "Only show this collection")
	cmd.Flags().BoolVar(&opts.jsonOutput, "json", false, "Output in JSON format")

	return cmd
}

type savedJSONPayload struct {
	Version   string               `json:"version"`
	Count     int                  `json:"count"`
	Bookmarks []bookmarks.Bookmark `json:"bookmarks"`
}

func renderSavedTable(cmd *cobra.Command, saved []bookmarks.Bookmark) error {
	out := cmd.OutOrStdout()
	if len(saved) == 0 {
		fmt.Fprintln(out, "Nothing saved yet.")
		fmt.Fprintln(out, "\nRun 'careerdesk saved add <collection> <id>' or press s in the browser.")
		return nil
	}

	writer := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(writer, "COLLECTION\tID\tTITLE\tSAVED")
	now := time.Now()
	for _, b := range saved {
		fmt.Fprintf(writer, "%s\t%s\t%s\t%s\n", b.Collection, b.ID, valueOrFallback(b.Title, "(untitled)"), formatRelativeTime(b.SavedAt, now))
	}
	return writer.Flush()
}

func newSavedAddCmd(rootFlags *rootFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add <collection> <id>",
		Short: "Save a record for later",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newAppContext(cmd, rootFlags, "save", appOptions{})
			if err != nil {
				return err
			}
			defer app.Close()

			col, err := resolveCollection("save", args[0], app.Session)
			if err != nil {
				return err
			}

			r, err := app.Client.Get(app.Context(cmd), col, args[1])
			if err != nil {
				return newCommandError("save", fmt.Sprintf("loading %s %q", col.ItemKey, args[1]), err, suggestFor(err))
			}

			b := bookmarks.Bookmark{
				Collection: col.Name,
				ID:         r.ID,
				Title:      col.Summary(r),
				SavedAt:    time.Now().UTC(),
				Record:     r,
			}
			if err := app.Bookmarks.Add(b); err != nil {
				return newCommandError("save", fmt.Sprintf("saving %s %q", col.ItemKey, r.ID), err, "Run 'careerdesk saved list' to see what is already saved.")
			}
			if err := app.Bookmarks.Save(); err != nil {
				return newCommandError("save", "writing saved listings", err, "Check disk space and file permissions, then retry.")
			}

			fmt.Fprintf(cmd.OutOrStdout(), "✓ Saved %s '%s' (%s)\n", col.ItemKey, b.Title, b.ID)
			return nil
		},
	}

	return cmd
}

func newSavedRemoveCmd(rootFlags *rootFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "remove <collection> <id>",
		Aliases: []string{"rm"},
		Short:   "Forget a saved record",
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newAppContext(cmd, rootFlags, "unsave", appOptions{})
			if err != nil {
				return err
			}
			defer app.Close()

			col, err := resolveCollection("unsave", args[0], app.Session)
			if err != nil {
				return err
			}

			if err := app.Bookmarks.Remove(col.Name, args[1]); err != nil {
				return newCommandError("unsave", fmt.Sprintf("removing %s %q", col.ItemKey, args[1]), err, "Run 'careerdesk saved list' to see what is saved.")
			}
			if err := app.Bookmarks.Save(); err != nil {
				return newCommandError("unsave", "writing saved listings", err, "Check disk space and file permissions, then retry.")
			}

			fmt.Fprintf(cmd.OutOrStdout(), "✓ Removed %s %s from saved\n", col.ItemKey, args[1])
			return nil
		},
	}

	return cmd
}

type savedDiffOptions struct {
	update bool
}

func newSavedDiffCmd(rootFlags *rootFlags) *cobra.Command {
	opts := &savedDiffOptions{}

	cmd := &cobra.Command{
		Use:   "diff <collection> <id>",
		Short: "Show what changed in a saved record since it was saved",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSavedDiff(cmd, rootFlags, args[0], args[1], opts)
		},
	}

	cmd.Flags().BoolVar(&opts.update, "update", false, "Replace the saved copy with the current record")

	return cmd
}

func runSavedDiff(cmd *cobra.Command, rootFlags *rootFlags, name, id string, opts *savedDiffOptions) error {
	app, err := newAppContext(cmd, rootFlags, "diff saved", appOptions{})
	if err != nil {
		return err
	}
	defer app.Close()

	col, err := resolveCollection("diff saved", name, app.Session)
	if err != nil {
		return err
	}

	saved, err := app.Bookmarks.Get(col.Name, id)
	if err != nil {
		return newCommandError("diff saved", fmt.Sprintf("finding saved %s %q", col.ItemKey, id), err, "Run 'careerdesk saved list' to see what is saved.")
	}

	live, err := app.Client.Get(app.Context(cmd), col, id)
	if err != nil {
		return newCommandError("diff saved", fmt.Sprintf("loading %s %q", col.ItemKey, id), err, suggestFor(err))
	}

	out := cmd.OutOrStdout()
	savedLabel := fmt.Sprintf("saved %s", saved.SavedAt.Local().Format("2006-01-02 15:04"))
	changes, stats := diff.Unified(recordText(saved.Record), recordText(live), savedLabel, "current")
	if changes == "" {
		fmt.Fprintf(out, "✓ '%s' has not changed since it was saved %s\n", saved.Title, formatRelativeTime(saved.SavedAt, time.Now()))
		return nil
	}

	fmt.Fprint(out, changes)
	fmt.Fprintf(out, "\n%d added, %d removed\n", stats.Added, stats.Removed)

	if !opts.update {
		return nil
	}

	refreshed := saved
	refreshed.Record = live
	refreshed.Title = col.Summary(live)
	refreshed.SavedAt = time.Now().UTC()
	if err := app.Bookmarks.Remove(col.Name, id); err != nil {
		return newCommandError("diff saved", "replacing the saved copy", err, "Retry the command.")
	}
	if err := app.Bookmarks.Add(refreshed); err != nil {
		return newCommandError("diff saved", "replacing the saved copy", err, "Retry the command.")
	}
	if err := app.Bookmarks.Save(); err != nil {
		return newCommandError("diff saved", "writing saved listings", err, "Check disk space and file permissions, then retry.")
	}
	fmt.Fprintf(out, "✓ Updated the saved copy of %s %s\n", col.ItemKey, id)
	return nil
}

// recordText renders one "path: value" line per populated field.
func recordText(r record.Record) string {
	var b strings.Builder
	fmt.Fprintf(&b, "id: %s\n", r.ID)
	for _, field := range r.Flatten() {
		fmt.Fprintf(&b, "%s: %s\n", field.Path, field.Value)
	}
	return b.String()
}
