package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/alexisbeaulieu97/careerdesk/internal/catalog"
)

func newCacheCmd(rootFlags *rootFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the offline copies of collections",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	cmd.AddCommand(newCacheClearCmd(rootFlags))

	return cmd
}

func newCacheClearCmd(rootFlags *rootFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "clear [collection]",
		Short: "Drop cached copies, of one collection or all of them",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newAppContext(cmd, rootFlags, "clear cache", appOptions{})
			if err != nil {
				return err
			}
			defer app.Close()

			if app.Snapshots == nil {
				return newCommandError("clear cache", "opening the cache", errors.New("the cache is disabled"), "Set cache.disabled to false to use offline copies.")
			}

			if len(args) == 0 {
				if err := app.Snapshots.Clear(); err != nil {
					return newCommandError("clear cache", "removing cached collections", err, "Check the cache directory permissions.")
				}
				fmt.Fprintln(cmd.OutOrStdout(), "✓ Cleared every cached collection")
				return nil
			}

			col, err := catalog.Lookup(args[0])
			if err != nil {
				return newCommandError("clear cache", "looking up the collection", err, "Run 'careerdesk cache clear' to clear everything.")
			}
			if err := app.Snapshots.Delete(col.Name); err != nil {
				return newCommandError("clear cache", fmt.Sprintf("removing cached %s", col.Name), err, "Check the cache directory permissions.")
			}
			fmt.Fprintf(cmd.OutOrStdout(), "✓ Cleared cached %s\n", col.Name)
			return nil
		},
	}

	return cmd
}
