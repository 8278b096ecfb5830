package main

import (
	"errors"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/alexisbeaulieu97/careerdesk/internal/record"
)

func newMaterialsCmd(rootFlags *rootFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "materials",
		Short: "Mirror the study materials repository",
		Long:  "Keep a local checkout of the study materials git repository configured under materials.repository.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	cmd.AddCommand(newMaterialsSyncCmd(rootFlags))
	cmd.AddCommand(newMaterialsFilesCmd(rootFlags))

	return cmd
}

var errNoMirror = errors.New("no materials repository configured")

const mirrorSuggestion = "Set materials.repository in ~/.careerdesk/config.yaml."

func newMaterialsSyncCmd(rootFlags *rootFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Clone or update the local materials checkout",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newAppContext(cmd, rootFlags, "sync materials", appOptions{})
			if err != nil {
				return err
			}
			defer app.Close()

			if app.Mirror == nil {
				return newCommandError("sync materials", "finding the repository", errNoMirror, mirrorSuggestion)
			}

			status, err := app.Mirror.Sync(app.Context(cmd))
			if err != nil {
				return newCommandError("sync materials", fmt.Sprintf("syncing into %s", app.Mirror.Destination()), err,
					"Check the repository URL and branch; a directory that is not this repository's checkout must be moved aside.")
			}

			head := status.Head
			if len(head) > 7 {
				head = head[:7]
			}
			fmt.Fprintf(cmd.OutOrStdout(), "✓ Materials %s (%s @ %s)\n", status.Action, status.Branch, head)
			fmt.Fprintf(cmd.OutOrStdout(), "  Path: %s\n", app.Mirror.Destination())
			return nil
		},
	}

	return cmd
}

type materialsFilesOptions struct {
	jsonOutput bool
}

func newMaterialsFilesCmd(rootFlags *rootFlags) *cobra.Command {
	opts := &materialsFilesOptions{}

	cmd := &cobra.Command{
		Use:   "files",
		Short: "List the files in the local materials checkout",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newAppContext(cmd, rootFlags, "list materials", appOptions{})
			if err != nil {
				return err
			}
			defer app.Close()

			if app.Mirror == nil {
				return newCommandError("list materials", "finding the repository", errNoMirror, mirrorSuggestion)
			}

			files, err := app.Mirror.Files()
			if err != nil {
				return newCommandError("list materials", "reading the checkout", err, "Run 'careerdesk materials sync' first.")
			}

			if opts.jsonOutput {
				return writeJSON(cmd.OutOrStdout(), files)
			}
			return renderMaterialsTable(cmd, files)
		},
	}

	cmd.Flags().BoolVar(&opts.jsonOutput, "json", false, "Output in JSON format")

	return cmd
}

func renderMaterialsTable(cmd *cobra.Command, files []record.Record) error {
	if len(files) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "The materials repository is empty.")
		return nil
	}

	writer := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(writer, "PATH\tSUBJECT\tTITLE\tSIZE")
	for _, f := range files {
		fmt.Fprintf(writer, "%s\t%s\t%s\t%s\n", f.String("path"), valueOrFallback(f.String("subject"), "-"), f.String("title"), f.String("size"))
	}
	return writer.Flush()
}
