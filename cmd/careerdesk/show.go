package main

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

type showOptions struct {
	jsonOutput bool
}

func newShowCmd(rootFlags *rootFlags) *cobra.Command {
	opts := &showOptions{}

	cmd := &cobra.Command{
		Use:   "show <collection> <id>",
		Short: "Show every field of one record",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runShow(cmd, rootFlags, args[0], args[1], opts)
		},
	}

	cmd.Flags().BoolVar(&opts.jsonOutput, "json", false, "Output the record as JSON")

	return cmd
}

func runShow(cmd *cobra.Command, rootFlags *rootFlags, name, id string, opts *showOptions) error {
	if strings.TrimSpace(id) == "" {
		return newCommandError("show", "validating record ID", fmt.Errorf("record ID cannot be empty"), "Provide the ID shown by 'careerdesk list'.")
	}

	app, err := newAppContext(cmd, rootFlags, "show", appOptions{})
	if err != nil {
		return err
	}
	defer app.Close()

	col, err := resolveCollection("show", name, app.Session)
	if err != nil {
		return err
	}

	r, err := app.Client.Get(app.Context(cmd), col, id)
	if err != nil {
		return newCommandError("show", fmt.Sprintf("loading %s %q", col.ItemKey, id), err, suggestFor(err))
	}

	if opts.jsonOutput {
		return writeJSON(cmd.OutOrStdout(), r)
	}

	out := cmd.OutOrStdout()
	title := col.Summary(r)
	if app.Bookmarks.Has(col.Name, r.ID) {
		title += " (saved)"
	}
	fmt.Fprintf(out, "%s\n\n", title)

	writer := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintf(writer, "id\t%s\n", r.ID)
	for _, field := range r.Flatten() {
		fmt.Fprintf(writer, "%s\t%s\n", field.Path, field.Value)
	}
	return writer.Flush()
}
