package main

import (
	"errors"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/alexisbeaulieu97/careerdesk/internal/catalog"
	"github.com/alexisbeaulieu97/careerdesk/internal/tui/postform"
)

type postOptions struct {
	values map[string]string
}

func newPostCmd(rootFlags *rootFlags) *cobra.Command {
	opts := &postOptions{}

	cmd := &cobra.Command{
		Use:   "post <job|internship>",
		Short: "Post a job or internship (admins)",
		Long: `Post a job or internship. Without --set the posting wizard opens in the
terminal; with --set every field is taken from the command line, e.g.

  careerdesk post job --set title="Backend Engineer" --set company_name=Acme --set job_type=full-time`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPost(cmd, rootFlags, args[0], opts)
		},
	}

	cmd.Flags().StringToStringVar(&opts.values, "set", nil, "Field value as key=value (repeatable)")

	return cmd
}

func runPost(cmd *cobra.Command, rootFlags *rootFlags, rawKind string, opts *postOptions) error {
	kind, err := postform.ParseKind(rawKind)
	if err != nil {
		return newCommandError("post", "choosing what to post", err, "Use 'job' or 'internship'.")
	}

	app, err := newAppContext(cmd, rootFlags, "post", appOptions{fileLogging: len(opts.values) == 0})
	if err != nil {
		return err
	}
	defer app.Close()

	if !app.Session.CanPost() {
		return newCommandError("post", "checking your account",
			errors.New("only admins can post listings (you are "+app.Session.Describe()+")"),
			"Run 'careerdesk login' with an admin account.")
	}

	if len(opts.values) > 0 {
		return postFromFlags(cmd, app, kind, opts.values)
	}

	if !isTerminal(cmd.InOrStdin()) {
		return newCommandError("post", "opening the posting wizard", errors.New("not a terminal"),
			"Pass every field with --set when running non-interactively.")
	}

	form, err := postform.NewModel(kind, app.Client,
		postform.WithLogger(app.Logger),
		postform.WithUnicode(unicodeEnabled(app.Config, cmd.OutOrStdout())),
		postform.Standalone(),
	)
	if err != nil {
		return newCommandError("post", "opening the posting wizard", err, "Report this as a bug.")
	}

	final, err := runProgram(form, tea.WithContext(app.Context(cmd)))
	if err != nil {
		return newCommandError("post", "running the posting wizard", err, "Retry with --verbose to see the log.")
	}

	if done, ok := final.(postform.Model); ok {
		if created, ok := done.Created(); ok {
			fmt.Fprintf(cmd.OutOrStdout(), "✓ Posted %s %s\n", kind, created.ID)
			return nil
		}
	}
	fmt.Fprintln(cmd.OutOrStdout(), "Cancelled.")
	return nil
}

func postFromFlags(cmd *cobra.Command, app *AppContext, kind postform.Kind, values map[string]string) error {
	posting, err := postform.NewPosting(kind, values)
	if err != nil {
		return newCommandError("post", "reading --set values", err, fieldHint(kind))
	}
	if step, err := postform.Validate(posting); err != nil {
		return newCommandError("post", fmt.Sprintf("validating the %s section", step), err, fieldHint(kind))
	}

	col, err := catalog.Lookup(kind.Collection())
	if err != nil {
		return newCommandError("post", "resolving the collection", err, "Report this as a bug.")
	}

	created, err := app.Client.Create(app.Context(cmd), col, posting.Payload())
	if err != nil {
		app.Logger.With("collection", col.Name).Error(err, "post failed")
		return newCommandError("post", fmt.Sprintf("posting the %s", kind), err, suggestFor(err))
	}

	app.Logger.With("collection", col.Name, "id", created.ID).Info("listing posted")
	fmt.Fprintf(cmd.OutOrStdout(), "✓ Posted %s %s\n", kind, created.ID)
	return nil
}

func fieldHint(kind postform.Kind) string {
	var keys []string
	for _, def := range postform.Fields(kind) {
		keys = append(keys, def.Key)
	}
	return fmt.Sprintf("Valid %s fields: %s.", kind, strings.Join(keys, ", "))
}
