package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

func newApplyCmd(rootFlags *rootFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "apply <jobs|internships> <id>",
		Short: "Apply to a job or internship as the signed-in student",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runApply(cmd, rootFlags, args[0], args[1])
		},
	}

	return cmd
}

func runApply(cmd *cobra.Command, rootFlags *rootFlags, name, id string) error {
	app, err := newAppContext(cmd, rootFlags, "apply", appOptions{})
	if err != nil {
		return err
	}
	defer app.Close()

	col, err := resolveCollection("apply", name, app.Session)
	if err != nil {
		return err
	}
	if !col.Appliable {
		return newCommandError("apply", fmt.Sprintf("applying to %s", col.Name),
			fmt.Errorf("%s do not take applications", col.Name), "Apply to an entry in jobs or internships.")
	}
	if !app.Session.CanApply() {
		return newCommandError("apply", "checking your account",
			errors.New("only signed-in students can apply (you are "+app.Session.Describe()+")"),
			"Run 'careerdesk login' with a student account.")
	}

	ctx := app.Context(cmd)
	if err := app.Client.Apply(ctx, col, id); err != nil {
		app.Logger.With("collection", col.Name, "id", id).Error(err, "apply failed")
		return newCommandError("apply", fmt.Sprintf("applying to %s %q", col.ItemKey, id), err, suggestFor(err))
	}

	app.Logger.With("collection", col.Name, "id", id).Info("application submitted")
	fmt.Fprintf(cmd.OutOrStdout(), "✓ Applied to %s %s\n", col.ItemKey, id)
	return nil
}
