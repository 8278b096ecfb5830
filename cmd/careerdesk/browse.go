package main

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/alexisbeaulieu97/careerdesk/internal/catalog"
	"github.com/alexisbeaulieu97/careerdesk/internal/tui/browser"
)

func newBrowseCmd(rootFlags *rootFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "browse",
		Short: "Launch the interactive browser",
		Long:  `Launch the interactive terminal browser over every collection your account can see.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBrowse(cmd, rootFlags)
		},
	}

	return cmd
}

func runBrowse(cmd *cobra.Command, rootFlags *rootFlags) error {
	// The browser owns the terminal, so logs always go to the log file.
	app, err := newAppContext(cmd, rootFlags, "browse", appOptions{fileLogging: true})
	if err != nil {
		return err
	}
	defer app.Close()

	app.Logger.With("role", string(app.Session.Role()), "collections", len(catalog.Visible(app.Session))).Info("launching browser")

	m := browser.NewModel(browser.Deps{
		Loader:    app.Listing,
		Client:    app.Client,
		Bookmarks: app.Bookmarks,
		Session:   app.Session,
		Logger:    app.Logger,
		PageSize:  app.Config.UI.PageSize,
		Unicode:   unicodeEnabled(app.Config, cmd.OutOrStdout()),
	})

	if _, err := runProgram(m, tea.WithAltScreen(), tea.WithContext(app.Context(cmd))); err != nil {
		app.Logger.Error(err, "browser execution failed")
		return fmt.Errorf("failed to run browser: %w", err)
	}

	app.Logger.Info("browser closed")
	return nil
}
