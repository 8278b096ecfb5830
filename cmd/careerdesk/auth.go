package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/alexisbeaulieu97/careerdesk/internal/catalog"
)

type loginOptions struct {
	token string
}

func newLoginCmd(rootFlags *rootFlags) *cobra.Command {
	opts := &loginOptions{}

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Store the API token issued by the career portal",
		Long: `Store the bearer token issued by the career portal in the system keychain.
The token is read from --token, from a hidden prompt, or from stdin when piped.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLogin(cmd, rootFlags, opts)
		},
	}

	cmd.Flags().StringVar(&opts.token, "token", "", "Token to store (avoid on shared machines; it ends up in shell history)")

	return cmd
}

func runLogin(cmd *cobra.Command, rootFlags *rootFlags, opts *loginOptions) error {
	app, err := newAppContext(cmd, rootFlags, "login", appOptions{})
	if err != nil {
		return err
	}
	defer app.Close()

	token := opts.token
	if strings.TrimSpace(token) == "" {
		token, err = readToken(cmd)
		if err != nil {
			return newCommandError("login", "reading the token", err, "Pass the token with --token or pipe it on stdin.")
		}
	}

	sess, err := app.Sessions.Save(token)
	if err != nil {
		return newCommandError("login", "storing the token", err, "Copy the whole token from the portal; it has three dot-separated parts.")
	}
	if sess.Expired(time.Now()) {
		_ = app.Sessions.Clear()
		return newCommandError("login", "checking the token", fmt.Errorf("token expired at %s", sess.Claims.ExpiresAt.Format(time.RFC3339)), "Sign in to the portal again and copy a fresh token.")
	}

	app.Logger.With("role", string(sess.Role())).Info("signed in")
	fmt.Fprintf(cmd.OutOrStdout(), "✓ Signed in as %s\n", sess.Describe())
	if !sess.Claims.ExpiresAt.IsZero() {
		fmt.Fprintf(cmd.OutOrStdout(), "  Expires: %s\n", sess.Claims.ExpiresAt.Format(time.RFC3339))
	}
	return nil
}

func readToken(cmd *cobra.Command) (string, error) {
	in := cmd.InOrStdin()
	if file, ok := in.(*os.File); ok && termIsTerminal(int(file.Fd())) {
		fmt.Fprint(cmd.ErrOrStderr(), "API token: ")
		data, err := term.ReadPassword(int(file.Fd()))
		fmt.Fprintln(cmd.ErrOrStderr())
		if err != nil {
			return "", err
		}
		return strings.TrimSpace(string(data)), nil
	}

	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", err
	}
	line = strings.TrimSpace(line)
	if line == "" {
		return "", errors.New("no token provided")
	}
	return line, nil
}

func newLogoutCmd(rootFlags *rootFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "logout",
		Short: "Forget the stored token and cached collections",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newAppContext(cmd, rootFlags, "logout", appOptions{})
			if err != nil {
				return err
			}
			defer app.Close()

			if err := app.Sessions.Clear(); err != nil {
				return newCommandError("logout", "removing the stored token", err, "Check that the system keychain is unlocked.")
			}
			// Snapshots may hold records only the signed-out account could see.
			if app.Snapshots != nil {
				if err := app.Snapshots.Clear(); err != nil {
					return newCommandError("logout", "clearing cached collections", err, "Delete the cache directory by hand.")
				}
			}

			app.Logger.Info("signed out")
			fmt.Fprintln(cmd.OutOrStdout(), "✓ Signed out")
			return nil
		},
	}

	return cmd
}

type whoamiOptions struct {
	jsonOutput bool
}

type whoamiJSONPayload struct {
	Authenticated bool       `json:"authenticated"`
	Role          string     `json:"role"`
	UserID        string     `json:"user_id,omitempty"`
	Email         string     `json:"email,omitempty"`
	ExpiresAt     *time.Time `json:"expires_at,omitempty"`
	APIURL        string     `json:"api_url"`
	Collections   []string   `json:"collections"`
}

func newWhoamiCmd(rootFlags *rootFlags) *cobra.Command {
	opts := &whoamiOptions{}

	cmd := &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newAppContext(cmd, rootFlags, "whoami", appOptions{})
			if err != nil {
				return err
			}
			defer app.Close()

			return renderWhoami(cmd, app, opts)
		},
	}

	cmd.Flags().BoolVar(&opts.jsonOutput, "json", false, "Output in JSON format")

	return cmd
}

func renderWhoami(cmd *cobra.Command, app *AppContext, opts *whoamiOptions) error {
	sess := app.Session
	var collections []string
	for _, col := range catalog.Visible(sess) {
		collections = append(collections, col.Name)
	}

	if opts.jsonOutput {
		payload := whoamiJSONPayload{
			Authenticated: sess.Authenticated(),
			Role:          string(sess.Role()),
			UserID:        sess.Claims.UserID,
			Email:         sess.Claims.Email,
			APIURL:        app.Config.API.BaseURL,
			Collections:   collections,
		}
		if !sess.Claims.ExpiresAt.IsZero() {
			payload.ExpiresAt = &sess.Claims.ExpiresAt
		}
		return writeJSON(cmd.OutOrStdout(), payload)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Account:     %s\n", sess.Describe())
	if sess.Authenticated() {
		fmt.Fprintf(out, "User ID:     %s\n", valueOrFallback(sess.Claims.UserID, "(none)"))
		if !sess.Claims.ExpiresAt.IsZero() {
			fmt.Fprintf(out, "Expires:     %s\n", sess.Claims.ExpiresAt.Format(time.RFC3339))
		}
	}
	fmt.Fprintf(out, "API:         %s\n", app.Config.API.BaseURL)
	fmt.Fprintf(out, "Collections: %s\n", strings.Join(collections, ", "))
	return nil
}
