package main

import (
	"fmt"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/alexisbeaulieu97/careerdesk/internal/catalog"
	"github.com/alexisbeaulieu97/careerdesk/internal/listing"
	"github.com/alexisbeaulieu97/careerdesk/internal/pagination"
	"github.com/alexisbeaulieu97/careerdesk/internal/record"
	"github.com/alexisbeaulieu97/careerdesk/internal/session"
)

type listOptions struct {
	search     string
	category   string
	min        float64
	max        float64
	within     time.Duration
	recent     bool
	page       int
	pageSize   int
	jsonOutput bool
}

func newListCmd(rootFlags *rootFlags) *cobra.Command {
	opts := &listOptions{}

	cmd := &cobra.Command{
		Use:   "list <collection>",
		Short: "List a collection: " + strings.Join(catalog.Names(), ", "),
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runList(cmd, rootFlags, args[0], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.search, "search", "s", "", "Only records containing this text")
	cmd.Flags().StringVarP(&opts.category, "category", "c", "", "Only records in this category (job type, mode, department...)")
	cmd.Flags().Float64Var(&opts.min, "min", 0, "Lower bound for salary, stipend, cgpa or size")
	cmd.Flags().Float64Var(&opts.max, "max", 0, "Upper bound for salary, stipend, cgpa or size")
	cmd.Flags().DurationVar(&opts.within, "within", 0, "Only records from this recent window, e.g. 168h")
	cmd.Flags().BoolVar(&opts.recent, "recent", false, "Newest first")
	cmd.Flags().IntVarP(&opts.page, "page", "p", 1, "Page to show")
	cmd.Flags().IntVar(&opts.pageSize, "page-size", 0, "Records per page (default from ui.page_size)")
	cmd.Flags().BoolVar(&opts.jsonOutput, "json", false, "Output in JSON format")

	return cmd
}

func runList(cmd *cobra.Command, rootFlags *rootFlags, name string, opts *listOptions) error {
	app, err := newAppContext(cmd, rootFlags, "list", appOptions{})
	if err != nil {
		return err
	}
	defer app.Close()

	col, err := resolveCollection("list", name, app.Session)
	if err != nil {
		return err
	}

	result, err := app.Listing.Fetch(app.Context(cmd), col)
	if err != nil {
		return newCommandError("list", fmt.Sprintf("loading %s", col.Name), err, suggestFor(err))
	}
	if result.Stale {
		fmt.Fprintf(cmd.ErrOrStderr(), "Showing saved copy of %s from %s (%v)\n",
			col.Name, formatRelativeTime(result.FetchedAt, time.Now()), result.Err)
	}

	query := catalog.Query{
		Search:   opts.search,
		Category: opts.category,
		Recent:   opts.recent,
	}
	if cmd.Flags().Changed("min") {
		query.Min = &opts.min
	}
	if cmd.Flags().Changed("max") {
		query.Max = &opts.max
	}
	if opts.within > 0 {
		query.Since = time.Now().Add(-opts.within)
	}

	pageSize := opts.pageSize
	if pageSize <= 0 {
		pageSize = app.Config.UI.PageSize
	}

	filtered := col.Apply(result.Records, query)
	state := pagination.NewPageState(pageSize, len(filtered)).WithPage(opts.page)
	page := pagination.Slice(filtered, state)

	app.Logger.With("collection", col.Name, "total", len(result.Records), "matched", len(filtered), "stale", result.Stale).Info("listed collection")

	if opts.jsonOutput {
		return renderListJSON(cmd, col, result, filtered, page, state)
	}

	return renderListTable(cmd, col, result, filtered, page, state)
}

// resolveCollection looks up name and checks that sess may read it.
func resolveCollection(operation, name string, sess session.Session) (catalog.Collection, error) {
	col, err := catalog.Lookup(name)
	if err != nil {
		return catalog.Collection{}, newCommandError(operation, fmt.Sprintf("looking up collection %q", name), err, "Use one of: "+strings.Join(catalog.Names(), ", ")+".")
	}
	if !col.VisibleTo(sess) {
		return catalog.Collection{}, newCommandError(operation, fmt.Sprintf("opening %s", col.Name),
			fmt.Errorf("%s are only visible to superadmins (you are %s)", col.Name, sess.Describe()),
			"Run 'careerdesk login' with a superadmin account.")
	}
	return col, nil
}

func renderListTable(cmd *cobra.Command, col catalog.Collection, result listing.Result, filtered, page []record.Record, state pagination.PageState) error {
	out := cmd.OutOrStdout()

	if len(filtered) == 0 {
		if len(result.Records) == 0 {
			fmt.Fprintf(out, "No %s yet.\n", col.Name)
		} else {
			fmt.Fprintf(out, "No %s match the current filters (%d in total).\n", col.Name, len(result.Records))
		}
		return nil
	}

	writer := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)

	headers := []string{"ID"}
	for _, c := range col.Columns {
		headers = append(headers, c.Header)
	}
	fmt.Fprintln(writer, strings.Join(headers, "\t"))

	for _, r := range page {
		cells := []string{r.ID}
		for _, c := range col.Columns {
			cells = append(cells, valueOrFallback(cellText(col, c, r), "-"))
		}
		fmt.Fprintln(writer, strings.Join(cells, "\t"))
	}

	if err := writer.Flush(); err != nil {
		return err
	}

	fmt.Fprintf(out, "\nPage %d of %d  (%d of %d %s)\n", state.CurrentPage, state.TotalPages(), len(filtered), len(result.Records), col.Name)
	if state.TotalPages() > 1 {
		fmt.Fprintln(out, pagination.NewControl(state, nil).Format())
	}
	return nil
}

func cellText(col catalog.Collection, c catalog.Column, r record.Record) string {
	if c.Path == col.RecencyField {
		if ts, ok := r.Time(c.Path); ok {
			return ts.Format("2006-01-02")
		}
	}
	return r.String(c.Path)
}

type listJSONPayload struct {
	Version    string          `json:"version"`
	Collection string          `json:"collection"`
	Stale      bool            `json:"stale"`
	FetchedAt  time.Time       `json:"fetched_at"`
	Total      int             `json:"total"`
	Matched    int             `json:"matched"`
	Page       int             `json:"page"`
	TotalPages int             `json:"total_pages"`
	Records    []record.Record `json:"records"`
}

func renderListJSON(cmd *cobra.Command, col catalog.Collection, result listing.Result, filtered, page []record.Record, state pagination.PageState) error {
	if page == nil {
		page = []record.Record{}
	}
	return writeJSON(cmd.OutOrStdout(), listJSONPayload{
		Version:    "1.0",
		Collection: col.Name,
		Stale:      result.Stale,
		FetchedAt:  result.FetchedAt,
		Total:      len(result.Records),
		Matched:    len(filtered),
		Page:       state.CurrentPage,
		TotalPages: state.TotalPages(),
		Records:    page,
	})
}
