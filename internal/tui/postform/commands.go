package postform

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/alexisbeaulieu97/careerdesk/internal/catalog"
	"github.com/alexisbeaulieu97/careerdesk/internal/record"
)

// Creator stores new postings.
type Creator interface {
	Create(ctx context.Context, col catalog.Collection, payload map[string]any) (record.Record, error)
}

// submitCmd posts the payload asynchronously.
func submitCmd(ctx context.Context, creator Creator, col catalog.Collection, payload map[string]any) tea.Cmd {
	return func() tea.Msg {
		created, err := creator.Create(ctx, col, payload)
		if err != nil {
			if ctx.Err() != nil {
				return SubmitCancelledMsg{}
			}
			return SubmitErrorMsg{Err: err}
		}
		return SubmittedMsg{Record: created}
	}
}

func closeCmd(kind Kind, created *record.Record) tea.Cmd {
	return func() tea.Msg {
		return ClosedMsg{Kind: kind, Created: created}
	}
}
