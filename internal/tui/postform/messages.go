package postform

import "github.com/alexisbeaulieu97/careerdesk/internal/record"

// SubmittedMsg reports that the backend stored the posting.
type SubmittedMsg struct {
	Record record.Record
}

// SubmitErrorMsg reports a failed submission.
type SubmitErrorMsg struct {
	Err error
}

// SubmitCancelledMsg reports that the user abandoned an in-flight submission.
type SubmitCancelledMsg struct{}

// ClosedMsg is sent to the host screen when the form closes. Created is nil
// when the user left without posting.
type ClosedMsg struct {
	Kind    Kind
	Created *record.Record
}
