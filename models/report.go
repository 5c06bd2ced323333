package models

// ReportMessage is a rendered payment reminder.
type ReportMessage struct {
	Subject string `json:"subject"`
	Text    string `json:"text"`
	HTML    string `json:"html"`
}

// Email is one outbound message handed to the mail provider.
type Email struct {
	To      string
	ToName  string
	Subject string
	Text    string
	HTML    string
}

type DispatchStatus string

const (
	DispatchSent    DispatchStatus = "sent"
	DispatchFailed  DispatchStatus = "failed"
	DispatchSkipped DispatchStatus = "skipped"
)

// DispatchOutcome records what happened to one recipient's report.
type DispatchOutcome struct {
	Person string         `json:"person"`
	Email  string         `json:"email,omitempty"`
	Status DispatchStatus `json:"status"`
	Error  string         `json:"error,omitempty"`
}

// DispatchReport collects the outcomes of one batch.
type DispatchReport struct {
	Group    string            `json:"group,omitempty"`
	Outcomes []DispatchOutcome `json:"outcomes"`
}

func (r DispatchReport) count(status DispatchStatus) int {
	n := 0
	for _, o := range r.Outcomes {
		if o.Status == status {
			n++
		}
	}
	return n
}

func (r DispatchReport) Sent() int    { return r.count(DispatchSent) }
func (r DispatchReport) Failed() int  { return r.count(DispatchFailed) }
func (r DispatchReport) Skipped() int { return r.count(DispatchSkipped) }
