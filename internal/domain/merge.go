package domain

import "github.com/google/uuid"

// Output column names, in the order the mail-merge sender expects them.
var OutputColumns = []string{
	"Send Date", "Send Time", "First Name", "Email",
	"Send From", "BCC", "Subject", "Body",
}

// MergeConfig holds the per-run settings supplied alongside a roster.
// None of the values are validated; they are copied into the output as-is.
type MergeConfig struct {
	// ScheduleLinkURL is the href of the schedule link embedded in every body.
	ScheduleLinkURL string
	// SendFrom is copied into every record's Send From column.
	SendFrom string
	// BCC is copied into every record's BCC column.
	BCC string
	// Strict makes the first row failure abort the whole run, producing no
	// records. When false, failing rows are skipped and reported.
	Strict bool
}

// OutputRecord is one row of the mail-merge table.
// Body is HTML: line breaks are already rendered as <br>.
type OutputRecord struct {
	SendDate  string `json:"send_date"`
	SendTime  string `json:"send_time"`
	FirstName string `json:"first_name"`
	Email     string `json:"email"`
	SendFrom  string `json:"send_from"`
	BCC       string `json:"bcc"`
	Subject   string `json:"subject"`
	Body      string `json:"body"`
}

// Values returns the record's cells in OutputColumns order.
func (r OutputRecord) Values() []string {
	return []string{
		r.SendDate, r.SendTime, r.FirstName, r.Email,
		r.SendFrom, r.BCC, r.Subject, r.Body,
	}
}

// Result is the outcome of one merge run.
// Every input row appears in exactly one of Records, Failures or
// BlankLines. Rows counts all of them. Warnings describe rows that were
// produced with a fallback value.
type Result struct {
	RunID      uuid.UUID
	Rows       int
	Records    []OutputRecord
	Failures   []*RowError
	Warnings   []*RowError
	BlankLines []int
}
