package render

import (
	"fmt"
	"strings"

	"github.com/pkordes/assistant-mailmerge/internal/domain"
)

// subjectSuffix follows the semester code in every subject line.
const subjectSuffix = " Assistant Schedule: *Sign Up for Your Shifts!*"

// linkLabelSuffix follows the semester code in the visible link text.
const linkLabelSuffix = " Assistant Schedule"

// breakReplacer turns line breaks into HTML breaks. CRLF is listed first so
// it collapses to a single <br>.
var breakReplacer = strings.NewReplacer("\r\n", "<br>", "\n", "<br>")

// Message is a rendered subject and HTML body.
// Warnings lists shift counts that were used as written because they were
// not numeric; they never prevent the message from being produced.
type Message struct {
	Subject  string
	Body     string
	Warnings []error
}

// Renderer fills templates for individual roster rows. It holds no mutable
// state and is safe for concurrent use.
type Renderer struct {
	tmpl Templates
}

// NewRenderer constructs a Renderer over already-validated templates.
func NewRenderer(t Templates) *Renderer {
	return &Renderer{tmpl: t}
}

// Subject returns the subject line for a semester code.
func Subject(code string) string {
	return code + subjectSuffix
}

// ScheduleLink returns the anchor that replaces the schedule link token.
// The URL is used verbatim.
func ScheduleLink(url, code string) string {
	return fmt.Sprintf(`<a href="%s">%s%s</a>`, url, code, linkLabelSuffix)
}

// Render produces the message for row. The complete template is chosen when
// row.Complete is set; otherwise the incomplete template with its four
// shift counts. Field tokens and the schedule link are substituted in a
// single pass, then line breaks are converted to <br>.
//
// A blank required field is reported as a *domain.MissingFieldError.
func (r *Renderer) Render(row domain.InputRow, code string, cfg domain.MergeConfig) (Message, error) {
	if err := row.Validate(); err != nil {
		return Message{}, err
	}

	body := r.tmpl.Incomplete
	if row.Complete {
		body = r.tmpl.Complete
	}
	if r.tmpl.Signature != "" {
		body += "\n" + r.tmpl.Signature
	}

	pairs := []string{TokenFirstName, row.FirstName}
	var warnings []error
	if !row.Complete {
		values := map[string]string{
			domain.ColPrepDone:    row.PrepDone,
			domain.ColClosingDone: row.ClosingDone,
			domain.ColPrepLeft:    row.PrepLeft,
			domain.ColClosingLeft: row.ClosingLeft,
		}
		for _, nt := range numericTokens {
			v, err := domain.FormatNumber(nt.column, values[nt.column])
			if err != nil {
				warnings = append(warnings, err)
			}
			pairs = append(pairs, nt.token, v)
		}
	}
	// One pass: text taken from roster cells is never scanned for tokens.
	pairs = append(pairs, TokenScheduleLink, ScheduleLink(cfg.ScheduleLinkURL, code))
	body = strings.NewReplacer(pairs...).Replace(body)
	body = breakReplacer.Replace(body)

	return Message{
		Subject:  Subject(code),
		Body:     body,
		Warnings: warnings,
	}, nil
}
