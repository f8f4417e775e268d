// Package render turns one roster row into a mail-merge subject and HTML body.
// Template text is plain data injected into a Renderer, so profiles can swap
// the wording without touching the substitution rules.
package render

import (
	"fmt"
	"strings"

	"github.com/pkordes/assistant-mailmerge/internal/domain"
)

// Placeholder tokens recognised in template text.
const (
	TokenFirstName    = "{{first_name}}"
	TokenPrepDone     = "{{prep_done}}"
	TokenClosingDone  = "{{closing_done}}"
	TokenPrepLeft     = "{{prep_left}}"
	TokenClosingLeft  = "{{closing_left}}"
	TokenScheduleLink = "{{schedule_link}}"
)

// numericTokens pairs each shift-count token with the roster column it reads.
var numericTokens = []struct {
	token  string
	column string
}{
	{TokenPrepDone, domain.ColPrepDone},
	{TokenClosingDone, domain.ColClosingDone},
	{TokenPrepLeft, domain.ColPrepLeft},
	{TokenClosingLeft, domain.ColClosingLeft},
}

// DefaultComplete is sent to assistants who have met their shift requirements.
const DefaultComplete = `Hi {{first_name}},

You may now access the {{schedule_link}}.

Congrats! You have completed your prep and closing shift requirements.

Let us know if you have any questions.

Thanks,`

// DefaultIncomplete is sent to assistants who still owe shifts.
const DefaultIncomplete = `Hi {{first_name}},

You may now access the {{schedule_link}}.

Consider our weekly requirements as you select your shifts.

You have completed {{prep_done}} morning prep shift(s) and {{closing_done}} closing shift(s).
You have {{prep_left}} prep shift(s) and {{closing_left}} closing shift(s) left to fulfill.

Please let us know if you have any questions.

Thanks,`

// Templates is a validated pair of message bodies plus an optional
// signature line appended to both.
type Templates struct {
	Complete   string
	Incomplete string
	Signature  string
}

// DefaultTemplates returns the built-in wording with no signature.
func DefaultTemplates() Templates {
	return Templates{Complete: DefaultComplete, Incomplete: DefaultIncomplete}
}

// NewTemplates validates template text. Each body must contain the schedule
// link token exactly once and the signature must not use it. The complete
// body must not reference shift counts and the incomplete body must
// reference all four. Trailing newlines are dropped so they do not render
// as trailing <br> markers.
func NewTemplates(complete, incomplete, signature string) (Templates, error) {
	t := Templates{
		Complete:   strings.TrimRight(complete, "\r\n"),
		Incomplete: strings.TrimRight(incomplete, "\r\n"),
		Signature:  strings.TrimSpace(signature),
	}
	for name, body := range map[string]string{"complete": t.Complete, "incomplete": t.Incomplete} {
		if n := strings.Count(body, TokenScheduleLink); n != 1 {
			return Templates{}, fmt.Errorf("%w: %s template must contain %s exactly once, found %d",
				domain.ErrValidation, name, TokenScheduleLink, n)
		}
		if !strings.Contains(body, TokenFirstName) {
			return Templates{}, fmt.Errorf("%w: %s template does not use %s", domain.ErrValidation, name, TokenFirstName)
		}
	}
	if strings.Contains(t.Signature, TokenScheduleLink) {
		return Templates{}, fmt.Errorf("%w: signature must not use %s", domain.ErrValidation, TokenScheduleLink)
	}
	for _, nt := range numericTokens {
		if strings.Contains(t.Complete, nt.token) {
			return Templates{}, fmt.Errorf("%w: complete template must not use %s", domain.ErrValidation, nt.token)
		}
		if !strings.Contains(t.Incomplete, nt.token) {
			return Templates{}, fmt.Errorf("%w: incomplete template is missing %s", domain.ErrValidation, nt.token)
		}
	}
	return t, nil
}
