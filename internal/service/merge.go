// Package service contains the merge logic: it turns a parsed roster table
// into mail-merge records. Parsing and encoding of CSV live in the roster
// package; message wording lives in render.
package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/pkordes/assistant-mailmerge/internal/domain"
	"github.com/pkordes/assistant-mailmerge/internal/profile"
	"github.com/pkordes/assistant-mailmerge/internal/render"
)

// MergeService builds mail-merge records from roster tables.
// It holds only read-only state and is safe for concurrent use.
type MergeService struct {
	semesters domain.SemesterTable
	renderer  *render.Renderer
	sendFrom  string
	bcc       string
	now       func() time.Time
	log       *slog.Logger
}

// Option customises a MergeService.
type Option func(*MergeService)

// WithClock overrides the clock used for the signup-date fallback.
func WithClock(now func() time.Time) Option {
	return func(s *MergeService) { s.now = now }
}

// NewMergeService constructs a MergeService from a validated profile.
func NewMergeService(p profile.Profile, log *slog.Logger, opts ...Option) *MergeService {
	s := &MergeService{
		semesters: p.Semesters,
		renderer:  render.NewRenderer(p.Templates),
		sendFrom:  p.DefaultSendFrom,
		bcc:       p.DefaultBCC,
		now:       time.Now,
		log:       log,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// WithDefaults fills blank sender addresses in cfg from the profile.
func (s *MergeService) WithDefaults(cfg domain.MergeConfig) domain.MergeConfig {
	if strings.TrimSpace(cfg.SendFrom) == "" {
		cfg.SendFrom = s.sendFrom
	}
	if strings.TrimSpace(cfg.BCC) == "" {
		cfg.BCC = s.bcc
	}
	return cfg
}

// SemesterCode returns the semester code for d under the profile's table.
func (s *MergeService) SemesterCode(d time.Time) string {
	return s.semesters.Code(d)
}

// Build merges every row of table into an output record, in input order.
//
// A required column missing from the header fails the whole run with a
// *domain.MissingColumnError. Signup Date and Signup Time are filled
// forward from the nearest row above when blank. A row with a blank
// required field is reported in Result.Failures and skipped, or, when
// cfg.Strict is set, aborts the run with that *domain.RowError. Blank
// lines dropped by the reader are counted in Result.Rows and listed in
// Result.BlankLines. The input table is never modified.
func (s *MergeService) Build(ctx context.Context, table domain.Table, cfg domain.MergeConfig) (domain.Result, error) {
	cols := table.Columns()
	var missing []string
	for _, c := range domain.RequiredColumns {
		if _, ok := cols[c]; !ok {
			missing = append(missing, c)
		}
	}
	if len(missing) > 0 {
		return domain.Result{}, &domain.MissingColumnError{Columns: missing}
	}

	res := domain.Result{
		RunID:      uuid.New(),
		Rows:       len(table.Rows) + len(table.BlankLines),
		Records:    make([]domain.OutputRecord, 0, len(table.Rows)),
		BlankLines: append([]int(nil), table.BlankLines...),
	}
	// One fallback date per run keeps every undated row in the same term.
	now := s.now()

	var lastDate, lastTime string
	for i := range table.Rows {
		if err := ctx.Err(); err != nil {
			return domain.Result{}, fmt.Errorf("service.MergeService.Build: %w", err)
		}

		cells := make(map[string]string, len(domain.RequiredColumns))
		for _, c := range domain.RequiredColumns {
			cells[c] = table.Cell(i, cols[c])
		}
		lastDate = fillForward(cells, domain.ColSignupDate, lastDate)
		lastTime = fillForward(cells, domain.ColSignupTime, lastTime)

		rec, warnings, err := s.buildRecord(cells, cfg, now)
		line := table.Line(i)
		email := strings.TrimSpace(cells[domain.ColEmail])
		if err != nil {
			rowErr := &domain.RowError{Line: line, Email: email, Err: err}
			if cfg.Strict {
				s.log.WarnContext(ctx, "merge aborted",
					"run_id", res.RunID,
					"line", line,
					"error", err,
				)
				return domain.Result{}, rowErr
			}
			res.Failures = append(res.Failures, rowErr)
			continue
		}
		for _, w := range warnings {
			s.log.DebugContext(ctx, "merge row degraded", "run_id", res.RunID, "line", line, "warning", w)
			res.Warnings = append(res.Warnings, &domain.RowError{Line: line, Email: email, Err: w})
		}
		res.Records = append(res.Records, rec)
	}

	s.log.InfoContext(ctx, "merge complete",
		"run_id", res.RunID,
		"rows", res.Rows,
		"records", len(res.Records),
		"failures", len(res.Failures),
		"warnings", len(res.Warnings),
		"blank", len(res.BlankLines),
	)
	return res, nil
}

// buildRecord renders one row. Warnings are non-fatal degradations
// (date fallback, non-numeric shift counts).
func (s *MergeService) buildRecord(cells map[string]string, cfg domain.MergeConfig, now time.Time) (domain.OutputRecord, []error, error) {
	row, err := domain.ParseInputRow(cells)
	if err != nil {
		return domain.OutputRecord{}, nil, err
	}

	var warnings []error
	signup, err := domain.ParseSignupDate(row.SignupDate, now)
	if err != nil {
		warnings = append(warnings, err)
	}
	code := s.semesters.Code(signup)

	msg, err := s.renderer.Render(row, code, cfg)
	if err != nil {
		return domain.OutputRecord{}, nil, err
	}
	warnings = append(warnings, msg.Warnings...)

	return domain.OutputRecord{
		SendDate:  row.SignupDate,
		SendTime:  row.SignupTime,
		FirstName: row.FirstName,
		Email:     row.Email,
		SendFrom:  cfg.SendFrom,
		BCC:       cfg.BCC,
		Subject:   msg.Subject,
		Body:      msg.Body,
	}, warnings, nil
}

// fillForward replaces a blank cells[col] with last and returns the value
// that should carry on to the next row.
func fillForward(cells map[string]string, col, last string) string {
	if strings.TrimSpace(cells[col]) == "" {
		cells[col] = last
		return last
	}
	return cells[col]
}
