package handler

import (
	"bytes"
	"errors"
	"fmt"
	"mime"
	"net/http"
	"net/url"
	"strconv"

	"github.com/google/uuid"
	"github.com/oapi-codegen/runtime"

	"github.com/pkordes/assistant-mailmerge/internal/domain"
	"github.com/pkordes/assistant-mailmerge/internal/roster"
)

// downloadName is the attachment filename of a CSV merge response.
const downloadName = "ready_to_mail_merge.csv"

// multipartMemory caps how much of an upload ParseMultipartForm keeps in
// memory before spilling to temp files. The overall body size is enforced
// separately by the max-body-size middleware.
const multipartMemory = 8 << 20

// mergeParams are the optional settings of POST /merge. They are read from
// the query string and, for multipart uploads, from form fields; the query
// string wins when both are present.
type mergeParams struct {
	Link     *string
	SendFrom *string
	BCC      *string
	Strict   *bool
	Format   *string
}

// RowIssue is a failed or degraded row in a JSON merge response.
type RowIssue struct {
	Line    int    `json:"line"`
	Email   string `json:"email,omitempty"`
	Field   string `json:"field,omitempty"`
	Message string `json:"message"`
}

// MergeResponse is the JSON body of POST /merge?format=json.
type MergeResponse struct {
	RunID      uuid.UUID             `json:"run_id"`
	Rows       int                   `json:"rows"`
	Processed  int                   `json:"processed"`
	Records    []domain.OutputRecord `json:"records"`
	Failures   []RowIssue            `json:"failures"`
	Warnings   []RowIssue            `json:"warnings"`
	BlankLines []int                 `json:"blank_lines"`
}

// PostMerge handles POST /merge.
// The roster is either the file field "roster" of a multipart form or the
// raw text/csv request body. The response is the merge table as a CSV
// attachment by default, or a JSON preview with ?format=json.
func (s *Server) PostMerge(w http.ResponseWriter, r *http.Request) {
	table, values, err := readRoster(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	params, err := bindMergeParams(values)
	if err != nil {
		requestError(w, err.Error())
		return
	}

	cfg := domain.MergeConfig{ScheduleLinkURL: s.defaultLink}
	if params.Link != nil {
		cfg.ScheduleLinkURL = *params.Link
	}
	if params.SendFrom != nil {
		cfg.SendFrom = *params.SendFrom
	}
	if params.BCC != nil {
		cfg.BCC = *params.BCC
	}
	if params.Strict != nil {
		cfg.Strict = *params.Strict
	}
	cfg = s.merge.WithDefaults(cfg)

	res, err := s.merge.Build(r.Context(), table, cfg)
	if err != nil {
		writeError(w, r, err)
		return
	}

	if params.Format != nil && *params.Format == "json" {
		writeJSON(w, http.StatusOK, toMergeResponse(res))
		return
	}
	writeCSV(w, r, res)
}

// readRoster decodes the uploaded roster and returns it with the request's
// parameter values (query string merged with multipart form fields).
func readRoster(r *http.Request) (domain.Table, url.Values, error) {
	values := r.URL.Query()

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType != "multipart/form-data" {
		table, err := roster.Read(r.Body)
		return table, values, err
	}

	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) {
			return domain.Table{}, nil, err
		}
		return domain.Table{}, nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}
	for k, v := range r.MultipartForm.Value {
		if _, ok := values[k]; !ok {
			values[k] = v
		}
	}

	f, _, err := r.FormFile("roster")
	if errors.Is(err, http.ErrMissingFile) {
		return domain.Table{}, nil, fmt.Errorf("%w: roster file is required", domain.ErrValidation)
	}
	if err != nil {
		return domain.Table{}, nil, err
	}
	defer f.Close()

	table, err := roster.Read(f)
	return table, values, err
}

// bindMergeParams binds the optional merge parameters the way generated
// OpenAPI wrappers do (form style, exploded).
func bindMergeParams(values url.Values) (mergeParams, error) {
	var p mergeParams
	for _, b := range []struct {
		name string
		dest any
	}{
		{"link", &p.Link},
		{"send_from", &p.SendFrom},
		{"bcc", &p.BCC},
		{"strict", &p.Strict},
		{"format", &p.Format},
	} {
		if err := runtime.BindQueryParameter("form", true, false, b.name, values, b.dest); err != nil {
			return mergeParams{}, fmt.Errorf("invalid %s parameter: %w", b.name, err)
		}
	}
	if p.Format != nil && *p.Format != "csv" && *p.Format != "json" {
		return mergeParams{}, fmt.Errorf("invalid format parameter: %q (want csv or json)", *p.Format)
	}
	return p, nil
}

// writeCSV encodes the merge table fully before writing any of it, so a
// failed encode never leaves a truncated download.
func writeCSV(w http.ResponseWriter, r *http.Request, res domain.Result) {
	var buf bytes.Buffer
	if err := roster.Write(&buf, res.Records); err != nil {
		writeError(w, r, err)
		return
	}

	h := w.Header()
	h.Set("Content-Type", "text/csv; charset=utf-8")
	h.Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": downloadName}))
	h.Set("Content-Length", strconv.Itoa(buf.Len()))
	h.Set("X-Merge-Run-Id", res.RunID.String())
	h.Set("X-Merge-Failed-Rows", strconv.Itoa(len(res.Failures)))
	h.Set("X-Merge-Blank-Rows", strconv.Itoa(len(res.BlankLines)))
	w.WriteHeader(http.StatusOK)
	_, _ = buf.WriteTo(w)
}

// toMergeResponse converts a domain.Result to its JSON shape.
// Slices are never nil so clients always see arrays.
func toMergeResponse(res domain.Result) MergeResponse {
	out := MergeResponse{
		RunID:      res.RunID,
		Rows:       res.Rows,
		Processed:  len(res.Records),
		Records:    res.Records,
		Failures:   toRowIssues(res.Failures),
		Warnings:   toRowIssues(res.Warnings),
		BlankLines: res.BlankLines,
	}
	if out.Records == nil {
		out.Records = []domain.OutputRecord{}
	}
	if out.BlankLines == nil {
		out.BlankLines = []int{}
	}
	return out
}

func toRowIssues(errs []*domain.RowError) []RowIssue {
	out := make([]RowIssue, 0, len(errs))
	for _, e := range errs {
		issue := RowIssue{Line: e.Line, Email: e.Email, Message: e.Err.Error()}
		var (
			mfe *domain.MissingFieldError
			nce *domain.NumericCoercionError
			dpe *domain.DateParseError
		)
		switch {
		case errors.As(e.Err, &mfe):
			issue.Field = mfe.Field
		case errors.As(e.Err, &nce):
			issue.Field = nce.Field
		case errors.As(e.Err, &dpe):
			issue.Field = domain.ColSignupDate
		}
		out = append(out, issue)
	}
	return out
}
