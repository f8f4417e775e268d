// Package profile loads merge profiles: the semester boundary table, the two
// message templates, an optional signature and default sender addresses.
// A profile is read once at startup and shared read-only afterwards.
package profile

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/pkordes/assistant-mailmerge/internal/domain"
	"github.com/pkordes/assistant-mailmerge/internal/render"
)

//go:embed default.yaml
var defaultYAML []byte

// Profile is a validated merge profile.
type Profile struct {
	Semesters domain.SemesterTable
	Templates render.Templates

	// DefaultSendFrom and DefaultBCC fill in a run's addresses when the
	// caller leaves them blank.
	DefaultSendFrom string
	DefaultBCC      string
}

// file mirrors the YAML document layout.
type file struct {
	Semesters []struct {
		Season     string `yaml:"season"`
		Months     []int  `yaml:"months"`
		YearOffset int    `yaml:"year_offset"`
	} `yaml:"semesters"`
	Templates struct {
		Complete   string `yaml:"complete"`
		Incomplete string `yaml:"incomplete"`
	} `yaml:"templates"`
	Signature string `yaml:"signature"`
	Defaults  struct {
		SendFrom string `yaml:"send_from"`
		BCC      string `yaml:"bcc"`
	} `yaml:"defaults"`
}

var (
	defaultOnce    sync.Once
	defaultProfile Profile
	defaultErr     error
)

// Default returns the embedded profile. It is parsed on first use.
func Default() (Profile, error) {
	defaultOnce.Do(func() {
		defaultProfile, defaultErr = Parse(defaultYAML)
	})
	return defaultProfile, defaultErr
}

// Load reads the profile at path. An empty path returns Default.
func Load(path string) (Profile, error) {
	if path == "" {
		return Default()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Profile{}, fmt.Errorf("profile.Load: %w", err)
	}
	p, err := Parse(data)
	if err != nil {
		return Profile{}, fmt.Errorf("profile.Load %s: %w", path, err)
	}
	return p, nil
}

// Parse decodes and validates a YAML profile. Unknown keys are rejected so
// a misspelt section does not silently fall back to defaults. A profile
// without a semesters section uses domain.DefaultSemesterRules, and blank
// template bodies use the render package defaults. An empty document is
// equivalent to the defaults with no sender addresses.
func Parse(data []byte) (Profile, error) {
	var f file
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil && !errors.Is(err, io.EOF) {
		return Profile{}, fmt.Errorf("%w: profile: %v", domain.ErrValidation, err)
	}

	rules := domain.DefaultSemesterRules()
	if len(f.Semesters) > 0 {
		rules = make([]domain.SemesterRule, 0, len(f.Semesters))
		for _, s := range f.Semesters {
			rules = append(rules, domain.SemesterRule{Season: s.Season, Months: s.Months, YearOffset: s.YearOffset})
		}
	}
	table, err := domain.NewSemesterTable(rules)
	if err != nil {
		return Profile{}, err
	}

	complete, incomplete := f.Templates.Complete, f.Templates.Incomplete
	if complete == "" {
		complete = render.DefaultComplete
	}
	if incomplete == "" {
		incomplete = render.DefaultIncomplete
	}
	tmpl, err := render.NewTemplates(complete, incomplete, f.Signature)
	if err != nil {
		return Profile{}, err
	}

	return Profile{
		Semesters:       table,
		Templates:       tmpl,
		DefaultSendFrom: f.Defaults.SendFrom,
		DefaultBCC:      f.Defaults.BCC,
	}, nil
}
