// Package main is the mailmerge command line tool. It builds the mail-merge
// table from a roster file without running the HTTP server.
//
// Usage:
//
//	mailmerge build roster.csv -o ready_to_mail_merge.csv --link https://...
//	mailmerge semester 2025-12-03
package main

import (
	"bytes"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/pkordes/assistant-mailmerge/internal/domain"
	"github.com/pkordes/assistant-mailmerge/internal/profile"
	"github.com/pkordes/assistant-mailmerge/internal/roster"
	"github.com/pkordes/assistant-mailmerge/internal/service"
)

func main() {
	if err := newRootCmd(os.Stdin, os.Stdout, os.Stderr).Execute(); err != nil {
		os.Exit(1)
	}
}

// buildOptions are the flags of the build command.
type buildOptions struct {
	output  string
	link    string
	from    string
	bcc     string
	profile string
	strict  bool
	verbose bool
}

// newRootCmd assembles the command tree. Streams are injected so tests can
// run commands in-process.
func newRootCmd(stdin io.Reader, stdout, stderr io.Writer) *cobra.Command {
	root := &cobra.Command{
		Use:          "mailmerge",
		Short:        "Build assistant mail-merge tables from a signup roster",
		SilenceUsage: true,
	}
	root.SetIn(stdin)
	root.SetOut(stdout)
	root.SetErr(stderr)

	root.AddCommand(newBuildCmd(), newSemesterCmd())
	return root
}

func newBuildCmd() *cobra.Command {
	var opts buildOptions
	cmd := &cobra.Command{
		Use:   "build <roster.csv>",
		Short: "Render one email per roster row and write the merge CSV",
		Long: `Reads the roster (use "-" for stdin), renders each row with the
complete or incomplete template and writes the mail-merge table to --output
or stdout. Rows that cannot be rendered are skipped and logged to stderr
unless --strict is set.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBuild(cmd, args[0], opts)
		},
	}
	f := cmd.Flags()
	f.StringVarP(&opts.output, "output", "o", "", "write the merge CSV to this file instead of stdout")
	f.StringVar(&opts.link, "link", "", "schedule link URL")
	f.StringVar(&opts.from, "from", "", "Send From address (default from profile)")
	f.StringVar(&opts.bcc, "bcc", "", "BCC address (default from profile)")
	f.StringVar(&opts.profile, "profile", "", "merge profile YAML (default embedded profile)")
	f.BoolVar(&opts.strict, "strict", false, "fail on the first row that cannot be rendered")
	f.BoolVarP(&opts.verbose, "verbose", "v", false, "log per-row warnings")
	_ = cmd.MarkFlagRequired("link")
	return cmd
}

func runBuild(cmd *cobra.Command, path string, opts buildOptions) error {
	level := slog.LevelInfo
	if opts.verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))

	prof, err := profile.Load(opts.profile)
	if err != nil {
		return err
	}

	table, err := readTable(cmd.InOrStdin(), path)
	if err != nil {
		return err
	}

	svc := service.NewMergeService(prof, logger)
	cfg := svc.WithDefaults(domain.MergeConfig{
		ScheduleLinkURL: opts.link,
		SendFrom:        opts.from,
		BCC:             opts.bcc,
		Strict:          opts.strict,
	})

	res, err := svc.Build(cmd.Context(), table, cfg)
	if err != nil {
		return err
	}
	for _, f := range res.Failures {
		logger.Warn("row skipped", "line", f.Line, "email", f.Email, "error", f.Err)
	}
	if len(res.BlankLines) > 0 {
		logger.Info("blank rows ignored", "lines", res.BlankLines)
	}

	var buf bytes.Buffer
	if err := roster.Write(&buf, res.Records); err != nil {
		return err
	}
	if opts.output == "" {
		_, err = buf.WriteTo(cmd.OutOrStdout())
		return err
	}
	if err := os.WriteFile(opts.output, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", opts.output, err)
	}
	logger.Info("merge table written", "path", opts.output, "records", len(res.Records), "failures", len(res.Failures))
	return nil
}

// readTable reads the roster at path, or stdin when path is "-".
func readTable(stdin io.Reader, path string) (domain.Table, error) {
	if path == "-" {
		return roster.Read(stdin)
	}
	f, err := os.Open(path)
	if err != nil {
		return domain.Table{}, err
	}
	defer f.Close()
	return roster.Read(f)
}

func newSemesterCmd() *cobra.Command {
	var profilePath string
	cmd := &cobra.Command{
		Use:   "semester <date>",
		Short: "Print the semester code for a date",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			prof, err := profile.Load(profilePath)
			if err != nil {
				return err
			}
			d, err := domain.ParseSignupDate(args[0], time.Time{})
			if err != nil {
				return fmt.Errorf("unrecognised date %q", args[0])
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), prof.Semesters.Code(d))
			return err
		},
	}
	cmd.Flags().StringVar(&profilePath, "profile", "", "merge profile YAML (default embedded profile)")
	return cmd
}
