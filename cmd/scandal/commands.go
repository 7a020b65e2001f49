package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"github.com/gyaneshwarpardhi/scandal/internal/analysis"
	"github.com/gyaneshwarpardhi/scandal/internal/config"
	"github.com/gyaneshwarpardhi/scandal/internal/logging"
	"github.com/gyaneshwarpardhi/scandal/internal/report"
)

// app carries the state shared by every subcommand.
type app struct {
	in     io.Reader
	out    io.Writer
	errOut io.Writer

	cfgPath    string
	corpusRoot string
	logLevel   string

	cfg     *config.Config
	logger  *slog.Logger
	reports *report.Registry
}

func newRootCmd(in io.Reader, out, errOut io.Writer) *cobra.Command {
	a := &app{in: in, out: out, errOut: errOut, reports: report.DefaultRegistry()}

	root := &cobra.Command{
		Use:   "scandal",
		Short: "Find the connectors of an email communication graph",
		Long: `scandal reads a directory tree of mail files, links every sender to every
To/Cc recipient, and reports the participants whose removal would split a
communication cluster (articulation points).

Examples:
  scandal run --corpus ./maildir
  scandal connectors --out connectors.txt
  scandal query kenneth.lay@enron.com`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.setup,
	}
	root.SetIn(in)
	root.SetOut(out)
	root.SetErr(errOut)

	pf := root.PersistentFlags()
	pf.StringVarP(&a.cfgPath, "config", "c", "configs/scandal.yaml", "path to YAML config")
	pf.StringVar(&a.corpusRoot, "corpus", "", "corpus root directory (overrides corpus.root)")
	pf.StringVar(&a.logLevel, "log-level", "", "log level (overrides log.level)")

	root.AddCommand(a.runCmd(), a.connectorsCmd(), a.queryCmd(), a.graphCmd())
	return root
}

func (a *app) setup(cmd *cobra.Command, _ []string) error {
	if skipSetup(cmd) {
		return nil
	}
	cfg, err := config.Load(a.cfgPath)
	if err != nil {
		return a.fail(err)
	}
	if a.corpusRoot != "" {
		cfg.Corpus.Root = a.corpusRoot
	}
	if a.logLevel != "" {
		cfg.Log.Level = a.logLevel
	}
	if err := config.Validate(cfg); err != nil {
		return a.fail(err)
	}
	a.cfg = cfg
	a.logger = logging.New(cfg.Log.Format, cfg.Log.Level, a.errOut)
	return nil
}

// skipSetup reports whether cmd is one of cobra's built-ins, which run
// without a config.
func skipSetup(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		switch c.Name() {
		case "help", "completion", cobra.ShellCompRequestCmd, cobra.ShellCompNoDescRequestCmd:
			return true
		}
	}
	return false
}

func (a *app) fail(err error) error {
	fmt.Fprintln(a.errOut, "error:", err)
	return err
}

func (a *app) analyze(cmd *cobra.Command) (*analysis.Snapshot, error) {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	s, err := analysis.New(a.logger).Run(ctx, a.cfg)
	if err != nil {
		return nil, a.fail(err)
	}
	return s, nil
}

// writeReport renders the connector list. A write failure is reported but
// leaves s untouched.
func (a *app) writeReport(s *analysis.Snapshot, path, format string) error {
	rep := report.New(s.RunID, s.Connectors())
	if err := a.reports.WriteFile(path, format, rep, a.out); err != nil {
		a.logger.Error("connector report not written", "path", path, "err", err)
		return err
	}
	if path != "" && path != "-" {
		a.logger.Info("connector report written", "path", path, "format", format, "count", rep.Count)
	}
	return nil
}

// interact runs the query loop; a read failure is reported like any other.
func (a *app) interact(sess *session) error {
	if err := sess.loop(); err != nil {
		return a.fail(fmt.Errorf("read query input: %w", err))
	}
	return nil
}

func (a *app) runCmd() *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Report connectors, then answer queries interactively",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := a.analyze(cmd)
			if err != nil {
				return err
			}
			path := a.cfg.Report.Path
			if cmd.Flags().Changed("out") {
				path = out
			}
			if err := a.reports.WriteTo(a.out, "text", report.New(s.RunID, s.Connectors())); err != nil {
				return a.fail(err)
			}
			// The loop still runs on the in-memory result if the report
			// could not be saved.
			if path != "" && path != "-" {
				if err := a.writeReport(s, path, a.cfg.Report.Format); err != nil {
					fmt.Fprintln(a.errOut, "warning:", err)
				}
			}
			return a.interact(newSession(s, a.in, a.out))
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "", "report path ('-' for stdout; default report.path)")
	return cmd
}

func (a *app) connectorsCmd() *cobra.Command {
	var out, format string
	cmd := &cobra.Command{
		Use:   "connectors",
		Short: "Write the connector report",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := a.analyze(cmd)
			if err != nil {
				return err
			}
			path, fmtName := a.cfg.Report.Path, a.cfg.Report.Format
			if cmd.Flags().Changed("out") {
				path = out
			}
			if cmd.Flags().Changed("format") {
				fmtName = format
			}
			if err := a.writeReport(s, path, fmtName); err != nil {
				return a.fail(err)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "", "report path ('-' for stdout; default report.path)")
	cmd.Flags().StringVarP(&format, "format", "f", "", "report format: "+strings.Join(a.reports.Formats(), ", "))
	return cmd
}

func (a *app) queryCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "query [ADDRESS...]",
		Short: "Show a participant's sent-to, received-from and team counts",
		Long: `With addresses, print their footprint and exit. Without, read one
address per line from stdin until EXIT.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.analyze(cmd)
			if err != nil {
				return err
			}
			sess := newSession(s, a.in, a.out)
			if len(args) == 0 {
				return a.interact(sess)
			}
			for _, addr := range args {
				sess.answer(addr)
			}
			return nil
		},
	}
}

func (a *app) graphCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "graph",
		Short: "Print the adjacency map",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := a.analyze(cmd)
			if err != nil {
				return err
			}
			g := s.Graph()
			for _, v := range g.Vertices() {
				fmt.Fprintf(a.out, "%s: %s\n", v, strings.Join(g.Neighbors(v), " "))
			}
			return nil
		},
	}
}
