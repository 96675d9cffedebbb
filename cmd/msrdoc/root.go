package main

import (
	"fmt"
	"strconv"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/CaptShanks/msrdoc/internal/config"
	"github.com/CaptShanks/msrdoc/internal/logging"
	"github.com/CaptShanks/msrdoc/internal/parser"
	"github.com/CaptShanks/msrdoc/internal/updater"
)

// app carries the state shared by all subcommands once flags are parsed.
type app struct {
	cfgFile string
	verbose bool

	cfg *config.Config
	log *logrus.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{}

	rootCmd := &cobra.Command{
		Use:   "msrdoc <filename> <start> <end>",
		Short: "Extract MSR addresses from a processor manual",
		Long: `Scan a text dump of a processor manual (pdftotext output) and print every
MSR address documented between two zero-based line indices, inclusive.

Register families ("C90H+n") are printed first, as they are found, followed
by the sorted set of all other addresses, one per line.

Examples:
  msrdoc sdm-vol4.txt 0 5000
  msrdoc view sdm-vol4.txt 1200 1900
  msrdoc view --print sdm-vol4.txt 1200 1900 | less -R

Flags go before <filename>; everything after it is positional, so negative
line numbers need no "--".`,
		Version:           version,
		Args:              cobra.ExactArgs(3),
		SilenceUsage:      true,
		PersistentPreRunE: a.setup,
		RunE:              a.runExtract,
	}

	rootCmd.PersistentFlags().StringVar(&a.cfgFile, "config", "", "config file (default is $HOME/.msrdoc/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "verbose output")
	// Flags must come before <filename> so negative line numbers stay positional.
	rootCmd.Flags().SetInterspersed(false)

	rootCmd.AddCommand(
		newViewCmd(a),
		newVersionCmd(a),
		newUpgradeCmd(a),
	)
	return rootCmd
}

// setup loads configuration and builds the stderr logger.
func (a *app) setup(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(a.cfgFile)
	if err != nil {
		return err
	}
	log, err := logging.New(cmd.ErrOrStderr(), cfg.LogLevel, a.verbose)
	if err != nil {
		return err
	}
	a.cfg = cfg
	a.log = log

	if a.cfgFile != "" {
		log.WithField("path", a.cfgFile).Debug("using config file")
	}
	return nil
}

// checker returns the release checker, or nil when update checks are off.
func (a *app) checker() *updater.Checker {
	if a.cfg == nil || a.cfg.SkipUpdateCheck {
		return nil
	}
	return updater.NewChecker(a.cfg.UpdateCheckInterval)
}

// parseArgs splits <filename> <start> <end>.
func parseArgs(args []string) (path string, start, end int, err error) {
	path = args[0]
	start, err = strconv.Atoi(args[1])
	if err != nil {
		return "", 0, 0, fmt.Errorf("invalid start line %q: %w", args[1], err)
	}
	end, err = strconv.Atoi(args[2])
	if err != nil {
		return "", 0, 0, fmt.Errorf("invalid end line %q: %w", args[2], err)
	}
	return path, start, end, nil
}

func (a *app) runExtract(cmd *cobra.Command, args []string) error {
	path, start, end, err := parseArgs(args)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	extractor, err := parser.NewExtractor(
		parser.WithWindow(start, end),
		parser.WithFamilyWriter(out),
		parser.WithLogger(a.log),
	)
	if err != nil {
		return err
	}

	report, err := extractor.ExtractFile(path)
	if err != nil {
		return err
	}
	_, err = report.WriteTo(out)
	return err
}
