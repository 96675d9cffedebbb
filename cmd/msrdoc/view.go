package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/CaptShanks/msrdoc/internal/parser"
	"github.com/CaptShanks/msrdoc/internal/tui"
)

type viewOptions struct {
	print      bool
	forceColor bool
}

func newViewCmd(a *app) *cobra.Command {
	opts := &viewOptions{}

	cmd := &cobra.Command{
		Use:   "view <filename> <start> <end>",
		Short: "Browse the registers of a window interactively",
		Long: `Run the same extraction as the root command and open the rows in an
interactive browser. Ranges and families are listed alongside single
registers and each row can be expanded to show the manual line it came from.

Keys:
  j/k        move        enter/l/h  expand/collapse
  d/u        half page   e/c        expand/collapse all
  gg/G       top/bottom  /          search (esc clears)
  q          quit`,
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runView(cmd, args, opts)
		},
	}

	cmd.Flags().BoolVarP(&opts.print, "print", "p", false, "print a colored listing instead of the interactive browser")
	cmd.Flags().BoolVar(&opts.forceColor, "color", false, "keep colors when output is not a terminal")
	cmd.Flags().SetInterspersed(false)
	return cmd
}

func (a *app) runView(cmd *cobra.Command, args []string, opts *viewOptions) error {
	path, start, end, err := parseArgs(args)
	if err != nil {
		return err
	}

	var progress io.Writer
	if isatty.IsTerminal(os.Stderr.Fd()) {
		progress = cmd.ErrOrStderr()
	}
	report, err := a.scanWithProgress(path, start, end, progress)
	if err != nil {
		return err
	}

	a.applyTheme()
	if opts.forceColor {
		tui.ForceColor()
	}

	if opts.print {
		tui.PrintReport(cmd.OutOrStdout(), report)
		return nil
	}

	if err := tui.Run(report, version, a.checker()); err != nil {
		return fmt.Errorf("running viewer: %w", err)
	}
	return nil
}

// scanWithProgress extracts the window, drawing a byte progress bar on
// progress unless it is nil.
func (a *app) scanWithProgress(path string, start, end int, progress io.Writer) (*parser.Report, error) {
	extractor, err := parser.NewExtractor(
		parser.WithWindow(start, end),
		parser.WithFamilyWriter(io.Discard),
		parser.WithLogger(a.log),
	)
	if err != nil {
		return nil, err
	}

	if progress == nil {
		return extractor.ExtractFile(path)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("failed to stat file: %w", err)
	}

	bar := progressbar.NewOptions64(info.Size(),
		progressbar.OptionSetWriter(progress),
		progressbar.OptionSetDescription("Scanning "+filepath.Base(path)),
		progressbar.OptionSetWidth(40),
		progressbar.OptionShowBytes(true),
		progressbar.OptionClearOnFinish(),
	)
	reader := progressbar.NewReader(f, bar)

	report, err := extractor.Extract(&reader)
	_ = bar.Finish()
	if err != nil {
		return nil, err
	}
	report.Path = path
	return report, nil
}

// applyTheme picks the palette from config, asking the terminal in auto mode.
func (a *app) applyTheme() {
	switch a.cfg.Theme {
	case "light":
		tui.SetLightPalette()
	case "dark":
		tui.SetDarkPalette()
	default:
		if isatty.IsTerminal(os.Stdout.Fd()) && !lipgloss.HasDarkBackground() {
			tui.SetLightPalette()
		}
	}
}
