package parser

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

const (
	// DataMarker labels the table rows that carry a register address.
	DataMarker = "Register Address:"
	// HeaderMarker appears in table headers that also contain DataMarker.
	HeaderMarker = "Hex, Decimal"

	// tokenField is the position of the token in "Register Address: <TOKEN> <decimal>".
	tokenField = 2
)

// Window is an inclusive, zero-based range of line indices
type Window struct {
	Start int
	End   int
}

// Contains reports whether line index i lies inside the window.
func (w Window) Contains(i int) bool {
	return i >= w.Start && i <= w.End
}

// Extractor scans manual text for documented register addresses
type Extractor struct {
	window   Window
	families io.Writer
	log      logrus.FieldLogger
	tokens   *tokenParser
}

// Option configures an Extractor
type Option func(*Extractor)

// WithWindow limits extraction to lines start through end, inclusive.
func WithWindow(start, end int) Option {
	return func(e *Extractor) {
		e.window = Window{Start: start, End: end}
	}
}

// WithFamilyWriter makes the extractor print each register family to w as
// soon as its line is scanned, ahead of the sorted address block.
func WithFamilyWriter(w io.Writer) Option {
	return func(e *Extractor) {
		e.families = w
	}
}

// WithLogger sets the logger used for scan diagnostics.
func WithLogger(l logrus.FieldLogger) Option {
	return func(e *Extractor) {
		e.log = l
	}
}

// NewExtractor creates an extractor. Without WithWindow every line is scanned.
func NewExtractor(opts ...Option) (*Extractor, error) {
	tokens, err := newTokenParser()
	if err != nil {
		return nil, err
	}

	discard := logrus.New()
	discard.SetOutput(io.Discard)

	e := &Extractor{
		window: Window{Start: 0, End: int(^uint(0) >> 1)},
		log:    discard,
		tokens: tokens,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

// ExtractFile opens path and extracts from it.
func (e *Extractor) ExtractFile(path string) (*Report, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	return e.extract(path, file)
}

// Extract scans r line by line. The first malformed data row aborts the scan
// with a *LineError.
func (e *Extractor) Extract(r io.Reader) (*Report, error) {
	return e.extract("", r)
}

func (e *Extractor) extract(path string, r io.Reader) (*Report, error) {
	report := newReport(path, e.window)

	scanner := bufio.NewScanner(r)
	// Increase buffer size for long pdftotext lines
	buf := make([]byte, 0, 64*1024)
	scanner.Buffer(buf, 1024*1024)

	for i := 0; scanner.Scan(); i++ {
		if i > e.window.End {
			break
		}
		if !e.window.Contains(i) {
			continue
		}

		line := strings.TrimSpace(scanner.Text())
		if !strings.Contains(line, DataMarker) {
			continue
		}
		if strings.Contains(line, HeaderMarker) {
			e.log.WithField("line", i).Debug("skipping table header")
			continue
		}

		if err := e.scanRow(report, i, line); err != nil {
			return nil, err
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read input: %w", err)
	}

	e.log.WithFields(logrus.Fields{
		"rows":      len(report.Rows),
		"addresses": report.Len(),
		"families":  len(report.Families),
	}).Info("extraction complete")

	return report, nil
}

// scanRow classifies the token of one data row and records it.
func (e *Extractor) scanRow(report *Report, i int, line string) error {
	fields := strings.Split(line, " ")
	if len(fields) <= tokenField {
		return &LineError{Line: i, Text: line, Err: ErrMissingToken}
	}

	tok, err := e.tokens.parse(NormalizeToken(fields[tokenField]))
	if err != nil {
		return &LineError{Line: i, Text: line, Err: err}
	}

	report.Rows = append(report.Rows, Row{Line: i, Text: line, Token: tok})
	log := e.log.WithFields(logrus.Fields{"line": i, "token": tok.Text})

	switch tok.Kind {
	case KindFamily:
		fam := Family{Line: i, Base: tok.Low, Token: tok.Text}
		report.Families = append(report.Families, fam)
		log.Debug("register family")
		if e.families != nil {
			if _, err := fmt.Fprintln(e.families, fam.String()); err != nil {
				return fmt.Errorf("failed to write family: %w", err)
			}
		}
	case KindRange:
		if tok.High < tok.Low {
			log.Warn("reversed range documents no registers")
		} else {
			log.Debug("register range")
		}
		report.add(tok)
	default:
		report.add(tok)
	}
	return nil
}
