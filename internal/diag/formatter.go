package diag

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
)

// Formatter formats diagnostics in a Rust-style format with source code snippets.
type Formatter struct {
	out         io.Writer
	sourceCache map[string]string // source text by filename
}

// NewFormatter creates a new diagnostic formatter writing to out.
// A nil writer defaults to os.Stderr.
func NewFormatter(out io.Writer) *Formatter {
	if out == nil {
		out = os.Stderr
	}
	return &Formatter{
		out:         out,
		sourceCache: make(map[string]string),
	}
}

// AddSource registers in-memory source text under name. Diagnostics whose
// span carries that filename (or no filename, when name is "") render
// against it without touching the filesystem.
func (f *Formatter) AddSource(name, src string) {
	f.sourceCache[name] = src
}

// LoadSource returns the source for a file, reading it from disk on first use.
func (f *Formatter) LoadSource(filename string) (string, error) {
	if src, ok := f.sourceCache[filename]; ok {
		return src, nil
	}
	if filename == "" {
		return "", fmt.Errorf("no source registered for unnamed input")
	}
	data, err := os.ReadFile(filename)
	if err != nil {
		return "", err
	}
	src := string(data)
	f.sourceCache[filename] = src
	return src, nil
}

// Format formats and prints a diagnostic.
func (f *Formatter) Format(d Diagnostic) {
	spans := f.collectSpans(d)
	if len(spans) == 0 {
		f.formatSimple(d)
		return
	}

	// All spans produced by this pipeline belong to one input, so the first
	// span's filename selects the source.
	filename := spans[0].Span.Filename
	src, err := f.LoadSource(filename)
	if err != nil {
		f.formatSimple(d)
		return
	}

	f.printHeader(d)
	f.printSpans(filename, src, spans)
	f.printHelp(d)
}

// FormatAll prints each diagnostic in order, separated by a blank line.
func (f *Formatter) FormatAll(ds []Diagnostic) {
	for i, d := range ds {
		if i > 0 {
			fmt.Fprintln(f.out)
		}
		f.Format(d)
	}
}

// collectSpans collects all spans from the diagnostic, prioritizing LabeledSpans.
func (f *Formatter) collectSpans(d Diagnostic) []LabeledSpan {
	if len(d.LabeledSpans) > 0 {
		return d.LabeledSpans
	}
	if d.Span.IsValid() {
		return []LabeledSpan{{Span: d.Span, Style: "primary"}}
	}
	return nil
}

// printHeader prints the error header (error[CODE]: message).
func (f *Formatter) printHeader(d Diagnostic) {
	severity := string(d.Severity)
	if severity == "" {
		severity = "error"
	}

	if d.Code != "" {
		fmt.Fprintf(f.out, "%s[%s]: %s\n", severity, d.Code, d.Message)
	} else {
		fmt.Fprintf(f.out, "%s: %s\n", severity, d.Message)
	}
	if d.Statement >= 0 {
		fmt.Fprintf(f.out, "  in statement %d\n", d.Statement+1)
	}
}

// printSpans prints source lines with underlines for the given spans.
func (f *Formatter) printSpans(filename string, src string, spans []LabeledSpan) {
	spans = append([]LabeledSpan(nil), spans...)
	sort.SliceStable(spans, func(i, j int) bool {
		if spans[i].Span.Line != spans[j].Span.Line {
			return spans[i].Span.Line < spans[j].Span.Line
		}
		return spans[i].Span.Column < spans[j].Span.Column
	})

	lines := strings.Split(src, "\n")
	spansByLine := make(map[int][]LabeledSpan)
	for _, span := range spans {
		line := span.Span.Line
		if line > 0 && line <= len(lines) {
			spansByLine[line] = append(spansByLine[line], span)
		}
	}
	if len(spansByLine) == 0 {
		return
	}

	lineNumbers := make([]int, 0, len(spansByLine))
	for line := range spansByLine {
		lineNumbers = append(lineNumbers, line)
	}
	sort.Ints(lineNumbers)

	// One line of context on each side.
	contextStart := max(1, lineNumbers[0]-1)
	contextEnd := min(len(lines), lineNumbers[len(lineNumbers)-1]+1)
	lineNumWidth := len(fmt.Sprintf("%d", contextEnd))
	gutter := strings.Repeat(" ", lineNumWidth)

	if filename == "" {
		filename = "<input>"
	}
	head := spans[0]
	for _, span := range spans {
		if span.Style == "primary" {
			head = span
			break
		}
	}
	fmt.Fprintf(f.out, "  --> %s:%d:%d\n", filename, head.Span.Line, head.Span.Column)
	fmt.Fprintf(f.out, " %s |\n", gutter)

	for lineNum := contextStart; lineNum <= contextEnd; lineNum++ {
		lineContent := lines[lineNum-1]
		fmt.Fprintf(f.out, " %*d | %s\n", lineNumWidth, lineNum, lineContent)
		if lineSpans := spansByLine[lineNum]; len(lineSpans) > 0 {
			f.printUnderlines(gutter, lineContent, lineSpans)
		}
	}

	fmt.Fprintf(f.out, " %s |\n", gutter)
}

// printUnderlines prints ^ under primary spans and ~ under secondary ones.
// Columns are rune based, matching the lexer.
func (f *Formatter) printUnderlines(gutter string, lineContent string, spans []LabeledSpan) {
	width := len([]rune(lineContent)) + 1 // room for a caret at end of line
	underline := []rune(strings.Repeat(" ", width))

	mark := func(style string, ch rune) {
		for _, span := range spans {
			if span.Style != style {
				continue
			}
			start := max(0, span.Span.Column-1)
			end := min(width, start+max(1, span.Span.End-span.Span.Start))
			for i := start; i < end; i++ {
				if underline[i] == ' ' {
					underline[i] = ch
				}
			}
		}
	}
	mark("primary", '^')
	mark("secondary", '~')

	text := strings.TrimRight(string(underline), " ")
	if text == "" {
		return
	}
	fmt.Fprintf(f.out, " %s | %s", gutter, text)

	var secondary []string
	for _, span := range spans {
		if span.Label == "" {
			continue
		}
		if span.Style == "primary" {
			fmt.Fprintf(f.out, " %s", span.Label)
		} else {
			secondary = append(secondary, span.Label)
		}
	}
	fmt.Fprintln(f.out)

	for _, label := range secondary {
		fmt.Fprintf(f.out, " %s | %s %s\n", gutter, strings.Repeat(" ", len([]rune(text))), label)
	}
}

// printHelp prints notes and help text.
func (f *Formatter) printHelp(d Diagnostic) {
	for _, note := range d.Notes {
		fmt.Fprintf(f.out, "  = note: %s\n", note)
	}
	if d.Help != "" {
		fmt.Fprintf(f.out, "help: %s\n", d.Help)
	}
}

// formatSimple formats a diagnostic without source code.
func (f *Formatter) formatSimple(d Diagnostic) {
	f.printHeader(d)
	if d.Span.IsValid() {
		fmt.Fprintf(f.out, "  --> %s\n", d.Span.String())
	}
	f.printHelp(d)
}
