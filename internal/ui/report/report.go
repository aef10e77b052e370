// Package report renders drift records as an aligned table and decides the
// process exit status.
package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/Masterminds/semver/v3"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/pombredanne/cargo-outdated/internal/core/domain"
)

// ColorMode selects when the report is colored.
type ColorMode string

const (
	// ColorAuto colors only when the writer is a capable terminal;
	// NO_COLOR disables it.
	ColorAuto ColorMode = "auto"
	// ColorAlways forces ANSI colors.
	ColorAlways ColorMode = "always"
	// ColorNever disables colors.
	ColorNever ColorMode = "never"
)

// Valid reports whether m is one of the recognized modes.
func (m ColorMode) Valid() bool {
	switch m {
	case ColorAuto, ColorAlways, ColorNever:
		return true
	}
	return false
}

// Branch-outcome markers, matching the table column width of short versions.
const (
	markerUnchanged = "---"
	markerRemoved   = "RM"
)

// Emitter consumes drift records in traversal order and renders them as an
// aligned table on Flush. Rows are buffered because column widths are not
// known until the last record arrives. A run with no drift renders nothing,
// not even the header.
type Emitter struct {
	w        io.Writer
	styles   styles
	rows     [][3]string
	hasDrift bool
}

type styles struct {
	header  lipgloss.Style
	marker  lipgloss.Style
	removed lipgloss.Style
	compat  lipgloss.Style
	breakng lipgloss.Style
}

// NewEmitter creates an Emitter writing to w under the given color mode.
func NewEmitter(w io.Writer, mode ColorMode) *Emitter {
	renderer := lipgloss.NewRenderer(w)
	switch mode {
	case ColorAlways:
		renderer.SetColorProfile(termenv.ANSI)
	case ColorNever:
		renderer.SetColorProfile(termenv.Ascii)
	}
	return &Emitter{
		w: w,
		styles: styles{
			header:  renderer.NewStyle().Bold(true),
			marker:  renderer.NewStyle().Faint(true),
			removed: renderer.NewStyle().Foreground(lipgloss.Color("1")),
			compat:  renderer.NewStyle().Foreground(lipgloss.Color("3")),
			breakng: renderer.NewStyle().Foreground(lipgloss.Color("1")),
		},
	}
}

// Emit buffers one drift record for rendering.
func (e *Emitter) Emit(record domain.DriftRecord) {
	e.hasDrift = true
	e.rows = append(e.rows, [3]string{
		record.Name,
		e.branchCell(record.Current, record.Compatible),
		e.branchCell(record.Current, record.Latest),
	})
}

// Flush renders the buffered records, one row per record, with an aligned
// header. Cell widths are measured with lipgloss so ANSI sequences do not
// skew alignment.
func (e *Emitter) Flush() error {
	if len(e.rows) == 0 {
		return nil
	}

	rows := make([][3]string, 0, len(e.rows)+1)
	rows = append(rows, [3]string{
		e.styles.header.Render("Package"),
		e.styles.header.Render("Compat"),
		e.styles.header.Render("Latest"),
	})
	rows = append(rows, e.rows...)

	var widths [3]int
	for _, row := range rows {
		for i, cell := range row {
			if w := lipgloss.Width(cell); w > widths[i] {
				widths[i] = w
			}
		}
	}

	var sb strings.Builder
	for _, row := range rows {
		for i, cell := range row {
			sb.WriteString(cell)
			if i < len(row)-1 {
				sb.WriteString(strings.Repeat(" ", widths[i]-lipgloss.Width(cell)+2))
			}
		}
		sb.WriteByte('\n')
	}

	_, err := fmt.Fprint(e.w, sb.String())
	return err
}

// HasDrift reports whether any record was emitted.
func (e *Emitter) HasDrift() bool {
	return e.hasDrift
}

// ExitCode returns the process exit code: driftCode when drift was found
// (the caller passes 0 when no signal was requested), 0 otherwise.
func (e *Emitter) ExitCode(driftCode int) int {
	if e.hasDrift {
		return driftCode
	}
	return 0
}

func (e *Emitter) branchCell(current string, b domain.Branch) string {
	switch b.Status {
	case domain.BranchRemoved:
		return e.styles.removed.Render(markerRemoved)
	case domain.BranchUnchanged:
		return e.styles.marker.Render(markerUnchanged)
	}
	if breaking(current, b.Version) {
		return e.styles.breakng.Render(b.Version)
	}
	return e.styles.compat.Render(b.Version)
}

// breaking reports whether moving from current to next crosses a semver
// compatibility boundary: a major bump, or a minor bump below 1.0.0.
// Unparseable versions are treated as non-breaking so they render without
// alarm colors.
func breaking(current, next string) bool {
	cv, err := semver.NewVersion(current)
	if err != nil {
		return false
	}
	nv, err := semver.NewVersion(next)
	if err != nil {
		return false
	}
	if cv.Major() != nv.Major() {
		return true
	}
	return cv.Major() == 0 && cv.Minor() != nv.Minor()
}
