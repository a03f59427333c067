package diagnostics

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/coreman2200/ledmatrix/internal/config"
	"github.com/coreman2200/ledmatrix/internal/font"
	"github.com/coreman2200/ledmatrix/internal/layout"
	"github.com/coreman2200/ledmatrix/internal/led"
	"github.com/coreman2200/ledmatrix/matrix"
	"github.com/coreman2200/ledmatrix/model"
)

type Severity string

const (
	Info Severity = "info"
	Warn Severity = "warning"
	Err  Severity = "error"
)

type Diagnostic struct {
	Severity       Severity       `yaml:"severity"`
	Code           string         `yaml:"code"`
	Summary        string         `yaml:"summary"`
	Detail         string         `yaml:"detail,omitempty"`
	LikelyCauses   []string       `yaml:"likely_causes,omitempty"`
	SuggestedFixes []string       `yaml:"suggested_fixes,omitempty"`
	Evidence       map[string]any `yaml:"evidence,omitempty"`
}

type rule struct {
	target error
	diag   Diagnostic
}

var rules = []rule{
	{matrix.ErrSegmentMismatch, Diagnostic{
		Code:           "rows_pins_mismatch",
		Summary:        "Row count does not match the number of strip segments",
		LikelyCauses:   []string{"one data pin per row is expected", "-rows and -pins disagree"},
		SuggestedFixes: []string{"pass one pin per row with -pins", "set -rows to the number of pins"},
	}},
	{matrix.ErrDimensionMismatch, Diagnostic{
		Code:           "dimension_mismatch",
		Summary:        "Device size does not match rows x cols",
		SuggestedFixes: []string{"check -rows and -cols against the strip length"},
	}},
	{model.ErrUnsupportedOrder, Diagnostic{
		Code:           "channel_order",
		Summary:        "Unsupported or incompatible channel order",
		LikelyCauses:   []string{"RGBW order on a three channel strip", "typo in -order"},
		SuggestedFixes: []string{"use one of RGB, GRB, RGBW, GRBW"},
	}},
	{layout.ErrInvalidLayout, Diagnostic{
		Code:           "layout",
		Summary:        "Invalid matrix layout",
		SuggestedFixes: []string{"origin: NORTHWEST NORTHEAST SOUTHWEST SOUTHEAST", "orientation: ROW COLUMN ALTERNATING_ROW ALTERNATING_COLUMN", "rows and cols must be positive"},
	}},
	{font.ErrCalibration, Diagnostic{
		Code:           "font_calibration",
		Summary:        "Font could not be fitted to the matrix height",
		SuggestedFixes: []string{"try another -font", "use a taller matrix"},
	}},
	{led.ErrSegments, Diagnostic{
		Code:    "segments",
		Summary: "Strip segments differ in length or channels",
	}},
	{config.ErrInvalid, Diagnostic{
		Code:    "config",
		Summary: "Invalid configuration",
	}},
}

// Diagnose explains err. Every wrapped error it recognises yields one
// diagnostic; an unknown error yields a generic one.
func Diagnose(err error) []Diagnostic {
	if err == nil {
		return nil
	}
	var out []Diagnostic
	for _, r := range rules {
		if errors.Is(err, r.target) {
			d := r.diag
			d.Severity = Err
			d.Detail = err.Error()
			out = append(out, d)
		}
	}
	if len(out) == 0 {
		out = append(out, Diagnostic{Severity: Err, Code: "error", Summary: "Unexpected error", Detail: err.Error()})
	}
	return out
}

// Fallback describes a hardware device that could not be opened.
func Fallback(driver string, err error) Diagnostic {
	return Diagnostic{
		Severity:       Warn,
		Code:           "device_fallback",
		Summary:        "LED hardware unavailable, drawing on the console",
		Detail:         err.Error(),
		LikelyCauses:   []string{"SPI not enabled", "not running on the target board", "missing permissions on the device"},
		SuggestedFixes: []string{"enable SPI (raspi-config)", "run with -driver sim or console"},
		Evidence:       map[string]any{"driver": driver},
	}
}

func (d Diagnostic) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s [%s] %s", d.Severity, d.Code, d.Summary)
	if d.Detail != "" {
		fmt.Fprintf(&sb, ": %s", d.Detail)
	}
	for _, c := range d.LikelyCauses {
		fmt.Fprintf(&sb, "\n  cause: %s", c)
	}
	for _, f := range d.SuggestedFixes {
		fmt.Fprintf(&sb, "\n  fix:   %s", f)
	}
	return sb.String()
}

// Write prints ds one after another.
func Write(w io.Writer, ds []Diagnostic) error {
	for _, d := range ds {
		if _, err := fmt.Fprintln(w, d.String()); err != nil {
			return err
		}
	}
	return nil
}
