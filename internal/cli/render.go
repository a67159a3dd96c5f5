package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/sirkon/protoguard/internal/diag"
	"github.com/sirkon/protoguard/internal/pgrules"
)

const (
	formatText  = "text"
	formatJSON  = "json"
	formatTable = "table"
)

var formats = []string{formatText, formatJSON, formatTable}

type renderFunc func(w io.Writer, reports []diag.Report, noColor bool) error

func renderer(format string) (renderFunc, error) {
	switch format {
	case formatText:
		return renderText, nil
	case formatJSON:
		return renderJSON, nil
	case formatTable:
		return renderTable, nil
	default:
		return nil, fmt.Errorf("unknown output format %q", format)
	}
}

func severityColor(s pgrules.Severity, noColor bool) *color.Color {
	var c *color.Color
	switch s {
	case pgrules.SeverityError:
		c = color.New(color.FgRed, color.Bold)
	case pgrules.SeverityWarning:
		c = color.New(color.FgYellow)
	default:
		c = color.New(color.FgCyan)
	}
	if noColor {
		c.DisableColor()
	}

	return c
}

func location(r diag.Report) string {
	if !r.Position.IsValid() {
		return r.Package
	}

	return r.Position.String()
}

// renderText prints one line per problem followed by a summary.
func renderText(w io.Writer, reports []diag.Report, noColor bool) error {
	counts := map[pgrules.Severity]int{}
	for _, r := range reports {
		counts[r.Severity]++
		sev := severityColor(r.Severity, noColor).Sprint(r.Severity)
		if _, err := fmt.Fprintf(w, "%s: %s %s: %s\n", location(r), r.Rule.Code(), sev, r.Message); err != nil {
			return err
		}
	}

	if len(reports) == 0 {
		_, err := fmt.Fprintln(w, "no problems found")
		return err
	}

	_, err := fmt.Fprintf(
		w,
		"%d problems (%d errors, %d warnings, %d info)\n",
		len(reports),
		counts[pgrules.SeverityError],
		counts[pgrules.SeverityWarning],
		counts[pgrules.SeverityInfo],
	)
	return err
}

type jsonReport struct {
	Package  string `json:"package"`
	File     string `json:"file,omitempty"`
	Line     int    `json:"line,omitempty"`
	Column   int    `json:"column,omitempty"`
	Type     string `json:"type,omitempty"`
	Rule     string `json:"rule"`
	Name     string `json:"name"`
	Severity string `json:"severity"`
	Message  string `json:"message"`
}

func renderJSON(w io.Writer, reports []diag.Report, _ bool) error {
	out := make([]jsonReport, 0, len(reports))
	for _, r := range reports {
		out = append(out, jsonReport{
			Package:  r.Package,
			File:     r.Position.Filename,
			Line:     r.Position.Line,
			Column:   r.Position.Column,
			Type:     r.Type,
			Rule:     r.Rule.Code(),
			Name:     r.Rule.Name(),
			Severity: r.Severity.String(),
			Message:  r.Message,
		})
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

func renderTable(w io.Writer, reports []diag.Report, noColor bool) error {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"Location", "Type", "Rule", "Severity", "Message"})
	for _, r := range reports {
		t.AppendRow(table.Row{
			location(r),
			r.Type,
			r.Rule.Code(),
			severityColor(r.Severity, noColor).Sprint(r.Severity),
			r.Message,
		})
	}
	t.AppendFooter(table.Row{"", "", "", "Total", len(reports)})
	t.Render()

	return nil
}
