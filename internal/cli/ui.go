package cli

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	errs "github.com/apopov/latfig/pkg/errors"
	"github.com/apopov/latfig/pkg/observability"
	"github.com/apopov/latfig/pkg/pipeline"
	tbl "github.com/apopov/latfig/pkg/table"
)

// =============================================================================
// Color Palette
// =============================================================================

var (
	colorCyan   = lipgloss.Color("36")  // Teal - primary actions
	colorGreen  = lipgloss.Color("35")  // Green - success
	colorYellow = lipgloss.Color("220") // Amber - warnings
	colorRed    = lipgloss.Color("167") // Soft red - errors
	colorWhite  = lipgloss.Color("255") // Bright white - values
	colorGray   = lipgloss.Color("245") // Gray - secondary text
	colorDim    = lipgloss.Color("240") // Dim gray - muted text
)

// =============================================================================
// Styles
// =============================================================================

var (
	// StyleTitle for main headings.
	StyleTitle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)

	// StyleDim for secondary/muted text.
	StyleDim = lipgloss.NewStyle().Foreground(colorDim)

	// StyleValue for data values.
	StyleValue = lipgloss.NewStyle().Foreground(colorWhite)

	// StyleNumber for numeric values.
	StyleNumber = lipgloss.NewStyle().Foreground(colorCyan)

	// StyleWarning for warning messages.
	StyleWarning = lipgloss.NewStyle().Foreground(colorYellow)
)

var (
	styleIconSuccess = lipgloss.NewStyle().Foreground(colorGreen)
	styleIconError   = lipgloss.NewStyle().Foreground(colorRed)
	styleIconWarning = lipgloss.NewStyle().Foreground(colorYellow)
	styleIconSpinner = lipgloss.NewStyle().Foreground(colorCyan)
	styleHeader      = lipgloss.NewStyle().Foreground(colorGray).Bold(true)
)

var statusStyles = map[pipeline.Status]lipgloss.Style{
	pipeline.StatusRendered: lipgloss.NewStyle().Foreground(colorGreen),
	pipeline.StatusCached:   lipgloss.NewStyle().Foreground(colorCyan),
	pipeline.StatusSkipped:  lipgloss.NewStyle().Foreground(colorYellow),
	pipeline.StatusFailed:   lipgloss.NewStyle().Foreground(colorRed),
}

// headerRow is the row index lipgloss tables pass for the header.
const headerRow = -1

const (
	iconSuccess = "✓"
	iconError   = "✗"
	iconWarning = "!"
	iconArrow   = "→"
)

// =============================================================================
// Status Output
// =============================================================================

func printSuccess(format string, args ...any) {
	fmt.Println(styleIconSuccess.Render(iconSuccess) + " " + fmt.Sprintf(format, args...))
}

func printError(format string, args ...any) {
	fmt.Println(styleIconError.Render(iconError) + " " + fmt.Sprintf(format, args...))
}

func printWarning(format string, args ...any) {
	fmt.Println(styleIconWarning.Render(iconWarning) + " " + StyleWarning.Render(fmt.Sprintf(format, args...)))
}

// printDetail prints an indented muted line.
func printDetail(format string, args ...any) {
	fmt.Println("  " + StyleDim.Render(fmt.Sprintf(format, args...)))
}

func printFile(path string) {
	fmt.Println("  " + StyleDim.Render(iconArrow) + " " + StyleValue.Render(path))
}

func printKeyValue(key, value string) {
	keyStyle := lipgloss.NewStyle().Foreground(colorGray).Width(14)
	fmt.Println(keyStyle.Render(key) + " " + StyleValue.Render(value))
}

// =============================================================================
// Batch Output
// =============================================================================

// printBatchSummary prints one table row per item, the trajectory outcome
// and the totals.
func printBatchSummary(res *pipeline.Result, snap observability.TallySnapshot) {
	fmt.Println()
	if len(res.Items) > 0 {
		fmt.Println(itemTable(res.Items))
	}
	if res.Trajectories != nil {
		printTrajectories(res.Trajectories)
	}

	fmt.Println()
	fmt.Println(StyleTitle.Render("Summary"))
	printKeyValue("rendered", strconv.Itoa(res.Count(pipeline.StatusRendered)))
	printKeyValue("up to date", strconv.Itoa(res.Count(pipeline.StatusCached)))
	printKeyValue("skipped", strconv.Itoa(res.Count(pipeline.StatusSkipped)))
	printKeyValue("failed", strconv.Itoa(res.Count(pipeline.StatusFailed)))
	printKeyValue("files", fmt.Sprintf("%d (%s)", snap.FilesWritten, formatBytes(snap.BytesWritten)))
	printKeyValue("render time", snap.RenderTime.Round(time.Millisecond).String())
}

// printItems lists the outcome of each item with the files it wrote.
func printItems(items []pipeline.ItemResult) {
	for _, it := range items {
		switch it.Status {
		case pipeline.StatusRendered:
			printSuccess("%s", it.Name())
			for _, p := range it.Outputs {
				printFile(p)
			}
		case pipeline.StatusCached:
			printSuccess("%s %s", it.Name(), StyleDim.Render("(up to date)"))
		case pipeline.StatusSkipped:
			printWarning("%s skipped: %s", it.Name(), errs.UserMessage(it.Err))
		default:
			printError("%s failed: %s", it.Name(), errs.UserMessage(it.Err))
		}
	}
}

func printTrajectories(tr *pipeline.TrajectoryResult) {
	drawn := len(tr.Loaded)
	total := drawn + len(tr.Missing) + len(tr.Failed)
	switch tr.Status {
	case pipeline.StatusRendered:
		printSuccess("trajectories: %d of %d drawn", drawn, total)
	case pipeline.StatusCached:
		printSuccess("trajectories: %d of %d drawn %s", drawn, total, StyleDim.Render("(up to date)"))
	case pipeline.StatusSkipped:
		printWarning("trajectories skipped: %s", reason(tr.Err))
	default:
		printError("trajectories failed: %s", reason(tr.Err))
	}
	if len(tr.Missing) > 0 {
		printDetail("missing: %s", joinInts(tr.Missing))
	}
	if len(tr.Failed) > 0 {
		idx := make([]int, 0, len(tr.Failed))
		for i := range tr.Failed {
			idx = append(idx, i)
		}
		sort.Ints(idx)
		for _, i := range idx {
			printDetail("traj %d: %s", i, errs.UserMessage(tr.Failed[i]))
		}
	}
	for _, p := range tr.Outputs {
		printFile(p)
	}
}

func reason(err error) string {
	if err == nil {
		return "unknown error"
	}
	return errs.UserMessage(err)
}

func itemTable(items []pipeline.ItemResult) *table.Table {
	rows := make([][]string, 0, len(items))
	for _, it := range items {
		size, scale, note := "—", "—", ""
		if it.Stats != nil {
			size = fmt.Sprintf("%d×%d", it.Rows, it.Cols)
			if it.Stats.Scale > 0 {
				scale = strconv.FormatFloat(it.Stats.Scale, 'g', -1, 64)
			}
		}
		switch {
		case it.Err != nil:
			note = errs.UserMessage(it.Err)
		case len(it.Outputs) > 0:
			note = strings.Join(it.Outputs, ", ")
		}
		rows = append(rows, []string{it.Name(), string(it.Status), size, scale, note})
	}

	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("Figure", "Status", "Size", "Scale", "Output").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == headerRow {
				return styleHeader
			}
			if col == 1 && row >= 0 && row < len(items) {
				return statusStyles[items[row].Status]
			}
			if col == 4 {
				return StyleDim
			}
			return lipgloss.NewStyle()
		})
}

// =============================================================================
// Inspect Output
// =============================================================================

func printInspection(path string, t *tbl.Table, views []inspection) {
	rows, cols := t.Dims()
	fmt.Println(StyleTitle.Render(path))
	printKeyValue("half-width", strconv.Itoa(t.HalfWidth))
	printKeyValue("grid", fmt.Sprintf("%d×%d", rows, cols))
	printKeyValue("nonzero", strconv.Itoa(t.NonZero()))
	printKeyValue("max", t.Max().String())
	printKeyValue("wide", strconv.FormatBool(t.Wide()))
	if len(views) == 0 {
		return
	}

	out := make([][]string, 0, len(views))
	for _, v := range views {
		m := v.matrix
		r, c := m.Dims()
		lo, hi, ok := m.Range()
		valueRange := "—"
		if ok {
			valueRange = fmt.Sprintf("%.4g … %.4g", lo, hi)
		}
		out = append(out, []string{
			v.mode.String(),
			fmt.Sprintf("%d×%d", r, c),
			strconv.FormatFloat(m.Stats.Scale, 'g', -1, 64),
			strconv.Itoa(m.Stats.RawNonZero),
			strconv.Itoa(m.Stats.TransformedNonZero),
			strconv.Itoa(m.Stats.FloatNonZero),
			valueRange,
		})
	}
	fmt.Println(table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("Mode", "Trimmed", "Scale", "Raw≠0", "Transformed≠0", "Float≠0", "Range").
		Rows(out...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == headerRow {
				return styleHeader
			}
			if col >= 2 {
				return StyleNumber
			}
			return lipgloss.NewStyle()
		}))
}

// =============================================================================
// Utilities
// =============================================================================

func joinInts(xs []int) string {
	parts := make([]string, len(xs))
	for i, x := range xs {
		parts[i] = strconv.Itoa(x)
	}
	return strings.Join(parts, ", ")
}

func formatBytes(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for m := n / unit; m >= unit; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(n)/float64(div), "KMGTPE"[exp])
}
