package diagram

import (
	"fmt"
	"math"
	"strings"
	"unicode/utf8"

	"github.com/workmatechiho-source/shotcrete/internal/block"
	"github.com/workmatechiho-source/shotcrete/internal/codes"
	"github.com/workmatechiho-source/shotcrete/internal/design"
)

// PanelDiagramData holds data for drawing the lined panel under one block
type PanelDiagramData struct {
	Variant block.Variant

	// Block footprint and height (m)
	SpacingX float64
	SpacingY float64
	Height   float64

	// Lining
	LiningThickness float64 // m
	BoltSpacing     float64 // m, 0 if unreinforced

	// Verdict
	Margins   [4]float64 // in codes.Modes order
	Threshold float64
	Governing codes.Mode
	Pass      bool
}

// PanelDataFromResult extracts the drawing data from an evaluation
func PanelDataFromResult(r design.Result) PanelDiagramData {
	d := PanelDiagramData{
		Variant:         r.Load.Variant,
		SpacingX:        r.Input.Geometry.SpacingX,
		SpacingY:        r.Input.Geometry.SpacingY,
		Height:          r.Load.Height,
		LiningThickness: r.Input.Shotcrete.Thickness,
		Threshold:       r.RequiredFoS,
		Governing:       r.Governing,
		Pass:            r.Pass,
	}
	if r.Input.Reinforcement != nil {
		d.BoltSpacing = r.Input.Reinforcement.Spacing
	}
	for i, mr := range r.Modes {
		d.Margins[i] = mr.Margin
	}
	return d
}

// DrawPanel creates an ASCII plan of the block footprint with the bolt
// pattern, next to a cross-section of the block resting on the lining
func DrawPanel(data PanelDiagramData) string {
	var sb strings.Builder

	widthChars := 30
	heightChars := 12

	// Keep the plan in proportion to the longer side
	longer := math.Max(data.SpacingX, data.SpacingY)
	if longer <= 0 {
		return ""
	}
	planW := int(math.Round(data.SpacingX / longer * float64(widthChars)))
	planH := int(math.Round(data.SpacingY / longer * float64(heightChars)))
	planW = clamp(planW, 6, widthChars)
	planH = clamp(planH, 3, heightChars)

	// Bolt columns and rows inside the footprint
	boltCols, boltRows := boltLines(data.SpacingX, data.BoltSpacing, planW), boltLines(data.SpacingY, data.BoltSpacing, planH)

	sb.WriteString("\n")
	sb.WriteString("  PLAN (joint-bounded footprint)       SECTION\n")
	sb.WriteString("  ──────────────────────────────       ───────\n")

	section := sectionLines(data, 20, planH+2)

	for i := 0; i <= planH+1; i++ {
		var row string
		switch i {
		case 0:
			row = fmt.Sprintf("┌%s┐", strings.Repeat("─", planW))
		case planH + 1:
			row = fmt.Sprintf("└%s┘", strings.Repeat("─", planW))
		default:
			fill := []rune(strings.Repeat(" ", planW))
			if boltRows[i-1] {
				for c := 0; c < planW; c++ {
					if boltCols[c] {
						fill[c] = '●'
					}
				}
			}
			row = "│" + string(fill) + "│"
		}
		sb.WriteString("  ")
		sb.WriteString(row)
		sb.WriteString(strings.Repeat(" ", widthChars-planW+7))
		if i < len(section) {
			sb.WriteString(section[i])
		}
		sb.WriteString("\n")
	}

	sb.WriteString(fmt.Sprintf("  sx = %.2f m  (horizontal)\n", data.SpacingX))
	sb.WriteString(fmt.Sprintf("  sy = %.2f m  (vertical)\n", data.SpacingY))

	// Legend
	sb.WriteString("\n")
	sb.WriteString("  Legend:\n")
	if data.BoltSpacing > 0 {
		sb.WriteString(fmt.Sprintf("  ●   = Bolt at %.2f m square pattern\n", data.BoltSpacing))
	} else {
		sb.WriteString("  No reinforcement\n")
	}
	sb.WriteString("  ▓▓▓ = Shotcrete lining\n")
	sb.WriteString(fmt.Sprintf("  Block: %s, height %.2f m\n", data.Variant.Description(), data.Height))

	return sb.String()
}

// sectionLines draws the block profile over the lining, apex up
func sectionLines(data PanelDiagramData, width, rows int) []string {
	lines := make([]string, 0, rows)
	body := rows - 2

	for i := 0; i < body; i++ {
		var fill string
		if data.Variant == block.FlatBlock {
			fill = "█" + strings.Repeat("░", width-2) + "█"
		} else {
			// Triangle narrowing towards the apex
			half := int(math.Round(float64(i+1) / float64(body) * float64(width) / 2))
			pad := width/2 - half
			fill = strings.Repeat(" ", pad) + "/" + strings.Repeat("░", max(0, 2*half-2)) + "\\"
		}
		lines = append(lines, fill)
	}
	lines = append(lines, strings.Repeat("▓", width)+fmt.Sprintf("  t = %.0f mm", data.LiningThickness*1000))
	lines = append(lines, strings.Repeat(" ", width/2-1)+"↓W")
	return lines
}

// boltLines marks which character cells of a side carry a bolt line
func boltLines(side, spacing float64, chars int) []bool {
	marks := make([]bool, chars)
	if spacing <= 0 || side <= 0 {
		return marks
	}
	for x := spacing / 2; x < side; x += spacing {
		c := int(x / side * float64(chars))
		if c >= 0 && c < chars {
			marks[c] = true
		}
	}
	return marks
}

// DrawMarginBars creates an ASCII bar chart of the margin of each mode
// against the pass threshold
func DrawMarginBars(data PanelDiagramData) string {
	var sb strings.Builder

	width := 40

	top := data.Threshold * 2
	for _, m := range data.Margins {
		top = math.Max(top, m)
	}
	if top <= 0 || math.IsInf(top, 0) || math.IsNaN(top) {
		top = 1
	}
	scale := float64(width) / top
	mark := int(data.Threshold * scale)

	sb.WriteString("\n")
	sb.WriteString("  MARGIN BY FAILURE MODE\n")
	sb.WriteString("  ──────────────────────\n\n")

	for i, mode := range codes.Modes {
		m := data.Margins[i]
		bar := []rune(strings.Repeat("█", clamp(int(m*scale), 0, width)) + strings.Repeat(" ", width-clamp(int(m*scale), 0, width)))
		if mark >= 0 && mark < width && bar[mark] == ' ' {
			bar[mark] = '┊'
		}
		flag := ""
		if mode == data.Governing {
			flag = " ◄ governs"
		}
		sb.WriteString(fmt.Sprintf("  %-15s│%s %.3f%s\n", mode.Title(), string(bar), m, flag))
	}
	sb.WriteString(fmt.Sprintf("\n  ┊ = required %.2f\n", data.Threshold))

	return sb.String()
}

// DrawSummaryBox creates a summary box for results
func DrawSummaryBox(title string, lines []string) string {
	var sb strings.Builder

	maxLen := utf8.RuneCountInString(title)
	for _, line := range lines {
		if n := utf8.RuneCountInString(line); n > maxLen {
			maxLen = n
		}
	}
	maxLen += 4

	pad := func(s string) string {
		return s + strings.Repeat(" ", maxLen-4-utf8.RuneCountInString(s))
	}

	border := strings.Repeat("═", maxLen)
	sb.WriteString(fmt.Sprintf("  ╔%s╗\n", border))
	sb.WriteString(fmt.Sprintf("  ║  %s  ║\n", pad(title)))
	sb.WriteString(fmt.Sprintf("  ╠%s╣\n", border))
	for _, line := range lines {
		sb.WriteString(fmt.Sprintf("  ║  %s  ║\n", pad(line)))
	}
	sb.WriteString(fmt.Sprintf("  ╚%s╝\n", border))

	return sb.String()
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
