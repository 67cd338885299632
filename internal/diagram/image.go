package diagram

import (
	"fmt"
	"image/color"
	"os"
	"path/filepath"
	"strings"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/workmatechiho-source/shotcrete/internal/block"
)

var modeColors = []color.Color{
	color.RGBA{R: 31, G: 119, B: 180, A: 255},
	color.RGBA{R: 44, G: 160, B: 44, A: 255},
	color.RGBA{R: 255, G: 127, B: 14, A: 255},
	color.RGBA{R: 148, G: 103, B: 189, A: 255},
	color.RGBA{R: 214, G: 39, B: 40, A: 255},
}

// ExportStabilityChart exports the margin curves of a sweep to an image file.
// The format follows the extension: .png, .svg or .pdf (default .png).
func ExportStabilityChart(data ChartData, filename string) error {
	if len(data.Values) == 0 {
		return fmt.Errorf("stability chart: no points")
	}

	p := plot.New()
	p.Title.Text = "Shotcrete Stability Chart"
	p.X.Label.Text = fmt.Sprintf("%s (%s)", data.Parameter, data.Unit)
	p.Y.Label.Text = "Margin"
	p.Y.Min = 0
	p.Legend.Top = true

	for i, s := range data.Series {
		margins := displayMargins(s.Margins)
		pts := make(plotter.XYs, len(data.Values))
		for j, v := range data.Values {
			pts[j] = plotter.XY{X: v, Y: margins[j]}
		}
		line, err := plotter.NewLine(pts)
		if err != nil {
			return err
		}
		line.LineStyle.Width = vg.Points(1.5)
		line.LineStyle.Color = modeColors[i%len(modeColors)]
		if s.Name == "Governing" {
			line.LineStyle.Width = vg.Points(3)
			line.LineStyle.Color = color.Black
		}
		p.Add(line)
		p.Legend.Add(s.Name, line)
	}

	// Pass threshold
	first, last := data.Values[0], data.Values[len(data.Values)-1]
	thresholdLine, err := plotter.NewLine(plotter.XYs{
		{X: first, Y: data.Threshold},
		{X: last, Y: data.Threshold},
	})
	if err != nil {
		return err
	}
	thresholdLine.LineStyle.Width = vg.Points(1.5)
	thresholdLine.LineStyle.Color = color.RGBA{R: 255, G: 0, B: 0, A: 255}
	thresholdLine.LineStyle.Dashes = []vg.Length{vg.Points(5), vg.Points(3)}
	p.Add(thresholdLine)
	p.Legend.Add(fmt.Sprintf("Required %.2f", data.Threshold), thresholdLine)

	return save(p, 8*vg.Inch, 6*vg.Inch, filename)
}

// ExportPanelDiagram exports a plan of the block footprint with the bolt
// pattern to an image file
func ExportPanelDiagram(data PanelDiagramData, filename string) error {
	if data.SpacingX <= 0 || data.SpacingY <= 0 {
		return fmt.Errorf("panel diagram: spacing must be > 0")
	}

	p := plot.New()
	p.Title.Text = fmt.Sprintf("Block Footprint: %s", data.Variant.Description())
	p.X.Label.Text = "x (m)"
	p.Y.Label.Text = "y (m)"

	outline, err := plotter.NewLine(plotter.XYs{
		{X: 0, Y: 0},
		{X: data.SpacingX, Y: 0},
		{X: data.SpacingX, Y: data.SpacingY},
		{X: 0, Y: data.SpacingY},
		{X: 0, Y: 0},
	})
	if err != nil {
		return err
	}
	outline.LineStyle.Width = vg.Points(2)
	outline.LineStyle.Color = color.Black
	p.Add(outline)

	// Hip lines of a wedge towards its ridge or apex
	if data.Height > 0 && data.Variant != block.FlatBlock {
		half := data.SpacingX / 2
		if data.SpacingY < data.SpacingX {
			half = data.SpacingY / 2
		}
		ridge := plotter.XYs{
			{X: half, Y: half},
			{X: data.SpacingX - half, Y: data.SpacingY - half},
		}
		for _, corner := range []struct{ x, y float64 }{
			{0, 0}, {data.SpacingX, 0}, {data.SpacingX, data.SpacingY}, {0, data.SpacingY},
		} {
			end := ridge[0]
			if (data.SpacingX >= data.SpacingY && corner.x > data.SpacingX/2) ||
				(data.SpacingY > data.SpacingX && corner.y > data.SpacingY/2) {
				end = ridge[1]
			}
			hip, err := plotter.NewLine(plotter.XYs{{X: corner.x, Y: corner.y}, end})
			if err != nil {
				return err
			}
			hip.LineStyle.Color = color.Gray{Y: 128}
			hip.LineStyle.Dashes = []vg.Length{vg.Points(3), vg.Points(3)}
			p.Add(hip)
		}
		if ridge[0] != ridge[1] {
			r, err := plotter.NewLine(ridge)
			if err != nil {
				return err
			}
			r.LineStyle.Color = color.Gray{Y: 128}
			p.Add(r)
		}
	}

	// Bolts on a square pattern offset half a spacing from the joints
	if data.BoltSpacing > 0 {
		var bolts plotter.XYs
		for x := data.BoltSpacing / 2; x < data.SpacingX; x += data.BoltSpacing {
			for y := data.BoltSpacing / 2; y < data.SpacingY; y += data.BoltSpacing {
				bolts = append(bolts, plotter.XY{X: x, Y: y})
			}
		}
		if len(bolts) > 0 {
			sc, err := plotter.NewScatter(bolts)
			if err != nil {
				return err
			}
			sc.GlyphStyle.Color = color.RGBA{R: 139, G: 69, B: 19, A: 255}
			sc.GlyphStyle.Radius = vg.Points(5)
			sc.GlyphStyle.Shape = draw.CircleGlyph{}
			p.Add(sc)
		}
	}

	label, err := plotter.NewLabels(plotter.XYLabels{
		XYs:    []plotter.XY{{X: data.SpacingX * 0.05, Y: data.SpacingY * 0.9}},
		Labels: []string{fmt.Sprintf("governs: %s", data.Governing.Title())},
	})
	if err != nil {
		return err
	}
	p.Add(label)

	return save(p, 6*vg.Inch, 6*vg.Inch, filename)
}

func save(p *plot.Plot, width, height vg.Length, filename string) error {
	dir := filepath.Dir(filename)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}

	switch strings.ToLower(filepath.Ext(filename)) {
	case ".png", ".svg", ".pdf":
		return p.Save(width, height, filename)
	default:
		return p.Save(width, height, filename+".png")
	}
}
