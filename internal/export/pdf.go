package export

import (
	"fmt"
	"io"
	"os"

	"github.com/phpdave11/gofpdf"

	"github.com/workmatechiho-source/shotcrete/internal/block"
	"github.com/workmatechiho-source/shotcrete/internal/design"
)

// PDFReport writes a one-page calculation summary to w
func PDFReport(w io.Writer, meta Meta, res design.Result) error {
	meta = meta.normalized()

	pdf := gofpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetTitle(meta.Name, true)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(0, 10, tr(meta.Name))
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "", 10)
	pdf.Cell(0, 5, fmt.Sprintf("Report ID: %s", meta.ReportID))
	pdf.Ln(5)
	pdf.Cell(0, 5, fmt.Sprintf("Date: %s", meta.Generated.Format("2006-01-02")))
	pdf.Ln(5)
	if meta.AgeLabel != "" {
		pdf.Cell(0, 5, tr(fmt.Sprintf("Design age: %s", meta.AgeLabel)))
		pdf.Ln(5)
	}
	if meta.Description != "" {
		pdf.MultiCell(0, 5, tr(meta.Description), "", "L", false)
	}
	pdf.Ln(4)

	section := func(title string) {
		pdf.SetFont("Helvetica", "B", 12)
		pdf.Cell(0, 7, title)
		pdf.Ln(8)
		pdf.SetFont("Helvetica", "", 10)
	}
	pair := func(k, v string) {
		pdf.CellFormat(70, 6, tr(k), "", 0, "L", false, 0, "")
		pdf.CellFormat(0, 6, tr(v), "", 1, "L", false, 0, "")
	}

	section("Inputs")
	g, s := res.Input.Geometry, res.Input.Shotcrete
	pair("Load model", res.Load.Variant.Description())
	pair("Joint spacing sx x sy", fmt.Sprintf("%.3f x %.3f m", g.SpacingX, g.SpacingY))
	if res.Load.Variant == block.ShaleWedge {
		pair("Side angles", fmt.Sprintf("%.1f° / %.1f°", g.SideAngleX, g.SideAngleY))
	}
	if g.Thickness > 0 {
		pair("Block thickness", fmt.Sprintf("%.3f m", g.Thickness))
	}
	pair("Rock unit weight", fmt.Sprintf("%.2f kN/m³", g.UnitWeight))
	pair("Shotcrete thickness", fmt.Sprintf("%.3f m (effective %.3f m)", s.Thickness, s.EffectiveThickness()))
	pair("Bond / flexural / shear", fmt.Sprintf("%.2f / %.2f / %.2f MPa", s.BondStrength, s.FlexuralStrength, s.ShearStrength))
	if r := res.Input.Reinforcement; r != nil {
		pair("Bolts", fmt.Sprintf("%.1f kN at %.2f m", r.Capacity, r.Spacing))
	}
	pair("Philosophy / code", fmt.Sprintf("%s / %s", res.Philosophy, res.CodeVersion))
	pdf.Ln(4)

	section("Demand")
	pair("Block weight W", fmt.Sprintf("%.3f kN", res.Load.Weight))
	pair("Contact area", fmt.Sprintf("%.3f m²", res.Load.ContactArea))
	pair("Effective span", fmt.Sprintf("%.3f m", res.Load.EffectiveSpan))
	pdf.Ln(4)

	section("Failure modes")
	cols := []struct {
		title string
		width float64
	}{
		{"Mode", 40}, {"Demand (kN)", 28}, {"Capacity (kN)", 30}, {"phi", 16}, {"gamma", 16}, {"Margin", 22}, {"Pass", 18},
	}
	pdf.SetFont("Helvetica", "B", 10)
	pdf.SetFillColor(221, 235, 247)
	for _, c := range cols {
		pdf.CellFormat(c.width, 7, c.title, "1", 0, "C", true, 0, "")
	}
	pdf.Ln(-1)
	pdf.SetFont("Helvetica", "", 10)
	for _, mr := range res.Modes {
		verdict := "FAIL"
		if mr.Pass {
			verdict = "PASS"
		}
		cells := []string{
			mr.Mode.Title(),
			fmt.Sprintf("%.3f", mr.Demand),
			fmt.Sprintf("%.3f", mr.Capacity),
			fmt.Sprintf("%.2f", mr.Phi),
			fmt.Sprintf("%.2f", mr.Gamma),
			fmt.Sprintf("%.3f", mr.Margin),
			verdict,
		}
		for i, c := range cells {
			align := "R"
			if i == 0 {
				align = "L"
			}
			pdf.CellFormat(cols[i].width, 6, c, "1", 0, align, false, 0, "")
		}
		pdf.Ln(-1)
	}
	pdf.Ln(4)

	overall := "FAILS"
	if res.Pass {
		overall = "PASSES"
	}
	pdf.SetFont("Helvetica", "B", 11)
	pdf.MultiCell(0, 6, fmt.Sprintf("Governing mode: %s, margin %.3f against %.2f required. The lining %s.",
		res.Governing.Title(), res.GoverningMargin, res.RequiredFoS, overall), "", "L", false)

	if meta.Notes != "" {
		pdf.Ln(4)
		section("Notes")
		pdf.MultiCell(0, 5, tr(meta.Notes), "", "L", false)
	}

	return pdf.Output(w)
}

// SavePDFReport writes the report to path
func SavePDFReport(path string, meta Meta, res design.Result) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := PDFReport(f, meta, res); err != nil {
		f.Close()
		return fmt.Errorf("writing pdf report: %w", err)
	}
	return f.Close()
}
