package export

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/workmatechiho-source/shotcrete/internal/codes"
	"github.com/workmatechiho-source/shotcrete/internal/design"
	"github.com/workmatechiho-source/shotcrete/internal/sweep"
)

// Sheet names of the workbook
const (
	SheetSummary = "Summary"
	SheetInputs  = "Inputs"
	SheetResults = "Results"
	SheetDerived = "Derived"
	SheetSweep   = "Sweep"
)

// Workbook builds an .xlsx file with Summary, Inputs, Results and Derived
// sheets, plus a Sweep sheet with a line chart when series is non-nil.
// Values are written as computed, never rounded.
func Workbook(meta Meta, res design.Result, series *sweep.Series) (*excelize.File, error) {
	meta = meta.normalized()
	f := excelize.NewFile()

	if err := f.SetSheetName("Sheet1", SheetSummary); err != nil {
		return nil, err
	}
	for _, name := range []string{SheetInputs, SheetResults, SheetDerived} {
		if _, err := f.NewSheet(name); err != nil {
			return nil, err
		}
	}

	header, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"DDEBF7"}, Pattern: 1},
	})
	if err != nil {
		return nil, err
	}

	steps := []func() error{
		func() error { return writeTable(f, SheetSummary, header, []any{"Item", "Value"}, summaryRows(meta, res)) },
		func() error {
			return writeTable(f, SheetInputs, header, []any{"Parameter", "Value", "Unit"}, inputRows(meta, res.Input))
		},
		func() error {
			return writeTable(f, SheetResults, header, []any{"Mode", "Demand (kN)", "Capacity (kN)", "phi", "gamma", "Margin", "Utilisation", "Pass", "Formula"}, resultRows(res))
		},
		func() error {
			return writeTable(f, SheetDerived, header, []any{"Quantity", "Value", "Unit"}, derivedRows(res))
		},
	}
	for _, step := range steps {
		if err := step(); err != nil {
			return nil, err
		}
	}

	if series != nil && len(series.Points) > 0 {
		if err := writeSweep(f, header, series); err != nil {
			return nil, err
		}
	}

	f.SetActiveSheet(0)
	return f, nil
}

// WriteWorkbook streams the workbook to w
func WriteWorkbook(w io.Writer, meta Meta, res design.Result, series *sweep.Series) error {
	f, err := Workbook(meta, res, series)
	if err != nil {
		return err
	}
	defer f.Close()
	_, err = f.WriteTo(w)
	return err
}

// SaveWorkbook writes the workbook to path
func SaveWorkbook(path string, meta Meta, res design.Result, series *sweep.Series) error {
	f, err := Workbook(meta, res, series)
	if err != nil {
		return err
	}
	defer f.Close()
	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("saving workbook: %w", err)
	}
	return nil
}

func writeTable(f *excelize.File, sheet string, style int, header []any, rows [][]any) error {
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return err
	}
	last, err := excelize.CoordinatesToCellName(len(header), 1)
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(sheet, "A1", last, style); err != nil {
		return err
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return err
		}
	}
	lastCol, _ := excelize.ColumnNumberToName(len(header))
	return f.SetColWidth(sheet, "A", lastCol, 22)
}

func summaryRows(meta Meta, res design.Result) [][]any {
	verdict := "FAIL"
	if res.Pass {
		verdict = "PASS"
	}
	return [][]any{
		{"Report ID", meta.ReportID},
		{"Case", meta.Name},
		{"Description", meta.Description},
		{"Generated", meta.Generated.Format("2006-01-02 15:04:05")},
		{"Philosophy", string(res.Philosophy)},
		{"Code version", string(res.CodeVersion)},
		{"Load model", res.Load.Variant.Description()},
		{"Governing mode", res.Governing.Title()},
		{"Governing margin", res.GoverningMargin},
		{"Required", res.RequiredFoS},
		{"Overall", verdict},
	}
}

func inputRows(meta Meta, in design.Input) [][]any {
	g, s := in.Geometry, in.Shotcrete
	rows := [][]any{
		{"Load model", string(in.Variant), ""},
		{"Geology preset", meta.Preset, ""},
		{"Joint spacing sx", g.SpacingX, "m"},
		{"Joint spacing sy", g.SpacingY, "m"},
		{"Side angle θx", g.SideAngleX, "deg"},
		{"Side angle θy", g.SideAngleY, "deg"},
		{"Block thickness", g.Thickness, "m"},
		{"Rock unit weight γ", g.UnitWeight, "kN/m³"},
		{"Surcharge", g.Surcharge, "kPa"},
		{"Shotcrete thickness t", s.Thickness, "m"},
		{"Durability allowance", s.DurabilityAllowance, "m"},
		{"Bond strength τb", s.BondStrength, "MPa"},
		{"Bond width", s.BondWidth, "m"},
		{"Flexural strength f_r", s.FlexuralStrength, "MPa"},
		{"Shear strength τv", s.ShearStrength, "MPa"},
		{"Punching strength v_rd", s.PunchingStrength, "MPa"},
		{"Compressive strength f'c", s.CompressiveStrength, "MPa"},
		{"Fibre dosage", s.FibreDosage, "kg/m³"},
	}
	if in.Reinforcement != nil {
		rows = append(rows,
			[]any{"Bolt capacity", in.Reinforcement.Capacity, "kN"},
			[]any{"Bolt spacing", in.Reinforcement.Spacing, "m"},
		)
	}
	rows = append(rows,
		[]any{"Age label", meta.AgeLabel, ""},
		[]any{"Notes", meta.Notes, ""},
	)
	return rows
}

func resultRows(res design.Result) [][]any {
	rows := make([][]any, 0, len(res.Modes))
	for i, mr := range res.Modes {
		rows = append(rows, []any{
			mr.Mode.Title(), mr.Demand, mr.Capacity, mr.Phi, mr.Gamma,
			mr.Margin, mr.Utilization, mr.Pass, res.Capacities[i].Formula,
		})
	}
	return rows
}

func derivedRows(res design.Result) [][]any {
	l := res.Load
	rows := [][]any{
		{"Block weight W", l.Weight, "kN"},
		{"Block volume", l.Volume, "m³"},
		{"Block height", l.Height, "m"},
		{"Contact area", l.ContactArea, "m²"},
		{"Perimeter", l.Perimeter, "m"},
		{"Effective span", l.EffectiveSpan, "m"},
		{"Joint face area", l.FaceArea, "m²"},
		{"Uniform load w", l.UniformPressure, "kN/m²"},
		{"Effective thickness t_eff", res.Input.Shotcrete.EffectiveThickness(), "m"},
		{"Lining self weight", res.Input.Shotcrete.SelfWeight(l.ContactArea), "kN"},
	}
	for _, c := range res.Capacities {
		for _, t := range c.Terms {
			rows = append(rows, []any{fmt.Sprintf("%s: %s", c.Mode, t.Name), t.Value, t.Unit})
		}
	}
	return rows
}

func writeSweep(f *excelize.File, style int, series *sweep.Series) error {
	if _, err := f.NewSheet(SheetSweep); err != nil {
		return err
	}

	header := []any{fmt.Sprintf("%s (%s)", series.Parameter, series.Parameter.Unit())}
	for _, m := range codes.Modes {
		header = append(header, m.Title())
	}
	header = append(header, "Governing", "Governing mode", "Pass")

	rows := make([][]any, 0, len(series.Points))
	for _, p := range series.Points {
		row := []any{p.Value}
		for _, mr := range p.Result.Modes {
			row = append(row, mr.Margin)
		}
		row = append(row, p.Result.GoverningMargin, p.Result.Governing.Title(), p.Result.Pass)
		rows = append(rows, row)
	}
	if err := writeTable(f, SheetSweep, style, header, rows); err != nil {
		return err
	}

	last := len(series.Points) + 1
	categories := fmt.Sprintf("%s!$A$2:$A$%d", SheetSweep, last)
	var chartSeries []excelize.ChartSeries
	for col := 2; col <= len(codes.Modes)+2; col++ {
		name, err := excelize.ColumnNumberToName(col)
		if err != nil {
			return err
		}
		chartSeries = append(chartSeries, excelize.ChartSeries{
			Name:       fmt.Sprintf("%s!$%s$1", SheetSweep, name),
			Categories: categories,
			Values:     fmt.Sprintf("%s!$%s$2:$%s$%d", SheetSweep, name, name, last),
		})
	}

	anchor, err := excelize.CoordinatesToCellName(len(header)+2, 2)
	if err != nil {
		return err
	}
	return f.AddChart(SheetSweep, anchor, &excelize.Chart{
		Type:   excelize.Line,
		Series: chartSeries,
		Title:  []excelize.RichTextRun{{Text: "Margin vs " + string(series.Parameter)}},
	})
}
