package report

import (
	"fmt"
	"io"
	"strconv"
	"time"

	"Gaspipe/internal/calc/gas"
	"Gaspipe/internal/calc/premium/batch"

	"github.com/ansel1/merry"
	"github.com/phpdave11/gofpdf"
	"github.com/xuri/excelize/v2"
)

type Meta struct {
	Project string `json:"project"`
	Author  string `json:"author"`
	Title   string `json:"title"`
	Notes   string `json:"notes"`
}

func describeRequest(req gas.Request) string {
	fuel := "Natural gas"
	if req.Fuel == gas.FuelPropane {
		fuel = "Propane"
	}
	if req.Regime.Mode == gas.ModeHigh {
		return fmt.Sprintf("%s, high pressure %d psi inlet, %.1f ft developed length",
			fuel, req.Regime.InletPSI, req.DevelopedLengthFt)
	}
	return fmt.Sprintf("%s, low pressure %.1f in. w.c. drop, %.1f ft developed length",
		fuel, req.Regime.PressureDrop, req.DevelopedLengthFt)
}

func formatSize(ft float64) string {
	if ft == 0 {
		return "-"
	}
	return strconv.FormatFloat(ft*12, 'f', 2, 64) + "\""
}

var columns = []struct {
	title string
	width float64
}{
	{"Segment", 22},
	{"Calc. D (in)", 30},
	{"Was", 25},
	{"Now", 25},
	{"Outcome", 40},
}

// WritePDF renders a sizing run as an A4 report.
func WritePDF(w io.Writer, meta Meta, res batch.GasBatchResult) error {
	if meta.Title == "" {
		meta.Title = "Gas Pipe Sizing Report"
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(0, 10, meta.Title)
	pdf.Ln(12)
	pdf.SetFont("Helvetica", "", 11)
	pdf.Cell(0, 6, fmt.Sprintf("Project: %s", meta.Project))
	pdf.Ln(6)
	pdf.Cell(0, 6, fmt.Sprintf("Author: %s", meta.Author))
	pdf.Ln(6)
	pdf.Cell(0, 6, fmt.Sprintf("Date: %s", time.Now().Format("2006-01-02")))
	pdf.Ln(6)
	pdf.Cell(0, 6, fmt.Sprintf("Run: %s", res.RunID))
	pdf.Ln(6)
	pdf.Cell(0, 6, describeRequest(res.Request))
	pdf.Ln(10)

	pdf.SetFont("Helvetica", "B", 10)
	for _, c := range columns {
		pdf.CellFormat(c.width, 7, c.title, "1", 0, "C", false, 0, "")
	}
	pdf.Ln(-1)
	pdf.SetFont("Helvetica", "", 10)
	for _, r := range res.Results {
		cells := []string{
			strconv.FormatInt(r.SegmentID, 10),
			strconv.FormatFloat(r.DiameterIn, 'f', 3, 64),
			formatSize(r.PreviousFt),
			formatSize(r.NominalFt),
			string(r.Outcome),
		}
		for i, c := range columns {
			pdf.CellFormat(c.width, 6, cells[i], "1", 0, "L", false, 0, "")
		}
		pdf.Ln(-1)
	}
	pdf.Ln(4)
	pdf.Cell(0, 6, fmt.Sprintf("Changed size for %d of %d segments.", res.Changed, len(res.Results)))
	pdf.Ln(8)
	if meta.Notes != "" {
		pdf.MultiCell(0, 6, meta.Notes, "", "L", false)
	}
	return merry.Wrap(pdf.Output(w))
}

const sheetName = "Sizing"

// WriteXLSX exports a sizing run as a single-sheet workbook.
func WriteXLSX(w io.Writer, res batch.GasBatchResult) error {
	f := excelize.NewFile()
	defer f.Close()
	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return merry.Wrap(err)
	}

	header := []interface{}{"segment_id", "diameter_in", "previous_in", "nominal_in", "changed", "outcome", "notes"}
	if err := f.SetSheetRow(sheetName, "A1", &header); err != nil {
		return merry.Wrap(err)
	}
	for i, r := range res.Results {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return merry.Wrap(err)
		}
		row := []interface{}{r.SegmentID, r.DiameterIn, r.PreviousIn(), r.NominalIn(), r.Changed, string(r.Outcome), r.Notes}
		if err := f.SetSheetRow(sheetName, cell, &row); err != nil {
			return merry.Wrap(err)
		}
	}
	return merry.Wrap(f.Write(w))
}
