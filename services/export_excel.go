package services

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"
)

// GenerateCostSummaryExcel creates the internal cost breakdown workbook for
// a proposal: every line with our cost and quoted price, the financial
// summary and margin. It returns the file contents as a byte slice.
func GenerateCostSummaryExcel(doc ProposalDocument) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	// Sheet names are capped at 31 chars.
	sheetName := "Cost Summary"
	if doc.Customer.Name != "" {
		sheetName = sanitizeSheetName(doc.Customer.Name)
	}
	if err := f.SetSheetName(f.GetSheetName(0), sheetName); err != nil {
		return nil, fmt.Errorf("set sheet name: %w", err)
	}

	columns := []string{"A", "B", "C", "D", "E", "F"}
	lastCol := columns[len(columns)-1]

	widths := []float64{8, 44, 10, 10, 18, 18}
	for i, col := range columns {
		if err := f.SetColWidth(sheetName, col, col, widths[i]); err != nil {
			return nil, fmt.Errorf("set col width %s: %w", col, err)
		}
	}

	// ── Styles ──────────────────────────────────────────────────────────

	titleStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 16},
	})
	if err != nil {
		return nil, fmt.Errorf("create title style: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "#FFFFFF", Size: 11},
		Fill: excelize.Fill{
			Type:    "pattern",
			Color:   []string{"#1F4E3D"},
			Pattern: 1,
		},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
		Border:    thinBorders(),
	})
	if err != nil {
		return nil, fmt.Errorf("create header style: %w", err)
	}

	sectionStyle, err := f.NewStyle(&excelize.Style{
		Font:   &excelize.Font{Bold: true, Size: 10},
		Fill:   excelize.Fill{Type: "pattern", Color: []string{"#E8F0EC"}, Pattern: 1},
		Border: thinBorders(),
	})
	if err != nil {
		return nil, fmt.Errorf("create section style: %w", err)
	}

	// 4 = "#,##0.00"
	moneyFmt := 4
	rowStyle, err := f.NewStyle(&excelize.Style{
		Font:   &excelize.Font{Size: 10},
		Border: thinBorders(),
		NumFmt: moneyFmt,
	})
	if err != nil {
		return nil, fmt.Errorf("create row style: %w", err)
	}

	summaryStyle, err := f.NewStyle(&excelize.Style{
		Font:   &excelize.Font{Bold: true, Size: 11},
		NumFmt: moneyFmt,
	})
	if err != nil {
		return nil, fmt.Errorf("create summary style: %w", err)
	}

	// ── Header ─────────────────────────────────────────────────────────

	if err := f.MergeCell(sheetName, "A1", lastCol+"1"); err != nil {
		return nil, fmt.Errorf("merge title: %w", err)
	}
	f.SetCellValue(sheetName, "A1", sanitizeExcelCell(doc.Customer.Name+" - Cost Summary"))
	f.SetCellStyle(sheetName, "A1", lastCol+"1", titleStyle)
	f.SetCellValue(sheetName, "A2", fmt.Sprintf("Proposal: %s", sanitizeExcelCell(doc.ProposalNumber)))
	f.SetCellValue(sheetName, "A3", fmt.Sprintf("Date: %s    Project type: %s", doc.CreatedDate, doc.ProjectType))

	headers := []string{"#", "Description", "Qty", "Unit", "Our Cost", "Quoted Price"}
	for i, h := range headers {
		f.SetCellValue(sheetName, fmt.Sprintf("%s5", columns[i]), h)
	}
	f.SetCellStyle(sheetName, "A5", lastCol+"5", headerStyle)

	// ── Line items ─────────────────────────────────────────────────────

	row := 6
	section := ""
	for _, r := range doc.Rows {
		if r.Section != section {
			section = r.Section
			f.SetCellValue(sheetName, fmt.Sprintf("A%d", row), section)
			f.SetCellStyle(sheetName, fmt.Sprintf("A%d", row), fmt.Sprintf("%s%d", lastCol, row), sectionStyle)
			row++
		}
		f.SetCellValue(sheetName, fmt.Sprintf("A%d", row), r.Index)
		f.SetCellValue(sheetName, fmt.Sprintf("B%d", row), sanitizeExcelCell(r.Description))
		f.SetCellValue(sheetName, fmt.Sprintf("C%d", row), r.Qty)
		f.SetCellValue(sheetName, fmt.Sprintf("D%d", row), r.Unit)
		f.SetCellValue(sheetName, fmt.Sprintf("E%d", row), RoundCents(r.OurCost))
		f.SetCellValue(sheetName, fmt.Sprintf("F%d", row), RoundCents(r.QuotedPrice))
		f.SetCellStyle(sheetName, fmt.Sprintf("A%d", row), fmt.Sprintf("%s%d", lastCol, row), rowStyle)
		row++
	}

	// ── Summary ────────────────────────────────────────────────────────

	row++
	for _, s := range doc.Summary {
		f.SetCellValue(sheetName, fmt.Sprintf("B%d", row), s.Label)
		f.SetCellValue(sheetName, fmt.Sprintf("E%d", row), RoundCents(s.OurCost))
		f.SetCellValue(sheetName, fmt.Sprintf("F%d", row), RoundCents(s.Quoted))
		f.SetCellStyle(sheetName, fmt.Sprintf("E%d", row), fmt.Sprintf("F%d", row), rowStyle)
		row++
	}

	totals := []struct {
		label string
		col   string
		value float64
	}{
		{"Total Actual Cost", "E", doc.TotalActualCost},
		{"Gross Project Cost", "F", doc.GrossProjectCost},
		{"Total Incentives", "F", -doc.TotalIncentives},
		{"Net Project Cost", "F", doc.NetProjectCost},
		{fmt.Sprintf("Gross Profit (%.1f%%)", doc.GrossMarginPercent), "F", doc.GrossProfit},
	}
	row++
	for _, t := range totals {
		f.SetCellValue(sheetName, fmt.Sprintf("B%d", row), t.label)
		cell := fmt.Sprintf("%s%d", t.col, row)
		f.SetCellValue(sheetName, cell, RoundCents(t.value))
		f.SetCellStyle(sheetName, cell, cell, summaryStyle)
		row++
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("write excel: %w", err)
	}
	return buf.Bytes(), nil
}

// sanitizeSheetName trims a sheet name to Excel's 31 chars and drops the
// characters Excel forbids.
func sanitizeSheetName(s string) string {
	r := []rune{}
	for _, c := range s {
		switch c {
		case ':', '\\', '/', '?', '*', '[', ']':
			continue
		}
		r = append(r, c)
	}
	if len(r) > 31 {
		r = r[:31]
	}
	if len(r) == 0 {
		return "Cost Summary"
	}
	return string(r)
}

// sanitizeExcelCell prevents formula injection by prefixing dangerous leading
// characters with a single quote. Excel interprets cells starting with =, +, -,
// @, \t or \r as formulas, which can be abused for code execution or data theft.
func sanitizeExcelCell(s string) string {
	if len(s) == 0 {
		return s
	}
	switch s[0] {
	case '=', '+', '-', '@', '\t', '\r', '|':
		return "'" + s
	}
	return s
}

// thinBorders returns a slice of excelize.Border for thin borders on all four sides.
func thinBorders() []excelize.Border {
	sides := []string{"left", "top", "bottom", "right"}
	borders := make([]excelize.Border, len(sides))
	for i, side := range sides {
		borders[i] = excelize.Border{
			Type:  side,
			Color: "#000000",
			Style: 1, // thin
		}
	}
	return borders
}
