package services

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"
)

// noRow marks a National Grid category without that kind of row.
const noRow = -1

// NationalGridRows holds the 0-indexed template rows for one category.
type NationalGridRows struct {
	LaborRow    int
	MaterialRow int
	FeesRow     int
}

// National Grid columns. G holds =D*F and is never written.
const (
	ngQtyCol     = "D"
	ngRateCol    = "F"
	ngFormulaCol = "G"
	ngHoursCol   = "H"
)

// NationalGridCategories is the template's category order.
var NationalGridCategories = []string{
	NGProfessionalServices,
	NGPermits,
	NGTrenching,
	NGBoring,
	NGConduit,
	NGWireCable,
	NGServiceUpgrade,
	NGElectricalEquipment,
	NGTransformer,
	NGFoundations,
	NGRestoration,
	NGSignageProtection,
	NGEVSEInstallation,
	NGOther,
}

// NationalGridCells maps categories to their 0-indexed rows.
var NationalGridCells = map[string]NationalGridRows{
	NGProfessionalServices: {LaborRow: noRow, MaterialRow: noRow, FeesRow: 10},
	NGPermits:              {LaborRow: noRow, MaterialRow: noRow, FeesRow: 11},
	NGTrenching:            {LaborRow: 13, MaterialRow: 14, FeesRow: noRow},
	NGBoring:               {LaborRow: 16, MaterialRow: 17, FeesRow: noRow},
	NGConduit:              {LaborRow: 19, MaterialRow: 20, FeesRow: noRow},
	NGWireCable:            {LaborRow: 22, MaterialRow: 23, FeesRow: noRow},
	NGServiceUpgrade:       {LaborRow: 25, MaterialRow: 26, FeesRow: noRow},
	NGElectricalEquipment:  {LaborRow: 28, MaterialRow: 29, FeesRow: noRow},
	NGTransformer:          {LaborRow: 31, MaterialRow: 32, FeesRow: noRow},
	NGFoundations:          {LaborRow: 34, MaterialRow: 35, FeesRow: noRow},
	NGRestoration:          {LaborRow: 37, MaterialRow: 38, FeesRow: noRow},
	NGSignageProtection:    {LaborRow: 40, MaterialRow: 41, FeesRow: noRow},
	NGEVSEInstallation:     {LaborRow: 43, MaterialRow: 44, FeesRow: noRow},
	NGOther:                {LaborRow: 46, MaterialRow: 47, FeesRow: 48},
}

// National Grid equipment rows, 0-indexed like the category rows.
const (
	ngEVSERow     = 50
	ngNetworkRow  = 51
	ngShippingRow = 52
)

// NYSEG/RG&E columns. G holds =E+F and is never written.
const (
	nyQtyCol      = "D"
	nyMaterialCol = "E"
	nyLaborCol    = "F"
	nyFormulaCol  = "G"
	nyHoursCol    = "H"
)

// NYSEGCategories is the template's category order.
var NYSEGCategories = []string{
	NYDesignCosts,
	NYPermits,
	NYTrenchingRestoration,
	NYConduit,
	NYWireCable,
	NYElectricalEquipment,
	NYServiceUpgrade,
	NYCivilFoundations,
	NYEVSEInstallation,
	NYOther,
}

// NYSEGCells maps categories to their 1-indexed rows.
var NYSEGCells = map[string]int{
	NYDesignCosts:          12,
	NYPermits:              13,
	NYTrenchingRestoration: 14,
	NYConduit:              15,
	NYWireCable:            16,
	NYElectricalEquipment:  17,
	NYServiceUpgrade:       18,
	NYCivilFoundations:     19,
	NYEVSEInstallation:     20,
	NYOther:                21,
}

// NYSEG/RG&E fixed rows, 1-indexed.
const (
	nyEVSERow               = 24
	nyShippingAndNetworkRow = 25
)

// headerCells are shared by both templates.
var headerCells = struct {
	customer, address, city, state, zip, plugs, stations string
}{"C3", "C4", "C5", "C6", "C7", "C8", "C9"}

// FormulaColumn returns the column holding live totals for a utility.
func FormulaColumn(u UtilityType) string {
	if u == UtilityNYSEGRGE {
		return nyFormulaCol
	}
	return ngFormulaCol
}

// TemplateFilename is the template file for a utility inside the
// templates directory.
func TemplateFilename(u UtilityType) string {
	return string(u) + "-cost-breakdown.xlsx"
}

// WorksheetName returns the sheet a utility's payload is written to.
func WorksheetName(u UtilityType, chargingLevel string) string {
	if u == UtilityNationalGrid {
		if chargingLevel == ChargingDCFC {
			return "DCFC Cost Breakdown"
		}
		return "L2 Cost Breakdown"
	}
	return "Cost Breakdown"
}

// ExportFilename is the download name for a filled template.
func ExportFilename(data ExcelExportData) string {
	name := sanitizeFilenamePart(data.CustomerName)
	if name == "" {
		name = "Proposal"
	}
	return fmt.Sprintf("%s_%s_%s.xlsx", name, data.UtilityType, data.ChargingLevel)
}

func hasCategoryRow(u UtilityType, cat string) bool {
	switch u {
	case UtilityNationalGrid:
		_, ok := NationalGridCells[cat]
		return ok
	case UtilityNYSEGRGE:
		_, ok := NYSEGCells[cat]
		return ok
	}
	return false
}

// CellWriter is the subset of *excelize.File the template writer uses.
type CellWriter interface {
	SetCellValue(sheet, cell string, value any) error
}

// guardedWriter refuses writes to the formula column.
type guardedWriter struct {
	w          CellWriter
	formulaCol string
}

func (g guardedWriter) SetCellValue(sheet, cell string, value any) error {
	col, _, err := excelize.SplitCellName(cell)
	if err != nil {
		return fmt.Errorf("cell %s: %w", cell, err)
	}
	if col == g.formulaCol {
		return fmt.Errorf("%w: %s!%s", ErrFormulaCell, sheet, cell)
	}
	return g.w.SetCellValue(sheet, cell, value)
}

// writes collects the first error of a sequence of cell writes.
type writes struct {
	w     CellWriter
	sheet string
	err   error
}

func (ws *writes) set(col string, row int, value any) {
	if ws.err != nil {
		return
	}
	ws.err = ws.w.SetCellValue(ws.sheet, fmt.Sprintf("%s%d", col, row), value)
}

func (ws *writes) setCell(cell string, value any) {
	if ws.err != nil {
		return
	}
	ws.err = ws.w.SetCellValue(ws.sheet, cell, value)
}

// WriteUtilityCells writes the payload into the utility's fixed cells.
// Only quantity, rate and informational cells are written; the formula
// column is left to the template.
func WriteUtilityCells(w CellWriter, data ExcelExportData) error {
	if err := data.Validate(); err != nil {
		return err
	}
	ws := &writes{
		w:     guardedWriter{w: w, formulaCol: FormulaColumn(data.UtilityType)},
		sheet: WorksheetName(data.UtilityType, data.ChargingLevel),
	}

	ws.setCell(headerCells.customer, sanitizeExcelCell(data.CustomerName))
	ws.setCell(headerCells.address, sanitizeExcelCell(data.SiteAddress))
	ws.setCell(headerCells.city, sanitizeExcelCell(data.SiteCity))
	ws.setCell(headerCells.state, sanitizeExcelCell(data.SiteState))
	ws.setCell(headerCells.zip, sanitizeExcelCell(data.SiteZip))
	ws.setCell(headerCells.plugs, data.NumPlugs)
	ws.setCell(headerCells.stations, data.NumStations)

	switch data.UtilityType {
	case UtilityNationalGrid:
		writeNationalGrid(ws, data)
	case UtilityNYSEGRGE:
		writeNYSEG(ws, data)
	}
	return ws.err
}

func writeNationalGrid(ws *writes, data ExcelExportData) {
	for _, cat := range NationalGridCategories {
		t, ok := data.Categories[cat]
		if !ok {
			continue
		}
		rows := NationalGridCells[cat]
		if rows.LaborRow == noRow && rows.MaterialRow == noRow {
			ws.set(ngQtyCol, rows.FeesRow+1, 1)
			ws.set(ngRateCol, rows.FeesRow+1, RoundCents(t.Total()))
			continue
		}
		ws.set(ngQtyCol, rows.LaborRow+1, 1)
		ws.set(ngRateCol, rows.LaborRow+1, t.LaborCost)
		ws.set(ngHoursCol, rows.LaborRow+1, t.LaborHours)
		ws.set(ngQtyCol, rows.MaterialRow+1, 1)
		ws.set(ngRateCol, rows.MaterialRow+1, t.MaterialCost)
	}

	if data.EVSEQuantity > 0 {
		ws.set("B", ngEVSERow+1, sanitizeExcelCell(data.EVSEModel))
		ws.set("C", ngEVSERow+1, sanitizeExcelCell(data.EVSEPartNumber))
		ws.set(ngQtyCol, ngEVSERow+1, data.EVSEQuantity)
		ws.set(ngRateCol, ngEVSERow+1, data.EVSEUnitPrice)
	}
	if data.NetworkPlanQty > 0 {
		ws.set(ngQtyCol, ngNetworkRow+1, data.NetworkPlanQty)
		ws.set(ngRateCol, ngNetworkRow+1, data.NetworkPlanUnitPrice)
	}
	if data.ShippingCost > 0 {
		ws.set(ngQtyCol, ngShippingRow+1, 1)
		ws.set(ngRateCol, ngShippingRow+1, data.ShippingCost)
	}
}

func writeNYSEG(ws *writes, data ExcelExportData) {
	for _, cat := range NYSEGCategories {
		t, ok := data.Categories[cat]
		if !ok {
			continue
		}
		row := NYSEGCells[cat]
		ws.set(nyMaterialCol, row, t.MaterialCost)
		ws.set(nyLaborCol, row, t.LaborCost)
		ws.set(nyHoursCol, row, t.LaborHours)
	}

	footage := map[string]float64{
		NYTrenchingRestoration: data.TrenchingQty,
		NYConduit:              data.ConduitQty,
		NYWireCable:            data.CablesQty,
	}
	for _, cat := range NYSEGCategories {
		if qty, ok := footage[cat]; ok && qty > 0 {
			ws.set(nyQtyCol, NYSEGCells[cat], qty)
		}
	}

	if data.EVSEQuantity > 0 {
		ws.set("B", nyEVSERow, sanitizeExcelCell(data.EVSEModel))
		ws.set("C", nyEVSERow, sanitizeExcelCell(data.EVSEPartNumber))
		ws.set(nyQtyCol, nyEVSERow, data.EVSEQuantity)
		ws.set(nyMaterialCol, nyEVSERow, data.EVSEPrice)
	}
	if data.ShippingAndNetworkCost > 0 {
		ws.set(nyMaterialCol, nyShippingAndNetworkRow, data.ShippingAndNetworkCost)
	}
}

// FillTemplate opens the utility's template from dir, writes the payload
// into its worksheet and returns the workbook bytes. The template file on
// disk is not modified.
func FillTemplate(dir string, data ExcelExportData) ([]byte, error) {
	if err := data.Validate(); err != nil {
		return nil, err
	}
	path := filepath.Join(dir, TemplateFilename(data.UtilityType))
	tmplErr := func(err error) error {
		return &TemplateError{Utility: data.UtilityType, Path: path, Err: err}
	}

	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, tmplErr(ErrTemplateNotFound)
		}
		return nil, tmplErr(err)
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, tmplErr(fmt.Errorf("open workbook: %w", err))
	}
	defer f.Close()

	sheet := WorksheetName(data.UtilityType, data.ChargingLevel)
	idx, err := f.GetSheetIndex(sheet)
	if err != nil {
		return nil, tmplErr(fmt.Errorf("find worksheet %q: %w", sheet, err))
	}
	if idx < 0 {
		return nil, tmplErr(fmt.Errorf("worksheet %q missing", sheet))
	}

	if err := WriteUtilityCells(f, data); err != nil {
		return nil, tmplErr(fmt.Errorf("write cells: %w", err))
	}
	f.SetActiveSheet(idx)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, tmplErr(fmt.Errorf("write workbook: %w", err))
	}
	return buf.Bytes(), nil
}

// ScaffoldTemplate builds a blank template for a utility with labels and
// the live total formulas in place.
func ScaffoldTemplate(u UtilityType) (*excelize.File, error) {
	if _, err := mappingFor(u); err != nil {
		return nil, err
	}
	f := excelize.NewFile()

	var sheets []string
	if u == UtilityNationalGrid {
		sheets = []string{WorksheetName(u, ChargingLevel2), WorksheetName(u, ChargingDCFC)}
	} else {
		sheets = []string{WorksheetName(u, ChargingLevel2)}
	}

	if err := f.SetSheetName(f.GetSheetName(0), sheets[0]); err != nil {
		f.Close()
		return nil, fmt.Errorf("set sheet name: %w", err)
	}
	for _, s := range sheets[1:] {
		if _, err := f.NewSheet(s); err != nil {
			f.Close()
			return nil, fmt.Errorf("new sheet %q: %w", s, err)
		}
	}

	for _, s := range sheets {
		var err error
		if u == UtilityNationalGrid {
			err = scaffoldNationalGrid(f, s)
		} else {
			err = scaffoldNYSEG(f, s)
		}
		if err != nil {
			f.Close()
			return nil, err
		}
	}
	return f, nil
}

// ScaffoldTemplateFile writes a blank template for u into dir.
func ScaffoldTemplateFile(dir string, u UtilityType) (string, error) {
	f, err := ScaffoldTemplate(u)
	if err != nil {
		return "", err
	}
	defer f.Close()

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create template dir: %w", err)
	}
	path := filepath.Join(dir, TemplateFilename(u))
	if err := f.SaveAs(path); err != nil {
		return "", fmt.Errorf("save template: %w", err)
	}
	return path, nil
}

func scaffoldHeader(f *excelize.File, sheet, title string) error {
	labels := [][2]string{
		{"A1", title},
		{"B3", "Customer"},
		{"B4", "Site Address"},
		{"B5", "City"},
		{"B6", "State"},
		{"B7", "Zip"},
		{"B8", "Number of Plugs"},
		{"B9", "Number of Stations"},
	}
	for _, l := range labels {
		if err := f.SetCellValue(sheet, l[0], l[1]); err != nil {
			return fmt.Errorf("label %s: %w", l[0], err)
		}
	}
	return nil
}

func scaffoldNationalGrid(f *excelize.File, sheet string) error {
	if err := scaffoldHeader(f, sheet, "National Grid EV Make-Ready Cost Breakdown"); err != nil {
		return err
	}
	for cell, label := range map[string]string{"B10": "Category", "D10": "Qty", "F10": "Rate", "G10": "Total", "H10": "Hours"} {
		if err := f.SetCellValue(sheet, cell, label); err != nil {
			return fmt.Errorf("label %s: %w", cell, err)
		}
	}

	formulaRow := func(row int, label string) error {
		if err := f.SetCellValue(sheet, fmt.Sprintf("B%d", row), label); err != nil {
			return fmt.Errorf("label row %d: %w", row, err)
		}
		formula := fmt.Sprintf("%s%d*%s%d", ngQtyCol, row, ngRateCol, row)
		if err := f.SetCellFormula(sheet, fmt.Sprintf("%s%d", ngFormulaCol, row), formula); err != nil {
			return fmt.Errorf("formula row %d: %w", row, err)
		}
		return nil
	}

	for _, cat := range NationalGridCategories {
		rows := NationalGridCells[cat]
		if rows.LaborRow != noRow {
			if err := formulaRow(rows.LaborRow+1, cat+" - Labor"); err != nil {
				return err
			}
		}
		if rows.MaterialRow != noRow {
			if err := formulaRow(rows.MaterialRow+1, cat+" - Material"); err != nil {
				return err
			}
		}
		if rows.FeesRow != noRow {
			if err := formulaRow(rows.FeesRow+1, cat+" - Fees"); err != nil {
				return err
			}
		}
	}
	if err := formulaRow(ngEVSERow+1, "EVSE"); err != nil {
		return err
	}
	if err := formulaRow(ngNetworkRow+1, "Network Plan"); err != nil {
		return err
	}
	return formulaRow(ngShippingRow+1, "Shipping")
}

func scaffoldNYSEG(f *excelize.File, sheet string) error {
	if err := scaffoldHeader(f, sheet, "NYSEG/RG&E EV Make-Ready Cost Breakdown"); err != nil {
		return err
	}
	for cell, label := range map[string]string{"B11": "Category", "D11": "Qty (ft)", "E11": "Material", "F11": "Labor", "G11": "Total", "H11": "Hours"} {
		if err := f.SetCellValue(sheet, cell, label); err != nil {
			return fmt.Errorf("label %s: %w", cell, err)
		}
	}

	formulaRow := func(row int, label string) error {
		if err := f.SetCellValue(sheet, fmt.Sprintf("B%d", row), label); err != nil {
			return fmt.Errorf("label row %d: %w", row, err)
		}
		formula := fmt.Sprintf("%s%d+%s%d", nyMaterialCol, row, nyLaborCol, row)
		if err := f.SetCellFormula(sheet, fmt.Sprintf("%s%d", nyFormulaCol, row), formula); err != nil {
			return fmt.Errorf("formula row %d: %w", row, err)
		}
		return nil
	}

	for _, cat := range NYSEGCategories {
		if err := formulaRow(NYSEGCells[cat], cat); err != nil {
			return err
		}
	}
	if err := formulaRow(nyEVSERow, "EVSE"); err != nil {
		return err
	}
	return formulaRow(nyShippingAndNetworkRow, "Shipping & Network")
}
