package services

import (
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"
)

func TestGenerateCostSummaryExcel(t *testing.T) {
	p := recalculated(t, sampleProposal(t))
	doc := BuildProposalDocument(p, "Clean Street EV", "Jan 2, 2026")

	data, err := GenerateCostSummaryExcel(doc)
	if err != nil {
		t.Fatalf("GenerateCostSummaryExcel() error: %v", err)
	}
	if len(data) == 0 {
		t.Fatal("GenerateCostSummaryExcel() returned empty bytes")
	}

	f, err := excelize.OpenReader(bytesReader(data))
	if err != nil {
		t.Fatalf("generated file is not valid Excel: %v", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) != 1 || sheets[0] != "Acme Parking" {
		t.Fatalf("sheets = %v, want [Acme Parking]", sheets)
	}

	title, _ := f.GetCellValue("Acme Parking", "A1")
	if title != "Acme Parking - Cost Summary" {
		t.Errorf("A1 = %q, want %q", title, "Acme Parking - Cost Summary")
	}
	num, _ := f.GetCellValue("Acme Parking", "A2")
	if !strings.Contains(num, "P-1001") {
		t.Errorf("A2 = %q, want proposal number", num)
	}

	headers := []string{"#", "Description", "Qty", "Unit", "Our Cost", "Quoted Price"}
	for i, want := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 5)
		got, _ := f.GetCellValue("Acme Parking", cell)
		if got != want {
			t.Errorf("header %s = %q, want %q", cell, got, want)
		}
	}

	section, _ := f.GetCellValue("Acme Parking", "A6")
	if section != "Equipment" {
		t.Errorf("A6 = %q, want Equipment section", section)
	}
	first, _ := f.GetCellValue("Acme Parking", "B7")
	if first != doc.Rows[0].Description {
		t.Errorf("B7 = %q, want %q", first, doc.Rows[0].Description)
	}
}

func TestGenerateCostSummaryExcel_NoCustomer(t *testing.T) {
	p := NewProposal(ProjectLevel2EPC, testSettings(), 0)
	p = recalculated(t, p)

	data, err := GenerateCostSummaryExcel(BuildProposalDocument(p, "Clean Street EV", "Jan 2, 2026"))
	if err != nil {
		t.Fatalf("GenerateCostSummaryExcel() error: %v", err)
	}
	f, err := excelize.OpenReader(bytesReader(data))
	if err != nil {
		t.Fatalf("generated file is not valid Excel: %v", err)
	}
	defer f.Close()

	if sheets := f.GetSheetList(); sheets[0] != "Cost Summary" {
		t.Errorf("sheet = %q, want Cost Summary", sheets[0])
	}
}

func TestSanitizeSheetName(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Acme Parking", "Acme Parking"},
		{"A/B:C?D*E[F]G\\H", "ABCDEFGH"},
		{"[]", "Cost Summary"},
		{strings.Repeat("x", 40), strings.Repeat("x", 31)},
	}
	for _, tt := range tests {
		if got := sanitizeSheetName(tt.in); got != tt.want {
			t.Errorf("sanitizeSheetName(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestSanitizeExcelCell(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"", ""},
		{"Acme", "Acme"},
		{"=SUM(A1)", "'=SUM(A1)"},
		{"+1", "'+1"},
		{"-1", "'-1"},
		{"@cmd", "'@cmd"},
		{"a=b", "a=b"},
	}
	for _, tt := range tests {
		if got := sanitizeExcelCell(tt.in); got != tt.want {
			t.Errorf("sanitizeExcelCell(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
