package services

import (
	"bytes"
	"testing"
)

func TestGenerateProposalPDF(t *testing.T) {
	p := recalculated(t, sampleProposal(t))
	doc := BuildProposalDocument(p, "Clean Street EV", "Jan 2, 2026")

	data, err := GenerateProposalPDF(doc)
	if err != nil {
		t.Fatalf("GenerateProposalPDF() error: %v", err)
	}
	if !bytes.HasPrefix(data, []byte("%PDF")) {
		t.Errorf("output does not start with %%PDF header")
	}
}

func TestGenerateProposalPDF_EmptyProposal(t *testing.T) {
	p := recalculated(t, NewProposal(ProjectDistribution, testSettings(), 0))
	data, err := GenerateProposalPDF(BuildProposalDocument(p, "Clean Street EV", "Jan 2, 2026"))
	if err != nil {
		t.Fatalf("GenerateProposalPDF() error: %v", err)
	}
	if len(data) == 0 {
		t.Error("GenerateProposalPDF() returned empty bytes")
	}
}

func TestFormatQty(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{2, "2"},
		{120, "120"},
		{2.5, "2.50"},
		{0.333, "0.33"},
	}
	for _, tt := range tests {
		if got := formatQty(tt.in); got != tt.want {
			t.Errorf("formatQty(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestProjectTypeLabel(t *testing.T) {
	if got := projectTypeLabel(ProjectLevel3EPC); got != "DC Fast Charging EPC" {
		t.Errorf("projectTypeLabel(level3-epc) = %q", got)
	}
	if got := projectTypeLabel("custom"); got != "custom" {
		t.Errorf("projectTypeLabel(custom) = %q, want passthrough", got)
	}
}

func TestNetworkLabel(t *testing.T) {
	if got := networkLabel(0); got != "No network plan" {
		t.Errorf("networkLabel(0) = %q", got)
	}
	if got := networkLabel(5); got != "5-year network plan" {
		t.Errorf("networkLabel(5) = %q", got)
	}
}
