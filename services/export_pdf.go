package services

import (
	"fmt"
	"math"

	"github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/orientation"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
)

var (
	brandColor = &props.Color{Red: 31, Green: 78, Blue: 61}
	mutedColor = &props.Color{Red: 100, Green: 100, Blue: 100}
	white      = &props.Color{Red: 255, Green: 255, Blue: 255}
)

// GenerateProposalPDF renders the customer-facing proposal with maroto/v2.
// Only quoted prices appear; our costs stay internal.
func GenerateProposalPDF(doc ProposalDocument) ([]byte, error) {
	cfg := config.NewBuilder().
		WithOrientation(orientation.Vertical).
		WithPageSize(pagesize.Letter).
		WithLeftMargin(12).
		WithTopMargin(12).
		WithRightMargin(12).
		WithPageNumber(props.PageNumber{
			Pattern: "Page {current} of {total}",
			Place:   props.RightBottom,
			Size:    7,
			Color:   &props.Color{Red: 120, Green: 120, Blue: 120},
		}).
		Build()

	m := maroto.New(cfg)

	addProposalHeader(m, doc)
	addCustomerBlock(m, doc)
	addScopeTable(m, doc)
	addFinancialSummary(m, doc)
	if len(doc.PaymentOptions) > 0 {
		addPaymentOptions(m, doc)
	}
	addProposalFooter(m, doc)

	pdf, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("failed to generate PDF: %w", err)
	}
	return pdf.GetBytes(), nil
}

func addProposalHeader(m core.Maroto, doc ProposalDocument) {
	m.AddRows(
		row.New(12).Add(
			col.New(7).Add(
				text.New(doc.CompanyName, props.Text{
					Size:  15,
					Style: fontstyle.Bold,
					Align: align.Left,
					Color: brandColor,
				}),
			),
			col.New(5).Add(
				text.New("EV CHARGING PROPOSAL", props.Text{
					Size:  12,
					Style: fontstyle.Bold,
					Align: align.Right,
				}),
			),
		),
		row.New(6).Add(
			col.New(6).Add(
				text.New(fmt.Sprintf("Proposal #: %s", doc.ProposalNumber), props.Text{
					Size:  8,
					Align: align.Left,
					Color: mutedColor,
				}),
			),
			col.New(6).Add(
				text.New(fmt.Sprintf("Date: %s", doc.CreatedDate), props.Text{
					Size:  8,
					Align: align.Right,
					Color: mutedColor,
				}),
			),
		),
		row.New(4),
	)
}

func addCustomerBlock(m core.Maroto, doc ProposalDocument) {
	label := props.Text{Size: 8, Style: fontstyle.Bold, Color: mutedColor}
	value := props.Text{Size: 9}

	c := doc.Customer
	cityLine := c.City
	if c.State != "" || c.Zip != "" {
		cityLine = fmt.Sprintf("%s, %s %s", c.City, c.State, c.Zip)
	}

	m.AddRows(
		row.New(5).Add(
			col.New(6).Add(text.New("PREPARED FOR", label)),
			col.New(6).Add(text.New("PROJECT", label)),
		),
		row.New(5).Add(
			col.New(6).Add(text.New(c.Name, value)),
			col.New(6).Add(text.New(projectTypeLabel(doc.ProjectType), value)),
		),
		row.New(5).Add(
			col.New(6).Add(text.New(c.Address, value)),
			col.New(6).Add(text.New(networkLabel(doc.NetworkYears), value)),
		),
		row.New(5).Add(
			col.New(6).Add(text.New(cityLine, value)),
		),
		row.New(6),
	)
}

func addScopeTable(m core.Maroto, doc ProposalDocument) {
	headerText := props.Text{Size: 8, Style: fontstyle.Bold, Align: align.Center, Color: white}
	headerLeft := headerText
	headerLeft.Align = align.Left
	headerCell := &props.Cell{BackgroundColor: brandColor}

	m.AddRows(
		row.New(8).Add(
			col.New(1).Add(text.New("#", headerText)).WithStyle(headerCell),
			col.New(6).Add(text.New("Description", headerLeft)).WithStyle(headerCell),
			col.New(1).Add(text.New("Qty", headerText)).WithStyle(headerCell),
			col.New(1).Add(text.New("Unit", headerText)).WithStyle(headerCell),
			col.New(3).Add(text.New("Price", headerText)).WithStyle(headerCell),
		),
	)

	base := props.Text{Size: 8, Align: align.Center}
	left := base
	left.Align = align.Left
	right := base
	right.Align = align.Right
	sectionText := props.Text{Size: 8, Style: fontstyle.Bold, Align: align.Left}
	sectionCell := &props.Cell{BackgroundColor: &props.Color{Red: 232, Green: 240, Blue: 236}}
	altCell := &props.Cell{BackgroundColor: &props.Color{Red: 248, Green: 249, Blue: 250}}

	section := ""
	for i, r := range doc.Rows {
		if r.Section != section {
			section = r.Section
			m.AddRows(row.New(7).Add(col.New(12).Add(text.New(section, sectionText)).WithStyle(sectionCell)))
		}
		cols := []core.Col{
			col.New(1).Add(text.New(r.Index, base)),
			col.New(6).Add(text.New(r.Description, left)),
			col.New(1).Add(text.New(formatQty(r.Qty), right)),
			col.New(1).Add(text.New(r.Unit, base)),
			col.New(3).Add(text.New(FormatUSD(r.QuotedPrice), right)),
		}
		if i%2 == 1 {
			for j := range cols {
				cols[j] = cols[j].WithStyle(altCell)
			}
		}
		m.AddRows(row.New(6).Add(cols...))
	}
	m.AddRows(row.New(6))
}

func addFinancialSummary(m core.Maroto, doc ProposalDocument) {
	summaryCell := &props.Cell{BackgroundColor: &props.Color{Red: 240, Green: 240, Blue: 240}}
	labelStyle := props.Text{Size: 9, Align: align.Right}
	valueStyle := props.Text{Size: 9, Align: align.Right}
	boldLabel := labelStyle
	boldLabel.Style = fontstyle.Bold
	boldValue := valueStyle
	boldValue.Style = fontstyle.Bold

	line := func(label, value string, bold bool) {
		l, v := labelStyle, valueStyle
		if bold {
			l, v = boldLabel, boldValue
		}
		m.AddRows(
			row.New(7).Add(
				col.New(8).Add(text.New(label, l)).WithStyle(summaryCell),
				col.New(4).Add(text.New(value, v)).WithStyle(summaryCell),
			),
		)
	}

	for _, s := range doc.Summary {
		if s.Quoted == 0 {
			continue
		}
		line(s.Label, FormatUSD(s.Quoted), false)
	}
	line("Gross Project Cost", FormatUSD(doc.GrossProjectCost), true)
	if doc.TotalIncentives > 0 {
		line("Less Utility & NYSERDA Incentives", FormatUSD(-doc.TotalIncentives), false)
	}
	line("Net Project Cost", FormatUSD(doc.NetProjectCost), true)
	m.AddRows(row.New(6))
}

func addPaymentOptions(m core.Maroto, doc ProposalDocument) {
	m.AddRows(row.New(8).Add(col.New(12).Add(text.New("Payment Options", props.Text{
		Size:  11,
		Style: fontstyle.Bold,
		Color: brandColor,
	}))))

	headerText := props.Text{Size: 8, Style: fontstyle.Bold, Align: align.Center, Color: white}
	headerCell := &props.Cell{BackgroundColor: brandColor}
	m.AddRows(
		row.New(7).Add(
			col.New(4).Add(text.New("Option", headerText)).WithStyle(headerCell),
			col.New(3).Add(text.New("You Pay", headerText)).WithStyle(headerCell),
			col.New(3).Add(text.New("You Save", headerText)).WithStyle(headerCell),
			col.New(2).Add(text.New("Revenue Share", headerText)).WithStyle(headerCell),
		),
	)

	base := props.Text{Size: 8, Align: align.Right}
	left := props.Text{Size: 8, Align: align.Left}
	for _, o := range doc.PaymentOptions {
		m.AddRows(
			row.New(6).Add(
				col.New(4).Add(text.New(o.Name, left)),
				col.New(3).Add(text.New(FormatUSD(o.CustomerPays), base)),
				col.New(3).Add(text.New(FormatUSD(o.CustomerDiscount), base)),
				col.New(2).Add(text.New(fmt.Sprintf("%.0f%%", o.RevenueShare), base)),
			),
		)
	}
}

func addProposalFooter(m core.Maroto, doc ProposalDocument) {
	m.AddRows(row.New(8))
	m.AddRows(
		row.New(6).Add(
			col.New(12).Add(
				text.New(
					fmt.Sprintf("Prepared by %s on %s. Pricing valid for 30 days.", doc.CompanyName, doc.CreatedDate),
					props.Text{
						Size:  7,
						Align: align.Left,
						Color: &props.Color{Red: 140, Green: 140, Blue: 140},
					},
				),
			),
		),
	)
}

func projectTypeLabel(t ProjectType) string {
	switch t {
	case ProjectLevel2EPC:
		return "Level 2 EPC"
	case ProjectLevel3EPC:
		return "DC Fast Charging EPC"
	case ProjectMixedEPC:
		return "Mixed Level 2 / DCFC EPC"
	case ProjectSiteHost:
		return "Site Host"
	case ProjectLevel2SiteHost:
		return "Level 2 Site Host"
	case ProjectDistribution:
		return "Equipment Distribution"
	}
	return string(t)
}

func networkLabel(years int) string {
	if years == 0 {
		return "No network plan"
	}
	return fmt.Sprintf("%d-year network plan", years)
}

// formatQty returns a string representation of the quantity value.
// Whole numbers are formatted without decimals; fractional values get 2 decimal places.
func formatQty(qty float64) string {
	if qty == math.Trunc(qty) {
		return fmt.Sprintf("%.0f", qty)
	}
	return fmt.Sprintf("%.2f", qty)
}
