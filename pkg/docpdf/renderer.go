// Package docpdf lays out estimates and invoices as PDF bytes with
// maroto. It only consumes a built line-item list; it never reads the
// database.
package docpdf

import (
	"fmt"
	"strings"
	"time"

	"github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/props"

	"github.com/jcconstruction/tracker/pkg/billing"
)

// Company identifies the issuing business on the document header.
type Company struct {
	Name    string
	Address string
	Phone   string
	Email   string
}

// Document carries everything the layout needs for one estimate or
// invoice.
type Document struct {
	Type          string
	Number        string
	Date          time.Time
	JobName       string
	ClientName    string
	ClientAddress string
	Items         []billing.LineItem
	Totals        billing.Totals
	Notes         string
	Terms         string
}

// Render produces the PDF bytes for one document.
func Render(doc Document, company Company) ([]byte, error) {
	cfg := config.NewBuilder().
		WithLeftMargin(15).
		WithTopMargin(15).
		WithRightMargin(15).
		Build()
	m := maroto.New(cfg)

	m.AddRow(10,
		text.NewCol(8, company.Name, props.Text{Size: 16, Style: fontstyle.Bold}),
		text.NewCol(4, strings.ToUpper(doc.Type), props.Text{Size: 16, Style: fontstyle.Bold, Align: align.Right}),
	)
	m.AddRow(5,
		text.NewCol(8, company.Address, props.Text{Size: 9}),
		text.NewCol(4, doc.Number, props.Text{Size: 10, Align: align.Right}),
	)
	m.AddRow(5,
		text.NewCol(8, fmt.Sprintf("%s  |  %s", company.Phone, company.Email), props.Text{Size: 9}),
		text.NewCol(4, doc.Date.Format("January 2, 2006"), props.Text{Size: 9, Align: align.Right}),
	)
	m.AddRow(6, line.NewCol(12))

	m.AddRow(6, text.NewCol(12, "Bill To:", props.Text{Size: 10, Style: fontstyle.Bold}))
	m.AddRow(5, text.NewCol(12, doc.ClientName, props.Text{Size: 10}))
	if doc.ClientAddress != "" {
		m.AddRow(5, text.NewCol(12, doc.ClientAddress, props.Text{Size: 9}))
	}
	m.AddRow(5, text.NewCol(12, fmt.Sprintf("Job: %s", doc.JobName), props.Text{Size: 9}))
	m.AddRow(4, col.New(12))

	headerProps := props.Text{Size: 9, Style: fontstyle.Bold}
	m.AddRow(7,
		text.NewCol(6, "Description", headerProps),
		text.NewCol(2, "Qty", props.Text{Size: 9, Style: fontstyle.Bold, Align: align.Right}),
		text.NewCol(2, "Unit Price", props.Text{Size: 9, Style: fontstyle.Bold, Align: align.Right}),
		text.NewCol(2, "Total", props.Text{Size: 9, Style: fontstyle.Bold, Align: align.Right}),
	)
	m.AddRow(2, line.NewCol(12))

	for _, it := range doc.Items {
		if strings.TrimSpace(it.Description) == "" {
			continue
		}
		m.AddRow(6,
			text.NewCol(6, it.Description, props.Text{Size: 9}),
			text.NewCol(2, fmt.Sprintf("%.2f", it.Quantity), props.Text{Size: 9, Align: align.Right}),
			text.NewCol(2, money(it.UnitPrice), props.Text{Size: 9, Align: align.Right}),
			text.NewCol(2, money(it.Total), props.Text{Size: 9, Align: align.Right}),
		)
	}

	m.AddRow(4, line.NewCol(12))
	m.AddRow(6,
		text.NewCol(10, "Subtotal", props.Text{Size: 9, Align: align.Right}),
		text.NewCol(2, money(doc.Totals.Subtotal), props.Text{Size: 9, Align: align.Right}),
	)
	m.AddRow(6,
		text.NewCol(10, fmt.Sprintf("Tax (%.2f%%)", doc.Totals.TaxRate), props.Text{Size: 9, Align: align.Right}),
		text.NewCol(2, money(doc.Totals.TaxAmount), props.Text{Size: 9, Align: align.Right}),
	)
	m.AddRow(7,
		text.NewCol(10, "Grand Total", props.Text{Size: 10, Style: fontstyle.Bold, Align: align.Right}),
		text.NewCol(2, money(doc.Totals.GrandTotal), props.Text{Size: 10, Style: fontstyle.Bold, Align: align.Right}),
	)

	if doc.Notes != "" {
		m.AddRow(8, text.NewCol(12, "Notes", props.Text{Size: 9, Style: fontstyle.Bold}))
		m.AddRow(6, text.NewCol(12, doc.Notes, props.Text{Size: 9}))
	}
	if doc.Terms != "" {
		m.AddRow(8, text.NewCol(12, "Terms", props.Text{Size: 9, Style: fontstyle.Bold}))
		m.AddRow(6, text.NewCol(12, doc.Terms, props.Text{Size: 9}))
	}

	rendered, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("render %s %s: %w", doc.Type, doc.Number, err)
	}
	return rendered.GetBytes(), nil
}

func money(v float64) string {
	if v < 0 {
		return fmt.Sprintf("-$%.2f", -v)
	}
	return fmt.Sprintf("$%.2f", v)
}
