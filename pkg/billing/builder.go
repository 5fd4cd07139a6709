// Package billing assembles the line items and totals for an estimate or
// invoice. Like the finance package it is pure: the caller passes table
// snapshots in and persists the result itself.
package billing

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/jcconstruction/tracker/models"
)

// Line item sources. Auto items are recomputed from live data on every
// build; only manual items are user-editable.
const (
	SourceAuto   = "auto"
	SourceManual = "manual"
)

// DefaultHourlyRate is applied to per-contractor detail items when no
// explicit rate is configured.
const DefaultHourlyRate = 50.0

var (
	ErrNoJob       = errors.New("no job selected")
	ErrNoLineItems = errors.New("at least one line item with a description is required")
)

// LineItem is one billable row on a generated document. Down-payment
// credits carry a negative total.
type LineItem struct {
	Description string  `json:"description"`
	Quantity    float64 `json:"quantity"`
	UnitPrice   float64 `json:"unitPrice"`
	Total       float64 `json:"total"`
	Source      string  `json:"source"`
}

// Options toggles each automatic line-item rule independently.
type Options struct {
	IncludeEstimatedMaterialCost bool `json:"includeEstimatedMaterialCost"`
	IncludeEstimatedTime         bool `json:"includeEstimatedTime"`
	IncludeActualTime            bool `json:"includeActualTime"`
	IncludeActualMaterialCost    bool `json:"includeActualMaterialCost"`
	IncludeTimeDetail            bool `json:"includeTimeDetail"`
	IncludeMaterialDetail        bool `json:"includeMaterialDetail"`
	IncludeDownPayments          bool `json:"includeDownPayments"`
}

// Rates configures the billing rates for time-based automatic items.
// Zero values fall back to DefaultHourlyRate.
type Rates struct {
	EstimatedTime float64 `json:"estimatedTime"`
	ActualTime    float64 `json:"actualTime"`
	TimeDetail    float64 `json:"timeDetail"`
}

func (r Rates) estimatedTime() float64 { return orDefault(r.EstimatedTime) }
func (r Rates) actualTime() float64    { return orDefault(r.ActualTime) }
func (r Rates) timeDetail() float64    { return orDefault(r.TimeDetail) }

func orDefault(rate float64) float64 {
	if rate == 0 {
		return DefaultHourlyRate
	}
	return rate
}

// Build assembles the ordered line-item list: automatic items first, in
// the fixed rule order, then manual items in the order the user entered
// them. Manual totals are recomputed as quantity times unit price.
func Build(job *models.Job, opts Options, rates Rates, entries []models.TimeEntry, materials []models.MaterialUsage, receipts []models.Receipt, downPayments []models.DownPayment, manual []LineItem) ([]LineItem, error) {
	if job == nil {
		return nil, ErrNoJob
	}

	var items []LineItem
	add := func(desc string, qty, price, total float64) {
		items = append(items, LineItem{Description: desc, Quantity: qty, UnitPrice: price, Total: total, Source: SourceAuto})
	}

	if opts.IncludeEstimatedMaterialCost {
		add("Job Estimated Material Cost", 1, job.EstimatedMaterialCost, job.EstimatedMaterialCost)
	}
	if opts.IncludeEstimatedTime {
		rate := rates.estimatedTime()
		add(fmt.Sprintf("Job Estimated Time (%s)", job.Name), job.EstimatedHours, rate, job.EstimatedHours*rate)
	}
	if opts.IncludeActualTime {
		rate := rates.actualTime()
		var hours float64
		for _, e := range entries {
			if e.JobID == job.ID {
				hours += e.DurationHours
			}
		}
		add(fmt.Sprintf("Job Total Actual Time (%s)", job.Name), hours, rate, hours*rate)
	}
	if opts.IncludeActualMaterialCost {
		var cost float64
		for _, m := range materials {
			if m.JobID == job.ID {
				cost += m.Amount
			}
		}
		for _, r := range receipts {
			if r.JobID == job.ID {
				cost += r.Amount
			}
		}
		add("Job Total Actual Material Cost", 1, cost, cost)
	}
	if opts.IncludeTimeDetail {
		rate := rates.timeDetail()
		hours := make(map[string]float64)
		var order []string
		for _, e := range entries {
			if e.JobID != job.ID {
				continue
			}
			if _, seen := hours[e.Contractor]; !seen {
				order = append(order, e.Contractor)
			}
			hours[e.Contractor] += e.DurationHours
		}
		for _, c := range order {
			add(fmt.Sprintf("Labor: %s", c), hours[c], rate, hours[c]*rate)
		}
	}
	if opts.IncludeMaterialDetail {
		totals := make(map[string]float64)
		var order []string
		for _, m := range materials {
			if m.JobID != job.ID {
				continue
			}
			if _, seen := totals[m.Material]; !seen {
				order = append(order, m.Material)
			}
			totals[m.Material] += m.Amount
		}
		for _, name := range order {
			add(fmt.Sprintf("Material: %s", name), 1, totals[name], totals[name])
		}
	}
	if opts.IncludeDownPayments {
		for _, d := range downPayments {
			if d.JobID != job.ID {
				continue
			}
			desc := fmt.Sprintf("Down Payment Received %s (ref %s)", d.DateReceived.Time().Format("2006-01-02"), shortRef(d.ID.String()))
			add(desc, 1, -d.Amount, -d.Amount)
		}
	}

	for _, m := range manual {
		items = append(items, LineItem{
			Description: m.Description,
			Quantity:    m.Quantity,
			UnitPrice:   m.UnitPrice,
			Total:       m.Quantity * m.UnitPrice,
			Source:      SourceManual,
		})
	}
	return items, nil
}

// Totals are the money summary over a line-item list.
type Totals struct {
	Subtotal   float64 `json:"subtotal"`
	TaxRate    float64 `json:"taxRate"`
	TaxAmount  float64 `json:"taxAmount"`
	GrandTotal float64 `json:"grandTotal"`
}

// ComputeTotals sums items with a non-blank description (down-payment
// credits net against positive rows), applies the tax rate uniformly as a
// percentage, and rounds money values to two decimals.
func ComputeTotals(items []LineItem, taxRate float64) Totals {
	var subtotal float64
	for _, it := range items {
		if strings.TrimSpace(it.Description) == "" {
			continue
		}
		subtotal += it.Total
	}
	subtotal = round2(subtotal)
	tax := round2(subtotal * taxRate / 100)
	return Totals{
		Subtotal:   subtotal,
		TaxRate:    taxRate,
		TaxAmount:  tax,
		GrandTotal: round2(subtotal + tax),
	}
}

// Validate refuses generation unless at least one item carries a
// description.
func Validate(items []LineItem) error {
	for _, it := range items {
		if strings.TrimSpace(it.Description) != "" {
			return nil
		}
	}
	return ErrNoLineItems
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func shortRef(id string) string {
	id = strings.ReplaceAll(id, "-", "")
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
