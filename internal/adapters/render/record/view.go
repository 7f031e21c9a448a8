// Package record renders contract and invoice detail records, the terminal
// counterpart of the CRM's detail side-panels.
package record

import (
	"fmt"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/clubstack/crm-cli/internal/domain"
)

type styles struct {
	title  lipgloss.Style
	label  lipgloss.Style
	value  lipgloss.Style
	status lipgloss.Style
	muted  lipgloss.Style
}

func newStyles() styles {
	return styles{
		title:  lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39")),
		label:  lipgloss.NewStyle().Foreground(lipgloss.Color("250")).Width(10),
		value:  lipgloss.NewStyle().Foreground(lipgloss.Color("252")),
		status: lipgloss.NewStyle().Bold(true),
		muted:  lipgloss.NewStyle().Faint(true),
	}
}

func RenderContract(contract domain.Contract) string {
	s := newStyles()

	lines := []string{
		s.title.Render(fmt.Sprintf("Contract %s", contract.ID)),
		row(s, "title", contract.Title),
		row(s, "client", contract.ClientName),
		row(s, "value", money(contract.Value, contract.Currency)),
		row(s, "period", formatDate(contract.StartDate)+" to "+formatDate(contract.EndDate)),
		row(s, "status", s.status.Render(contract.Status)),
	}
	if contract.Notes != "" {
		lines = append(lines, row(s, "notes", s.muted.Render(contract.Notes)))
	}

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func RenderInvoice(invoice domain.Invoice) string {
	s := newStyles()

	paid := "unpaid"
	if invoice.PaidAt != nil {
		paid = "paid on " + formatDate(*invoice.PaidAt)
	}

	lines := []string{
		s.title.Render(fmt.Sprintf("Invoice %s", invoice.Number)),
		row(s, "client", invoice.ClientName),
		row(s, "amount", money(invoice.Amount, invoice.Currency)),
		row(s, "issued", formatDate(invoice.IssuedAt)),
		row(s, "due", formatDate(invoice.DueAt)),
		row(s, "status", s.status.Render(invoice.Status)),
		row(s, "payment", paid),
	}

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func row(s styles, label, value string) string {
	return lipgloss.JoinHorizontal(lipgloss.Top, s.label.Render(label), s.value.Render(value))
}

func money(amount float64, currency string) string {
	if currency == "" {
		return fmt.Sprintf("%.2f", amount)
	}
	return fmt.Sprintf("%.2f %s", amount, currency)
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return "n/a"
	}
	return t.Format("2006-01-02")
}
