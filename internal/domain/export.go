package domain

import (
	"fmt"
	"strings"
	"time"
)

type ExportFormat string

const (
	ExportFormatPDF ExportFormat = "pdf"
	ExportFormatCSV ExportFormat = "csv"
)

func ParseExportFormat(value string) (ExportFormat, error) {
	switch ExportFormat(strings.ToLower(strings.TrimSpace(value))) {
	case ExportFormatPDF:
		return ExportFormatPDF, nil
	case ExportFormatCSV:
		return ExportFormatCSV, nil
	default:
		return "", fmt.Errorf("%w: %q (want pdf or csv)", ErrUnsupportedFormat, value)
	}
}

// Module is one of the ten numbered CRM pipeline stages selectable for export.
type Module int

const (
	ModuleLeads Module = iota + 1
	ModuleOpportunities
	ModuleQuotes
	ModuleContracts
	ModuleInvoices
	ModulePayments
	ModuleSponsorships
	ModuleTicketing
	ModuleHospitality
	ModuleMerchandising
)

var moduleNames = map[Module]string{
	ModuleLeads:         "Leads",
	ModuleOpportunities: "Opportunities",
	ModuleQuotes:        "Quotes",
	ModuleContracts:     "Contracts",
	ModuleInvoices:      "Invoices",
	ModulePayments:      "Payments",
	ModuleSponsorships:  "Sponsorships",
	ModuleTicketing:     "Ticketing",
	ModuleHospitality:   "Hospitality",
	ModuleMerchandising: "Merchandising",
}

func (m Module) Valid() bool {
	_, ok := moduleNames[m]
	return ok
}

func (m Module) DisplayName() string {
	if name, ok := moduleNames[m]; ok {
		return name
	}
	return fmt.Sprintf("Module %d", int(m))
}

func ParseModule(id int) (Module, error) {
	m := Module(id)
	if !m.Valid() {
		return 0, fmt.Errorf("%w: %d (want 1..10)", ErrUnknownModule, id)
	}
	return m, nil
}

// Modules lists all pipeline stages in selection order.
func Modules() []Module {
	modules := make([]Module, 0, len(moduleNames))
	for m := ModuleLeads; m <= ModuleMerchandising; m++ {
		modules = append(modules, m)
	}
	return modules
}

type ExportRequest struct {
	Module Module
	Start  time.Time
	End    time.Time
	Format ExportFormat
}

func (r ExportRequest) Validate() error {
	if r.Module == 0 {
		return ErrNoModuleSelected
	}
	if !r.Module.Valid() {
		return fmt.Errorf("%w: %d (want 1..10)", ErrUnknownModule, int(r.Module))
	}
	if r.Format != ExportFormatPDF && r.Format != ExportFormatCSV {
		return fmt.Errorf("%w: %q (want pdf or csv)", ErrUnsupportedFormat, r.Format)
	}
	if r.End.Before(r.Start) {
		return fmt.Errorf("%w: %s is after %s", ErrInvalidDateRange,
			r.Start.Format("2006-01-02"), r.End.Format("2006-01-02"))
	}
	return nil
}

// Normalized snaps the range to day boundaries in the dates' locations:
// start at 00:00:00.000, end at 23:59:59.999.
func (r ExportRequest) Normalized() ExportRequest {
	start := r.Start
	end := r.End
	r.Start = time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, start.Location())
	r.End = time.Date(end.Year(), end.Month(), end.Day(), 23, 59, 59, 999_000_000, end.Location())
	return r
}

// ExportRow is one exported record. Row shape is module-dependent and opaque
// to the pipeline.
type ExportRow map[string]any
