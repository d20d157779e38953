package reports

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"time"

	"github.com/jung-kurt/gofpdf"
)

type Service struct {
	Store *Store
}

func NewService(store *Store) *Service {
	return &Service{Store: store}
}

func (s *Service) Headcount(ctx context.Context) ([]HeadcountRow, error) {
	return s.Store.Headcount(ctx)
}

func (s *Service) LeaveBalanceSummary(ctx context.Context) ([]BalanceSummaryRow, error) {
	return s.Store.LeaveBalanceSummary(ctx)
}

func (s *Service) ComplianceStatusCounts(ctx context.Context) ([]ComplianceStatusRow, error) {
	return s.Store.ComplianceStatusCounts(ctx)
}

// AttendanceCSV renders an employee's attendance for the range as CSV.
func (s *Service) AttendanceCSV(ctx context.Context, employeeID string, from, to time.Time) ([]byte, error) {
	rows, err := s.Store.AttendanceRows(ctx, employeeID, from, to)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write([]string{"Employee", "Date", "Clock In", "Clock Out", "Hours"}); err != nil {
		return nil, err
	}
	for _, r := range rows {
		out := ""
		if r.ClockOut != nil {
			out = r.ClockOut.Format("15:04")
		}
		record := []string{
			r.EmployeeName,
			r.Date.Format("2006-01-02"),
			r.ClockIn.Format("15:04"),
			out,
			fmt.Sprintf("%.2f", r.Hours),
		}
		if err := w.Write(record); err != nil {
			return nil, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// CompliancePDF renders the expiring-items report as a PDF.
func (s *Service) CompliancePDF(ctx context.Context, horizonDays int) ([]byte, error) {
	if horizonDays <= 0 {
		horizonDays = 90
	}
	within := time.Now().UTC().AddDate(0, 0, horizonDays)
	items, err := s.Store.ExpiringItems(ctx, within)
	if err != nil {
		return nil, err
	}
	counts, err := s.Store.ComplianceStatusCounts(ctx)
	if err != nil {
		return nil, err
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Compliance Expiration Report", false)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(0, 10, "Compliance Expiration Report")
	pdf.Ln(8)
	pdf.SetFont("Helvetica", "", 10)
	pdf.Cell(0, 8, fmt.Sprintf("Generated %s, horizon %d days",
		time.Now().UTC().Format("2006-01-02"), horizonDays))
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 8, "Status overview")
	pdf.Ln(8)
	pdf.SetFont("Helvetica", "", 10)
	for _, c := range counts {
		pdf.Cell(60, 6, c.Status)
		pdf.Cell(30, 6, fmt.Sprintf("%d", c.Count))
		pdf.Ln(6)
	}
	pdf.Ln(6)

	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 8, "Items expiring within the horizon")
	pdf.Ln(8)

	pdf.SetFont("Helvetica", "B", 9)
	widths := []float64{45, 35, 50, 25, 35}
	headers := []string{"Employee", "Department", "Item", "Kind", "Expires"}
	for i, h := range headers {
		pdf.CellFormat(widths[i], 7, h, "1", 0, "L", false, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Helvetica", "", 9)
	for _, it := range items {
		cols := []string{
			it.EmployeeName,
			it.Department,
			it.ItemName,
			it.Kind,
			it.ExpirationDate.Format("2006-01-02"),
		}
		for i, c := range cols {
			pdf.CellFormat(widths[i], 6, c, "1", 0, "L", false, 0, "")
		}
		pdf.Ln(-1)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
