// Package report renders the reconciled month as a table for the terminal
// and as a CSV file for downstream spreadsheets.
package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/olekukonko/tablewriter"

	"github.com/dvloznov/stripe-recon/internal/recon"
)

var columns = []string{"Product", "Revenue", "Adjusted Fee", "Adjusted Revenue", "Email", "Rate(%)", "Net Payout"}

// MonthWindow returns the half-open interval [first day of the month, first
// day of the next month) in UTC.
func MonthWindow(year, month int) (time.Time, time.Time) {
	from := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	return from, from.AddDate(0, 1, 0)
}

// Filename returns the CSV file name for a reporting month.
func Filename(year, month int) string {
	return fmt.Sprintf("revenue-%04d-%02d.csv", year, month)
}

// rows flattens the allocation into display rows plus the Total row.
// Monetary cells are converted from minor units to major units.
func rows(alloc recon.Allocation) [][]string {
	var out [][]string
	var totalRevenue, totalFee, totalAdjusted, totalPayout float64

	for _, p := range alloc.Products {
		revenue := float64(p.Revenue) / 100
		fee := p.AdjustedFee / 100
		adjusted := p.AdjustedRevenue / 100
		payout := p.NetPayout / 100

		totalRevenue += revenue
		totalFee += fee
		totalAdjusted += adjusted
		totalPayout += payout

		out = append(out, []string{
			p.Name,
			fmt.Sprintf("%.2f", revenue),
			fmt.Sprintf("%.2f", fee),
			fmt.Sprintf("%.2f", adjusted),
			p.Email,
			fmt.Sprintf("%.1f", p.Rate*100),
			fmt.Sprintf("%.2f", payout),
		})
	}

	out = append(out, []string{
		"Total",
		fmt.Sprintf("%.2f", totalRevenue),
		fmt.Sprintf("%.2f", totalFee),
		fmt.Sprintf("%.2f", totalAdjusted),
		"-",
		"-",
		fmt.Sprintf("%.2f", totalPayout),
	})
	return out
}

// Render writes the report table to w.
func Render(w io.Writer, alloc recon.Allocation) {
	table := tablewriter.NewWriter(w)
	table.SetHeader(columns)
	for _, row := range rows(alloc) {
		table.Append(row)
	}
	table.Render()
}

// WriteCSV writes the report into dir under the month's file name and
// returns the full path.
func WriteCSV(dir string, year, month int, alloc recon.Allocation) (string, error) {
	path := filepath.Join(dir, Filename(year, month))

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create report file: %w", err)
	}
	defer f.Close()

	if err := writeCSVTo(f, alloc); err != nil {
		return "", fmt.Errorf("write report %s: %w", path, err)
	}
	return path, nil
}

func writeCSVTo(w io.Writer, alloc recon.Allocation) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(columns); err != nil {
		return err
	}
	for _, row := range rows(alloc) {
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
