// Package export renders lead listings as fixed-column tabular files.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/thelocaljewel/backend/internal/entity"
)

// Columns is the stable export column order. Missing fields render empty; the
// header row is always present.
var Columns = []string{
	"lead_id", "first_name", "phone", "email", "product_type",
	"diamond_shape", "carat_range", "priority", "metal", "budget",
	"status", "created_at", "notes",
}

func row(lead *entity.Lead) []string {
	return []string{
		lead.LeadID,
		lead.FirstName,
		lead.Phone,
		lead.Email,
		lead.ProductType,
		lead.DiamondShape,
		lead.CaratRange,
		lead.Priority,
		lead.Metal,
		lead.Budget,
		string(lead.Status),
		lead.CreatedAt.UTC().Format(time.RFC3339),
		lead.Notes,
	}
}

// WriteCSV streams the leads, header first, in the order given.
func WriteCSV(w io.Writer, leads []entity.Lead) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Columns); err != nil {
		return err
	}
	for i := range leads {
		if err := cw.Write(row(&leads[i])); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteXLSX renders the same table as a single-sheet workbook.
func WriteXLSX(w io.Writer, leads []entity.Lead) error {
	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Leads"
	index, err := f.NewSheet(sheet)
	if err != nil {
		return err
	}
	f.SetActiveSheet(index)
	f.DeleteSheet("Sheet1")

	writeRow := func(rowNum int, values []string) error {
		cell, err := excelize.CoordinatesToCellName(1, rowNum)
		if err != nil {
			return err
		}
		return f.SetSheetRow(sheet, cell, &values)
	}

	if err := writeRow(1, Columns); err != nil {
		return err
	}
	for i := range leads {
		if err := writeRow(i+2, row(&leads[i])); err != nil {
			return err
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}
