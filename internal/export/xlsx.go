// Package export writes housing listings to spreadsheet files.
package export

import (
	"fmt"
	"io"

	"campusnest/internal/dto"
	"campusnest/internal/rating"

	"github.com/xuri/excelize/v2"
)

const SheetName = "Housing"

var Headers = []string{
	"Name", "Address", "City", "State", "Zip Code", "On Campus",
	"Reviews", "Average Rating (/10)", "Stars (/5)", "Average Rent",
}

var columnWidths = []float64{28, 32, 18, 8, 12, 11, 10, 20, 12, 14}

// WriteHousingXLSX writes rows to w as a single-sheet workbook with a frozen
// header row. Housing without reviews gets empty rating cells.
func WriteHousingXLSX(w io.Writer, rows []dto.HousingSummary) error {
	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(SheetName)
	if err != nil {
		return fmt.Errorf("create sheet: %w", err)
	}
	f.SetActiveSheet(index)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return fmt.Errorf("delete default sheet: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#DC4405"}, Pattern: 1},
		Alignment: &excelize.Alignment{
			Horizontal: "center",
			Vertical:   "center",
		},
	})
	if err != nil {
		return fmt.Errorf("header style: %w", err)
	}

	for col, header := range Headers {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(SheetName, cell, header); err != nil {
			return fmt.Errorf("header %s: %w", cell, err)
		}
		if err := f.SetCellStyle(SheetName, cell, cell, headerStyle); err != nil {
			return fmt.Errorf("header style %s: %w", cell, err)
		}
		name, err := excelize.ColumnNumberToName(col + 1)
		if err != nil {
			return err
		}
		if err := f.SetColWidth(SheetName, name, name, columnWidths[col]); err != nil {
			return fmt.Errorf("column width: %w", err)
		}
	}

	for i, h := range rows {
		row := i + 2
		values := []any{
			h.Name, h.Address, h.City, h.State, h.ZipCode, yesNo(h.IsOnCampus), h.ReviewCount,
		}
		if h.ReviewCount > 0 {
			values = append(values, h.AverageRating, rating.Stars(h.AverageRating))
		} else {
			values = append(values, nil, nil)
		}
		if h.AverageRent != nil {
			values = append(values, *h.AverageRent)
		} else {
			values = append(values, nil)
		}

		for col, v := range values {
			if v == nil {
				continue
			}
			cell, err := excelize.CoordinatesToCellName(col+1, row)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(SheetName, cell, v); err != nil {
				return fmt.Errorf("row %d col %d: %w", row, col+1, err)
			}
		}
	}

	if err := f.SetPanes(SheetName, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	}); err != nil {
		return fmt.Errorf("freeze header: %w", err)
	}

	_, err = f.WriteTo(w)
	return err
}

func yesNo(b bool) string {
	if b {
		return "Yes"
	}
	return "No"
}
