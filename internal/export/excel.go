// Package export renders the booking list as an Excel workbook for
// front-of-house staff.
package export

import (
	"fmt"
	"io"
	"time"

	"github.com/xuri/excelize/v2"

	"littlelemon/internal/models"
)

const sheetName = "Bookings"

var columns = []string{"ID", "Date", "Time", "Name", "Phone", "Email", "Party size", "Notes", "Created at"}

// WriteBookings writes the bookings as a single-sheet .xlsx document.
func WriteBookings(w io.Writer, bookings []models.Booking) error {
	file := excelize.NewFile()
	defer file.Close()

	file.SetSheetName("Sheet1", sheetName)

	if err := writeRow(file, 1, columns); err != nil {
		return err
	}

	for i, b := range bookings {
		row := []string{
			b.ID,
			b.Date,
			b.Time,
			b.Name,
			b.Phone,
			b.Email,
			fmt.Sprintf("%d", b.PartySize),
			b.Notes,
			b.CreatedAt.Format(time.RFC3339),
		}
		if err := writeRow(file, i+2, row); err != nil {
			return err
		}
	}

	if err := file.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

func writeRow(file *excelize.File, row int, values []string) error {
	for i, value := range values {
		cell, err := excelize.CoordinatesToCellName(i+1, row)
		if err != nil {
			return err
		}
		if err := file.SetCellValue(sheetName, cell, value); err != nil {
			return fmt.Errorf("set cell %s: %w", cell, err)
		}
	}
	return nil
}
