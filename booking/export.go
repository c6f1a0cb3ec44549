package booking

import (
	"fmt"

	"github.com/xuri/excelize/v2"
)

// buildReservationsFile renders the hotel's reservations as a spreadsheet
// for front-desk staff.
func buildReservationsFile(rows []ReservationSummary) (*excelize.File, error) {
	f := excelize.NewFile()
	sheet := "Reservations"
	index, err := f.NewSheet(sheet)
	if err != nil {
		return nil, err
	}
	f.SetActiveSheet(index)
	f.DeleteSheet("Sheet1")

	headers := []string{
		"Confirmation", "Room", "ClientEmail", "FirstName", "LastName",
		"StartDate", "EndDate",
	}
	for i, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheet, cell, header)
	}

	for i, row := range rows {
		f.SetCellValue(sheet, fmt.Sprintf("A%d", i+2), row.Confirmation)
		f.SetCellValue(sheet, fmt.Sprintf("B%d", i+2), row.RoomID)
		f.SetCellValue(sheet, fmt.Sprintf("C%d", i+2), row.ClientEmail)
		f.SetCellValue(sheet, fmt.Sprintf("D%d", i+2), row.FirstName)
		f.SetCellValue(sheet, fmt.Sprintf("E%d", i+2), row.LastName)
		f.SetCellValue(sheet, fmt.Sprintf("F%d", i+2), row.StartDate.Format("2006-01-02"))
		f.SetCellValue(sheet, fmt.Sprintf("G%d", i+2), row.EndDate.Format("2006-01-02"))
	}

	return f, nil
}
