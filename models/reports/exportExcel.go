package reports

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"bitbucket.org/ebfdigital/manager_backend/models"
)

// ExportStatsExcel writes the given daily stats as an xlsx workbook. The
// caller has already filtered the rows to the requested site and period.
func ExportStatsExcel(stats []*models.DailyStat, w io.Writer) error {

	f := excelize.NewFile()
	sheetName := "Sheet1"
	_, err := f.NewSheet(sheetName)
	if err != nil {
		return err
	}

	// Add headers
	f.SetCellValue(sheetName, "A1", "Date")
	f.SetCellValue(sheetName, "B1", "Site")
	f.SetCellValue(sheetName, "C1", "Revenus")
	f.SetCellValue(sheetName, "D1", "Depenses")
	f.SetCellValue(sheetName, "E1", "Benefice")
	f.SetCellValue(sheetName, "F1", "Interventions")

	// Add data
	for i, d := range stats {
		row := fmt.Sprint(i + 2)
		site := string(d.Site)
		if site == "" {
			site = "Global"
		}
		f.SetCellValue(sheetName, "A"+row, d.Date)
		f.SetCellValue(sheetName, "B"+row, site)
		f.SetCellValue(sheetName, "C"+row, d.Revenue.InexactFloat64())
		f.SetCellValue(sheetName, "D"+row, d.Expenses.InexactFloat64())
		f.SetCellValue(sheetName, "E"+row, d.Profit.InexactFloat64())
		f.SetCellValue(sheetName, "F"+row, d.Interventions)
	}

	return f.Write(w)
}
