package report

import (
	"fmt"

	"github.com/diskominfo-klu/absensi-backend-go/internal/domain/report"
	"github.com/xuri/excelize/v2"
)

const (
	XLSXContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	MonthlySheet    = "Rekap Bulanan"
)

var monthlyHeader = []interface{}{
	"ID Pegawai",
	"Nama",
	"Departemen",
	"Jabatan",
	"Total Hari Kerja",
	"Hadir",
	"Terlambat",
	"Tidak Hadir",
	"Persentase Hadir",
	"Persentase Terlambat",
	"Persentase Tidak Hadir",
}

// WriteMonthlyWorkbook renders one row per employee plus an averages row.
func WriteMonthlyWorkbook(monthly report.MonthlyReport) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", MonthlySheet); err != nil {
		return nil, err
	}

	if err := f.SetSheetRow(MonthlySheet, "A1", &monthlyHeader); err != nil {
		return nil, err
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"#DDEBF7"}},
	})
	if err != nil {
		return nil, err
	}
	lastCol, _ := excelize.ColumnNumberToName(len(monthlyHeader))
	if err := f.SetCellStyle(MonthlySheet, "A1", lastCol+"1", headerStyle); err != nil {
		return nil, err
	}

	for i, s := range monthly.Employees {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		row := []interface{}{
			s.EmployeeID,
			s.Name,
			s.Department,
			s.Position,
			s.TotalWorkingDays,
			s.PresentDays,
			s.LateDays,
			s.AbsentDays,
			fmt.Sprintf("%d%%", s.PresentPercentage),
			fmt.Sprintf("%d%%", s.LatePercentage),
			fmt.Sprintf("%d%%", s.AbsentPercentage),
		}
		if err := f.SetSheetRow(MonthlySheet, cell, &row); err != nil {
			return nil, err
		}
	}

	avgCell, err := excelize.CoordinatesToCellName(1, len(monthly.Employees)+3)
	if err != nil {
		return nil, err
	}
	avg := []interface{}{
		"Rata-rata", "", "", "", monthly.TotalWorkingDays, "", "", "",
		fmt.Sprintf("%.1f%%", monthly.Averages.PresentPercentage),
		fmt.Sprintf("%.1f%%", monthly.Averages.LatePercentage),
		fmt.Sprintf("%.1f%%", monthly.Averages.AbsentPercentage),
	}
	if err := f.SetSheetRow(MonthlySheet, avgCell, &avg); err != nil {
		return nil, err
	}

	if err := f.SetColWidth(MonthlySheet, "A", lastCol, 18); err != nil {
		return nil, err
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
