package export

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/suchimauz/hospital-schedule-viewer/internal/core/domain"
	"github.com/xuri/excelize/v2"
)

const xlsxSheetName = "Schedule"

// XLSXExporter выгружает неделю в таблицу: строки — часовые ячейки, столбцы — дни
type XLSXExporter struct{}

func NewXLSXExporter() *XLSXExporter {
	return &XLSXExporter{}
}

func (e *XLSXExporter) ContentType() string {
	return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
}

func (e *XLSXExporter) FileExtension() string {
	return "xlsx"
}

func (e *XLSXExporter) ExportWeek(week domain.WeekSchedule, doctor domain.Doctor) ([]byte, error) {
	if week.Error != "" {
		return nil, fmt.Errorf("export.xlsx.week_failed: %s", week.Error)
	}

	f := excelize.NewFile()
	defer f.Close()

	idx, err := f.NewSheet(xlsxSheetName)
	if err != nil {
		return nil, fmt.Errorf("export.xlsx.sheet_failed: %w", err)
	}
	f.SetActiveSheet(idx)
	// Удаляем лист по умолчанию
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, fmt.Errorf("export.xlsx.sheet_failed: %w", err)
	}

	// Последний столбец таблицы; при пустой неделе только столбец времени
	lastCol, err := colName(len(week.Days))
	if err != nil {
		return nil, fmt.Errorf("export.xlsx.column_failed: %w", err)
	}

	if err := f.SetColWidth(xlsxSheetName, "A", "A", 14); err != nil {
		return nil, fmt.Errorf("export.xlsx.column_failed: %w", err)
	}
	if len(week.Days) > 0 {
		if err := f.SetColWidth(xlsxSheetName, "B", lastCol, 28); err != nil {
			return nil, fmt.Errorf("export.xlsx.column_failed: %w", err)
		}
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#DCE6F1"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		return nil, fmt.Errorf("export.xlsx.style_failed: %w", err)
	}
	cellStyle, err := f.NewStyle(&excelize.Style{
		Alignment: &excelize.Alignment{Vertical: "top", WrapText: true},
	})
	if err != nil {
		return nil, fmt.Errorf("export.xlsx.style_failed: %w", err)
	}

	// Заголовок
	title := fmt.Sprintf("%s (%s), %s", doctor.Name, doctor.Specialty, week.Label)
	if err := f.SetCellValue(xlsxSheetName, "A1", title); err != nil {
		return nil, fmt.Errorf("export.xlsx.cell_failed: %w", err)
	}
	if len(week.Days) > 0 {
		if err := f.MergeCell(xlsxSheetName, "A1", cell(lastCol, 1)); err != nil {
			return nil, fmt.Errorf("export.xlsx.merge_failed: %w", err)
		}
	}

	// Шапка: время и дни недели
	if err := f.SetCellValue(xlsxSheetName, "A2", "Time"); err != nil {
		return nil, fmt.Errorf("export.xlsx.cell_failed: %w", err)
	}
	for i, day := range week.Days {
		col, err := colName(i + 1)
		if err != nil {
			return nil, fmt.Errorf("export.xlsx.column_failed: %w", err)
		}
		if err := f.SetCellValue(xlsxSheetName, cell(col, 2), day.Day.Date.Format("Mon Jan 2")); err != nil {
			return nil, fmt.Errorf("export.xlsx.cell_failed: %w", err)
		}
	}
	if err := f.SetCellStyle(xlsxSheetName, "A1", cell(lastCol, 2), headerStyle); err != nil {
		return nil, fmt.Errorf("export.xlsx.style_failed: %w", err)
	}

	if len(week.Days) == 0 {
		return write(f)
	}

	// Сетка одинаковая для всех дней, строки берем из первого
	for bucketIndex, bucket := range week.Days[0].HourBuckets {
		row := bucketIndex + 3
		if err := f.SetCellValue(xlsxSheetName, cell("A", row), bucket.Slot.String()); err != nil {
			return nil, fmt.Errorf("export.xlsx.cell_failed: %w", err)
		}

		for dayIndex, day := range week.Days {
			if bucketIndex >= len(day.HourBuckets) {
				continue
			}
			lines := make([]string, 0, len(day.HourBuckets[bucketIndex].Appointments))
			for _, item := range day.HourBuckets[bucketIndex].Appointments {
				lines = append(lines, fmt.Sprintf("%s %s (%s)",
					item.Appointment.StartTime.Format("15:04"), item.PatientName, item.Appointment.Type))
			}
			if len(lines) == 0 {
				continue
			}
			col, err := colName(dayIndex + 1)
			if err != nil {
				return nil, fmt.Errorf("export.xlsx.column_failed: %w", err)
			}
			if err := f.SetCellValue(xlsxSheetName, cell(col, row), strings.Join(lines, "\n")); err != nil {
				return nil, fmt.Errorf("export.xlsx.cell_failed: %w", err)
			}
		}
	}
	if len(week.Days[0].HourBuckets) > 0 {
		lastRow := len(week.Days[0].HourBuckets) + 2
		if err := f.SetCellStyle(xlsxSheetName, "B3", cell(lastCol, lastRow), cellStyle); err != nil {
			return nil, fmt.Errorf("export.xlsx.style_failed: %w", err)
		}
	}

	return write(f)
}

func write(f *excelize.File) ([]byte, error) {
	buf := new(bytes.Buffer)
	if err := f.Write(buf); err != nil {
		return nil, fmt.Errorf("export.xlsx.write_failed: %w", err)
	}
	return buf.Bytes(), nil
}

// colName — буква столбца по индексу с нуля
func colName(idx int) (string, error) {
	return excelize.ColumnNumberToName(idx + 1)
}

func cell(col string, row int) string {
	return fmt.Sprintf("%s%d", col, row)
}
