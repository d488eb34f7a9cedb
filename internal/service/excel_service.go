package service

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"findash-api/internal/models"
)

type ExcelService struct{}

func NewExcelService() *ExcelService {
	return &ExcelService{}
}

// ExportImport renders an import session with its items into a spreadsheet.
// The caller owns closing the returned file.
func (s *ExcelService) ExportImport(session *models.ImportSession) (*excelize.File, error) {
	f := excelize.NewFile()

	const sheet = "Items"
	index, err := f.NewSheet(sheet)
	if err != nil {
		return nil, err
	}
	f.SetActiveSheet(index)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, err
	}

	headers := []string{"Date", "Description", "Amount", "Type", "Account", "Counterparty", "Category", "Possible Duplicate"}
	for i, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(sheet, cell, header); err != nil {
			return nil, err
		}
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"DDEBF7"}, Pattern: 1},
	})
	if err != nil {
		return nil, err
	}
	if err := f.SetCellStyle(sheet, "A1", "H1", headerStyle); err != nil {
		return nil, err
	}

	for i, item := range session.Items {
		row := i + 2
		counterparty := ""
		if item.SupplierName != nil {
			counterparty = *item.SupplierName
		}
		category := ""
		if item.CategoryName != nil {
			category = *item.CategoryName
		}
		duplicate := ""
		if item.PossibleDuplicate {
			duplicate = "YES"
		}

		values := []interface{}{
			item.Date.Format("2006-01-02"),
			item.Description,
			item.Amount.InexactFloat64(),
			item.Type,
			item.AccountType,
			counterparty,
			category,
			duplicate,
		}
		for col, value := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row)
			if err := f.SetCellValue(sheet, cell, value); err != nil {
				return nil, err
			}
		}
	}

	if err := f.SetColWidth(sheet, "A", "H", 20); err != nil {
		return nil, err
	}

	return f, nil
}

// ExportFileName builds the download name for a session export.
func (s *ExcelService) ExportFileName(session *models.ImportSession) string {
	return fmt.Sprintf("import_%s_%s.xlsx", session.ID[:8], session.CreatedAt.Format("20060102"))
}
