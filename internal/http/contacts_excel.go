package httpapi

import (
	"bytes"
	"fmt"

	"contacts-data/internal/domain"

	"github.com/xuri/excelize/v2"
)

// ContactsExportHeader 导出表头
var ContactsExportHeader = []string{
	"ID",
	"First Name",
	"Last Name",
	"Email",
	"Phone Number",
	"Birthday",
	"Additional Data",
	"Created At",
	"Updated At",
}

// GenerateContactsExport 生成联系人导出 Excel 文件
// contacts 为空时只生成表头
func GenerateContactsExport(contacts []domain.Contact) ([]byte, error) {
	f := excelize.NewFile()
	// Note: Don't defer Close() here, because WriteTo needs the file to be open

	sheetName := "Contacts"
	index, err := f.NewSheet(sheetName)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to create sheet: %w", err)
	}
	f.DeleteSheet("Sheet1")
	f.SetActiveSheet(index)

	for col, header := range ContactsExportHeader {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			f.Close()
			return nil, fmt.Errorf("failed to build header cell: %w", err)
		}
		if err := f.SetCellValue(sheetName, cell, header); err != nil {
			f.Close()
			return nil, fmt.Errorf("failed to write header: %w", err)
		}
	}

	for i, c := range contacts {
		values := []any{
			c.ID,
			c.FirstName,
			c.LastName,
			c.Email,
			c.PhoneNumber,
			c.Birthday.String(),
			c.AdditionalData,
			c.CreatedAt.Format("2006-01-02 15:04:05"),
			c.UpdatedAt.Format("2006-01-02 15:04:05"),
		}
		for col, v := range values {
			cell, err := excelize.CoordinatesToCellName(col+1, i+2)
			if err != nil {
				f.Close()
				return nil, fmt.Errorf("failed to build data cell: %w", err)
			}
			if err := f.SetCellValue(sheetName, cell, v); err != nil {
				f.Close()
				return nil, fmt.Errorf("failed to write row %d: %w", i+2, err)
			}
		}
	}

	var buf bytes.Buffer
	if _, err := f.WriteTo(&buf); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to serialize workbook: %w", err)
	}
	if err := f.Close(); err != nil {
		return nil, fmt.Errorf("failed to close workbook: %w", err)
	}
	return buf.Bytes(), nil
}
