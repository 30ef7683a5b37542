package spreadsheet

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"sales_dashboard/internal/sales"
)

// SheetName is the worksheet WriteXLSX fills.
const SheetName = "Vendas"

// WriteXLSX writes sales as an Excel workbook with the same columns as the CSV
// export. Values are stored as numbers.
func WriteXLSX(w io.Writer, list []sales.Sale) error {
	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(SheetName)
	if err != nil {
		return fmt.Errorf("failed to create sheet: %w", err)
	}
	f.SetActiveSheet(index)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return fmt.Errorf("failed to drop default sheet: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "#FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#003057"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}
	moneyStyle, err := f.NewStyle(&excelize.Style{NumFmt: 4})
	if err != nil {
		return fmt.Errorf("failed to create value style: %w", err)
	}

	header := make([]any, len(Header))
	for i, h := range Header {
		header[i] = h
	}
	if err := f.SetSheetRow(SheetName, "A1", &header); err != nil {
		return err
	}
	if err := f.SetCellStyle(SheetName, "A1", "G1", headerStyle); err != nil {
		return err
	}

	for i, s := range list {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		value, _ := s.Value.Round(2).Float64()
		row := []any{s.ID, s.Date, s.ConsultantName, s.ClientName, string(s.Type), value, string(s.Status)}
		if err := f.SetSheetRow(SheetName, cell, &row); err != nil {
			return fmt.Errorf("failed to write row %d: %w", i+2, err)
		}
	}
	if len(list) > 0 {
		last := fmt.Sprintf("F%d", len(list)+1)
		if err := f.SetCellStyle(SheetName, "F2", last, moneyStyle); err != nil {
			return err
		}
	}
	if err := f.SetColWidth(SheetName, "A", "G", 18); err != nil {
		return err
	}

	return f.Write(w)
}
