package gsheets

import (
	"encoding/json"
	"fmt"

	"nbd-crr/internal/sheet"
)

func mapTable(sheetName string, dto tableDTO) (*sheet.Table, error) {
	table := &sheet.Table{
		Sheet:   sheetName,
		Columns: make([]sheet.Column, len(dto.Cols)),
		Rows:    make([]sheet.Row, 0, len(dto.Rows)),
	}
	for i, col := range dto.Cols {
		table.Columns[i] = sheet.Column{ID: col.ID, Label: col.Label, Type: col.Type}
	}

	for i, r := range dto.Rows {
		row := sheet.Row{Cells: make([]sheet.Cell, len(r.C))}
		for j, c := range r.C {
			cell, err := mapCell(c)
			if err != nil {
				return nil, fmt.Errorf("строка %d, колонка %d: %w", i, j, err)
			}
			row.Cells[j] = cell
		}
		table.Rows = append(table.Rows, row)
	}
	return table, nil
}

func mapCell(c *cellDTO) (sheet.Cell, error) {
	if c == nil {
		return sheet.Cell{}, nil
	}
	var cell sheet.Cell
	if c.F != nil {
		cell.Formatted = *c.F
	}
	if len(c.V) == 0 {
		return cell, nil
	}

	var v any
	if err := json.Unmarshal(c.V, &v); err != nil {
		return sheet.Cell{}, err
	}
	switch v.(type) {
	case nil, string, float64, bool:
		cell.Value = v
	default:
		// массивы и объекты в .v не ожидаются; сохраняем как текст
		cell.Value = string(c.V)
	}
	return cell, nil
}
