package appscript

import (
	"encoding/json"
	"fmt"
	"strconv"

	"nbd-crr/internal/integrations"
)

type field struct {
	key   string
	value string
}

// buildFields раскладывает запрос в поля формы в том порядке, в каком их
// ждёт скрипт. rowData - JSON-массив, порядок ячеек значим.
func buildFields(req integrations.InsertRequest) ([]field, error) {
	row := req.RowData
	if row == nil {
		row = []string{}
	}
	rowJSON, err := json.Marshal(row)
	if err != nil {
		return nil, fmt.Errorf("не удалось сериализовать rowData: %w", err)
	}

	fields := []field{
		{"sheetName", req.SheetName},
		{"action", "insert"},
		{"rowData", string(rowJSON)},
	}
	if req.IdempotencyKey != "" {
		fields = append(fields, field{"idempotencyKey", req.IdempotencyKey})
	}

	if req.MultiFile {
		if len(req.Files) == 0 {
			return append(fields, field{"hasFiles", "false"}), nil
		}
		fields = append(fields,
			field{"hasFiles", "true"},
			field{"fileCount", strconv.Itoa(len(req.Files))},
		)
		for i, f := range req.Files {
			n := strconv.Itoa(i)
			fields = append(fields,
				field{"fileName" + n, f.Name},
				field{"fileType" + n, f.MimeType},
				field{"fileData" + n, f.DataURI},
				field{"fileColumnIndex" + n, strconv.Itoa(f.ColumnIndex)},
			)
		}
		return fields, nil
	}

	if len(req.Files) == 0 {
		return append(fields, field{"hasFile", "false"}), nil
	}
	if len(req.Files) > 1 {
		return nil, fmt.Errorf("в одиночном режиме допускается один файл, получено %d", len(req.Files))
	}
	f := req.Files[0]
	return append(fields,
		field{"hasFile", "true"},
		field{"fileName", f.Name},
		field{"fileType", f.MimeType},
		field{"fileData", f.DataURI},
	), nil
}
