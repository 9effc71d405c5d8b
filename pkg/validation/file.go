package validation

import (
	"encoding/base64"
	"fmt"
	"slices"
	"strings"

	"github.com/gabriel-vasile/mimetype"

	"nbd-crr/config"
)

// DecodeDataURI разбирает "data:<mime>;base64,<payload>" и возвращает байты.
func DecodeDataURI(uri string) ([]byte, error) {
	head, payload, ok := strings.Cut(uri, ",")
	if !ok || !strings.HasPrefix(head, "data:") || !strings.HasSuffix(head, ";base64") {
		return nil, fmt.Errorf("ожидается data URI в base64")
	}
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, fmt.Errorf("ошибка декодирования base64: %w", err)
	}
	return data, nil
}

// EncodeDataURI собирает data URI, как это делает FileReader.readAsDataURL.
func EncodeDataURI(mimeType string, data []byte) string {
	return "data:" + mimeType + ";base64," + base64.StdEncoding.EncodeToString(data)
}

// ValidateAttachment проверяет размер и MIME-тип вложения по содержимому.
// kind - ключ из config.UploadContexts. Возвращает определённый тип.
func ValidateAttachment(kind string, data []byte) (string, error) {
	rules, ok := config.UploadContexts[kind]
	if !ok {
		return "", fmt.Errorf("внутренняя ошибка: неизвестный вид вложения '%s'", kind)
	}

	if rules.MaxSizeMB > 0 {
		maxSizeBytes := rules.MaxSizeMB * 1024 * 1024
		if int64(len(data)) > maxSizeBytes {
			return "", fmt.Errorf("размер файла (%.2f MB) превышает лимит в %d MB", float64(len(data))/1024/1024, rules.MaxSizeMB)
		}
	}

	mtype := mimetype.Detect(data)
	for m := mtype; m != nil; m = m.Parent() {
		if slices.ContainsFunc(rules.AllowedMimeTypes, m.Is) {
			return mtype.String(), nil
		}
	}
	return "", fmt.Errorf("недопустимый формат файла: %s", mtype.String())
}
