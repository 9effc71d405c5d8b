package config

// UploadConfig - правила для вложений, которые уходят в скрипт таблицы.
type UploadConfig struct {
	AllowedMimeTypes []string
	MaxSizeMB        int64
	// ColumnIndex - колонка листа, куда скрипт кладёт ссылку на файл (-1 - одиночный режим).
	ColumnIndex int
}

const (
	UploadOrderVideo     = "order_video"
	UploadAcceptanceFile = "acceptance_file"
	UploadOrderLostVideo = "order_lost_video"
	UploadScreenshot     = "screenshot"
	UploadQuotationFile  = "quotation_file"
)

var videoTypes = []string{"video/mp4", "video/quicktime", "video/webm", "video/x-matroska", "video/3gpp"}

var UploadContexts = map[string]UploadConfig{
	UploadOrderVideo: {
		AllowedMimeTypes: videoTypes,
		MaxSizeMB:        50,
		ColumnIndex:      7, // H
	},
	UploadAcceptanceFile: {
		AllowedMimeTypes: []string{"application/pdf", "image/jpeg", "image/png"},
		MaxSizeMB:        20,
		ColumnIndex:      8, // I
	},
	UploadOrderLostVideo: {
		AllowedMimeTypes: videoTypes,
		MaxSizeMB:        50,
		ColumnIndex:      10, // K
	},
	UploadScreenshot: {
		AllowedMimeTypes: []string{"image/jpeg", "image/png", "image/gif", "image/webp"},
		MaxSizeMB:        10,
		ColumnIndex:      -1,
	},
	UploadQuotationFile: {
		AllowedMimeTypes: []string{
			"application/pdf", "image/jpeg", "image/png",
			"application/vnd.openxmlformats-officedocument.wordprocessingml.document",
			"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
		},
		MaxSizeMB:   20,
		ColumnIndex: -1,
	},
}
