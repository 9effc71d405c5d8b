package utils

import (
	"fmt"
	"strings"
	"time"
)

// Форматы дат, которые ждут листы. Часть форм пишет M/D/YYYY без
// ведущих нулей, часть - DD/MM/YYYY.

func FormatUSDate(t time.Time) string {
	return fmt.Sprintf("%d/%d/%d", int(t.Month()), t.Day(), t.Year())
}

func FormatDMY(t time.Time) string {
	return t.Format("02/01/2006")
}

func FormatDMYTime(t time.Time) string {
	return t.Format("02/01/2006 15:04:05")
}

// ReformatISODate переводит YYYY-MM-DD из поля формы в DD/MM/YYYY.
// Пустая строка остаётся пустой, нераспознанная - возвращается как есть.
func ReformatISODate(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return s
	}
	return FormatDMY(t)
}
