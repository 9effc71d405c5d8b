package sheet

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
)

var wireDatePattern = regexp.MustCompile(`Date\((\d+),\s*(\d+),\s*(\d+)(?:,[\d,\s]*)?\)`)

// RewriteDate переводит Date(y,m,d) в YYYY-MM-DD. Месяц в исходнике
// считается с нуля. Любая другая строка возвращается как есть.
func RewriteDate(s string) string {
	return wireDatePattern.ReplaceAllStringFunc(s, func(match string) string {
		parts := wireDatePattern.FindStringSubmatch(match)
		year, _ := strconv.Atoi(parts[1])
		month, _ := strconv.Atoi(parts[2])
		day, _ := strconv.Atoi(parts[3])
		return fmt.Sprintf("%04d-%02d-%02d", year, month+1, day)
	})
}

// ParseIntPrefix ведёт себя как parseInt(s, 10): ведущие пробелы, знак,
// затем максимальный префикс цифр.
func ParseIntPrefix(s string) (int, bool) {
	s = strings.TrimSpace(s)
	end := 0
	if end < len(s) && (s[end] == '-' || s[end] == '+') {
		end++
	}
	digitsStart := end
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == digitsStart {
		return 0, false
	}
	n, err := strconv.Atoi(s[:end])
	if err != nil {
		return 0, false
	}
	return n, true
}

// ParseFloatPrefix ведёт себя как parseFloat: самый длинный префикс,
// который читается как десятичное число.
func ParseFloatPrefix(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	i := 0
	if i < len(s) && (s[i] == '-' || s[i] == '+') {
		i++
	}
	intStart := i
	for i < len(s) && s[i] >= '0' && s[i] <= '9' {
		i++
	}
	digits := i - intStart
	if i < len(s) && s[i] == '.' {
		j := i + 1
		for j < len(s) && s[j] >= '0' && s[j] <= '9' {
			j++
		}
		digits += j - i - 1
		if j-i-1 > 0 || i > intStart {
			i = j
		}
	}
	if digits == 0 {
		return 0, false
	}
	f, err := strconv.ParseFloat(strings.TrimSuffix(s[:i], "."), 64)
	if err != nil || math.IsNaN(f) {
		return 0, false
	}
	return f, true
}

// RoundHalfUp - Math.round: половина округляется вверх.
func RoundHalfUp(f float64) int {
	return int(math.Floor(f + 0.5))
}

// ColumnLetters: 0 -> A, 25 -> Z, 26 -> AA.
func ColumnLetters(i int) string {
	if i < 0 {
		return ""
	}
	var b []byte
	for n := i + 1; n > 0; n = (n - 1) / 26 {
		b = append([]byte{byte('A' + (n-1)%26)}, b...)
	}
	return string(b)
}
