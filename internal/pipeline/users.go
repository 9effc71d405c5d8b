package pipeline

import (
	"strings"

	"nbd-crr/internal/sheet"
)

// LookupUser - строка справочника пользователей на листе DROPDOWN.
type LookupUser struct {
	RowIndex     int
	Username     string
	Role         string
	Permissions  string
	PasswordHash string
}

// LookupUsers читает справочник. Строка 0 - заголовок, строки без имени пропускаются.
func LookupUsers(t *sheet.Table) ([]LookupUser, error) {
	m, err := UserLookupSchema.Bind(t)
	if err != nil {
		return nil, err
	}

	users := []LookupUser{}
	for i := 1; i < len(t.Rows); i++ {
		rec := m.Project(t.Rows[i])
		name := rec.String("username")
		if name == "" {
			continue
		}
		users = append(users, LookupUser{
			RowIndex:     i,
			Username:     name,
			Role:         strings.ToLower(rec.String("role")),
			Permissions:  rec.String("permissions"),
			PasswordHash: rec.String("passwordHash"),
		})
	}
	return users, nil
}

// FindUser - первое совпадение имени без учёта регистра и пробелов по краям.
func FindUser(users []LookupUser, username string) (LookupUser, bool) {
	want := strings.TrimSpace(username)
	for _, u := range users {
		if strings.EqualFold(u.Username, want) {
			return u, true
		}
	}
	return LookupUser{}, false
}
