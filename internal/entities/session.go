package entities

import (
	"time"

	"nbd-crr/internal/authz"
)

// Session - вошедший пользователь. В хранилище лежат только имя и роль,
// права каждый раз перечитываются из справочника.
type Session struct {
	ID        string       `json:"id"`
	UserName  string       `json:"userName"`
	Role      string       `json:"userRole"`
	Access    authz.Access `json:"access"`
	CreatedAt time.Time    `json:"-"`
}

func (s *Session) IsAdmin() bool {
	return s != nil && s.Role == authz.RoleAdmin
}
