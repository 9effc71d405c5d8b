package dto

import "nbd-crr/internal/authz"

type LoginDTO struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type AuthResponseDTO struct {
	AccessToken string         `json:"accessToken"`
	ExpiresIn   int64          `json:"expiresIn"`
	User        SessionUserDTO `json:"user"`
}

// SessionUserDTO - то, что раньше лежало в localStorage, плюс права.
type SessionUserDTO struct {
	UserName    string          `json:"userName"`
	UserRole    string          `json:"userRole"`
	Permissions map[string]bool `json:"permissions"`
	Visible     []string        `json:"visible"`
}

func NewSessionUserDTO(userName string, access authz.Access, visible []string) SessionUserDTO {
	return SessionUserDTO{
		UserName:    userName,
		UserRole:    access.Role,
		Permissions: access.Permissions,
		Visible:     visible,
	}
}
