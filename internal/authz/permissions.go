package authz

import "strings"

// Флаги доступа к страницам.
const (
	Dashboard           = "dashboard"
	NewEnquiry          = "newEnquiry"
	OnCallFollowup      = "onCallFollowup"
	MakeQuotation       = "makeQuotation"
	UpdateQuotation     = "updateQuotation"
	QuotationValidation = "quotationValidation"
	ScreenshotUpdate    = "screenshotUpdate"
	FollowupSteps       = "followupSteps"
	OrderStatus         = "orderStatus"
	UserManagement      = "userManagement"
	Analytics           = "analytics"
	Settings            = "settings"
)

// GrantAll - значение ячейки прав, открывающее всё.
const GrantAll = "all"

const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

var knownFlags = []string{
	Dashboard, NewEnquiry, OnCallFollowup, MakeQuotation, UpdateQuotation,
	QuotationValidation, ScreenshotUpdate, FollowupSteps, OrderStatus,
	UserManagement, Analytics, Settings,
}

func KnownFlags() []string {
	out := make([]string, len(knownFlags))
	copy(out, knownFlags)
	return out
}

func IsKnownFlag(flag string) bool {
	for _, f := range knownFlags {
		if f == flag {
			return true
		}
	}
	return false
}

// ResolvePermissions разбирает ячейку прав. "all" (без учёта регистра)
// открывает все известные флаги; иначе список через запятую, неизвестные
// имена игнорируются.
func ResolvePermissions(cell string) map[string]bool {
	perms := make(map[string]bool)
	if strings.EqualFold(strings.TrimSpace(cell), GrantAll) {
		for _, f := range knownFlags {
			perms[f] = true
		}
		return perms
	}
	for _, token := range strings.Split(cell, ",") {
		if flag := strings.TrimSpace(token); IsKnownFlag(flag) {
			perms[flag] = true
		}
	}
	return perms
}

// Access - роль и флаги, вычисленные из справочника пользователей.
// Пустая роль означает, что пользователь не найден: доступ закрыт везде.
type Access struct {
	Role        string          `json:"role"`
	Permissions map[string]bool `json:"permissions"`
}

func Denied() Access {
	return Access{Permissions: map[string]bool{}}
}

// AdminAccess - роль admin видит все страницы.
func AdminAccess() Access {
	return Access{Role: RoleAdmin, Permissions: ResolvePermissions(GrantAll)}
}
