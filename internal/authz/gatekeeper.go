package authz

// Gatekeeper решает, пускать ли на страницу.
type Gatekeeper struct{}

func NewGatekeeper() *Gatekeeper {
	return &Gatekeeper{}
}

// Can: admin проходит везде, остальные - только при наличии флага.
// Без роли (пользователь не найден) закрыто всё.
func (g *Gatekeeper) Can(access Access, flag string) bool {
	switch access.Role {
	case "":
		return false
	case RoleAdmin:
		return true
	}
	return access.Permissions[flag]
}

// Visible - флаги, которые стоит показать в меню.
func (g *Gatekeeper) Visible(access Access) []string {
	var out []string
	for _, f := range knownFlags {
		if g.Can(access, f) {
			out = append(out, f)
		}
	}
	return out
}
