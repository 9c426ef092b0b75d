package model

import "sort"

// Role is a role tag held by a user
type Role string

const (
	RoleAdmin         Role = "admin"
	RoleTesorero      Role = "tesorero"
	RolePastorGeneral Role = "pastor_general"
	RolePastorRed     Role = "pastor_red"
	RoleUsuario       Role = "usuario"
)

func (r Role) Valid() bool {
	_, ok := rolePermissions[r]
	return ok
}

// Permission represents a single permission that can be granted through a role
type Permission struct {
	Code  string `json:"code"`
	Name  string `json:"name"`
	Group string `json:"group"`
}

// Permissions is the catalog of permission codes known to the application
var Permissions = []Permission{
	{Code: "solicitudes.read", Name: "Ver solicitudes", Group: "solicitudes"},
	{Code: "solicitudes.write", Name: "Crear y editar solicitudes", Group: "solicitudes"},
	{Code: "solicitudes.approve", Name: "Aprobar o rechazar solicitudes", Group: "solicitudes"},
	{Code: "ministries.read", Name: "Ver ministerios", Group: "ministries"},
	{Code: "users.read", Name: "Ver usuarios", Group: "users"},
	{Code: "users.write", Name: "Gestionar usuarios", Group: "users"},
	{Code: "dashboard.read", Name: "Ver tablero", Group: "dashboard"},
	{Code: "audit.read", Name: "Ver historial", Group: "audit"},
}

var rolePermissions = map[Role][]string{
	RoleAdmin: {
		"solicitudes.read", "solicitudes.write", "solicitudes.approve", "ministries.read",
		"users.read", "users.write", "dashboard.read", "audit.read",
	},
	RoleTesorero:      {"solicitudes.read", "solicitudes.approve", "ministries.read", "dashboard.read", "audit.read"},
	RolePastorGeneral: {"solicitudes.read", "solicitudes.approve", "ministries.read", "dashboard.read", "audit.read"},
	RolePastorRed:     {"solicitudes.read", "solicitudes.write", "solicitudes.approve", "ministries.read", "dashboard.read"},
	RoleUsuario:       {"solicitudes.read", "solicitudes.write", "ministries.read"},
}

// PermissionsFor returns the sorted union of permission codes granted by roles
func PermissionsFor(roles Roles) []string {
	set := make(map[string]bool)
	for _, role := range roles {
		for _, code := range rolePermissions[role] {
			set[code] = true
		}
	}

	codes := make([]string, 0, len(set))
	for code := range set {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}

// RoleInfo describes a role and the permission codes it grants
type RoleInfo struct {
	Name        Role     `json:"name"`
	Permissions []string `json:"permissions"`
}

// RoleCatalog lists every role, in declaration order
func RoleCatalog() []RoleInfo {
	order := []Role{RoleAdmin, RoleTesorero, RolePastorGeneral, RolePastorRed, RoleUsuario}
	out := make([]RoleInfo, len(order))
	for i, r := range order {
		out[i] = RoleInfo{Name: r, Permissions: PermissionsFor(Roles{r})}
	}
	return out
}
