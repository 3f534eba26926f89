// internal/domain/models/roles.go
package models

// Role values are part of the external contract: they are stored and
// compared verbatim and must never be renamed.
const (
	RoleAnalista    = "Analista"
	RoleCoordenador = "Coordenador"
	RoleGerente     = "Gerente"
)

// Roles lists every assignable role, lowest privilege first.
var Roles = []string{RoleAnalista, RoleCoordenador, RoleGerente}

// IsValidRole reports whether role is one of the three assignable roles.
// The empty string (no assignment) is not a valid role.
func IsValidRole(role string) bool {
	switch role {
	case RoleAnalista, RoleCoordenador, RoleGerente:
		return true
	}
	return false
}

// RoleBadgeColor returns the UI badge classes for a role. Unknown roles
// fall back to the neutral badge.
func RoleBadgeColor(role string) string {
	switch role {
	case RoleAnalista:
		return "bg-blue-100 text-blue-800"
	case RoleCoordenador:
		return "bg-purple-100 text-purple-800"
	case RoleGerente:
		return "bg-red-100 text-red-800"
	}
	return "bg-gray-100 text-gray-800"
}
