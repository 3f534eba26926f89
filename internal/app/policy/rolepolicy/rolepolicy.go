// Package rolepolicy maps a role to its blanket capability set.
//
// The capability table is the authoritative policy for what each role
// may do in general. Per-document decisions (may THIS user edit THIS
// document in its current status) are refined by docpolicy; the flags
// here answer the coarser question of what actions a role can ever
// perform.
//
// For is a total function: an unknown or empty role yields the zero
// Capabilities value with every flag false. It never errors and holds
// no state, so it is safe from any number of concurrent requests.
package rolepolicy

import "github.com/matheusmeigre/docportal/internal/domain/models"

// Capabilities is the fixed set of permission flags derived from a role.
type Capabilities struct {
	CanCreate           bool `json:"can_create"`
	CanEdit             bool `json:"can_edit"`
	CanApprove          bool `json:"can_approve"`
	CanDelete           bool `json:"can_delete"`
	CanManageUsers      bool `json:"can_manage_users"`
	CanViewUsers        bool `json:"can_view_users"`
	CanEditUsers        bool `json:"can_edit_users"`
	CanDeleteUsers      bool `json:"can_delete_users"`
	CanManageCategories bool `json:"can_manage_categories"`
}

// For returns the capability set for a role.
//
//	role         create edit approve delete manageU viewU editU deleteU manageCat
//	(none/other)   F     F     F       F      F       F     F     F       F
//	Analista       T     F     F       F      F       F     F     F       F
//	Coordenador    T     T     T       F      F       T     F     F       T
//	Gerente        T     T     T       T      T       T     T     T       T
func For(role string) Capabilities {
	switch role {
	case models.RoleAnalista:
		return Capabilities{
			CanCreate: true,
		}
	case models.RoleCoordenador:
		return Capabilities{
			CanCreate:           true,
			CanEdit:             true,
			CanApprove:          true,
			CanViewUsers:        true,
			CanManageCategories: true,
		}
	case models.RoleGerente:
		return Capabilities{
			CanCreate:           true,
			CanEdit:             true,
			CanApprove:          true,
			CanDelete:           true,
			CanManageUsers:      true,
			CanViewUsers:        true,
			CanEditUsers:        true,
			CanDeleteUsers:      true,
			CanManageCategories: true,
		}
	}
	return Capabilities{}
}
