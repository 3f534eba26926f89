// Package docpolicy decides whether a role may act on a specific
// document given its current status and authorship.
//
// These predicates are the authoritative workflow gate: they must be
// consulted server-side on every mutating call, not only in UI
// conditionals. They are pure and deterministic, with no database
// lookups and no side effects, so callers resolve the inputs (role,
// stored status, author identity) first and then ask.
//
// Every predicate fails closed: any combination that is not explicitly
// allowed, including an empty or unknown role, returns false. Callers
// surface a permission-denied error when a predicate returns false; the
// predicates themselves never error.
package docpolicy

import "github.com/matheusmeigre/docportal/internal/domain/models"

// CanEdit reports whether role may edit a document in the given status.
//
// Gerente and Coordenador may edit any document in any status. An
// Analista may edit only their own documents, and only while the
// document is still in Rascunho or Aguardando Aprovação: approval or
// archival locks the document against its author.
func CanEdit(role, status string, isAuthor bool) bool {
	switch role {
	case models.RoleGerente, models.RoleCoordenador:
		return true
	case models.RoleAnalista:
		if !isAuthor {
			return false
		}
		return status == models.StatusRascunho || status == models.StatusAguardando
	}
	return false
}

// CanApprove reports whether role may approve a document in the given
// status authored by a user with authorRole.
//
// A Gerente may approve anything. A Coordenador's approval authority is
// strictly one level up from Analista: only pending submissions whose
// author is an Analista. A Coordenador may NOT approve another
// Coordenador's or a Gerente's submission.
func CanApprove(role, status, authorRole string) bool {
	switch role {
	case models.RoleGerente:
		return true
	case models.RoleCoordenador:
		return status == models.StatusAguardando && authorRole == models.RoleAnalista
	}
	return false
}

// CanDelete reports whether role may delete documents. Deletion is a
// Gerente-only capability, independent of document state or authorship.
func CanDelete(role string) bool {
	return role == models.RoleGerente
}

// CanView reports whether role may view a document in the given status.
//
// Approved documents are visible to every authenticated user. Authors
// always see their own work regardless of status. Coordenador and
// Gerente see everything. An unauthenticated caller (empty role) sees
// nothing, approved or not.
func CanView(role, status string, isAuthor bool) bool {
	if !models.IsValidRole(role) {
		return false
	}
	if status == models.StatusAprovado {
		return true
	}
	if isAuthor {
		return true
	}
	return role == models.RoleCoordenador || role == models.RoleGerente
}

// InitialStatus returns the status a newly created document starts in.
// A document created by a Gerente is born approved: their own new
// document requires no separate approval step. Everyone else starts at
// Rascunho.
func InitialStatus(creatorRole string) string {
	if creatorRole == models.RoleGerente {
		return models.StatusAprovado
	}
	return models.StatusRascunho
}
