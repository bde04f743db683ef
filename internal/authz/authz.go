// Package authz holds the ownership policy for mutating obituaries.
package authz

import (
	"slices"

	"github.com/dtroode/obituary-server/internal/model"
	"github.com/google/uuid"
)

// CanModify reports whether an actor may update or delete a resource.
//
// Admins may modify anything, including records without an owner. Everyone else may
// modify a resource only when both ids are present and equal.
func CanModify(actorRoles []string, actorID *uuid.UUID, ownerID *uuid.UUID) bool {
	if slices.Contains(actorRoles, model.RoleAdmin) {
		return true
	}
	if actorID == nil || ownerID == nil {
		return false
	}
	return *actorID == *ownerID
}

// CanModifyObituary applies CanModify to a principal and an obituary.
// A nil principal is an anonymous actor.
func CanModifyObituary(actor *model.Principal, obituary model.Obituary) bool {
	return CanModify(actor.RoleNames(), actor.ActorID(), obituary.CreatedBy)
}
