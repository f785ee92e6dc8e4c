package services

import (
	"city-issues-api/models"
)

// Actor is the authenticated caller of a lifecycle operation.
type Actor struct {
	ID   uint
	Role models.Role
}

// Operation names a lifecycle mutation or read subject to access control.
type Operation string

const (
	OpSubmit       Operation = "submit"
	OpView         Operation = "view"
	OpAssignWorker Operation = "assign_worker"
	OpUpdateStatus Operation = "update_status"
	OpApprove      Operation = "approve"
	OpAddPhoto     Operation = "add_photo"
	OpLogWork      Operation = "log_work"
)

// ownership predicates evaluated against the current entity state. A nil
// request means the operation has no entity yet (creation).

func isOwner(a Actor, r *models.Request) bool {
	return r != nil && r.CitizenID == a.ID
}

func isAssignedWorker(a Actor, r *models.Request) bool {
	return r != nil && r.AssignedWorkerID != nil && *r.AssignedWorkerID == a.ID
}

func anyEntity(Actor, *models.Request) bool {
	return true
}

// rbacPolicy maps (operation, role) to the ownership predicate that must
// hold. Absent role means the role may not perform the operation at all.
// This is the single place permission rules live; handlers and service
// methods consult it through authorize.
var rbacPolicy = map[Operation]map[models.Role]func(Actor, *models.Request) bool{
	OpSubmit: {
		models.RoleCitizen: anyEntity,
	},
	OpView: {
		models.RoleCitizen: isOwner,
		models.RoleWorker:  isAssignedWorker,
		models.RoleAdmin:   anyEntity,
	},
	OpAssignWorker: {
		models.RoleAdmin: anyEntity,
	},
	OpUpdateStatus: {
		models.RoleWorker: isAssignedWorker,
		models.RoleAdmin:  anyEntity,
	},
	OpApprove: {
		models.RoleCitizen: isOwner,
	},
	OpAddPhoto: {
		models.RoleCitizen: isOwner,
		models.RoleWorker:  isAssignedWorker,
		models.RoleAdmin:   anyEntity,
	},
	OpLogWork: {
		models.RoleWorker: isAssignedWorker,
	},
}

// authorize checks the policy table once per call. Returns ErrForbidden on
// a role or ownership mismatch.
func authorize(op Operation, a Actor, r *models.Request) error {
	roles, ok := rbacPolicy[op]
	if !ok {
		return ErrForbidden
	}
	predicate, ok := roles[a.Role]
	if !ok || !predicate(a, r) {
		return ErrForbidden
	}
	return nil
}
