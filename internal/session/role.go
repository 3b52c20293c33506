// Copyright (c) 2026 MinePanel. All rights reserved.
// Author: dev@vetasur.io

package session

// # User Roles

// Role is the authorization level claimed by the access token.
//
// It is advisory for UI routing only — the upstream API re-checks authorization
// on every request, so a forged role buys nothing beyond an empty shell.
type Role string

const (
	// Full administrative dashboard (projects, personnel, reports, production)
	RoleAdmin Role = "ADMIN"

	// Field supervision dashboard (access control, gas registry, work fronts, inventory)
	RoleSupervisor Role = "SUPERVISOR"

	// Recognized by the upstream API but granted no dashboard shell
	RoleEmployee Role = "EMPLOYEE"
)

// Known reports whether the role is one the upstream API issues at all.
// Unknown roles still route to the unauthorized screen, same as EMPLOYEE.
func (r Role) Known() bool {
	switch r {
	case RoleAdmin, RoleSupervisor, RoleEmployee:
		return true
	default:
		return false
	}
}
