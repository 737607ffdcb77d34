package role

// AgentRole identifies a specialist role.
type AgentRole string

const (
	// RoleArchitect designs system structure and interfaces.
	RoleArchitect AgentRole = "architect"

	// RoleImplementer writes and modifies code.
	RoleImplementer AgentRole = "implementer"

	// RoleReviewer critiques changes and approves or requests revision.
	RoleReviewer AgentRole = "reviewer"

	// RoleTester writes and runs tests.
	RoleTester AgentRole = "tester"

	// RoleDebugger diagnoses and fixes defects.
	RoleDebugger AgentRole = "debugger"

	// RoleOptimizer improves performance characteristics.
	RoleOptimizer AgentRole = "optimizer"

	// RoleSecurity audits code for vulnerabilities.
	RoleSecurity AgentRole = "security"

	// RoleGeneralist handles requests that match no specialization.
	RoleGeneralist AgentRole = "generalist"
)

// String returns the string representation of the role.
func (r AgentRole) String() string {
	return string(r)
}

// IsValid returns true if this is a recognized role value.
func (r AgentRole) IsValid() bool {
	switch r {
	case RoleArchitect, RoleImplementer, RoleReviewer, RoleTester,
		RoleDebugger, RoleOptimizer, RoleSecurity, RoleGeneralist:
		return true
	default:
		return false
	}
}

// Group classifies roles into core development roles and specialized
// supporting roles.
type Group string

const (
	// GroupPrimary contains the core development roles.
	GroupPrimary Group = "primary"

	// GroupSupporting contains the specialized roles.
	GroupSupporting Group = "supporting"
)

// GroupOf returns the group a role belongs to. Unknown roles are grouped
// as supporting.
func GroupOf(r AgentRole) Group {
	switch r {
	case RoleArchitect, RoleImplementer, RoleReviewer, RoleTester:
		return GroupPrimary
	default:
		return GroupSupporting
	}
}

// PrimaryRoles returns the core development roles in catalog order.
func PrimaryRoles() []AgentRole {
	return []AgentRole{RoleArchitect, RoleImplementer, RoleReviewer, RoleTester}
}

// SupportingRoles returns the specialized roles in catalog order.
func SupportingRoles() []AgentRole {
	return []AgentRole{RoleDebugger, RoleOptimizer, RoleSecurity, RoleGeneralist}
}

// AllRoles returns every built-in role, primary roles first.
func AllRoles() []AgentRole {
	return append(PrimaryRoles(), SupportingRoles()...)
}
