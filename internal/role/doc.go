// Package role defines the static catalog of specialist roles and the
// capability model that bounds what each specialist may request.
//
// Roles partition into primary development roles (architect, implementer,
// reviewer, tester) and supporting specialized roles (debugger, optimizer,
// security, generalist). Capabilities partition into the disjoint sets of
// modifying permissions (write, create, delete, command execution) and
// read-only permissions (read, analysis, review, delegation). A role is
// read-only exactly when its capability set contains no modifying capability.
//
// The [Catalog] is a write-once registry constructed explicitly during
// process init via [Builtin] and passed by reference to the components that
// need it; it is never accessed as hidden global state.
package role
