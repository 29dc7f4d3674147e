// Package access declares the bootstrap route-role grant table: which
// roles may invoke which (uri, method) operation on each API surface.
// The table is expanded into ProjectRoute and RouteRole rows at seed time
// and resolved per-request by the permission service.
package access

import (
	"attendly/internal/core/domain"
)

// Grant is one (uri, method) operation and the role codes allowed on it.
type Grant struct {
	URI    string
	Method string
	Roles  []string
}

// operation is a CRUD sub-path shared by every entity's route group.
type operation struct {
	name   string
	suffix string
	method string
}

var operations = []operation{
	{name: "create", suffix: "/create", method: "POST"},
	{name: "addbulk", suffix: "/addbulk", method: "POST"},
	{name: "list", suffix: "/list", method: "POST"},
	{name: "get", suffix: "/:id", method: "GET"},
	{name: "count", suffix: "/count", method: "POST"},
	{name: "update", suffix: "/update/:id", method: "PUT"},
	{name: "partialupdate", suffix: "/partial-update/:id", method: "PUT"},
	{name: "updatebulk", suffix: "/updatebulk", method: "PUT"},
	{name: "softdelete", suffix: "/softdelete/:id", method: "PUT"},
	{name: "softdeletemany", suffix: "/softdeletemany", method: "PUT"},
	{name: "delete", suffix: "/delete/:id", method: "DELETE"},
	{name: "deletemany", suffix: "/deletemany", method: "POST"},
}

// scopes are the API surfaces. Every entity group is declared under both.
var scopes = []string{"/admin", "/client/api/v1"}

var (
	admin  = domain.RoleCodeAdmin
	user   = domain.RoleCodeUser
	system = domain.RoleCodeSystemUser
)

// entityGrants maps an operation name to the roles allowed to call it for
// one entity group. Operations absent from the map fall back to the
// system role alone.
type entityGrants struct {
	segment string
	roles   map[string][]string
}

// readAll / writeOwn / destroySystem is the common shape: everyone with a
// stake may read, the owning surface may write, only the system role may
// destroy.
var grantTable = []entityGrants{
	{
		// create runs the sign-in flow; the raw bulk insert and bulk
		// update endpoints stay system-only so no account can write
		// records that skipped the day-window and geofence checks.
		segment: "attendance",
		roles: map[string][]string{
			"list":          {admin, user, system},
			"get":           {admin, user, system},
			"count":         {admin, user, system},
			"create":        {user, system},
			"update":        {user, system},
			"partialupdate": {user, system},
		},
	},
	{
		segment: "employee",
		roles: map[string][]string{
			"list": {admin, system}, "get": {admin, system}, "count": {admin, system},
			"create": {admin, system}, "addbulk": {admin, system},
			"update": {admin, system}, "partialupdate": {admin, system}, "updatebulk": {admin, system},
			"softdelete": {admin, system}, "softdeletemany": {admin, system},
			"delete": {admin, system}, "deletemany": {admin, system},
		},
	},
	{
		segment: "organisation",
		roles: map[string][]string{
			"list":          {admin, user, system},
			"get":           {admin, user, system},
			"count":         {admin, user, system},
			"update":        {admin, system},
			"partialupdate": {admin, system},
			"updatebulk":    {admin, system},
		},
	},
	{
		segment: "preference",
		roles: map[string][]string{
			"list": {admin, system}, "get": {admin, system}, "count": {admin, system},
			"update": {admin, system}, "partialupdate": {admin, system}, "updatebulk": {admin, system},
		},
	},
	{
		segment: "user",
		roles: map[string][]string{
			"list": {admin, system}, "get": {admin, system}, "count": {admin, system},
			"update": {admin, system}, "partialupdate": {admin, system}, "updatebulk": {admin, system},
		},
	},
	{segment: "usertokens"},
	{segment: "role"},
	{segment: "projectroute"},
	{segment: "routerole"},
	{segment: "userrole"},
}

// Grants expands the grant table into the flat (uri, method, roles) list
// seeded at bootstrap. URIs are already lower-case, matching the
// permission resolver's lookup normalization.
func Grants() []Grant {
	var out []Grant
	for _, scope := range scopes {
		for _, eg := range grantTable {
			for _, op := range operations {
				roles, ok := eg.roles[op.name]
				if !ok {
					roles = []string{system}
				}
				out = append(out, Grant{
					URI:    scope + "/" + eg.segment + op.suffix,
					Method: op.method,
					Roles:  roles,
				})
			}
		}
	}
	return out
}
