package domain

// Entity identifies a persisted record type. The string value is the key
// used in cascade result maps, so it must stay stable.
type Entity string

const (
	EntityOrganisation Entity = "organisation"
	EntityPreference   Entity = "preference"
	EntityAttendance   Entity = "attendance"
	EntityEmployee     Entity = "employee"
	EntityUser         Entity = "user"
	EntityUserToken    Entity = "userTokens"
	EntityRole         Entity = "role"
	EntityProjectRoute Entity = "projectRoute"
	EntityRouteRole    Entity = "routeRole"
	EntityUserRole     Entity = "userRole"
)

// UserType is the coarse platform classification of an account,
// independent of the fine-grained route-role mechanism.
type UserType int

const (
	UserTypeUser  UserType = 1
	UserTypeAdmin UserType = 2
)

// Platform identifies which API surface a request came in through.
type Platform int

const (
	PlatformClient Platform = 1
	PlatformAdmin  Platform = 2
)

// CanAccess reports whether a user type may log in to a platform.
func (t UserType) CanAccess(p Platform) bool {
	switch t {
	case UserTypeUser:
		return p == PlatformClient
	case UserTypeAdmin:
		return p == PlatformAdmin
	}
	return false
}

// Role codes created at bootstrap
const (
	RoleCodeAdmin      = "ADMIN"
	RoleCodeUser       = "USER"
	RoleCodeSystemUser = "SYSTEM_USER"
)

// CascadeOp selects the terminal operation a cascade applies at each node.
type CascadeOp int

const (
	CascadeCount CascadeOp = iota
	CascadeDelete
	CascadeSoftDelete
)

func (op CascadeOp) String() string {
	switch op {
	case CascadeCount:
		return "count"
	case CascadeDelete:
		return "delete"
	case CascadeSoftDelete:
		return "softDelete"
	}
	return "unknown"
}

// LocationReason classifies the outcome of a geofence check.
type LocationReason string

const (
	ReasonInRange           LocationReason = "In location range"
	ReasonOutOfRange        LocationReason = "Out of location range"
	ReasonRestrictedLoc     LocationReason = "Restricted location"
	ReasonBranchNotSet      LocationReason = "Branch not set"
	ReasonPreferenceMissing LocationReason = "preference not exists"
)

// Hard reports whether the reason must abort the attendance action.
// Out-of-range under a lenient policy is advisory only: the caller records
// it as a compliance flag but does not block.
func (r LocationReason) Hard() bool {
	switch r {
	case ReasonPreferenceMissing, ReasonBranchNotSet, ReasonRestrictedLoc:
		return true
	}
	return false
}

// LocationVerdict is the result of verifying a coordinate against a
// branch geofence.
type LocationVerdict struct {
	ViolatesPolicy bool
	Reason         LocationReason
}
