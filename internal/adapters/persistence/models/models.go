package models

import (
	"time"

	"attendly/internal/core/domain"

	"gorm.io/gorm"
)

// Soft deletion is an explicit flag pair (is_deleted / is_active) rather
// than gorm.DeletedAt: cascades flip the flags across entity types and the
// rows must stay visible to count operations afterwards.

// User represents users table
type User struct {
	ID                uint            `gorm:"primaryKey" json:"id"`
	Username          string          `gorm:"uniqueIndex;size:50;not null" json:"username"`
	Email             string          `gorm:"size:100" json:"email"`
	Name              string          `gorm:"size:100" json:"name"`
	Password          string          `gorm:"size:255;not null" json:"-"`
	UserType          domain.UserType `gorm:"not null;default:1" json:"user_type"`
	LoginRetryLimit   int             `gorm:"default:0" json:"-"`
	LoginReactiveTime *time.Time      `json:"-"`
	IsActive          bool            `gorm:"default:true" json:"is_active"`
	IsDeleted         bool            `gorm:"default:false;index" json:"is_deleted"`
	AddedBy           *uint           `gorm:"index" json:"added_by"`
	UpdatedBy         *uint           `gorm:"index" json:"updated_by"`
	CreatedAt         time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt         time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}

func (User) TableName() string {
	return "users"
}

// UserResponse DTO (password and lockout state stripped)
type UserResponse struct {
	ID        uint            `json:"id"`
	Username  string          `json:"username"`
	Email     string          `json:"email"`
	Name      string          `json:"name"`
	UserType  domain.UserType `json:"user_type"`
	IsActive  bool            `json:"is_active"`
	CreatedAt time.Time       `json:"created_at"`
}

func (u *User) ToResponse() *UserResponse {
	return &UserResponse{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		Name:      u.Name,
		UserType:  u.UserType,
		IsActive:  u.IsActive,
		CreatedAt: u.CreatedAt,
	}
}

// UserToken represents user_tokens table, one row per issued login token
type UserToken struct {
	ID               uint      `gorm:"primaryKey" json:"id"`
	UserID           uint      `gorm:"index;not null" json:"user_id"`
	Token            string    `gorm:"size:512;not null" json:"token"`
	TokenExpiredTime time.Time `gorm:"not null" json:"token_expired_time"`
	IsTokenExpired   bool      `gorm:"default:false" json:"is_token_expired"`
	IsActive         bool      `gorm:"default:true" json:"is_active"`
	IsDeleted        bool      `gorm:"default:false;index" json:"is_deleted"`
	AddedBy          *uint     `gorm:"index" json:"added_by"`
	UpdatedBy        *uint     `gorm:"index" json:"updated_by"`
	CreatedAt        time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt        time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (UserToken) TableName() string {
	return "user_tokens"
}

// Organisation represents organisations table
type Organisation struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Name        string    `gorm:"size:100;not null" json:"name"`
	Description string    `gorm:"type:text" json:"description"`
	IsActive    bool      `gorm:"default:true" json:"is_active"`
	IsDeleted   bool      `gorm:"default:false;index" json:"is_deleted"`
	AddedBy     *uint     `gorm:"index" json:"added_by"`
	UpdatedBy   *uint     `gorm:"index" json:"updated_by"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Organisation) TableName() string {
	return "organisations"
}

// Employee represents employees table
type Employee struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	Name       string    `gorm:"size:100;not null" json:"name"`
	StaffID    string    `gorm:"size:50;index" json:"staff_id"`
	Email      string    `gorm:"size:100" json:"email"`
	Department string    `gorm:"size:100" json:"department"`
	Gender     string    `gorm:"size:20" json:"gender"`
	Branch     string    `gorm:"size:100" json:"branch"`
	IsActive   bool      `gorm:"default:true" json:"is_active"`
	IsDeleted  bool      `gorm:"default:false;index" json:"is_deleted"`
	AddedBy    *uint     `gorm:"index" json:"added_by"`
	UpdatedBy  *uint     `gorm:"index" json:"updated_by"`
	CreatedAt  time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt  time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Employee) TableName() string {
	return "employees"
}

// Attendance represents attendances table, one row per sign-in event.
// At most one open row (signed_out_at IS NULL) per owner per calendar day.
type Attendance struct {
	ID              uint       `gorm:"primaryKey" json:"id"`
	EmployeeID      *uint      `gorm:"index" json:"employee_id"`
	SignedInAt      time.Time  `gorm:"index;not null" json:"signed_in_at"`
	SignedInLat     float64    `json:"signed_in_lat"`
	SignedInLng     float64    `json:"signed_in_lng"`
	IsSignedInFlag  bool       `gorm:"default:false" json:"is_signed_in_flag"`
	SignedOutAt     *time.Time `json:"signed_out_at"`
	SignedOutLat    *float64   `json:"signed_out_lat"`
	SignedOutLng    *float64   `json:"signed_out_lng"`
	IsSignedOutFlag *bool      `json:"is_signed_out_flag"`
	IsActive        bool       `gorm:"default:true" json:"is_active"`
	IsDeleted       bool       `gorm:"default:false;index" json:"is_deleted"`
	AddedBy         *uint      `gorm:"index" json:"added_by"`
	UpdatedBy       *uint      `gorm:"index" json:"updated_by"`
	CreatedAt       time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Attendance) TableName() string {
	return "attendances"
}

// IsOpen reports whether the record has not been signed out yet.
func (a *Attendance) IsOpen() bool {
	return a.SignedOutAt == nil
}

// OfficeLocation is a named office geofence inside a Preference.
type OfficeLocation struct {
	QRToken   string  `json:"qr_token"`
	Branch    string  `json:"branch"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Preference represents preferences table. Exactly one row is expected to
// be active at a time; it is read on every attendance verification and
// never mutated by the attendance subsystem.
type Preference struct {
	ID               uint             `gorm:"primaryKey" json:"id"`
	WorkDays         string           `gorm:"size:100" json:"work_days"`
	WorkHour         string           `gorm:"size:100" json:"work_hour"`
	OfficeLocations  []OfficeLocation `gorm:"serializer:json" json:"office_locations"`
	IsStrictLocation bool             `gorm:"default:false" json:"is_strict_location"`
	IsStrictWorkHour bool             `gorm:"default:false" json:"is_strict_work_hour"`
	IsActive         bool             `gorm:"default:true" json:"is_active"`
	IsDeleted        bool             `gorm:"default:false;index" json:"is_deleted"`
	AddedBy          *uint            `gorm:"index" json:"added_by"`
	UpdatedBy        *uint            `gorm:"index" json:"updated_by"`
	CreatedAt        time.Time        `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt        time.Time        `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Preference) TableName() string {
	return "preferences"
}

// FindOffice looks up a geofence by exact branch name.
func (p *Preference) FindOffice(branch string) (OfficeLocation, bool) {
	for _, loc := range p.OfficeLocations {
		if loc.Branch == branch {
			return loc, true
		}
	}
	return OfficeLocation{}, false
}

// Role represents roles table. Weight is a precedence hint only; no
// hierarchy is applied at authorization time.
type Role struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"size:50;not null" json:"name"`
	Code      string    `gorm:"size:50;uniqueIndex;not null" json:"code"`
	Weight    int       `gorm:"default:1" json:"weight"`
	IsActive  bool      `gorm:"default:true" json:"is_active"`
	IsDeleted bool      `gorm:"default:false;index" json:"is_deleted"`
	AddedBy   *uint     `gorm:"index" json:"added_by"`
	UpdatedBy *uint     `gorm:"index" json:"updated_by"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Role) TableName() string {
	return "roles"
}

// ProjectRoute represents project_routes table, one row per declared
// (uri, method) operation.
type ProjectRoute struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	RouteName string    `gorm:"size:255;index" json:"route_name"`
	URI       string    `gorm:"size:255;index;not null" json:"uri"`
	Method    string    `gorm:"size:10;not null" json:"method"`
	IsActive  bool      `gorm:"default:true" json:"is_active"`
	IsDeleted bool      `gorm:"default:false;index" json:"is_deleted"`
	AddedBy   *uint     `gorm:"index" json:"added_by"`
	UpdatedBy *uint     `gorm:"index" json:"updated_by"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (ProjectRoute) TableName() string {
	return "project_routes"
}

// RouteRole represents route_roles table: a role may invoke a route.
type RouteRole struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	RouteID   uint      `gorm:"index;not null" json:"route_id"`
	RoleID    uint      `gorm:"index;not null" json:"role_id"`
	IsActive  bool      `gorm:"default:true" json:"is_active"`
	IsDeleted bool      `gorm:"default:false;index" json:"is_deleted"`
	AddedBy   *uint     `gorm:"index" json:"added_by"`
	UpdatedBy *uint     `gorm:"index" json:"updated_by"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (RouteRole) TableName() string {
	return "route_roles"
}

// UserRole represents user_roles table: an account holds a role.
type UserRole struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"index;not null" json:"user_id"`
	RoleID    uint      `gorm:"index;not null" json:"role_id"`
	IsActive  bool      `gorm:"default:true" json:"is_active"`
	IsDeleted bool      `gorm:"default:false;index" json:"is_deleted"`
	AddedBy   *uint     `gorm:"index" json:"added_by"`
	UpdatedBy *uint     `gorm:"index" json:"updated_by"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (UserRole) TableName() string {
	return "user_roles"
}

// For returns a zero model value for an entity, used by the generic store
// to bind queries to the right table.
func For(e domain.Entity) interface{} {
	switch e {
	case domain.EntityOrganisation:
		return &Organisation{}
	case domain.EntityPreference:
		return &Preference{}
	case domain.EntityAttendance:
		return &Attendance{}
	case domain.EntityEmployee:
		return &Employee{}
	case domain.EntityUser:
		return &User{}
	case domain.EntityUserToken:
		return &UserToken{}
	case domain.EntityRole:
		return &Role{}
	case domain.EntityProjectRoute:
		return &ProjectRoute{}
	case domain.EntityRouteRole:
		return &RouteRole{}
	case domain.EntityUserRole:
		return &UserRole{}
	}
	return nil
}

// AutoMigrate runs auto migration for all tables
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&User{},
		&UserToken{},
		&Organisation{},
		&Employee{},
		&Attendance{},
		&Preference{},
		&Role{},
		&ProjectRoute{},
		&RouteRole{},
		&UserRole{},
	)
}
