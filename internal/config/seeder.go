package config

import (
	"context"
	"errors"
	"log"
	"strings"

	"attendly/internal/adapters/persistence/models"
	"attendly/internal/adapters/persistence/store"
	"attendly/internal/core/access"
	"attendly/internal/core/domain"
	"attendly/internal/pkg/password"

	"github.com/google/uuid"
)

// Seeder bootstraps the records the app needs before it can serve a
// request: the admin account, the roles, the work preference, and the
// route-role grant table. Every step is keyed on a natural identifier so
// running the seeder repeatedly never duplicates rows.
type Seeder struct {
	store store.Store
	cfg   *Config
}

// NewSeeder creates a new seeder instance
func NewSeeder(s store.Store, cfg *Config) *Seeder {
	return &Seeder{store: s, cfg: cfg}
}

// Run executes all seeders
func (s *Seeder) Run(ctx context.Context) error {
	log.Println("🌱 Running database seeders...")

	admin, err := s.seedAdminUser(ctx)
	if err != nil {
		return err
	}
	roles, err := s.seedRoles(ctx)
	if err != nil {
		return err
	}
	if err := s.seedUserRole(ctx, admin, roles[domain.RoleCodeAdmin]); err != nil {
		return err
	}
	if err := s.seedPreference(ctx, admin); err != nil {
		return err
	}
	if err := s.seedRouteRoles(ctx, roles); err != nil {
		return err
	}

	log.Println("✅ Database seeding completed")
	return nil
}

// seedAdminUser seeds the default admin account
func (s *Seeder) seedAdminUser(ctx context.Context) (*models.User, error) {
	var existing models.User
	err := s.store.FindOne(ctx, domain.EntityUser, store.Eq{Field: "username", Value: s.cfg.Seed.AdminUsername}, &existing)
	if err == nil {
		return &existing, nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return nil, err
	}

	hashed, err := password.Hash(s.cfg.Seed.AdminPassword)
	if err != nil {
		return nil, err
	}

	admin := &models.User{
		Username: s.cfg.Seed.AdminUsername,
		Name:     "Administrator",
		Password: hashed,
		UserType: domain.UserTypeAdmin,
		IsActive: true,
	}
	if err := s.store.Create(ctx, domain.EntityUser, admin); err != nil {
		return nil, err
	}

	log.Printf("✅ Admin user created: %s", admin.Username)
	return admin, nil
}

// seedRoles seeds the three bootstrap roles and returns them keyed by code
func (s *Seeder) seedRoles(ctx context.Context) (map[string]*models.Role, error) {
	wanted := []struct {
		name string
		code string
	}{
		{name: "Admin", code: domain.RoleCodeAdmin},
		{name: "User", code: domain.RoleCodeUser},
		{name: "System_User", code: domain.RoleCodeSystemUser},
	}

	roles := make(map[string]*models.Role, len(wanted))
	for _, w := range wanted {
		var role models.Role
		err := s.store.FindOne(ctx, domain.EntityRole, store.Eq{Field: "code", Value: w.code}, &role)
		if errors.Is(err, store.ErrNotFound) {
			role = models.Role{Name: w.name, Code: w.code, Weight: 1, IsActive: true}
			if err := s.store.Create(ctx, domain.EntityRole, &role); err != nil {
				return nil, err
			}
			log.Printf("✅ Role created: %s", w.code)
		} else if err != nil {
			return nil, err
		}
		r := role
		roles[w.code] = &r
	}
	return roles, nil
}

// seedUserRole binds the admin account to the admin role
func (s *Seeder) seedUserRole(ctx context.Context, admin *models.User, role *models.Role) error {
	n, err := s.store.Count(ctx, domain.EntityUserRole, store.And{
		store.Eq{Field: "user_id", Value: admin.ID},
		store.Eq{Field: "role_id", Value: role.ID},
	})
	if err != nil {
		return err
	}
	if n > 0 {
		return nil
	}
	return s.store.Create(ctx, domain.EntityUserRole, &models.UserRole{
		UserID:   admin.ID,
		RoleID:   role.ID,
		IsActive: true,
		AddedBy:  &admin.ID,
	})
}

// seedPreference seeds the single work preference with the default office
// geofence. The QR token identifies the office in sign-in QR codes.
func (s *Seeder) seedPreference(ctx context.Context, admin *models.User) error {
	n, err := s.store.Count(ctx, domain.EntityPreference, nil)
	if err != nil {
		return err
	}
	if n > 0 {
		return nil
	}

	pref := &models.Preference{
		WorkDays: "Mon-Fri",
		WorkHour: "09:00-17:00",
		OfficeLocations: []models.OfficeLocation{
			{
				QRToken:   uuid.NewString(),
				Branch:    "Minna",
				Latitude:  9.618485756541178,
				Longitude: 6.5459333488767015,
			},
		},
		IsStrictLocation: true,
		IsActive:         true,
		AddedBy:          &admin.ID,
	}
	if err := s.store.Create(ctx, domain.EntityPreference, pref); err != nil {
		return err
	}
	log.Println("✅ Work preference created")
	return nil
}

// routeSlug derives the stored route name from its uri, every path
// separator replaced: /admin/user/list -> _admin_user_list.
func routeSlug(uri string) string {
	return strings.ReplaceAll(strings.ToLower(uri), "/", "_")
}

// seedRouteRoles expands the grant table into ProjectRoute and RouteRole
// rows. Routes are keyed on (uri, method) and grants on (route, role), so
// reruns only fill gaps.
func (s *Seeder) seedRouteRoles(ctx context.Context, roles map[string]*models.Role) error {
	var created int
	for _, grant := range access.Grants() {
		var route models.ProjectRoute
		err := s.store.FindOne(ctx, domain.EntityProjectRoute, store.And{
			store.Eq{Field: "uri", Value: grant.URI},
			store.Eq{Field: "method", Value: grant.Method},
		}, &route)
		if errors.Is(err, store.ErrNotFound) {
			route = models.ProjectRoute{
				RouteName: routeSlug(grant.URI),
				URI:       grant.URI,
				Method:    grant.Method,
				IsActive:  true,
			}
			if err := s.store.Create(ctx, domain.EntityProjectRoute, &route); err != nil {
				return err
			}
		} else if err != nil {
			return err
		}

		for _, code := range grant.Roles {
			role, ok := roles[code]
			if !ok {
				continue
			}
			n, err := s.store.Count(ctx, domain.EntityRouteRole, store.And{
				store.Eq{Field: "route_id", Value: route.ID},
				store.Eq{Field: "role_id", Value: role.ID},
			})
			if err != nil {
				return err
			}
			if n > 0 {
				continue
			}
			err = s.store.Create(ctx, domain.EntityRouteRole, &models.RouteRole{
				RouteID:  route.ID,
				RoleID:   role.ID,
				IsActive: true,
			})
			if err != nil {
				return err
			}
			created++
		}
	}
	if created > 0 {
		log.Printf("✅ Route-role grants created: %d", created)
	}
	return nil
}
