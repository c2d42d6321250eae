package pg

import (
	"context"
	"errors"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/glzzd/orion/internal/auth"
	"github.com/glzzd/orion/internal/orgunit"
	"github.com/glzzd/orion/internal/rbac"
	"github.com/glzzd/orion/internal/tenant"
)

func newMockStore(t *testing.T) (*Store, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return NewStore(db), mock
}

func uniqueViolation() error {
	return &pgconn.PgError{Code: pgErrUniqueViolation, ConstraintName: "users_tenant_username_key"}
}

func fkViolation() error {
	return &pgconn.PgError{Code: pgErrForeignKeyViolation}
}

func TestCreateUserMapsUniqueViolation(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectQuery(`insert into users`).WillReturnError(uniqueViolation())

	err := store.CreateUser(context.Background(), &auth.User{
		ID: "u1", TenantID: "t1", Username: "john", Email: "john@example.com",
		PasswordHash: "hash", Status: auth.UserStatusActive,
	})
	if !errors.Is(err, auth.ErrConflict) {
		t.Fatalf("expected auth.ErrConflict, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

func TestFindUserNotFound(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectQuery(`select .+ from users where id = \$1`).
		WithArgs("ghost").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := store.FindUser(context.Background(), "ghost")
	if !errors.Is(err, auth.ErrNotFound) {
		t.Fatalf("expected auth.ErrNotFound, got %v", err)
	}
}

func TestFindUserDecodesPersonalData(t *testing.T) {
	store, mock := newMockStore(t)

	now := time.Now()
	rows := sqlmock.NewRows([]string{
		"id", "tenant_id", "username", "email", "password_hash", "status", "personal", "created_at", "updated_at",
	}).AddRow("u1", "t1", "john", "john@example.com", "hash", "ACTIVE",
		[]byte(`{"firstName":"John","lastName":"Doe"}`), now, now)
	mock.ExpectQuery(`select .+ from users where id = \$1`).WithArgs("u1").WillReturnRows(rows)

	user, err := store.FindUser(context.Background(), "u1")
	if err != nil {
		t.Fatalf("FindUser: %v", err)
	}
	if user.PersonalData.FirstName != "John" || user.PersonalData.LastName != "Doe" {
		t.Fatalf("personal data = %+v", user.PersonalData)
	}
}

func TestRemoveRefreshTokenReportsAffectedRows(t *testing.T) {
	store, mock := newMockStore(t)
	ctx := context.Background()

	mock.ExpectExec(`delete from refresh_tokens where user_id = \$1 and token = \$2`).
		WithArgs("u1", "tok").
		WillReturnResult(sqlmock.NewResult(0, 1))
	removed, err := store.RemoveRefreshToken(ctx, "u1", "tok")
	if err != nil || !removed {
		t.Fatalf("first removal: removed=%v err=%v", removed, err)
	}

	mock.ExpectExec(`delete from refresh_tokens where user_id = \$1 and token = \$2`).
		WithArgs("u1", "tok").
		WillReturnResult(sqlmock.NewResult(0, 0))
	removed, err = store.RemoveRefreshToken(ctx, "u1", "tok")
	if err != nil {
		t.Fatalf("second removal: %v", err)
	}
	if removed {
		t.Fatal("second removal of same token must report false")
	}
}

func TestAddRefreshTokenUnknownUser(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectExec(`insert into refresh_tokens`).WillReturnError(fkViolation())

	if err := store.AddRefreshToken(context.Background(), "ghost", "tok"); !errors.Is(err, auth.ErrNotFound) {
		t.Fatalf("expected auth.ErrNotFound, got %v", err)
	}
}

func TestCreatePermissionMapsUniqueViolation(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectQuery(`insert into permissions`).WillReturnError(uniqueViolation())

	err := store.CreatePermission(context.Background(), &rbac.Permission{
		ID: "p1", Slug: "hr:read", Name: "View HR", Group: "HR",
	})
	if !errors.Is(err, rbac.ErrConflict) {
		t.Fatalf("expected rbac.ErrConflict, got %v", err)
	}
}

func TestAssignRoleErrorMapping(t *testing.T) {
	store, mock := newMockStore(t)
	ctx := context.Background()
	a := rbac.RoleAssignment{RoleID: "r1", AssignedAt: time.Now(), AssignedBy: "admin"}

	mock.ExpectExec(`insert into user_roles`).WillReturnError(uniqueViolation())
	if err := store.AssignRole(ctx, "u1", a); !errors.Is(err, rbac.ErrConflict) {
		t.Fatalf("duplicate assignment: %v", err)
	}

	mock.ExpectExec(`insert into user_roles`).WillReturnError(fkViolation())
	if err := store.AssignRole(ctx, "u1", a); !errors.Is(err, rbac.ErrNotFound) {
		t.Fatalf("missing user or role: %v", err)
	}
}

func TestRemoveRoleNotFound(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectExec(`delete from user_roles`).
		WithArgs("u1", "r1").
		WillReturnResult(sqlmock.NewResult(0, 0))

	if err := store.RemoveRole(context.Background(), "u1", "r1"); !errors.Is(err, rbac.ErrNotFound) {
		t.Fatalf("expected rbac.ErrNotFound, got %v", err)
	}
}

func TestGetRoleLoadsPermissions(t *testing.T) {
	store, mock := newMockStore(t)

	now := time.Now()
	mock.ExpectQuery(`select id, tenant_id, name, description, created_at, updated_at\s+from roles where id = \$1`).
		WithArgs("r1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "tenant_id", "name", "description", "created_at", "updated_at"}).
			AddRow("r1", "t1", "HR_ADMIN", "", now, now))
	mock.ExpectQuery(`select slug from role_permissions where role_id = \$1`).
		WithArgs("r1").
		WillReturnRows(sqlmock.NewRows([]string{"slug"}).AddRow("admin:users").AddRow("hr:read"))

	role, err := store.GetRole(context.Background(), "r1")
	if err != nil {
		t.Fatalf("GetRole: %v", err)
	}
	if len(role.Permissions) != 2 || role.Permissions[0] != "admin:users" {
		t.Fatalf("permissions = %v", role.Permissions)
	}
}

func TestCreateTenantMapsUniqueViolation(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectQuery(`insert into tenants`).WillReturnError(uniqueViolation())

	err := store.CreateTenant(context.Background(), &tenant.Tenant{
		ID: "t1", Code: "ACME", Name: "Acme", Type: tenant.TypePrivate, Status: tenant.StatusActive,
	})
	if !errors.Is(err, tenant.ErrConflict) {
		t.Fatalf("expected tenant.ErrConflict, got %v", err)
	}
}

func TestInsertUnitMapsViolations(t *testing.T) {
	store, mock := newMockStore(t)
	ctx := context.Background()
	unit := &orgunit.Unit{
		ID: "ou1", TenantID: "t1", Code: "HQ", Name: "HQ", Type: orgunit.TypeHeadOffice,
		Path: "HQ", Classification: orgunit.ClassificationInternal, Status: orgunit.StatusActive,
		CreatedAt: time.Now(), UpdatedAt: time.Now(),
	}

	mock.ExpectExec(`insert into organization_units`).WillReturnError(uniqueViolation())
	if err := store.InsertUnit(ctx, unit); !errors.Is(err, orgunit.ErrPathConflict) {
		t.Fatalf("duplicate path: %v", err)
	}

	mock.ExpectExec(`insert into organization_units`).WillReturnError(fkViolation())
	if err := store.InsertUnit(ctx, unit); !errors.Is(err, orgunit.ErrParentNotFound) {
		t.Fatalf("missing parent: %v", err)
	}
}

func TestUpdateUnitNotFound(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectExec(`update organization_units`).WillReturnResult(sqlmock.NewResult(0, 0))

	err := store.UpdateUnit(context.Background(), &orgunit.Unit{ID: "ghost", TenantID: "t1"})
	if !errors.Is(err, orgunit.ErrNotFound) {
		t.Fatalf("expected orgunit.ErrNotFound, got %v", err)
	}
}
