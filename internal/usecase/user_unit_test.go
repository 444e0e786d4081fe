package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/codeclannigeria/codeclannigeria.dev/internal/core/domain"
)

func TestRequireRole(t *testing.T) {
	admin := domain.User{ID: "a", Role: domain.RoleAdmin}
	mentee := domain.User{ID: "m", Role: domain.RoleMentee}

	if err := RequireRole(admin, domain.RoleAdmin); err != nil {
		t.Fatalf("admin should pass admin gate: %v", err)
	}
	if err := RequireRole(mentee, domain.RoleAdmin); !errors.Is(err, ErrPermissionDenied) {
		t.Fatalf("expected ErrPermissionDenied, got %v", err)
	}
	if err := RequireRole(mentee, domain.RoleMentor, domain.RoleMentee); err != nil {
		t.Fatalf("multi-role gate should accept mentee: %v", err)
	}
}

func TestUserServiceAdminGates(t *testing.T) {
	admin := domain.User{ID: "admin-1", Role: domain.RoleAdmin}
	mentee := domain.User{ID: "mentee-1", Email: "m@example.com", Role: domain.RoleMentee}
	users := newUserRepoMock(admin, mentee)
	svc := NewUserService(users, nil)

	if _, err := svc.List(context.Background(), mentee, 10, 0); !errors.Is(err, ErrPermissionDenied) {
		t.Fatalf("expected ErrPermissionDenied for mentee list, got %v", err)
	}
	if _, err := svc.List(context.Background(), admin, 10, 0); err != nil {
		t.Fatalf("admin list failed: %v", err)
	}

	if err := svc.Delete(context.Background(), mentee, admin.ID); !errors.Is(err, ErrPermissionDenied) {
		t.Fatalf("expected ErrPermissionDenied for mentee delete, got %v", err)
	}
	if err := svc.Delete(context.Background(), admin, mentee.ID); err != nil {
		t.Fatalf("admin delete failed: %v", err)
	}
	if users.deletedID != mentee.ID {
		t.Fatalf("expected %s deleted, got %s", mentee.ID, users.deletedID)
	}
}

func TestUserServiceUpdateProfile(t *testing.T) {
	owner := domain.User{ID: "user-1", Email: "o@example.com", Role: domain.RoleMentee, FirstName: "Ada"}
	other := domain.User{ID: "user-2", Email: "x@example.com", Role: domain.RoleMentee}
	users := newUserRepoMock(owner, other)
	svc := NewUserService(users, nil)

	phone := "+2348012345678"
	updated, err := svc.UpdateProfile(context.Background(), owner, owner.ID, ProfileUpdate{
		LastName:     "Obi",
		PhoneNumber:  &phone,
		Technologies: []string{"go", "postgres"},
	})
	if err != nil {
		t.Fatalf("UpdateProfile returned error: %v", err)
	}
	if updated.LastName != "Obi" || updated.FirstName != "Ada" {
		t.Fatalf("unexpected profile: %+v", updated)
	}
	if updated.PhoneNumber == nil || *updated.PhoneNumber != phone {
		t.Fatal("phone number not applied")
	}

	if _, err := svc.UpdateProfile(context.Background(), other, owner.ID, ProfileUpdate{LastName: "Hack"}); !errors.Is(err, ErrPermissionDenied) {
		t.Fatalf("expected ErrPermissionDenied for foreign profile, got %v", err)
	}
}

func TestUserServicePromoteToMentor(t *testing.T) {
	admin := domain.User{ID: "admin-1", Role: domain.RoleAdmin}
	mentee := domain.User{ID: "mentee-1", Email: "m@example.com", Role: domain.RoleMentee}
	users := newUserRepoMock(admin, mentee)
	svc := NewUserService(users, nil)

	promoted, err := svc.PromoteToMentor(context.Background(), admin, mentee.ID)
	if err != nil {
		t.Fatalf("PromoteToMentor returned error: %v", err)
	}
	if promoted.Role != domain.RoleMentor {
		t.Fatalf("expected MENTOR role, got %s", promoted.Role)
	}

	if _, err := svc.PromoteToMentor(context.Background(), mentee, admin.ID); !errors.Is(err, ErrPermissionDenied) {
		t.Fatalf("expected ErrPermissionDenied, got %v", err)
	}
}
