package service

import (
	"context"
	"errors"
	"reflect"
	"sync"
	"testing"

	"golang.org/x/crypto/bcrypt"

	"github.com/Aaya-Elsharief/Agri-pal/internal/core/domain"
	"github.com/Aaya-Elsharief/Agri-pal/internal/core/ports"
)

func registerInput(username string, role domain.Role) ports.RegisterInput {
	return ports.RegisterInput{
		Username: username,
		Password: "pass123",
		Role:     string(role),
		FullName: "Amina Bello",
		Phone:    "+2348000000000",
		Location: "Kano",
	}
}

func TestAuthService_Register_Success(t *testing.T) {
	repo := newStubUserRepo()
	svc := NewAuthService(repo, stubIssuer{}, discardLogger)

	res, err := svc.Register(context.Background(), registerInput("amina", domain.RoleFarmer))
	if err != nil {
		t.Fatalf("Register returned error: %v", err)
	}
	if res.Token != "token-user-1-farmer" {
		t.Errorf("unexpected token: %q", res.Token)
	}
	if res.User.PasswordHash != "" {
		t.Errorf("returned user must not carry the password hash")
	}
	if res.User.Role != domain.RoleFarmer || res.User.FullName != "Amina Bello" {
		t.Errorf("unexpected user: %+v", res.User)
	}
	if res.User.CreatedAt.IsZero() {
		t.Error("CreatedAt must be set")
	}

	stored := repo.byUsername["amina"]
	if stored.PasswordHash == "pass123" {
		t.Fatalf("expected password to be hashed")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("pass123")); err != nil {
		t.Fatalf("stored hash does not match password: %v", err)
	}
}

func TestAuthService_Register_MissingFields(t *testing.T) {
	svc := NewAuthService(newStubUserRepo(), stubIssuer{}, discardLogger)

	_, err := svc.Register(context.Background(), ports.RegisterInput{Username: "bob", Role: "trader"})

	var ve *domain.ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	want := []string{"password", "full_name", "phone", "location"}
	if !reflect.DeepEqual(ve.Missing, want) {
		t.Errorf("missing = %v, want %v", ve.Missing, want)
	}
}

func TestAuthService_Register_RejectsUnknownRole(t *testing.T) {
	svc := NewAuthService(newStubUserRepo(), stubIssuer{}, discardLogger)

	for _, role := range []string{"admin", "Farmer", "TRADER"} {
		in := registerInput("bob", domain.RoleTrader)
		in.Role = role
		_, err := svc.Register(context.Background(), in)

		var ve *domain.ValidationError
		if !errors.As(err, &ve) {
			t.Fatalf("role %q: expected ValidationError, got %v", role, err)
		}
		if ve.Error() != "Role must be 'farmer' or 'trader'" {
			t.Errorf("role %q: unexpected message %q", role, ve.Error())
		}
	}
}

func TestAuthService_Register_Duplicate(t *testing.T) {
	svc := NewAuthService(newStubUserRepo(), stubIssuer{}, discardLogger)

	if _, err := svc.Register(context.Background(), registerInput("bob", domain.RoleTrader)); err != nil {
		t.Fatalf("first register failed: %v", err)
	}
	if _, err := svc.Register(context.Background(), registerInput("bob", domain.RoleFarmer)); !errors.Is(err, domain.ErrUserExists) {
		t.Fatalf("expected ErrUserExists, got %v", err)
	}
}

func TestAuthService_Register_ConcurrentDuplicate(t *testing.T) {
	svc := NewAuthService(newStubUserRepo(), stubIssuer{}, discardLogger)

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = svc.Register(context.Background(), registerInput("race", domain.RoleTrader))
		}(i)
	}
	wg.Wait()

	var ok, dup int
	for _, err := range errs {
		switch {
		case err == nil:
			ok++
		case errors.Is(err, domain.ErrUserExists):
			dup++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if ok != 1 || dup != 1 {
		t.Fatalf("expected one success and one conflict, got %d/%d", ok, dup)
	}
}

func TestAuthService_Login_Success(t *testing.T) {
	svc := NewAuthService(newStubUserRepo(), stubIssuer{}, discardLogger)
	if _, err := svc.Register(context.Background(), registerInput("carol", domain.RoleTrader)); err != nil {
		t.Fatalf("register failed: %v", err)
	}

	res, err := svc.Login(context.Background(), ports.LoginInput{Username: "carol", Password: "pass123"})
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if res.Token == "" {
		t.Fatal("expected token, got empty")
	}
	if res.User.Username != "carol" || res.User.PasswordHash != "" {
		t.Fatalf("unexpected user: %+v", res.User)
	}
}

func TestAuthService_Login_InvalidPassword(t *testing.T) {
	svc := NewAuthService(newStubUserRepo(), stubIssuer{}, discardLogger)
	_, _ = svc.Register(context.Background(), registerInput("dave", domain.RoleFarmer))

	if _, err := svc.Login(context.Background(), ports.LoginInput{Username: "dave", Password: "bad"}); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestAuthService_Login_UserNotFound(t *testing.T) {
	svc := NewAuthService(newStubUserRepo(), stubIssuer{}, discardLogger)

	if _, err := svc.Login(context.Background(), ports.LoginInput{Username: "ghost", Password: "pass"}); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestAuthService_Login_MissingCredentials(t *testing.T) {
	svc := NewAuthService(newStubUserRepo(), stubIssuer{}, discardLogger)

	_, err := svc.Login(context.Background(), ports.LoginInput{Username: "eve"})

	var ve *domain.ValidationError
	if !errors.As(err, &ve) || ve.Error() != "Username and password are required" {
		t.Fatalf("expected credential validation error, got %v", err)
	}
}

func TestAuthService_Profile(t *testing.T) {
	repo := newStubUserRepo()
	svc := NewAuthService(repo, stubIssuer{}, discardLogger)
	res, _ := svc.Register(context.Background(), registerInput("fatima", domain.RoleFarmer))

	user, err := svc.Profile(context.Background(), domain.Principal{UserID: res.User.ID, Role: domain.RoleFarmer})
	if err != nil {
		t.Fatalf("profile failed: %v", err)
	}
	if user.Username != "fatima" || user.PasswordHash != "" {
		t.Fatalf("unexpected profile: %+v", user)
	}

	if _, err := svc.Profile(context.Background(), domain.Principal{UserID: "missing", Role: domain.RoleFarmer}); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}
