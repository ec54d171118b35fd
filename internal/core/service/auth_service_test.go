package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/venuetrack/checkin-system/internal/core/domain"
	"github.com/venuetrack/checkin-system/internal/core/ports"
)

type stubUserRepo struct {
	users  map[string]*domain.User // keyed by id
	nextID int
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{users: make(map[string]*domain.User)}
}

func (r *stubUserRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			clone := *u
			return &clone, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) FindByID(_ context.Context, id string) (*domain.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	clone := *u
	return &clone, nil
}

func (r *stubUserRepo) FindByIDs(_ context.Context, ids []string) ([]*domain.User, error) {
	out := make([]*domain.User, 0, len(ids))
	for _, id := range ids {
		if u, ok := r.users[id]; ok {
			clone := *u
			out = append(out, &clone)
		}
	}
	return out, nil
}

func (r *stubUserRepo) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	for _, u := range r.users {
		if u.Email == user.Email {
			return nil, domain.ErrUserExists
		}
	}
	r.nextID++
	clone := *user
	clone.ID = testID(100 + r.nextID)
	r.users[clone.ID] = &clone
	out := clone
	return &out, nil
}

func (r *stubUserRepo) Update(_ context.Context, id string, user *domain.User) error {
	stored, ok := r.users[id]
	if !ok {
		return domain.ErrUserNotFound
	}
	clone := *user
	clone.ID = id
	if clone.PasswordHash == "" {
		clone.PasswordHash = stored.PasswordHash
	}
	r.users[id] = &clone
	return nil
}

func (r *stubUserRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.users[id]; !ok {
		return domain.ErrUserNotFound
	}
	delete(r.users, id)
	return nil
}

const testSecret = "test-secret"

func registerTestUser(t *testing.T, svc *AuthService, email, password, role string) *domain.User {
	t.Helper()
	user, err := svc.Register(context.Background(), ports.RegisterInput{
		FirstName: "Ada",
		LastName:  "Lovelace",
		Email:     email,
		Password:  password,
		Role:      role,
	})
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	return user
}

func TestAuthService_Register(t *testing.T) {
	repo := newStubUserRepo()
	svc := NewAuthService(repo, testSecret, 0)

	user := registerTestUser(t, svc, "ada@example.com", "s3cret!", domain.RoleAdmin)

	if user.ID == "" {
		t.Fatal("expected an assigned user ID")
	}
	if user.PasswordHash == "s3cret!" {
		t.Fatal("password stored in clear")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("s3cret!")); err != nil {
		t.Fatalf("stored hash does not match password: %v", err)
	}
}

func TestAuthService_Register_InvalidRole(t *testing.T) {
	svc := NewAuthService(newStubUserRepo(), testSecret, 0)

	_, err := svc.Register(context.Background(), ports.RegisterInput{
		Email: "ada@example.com", Password: "s3cret!", Role: "superuser",
	})
	if !errors.Is(err, domain.ErrInvalidRole) {
		t.Fatalf("expected ErrInvalidRole, got %v", err)
	}
}

func TestAuthService_Register_DuplicateEmail(t *testing.T) {
	svc := NewAuthService(newStubUserRepo(), testSecret, 0)
	registerTestUser(t, svc, "ada@example.com", "s3cret!", domain.RoleStaff)

	_, err := svc.Register(context.Background(), ports.RegisterInput{
		Email: "ada@example.com", Password: "other", Role: domain.RoleStaff,
	})
	if !errors.Is(err, domain.ErrUserExists) {
		t.Fatalf("expected ErrUserExists, got %v", err)
	}
}

func TestAuthService_Login_RoundTrip(t *testing.T) {
	svc := NewAuthService(newStubUserRepo(), testSecret, 0)
	user := registerTestUser(t, svc, "ada@example.com", "s3cret!", domain.RoleManager)

	token, logged, err := svc.Login(context.Background(), "ada@example.com", "s3cret!")
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}
	if logged.ID != user.ID {
		t.Fatalf("logged-in user id = %q, want %q", logged.ID, user.ID)
	}

	claims, err := svc.Verify(token)
	if err != nil {
		t.Fatalf("Verify failed: %v", err)
	}
	if claims.UserID != user.ID || claims.Role != domain.RoleManager {
		t.Fatalf("unexpected claims: %+v", claims)
	}
}

func TestAuthService_Login_WrongPassword(t *testing.T) {
	svc := NewAuthService(newStubUserRepo(), testSecret, 0)
	registerTestUser(t, svc, "ada@example.com", "s3cret!", domain.RoleStaff)

	_, _, err := svc.Login(context.Background(), "ada@example.com", "nope")
	if !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestAuthService_Login_UnknownUser(t *testing.T) {
	svc := NewAuthService(newStubUserRepo(), testSecret, 0)

	_, _, err := svc.Login(context.Background(), "ghost@example.com", "whatever")
	if !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestAuthService_Verify_Expired(t *testing.T) {
	svc := NewAuthService(newStubUserRepo(), testSecret, 0)

	past := time.Now().Add(-2 * time.Hour)
	claims := tokenClaims{
		UserID: testID(101),
		Role:   domain.RoleStaff,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(past),
			ExpiresAt: jwt.NewNumericDate(past.Add(time.Hour)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	if err != nil {
		t.Fatalf("signing test token: %v", err)
	}

	_, err = svc.Verify(token)
	if !errors.Is(err, domain.ErrTokenExpired) {
		t.Fatalf("expected ErrTokenExpired, got %v", err)
	}
}

func TestAuthService_Verify_Invalid(t *testing.T) {
	svc := NewAuthService(newStubUserRepo(), testSecret, 0)
	user := registerTestUser(t, svc, "ada@example.com", "s3cret!", domain.RoleStaff)

	token, _, err := svc.Login(context.Background(), user.Email, "s3cret!")
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}

	// Tampered signature.
	if _, err := svc.Verify(token + "x"); !errors.Is(err, domain.ErrTokenInvalid) {
		t.Fatalf("expected ErrTokenInvalid for tampered token, got %v", err)
	}
	// Signed with some other secret.
	other := NewAuthService(newStubUserRepo(), "another-secret", 0)
	if _, err := other.Verify(token); !errors.Is(err, domain.ErrTokenInvalid) {
		t.Fatalf("expected ErrTokenInvalid for foreign secret, got %v", err)
	}
	if _, err := svc.Verify("not-a-jwt"); !errors.Is(err, domain.ErrTokenInvalid) {
		t.Fatalf("expected ErrTokenInvalid for garbage, got %v", err)
	}
}
