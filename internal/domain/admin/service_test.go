package admin

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/clinic/clinic/internal/platform/apperr"
	"github.com/clinic/clinic/internal/platform/auth"
)

// -- Mocks --

type mockUserRepo struct {
	users map[uuid.UUID]*User
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{users: make(map[uuid.UUID]*User)}
}

func (m *mockUserRepo) Create(_ context.Context, u *User) error {
	for _, other := range m.users {
		if other.Email == u.Email {
			return apperr.Conflict("an account with this email already exists")
		}
	}
	u.CreatedAt = time.Now()
	u.UpdatedAt = u.CreatedAt
	m.users[u.ID] = u
	return nil
}

func (m *mockUserRepo) GetByID(_ context.Context, id uuid.UUID) (*User, error) {
	u, ok := m.users[id]
	if !ok {
		return nil, apperr.ErrNotFoundOrUnauthorized
	}
	return u, nil
}

func (m *mockUserRepo) GetByEmail(_ context.Context, email string) (*User, error) {
	for _, u := range m.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, apperr.ErrNotFoundOrUnauthorized
}

type mockClinicRepo struct {
	clinics    map[uuid.UUID]*Clinic
	members    map[uuid.UUID]uuid.UUID
	failMember error
}

func newMockClinicRepo() *mockClinicRepo {
	return &mockClinicRepo{clinics: make(map[uuid.UUID]*Clinic), members: make(map[uuid.UUID]uuid.UUID)}
}

func (m *mockClinicRepo) Create(_ context.Context, c *Clinic) error {
	m.clinics[c.ID] = c
	return nil
}

func (m *mockClinicRepo) GetByID(_ context.Context, id uuid.UUID) (*Clinic, error) {
	c, ok := m.clinics[id]
	if !ok {
		return nil, apperr.ErrNotFoundOrUnauthorized
	}
	return c, nil
}

func (m *mockClinicRepo) AddMember(_ context.Context, userID, clinicID uuid.UUID) error {
	if m.failMember != nil {
		return m.failMember
	}
	if _, ok := m.members[userID]; ok {
		return apperr.Conflict("user already belongs to a clinic")
	}
	m.members[userID] = clinicID
	return nil
}

func (m *mockClinicRepo) ClinicIDForUser(_ context.Context, userID uuid.UUID) (*uuid.UUID, error) {
	id, ok := m.members[userID]
	if !ok {
		return nil, nil
	}
	return &id, nil
}

// mockTx undoes clinic inserts when fn fails, like a rolled back
// transaction would.
type mockTx struct {
	clinics *mockClinicRepo
	calls   int
}

func (m *mockTx) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	m.calls++
	before := make(map[uuid.UUID]bool, len(m.clinics.clinics))
	for id := range m.clinics.clinics {
		before[id] = true
	}
	err := fn(ctx)
	if err != nil {
		for id := range m.clinics.clinics {
			if !before[id] {
				delete(m.clinics.clinics, id)
			}
		}
	}
	return err
}

const testSecret = "test-secret-key-for-admin-tests"

func newTestService() (*Service, *mockUserRepo, *mockClinicRepo, *mockTx) {
	users := newMockUserRepo()
	clinics := newMockClinicRepo()
	tx := &mockTx{clinics: clinics}
	tokens := auth.NewTokenIssuer([]byte(testSecret), "clinic-test", time.Hour)
	return NewService(users, clinics, tx, tokens, bcrypt.MinCost, zerolog.Nop()), users, clinics, tx
}

func signUp(t *testing.T, svc *Service) *TokenResponse {
	t.Helper()
	resp, err := svc.SignUp(context.Background(), SignUpInput{Name: "Ana", Email: "Ana@Clinic.com", Password: "s3cret-pass"})
	if err != nil {
		t.Fatalf("sign up: %v", err)
	}
	return resp
}

// -- SignUp / SignIn --

func TestSignUp(t *testing.T) {
	svc, users, _, _ := newTestService()
	resp := signUp(t, svc)

	if resp.AccessToken == "" || resp.TokenType != "Bearer" {
		t.Errorf("unexpected token response %+v", resp)
	}
	u := users.users[resp.User.ID]
	if u.Email != "ana@clinic.com" {
		t.Errorf("expected normalized email, got %s", u.Email)
	}
	if u.PasswordHash == "s3cret-pass" {
		t.Error("password stored in plain text")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte("s3cret-pass")); err != nil {
		t.Errorf("stored hash does not match: %v", err)
	}
}

func TestSignUp_DuplicateEmail(t *testing.T) {
	svc, _, _, _ := newTestService()
	signUp(t, svc)
	_, err := svc.SignUp(context.Background(), SignUpInput{Name: "Other", Email: "ana@clinic.com", Password: "another-pass"})
	if !errors.Is(err, apperr.ErrConflict) {
		t.Errorf("expected ErrConflict, got %v", err)
	}
}

func TestSignUp_Validation(t *testing.T) {
	svc, _, _, _ := newTestService()
	cases := []SignUpInput{
		{Name: "", Email: "a@b.com", Password: "long-enough"},
		{Name: "A", Email: "nope", Password: "long-enough"},
		{Name: "A", Email: "a@b.com", Password: "short"},
	}
	for _, in := range cases {
		if _, err := svc.SignUp(context.Background(), in); !errors.Is(err, apperr.ErrValidation) {
			t.Errorf("%+v: expected ErrValidation, got %v", in, err)
		}
	}
}

func TestSignIn(t *testing.T) {
	svc, _, _, _ := newTestService()
	created := signUp(t, svc)

	resp, err := svc.SignIn(context.Background(), SignInInput{Email: "ANA@clinic.com ", Password: "s3cret-pass"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.User.ID != created.User.ID {
		t.Error("signed in as the wrong user")
	}
}

func TestSignIn_BadCredentialsLookAlike(t *testing.T) {
	svc, _, _, _ := newTestService()
	signUp(t, svc)

	_, wrongPass := svc.SignIn(context.Background(), SignInInput{Email: "ana@clinic.com", Password: "wrong-pass"})
	_, unknown := svc.SignIn(context.Background(), SignInInput{Email: "nobody@clinic.com", Password: "s3cret-pass"})
	if !errors.Is(wrongPass, apperr.ErrUnauthorized) || !errors.Is(unknown, apperr.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v / %v", wrongPass, unknown)
	}
	if wrongPass.Error() != unknown.Error() {
		t.Errorf("messages differ: %q vs %q", wrongPass, unknown)
	}
}

// -- Clinics --

func TestCreateClinic(t *testing.T) {
	svc, _, clinics, tx := newTestService()
	user := signUp(t, svc).User
	sess := auth.Session{UserID: user.ID}

	c, err := svc.CreateClinic(context.Background(), sess, CreateClinicInput{Name: " Clínica Sorriso "})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.Name != "Clínica Sorriso" {
		t.Errorf("expected trimmed name, got %q", c.Name)
	}
	if tx.calls != 1 {
		t.Errorf("expected one transaction, got %d", tx.calls)
	}
	got, _ := svc.ClinicIDForUser(context.Background(), user.ID)
	if got == nil || *got != c.ID {
		t.Error("expected membership to be recorded")
	}
	if len(clinics.clinics) != 1 {
		t.Errorf("expected 1 clinic, got %d", len(clinics.clinics))
	}
}

func TestCreateClinic_AlreadyMember(t *testing.T) {
	svc, _, _, _ := newTestService()
	clinicID := uuid.New()
	_, err := svc.CreateClinic(context.Background(), auth.Session{UserID: uuid.New(), ClinicID: &clinicID}, CreateClinicInput{Name: "X"})
	if !errors.Is(err, apperr.ErrConflict) {
		t.Errorf("expected ErrConflict, got %v", err)
	}
}

func TestCreateClinic_RollsBackOnMembershipFailure(t *testing.T) {
	svc, _, clinics, _ := newTestService()
	clinics.failMember = errors.New("boom")

	_, err := svc.CreateClinic(context.Background(), auth.Session{UserID: uuid.New()}, CreateClinicInput{Name: "X"})
	if err == nil {
		t.Fatal("expected error")
	}
	if len(clinics.clinics) != 0 {
		t.Error("expected clinic insert rolled back")
	}
}

func TestCreateClinic_Unauthorized(t *testing.T) {
	svc, _, _, _ := newTestService()
	_, err := svc.CreateClinic(context.Background(), auth.Session{}, CreateClinicInput{Name: "X"})
	if !errors.Is(err, apperr.ErrUnauthorized) {
		t.Errorf("expected ErrUnauthorized, got %v", err)
	}
}

func TestMe(t *testing.T) {
	svc, _, _, _ := newTestService()
	user := signUp(t, svc).User

	me, err := svc.Me(context.Background(), auth.Session{UserID: user.ID})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if me.Clinic != nil {
		t.Error("expected no clinic yet")
	}

	c, err := svc.CreateClinic(context.Background(), auth.Session{UserID: user.ID}, CreateClinicInput{Name: "X"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	me, err = svc.Me(context.Background(), auth.Session{UserID: user.ID, ClinicID: &c.ID})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if me.Clinic == nil || me.Clinic.ID != c.ID {
		t.Errorf("expected clinic %s in Me", c.ID)
	}
}
