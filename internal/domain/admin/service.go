package admin

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/clinic/clinic/internal/platform/apperr"
	"github.com/clinic/clinic/internal/platform/auth"
	"github.com/clinic/clinic/internal/platform/db"
)

var errBadCredentials = fmt.Errorf("%w: invalid email or password", apperr.ErrUnauthorized)

// TokenIssuer is satisfied by *auth.TokenIssuer.
type TokenIssuer interface {
	Issue(userID uuid.UUID, email string) (string, time.Time, error)
}

type Service struct {
	users      UserRepository
	clinics    ClinicRepository
	tx         db.TxRunner
	tokens     TokenIssuer
	bcryptCost int
	logger     zerolog.Logger
}

// NewService wires the account service. A bcryptCost outside bcrypt's
// range falls back to bcrypt.DefaultCost.
func NewService(users UserRepository, clinics ClinicRepository, tx db.TxRunner, tokens TokenIssuer,
	bcryptCost int, logger zerolog.Logger) *Service {
	if bcryptCost < bcrypt.MinCost || bcryptCost > bcrypt.MaxCost {
		bcryptCost = bcrypt.DefaultCost
	}
	return &Service{users: users, clinics: clinics, tx: tx, tokens: tokens, bcryptCost: bcryptCost, logger: logger}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// SignUp creates an account and signs it in.
func (s *Service) SignUp(ctx context.Context, in SignUpInput) (*TokenResponse, error) {
	if strings.TrimSpace(in.Name) == "" {
		return nil, apperr.Validation("name is required")
	}
	if !strings.Contains(in.Email, "@") {
		return nil, apperr.Validation("email must be a valid email")
	}
	if len(in.Password) < 8 {
		return nil, apperr.Validation("password must be at least 8 characters")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	u := &User{
		ID:           uuid.New(),
		Name:         strings.TrimSpace(in.Name),
		Email:        normalizeEmail(in.Email),
		PasswordHash: string(hash),
	}
	if err := s.users.Create(ctx, u); err != nil {
		return nil, err
	}
	s.logger.Info().Str("user_id", u.ID.String()).Msg("user signed up")
	return s.issue(u)
}

// SignIn checks credentials. Unknown emails and wrong passwords fail with
// the same error.
func (s *Service) SignIn(ctx context.Context, in SignInInput) (*TokenResponse, error) {
	u, err := s.users.GetByEmail(ctx, normalizeEmail(in.Email))
	if errors.Is(err, apperr.ErrNotFoundOrUnauthorized) {
		return nil, errBadCredentials
	}
	if err != nil {
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(in.Password)); err != nil {
		s.logger.Warn().Str("user_id", u.ID.String()).Msg("sign in rejected")
		return nil, errBadCredentials
	}
	return s.issue(u)
}

func (s *Service) issue(u *User) (*TokenResponse, error) {
	token, exp, err := s.tokens.Issue(u.ID, u.Email)
	if err != nil {
		return nil, err
	}
	return &TokenResponse{AccessToken: token, TokenType: "Bearer", ExpiresAt: exp, User: u}, nil
}

// CreateClinic creates a clinic and makes the session user its member in
// one transaction.
func (s *Service) CreateClinic(ctx context.Context, sess auth.Session, in CreateClinicInput) (*Clinic, error) {
	if !sess.HasUser() {
		return nil, apperr.ErrUnauthorized
	}
	if sess.HasClinic() {
		return nil, apperr.Conflict("user already belongs to a clinic")
	}
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, apperr.Validation("name is required")
	}

	c := &Clinic{ID: uuid.New(), Name: name}
	err := s.tx.WithTx(ctx, func(ctx context.Context) error {
		if err := s.clinics.Create(ctx, c); err != nil {
			return err
		}
		return s.clinics.AddMember(ctx, sess.UserID, c.ID)
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info().Str("user_id", sess.UserID.String()).Str("clinic_id", c.ID.String()).Msg("clinic created")
	return c, nil
}

func (s *Service) Me(ctx context.Context, sess auth.Session) (*Me, error) {
	if !sess.HasUser() {
		return nil, apperr.ErrUnauthorized
	}
	u, err := s.users.GetByID(ctx, sess.UserID)
	if err != nil {
		return nil, err
	}
	me := &Me{User: u}
	if sess.HasClinic() {
		c, err := s.clinics.GetByID(ctx, *sess.ClinicID)
		if err != nil {
			return nil, err
		}
		me.Clinic = c
	}
	return me, nil
}

// ClinicIDForUser implements auth.MembershipLookup.
func (s *Service) ClinicIDForUser(ctx context.Context, userID uuid.UUID) (*uuid.UUID, error) {
	return s.clinics.ClinicIDForUser(ctx, userID)
}
