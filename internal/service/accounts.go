package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"
	"unicode"

	"campusnest/internal/domain"
	"campusnest/internal/dto"
	"campusnest/internal/store"

	"github.com/google/uuid"
)

// Register creates an account for an institutional email. The school for
// the email's domain is created with default branding on first sight.
func (s *Service) Register(ctx context.Context, req dto.RegisterRequest) (dto.UserView, error) {
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	req.Name = strings.TrimSpace(req.Name)
	if err := dto.Validate(req); err != nil {
		return dto.UserView{}, err
	}
	domainName, err := s.emailDomain(req.Email)
	if err != nil {
		return dto.UserView{}, err
	}

	if _, err := s.store.Users().GetByEmail(ctx, req.Email); err == nil {
		return dto.UserView{}, domain.ErrEmailTaken
	} else if !errors.Is(err, store.ErrRecordNotFound) {
		return dto.UserView{}, storeErr("lookup user", err)
	}

	school, err := s.schools.ByDomain(ctx, domainName, func(ctx context.Context) (*domain.School, error) {
		return s.store.Schools().Ensure(ctx, defaultSchool(domainName, s.now()))
	})
	if err != nil {
		return dto.UserView{}, storeErr("ensure school", err)
	}

	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return dto.UserView{}, storeErr("hash password", err)
	}

	now := s.now().UTC()
	user := &domain.User{
		ID:           uuid.New(),
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: hash,
		SchoolID:     school.ID,
		IsVerified:   false,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.store.Users().Create(ctx, user); err != nil {
		if store.IsUniqueViolation(err) {
			return dto.UserView{}, domain.ErrEmailTaken
		}
		return dto.UserView{}, storeErr("create user", err)
	}
	return userView(user, school), nil
}

// Login checks credentials and issues an access token. Every failure looks
// the same to the caller.
func (s *Service) Login(ctx context.Context, req dto.LoginRequest) (dto.TokenResponse, error) {
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if err := dto.Validate(req); err != nil {
		return dto.TokenResponse{}, domain.ErrInvalidCredentials
	}
	if !strings.HasSuffix(req.Email, s.emailSuffix) {
		return dto.TokenResponse{}, domain.ErrInvalidCredentials
	}

	user, err := s.store.Users().GetByEmail(ctx, req.Email)
	if errors.Is(err, store.ErrRecordNotFound) {
		return dto.TokenResponse{}, domain.ErrInvalidCredentials
	}
	if err != nil {
		return dto.TokenResponse{}, storeErr("lookup user", err)
	}

	ok, rehash := s.hasher.Verify(req.Password, user.PasswordHash)
	if !ok {
		return dto.TokenResponse{}, domain.ErrInvalidCredentials
	}
	if rehash {
		if h, err := s.hasher.Hash(req.Password); err == nil {
			if err := s.store.Users().SetPasswordHash(ctx, user.ID, h); err != nil {
				slog.Warn("password rehash failed", "user_id", user.ID, "error", err)
			}
		}
	}

	school, err := s.store.Schools().GetByID(ctx, user.SchoolID)
	if err != nil {
		return dto.TokenResponse{}, storeErr("lookup school", err)
	}
	token, exp, err := s.tokens.Issue(user.ID, user.SchoolID)
	if err != nil {
		return dto.TokenResponse{}, storeErr("issue token", err)
	}
	return dto.TokenResponse{
		AccessToken: token,
		TokenType:   "Bearer",
		ExpiresAt:   exp,
		User:        userView(user, school),
	}, nil
}

// Me returns the signed-in user's profile.
func (s *Service) Me(ctx context.Context, userID uuid.UUID) (dto.UserView, error) {
	user, school, err := s.currentUser(ctx, s.store, userID)
	if err != nil {
		return dto.UserView{}, err
	}
	return userView(user, school), nil
}

func (s *Service) currentUser(ctx context.Context, st *store.Store, userID uuid.UUID) (*domain.User, *domain.School, error) {
	if userID == uuid.Nil {
		return nil, nil, domain.ErrUnauthorized
	}
	user, err := st.Users().GetByID(ctx, userID)
	if errors.Is(err, store.ErrRecordNotFound) {
		return nil, nil, domain.ErrUserNotFound
	}
	if err != nil {
		return nil, nil, storeErr("lookup user", err)
	}
	school, err := st.Schools().GetByID(ctx, user.SchoolID)
	if err != nil {
		return nil, nil, storeErr("lookup school", err)
	}
	return user, school, nil
}

func (s *Service) emailDomain(email string) (string, error) {
	at := strings.LastIndexByte(email, '@')
	if at <= 0 || at == len(email)-1 || !strings.HasSuffix(email, s.emailSuffix) {
		return "", domain.Validationf("Only %s email addresses are allowed", s.emailSuffix)
	}
	return email[at+1:], nil
}

func defaultSchool(domainName string, now time.Time) domain.School {
	label := strings.ToLower(strings.SplitN(domainName, ".", 2)[0])
	return domain.School{
		ID:             uuid.New(),
		Name:           titleWords(label),
		Domain:         domainName,
		Slug:           label,
		ColorPrimary:   domain.DefaultColorPrimary,
		ColorSecondary: domain.DefaultColorSecondary,
		CreatedAt:      now.UTC(),
	}
}

// titleWords upper-cases the first letter of every word in s.
func titleWords(s string) string {
	out := []rune(s)
	start := true
	for i, r := range out {
		if start && unicode.IsLetter(r) {
			out[i] = unicode.ToUpper(r)
		}
		start = !unicode.IsLetter(r) && !unicode.IsDigit(r)
	}
	return string(out)
}
