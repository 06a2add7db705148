package application

import (
	"context"
	"errors"
	"io"
	"path/filepath"
	"strings"
	"time"

	"cloud.google.com/go/storage"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/nsdigital/agency-api/internal/domain/entity"
	repo "github.com/nsdigital/agency-api/internal/domain/repository"
	"github.com/nsdigital/agency-api/pkg/helpers"
)

// Sentinel errors carry the exact messages the dashboard surfaces. Login
// deliberately distinguishes unknown account, blocked account, and wrong
// password, in that short-circuit order.
var (
	ErrEmailTaken       = errors.New("an account with this email already exists")
	ErrAccountNotFound  = errors.New("this account does not exist")
	ErrAccountBlocked   = errors.New("your account has been blocked")
	ErrInvalidPassword  = errors.New("incorrect password")
	ErrUserNotFound     = errors.New("user not found")
	ErrNotAdmin         = errors.New("access denied")
	ErrPhotoUnavailable = errors.New("photo storage is not configured")
)

type Service struct {
	Repo      repo.UserRepository
	JWT       *helpers.JWTManager
	GCS       *storage.Client
	GCSBucket string
	Logger    *logrus.Logger
}

func NewService(r repo.UserRepository, jwt *helpers.JWTManager, gcs *storage.Client, gcsBucket string, logger *logrus.Logger) *Service {
	return &Service{Repo: r, JWT: jwt, GCS: gcs, GCSBucket: gcsBucket, Logger: logger}
}

// Session bundles a freshly minted token with its expiry.
type Session struct {
	Token   string
	Expires time.Time
}

type RegisterInput struct {
	Email    string
	Password string
	Name     string
	Photo    string
}

// Register creates an account with role USER and immediately issues a
// session. The GetByEmail pre-check gives a friendly error on the common
// path; the unique index on users.email is what actually prevents
// duplicates when two registrations race.
func (s *Service) Register(ctx context.Context, in RegisterInput) (*entity.User, Session, error) {
	if existing, err := s.Repo.GetByEmail(ctx, in.Email); err == nil && existing != nil {
		return nil, Session{}, ErrEmailTaken
	}

	hash, err := helpers.HashPassword(in.Password)
	if err != nil {
		return nil, Session{}, err
	}

	u := &entity.User{
		Email:        in.Email,
		PasswordHash: hash,
		Name:         in.Name,
		Photo:        in.Photo,
		Role:         entity.RoleUser,
		IsBlocked:    false,
	}
	if err := s.Repo.Create(ctx, u); err != nil {
		if errors.Is(err, repo.ErrDuplicateEmail) {
			return nil, Session{}, ErrEmailTaken
		}
		s.Logger.WithError(err).WithField("email", in.Email).Error("create account failed")
		return nil, Session{}, err
	}

	sess, err := s.issueSession(u)
	if err != nil {
		return nil, Session{}, err
	}
	return u, sess, nil
}

// Login checks existence, then blocked state, then the password, each
// short-circuiting. Do not reorder: the blocked check must win over a
// wrong password, and a blocked account never reaches the bcrypt compare.
func (s *Service) Login(ctx context.Context, email, password string) (*entity.User, Session, error) {
	u, err := s.Repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, Session{}, ErrAccountNotFound
		}
		return nil, Session{}, err
	}
	if u.IsBlocked {
		return nil, Session{}, ErrAccountBlocked
	}
	if !helpers.CheckPassword(u.PasswordHash, password) {
		return nil, Session{}, ErrInvalidPassword
	}

	sess, err := s.issueSession(u)
	if err != nil {
		return nil, Session{}, err
	}
	return u, sess, nil
}

// CurrentUser resolves a session's account fresh from the store rather than
// from the token claims. Blocked accounts can still read their own profile;
// only login and the admin operations gate on blocked state.
func (s *Service) CurrentUser(ctx context.Context, userID string) (*entity.User, error) {
	u, err := s.Repo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return u, nil
}

// ListUsers returns every account, newest first. Admin only.
func (s *Service) ListUsers(ctx context.Context, callerID string) ([]*entity.User, error) {
	if err := s.requireAdmin(ctx, callerID); err != nil {
		return nil, err
	}
	return s.Repo.List(ctx)
}

// ToggleBlock sets the target's blocked flag. Admin only. There is no
// self-protection: an admin may block their own account, and their session
// stays readable until they hit another admin action or re-login.
func (s *Service) ToggleBlock(ctx context.Context, callerID, targetID string, blocked bool) (*entity.User, error) {
	if err := s.requireAdmin(ctx, callerID); err != nil {
		return nil, err
	}
	u, err := s.Repo.SetBlocked(ctx, targetID, blocked)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	s.Logger.WithFields(logrus.Fields{
		"admin_id":   callerID,
		"user_id":    targetID,
		"is_blocked": blocked,
	}).Info("account block toggled")
	return u, nil
}

// Stats returns aggregate account counts. Admin only.
func (s *Service) Stats(ctx context.Context, callerID string) (repo.Stats, error) {
	if err := s.requireAdmin(ctx, callerID); err != nil {
		return repo.Stats{}, err
	}
	return s.Repo.Stats(ctx)
}

// UploadPhoto stores the image in GCS and records its public URL on the
// account.
func (s *Service) UploadPhoto(ctx context.Context, userID string, r io.Reader, filename, contentType string) (*entity.User, error) {
	if s.GCS == nil || s.GCSBucket == "" {
		return nil, ErrPhotoUnavailable
	}
	if _, err := s.Repo.GetByID(ctx, userID); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	ext := strings.ToLower(filepath.Ext(filename))
	objectPath := filepath.ToSlash(filepath.Join("avatars", userID, uuid.NewString()+ext))
	url, err := helpers.UploadObject(ctx, s.GCS, s.GCSBucket, objectPath, contentType, r)
	if err != nil {
		s.Logger.WithError(err).WithField("user_id", userID).Error("photo upload failed")
		return nil, err
	}
	return s.Repo.UpdatePhoto(ctx, userID, url)
}

// requireAdmin re-fetches the caller's row so role and blocked state are
// checked against the store on every privileged request; the token claims
// do not encode drift that happened after issuance.
func (s *Service) requireAdmin(ctx context.Context, callerID string) error {
	u, err := s.Repo.GetByID(ctx, callerID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return ErrNotAdmin
		}
		return err
	}
	if u.IsBlocked || !u.IsAdmin() {
		return ErrNotAdmin
	}
	return nil
}

func (s *Service) issueSession(u *entity.User) (Session, error) {
	token, exp, err := s.JWT.Generate(u.ID, u.Role, u.Email)
	if err != nil {
		s.Logger.WithError(err).WithField("user_id", u.ID).Error("sign session token failed")
		return Session{}, err
	}
	return Session{Token: token, Expires: exp}, nil
}
