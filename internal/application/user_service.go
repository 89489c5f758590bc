package application

import (
	"context"
	"errors"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/skillboost/skillboost-api/internal/domain/entity"
	"github.com/skillboost/skillboost-api/internal/domain/repository"
	"github.com/skillboost/skillboost-api/pkg/helpers"
	"github.com/skillboost/skillboost-api/pkg/uploader"
)

var (
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserNotFound       = errors.New("user not found")
)

// UserService implements registration, login and profile editing.
type UserService struct {
	Repo    repository.UserRepository
	JWT     *helpers.JWTManager
	Uploads uploader.Backend
	Logger  *logrus.Logger
}

func NewUserService(repo repository.UserRepository, jwt *helpers.JWTManager, uploads uploader.Backend, logger *logrus.Logger) *UserService {
	return &UserService{Repo: repo, JWT: jwt, Uploads: uploads, Logger: logger}
}

type RegisterInput struct {
	Username string
	Email    string
	Password string
	Role     string
}

// Register creates a new user after checking email uniqueness. The password
// is stored only as a bcrypt hash.
func (s *UserService) Register(ctx context.Context, in RegisterInput) (*entity.User, error) {
	if existing, err := s.Repo.GetByEmail(ctx, in.Email); err == nil && existing != nil {
		return nil, ErrEmailTaken
	} else if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	hash, err := helpers.HashPassword(in.Password)
	if err != nil {
		return nil, err
	}
	u := &entity.User{
		Username: in.Username,
		Email:    in.Email,
		Password: hash,
		Role:     in.Role,
		Date:     time.Now(),
	}
	if err := s.Repo.Create(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

// Login validates credentials and issues a signed access token.
func (s *UserService) Login(ctx context.Context, email, password string) (*entity.User, string, error) {
	u, err := s.Repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, "", ErrUserNotFound
		}
		return nil, "", err
	}
	if !helpers.CompareHashAndPassword(u.Password, password) {
		return nil, "", ErrInvalidCredentials
	}
	token, _, err := s.JWT.Generate(u.ID.Hex(), u.Email, u.Role)
	if err != nil {
		if s.Logger != nil {
			s.Logger.WithError(err).WithField("user_id", u.ID.Hex()).Error("generate token failed")
		}
		return nil, "", err
	}
	return u, token, nil
}

// GetProfile returns a user by id.
func (s *UserService) GetProfile(ctx context.Context, userID string) (*entity.User, error) {
	u, err := s.Repo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return u, nil
}

type UpdateProfileInput struct {
	Username    string
	Description string
	Image       *uploader.File // optional replacement profile image
}

// UpdateProfile edits username/description and optionally replaces the
// profile image. The previous image is deleted best-effort: a storage
// failure there is logged and does not block the update.
func (s *UserService) UpdateProfile(ctx context.Context, userID string, in UpdateProfileInput) (*entity.User, error) {
	u, err := s.Repo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	if in.Image != nil && s.Uploads != nil {
		url, err := s.Uploads.Store(ctx, "avatars", *in.Image)
		if err != nil {
			return nil, err
		}
		if u.Image != "" {
			if derr := s.Uploads.Delete(ctx, u.Image); derr != nil && s.Logger != nil {
				s.Logger.WithError(derr).WithField("url", u.Image).Warn("delete old profile image failed")
			}
		}
		u.Image = url
	}
	if in.Username != "" {
		u.Username = in.Username
	}
	if in.Description != "" {
		u.Description = in.Description
	}

	if err := s.Repo.Update(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}
