package users

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"

	"github.com/angelmondragon/darkstore-backend/pkg/config"
	"github.com/angelmondragon/darkstore-backend/pkg/db"
	"github.com/angelmondragon/darkstore-backend/pkg/db/models"
	pkgerrors "github.com/angelmondragon/darkstore-backend/pkg/errors"
	"github.com/angelmondragon/darkstore-backend/pkg/security"
	"github.com/gabriel-vasile/mimetype"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const defaultMaxAvatarBytes = 5 << 20

var validate = validator.New()

var avatarTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
	"image/webp": ".webp",
}

// AvatarStore keeps avatar images and returns their public URL.
type AvatarStore interface {
	Save(ctx context.Context, userID uuid.UUID, ext string, data []byte) (string, error)
}

type userRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	UpdateProfile(ctx context.Context, id uuid.UUID, update ProfileUpdate) error
	UpdateAvatar(ctx context.Context, id uuid.UUID, url string) error
}

// UpdateUserRequest is the self-service profile payload.
type UpdateUserRequest struct {
	Name   *string `json:"name,omitempty" validate:"omitempty,min=1,max=120"`
	Email  *string `json:"email,omitempty" validate:"omitempty,email"`
	Mobile *string `json:"mobile,omitempty" validate:"omitempty,max=32"`

	// Password replaces the stored hash when set.
	Password *string `json:"password,omitempty" validate:"omitempty,max=128"`
}

type ServiceParams struct {
	Repo           userRepository
	Avatars        AvatarStore
	MaxAvatarBytes int64
	PasswordConfig config.PasswordConfig
}

// Service handles the account self-service endpoints.
type Service struct {
	repo           userRepository
	avatars        AvatarStore
	maxAvatarBytes int64
	passwordCfg    config.PasswordConfig
}

func NewService(params ServiceParams) (*Service, error) {
	if params.Repo == nil {
		return nil, errors.New("user repository required")
	}
	if params.Avatars == nil {
		return nil, errors.New("avatar store required")
	}
	limit := params.MaxAvatarBytes
	if limit <= 0 {
		limit = defaultMaxAvatarBytes
	}
	return &Service{
		repo:           params.Repo,
		avatars:        params.Avatars,
		maxAvatarBytes: limit,
		passwordCfg:    params.PasswordConfig,
	}, nil
}

func (s *Service) UserDetails(ctx context.Context, id uuid.UUID) (*UserDTO, error) {
	user, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	return FromModel(user), nil
}

func (s *Service) UpdateUser(ctx context.Context, id uuid.UUID, req UpdateUserRequest) (*UserDTO, error) {
	update := ProfileUpdate{Mobile: req.Mobile}
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "name must not be blank")
		}
		update.Name = &name
	}
	if req.Email != nil {
		email := strings.ToLower(strings.TrimSpace(*req.Email))
		if err := validate.Var(email, "required,email"); err != nil {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid email")
		}
		existing, err := s.repo.FindByEmail(ctx, email)
		switch {
		case err == nil && existing.ID != id:
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "email already registered")
		case err != nil && !errors.Is(err, gorm.ErrRecordNotFound):
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check user email")
		}
		update.Email = &email
	}
	if req.Password != nil {
		if err := security.CheckStrength(*req.Password); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, err.Error())
		}
		hash, err := security.HashPassword(*req.Password, s.passwordCfg)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash password")
		}
		update.PasswordHash = &hash
	}

	if err := s.repo.UpdateProfile(ctx, id, update); err != nil {
		if db.IsUniqueViolation(err, "") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "email already registered")
		}
		return nil, mapRepoError(err, "update user")
	}
	return s.UserDetails(ctx, id)
}

// UploadAvatar stores an image read from r and points the user's avatar at it.
// The content type is sniffed from the bytes; the client's header is ignored.
func (s *Service) UploadAvatar(ctx context.Context, id uuid.UUID, r io.Reader) (*UserDTO, error) {
	if _, err := s.find(ctx, id); err != nil {
		return nil, err
	}
	data, err := io.ReadAll(io.LimitReader(r, s.maxAvatarBytes+1))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "read avatar")
	}
	if len(data) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "avatar file is empty")
	}
	if int64(len(data)) > s.maxAvatarBytes {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "avatar exceeds size limit")
	}

	mtype, err := mimetype.DetectReader(bytes.NewReader(data))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "detect avatar type")
	}
	ext, ok := avatarTypes[mtype.String()]
	if !ok {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "avatar must be an image").
			WithDetails(map[string]any{"content_type": mtype.String()})
	}

	url, err := s.avatars.Save(ctx, id, ext, data)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "store avatar")
	}
	if err := s.repo.UpdateAvatar(ctx, id, url); err != nil {
		return nil, mapRepoError(err, "update avatar")
	}
	return s.UserDetails(ctx, id)
}

func (s *Service) find(ctx context.Context, id uuid.UUID) (*models.User, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, mapRepoError(err, "load user")
	}
	return user, nil
}

func mapRepoError(err error, action string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
	}
	return pkgerrors.Wrap(pkgerrors.CodeDependency, err, action)
}
