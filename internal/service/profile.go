package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/msomdec/tasktrack/internal/domain"
)

// Profile is the account view returned to the owner.
type Profile struct {
	ID             int64
	Name           string
	Email          string
	Phone          string
	ProfilePhoto   string // data URI, empty when none is stored
	MaskedPassword string
	CreatedAt      time.Time
}

// ProfileInput carries a profile edit. ProfilePhoto is applied only when it
// is an image data URI and Password only when non-empty.
type ProfileInput struct {
	Name         string
	Email        string
	Phone        string
	ProfilePhoto string
	Password     string
}

// ProfileService reads, edits and deletes the caller's own account.
type ProfileService struct {
	users      domain.UserRepository
	photos     *PhotoService
	bcryptCost int
}

// NewProfileService creates a new ProfileService.
func NewProfileService(users domain.UserRepository, photos *PhotoService, bcryptCost int) *ProfileService {
	return &ProfileService{users: users, photos: photos, bcryptCost: bcryptCost}
}

// Get returns the profile of the given user.
func (s *ProfileService) Get(ctx context.Context, userID int64) (*Profile, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return toProfile(user), nil
}

// Update applies an edit and returns the refreshed profile.
func (s *ProfileService) Update(ctx context.Context, userID int64, in ProfileInput) (*Profile, error) {
	if in.Name == "" || in.Email == "" {
		return nil, fmt.Errorf("%w: Name and email are required", domain.ErrInvalidInput)
	}
	if err := validateEmail(in.Email); err != nil {
		return nil, err
	}

	update := domain.UserUpdate{
		Name:  in.Name,
		Email: in.Email,
		Phone: in.Phone,
	}

	if strings.HasPrefix(in.ProfilePhoto, "data:image/") {
		photo, err := s.photos.Normalize(ctx, in.ProfilePhoto)
		if err != nil {
			return nil, err
		}
		update.ProfilePhoto = photo
	}

	if in.Password != "" {
		if err := validatePassword(in.Password); err != nil {
			return nil, err
		}
		hash, err := hashPassword(in.Password, s.bcryptCost)
		if err != nil {
			return nil, err
		}
		update.PasswordHash = hash
	}

	if err := s.users.Update(ctx, userID, update); err != nil {
		return nil, fmt.Errorf("update user: %w", err)
	}
	return s.Get(ctx, userID)
}

// Delete removes the account and every todo it owns.
func (s *ProfileService) Delete(ctx context.Context, userID int64) error {
	if err := s.users.Delete(ctx, userID); err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	return nil
}

func toProfile(user *domain.User) *Profile {
	masked := "********"
	if user.PasswordHash != "" {
		masked = "Abc***gh"
	}
	return &Profile{
		ID:             user.ID,
		Name:           user.Name,
		Email:          user.Email,
		Phone:          user.Phone,
		ProfilePhoto:   EncodePhoto(user.ProfilePhoto),
		MaskedPassword: masked,
		CreatedAt:      user.CreatedAt,
	}
}
