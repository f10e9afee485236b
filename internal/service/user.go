package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/pageza/glucowise/backend/internal/models"
	"github.com/pageza/glucowise/backend/internal/store"
	"github.com/pageza/glucowise/backend/internal/types"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// UserService manages the signed-in user's own profile.
type UserService struct {
	users store.UserStore
	log   zerolog.Logger
}

var _ IUserService = (*UserService)(nil)

func NewUserService(users store.UserStore, log zerolog.Logger) *UserService {
	return &UserService{
		users: users,
		log:   log.With().Str("component", "user").Logger(),
	}
}

func (s *UserService) GetProfile(ctx context.Context, userID uuid.UUID) (*models.User, error) {
	user, err := s.users.GetUser(ctx, userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: user %s", ErrNotFound, userID)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: user lookup: %v", ErrInternal, err)
	}
	return user, nil
}

// UpdateProfile applies the non-nil fields of req. A provided allergy list
// replaces the stored set.
func (s *UserService) UpdateProfile(ctx context.Context, userID uuid.UUID, req *types.UpdateProfileRequest) (*models.User, error) {
	user, err := s.GetProfile(ctx, userID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		user.Name = *req.Name
	}
	if req.Password != nil {
		hash, err := bcrypt.GenerateFromPassword([]byte(*req.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, fmt.Errorf("%w: hash password: %v", ErrInternal, err)
		}
		user.PasswordHash = string(hash)
	}
	if req.Age != nil {
		user.Age = req.Age
	}
	if req.Sex != nil {
		user.Sex = *req.Sex
	}
	if req.Pregnancy != nil {
		user.Pregnancy = *req.Pregnancy
	}
	if req.Height != nil {
		user.Height = req.Height
	}
	if req.Weight != nil {
		user.Weight = req.Weight
	}
	if req.Contact != nil {
		user.Contact = *req.Contact
	}
	if req.BloodType != nil {
		user.BloodType = *req.BloodType
	}
	if req.MedicalConditions != nil {
		user.MedicalConditions = *req.MedicalConditions
	}
	if req.Medications != nil {
		user.Medications = *req.Medications
	}

	var allergens []string
	if req.Allergies != nil {
		allergens = NormalizeAllergens(*req.Allergies)
	}
	if err := s.users.UpdateUser(ctx, user, allergens); err != nil {
		return nil, fmt.Errorf("%w: update user: %v", ErrInternal, err)
	}
	return user, nil
}

// DeleteUser removes the account and all of its data.
func (s *UserService) DeleteUser(ctx context.Context, userID uuid.UUID) error {
	err := s.users.DeleteUser(ctx, userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%w: user %s", ErrNotFound, userID)
	}
	if err != nil {
		return fmt.Errorf("%w: delete user: %v", ErrInternal, err)
	}
	s.log.Info().Str("user_id", userID.String()).Msg("account deleted")
	return nil
}
