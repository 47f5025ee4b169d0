package users

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/modastore/storefront-backend/pkg/db/models"
	"github.com/modastore/storefront-backend/pkg/enums"
	pkgerrors "github.com/modastore/storefront-backend/pkg/errors"
	"github.com/modastore/storefront-backend/pkg/pagination"
	"github.com/modastore/storefront-backend/pkg/types"
)

// UpdateProfileInput holds optional profile mutation values.
type UpdateProfileInput struct {
	FirstName       *string
	LastName        *string
	ProfileImageURL *string
	Preferences     types.JSONMap
	IPAddress       *string
}

// Service exposes profile, activity, and staff user management operations.
type Service interface {
	GetProfile(ctx context.Context, userID uuid.UUID) (*UserDTO, error)
	UpdateProfile(ctx context.Context, userID uuid.UUID, input UpdateProfileInput) (*UserDTO, error)
	ListActivities(ctx context.Context, userID uuid.UUID, params pagination.Params) (*ActivityListResult, error)

	ListUsers(ctx context.Context, params pagination.Params) (*UserListResult, error)
	GetUser(ctx context.Context, userID uuid.UUID) (*UserDTO, error)
	SetActive(ctx context.Context, userID uuid.UUID, active bool) (*UserDTO, error)
	DeleteUser(ctx context.Context, userID uuid.UUID) error
}

type service struct {
	repo       *Repository
	activities *ActivityRepository
}

// NewService wires the users service.
func NewService(repo *Repository, activities *ActivityRepository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("users service: repository is required")
	}
	if activities == nil {
		return nil, fmt.Errorf("users service: activity repository is required")
	}
	return &service{repo: repo, activities: activities}, nil
}

// GetProfile returns the user's own profile.
func (s *service) GetProfile(ctx context.Context, userID uuid.UUID) (*UserDTO, error) {
	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		return nil, s.mapNotFound(err, "user not found")
	}
	return NewUserDTO(user), nil
}

// UpdateProfile applies the provided fields and appends an update_profile
// activity entry. Activity logging is best effort; a profile update never
// fails because the log write did.
func (s *service) UpdateProfile(ctx context.Context, userID uuid.UUID, input UpdateProfileInput) (*UserDTO, error) {
	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		return nil, s.mapNotFound(err, "user not found")
	}

	if input.FirstName != nil {
		user.FirstName = input.FirstName
	}
	if input.LastName != nil {
		user.LastName = input.LastName
	}
	if input.ProfileImageURL != nil {
		user.ProfileImageURL = input.ProfileImageURL
	}
	if input.Preferences != nil {
		user.Preferences = input.Preferences
	}

	updated, err := s.repo.Update(ctx, user)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: update user")
	}

	_ = s.activities.Log(ctx, &models.UserActivity{
		UserID:    userID,
		Action:    enums.ActivityActionUpdateProfile,
		IPAddress: input.IPAddress,
	})

	return NewUserDTO(updated), nil
}

// ListActivities returns the user's own activity log, newest first.
func (s *service) ListActivities(ctx context.Context, userID uuid.UUID, params pagination.Params) (*ActivityListResult, error) {
	rows, total, err := s.activities.ListByUser(ctx, userID, params)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list activities")
	}

	result := &ActivityListResult{
		Items: make([]ActivityDTO, 0, len(rows)),
		Page:  pagination.Build(params, total),
	}
	for i := range rows {
		result.Items = append(result.Items, NewActivityDTO(&rows[i]))
	}
	return result, nil
}

// ListUsers returns one page of all users.
func (s *service) ListUsers(ctx context.Context, params pagination.Params) (*UserListResult, error) {
	rows, total, err := s.repo.List(ctx, params)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list users")
	}

	result := &UserListResult{
		Items: make([]UserDTO, 0, len(rows)),
		Page:  pagination.Build(params, total),
	}
	for i := range rows {
		result.Items = append(result.Items, *NewUserDTO(&rows[i]))
	}
	return result, nil
}

// GetUser returns any user by id.
func (s *service) GetUser(ctx context.Context, userID uuid.UUID) (*UserDTO, error) {
	return s.GetProfile(ctx, userID)
}

// SetActive enables or disables the account.
func (s *service) SetActive(ctx context.Context, userID uuid.UUID, active bool) (*UserDTO, error) {
	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		return nil, s.mapNotFound(err, "user not found")
	}
	user.IsActive = active
	updated, err := s.repo.Update(ctx, user)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: update user")
	}
	return NewUserDTO(updated), nil
}

// DeleteUser removes the account. Orders survive through their nullable
// user reference.
func (s *service) DeleteUser(ctx context.Context, userID uuid.UUID) error {
	if err := s.repo.Delete(ctx, userID); err != nil {
		return s.mapNotFound(err, "user not found")
	}
	return nil
}

func (s *service) mapNotFound(err error, message string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return pkgerrors.New(pkgerrors.CodeNotFound, message)
	}
	if existing := pkgerrors.As(err); existing != nil {
		return existing
	}
	return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db lookup failed")
}
