package service

import (
	"context"
	"fmt"
	"strings"

	"inquiry_service/internal/identity"
	"inquiry_service/internal/models"
	"inquiry_service/internal/repository"

	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"
)

// EmployeeService provisions employee accounts: an identity-provider user
// plus the local employee profile linking them to the employer.
type EmployeeService struct {
	identity    *identity.Client
	profileRepo *repository.ProfileRepository

	validate *validator.Validate
	logger   *logrus.Logger
}

func NewEmployeeService(idc *identity.Client, profileRepo *repository.ProfileRepository, logger *logrus.Logger) *EmployeeService {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &EmployeeService{
		identity:    idc,
		profileRepo: profileRepo,
		validate:    validator.New(),
		logger:      logger,
	}
}

// Create registers the employee with the identity provider and stores the
// profile row. If the profile insert fails the freshly created identity user
// is deleted again so no orphaned login remains.
func (s *EmployeeService) Create(ctx context.Context, employerID string, req *models.EmployeeRequest) (*models.EmployeeProfile, error) {
	if strings.TrimSpace(employerID) == "" {
		return nil, fmt.Errorf("%w: employer id is required", ErrInvalidInput)
	}
	if req == nil {
		return nil, fmt.Errorf("%w: request is nil", ErrInvalidInput)
	}
	if err := s.validate.Struct(req); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if s.identity == nil || !s.identity.Configured() {
		return nil, fmt.Errorf("identity provider is not configured")
	}

	userID, err := s.identity.CreateUser(ctx, req.Email, req.Password, req.Name)
	if err != nil {
		return nil, fmt.Errorf("create identity user: %w", err)
	}

	emp := &models.EmployeeProfile{
		ID:          userID,
		EmployerID:  employerID,
		FullName:    req.Name,
		Role:        req.Role,
		Skills:      req.Skills,
		MaxCapacity: req.MaxCapacity,
	}

	if err := s.profileRepo.CreateEmployee(ctx, emp); err != nil {
		s.logger.WithError(err).WithField("user_id", userID).
			Error("employee profile insert failed, rolling back identity user")
		if delErr := s.identity.DeleteUser(ctx, userID); delErr != nil {
			s.logger.WithError(delErr).WithField("user_id", userID).
				Error("identity user rollback failed, manual cleanup required")
		}
		return nil, fmt.Errorf("create employee profile: %w", err)
	}

	return emp, nil
}
