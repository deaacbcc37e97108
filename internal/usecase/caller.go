package usecase

import (
	"context"
	"errors"

	"go-dental-clinic/internal/delivery/http/middleware"
	"go-dental-clinic/internal/domain/apperror"
	"go-dental-clinic/internal/domain/entity"
	"go-dental-clinic/internal/domain/repository"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

var (
	ErrMissingClinic = errors.New("clinic not found in context")

	ErrDentistScopeDenied = apperror.New(apperror.ErrAccessDenied, "dentists can only access their own data")
)

// caller is the authenticated identity a request acts for.
type caller struct {
	clinicID uuid.UUID
	userID   *uuid.UUID
	roleID   int
}

func callerFromContext(ctx context.Context) (*caller, error) {
	clinicID, ok := middleware.GetClinicIDFromContext(ctx)
	if !ok {
		return nil, ErrMissingClinic
	}

	c := &caller{clinicID: clinicID}
	if userID, ok := middleware.GetUserIDFromContext(ctx); ok {
		c.userID = &userID
	}
	if roleID, ok := middleware.GetRoleIDFromContext(ctx); ok {
		c.roleID = roleID
	}
	return c, nil
}

// canSeeDentist restricts dentist-role callers to their own records; staff
// roles see every dentist of the clinic.
func (c *caller) canSeeDentist(dentist *entity.Dentist) bool {
	if c.roleID != entity.RoleIDDentist {
		return true
	}
	return c.userID != nil && *c.userID == dentist.UserID
}

func findDentist(db *gorm.DB, log *logrus.Logger, dentistRepo repository.DentistRepository, clinicID, id uuid.UUID) (*entity.Dentist, error) {
	dentist, err := dentistRepo.FindByID(db, clinicID, id)
	if err != nil {
		log.Warnf("Failed to find dentist %s: %+v", id, err)
		return nil, apperror.Wrap("find dentist", err)
	}
	if dentist == nil {
		return nil, ErrDentistNotFound
	}
	return dentist, nil
}
