package usecase

import (
	"context"
	"time"

	"go-dental-clinic/internal/converter"
	"go-dental-clinic/internal/delivery/dto"
	"go-dental-clinic/internal/domain/apperror"
	"go-dental-clinic/internal/domain/entity"
	"go-dental-clinic/internal/domain/repository"
	"go-dental-clinic/internal/service"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

var (
	ErrInvalidDateRange = apperror.New(apperror.ErrValidation, "date_from must not be after date_to")
)

type FinancialReportUsecase interface {
	BuildDentistFinancialReport(ctx context.Context, dentistID uuid.UUID, req *dto.FinancialReportRequest) (*dto.FinancialReportResponse, error)
}

type financialReportUsecase struct {
	db          *gorm.DB
	log         *logrus.Logger
	location    *time.Location
	dentistRepo repository.DentistRepository
	ledger      service.LedgerService
}

func NewFinancialReportUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	location *time.Location,
	dentistRepo repository.DentistRepository,
	ledger service.LedgerService,
) FinancialReportUsecase {
	if location == nil {
		location = time.UTC
	}
	return &financialReportUsecase{
		db:          db,
		log:         log,
		location:    location,
		dentistRepo: dentistRepo,
		ledger:      ledger,
	}
}

// BuildDentistFinancialReport returns the dentist's commission ledger and its
// totals. Dentist callers may only read their own report.
func (u *financialReportUsecase) BuildDentistFinancialReport(ctx context.Context, dentistID uuid.UUID, req *dto.FinancialReportRequest) (*dto.FinancialReportResponse, error) {
	c, err := callerFromContext(ctx)
	if err != nil {
		return nil, err
	}

	filter, err := u.parseFilter(req)
	if err != nil {
		return nil, err
	}

	dentist, err := findDentist(u.db.WithContext(ctx), u.log, u.dentistRepo, c.clinicID, dentistID)
	if err != nil {
		return nil, err
	}
	if !c.canSeeDentist(dentist) {
		return nil, ErrDentistScopeDenied
	}

	txs, err := u.ledger.Collect(ctx, u.db, c.clinicID, dentist, filter)
	if err != nil {
		return nil, err
	}

	report := service.BuildFinancialReport(dentist.ID, txs, filter)
	u.log.Debugf("Financial report built: dentist=%s, transactions=%d", dentist.ID, len(report.Transactions))

	return converter.FinancialReportToResponse(report), nil
}

// parseFilter turns the query filters into a domain filter. Calendar days are
// read in the clinic time zone and date_to becomes an exclusive bound.
func (u *financialReportUsecase) parseFilter(req *dto.FinancialReportRequest) (*entity.FinancialFilter, error) {
	filter := &entity.FinancialFilter{}
	if req == nil {
		return filter, nil
	}

	if req.DateFrom != "" {
		from, err := time.ParseInLocation(time.DateOnly, req.DateFrom, u.location)
		if err != nil {
			return nil, apperror.Validation("date_from must be formatted as YYYY-MM-DD")
		}
		filter.DateFrom = &from
	}
	if req.DateTo != "" {
		to, err := time.ParseInLocation(time.DateOnly, req.DateTo, u.location)
		if err != nil {
			return nil, apperror.Validation("date_to must be formatted as YYYY-MM-DD")
		}
		to = to.AddDate(0, 0, 1)
		filter.DateTo = &to
	}
	if filter.DateFrom != nil && filter.DateTo != nil && !filter.DateFrom.Before(*filter.DateTo) {
		return nil, ErrInvalidDateRange
	}

	if req.PatientID != "" {
		id, err := uuid.Parse(req.PatientID)
		if err != nil {
			return nil, apperror.Validation("patient_id must be a valid UUID")
		}
		filter.PatientID = &id
	}
	if req.ProcedureID != "" {
		id, err := uuid.Parse(req.ProcedureID)
		if err != nil {
			return nil, apperror.Validation("procedure_id must be a valid UUID")
		}
		filter.ProcedureID = &id
	}
	if req.CommissionType != "" {
		ct := entity.CommissionType(req.CommissionType)
		if ct != entity.CommissionTypeGeneral && ct != entity.CommissionTypeProcedure {
			return nil, apperror.Validation("commission_type must be one of: GENERAL, PROCEDURE")
		}
		filter.CommissionType = &ct
	}

	return filter, nil
}
