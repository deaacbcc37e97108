package usecase

import (
	"errors"
	"testing"
	"time"

	"go-dental-clinic/internal/delivery/dto"
	"go-dental-clinic/internal/domain/apperror"
	"go-dental-clinic/internal/domain/entity"
	"go-dental-clinic/internal/domain/repository/mocks"
	"go-dental-clinic/internal/service"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type financialFixture struct {
	usecase     FinancialReportUsecase
	plans       *mocks.TreatmentPlanRepository
	attendances *mocks.AttendanceRepository
	clinicID    uuid.UUID
	dentist     *entity.Dentist
}

func newFinancialFixture(t *testing.T, location *time.Location) *financialFixture {
	t.Helper()

	db, _ := newMockDB(t)
	log := newTestLogger()

	f := &financialFixture{
		plans:       &mocks.TreatmentPlanRepository{},
		attendances: &mocks.AttendanceRepository{},
		clinicID:    uuid.New(),
	}
	f.dentist = &entity.Dentist{
		ID:                   uuid.New(),
		ClinicID:             f.clinicID,
		UserID:               uuid.New(),
		GeneralCommissionPct: decimal.NewNullDecimal(decimal.RequireFromString("30")),
	}
	dentists := &mocks.DentistRepository{
		FindByIDFunc: func(db *gorm.DB, clinicID, id uuid.UUID) (*entity.Dentist, error) {
			if clinicID == f.clinicID && id == f.dentist.ID {
				return f.dentist, nil
			}
			return nil, nil
		},
	}

	f.usecase = NewFinancialReportUsecase(db, log, location, dentists,
		service.NewLedgerService(log, f.plans, f.attendances))
	return f
}

func TestBuildDentistFinancialReport_CommissionTiersAndStatus(t *testing.T) {
	f := newFinancialFixture(t, time.UTC)
	procedureID := uuid.New()
	withRate := &entity.Procedure{ID: procedureID, Name: "Canal", BaseValue: decimal.RequireFromString("800"), CommissionPct: decimal.RequireFromString("40")}
	withoutRate := &entity.Procedure{ID: uuid.New(), Name: "Limpeza", BaseValue: decimal.RequireFromString("200"), CommissionPct: decimal.Zero}
	paidPatient := entity.Patient{ID: uuid.New(), FullName: "Ana"}
	pendingPatient := entity.Patient{ID: uuid.New(), FullName: "Bruno"}

	f.plans.FindPaymentsForDentistFunc = func(db *gorm.DB, clinicID, dentistID uuid.UUID, filter *entity.FinancialFilter) ([]entity.Payment, error) {
		return []entity.Payment{{
			ID:     uuid.New(),
			PaidAt: time.Date(2026, 3, 5, 10, 0, 0, 0, time.UTC),
			TreatmentPlan: entity.TreatmentPlan{
				PatientID: paidPatient.ID,
				Patient:   paidPatient,
			},
			Items: []entity.PaymentItem{{
				ID: uuid.New(),
				TreatmentPlanItem: entity.TreatmentPlanItem{
					ProcedureID: &procedureID,
					UnitValue:   decimal.RequireFromString("1000"),
					Quantity:    1,
					Procedure:   withRate,
				},
			}},
		}}, nil
	}
	f.attendances.FindDoneForDentistFunc = func(db *gorm.DB, clinicID, dentistID uuid.UUID, filter *entity.FinancialFilter) ([]entity.Attendance, error) {
		return []entity.Attendance{{
			ID:         uuid.New(),
			PatientID:  pendingPatient.ID,
			Patient:    pendingPatient,
			AttendedAt: time.Date(2026, 3, 6, 9, 0, 0, 0, time.UTC),
			Procedures: []entity.AttendanceProcedure{{
				ID:          uuid.New(),
				ProcedureID: &withoutRate.ID,
				Procedure:   withoutRate,
				Price:       decimal.NewNullDecimal(decimal.RequireFromString("500")),
				Quantity:    1,
			}},
		}}, nil
	}

	resp, err := f.usecase.BuildDentistFinancialReport(callerContext(f.clinicID, uuid.New(), entity.RoleIDAdmin), f.dentist.ID, &dto.FinancialReportRequest{})
	require.NoError(t, err)
	require.Len(t, resp.Transactions, 2)

	// Newest first.
	pending, paid := resp.Transactions[0], resp.Transactions[1]

	assert.Equal(t, "GENERAL", pending.CommissionType)
	assert.Equal(t, "150", pending.CommissionAmount.String())
	assert.Equal(t, "PENDENTE", pending.Status)
	assert.Equal(t, "ATTENDANCE", pending.Source)

	assert.Equal(t, "PROCEDURE", paid.CommissionType)
	assert.Equal(t, "400", paid.CommissionAmount.String())
	assert.Equal(t, "PAGO", paid.Status)

	assert.Equal(t, "1500", resp.GrossProduction.String())
	assert.Equal(t, "400", resp.TotalReceived.String())
	assert.Equal(t, "150", resp.TotalPending.String())
	assert.Equal(t, "400", resp.NetReceived.String())
}

func TestBuildDentistFinancialReport_DateFilterUsesClinicDays(t *testing.T) {
	saoPaulo, err := time.LoadLocation("America/Sao_Paulo")
	require.NoError(t, err)
	f := newFinancialFixture(t, saoPaulo)

	var got *entity.FinancialFilter
	f.plans.FindPaymentsForDentistFunc = func(db *gorm.DB, clinicID, dentistID uuid.UUID, filter *entity.FinancialFilter) ([]entity.Payment, error) {
		got = filter
		return nil, nil
	}

	_, err = f.usecase.BuildDentistFinancialReport(callerContext(f.clinicID, uuid.New(), entity.RoleIDAdmin), f.dentist.ID, &dto.FinancialReportRequest{
		DateFrom:       "2026-03-01",
		DateTo:         "2026-03-31",
		CommissionType: "PROCEDURE",
	})
	require.NoError(t, err)

	require.NotNil(t, got)
	require.NotNil(t, got.DateFrom)
	require.NotNil(t, got.DateTo)
	assert.Equal(t, time.Date(2026, 3, 1, 3, 0, 0, 0, time.UTC), got.DateFrom.UTC())
	assert.Equal(t, time.Date(2026, 4, 1, 3, 0, 0, 0, time.UTC), got.DateTo.UTC())
	require.NotNil(t, got.CommissionType)
	assert.Equal(t, entity.CommissionTypeProcedure, *got.CommissionType)
}

func TestBuildDentistFinancialReport_InvalidFilters(t *testing.T) {
	tests := []struct {
		name string
		req  dto.FinancialReportRequest
	}{
		{name: "inverted range", req: dto.FinancialReportRequest{DateFrom: "2026-03-10", DateTo: "2026-03-01"}},
		{name: "bad date", req: dto.FinancialReportRequest{DateFrom: "10/03/2026"}},
		{name: "bad patient", req: dto.FinancialReportRequest{PatientID: "nope"}},
		{name: "bad commission type", req: dto.FinancialReportRequest{CommissionType: "BONUS"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFinancialFixture(t, time.UTC)

			_, err := f.usecase.BuildDentistFinancialReport(callerContext(f.clinicID, uuid.New(), entity.RoleIDAdmin), f.dentist.ID, &tt.req)
			assert.ErrorIs(t, err, apperror.ErrValidation)
		})
	}
}

func TestBuildDentistFinancialReport_SameDayRangeIsValid(t *testing.T) {
	f := newFinancialFixture(t, time.UTC)

	_, err := f.usecase.BuildDentistFinancialReport(callerContext(f.clinicID, uuid.New(), entity.RoleIDAdmin), f.dentist.ID, &dto.FinancialReportRequest{
		DateFrom: "2026-03-10",
		DateTo:   "2026-03-10",
	})
	assert.NoError(t, err)
}

func TestBuildDentistFinancialReport_DentistScope(t *testing.T) {
	f := newFinancialFixture(t, time.UTC)

	_, err := f.usecase.BuildDentistFinancialReport(callerContext(f.clinicID, uuid.New(), entity.RoleIDDentist), f.dentist.ID, nil)
	assert.ErrorIs(t, err, ErrDentistScopeDenied)

	resp, err := f.usecase.BuildDentistFinancialReport(callerContext(f.clinicID, f.dentist.UserID, entity.RoleIDDentist), f.dentist.ID, nil)
	require.NoError(t, err)
	assert.Empty(t, resp.Transactions)
	assert.True(t, resp.GrossProduction.IsZero())
}

func TestBuildDentistFinancialReport_UnknownDentist(t *testing.T) {
	f := newFinancialFixture(t, time.UTC)

	_, err := f.usecase.BuildDentistFinancialReport(callerContext(f.clinicID, uuid.New(), entity.RoleIDAdmin), uuid.New(), nil)
	assert.ErrorIs(t, err, ErrDentistNotFound)
}

func TestBuildDentistFinancialReport_SourceFailure(t *testing.T) {
	f := newFinancialFixture(t, time.UTC)
	f.attendances.FindDoneForDentistFunc = func(db *gorm.DB, clinicID, dentistID uuid.UUID, filter *entity.FinancialFilter) ([]entity.Attendance, error) {
		return nil, errors.New("connection reset")
	}

	_, err := f.usecase.BuildDentistFinancialReport(callerContext(f.clinicID, uuid.New(), entity.RoleIDAdmin), f.dentist.ID, nil)
	assert.ErrorIs(t, err, apperror.ErrInfrastructure)
}
