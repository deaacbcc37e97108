package service

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"go-dental-clinic/internal/domain/apperror"
	"go-dental-clinic/internal/domain/entity"
	"go-dental-clinic/internal/domain/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

// LedgerService builds a dentist's transaction ledger from treatment-plan
// payments and finalized attendances. It never writes.
type LedgerService interface {
	// Collect fetches both sources concurrently and maps them into ledger
	// lines. A failure in either source aborts the whole collection.
	Collect(ctx context.Context, db *gorm.DB, clinicID uuid.UUID, dentist *entity.Dentist, filter *entity.FinancialFilter) ([]entity.FinancialTransaction, error)
}

type ledgerService struct {
	log               *logrus.Logger
	treatmentPlanRepo repository.TreatmentPlanRepository
	attendanceRepo    repository.AttendanceRepository
}

func NewLedgerService(log *logrus.Logger, treatmentPlanRepo repository.TreatmentPlanRepository, attendanceRepo repository.AttendanceRepository) LedgerService {
	return &ledgerService{
		log:               log,
		treatmentPlanRepo: treatmentPlanRepo,
		attendanceRepo:    attendanceRepo,
	}
}

func (s *ledgerService) Collect(ctx context.Context, db *gorm.DB, clinicID uuid.UUID, dentist *entity.Dentist, filter *entity.FinancialFilter) ([]entity.FinancialTransaction, error) {
	var planTxs, attendanceTxs []entity.FinancialTransaction

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		payments, err := s.treatmentPlanRepo.FindPaymentsForDentist(withContext(db, gctx), clinicID, dentist.ID, filter)
		if err != nil {
			s.log.Warnf("Failed to load treatment plan payments for dentist %s: %+v", dentist.ID, err)
			return apperror.Wrap("load treatment plan payments", err)
		}
		planTxs = TreatmentPlanTransactions(payments, dentist.GeneralCommissionPct)
		return nil
	})

	g.Go(func() error {
		attendances, err := s.attendanceRepo.FindDoneForDentist(withContext(db, gctx), clinicID, dentist.ID, filter)
		if err != nil {
			s.log.Warnf("Failed to load attendances for dentist %s: %+v", dentist.ID, err)
			return apperror.Wrap("load attendances", err)
		}
		if len(attendances) == 0 {
			return nil
		}

		approved, err := s.treatmentPlanRepo.FindApprovedPatientIDs(withContext(db, gctx), clinicID, dentist.ID, attendancePatientIDs(attendances))
		if err != nil {
			s.log.Warnf("Failed to load approved treatment plans for dentist %s: %+v", dentist.ID, err)
			return apperror.Wrap("load approved treatment plans", err)
		}
		attendanceTxs = AttendanceTransactions(attendances, dentist.GeneralCommissionPct, toSet(approved))
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return append(planTxs, attendanceTxs...), nil
}

// TreatmentPlanTransactions maps every paid plan item into a settled ledger line.
func TreatmentPlanTransactions(payments []entity.Payment, generalPct decimal.NullDecimal) []entity.FinancialTransaction {
	var txs []entity.FinancialTransaction
	for _, payment := range payments {
		plan := payment.TreatmentPlan
		for _, paid := range payment.Items {
			item := paid.TreatmentPlanItem
			gross := item.UnitValue.Mul(decimal.NewFromInt(int64(normalizeQuantity(item.Quantity))))
			commission, tier := ResolveCommission(gross, item.Procedure.CommissionRate(), generalPct)

			txs = append(txs, entity.FinancialTransaction{
				ID:               fmt.Sprintf("tp:%s:%s", payment.ID, paid.ID),
				Date:             payment.PaidAt,
				PatientID:        plan.PatientID,
				PatientName:      plan.Patient.FullName,
				ProcedureID:      item.ProcedureID,
				ProcedureName:    procedureName(item.Procedure, item.Description),
				GrossValue:       gross,
				CommissionAmount: commission,
				CommissionType:   tier,
				Status:           entity.TransactionStatusPaid,
				Source:           entity.TransactionSourceTreatmentPlan,
				SourceID:         payment.ID,
			})
		}
	}
	return txs
}

// AttendanceTransactions maps every performed procedure line into a ledger
// line. A line counts as paid when the patient has an approved plan with the
// dentist; the plan is not matched against the procedure itself.
func AttendanceTransactions(attendances []entity.Attendance, generalPct decimal.NullDecimal, approvedPatients map[uuid.UUID]struct{}) []entity.FinancialTransaction {
	var txs []entity.FinancialTransaction
	for _, attendance := range attendances {
		status := entity.TransactionStatusPending
		if _, ok := approvedPatients[attendance.PatientID]; ok {
			status = entity.TransactionStatusPaid
		}

		for _, line := range attendance.Procedures {
			unit := decimal.Zero
			switch {
			case line.Price.Valid:
				unit = line.Price.Decimal
			case line.Procedure != nil:
				unit = line.Procedure.BaseValue
			}
			gross := unit.Mul(decimal.NewFromInt(int64(normalizeQuantity(line.Quantity))))
			commission, tier := ResolveCommission(gross, line.Procedure.CommissionRate(), generalPct)

			txs = append(txs, entity.FinancialTransaction{
				ID:               fmt.Sprintf("at:%s:%s", attendance.ID, line.ID),
				Date:             attendance.AttendedAt,
				PatientID:        attendance.PatientID,
				PatientName:      attendance.Patient.FullName,
				ProcedureID:      line.ProcedureID,
				ProcedureName:    procedureName(line.Procedure, line.Description),
				GrossValue:       gross,
				CommissionAmount: commission,
				CommissionType:   tier,
				Status:           status,
				Source:           entity.TransactionSourceAttendance,
				SourceID:         attendance.ID,
			})
		}
	}
	return txs
}

// BuildFinancialReport applies the post-resolution filters, sorts newest
// first and aggregates. Totals are computed from the filtered lines only.
func BuildFinancialReport(dentistID uuid.UUID, txs []entity.FinancialTransaction, filter *entity.FinancialFilter) *entity.FinancialReport {
	kept := make([]entity.FinancialTransaction, 0, len(txs))
	for _, tx := range txs {
		if filter != nil {
			if filter.ProcedureID != nil && (tx.ProcedureID == nil || *tx.ProcedureID != *filter.ProcedureID) {
				continue
			}
			if filter.CommissionType != nil && tx.CommissionType != *filter.CommissionType {
				continue
			}
		}
		kept = append(kept, tx)
	}

	slices.SortStableFunc(kept, func(a, b entity.FinancialTransaction) int {
		if c := b.Date.Compare(a.Date); c != 0 {
			return c
		}
		return strings.Compare(a.ID, b.ID)
	})

	report := &entity.FinancialReport{
		DentistID:       dentistID,
		GrossProduction: decimal.Zero,
		TotalReceived:   decimal.Zero,
		TotalPending:    decimal.Zero,
		Transactions:    kept,
	}
	for _, tx := range kept {
		report.GrossProduction = report.GrossProduction.Add(tx.GrossValue)
		switch tx.Status {
		case entity.TransactionStatusPaid:
			report.TotalReceived = report.TotalReceived.Add(tx.CommissionAmount)
		default:
			report.TotalPending = report.TotalPending.Add(tx.CommissionAmount)
		}
	}
	// Commission already is the dentist's share; nothing else is deducted.
	report.NetReceived = report.TotalReceived

	return report
}

func normalizeQuantity(q int) int {
	if q <= 0 {
		return 1
	}
	return q
}

func procedureName(p *entity.Procedure, fallback string) string {
	if p != nil && p.Name != "" {
		return p.Name
	}
	return fallback
}

func attendancePatientIDs(attendances []entity.Attendance) []uuid.UUID {
	seen := make(map[uuid.UUID]struct{}, len(attendances))
	ids := make([]uuid.UUID, 0, len(attendances))
	for _, a := range attendances {
		if _, ok := seen[a.PatientID]; ok {
			continue
		}
		seen[a.PatientID] = struct{}{}
		ids = append(ids, a.PatientID)
	}
	return ids
}

func toSet(ids []uuid.UUID) map[uuid.UUID]struct{} {
	set := make(map[uuid.UUID]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set
}

func withContext(db *gorm.DB, ctx context.Context) *gorm.DB {
	if db == nil {
		return nil
	}
	return db.WithContext(ctx)
}
