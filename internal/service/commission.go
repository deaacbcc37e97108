package service

import (
	"go-dental-clinic/internal/domain/entity"

	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// ResolveCommission applies the two-tier commission policy to a gross value.
//
// A present, non-zero procedure rate always wins. Otherwise a present,
// non-zero dentist general rate applies. With neither, the commission is
// zero and reported as GENERAL. No rounding happens here.
func ResolveCommission(gross decimal.Decimal, procedurePct, generalPct decimal.NullDecimal) (decimal.Decimal, entity.CommissionType) {
	if procedurePct.Valid && !procedurePct.Decimal.IsZero() {
		return gross.Mul(procedurePct.Decimal).Div(hundred), entity.CommissionTypeProcedure
	}
	if generalPct.Valid && !generalPct.Decimal.IsZero() {
		return gross.Mul(generalPct.Decimal).Div(hundred), entity.CommissionTypeGeneral
	}
	return decimal.Zero, entity.CommissionTypeGeneral
}
