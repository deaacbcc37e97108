package entity

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppointmentStatus_RoundTripsByName(t *testing.T) {
	for status, name := range appointmentStatusNames {
		parsed, err := ParseAppointmentStatus(name)
		require.NoError(t, err)
		assert.Equal(t, status, parsed)
		assert.Equal(t, name, status.String())
	}
	assert.Len(t, appointmentStatusNames, 6)
}

func TestAppointmentStatus_RejectsUnknownName(t *testing.T) {
	_, err := ParseAppointmentStatus("cancelled")
	assert.ErrorIs(t, err, ErrInvalidAppointmentStatus)

	var zero AppointmentStatus
	_, err = zero.Value()
	assert.ErrorIs(t, err, ErrInvalidAppointmentStatus)
}

func TestAppointmentStatus_BlocksSlot(t *testing.T) {
	blocking := map[AppointmentStatus]bool{
		AppointmentStatusScheduled:   true,
		AppointmentStatusConfirmed:   true,
		AppointmentStatusRescheduled: true,
		AppointmentStatusCanceled:    false,
		AppointmentStatusNoShow:      false,
		AppointmentStatusDone:        false,
	}
	for status, want := range blocking {
		assert.Equal(t, want, status.BlocksSlot(), status.String())
	}
	assert.ElementsMatch(t, []AppointmentStatus{
		AppointmentStatusScheduled, AppointmentStatusConfirmed, AppointmentStatusRescheduled,
	}, BlockingAppointmentStatuses())
}

func TestAppointmentStatus_JSON(t *testing.T) {
	payload, err := json.Marshal(struct {
		Status AppointmentStatus `json:"status"`
	}{AppointmentStatusNoShow})
	require.NoError(t, err)
	assert.JSONEq(t, `{"status":"NO_SHOW"}`, string(payload))

	var decoded struct {
		Status AppointmentStatus `json:"status"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"status":"DONE"}`), &decoded))
	assert.Equal(t, AppointmentStatusDone, decoded.Status)
}

func TestAppointmentStatus_Scan(t *testing.T) {
	var s AppointmentStatus
	require.NoError(t, s.Scan([]byte("CONFIRMED")))
	assert.Equal(t, AppointmentStatusConfirmed, s)
	assert.Error(t, s.Scan(42))
}

func TestAppointment_EndAndBeforeSave(t *testing.T) {
	start := time.Date(2026, 3, 2, 14, 0, 0, 0, time.UTC)
	appt := &Appointment{StartAt: start, DurationMinutes: 45}

	require.NoError(t, appt.BeforeSave(nil))
	assert.Equal(t, start.Add(45*time.Minute), appt.EndsAt)
}

func TestProcedureSnapshot_ValueScan(t *testing.T) {
	snap := ProcedureSnapshot{
		Name:                 "Restauração",
		BaseValue:            decimal.RequireFromString("250.00"),
		CommissionPercentage: decimal.RequireFromString("35"),
	}
	raw, err := snap.Value()
	require.NoError(t, err)

	var decoded ProcedureSnapshot
	require.NoError(t, decoded.Scan(raw))
	assert.Equal(t, snap.Name, decoded.Name)
	assert.True(t, snap.BaseValue.Equal(decoded.BaseValue))
	assert.True(t, snap.CommissionPercentage.Equal(decoded.CommissionPercentage))
}

func TestValidDuration(t *testing.T) {
	assert.False(t, ValidDuration(14))
	assert.True(t, ValidDuration(15))
	assert.True(t, ValidDuration(480))
	assert.False(t, ValidDuration(481))
}
