package usecase

import (
	"context"
	"io"
	"testing"

	"go-dental-clinic/internal/delivery/http/middleware"
	"go-dental-clinic/pkg/jwt"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

// newMockDB returns a gorm handle over sqlmock. Repositories are faked in
// these tests, so only transaction boundaries reach the driver.
func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()

	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		Logger: logger.Discard,
	})
	require.NoError(t, err)

	return db, mock
}

func callerContext(clinicID, userID uuid.UUID, roleID int) context.Context {
	return middleware.NewContext(context.Background(), &jwt.Claims{
		UserID:   userID,
		ClinicID: clinicID,
		RoleID:   roleID,
		TokenID:  uuid.NewString(),
	})
}
