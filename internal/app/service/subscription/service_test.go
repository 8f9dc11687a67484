package subscription

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/vitalfit/backend/internal/app/service/notification"
	"github.com/vitalfit/backend/internal/models"
	"github.com/vitalfit/backend/pkg/config"
	"github.com/vitalfit/backend/pkg/types"
)

func setupServiceMock(t *testing.T) (*Service, sqlmock.Sqlmock, func()) {
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		SkipDefaultTransaction: true,
		Logger:                 gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	notif := notification.New(db, zap.NewNop().Sugar())
	svc := NewService(&config.Config{}, db, zap.NewNop().Sugar(), notif)
	closer := func() { _ = sqlDB.Close() }
	return svc, mock, closer
}

func subscriptionRows(id string, status types.SubscriptionStatus, endAt *time.Time, cancelledAt *time.Time) *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "user_id", "gym_id", "status", "start_at", "end_at", "auto_renew", "cancelled_at",
	}).AddRow(id, "user-1", "gym-1", string(status), time.Now().AddDate(0, -1, 0), endAt, true, cancelledAt)
}

func TestCancel_SetsCancelledAtAndKeepsActive(t *testing.T) {
	svc, mock, closer := setupServiceMock(t)
	defer closer()

	end := time.Now().AddDate(0, 1, 0)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT \* FROM "subscription" WHERE id = \$1`).
		WithArgs("sub-1", 1).
		WillReturnRows(subscriptionRows("sub-1", types.SubscriptionStatusActive, &end, nil))
	mock.ExpectExec(`UPDATE "subscription" SET`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := svc.Cancel(context.Background(), "sub-1")
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCancel_AlreadyCancelledIsIdempotent(t *testing.T) {
	svc, mock, closer := setupServiceMock(t)
	defer closer()

	end := time.Now().AddDate(0, 1, 0)
	cancelled := time.Now().AddDate(0, 0, -1)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT \* FROM "subscription" WHERE id = \$1`).
		WithArgs("sub-1", 1).
		WillReturnRows(subscriptionRows("sub-1", types.SubscriptionStatusActive, &end, &cancelled))
	mock.ExpectCommit()

	err := svc.Cancel(context.Background(), "sub-1")
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCancel_RejectsExpiredSubscription(t *testing.T) {
	svc, mock, closer := setupServiceMock(t)
	defer closer()

	end := time.Now().AddDate(0, 0, -3)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT \* FROM "subscription" WHERE id = \$1`).
		WithArgs("sub-1", 1).
		WillReturnRows(subscriptionRows("sub-1", types.SubscriptionStatusExpired, &end, nil))
	mock.ExpectRollback()

	err := svc.Cancel(context.Background(), "sub-1")
	require.Error(t, err)
	require.Contains(t, err.Error(), "cannot cancel")
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRenew_RejectsEarlierEndDate(t *testing.T) {
	svc, mock, closer := setupServiceMock(t)
	defer closer()

	end := time.Now().AddDate(0, 2, 0)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT \* FROM "subscription" WHERE id = \$1`).
		WithArgs("sub-1", 1).
		WillReturnRows(subscriptionRows("sub-1", types.SubscriptionStatusActive, &end, nil))
	mock.ExpectRollback()

	err := svc.Renew(context.Background(), "sub-1", time.Now().AddDate(0, 1, 0), 0, "")
	require.Error(t, err)
	require.Contains(t, err.Error(), "must be after")
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestScanSubscriptions_DefaultsSizeAndFrom(t *testing.T) {
	svc, mock, closer := setupServiceMock(t)
	defer closer()

	mock.ExpectQuery(`SELECT count\(\*\) FROM "subscription"`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))
	mock.ExpectQuery(`SELECT \* FROM "subscription" LIMIT \$1`).
		WithArgs(10).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "gym_id", "status"}).
			AddRow("sub-1", "user-1", "gym-1", "active").
			AddRow("sub-2", "user-2", "gym-1", "pending"))

	res, err := svc.ScanSubscriptions(context.Background(), &ScanSubscriptionsRequest{})
	require.NoError(t, err)
	require.EqualValues(t, 2, res.Total)
	require.Len(t, res.Items, 2)
	require.Equal(t, types.SubscriptionStatusActive, res.Items[0].Status)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestScanSubscriptions_NilRequest(t *testing.T) {
	svc, _, closer := setupServiceMock(t)
	defer closer()

	_, err := svc.ScanSubscriptions(context.Background(), nil)
	require.Error(t, err)
}

func TestGymRef(t *testing.T) {
	require.Nil(t, gymRef(&models.Subscription{}))
	ref := gymRef(&models.Subscription{GymID: "gym-9"})
	require.NotNil(t, ref)
	require.Equal(t, "gym-9", *ref)
}
