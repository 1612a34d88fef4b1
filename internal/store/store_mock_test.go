package store

import (
	"context"
	"database/sql/driver"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"printshop-backend/internal/model"
)

// A helper function to create a mock database connection.
func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	gormDB, err := gorm.Open(postgres.New(postgres.Config{
		Conn: db,
	}), &gorm.Config{})
	require.NoError(t, err)

	return gormDB, mock
}

func TestGormStore_UpdateOrderStatus(t *testing.T) {
	now := time.Now()

	testCases := []struct {
		name             string
		status           model.OrderStatus
		completedAt      *time.Time
		mockExpectations func(mock sqlmock.Sqlmock)
		expectedErr      error
	}{
		{
			name:   "Status only",
			status: model.StatusPrinting,
			mockExpectations: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				mock.ExpectExec(regexp.QuoteMeta(`UPDATE "orders" SET "status"=$1 WHERE id = $2`)).
					WithArgs(string(model.StatusPrinting), int64(7)).
					WillReturnResult(sqlmock.NewResult(0, 1))
				mock.ExpectCommit()
			},
		},
		{
			name:        "Completion sets timestamp",
			status:      model.StatusCompleted,
			completedAt: &now,
			mockExpectations: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				mock.ExpectExec(regexp.QuoteMeta(`UPDATE "orders" SET "completed_at"=$1,"status"=$2 WHERE id = $3`)).
					WithArgs(anyArg{}, string(model.StatusCompleted), int64(7)).
					WillReturnResult(sqlmock.NewResult(0, 1))
				mock.ExpectCommit()
			},
		},
		{
			name:   "Missing order",
			status: model.StatusPrinting,
			mockExpectations: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				mock.ExpectExec(regexp.QuoteMeta(`UPDATE "orders"`)).
					WithArgs(string(model.StatusPrinting), int64(7)).
					WillReturnResult(sqlmock.NewResult(0, 0))
				mock.ExpectCommit()
			},
			expectedErr: gorm.ErrRecordNotFound,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			gormDB, mock := newMockDB(t)
			store := NewGormStore(gormDB)

			tc.mockExpectations(mock)

			err := store.UpdateOrderStatus(context.Background(), 7, tc.status, tc.completedAt)

			if tc.expectedErr != nil {
				assert.ErrorIs(t, err, tc.expectedErr)
			} else {
				assert.NoError(t, err)
			}

			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestGormStore_CountInQueue(t *testing.T) {
	gormDB, mock := newMockDB(t)
	store := NewGormStore(gormDB)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT count(*) FROM "orders" WHERE printer_id = $1 AND status = $2`)).
		WithArgs(int64(3), string(model.StatusInQueue)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(5))

	count, err := store.CountInQueue(context.Background(), 3)
	require.NoError(t, err)
	assert.Equal(t, int64(5), count)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// anyArg matches any argument in a sqlmock expectation.
type anyArg struct{}

// Match satisfies the sqlmock.Argument interface.
func (a anyArg) Match(v driver.Value) bool {
	return true
}
