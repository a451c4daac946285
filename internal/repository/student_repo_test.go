package repository

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newStudentRepoWithMock(t *testing.T) (*StudentRepository, sqlmock.Sqlmock) {
	t.Helper()
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { mockDB.Close() })

	db := sqlx.NewDb(mockDB, "sqlmock")
	return NewStudentRepository(db), mock
}

func studentRows(lrn, fullName string, balance int, section *string) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"lrn", "full_name", "points_balance", "section", "last_updated"}).
		AddRow(lrn, fullName, balance, section, time.Now())
}

func TestGetByLRN_NotFound(t *testing.T) {
	repo, mock := newStudentRepoWithMock(t)

	mock.ExpectQuery(`SELECT lrn, full_name, points_balance, section, last_updated`).
		WithArgs("123456789012").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.GetByLRN(context.Background(), "123456789012")
	assert.ErrorIs(t, err, sql.ErrNoRows)
}

func TestAccruePoints_CommitsUpsertAndScanLog(t *testing.T) {
	repo, mock := newStudentRepoWithMock(t)

	section := "Valor"
	product := "Water Bottle 500ml"

	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO student_points`).
		WithArgs("123456789012", "Juan Dela Cruz", 1, section).
		WillReturnRows(studentRows("123456789012", "Juan Dela Cruz", 6, &section))
	mock.ExpectExec(`INSERT INTO scan_logs`).
		WithArgs("123456789012", section, 1, product).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	got, err := repo.AccruePoints(context.Background(), "123456789012", "Juan Dela Cruz", 1, &section, &product)
	require.NoError(t, err)
	assert.Equal(t, 6, got.PointsBalance)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAccruePoints_RollsBackWhenLogInsertFails(t *testing.T) {
	repo, mock := newStudentRepoWithMock(t)

	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO student_points`).
		WithArgs("123456789012", "Juan Dela Cruz", 1, nil).
		WillReturnRows(studentRows("123456789012", "Juan Dela Cruz", 1, nil))
	mock.ExpectExec(`INSERT INTO scan_logs`).
		WithArgs("123456789012", nil, 1, nil).
		WillReturnError(errors.New("disk full"))
	mock.ExpectRollback()

	_, err := repo.AccruePoints(context.Background(), "123456789012", "Juan Dela Cruz", 1, nil, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "scan log insert")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRedeemPoints_DebitsAndLogs(t *testing.T) {
	repo, mock := newStudentRepoWithMock(t)

	mock.ExpectBegin()
	mock.ExpectQuery(`UPDATE student_points`).
		WithArgs("123456789012", 30).
		WillReturnRows(sqlmock.NewRows([]string{"points_balance"}).AddRow(20))
	mock.ExpectExec(`INSERT INTO redemption_logs`).
		WithArgs("123456789012", "Eco Tumbler", 30).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	newBalance, err := repo.RedeemPoints(context.Background(), "123456789012", "Eco Tumbler", 30)
	require.NoError(t, err)
	assert.Equal(t, 20, newBalance)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRedeemPoints_InsufficientBalanceReturnsNoRows(t *testing.T) {
	repo, mock := newStudentRepoWithMock(t)

	// The conditional debit matches no row when the stored balance is below
	// the cost, so the driver reports no rows and nothing is logged.
	mock.ExpectBegin()
	mock.ExpectQuery(`UPDATE student_points`).
		WithArgs("123456789012", 500).
		WillReturnRows(sqlmock.NewRows([]string{"points_balance"}))
	mock.ExpectRollback()

	_, err := repo.RedeemPoints(context.Background(), "123456789012", "Eco Tumbler", 500)
	assert.ErrorIs(t, err, sql.ErrNoRows)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRegister_InsertsZeroBalance(t *testing.T) {
	repo, mock := newStudentRepoWithMock(t)

	mock.ExpectQuery(`INSERT INTO student_points`).
		WithArgs("123456789012", "Juan Dela Cruz", nil).
		WillReturnRows(studentRows("123456789012", "Juan Dela Cruz", 0, nil))

	got, err := repo.Register(context.Background(), "123456789012", "Juan Dela Cruz", nil)
	require.NoError(t, err)
	assert.Equal(t, 0, got.PointsBalance)
	assert.NoError(t, mock.ExpectationsWereMet())
}
