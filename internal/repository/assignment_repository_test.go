package repository

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"

	"github.com/nutratech/prf-api/internal/models"
)

func newAssignmentRepoMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func assignmentRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "user_id", "applic_type", "assigned_at",
		"checked_by_id", "checked_by_email",
		"second_checked_by_id", "second_checked_by_email",
		"approved_by_id", "approved_by_email",
		"received_by_id", "received_by_email",
	})
}

func TestAssignmentRepositoryGetByUserID(t *testing.T) {
	db, mock, cleanup := newAssignmentRepoMock(t)
	defer cleanup()

	repo := NewAssignmentRepository(db)
	rows := assignmentRows().AddRow(
		int64(1), int64(7), models.ApplicTypePRF, time.Now(),
		"emp-ana", "ana@nutratech.test",
		nil, nil,
		"head-pedro", nil,
		"emp-liza", "liza@nutratech.test",
	)
	mock.ExpectQuery(regexp.QuoteMeta("FROM assigned_approvals WHERE user_id = $1 AND applic_type = $2")).
		WithArgs(int64(7), models.ApplicTypePRF).
		WillReturnRows(rows)

	assignment, err := repo.GetByUserID(context.Background(), 7)
	require.NoError(t, err)
	require.Equal(t, "emp-ana", *assignment.CheckedByID)
	require.False(t, assignment.HasSecondChecker())
	require.Nil(t, assignment.ApprovedByEmail)
	require.NoError(t, mock.ExpectationsWereMet())

	mock.ExpectQuery(regexp.QuoteMeta("FROM assigned_approvals WHERE user_id = $1 AND applic_type = $2")).
		WithArgs(int64(8), models.ApplicTypePRF).
		WillReturnError(sql.ErrNoRows)
	_, err = repo.GetByUserID(context.Background(), 8)
	require.ErrorIs(t, err, sql.ErrNoRows)
}

func TestAssignmentRepositoryUpsert(t *testing.T) {
	db, mock, cleanup := newAssignmentRepoMock(t)
	defer cleanup()

	repo := NewAssignmentRepository(db)
	mock.ExpectExec(regexp.QuoteMeta("ON CONFLICT (user_id, applic_type) DO UPDATE SET")).
		WillReturnResult(sqlmock.NewResult(1, 1))

	id := "emp-ana"
	assignment := &models.AssignedApproval{UserID: 7, CheckedByID: &id}
	require.NoError(t, repo.Upsert(context.Background(), assignment))
	// Defaults are filled in before the write.
	require.Equal(t, models.ApplicTypePRF, assignment.ApplicType)
	require.False(t, assignment.AssignedAt.IsZero())
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAssignmentRepositoryList(t *testing.T) {
	db, mock, cleanup := newAssignmentRepoMock(t)
	defer cleanup()

	repo := NewAssignmentRepository(db)
	rows := assignmentRows().
		AddRow(int64(1), int64(7), models.ApplicTypePRF, time.Now(), "emp-ana", nil, nil, nil, nil, nil, nil, nil).
		AddRow(int64(2), int64(8), models.ApplicTypePRF, time.Now(), "emp-liza", nil, nil, nil, nil, nil, nil, nil)
	mock.ExpectQuery(regexp.QuoteMeta("FROM assigned_approvals WHERE applic_type = $1 ORDER BY assigned_at DESC")).
		WithArgs(models.ApplicTypePRF).
		WillReturnRows(rows)

	assignments, err := repo.List(context.Background())
	require.NoError(t, err)
	require.Len(t, assignments, 2)
	require.Equal(t, int64(8), assignments[1].UserID)
	require.NoError(t, mock.ExpectationsWereMet())
}
