package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/nutratech/prf-api/internal/models"
)

// AssignmentRepository persists per-submitter approval chain configuration.
type AssignmentRepository struct {
	db *sqlx.DB
}

// NewAssignmentRepository constructs the repository.
func NewAssignmentRepository(db *sqlx.DB) *AssignmentRepository {
	return &AssignmentRepository{db: db}
}

const assignmentColumns = `id, user_id, applic_type, assigned_at,
       checked_by_id, checked_by_email,
       second_checked_by_id, second_checked_by_email,
       approved_by_id, approved_by_email,
       received_by_id, received_by_email`

// GetByUserID fetches the PRF approval chain configured for one submitter.
func (r *AssignmentRepository) GetByUserID(ctx context.Context, userID int64) (*models.AssignedApproval, error) {
	query := fmt.Sprintf(`SELECT %s FROM assigned_approvals WHERE user_id = $1 AND applic_type = $2`, assignmentColumns)
	var assignment models.AssignedApproval
	if err := r.db.GetContext(ctx, &assignment, query, userID, models.ApplicTypePRF); err != nil {
		return nil, err
	}
	return &assignment, nil
}

// Upsert writes a submitter's chain, replacing any existing configuration.
// Keyed on (user_id, applic_type) so re-populating is idempotent.
func (r *AssignmentRepository) Upsert(ctx context.Context, assignment *models.AssignedApproval) error {
	if assignment.ApplicType == "" {
		assignment.ApplicType = models.ApplicTypePRF
	}
	if assignment.AssignedAt.IsZero() {
		assignment.AssignedAt = time.Now().UTC()
	}
	const query = `INSERT INTO assigned_approvals
	(user_id, applic_type, assigned_at,
	 checked_by_id, checked_by_email,
	 second_checked_by_id, second_checked_by_email,
	 approved_by_id, approved_by_email,
	 received_by_id, received_by_email)
	VALUES (:user_id, :applic_type, :assigned_at,
	 :checked_by_id, :checked_by_email,
	 :second_checked_by_id, :second_checked_by_email,
	 :approved_by_id, :approved_by_email,
	 :received_by_id, :received_by_email)
	ON CONFLICT (user_id, applic_type) DO UPDATE SET
	 assigned_at = EXCLUDED.assigned_at,
	 checked_by_id = EXCLUDED.checked_by_id,
	 checked_by_email = EXCLUDED.checked_by_email,
	 second_checked_by_id = EXCLUDED.second_checked_by_id,
	 second_checked_by_email = EXCLUDED.second_checked_by_email,
	 approved_by_id = EXCLUDED.approved_by_id,
	 approved_by_email = EXCLUDED.approved_by_email,
	 received_by_id = EXCLUDED.received_by_id,
	 received_by_email = EXCLUDED.received_by_email`
	if _, err := r.db.NamedExecContext(ctx, query, assignment); err != nil {
		return fmt.Errorf("upsert approval assignment: %w", err)
	}
	return nil
}

// List returns every configured PRF chain, newest assignment first.
func (r *AssignmentRepository) List(ctx context.Context) ([]models.AssignedApproval, error) {
	query := fmt.Sprintf(`SELECT %s FROM assigned_approvals WHERE applic_type = $1 ORDER BY assigned_at DESC`, assignmentColumns)
	var assignments []models.AssignedApproval
	if err := r.db.SelectContext(ctx, &assignments, query, models.ApplicTypePRF); err != nil {
		return nil, fmt.Errorf("list approval assignments: %w", err)
	}
	return assignments, nil
}
