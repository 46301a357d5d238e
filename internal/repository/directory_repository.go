package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/nutratech/prf-api/internal/models"
)

// DirectoryRepository resolves people: active employees first, head users as
// the fallback for approver roles held by management accounts.
type DirectoryRepository struct {
	db *sqlx.DB
}

// NewDirectoryRepository constructs the repository.
func NewDirectoryRepository(db *sqlx.DB) *DirectoryRepository {
	return &DirectoryRepository{db: db}
}

// EmployeeByID fetches one active employee.
func (r *DirectoryRepository) EmployeeByID(ctx context.Context, id string) (*models.Employee, error) {
	const query = `SELECT id, full_name, email, active FROM employees WHERE id = $1 AND active = TRUE`
	var employee models.Employee
	if err := r.db.GetContext(ctx, &employee, query, id); err != nil {
		return nil, err
	}
	return &employee, nil
}

// EmployeeByName resolves an active employee by exact full name.
func (r *DirectoryRepository) EmployeeByName(ctx context.Context, fullName string) (*models.Employee, error) {
	const query = `SELECT id, full_name, email, active FROM employees WHERE full_name = $1 AND active = TRUE`
	var employee models.Employee
	if err := r.db.GetContext(ctx, &employee, query, fullName); err != nil {
		return nil, err
	}
	return &employee, nil
}

// HeadUserByID fetches one head user.
func (r *DirectoryRepository) HeadUserByID(ctx context.Context, id string) (*models.HeadUser, error) {
	const query = `SELECT id, full_name, email FROM head_users WHERE id = $1`
	var head models.HeadUser
	if err := r.db.GetContext(ctx, &head, query, id); err != nil {
		return nil, err
	}
	return &head, nil
}

// HeadUserByName resolves a head user by exact full name.
func (r *DirectoryRepository) HeadUserByName(ctx context.Context, fullName string) (*models.HeadUser, error) {
	const query = `SELECT id, full_name, email FROM head_users WHERE full_name = $1`
	var head models.HeadUser
	if err := r.db.GetContext(ctx, &head, query, fullName); err != nil {
		return nil, err
	}
	return &head, nil
}

// EmployeesByNames resolves a batch of names in one round trip. Names with no
// active employee are simply absent from the result map.
func (r *DirectoryRepository) EmployeesByNames(ctx context.Context, names []string) (map[string]models.Employee, error) {
	if len(names) == 0 {
		return map[string]models.Employee{}, nil
	}
	query, args, err := sqlx.In(`SELECT id, full_name, email, active FROM employees WHERE full_name IN (?) AND active = TRUE`, names)
	if err != nil {
		return nil, fmt.Errorf("build employee batch query: %w", err)
	}
	query = r.db.Rebind(query)

	var employees []models.Employee
	if err := r.db.SelectContext(ctx, &employees, query, args...); err != nil {
		return nil, fmt.Errorf("batch resolve employees: %w", err)
	}

	byName := make(map[string]models.Employee, len(employees))
	for _, e := range employees {
		byName[e.FullName] = e
	}
	return byName, nil
}
