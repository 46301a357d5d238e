package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/nutratech/prf-api/internal/dto"
	"github.com/nutratech/prf-api/internal/models"
	appErrors "github.com/nutratech/prf-api/pkg/errors"
)

type assignmentStore interface {
	GetByUserID(ctx context.Context, userID int64) (*models.AssignedApproval, error)
	Upsert(ctx context.Context, assignment *models.AssignedApproval) error
	List(ctx context.Context) ([]models.AssignedApproval, error)
}

type personDirectory interface {
	EmployeeByID(ctx context.Context, id string) (*models.Employee, error)
	EmployeeByName(ctx context.Context, fullName string) (*models.Employee, error)
	HeadUserByID(ctx context.Context, id string) (*models.HeadUser, error)
	HeadUserByName(ctx context.Context, fullName string) (*models.HeadUser, error)
}

type chainCache interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// AssignmentService manages per-submitter approval chains: who checks,
// optionally double-checks, approves and receives that submitter's PRFs.
type AssignmentService struct {
	repo      assignmentStore
	directory personDirectory
	cache     chainCache
	cacheTTL  time.Duration
	logger    *zap.Logger
}

// NewAssignmentService constructs the service.
func NewAssignmentService(repo assignmentStore, directory personDirectory, cache chainCache, cacheTTL time.Duration, logger *zap.Logger) *AssignmentService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cacheTTL <= 0 {
		cacheTTL = 10 * time.Minute
	}
	return &AssignmentService{repo: repo, directory: directory, cache: cache, cacheTTL: cacheTTL, logger: logger}
}

func chainCacheKey(userID int64) string {
	return fmt.Sprintf("prf:chain:%d", userID)
}

// ResolveChain returns the fully resolved approval chain for one submitter.
// A submitter with no configured mapping is a NotFound error; individual
// slots that resolve nowhere stay nil and are skipped downstream.
func (s *AssignmentService) ResolveChain(ctx context.Context, userID int64) (*models.ApprovalChain, error) {
	key := chainCacheKey(userID)
	if s.cache != nil {
		var cached models.ApprovalChain
		if err := s.cache.Get(ctx, key, &cached); err == nil {
			return &cached, nil
		} else if !errors.Is(err, appErrors.ErrCacheMiss) {
			s.logger.Warn("chain cache read failed", zap.Int64("userId", userID), zap.Error(err))
		}
	}

	assignment, err := s.repo.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "no approval assignment for user")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load approval assignment")
	}

	chain := &models.ApprovalChain{UserID: userID}
	var resolveErr error
	resolve := func(id, email *string) *models.Approver {
		if resolveErr != nil {
			return nil
		}
		approver, err := s.resolveSlot(ctx, id, email)
		if err != nil {
			resolveErr = err
		}
		return approver
	}
	chain.CheckedBy = resolve(assignment.CheckedByID, assignment.CheckedByEmail)
	chain.SecondCheckedBy = resolve(assignment.SecondCheckedByID, assignment.SecondCheckedByEmail)
	chain.ApprovedBy = resolve(assignment.ApprovedByID, assignment.ApprovedByEmail)
	chain.ReceivedBy = resolve(assignment.ReceivedByID, assignment.ReceivedByEmail)
	if resolveErr != nil {
		return nil, appErrors.Wrap(resolveErr, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to resolve approver")
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, key, chain, s.cacheTTL); err != nil {
			s.logger.Warn("chain cache write failed", zap.Int64("userId", userID), zap.Error(err))
		}
	}
	return chain, nil
}

// resolveSlot turns a stored (id, email) pair into an Approver. The employee
// directory wins; head users are the fallback. An id present in neither
// directory is a nil slot, not an error; a lookup that fails for any other
// reason propagates so a transient outage never gets cached as an empty slot.
func (s *AssignmentService) resolveSlot(ctx context.Context, id, storedEmail *string) (*models.Approver, error) {
	if id == nil || *id == "" {
		return nil, nil
	}

	var fullName string
	var dirEmail *string
	employee, err := s.directory.EmployeeByID(ctx, *id)
	switch {
	case err == nil:
		fullName = employee.FullName
		dirEmail = employee.Email
	case errors.Is(err, sql.ErrNoRows):
		head, headErr := s.directory.HeadUserByID(ctx, *id)
		if headErr != nil {
			if errors.Is(headErr, sql.ErrNoRows) {
				s.logger.Warn("approver id resolves to no directory entry", zap.String("id", *id))
				return nil, nil
			}
			return nil, headErr
		}
		fullName = head.FullName
		dirEmail = head.Email
	default:
		return nil, err
	}

	email := ""
	switch {
	case storedEmail != nil && *storedEmail != "":
		email = *storedEmail
	case dirEmail != nil:
		email = *dirEmail
	}
	return &models.Approver{ID: *id, Email: email, FullName: fullName}, nil
}

// Populate configures a submitter's chain from human-entered names. Each name
// is resolved directory-first with a head-user fallback; a name that resolves
// nowhere leaves its slot empty rather than failing the whole operation. The
// write is an idempotent upsert keyed on the submitter.
func (s *AssignmentService) Populate(ctx context.Context, req dto.PopulateAssignmentRequest) (*models.AssignedApproval, error) {
	assignment := &models.AssignedApproval{
		UserID:     req.UserID,
		ApplicType: models.ApplicTypePRF,
		AssignedAt: time.Now().UTC(),
	}

	assignment.CheckedByID, assignment.CheckedByEmail = s.resolveName(ctx, req.CheckedByName)
	assignment.SecondCheckedByID, assignment.SecondCheckedByEmail = s.resolveName(ctx, req.SecondCheckedByName)
	assignment.ApprovedByID, assignment.ApprovedByEmail = s.resolveName(ctx, req.ApprovedByName)
	assignment.ReceivedByID, assignment.ReceivedByEmail = s.resolveName(ctx, req.ReceivedByName)

	if err := s.repo.Upsert(ctx, assignment); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to store approval assignment")
	}

	if s.cache != nil {
		if err := s.cache.Delete(ctx, chainCacheKey(req.UserID)); err != nil {
			s.logger.Warn("chain cache invalidation failed", zap.Int64("userId", req.UserID), zap.Error(err))
		}
	}
	return assignment, nil
}

func (s *AssignmentService) resolveName(ctx context.Context, name *string) (id, email *string) {
	if name == nil || *name == "" {
		return nil, nil
	}

	if employee, err := s.directory.EmployeeByName(ctx, *name); err == nil {
		return &employee.ID, employee.Email
	} else if !errors.Is(err, sql.ErrNoRows) {
		s.logger.Warn("employee lookup failed", zap.String("name", *name), zap.Error(err))
	}

	if head, err := s.directory.HeadUserByName(ctx, *name); err == nil {
		return &head.ID, head.Email
	} else if !errors.Is(err, sql.ErrNoRows) {
		s.logger.Warn("head user lookup failed", zap.String("name", *name), zap.Error(err))
	}

	s.logger.Info("approver name resolves to no directory entry, leaving slot empty", zap.String("name", *name))
	return nil, nil
}

// Get returns the raw stored chain for one submitter.
func (s *AssignmentService) Get(ctx context.Context, userID int64) (*models.AssignedApproval, error) {
	assignment, err := s.repo.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "no approval assignment for user")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load approval assignment")
	}
	return assignment, nil
}

// List returns every configured chain.
func (s *AssignmentService) List(ctx context.Context) ([]models.AssignedApproval, error) {
	assignments, err := s.repo.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list approval assignments")
	}
	return assignments, nil
}
