package service

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	dom "TDL/internal/domain"
	"TDL/internal/repo"

	"github.com/jackc/pgx/v5"
	"golang.org/x/sync/singleflight"

	"TDL/internal/cache"
)

var (
	ErrNotFound        = errors.New("not found")
	ErrInvalidStatus   = errors.New("invalid status")
	ErrInvalidPriority = errors.New("invalid priority")
	// ErrNotDeletable guards the hard-delete path: only tasks already in
	// the deleted bucket may be removed permanently.
	ErrNotDeletable = errors.New("task is not in deleted state")
)

type TaskService struct {
	repo  repo.TaskRepo
	cache *cache.TaskCache
	sf    singleflight.Group
}

// NewTaskService creates a TaskService. If c is nil, caching is disabled.
func NewTaskService(r repo.TaskRepo, c *cache.TaskCache) *TaskService {
	return &TaskService{repo: r, cache: c}
}

// Create persists a new task. New tasks always start in the inbox bucket.
func (s *TaskService) Create(ctx context.Context, userID int64, title, desc string, dueAt *time.Time, priority dom.Priority) (dom.Task, error) {
	title = strings.TrimSpace(title)
	desc = strings.TrimSpace(desc)
	if !priority.Valid() {
		return dom.Task{}, ErrInvalidPriority
	}

	t, err := s.repo.Create(ctx, dom.Task{
		UserID:      userID,
		Title:       title,
		Description: desc,
		DueAt:       dueAt,
		Priority:    priority,
		Status:      dom.StatusInbox,
	})
	if err != nil {
		return dom.Task{}, err
	}
	s.invalidateCache(ctx, userID)
	return t, nil
}

// List returns every task for the user in one flat call; the sole resync
// point for clients.
func (s *TaskService) List(ctx context.Context, userID int64) ([]dom.Task, error) {
	if s.cache != nil {
		key := "list:" + strconv.FormatInt(userID, 10)
		v, err, _ := s.sf.Do(key, func() (interface{}, error) {
			if list, err := s.cache.GetList(ctx, userID); err == nil && list != nil {
				return list, nil
			}
			list, err := s.repo.ListByUser(ctx, userID)
			if err != nil {
				return nil, err
			}
			_ = s.cache.SetList(ctx, userID, list)
			return list, nil
		})
		if err != nil {
			return nil, err
		}
		return v.([]dom.Task), nil
	}
	return s.repo.ListByUser(ctx, userID)
}

// GetByID returns a single task owned by the user.
func (s *TaskService) GetByID(ctx context.Context, userID, id int64) (dom.Task, error) {
	t, err := s.repo.GetByID(ctx, userID, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return dom.Task{}, ErrNotFound
		}
		return dom.Task{}, err
	}
	return t, nil
}

// Update applies the non-nil fields, including status transitions between
// buckets. Status is validated against the three defined values.
func (s *TaskService) Update(ctx context.Context, userID, id int64, title, desc *string, dueAt *time.Time, priority *dom.Priority, status *dom.Status) (dom.Task, error) {
	existing, err := s.repo.GetByID(ctx, userID, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return dom.Task{}, ErrNotFound
		}
		return dom.Task{}, err
	}
	patch := existing
	if title != nil {
		patch.Title = strings.TrimSpace(*title)
	}
	if desc != nil {
		patch.Description = strings.TrimSpace(*desc)
	}
	if dueAt != nil {
		patch.DueAt = dueAt
	}
	if priority != nil {
		if !priority.Valid() {
			return dom.Task{}, ErrInvalidPriority
		}
		patch.Priority = *priority
	}
	if status != nil {
		if !status.Valid() {
			return dom.Task{}, ErrInvalidStatus
		}
		patch.Status = *status
	}
	t, err := s.repo.Update(ctx, userID, id, patch)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return dom.Task{}, ErrNotFound
		}
		return dom.Task{}, err
	}
	s.invalidateCache(ctx, userID)
	return t, nil
}

// Delete removes a task permanently. Only legal for tasks already in the
// deleted bucket; everything else must transition there first.
func (s *TaskService) Delete(ctx context.Context, userID, id int64) error {
	t, err := s.repo.GetByID(ctx, userID, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrNotFound
		}
		return err
	}
	if t.Status != dom.StatusDeleted {
		return ErrNotDeletable
	}
	if err := s.repo.HardDelete(ctx, userID, id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrNotFound
		}
		return err
	}
	s.invalidateCache(ctx, userID)
	return nil
}

func (s *TaskService) invalidateCache(ctx context.Context, userID int64) {
	if s.cache != nil {
		_ = s.cache.Invalidate(ctx, userID)
	}
}
