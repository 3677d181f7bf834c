package service

import (
	"context"
	"errors"
	"testing"
	"time"

	dom "TDL/internal/domain"

	"github.com/jackc/pgx/v5"
)

type fakeTaskRepo struct {
	seq   int64
	tasks map[int64]dom.Task
}

func newFakeTaskRepo() *fakeTaskRepo {
	return &fakeTaskRepo{tasks: map[int64]dom.Task{}}
}

func (f *fakeTaskRepo) Create(ctx context.Context, t dom.Task) (dom.Task, error) {
	f.seq++
	t.ID = f.seq
	t.CreatedAt = time.Now()
	t.UpdatedAt = t.CreatedAt
	f.tasks[t.ID] = t
	return t, nil
}

func (f *fakeTaskRepo) GetByID(ctx context.Context, userID, id int64) (dom.Task, error) {
	t, ok := f.tasks[id]
	if !ok || t.UserID != userID {
		return dom.Task{}, pgx.ErrNoRows
	}
	return t, nil
}

func (f *fakeTaskRepo) ListByUser(ctx context.Context, userID int64) ([]dom.Task, error) {
	var out []dom.Task
	for id := int64(1); id <= f.seq; id++ {
		if t, ok := f.tasks[id]; ok && t.UserID == userID {
			out = append(out, t)
		}
	}
	return out, nil
}

func (f *fakeTaskRepo) Update(ctx context.Context, userID, id int64, patch dom.Task) (dom.Task, error) {
	t, ok := f.tasks[id]
	if !ok || t.UserID != userID {
		return dom.Task{}, pgx.ErrNoRows
	}
	patch.ID = t.ID
	patch.UserID = t.UserID
	patch.CreatedAt = t.CreatedAt
	patch.UpdatedAt = time.Now()
	f.tasks[id] = patch
	return patch, nil
}

func (f *fakeTaskRepo) HardDelete(ctx context.Context, userID, id int64) error {
	t, ok := f.tasks[id]
	if !ok || t.UserID != userID {
		return pgx.ErrNoRows
	}
	delete(f.tasks, id)
	return nil
}

func TestCreateStartsInInbox(t *testing.T) {
	svc := NewTaskService(newFakeTaskRepo(), nil)

	task, err := svc.Create(context.Background(), 1, "  buy milk  ", "", nil, "")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if task.Status != dom.StatusInbox {
		t.Errorf("status: got %s, want inbox", task.Status)
	}
	if task.Title != "buy milk" {
		t.Errorf("title not trimmed: got %q", task.Title)
	}
}

func TestCreateRejectsInvalidPriority(t *testing.T) {
	svc := NewTaskService(newFakeTaskRepo(), nil)
	_, err := svc.Create(context.Background(), 1, "x", "", nil, dom.Priority("urgent"))
	if !errors.Is(err, ErrInvalidPriority) {
		t.Errorf("got %v, want ErrInvalidPriority", err)
	}
}

func TestUpdateStatusTransitions(t *testing.T) {
	repo := newFakeTaskRepo()
	svc := NewTaskService(repo, nil)
	task, err := svc.Create(context.Background(), 1, "x", "", nil, "")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	completed := dom.StatusCompleted
	out, err := svc.Update(context.Background(), 1, task.ID, nil, nil, nil, nil, &completed)
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if out.Status != dom.StatusCompleted {
		t.Errorf("status: got %s, want completed", out.Status)
	}

	bogus := dom.Status("archived")
	if _, err := svc.Update(context.Background(), 1, task.ID, nil, nil, nil, nil, &bogus); !errors.Is(err, ErrInvalidStatus) {
		t.Errorf("got %v, want ErrInvalidStatus", err)
	}
	// The failed update must not have changed anything.
	if repo.tasks[task.ID].Status != dom.StatusCompleted {
		t.Errorf("status after rejected update: got %s, want completed", repo.tasks[task.ID].Status)
	}
}

func TestUpdatePatchesOnlyGivenFields(t *testing.T) {
	svc := NewTaskService(newFakeTaskRepo(), nil)
	due := time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)
	task, err := svc.Create(context.Background(), 1, "title", "desc", &due, dom.PriorityHigh)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	title := "new title"
	out, err := svc.Update(context.Background(), 1, task.ID, &title, nil, nil, nil, nil)
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if out.Title != "new title" {
		t.Errorf("title: got %q", out.Title)
	}
	if out.Description != "desc" || out.Priority != dom.PriorityHigh || out.DueAt == nil || !out.DueAt.Equal(due) {
		t.Errorf("untouched fields changed: %+v", out)
	}
}

func TestUpdateScopedToOwner(t *testing.T) {
	svc := NewTaskService(newFakeTaskRepo(), nil)
	task, err := svc.Create(context.Background(), 1, "mine", "", nil, "")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	title := "stolen"
	if _, err := svc.Update(context.Background(), 2, task.ID, &title, nil, nil, nil, nil); !errors.Is(err, ErrNotFound) {
		t.Errorf("cross-user update: got %v, want ErrNotFound", err)
	}
}

func TestDeleteOnlyFromDeletedBucket(t *testing.T) {
	repo := newFakeTaskRepo()
	svc := NewTaskService(repo, nil)
	task, err := svc.Create(context.Background(), 1, "x", "", nil, "")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if err := svc.Delete(context.Background(), 1, task.ID); !errors.Is(err, ErrNotDeletable) {
		t.Fatalf("delete from inbox: got %v, want ErrNotDeletable", err)
	}
	if _, ok := repo.tasks[task.ID]; !ok {
		t.Fatal("task removed despite guard")
	}

	deleted := dom.StatusDeleted
	if _, err := svc.Update(context.Background(), 1, task.ID, nil, nil, nil, nil, &deleted); err != nil {
		t.Fatalf("Update to deleted: %v", err)
	}
	if err := svc.Delete(context.Background(), 1, task.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, ok := repo.tasks[task.ID]; ok {
		t.Error("task still present after hard delete")
	}

	if err := svc.Delete(context.Background(), 1, task.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("second delete: got %v, want ErrNotFound", err)
	}
}

func TestListReturnsAllStatuses(t *testing.T) {
	svc := NewTaskService(newFakeTaskRepo(), nil)
	a, err := svc.Create(context.Background(), 1, "a", "", nil, "")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if _, err := svc.Create(context.Background(), 1, "b", "", nil, ""); err != nil {
		t.Fatalf("Create: %v", err)
	}
	completed := dom.StatusCompleted
	if _, err := svc.Update(context.Background(), 1, a.ID, nil, nil, nil, nil, &completed); err != nil {
		t.Fatalf("Update: %v", err)
	}

	list, err := svc.List(context.Background(), 1)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(list) != 2 {
		t.Errorf("list len: got %d, want 2", len(list))
	}
}
