package client

import (
	"context"
	"errors"
	"sort"

	dom "TDL/internal/domain"

	"github.com/rs/zerolog"
)

// ErrNotInBucket is returned when an operation names a task that is not in
// the expected bucket.
var ErrNotInBucket = errors.New("task not in bucket")

// Remote is the server half of the store. *API satisfies it; tests swap in
// a fake.
type Remote interface {
	ListTasks(ctx context.Context, userID int64) ([]Task, error)
	CreateTask(ctx context.Context, draft TaskDraft) (Task, error)
	UpdateTask(ctx context.Context, id int64, patch TaskPatch) (Task, error)
	DeleteTask(ctx context.Context, id int64) error
}

// Bucket identifies one of the three lifecycle lists.
type Bucket int

const (
	BucketInbox Bucket = iota
	BucketCompleted
	BucketDeleted
)

// Status returns the task status tasks in this bucket carry.
func (b Bucket) Status() dom.Status {
	switch b {
	case BucketCompleted:
		return dom.StatusCompleted
	case BucketDeleted:
		return dom.StatusDeleted
	}
	return dom.StatusInbox
}

// Store is the client-side cache of one user's tasks, split into three
// ordered buckets. Mutations are optimistic: local state changes first,
// then the remote call is issued, and on failure the exact pre-mutation
// snapshot of the touched record is restored. Load is the sole full-resync
// point.
//
// Ordering rule: the inbox keeps add-order (append), while completed and
// deleted show the most recently moved task first (prepend). The asymmetry
// matches what the views display.
//
// Not safe for concurrent use; one Store per view.
type Store struct {
	remote Remote
	userID int64
	logger zerolog.Logger

	inbox     []Task
	completed []Task
	deleted   []Task
}

// NewStore returns an empty store for the user. Call Load to populate it.
func NewStore(remote Remote, userID int64, logger zerolog.Logger) *Store {
	return &Store{remote: remote, userID: userID, logger: logger}
}

// Inbox returns the inbox bucket. The slice is owned by the store; callers
// must not mutate it.
func (s *Store) Inbox() []Task { return s.inbox }

// Completed returns the completed bucket.
func (s *Store) Completed() []Task { return s.completed }

// Deleted returns the deleted bucket.
func (s *Store) Deleted() []Task { return s.deleted }

// Tasks returns the bucket for b.
func (s *Store) Tasks(b Bucket) []Task { return *s.bucket(b) }

func (s *Store) bucket(b Bucket) *[]Task {
	switch b {
	case BucketCompleted:
		return &s.completed
	case BucketDeleted:
		return &s.deleted
	}
	return &s.inbox
}

// Load fetches every task for the user in one call and redistributes into
// the three buckets by status. Inbox keeps server order (add-order);
// completed and deleted are ordered by most recent update first, which
// tracks the last move.
func (s *Store) Load(ctx context.Context) error {
	all, err := s.remote.ListTasks(ctx, s.userID)
	if err != nil {
		// Keep whatever we already have; a failed reload must not throw
		// away a consistent local cache.
		return err
	}
	s.inbox, s.completed, s.deleted = nil, nil, nil
	for _, t := range all {
		switch t.Status {
		case dom.StatusCompleted:
			s.completed = append(s.completed, t)
		case dom.StatusDeleted:
			s.deleted = append(s.deleted, t)
		default:
			s.inbox = append(s.inbox, t)
		}
	}
	sort.SliceStable(s.completed, func(i, j int) bool {
		return s.completed[i].UpdatedAt.After(s.completed[j].UpdatedAt)
	})
	sort.SliceStable(s.deleted, func(i, j int) bool {
		return s.deleted[i].UpdatedAt.After(s.deleted[j].UpdatedAt)
	})
	return nil
}

// Add persists a new task remotely and appends the server's copy to the
// inbox on success. Not optimistic: a task without a server ID could never
// be reconciled later.
func (s *Store) Add(ctx context.Context, draft TaskDraft) (Task, error) {
	t, err := s.remote.CreateTask(ctx, draft)
	if err != nil {
		return Task{}, err
	}
	s.inbox = append(s.inbox, t)
	return t, nil
}

// Update applies a content patch to a single task optimistically: the
// local record changes immediately, the remote update follows, and on
// failure the pre-patch snapshot of that one record is restored in place.
func (s *Store) Update(ctx context.Context, id int64, patch TaskPatch) error {
	b, idx := s.find(id)
	if idx < 0 {
		return ErrNotInBucket
	}
	list := s.bucket(b)
	snapshot := (*list)[idx]

	local := snapshot
	if patch.Title != nil {
		local.Title = *patch.Title
	}
	if patch.Description != nil {
		local.Description = *patch.Description
	}
	if patch.DueAt != nil {
		local.DueAt = patch.DueAt
	}
	if patch.Priority != nil {
		local.Priority = *patch.Priority
	}
	(*list)[idx] = local

	updated, err := s.remote.UpdateTask(ctx, id, patch)
	if err != nil {
		(*list)[idx] = snapshot
		s.logger.Error().Err(err).Int64("task_id", id).Msg("update failed, rolled back")
		return err
	}
	// Take the server echo; it carries the fresh updated_at.
	(*list)[idx] = updated
	return nil
}

// Complete moves an inbox task to the completed bucket.
func (s *Store) Complete(ctx context.Context, id int64) error {
	return s.move(ctx, id, BucketInbox, BucketCompleted)
}

// Delete moves a task from the given bucket to the deleted bucket.
func (s *Store) Delete(ctx context.Context, id int64, from Bucket) error {
	return s.move(ctx, id, from, BucketDeleted)
}

// Restore moves a deleted task back to the inbox.
func (s *Store) Restore(ctx context.Context, id int64) error {
	return s.move(ctx, id, BucketDeleted, BucketInbox)
}

// Revert moves a completed task back to the inbox.
func (s *Store) Revert(ctx context.Context, id int64) error {
	return s.move(ctx, id, BucketCompleted, BucketInbox)
}

// move is the single bucket-transition path: remove from the source list,
// flip status, insert into the destination, then patch the status
// remotely. On remote failure the task goes back to its source position
// with its old status — transitions get the same rollback discipline as
// content edits.
func (s *Store) move(ctx context.Context, id int64, from, to Bucket) error {
	if from == to {
		return ErrNotInBucket
	}
	src := s.bucket(from)
	idx := indexByID(*src, id)
	if idx < 0 {
		return ErrNotInBucket
	}
	snapshot := (*src)[idx]

	*src = append((*src)[:idx:idx], (*src)[idx+1:]...)
	moved := snapshot
	moved.Status = to.Status()
	dst := s.bucket(to)
	if to == BucketInbox {
		*dst = append(*dst, moved)
	} else {
		*dst = append([]Task{moved}, *dst...)
	}

	status := to.Status()
	if _, err := s.remote.UpdateTask(ctx, id, TaskPatch{Status: &status}); err != nil {
		s.removeByID(to, id)
		*src = insertAt(*src, idx, snapshot)
		s.logger.Error().Err(err).
			Int64("task_id", id).
			Str("to", string(to.Status())).
			Msg("status transition failed, rolled back")
		return err
	}
	return nil
}

// PermanentlyDelete removes a task from the deleted bucket and issues a
// remote hard delete. Irreversible on success; on failure the local entry
// is restored.
func (s *Store) PermanentlyDelete(ctx context.Context, id int64) error {
	idx := indexByID(s.deleted, id)
	if idx < 0 {
		return ErrNotInBucket
	}
	snapshot := s.deleted[idx]
	s.deleted = append(s.deleted[:idx:idx], s.deleted[idx+1:]...)

	if err := s.remote.DeleteTask(ctx, id); err != nil {
		s.deleted = insertAt(s.deleted, idx, snapshot)
		s.logger.Error().Err(err).Int64("task_id", id).Msg("permanent delete failed, rolled back")
		return err
	}
	return nil
}

// CompleteMany completes the inbox tasks at the selected indices.
func (s *Store) CompleteMany(ctx context.Context, indices []int) error {
	return s.bulk(indices, BucketInbox, func(id int64) error {
		return s.Complete(ctx, id)
	})
}

// DeleteMany moves the tasks at the selected indices of the given bucket
// to deleted.
func (s *Store) DeleteMany(ctx context.Context, from Bucket, indices []int) error {
	return s.bulk(indices, from, func(id int64) error {
		return s.Delete(ctx, id, from)
	})
}

// RestoreMany restores the deleted tasks at the selected indices.
func (s *Store) RestoreMany(ctx context.Context, indices []int) error {
	return s.bulk(indices, BucketDeleted, func(id int64) error {
		return s.Restore(ctx, id)
	})
}

// RevertMany reverts the completed tasks at the selected indices.
func (s *Store) RevertMany(ctx context.Context, indices []int) error {
	return s.bulk(indices, BucketCompleted, func(id int64) error {
		return s.Revert(ctx, id)
	})
}

// PermanentlyDeleteMany hard-deletes the deleted-bucket tasks at the
// selected indices.
func (s *Store) PermanentlyDeleteMany(ctx context.Context, indices []int) error {
	return s.bulk(indices, BucketDeleted, func(id int64) error {
		return s.PermanentlyDelete(ctx, id)
	})
}

// bulk applies op per selected index, descending so earlier removals never
// shift later targets. Remote calls run sequentially; a failed item is
// logged and skipped, the rest still process.
func (s *Store) bulk(indices []int, from Bucket, op func(id int64) error) error {
	sorted := append([]int(nil), indices...)
	sort.Sort(sort.Reverse(sort.IntSlice(sorted)))

	var errs []error
	for _, idx := range sorted {
		list := *s.bucket(from)
		if idx < 0 || idx >= len(list) {
			continue
		}
		if err := op(list[idx].ID); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// find locates a task by ID across all buckets.
func (s *Store) find(id int64) (Bucket, int) {
	for _, b := range []Bucket{BucketInbox, BucketCompleted, BucketDeleted} {
		if idx := indexByID(*s.bucket(b), id); idx >= 0 {
			return b, idx
		}
	}
	return BucketInbox, -1
}

func (s *Store) removeByID(b Bucket, id int64) {
	list := s.bucket(b)
	if idx := indexByID(*list, id); idx >= 0 {
		*list = append((*list)[:idx:idx], (*list)[idx+1:]...)
	}
}

func indexByID(list []Task, id int64) int {
	for i := range list {
		if list[i].ID == id {
			return i
		}
	}
	return -1
}

func insertAt(list []Task, idx int, t Task) []Task {
	if idx < 0 {
		idx = 0
	}
	if idx > len(list) {
		idx = len(list)
	}
	out := make([]Task, 0, len(list)+1)
	out = append(out, list[:idx]...)
	out = append(out, t)
	out = append(out, list[idx:]...)
	return out
}
