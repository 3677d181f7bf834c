package client

import (
	"context"
	"errors"
	"testing"
	"time"

	dom "TDL/internal/domain"

	"github.com/rs/zerolog"
)

// fakeRemote is an in-memory Remote with switchable failures.
type fakeRemote struct {
	nextID int64
	tasks  map[int64]Task
	order  []int64

	failList   bool
	failCreate bool
	failUpdate bool
	failDelete bool
}

var errRemote = errors.New("remote unavailable")

func newFakeRemote() *fakeRemote {
	return &fakeRemote{tasks: map[int64]Task{}}
}

func (f *fakeRemote) seed(title string, status dom.Status, updatedAt time.Time) Task {
	f.nextID++
	t := Task{
		ID:        f.nextID,
		UserID:    1,
		Title:     title,
		Status:    status,
		CreatedAt: updatedAt,
		UpdatedAt: updatedAt,
	}
	f.tasks[t.ID] = t
	f.order = append(f.order, t.ID)
	return t
}

func (f *fakeRemote) ListTasks(ctx context.Context, userID int64) ([]Task, error) {
	if f.failList {
		return nil, errRemote
	}
	out := make([]Task, 0, len(f.order))
	for _, id := range f.order {
		if t, ok := f.tasks[id]; ok {
			out = append(out, t)
		}
	}
	return out, nil
}

func (f *fakeRemote) CreateTask(ctx context.Context, draft TaskDraft) (Task, error) {
	if f.failCreate {
		return Task{}, errRemote
	}
	f.nextID++
	t := Task{
		ID:          f.nextID,
		UserID:      1,
		Title:       draft.Title,
		Description: draft.Description,
		DueAt:       draft.DueAt,
		Priority:    draft.Priority,
		Status:      dom.StatusInbox,
		CreatedAt:   time.Now(),
		UpdatedAt:   time.Now(),
	}
	f.tasks[t.ID] = t
	f.order = append(f.order, t.ID)
	return t, nil
}

func (f *fakeRemote) UpdateTask(ctx context.Context, id int64, patch TaskPatch) (Task, error) {
	if f.failUpdate {
		return Task{}, errRemote
	}
	t, ok := f.tasks[id]
	if !ok {
		return Task{}, errors.New("not found")
	}
	if patch.Title != nil {
		t.Title = *patch.Title
	}
	if patch.Description != nil {
		t.Description = *patch.Description
	}
	if patch.DueAt != nil {
		t.DueAt = patch.DueAt
	}
	if patch.Priority != nil {
		t.Priority = *patch.Priority
	}
	if patch.Status != nil {
		t.Status = *patch.Status
	}
	t.UpdatedAt = time.Now()
	f.tasks[id] = t
	return t, nil
}

func (f *fakeRemote) DeleteTask(ctx context.Context, id int64) error {
	if f.failDelete {
		return errRemote
	}
	delete(f.tasks, id)
	return nil
}

func newTestStore(remote *fakeRemote) *Store {
	return NewStore(remote, 1, zerolog.Nop())
}

func titles(list []Task) []string {
	out := make([]string, len(list))
	for i, t := range list {
		out[i] = t.Title
	}
	return out
}

func TestLoadDistributesByStatus(t *testing.T) {
	remote := newFakeRemote()
	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	remote.seed("a", dom.StatusInbox, base)
	remote.seed("b", dom.StatusCompleted, base.Add(time.Minute))
	remote.seed("c", dom.StatusDeleted, base.Add(2*time.Minute))
	remote.seed("d", dom.StatusInbox, base.Add(3*time.Minute))

	s := newTestStore(remote)
	if err := s.Load(context.Background()); err != nil {
		t.Fatalf("Load: %v", err)
	}

	if got := len(s.Inbox()); got != 2 {
		t.Errorf("inbox len: got %d, want 2", got)
	}
	if got := len(s.Completed()); got != 1 {
		t.Errorf("completed len: got %d, want 1", got)
	}
	if got := len(s.Deleted()); got != 1 {
		t.Errorf("deleted len: got %d, want 1", got)
	}
	// Inbox keeps add-order.
	if s.Inbox()[0].Title != "a" || s.Inbox()[1].Title != "d" {
		t.Errorf("inbox order: got %v, want [a d]", titles(s.Inbox()))
	}
}

func TestFailedLoadKeepsLocalState(t *testing.T) {
	remote := newFakeRemote()
	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	remote.seed("a", dom.StatusInbox, base)
	remote.seed("b", dom.StatusCompleted, base.Add(time.Minute))

	s := newTestStore(remote)
	if err := s.Load(context.Background()); err != nil {
		t.Fatalf("Load: %v", err)
	}

	remote.failList = true
	if err := s.Load(context.Background()); err == nil {
		t.Fatal("Load: want error")
	}
	// The reload failure must not discard the consistent local cache.
	if got := titles(s.Inbox()); len(got) != 1 || got[0] != "a" {
		t.Errorf("inbox after failed reload: got %v, want [a]", got)
	}
	if got := titles(s.Completed()); len(got) != 1 || got[0] != "b" {
		t.Errorf("completed after failed reload: got %v, want [b]", got)
	}
}

func TestAddRoundTrip(t *testing.T) {
	remote := newFakeRemote()
	s := newTestStore(remote)

	due := time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)
	draft := TaskDraft{Title: "buy milk", Description: "2%", DueAt: &due, Priority: dom.PriorityHigh}
	created, err := s.Add(context.Background(), draft)
	if err != nil {
		t.Fatalf("Add: %v", err)
	}
	if created.Status != dom.StatusInbox {
		t.Errorf("status: got %s, want inbox", created.Status)
	}
	if len(s.Inbox()) != 1 {
		t.Fatalf("inbox len: got %d, want 1", len(s.Inbox()))
	}

	// Reload must return the same visible fields.
	if err := s.Load(context.Background()); err != nil {
		t.Fatalf("Load: %v", err)
	}
	got := s.Inbox()[0]
	if got.Title != draft.Title || got.Description != draft.Description ||
		got.Priority != draft.Priority || !got.DueAt.Equal(due) {
		t.Errorf("round trip mismatch: got %+v", got)
	}
	if got.Status != dom.StatusInbox {
		t.Errorf("round trip status: got %s, want inbox", got.Status)
	}
}

func TestAddRemoteFailureLeavesInboxUntouched(t *testing.T) {
	remote := newFakeRemote()
	remote.failCreate = true
	s := newTestStore(remote)

	if _, err := s.Add(context.Background(), TaskDraft{Title: "x"}); err == nil {
		t.Fatal("Add: want error")
	}
	if len(s.Inbox()) != 0 {
		t.Errorf("inbox len after failed add: got %d, want 0", len(s.Inbox()))
	}
}

func TestCompleteMovesBetweenExactlyTwoBuckets(t *testing.T) {
	remote := newFakeRemote()
	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	first := remote.seed("first", dom.StatusInbox, base)
	remote.seed("second", dom.StatusInbox, base.Add(time.Minute))

	s := newTestStore(remote)
	if err := s.Load(context.Background()); err != nil {
		t.Fatalf("Load: %v", err)
	}

	if err := s.Complete(context.Background(), first.ID); err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if got := len(s.Inbox()); got != 1 {
		t.Errorf("inbox len: got %d, want 1", got)
	}
	if got := len(s.Completed()); got != 1 {
		t.Errorf("completed len: got %d, want 1", got)
	}
	if s.Completed()[0].Status != dom.StatusCompleted {
		t.Errorf("status: got %s, want completed", s.Completed()[0].Status)
	}
	if remote.tasks[first.ID].Status != dom.StatusCompleted {
		t.Errorf("remote status: got %s, want completed", remote.tasks[first.ID].Status)
	}
}

func TestMovedTasksPrependInCompletedAppendInInbox(t *testing.T) {
	remote := newFakeRemote()
	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	a := remote.seed("a", dom.StatusInbox, base)
	b := remote.seed("b", dom.StatusInbox, base.Add(time.Minute))

	s := newTestStore(remote)
	if err := s.Load(context.Background()); err != nil {
		t.Fatalf("Load: %v", err)
	}

	if err := s.Complete(context.Background(), a.ID); err != nil {
		t.Fatalf("Complete a: %v", err)
	}
	if err := s.Complete(context.Background(), b.ID); err != nil {
		t.Fatalf("Complete b: %v", err)
	}
	// Most recently moved first.
	if got := titles(s.Completed()); got[0] != "b" || got[1] != "a" {
		t.Errorf("completed order: got %v, want [b a]", got)
	}

	// Reverting both puts them at the end of the inbox, in revert order.
	if err := s.Revert(context.Background(), b.ID); err != nil {
		t.Fatalf("Revert b: %v", err)
	}
	if err := s.Revert(context.Background(), a.ID); err != nil {
		t.Fatalf("Revert a: %v", err)
	}
	if got := titles(s.Inbox()); got[0] != "b" || got[1] != "a" {
		t.Errorf("inbox order after revert: got %v, want [b a]", got)
	}
}

func TestTransitionRollsBackOnRemoteFailure(t *testing.T) {
	remote := newFakeRemote()
	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	remote.seed("a", dom.StatusInbox, base)
	victim := remote.seed("b", dom.StatusInbox, base.Add(time.Minute))
	remote.seed("c", dom.StatusInbox, base.Add(2*time.Minute))

	s := newTestStore(remote)
	if err := s.Load(context.Background()); err != nil {
		t.Fatalf("Load: %v", err)
	}
	remote.failUpdate = true

	if err := s.Complete(context.Background(), victim.ID); err == nil {
		t.Fatal("Complete: want error")
	}
	if got := titles(s.Inbox()); len(got) != 3 || got[1] != "b" {
		t.Errorf("inbox after rollback: got %v, want [a b c]", got)
	}
	if s.Inbox()[1].Status != dom.StatusInbox {
		t.Errorf("status after rollback: got %s, want inbox", s.Inbox()[1].Status)
	}
	if len(s.Completed()) != 0 {
		t.Errorf("completed after rollback: got %d entries, want 0", len(s.Completed()))
	}
}

func TestUpdateRollsBackSingleRecord(t *testing.T) {
	remote := newFakeRemote()
	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	victim := remote.seed("original", dom.StatusInbox, base)

	s := newTestStore(remote)
	if err := s.Load(context.Background()); err != nil {
		t.Fatalf("Load: %v", err)
	}
	remote.failUpdate = true

	title := "patched"
	err := s.Update(context.Background(), victim.ID, TaskPatch{Title: &title})
	if err == nil {
		t.Fatal("Update: want error")
	}
	if got := s.Inbox()[0].Title; got != "original" {
		t.Errorf("title after rollback: got %q, want %q", got, "original")
	}
	if remote.tasks[victim.ID].Title != "original" {
		t.Errorf("remote title changed despite failure")
	}
}

func TestUpdateTakesServerEcho(t *testing.T) {
	remote := newFakeRemote()
	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	victim := remote.seed("original", dom.StatusInbox, base)

	s := newTestStore(remote)
	if err := s.Load(context.Background()); err != nil {
		t.Fatalf("Load: %v", err)
	}

	title := "patched"
	if err := s.Update(context.Background(), victim.ID, TaskPatch{Title: &title}); err != nil {
		t.Fatalf("Update: %v", err)
	}
	got := s.Inbox()[0]
	if got.Title != "patched" {
		t.Errorf("title: got %q, want %q", got.Title, "patched")
	}
	if !got.UpdatedAt.After(base) {
		t.Errorf("updated_at not refreshed from server echo")
	}
}

func TestBulkDeleteSelectedIndices(t *testing.T) {
	remote := newFakeRemote()
	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	// Seed 5 completed tasks; Load orders them newest-updated first.
	for i := 0; i < 5; i++ {
		remote.seed(string(rune('a'+i)), dom.StatusCompleted, base.Add(time.Duration(i)*time.Minute))
	}

	s := newTestStore(remote)
	if err := s.Load(context.Background()); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(s.Completed()) != 5 {
		t.Fatalf("completed len: got %d, want 5", len(s.Completed()))
	}

	wantMoved := map[string]bool{
		s.Completed()[0].Title: true,
		s.Completed()[2].Title: true,
		s.Completed()[4].Title: true,
	}
	wantKept := map[string]bool{
		s.Completed()[1].Title: true,
		s.Completed()[3].Title: true,
	}

	if err := s.DeleteMany(context.Background(), BucketCompleted, []int{0, 2, 4}); err != nil {
		t.Fatalf("DeleteMany: %v", err)
	}

	if len(s.Completed()) != 2 {
		t.Errorf("completed len: got %d, want 2", len(s.Completed()))
	}
	for _, task := range s.Completed() {
		if !wantKept[task.Title] {
			t.Errorf("unexpected survivor %q in completed", task.Title)
		}
	}
	if len(s.Deleted()) != 3 {
		t.Errorf("deleted len: got %d, want 3", len(s.Deleted()))
	}
	for _, task := range s.Deleted() {
		if !wantMoved[task.Title] {
			t.Errorf("unexpected task %q in deleted", task.Title)
		}
		if task.Status != dom.StatusDeleted {
			t.Errorf("task %q status: got %s, want deleted", task.Title, task.Status)
		}
	}
}

func TestPermanentlyDeleteNeverComesBack(t *testing.T) {
	remote := newFakeRemote()
	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	victim := remote.seed("gone", dom.StatusDeleted, base)

	s := newTestStore(remote)
	if err := s.Load(context.Background()); err != nil {
		t.Fatalf("Load: %v", err)
	}

	if err := s.PermanentlyDelete(context.Background(), victim.ID); err != nil {
		t.Fatalf("PermanentlyDelete: %v", err)
	}
	if len(s.Deleted()) != 0 {
		t.Errorf("deleted len: got %d, want 0", len(s.Deleted()))
	}

	if err := s.Load(context.Background()); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if n := len(s.Inbox()) + len(s.Completed()) + len(s.Deleted()); n != 0 {
		t.Errorf("task resurfaced after permanent delete: %d entries", n)
	}
}

func TestPermanentlyDeleteRollsBackOnFailure(t *testing.T) {
	remote := newFakeRemote()
	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	victim := remote.seed("sticky", dom.StatusDeleted, base)

	s := newTestStore(remote)
	if err := s.Load(context.Background()); err != nil {
		t.Fatalf("Load: %v", err)
	}
	remote.failDelete = true

	if err := s.PermanentlyDelete(context.Background(), victim.ID); err == nil {
		t.Fatal("PermanentlyDelete: want error")
	}
	if len(s.Deleted()) != 1 || s.Deleted()[0].Title != "sticky" {
		t.Errorf("deleted bucket after rollback: got %v", titles(s.Deleted()))
	}
}

func TestMoveUnknownTask(t *testing.T) {
	s := newTestStore(newFakeRemote())
	if err := s.Complete(context.Background(), 42); !errors.Is(err, ErrNotInBucket) {
		t.Errorf("Complete unknown: got %v, want ErrNotInBucket", err)
	}
	if err := s.Restore(context.Background(), 42); !errors.Is(err, ErrNotInBucket) {
		t.Errorf("Restore unknown: got %v, want ErrNotInBucket", err)
	}
}
