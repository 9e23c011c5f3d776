package forum

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
	"gorm.io/gorm"

	"github.com/techplay/core/internal/pipeline"
	"github.com/techplay/core/internal/pkg/pagination"
	"github.com/techplay/core/internal/testutil"
)

func newTestService(t *testing.T, db *gorm.DB) *Service {
	t.Helper()
	return NewService(db, pipeline.NewDispatcher(db, zap.NewNop(), pipeline.Options{}), zap.NewNop())
}

func TestCreateThreadAndGet(t *testing.T) {
	db := testutil.OpenTestDB(t)
	u := testutil.CreateUser(t, db, "alice")
	svc := newTestService(t, db)

	thread, err := svc.CreateThread(context.Background(), u, &CreateThreadDTO{Title: "Patch notes", Text: "discuss"})
	if err != nil {
		t.Fatalf("create thread: %v", err)
	}

	got, err := svc.GetThread(thread.ID)
	if err != nil {
		t.Fatalf("get thread: %v", err)
	}
	if got == nil || got.Title != "Patch notes" || got.UserID != u.ID {
		t.Fatalf("thread = %+v", got)
	}
}

func TestGetThread_Missing(t *testing.T) {
	db := testutil.OpenTestDB(t)
	svc := newTestService(t, db)

	got, err := svc.GetThread("nope")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got != nil {
		t.Fatal("expected nil for missing thread")
	}
}

func TestCreateReply_IncrementsReplyCount(t *testing.T) {
	db := testutil.OpenTestDB(t)
	u := testutil.CreateUser(t, db, "alice")
	svc := newTestService(t, db)

	thread, err := svc.CreateThread(context.Background(), u, &CreateThreadDTO{Title: "t", Text: "b"})
	if err != nil {
		t.Fatalf("create thread: %v", err)
	}

	for i := 0; i < 3; i++ {
		if _, err := svc.CreateReply(context.Background(), u, thread.ID, &CreateReplyDTO{Text: "me too"}); err != nil {
			t.Fatalf("reply %d: %v", i, err)
		}
	}

	got, err := svc.GetThread(thread.ID)
	if err != nil {
		t.Fatalf("get thread: %v", err)
	}
	if got.ReplyCount != 3 {
		t.Fatalf("reply_count = %d, want 3", got.ReplyCount)
	}
	if len(got.Replies) != 3 {
		t.Fatalf("replies = %d, want 3", len(got.Replies))
	}
}

func TestCreateReply_CounterFailureDoesNotFailReply(t *testing.T) {
	db := testutil.OpenTestDB(t)
	u := testutil.CreateUser(t, db, "alice")

	core, logs := observer.New(zap.WarnLevel)
	svc := NewService(db, pipeline.NewDispatcher(db, zap.NewNop(), pipeline.Options{}), zap.New(core))

	thread, err := svc.CreateThread(context.Background(), u, &CreateThreadDTO{Title: "t", Text: "b"})
	if err != nil {
		t.Fatalf("create thread: %v", err)
	}

	// Make every update against the threads table fail so the counter
	// increment errors while the reply insert still goes through.
	err = db.Callback().Update().Before("gorm:update").Register("break_thread_updates", func(tx *gorm.DB) {
		if tx.Statement.Table == "threads" {
			tx.AddError(errors.New("counter update rejected"))
		}
	})
	if err != nil {
		t.Fatalf("register callback: %v", err)
	}

	r, err := svc.CreateReply(context.Background(), u, thread.ID, &CreateReplyDTO{Text: "me too"})
	if err != nil {
		t.Fatalf("create reply: %v", err)
	}
	if r == nil || r.ID == "" {
		t.Fatalf("reply = %+v", r)
	}

	got, err := svc.GetThread(thread.ID)
	if err != nil {
		t.Fatalf("get thread: %v", err)
	}
	if len(got.Replies) != 1 {
		t.Fatalf("replies = %d, want 1", len(got.Replies))
	}
	if got.ReplyCount != 0 {
		t.Fatalf("reply_count = %d, want 0 after failed increment", got.ReplyCount)
	}
	if logs.FilterMessage("reply counter increment failed").Len() != 1 {
		t.Fatalf("expected one warning about the failed increment, got %d entries", logs.Len())
	}
}

func TestCreateReply_MissingThread(t *testing.T) {
	db := testutil.OpenTestDB(t)
	u := testutil.CreateUser(t, db, "alice")
	svc := newTestService(t, db)

	_, err := svc.CreateReply(context.Background(), u, "nope", &CreateReplyDTO{Text: "x"})
	if !errors.Is(err, errThreadNotFound) {
		t.Fatalf("err = %v, want errThreadNotFound", err)
	}
}

func TestListThreads_Paged(t *testing.T) {
	db := testutil.OpenTestDB(t)
	u := testutil.CreateUser(t, db, "alice")
	svc := newTestService(t, db)

	for i := 0; i < 12; i++ {
		if _, err := svc.CreateThread(context.Background(), u, &CreateThreadDTO{Title: "t", Text: "b"}); err != nil {
			t.Fatalf("create %d: %v", i, err)
		}
	}

	threads, pag, err := svc.ListThreads(pagination.Query{Page: 2, Size: 10})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if pag.Total != 12 || len(threads) != 2 {
		t.Fatalf("page 2 has %d threads, total %d, want 2/12", len(threads), pag.Total)
	}
}
