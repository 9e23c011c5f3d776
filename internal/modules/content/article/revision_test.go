package article

import (
	"context"
	"testing"

	"github.com/techplay/core/internal/models"
	"github.com/techplay/core/internal/testutil"
)

func TestRevisionRecord_MonotoneNumbering(t *testing.T) {
	db := testutil.OpenTestDB(t)
	author := testutil.CreateUser(t, db, "author")
	a := models.ArticleModel{Title: "t", Slug: "t", Text: "b", AuthorID: author.ID}
	if err := db.Create(&a).Error; err != nil {
		t.Fatalf("create article: %v", err)
	}

	rec := NewRevisionRecorder(db)
	for i := 0; i < 3; i++ {
		if err := rec.Record(context.Background(), &a, author.ID); err != nil {
			t.Fatalf("record %d: %v", i, err)
		}
	}

	revs, err := rec.ListForArticle(context.Background(), a.ID)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(revs) != 3 {
		t.Fatalf("revisions = %d, want 3", len(revs))
	}
	// Newest first.
	for i, want := range []int{3, 2, 1} {
		if revs[i].RevisionNumber != want {
			t.Fatalf("revs[%d].RevisionNumber = %d, want %d", i, revs[i].RevisionNumber, want)
		}
	}
}

func TestRevisionRecord_ActorFallback(t *testing.T) {
	db := testutil.OpenTestDB(t)
	author := testutil.CreateUser(t, db, "author")
	a := models.ArticleModel{Title: "t", Slug: "t", Text: "b", AuthorID: author.ID}
	if err := db.Create(&a).Error; err != nil {
		t.Fatalf("create article: %v", err)
	}

	rec := NewRevisionRecorder(db)
	if err := rec.Record(context.Background(), &a, ""); err != nil {
		t.Fatalf("record: %v", err)
	}

	revs, err := rec.ListForArticle(context.Background(), a.ID)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(revs) != 1 || revs[0].UserID != author.ID {
		t.Fatalf("revision attributed to %q, want author %q", revs[0].UserID, author.ID)
	}
}

func TestRevisionRecord_SnapshotsPostUpdateState(t *testing.T) {
	db := testutil.OpenTestDB(t)
	author := testutil.CreateUser(t, db, "author")
	a := models.ArticleModel{Title: "after-edit", Slug: "t", Text: "new body", Status: models.ArticleInReview, AuthorID: author.ID}
	if err := db.Create(&a).Error; err != nil {
		t.Fatalf("create article: %v", err)
	}

	rec := NewRevisionRecorder(db)
	if err := rec.Record(context.Background(), &a, author.ID); err != nil {
		t.Fatalf("record: %v", err)
	}

	revs, _ := rec.ListForArticle(context.Background(), a.ID)
	snap := revs[0].Snapshot
	if snap.Title != "after-edit" || snap.Text != "new body" || snap.Status != models.ArticleInReview {
		t.Fatalf("snapshot = %+v", snap)
	}
}
