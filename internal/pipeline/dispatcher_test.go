package pipeline_test

import (
	"context"
	"testing"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/techplay/core/internal/models"
	"github.com/techplay/core/internal/modules/activity"
	"github.com/techplay/core/internal/modules/content/article"
	"github.com/techplay/core/internal/modules/gamification"
	"github.com/techplay/core/internal/pipeline"
	"github.com/techplay/core/internal/testutil"
)

type fakeCache struct {
	latest, popular int
}

func (f *fakeCache) RefreshLatest(ctx context.Context) error {
	f.latest++
	return nil
}

func (f *fakeCache) RefreshPopular(ctx context.Context) error {
	f.popular++
	return nil
}

func newTestDispatcher(t *testing.T, db *gorm.DB, cache *fakeCache, countReplies bool) *pipeline.Dispatcher {
	t.Helper()
	return pipeline.NewDispatcher(db, zap.NewNop(), pipeline.Options{
		Ledger:            gamification.NewXPLedger(db),
		Evaluator:         gamification.NewAchievementService(db),
		Activity:          activity.NewService(db),
		Cache:             cache,
		Revisions:         article.NewRevisionRecorder(db),
		CountForumReplies: countReplies,
	})
}

func userXP(t *testing.T, db *gorm.DB, id string) int64 {
	t.Helper()
	var u models.UserModel
	if err := db.First(&u, "id = ?", id).Error; err != nil {
		t.Fatalf("reload user: %v", err)
	}
	return u.XP
}

func TestRuleFor_AllActions(t *testing.T) {
	cases := []struct {
		action    pipeline.Action
		xp        int64
		criterion string
	}{
		{pipeline.ActionCommentCreated, 10, models.CriterionComments},
		{pipeline.ActionThreadCreated, 20, models.CriterionThreads},
		{pipeline.ActionReplyCreated, 5, models.CriterionReplies},
		{pipeline.ActionReviewCreated, 50, models.CriterionReviews},
	}
	for _, tc := range cases {
		rule := pipeline.RuleFor(tc.action)
		if rule.XP != tc.xp {
			t.Errorf("action %d: XP = %d, want %d", tc.action, rule.XP, tc.xp)
		}
		if rule.Criterion != tc.criterion {
			t.Errorf("action %d: criterion = %q, want %q", tc.action, rule.Criterion, tc.criterion)
		}
		if rule.Verb == "" {
			t.Errorf("action %d: empty verb", tc.action)
		}
	}
}

func TestCommentCreated_FanOut(t *testing.T) {
	db := testutil.OpenTestDB(t)
	u := testutil.CreateUser(t, db, "alice")
	if err := db.Create(&models.AchievementModel{
		Name: "First Words", Criterion: models.CriterionComments, Threshold: 1,
	}).Error; err != nil {
		t.Fatalf("seed achievement: %v", err)
	}

	d := newTestDispatcher(t, db, &fakeCache{}, false)

	c := models.CommentModel{RefType: models.RefTypeArticle, RefID: "a1", UserID: u.ID, Text: "nice"}
	if err := db.Create(&c).Error; err != nil {
		t.Fatalf("create comment: %v", err)
	}
	d.CommentCreated(context.Background(), u, &c)

	if xp := userXP(t, db, u.ID); xp != 10 {
		t.Fatalf("xp = %d, want 10", xp)
	}

	var unlocks int64
	db.Model(&models.UserAchievementModel{}).Where("user_id = ?", u.ID).Count(&unlocks)
	if unlocks != 1 {
		t.Fatalf("unlocks = %d, want 1", unlocks)
	}

	var entry models.ActivityModel
	if err := db.First(&entry, "actor_id = ?", u.ID).Error; err != nil {
		t.Fatalf("activity entry missing: %v", err)
	}
	if entry.Description != "commented on" || entry.RefID != "a1" {
		t.Fatalf("activity entry = %+v", entry)
	}
}

func TestReplyCreated_CriterionGating(t *testing.T) {
	for _, counted := range []bool{false, true} {
		db := testutil.OpenTestDB(t)
		u := testutil.CreateUser(t, db, "alice")
		if err := db.Create(&models.AchievementModel{
			Name: "Quick Reply", Criterion: models.CriterionReplies, Threshold: 1,
		}).Error; err != nil {
			t.Fatalf("seed achievement: %v", err)
		}
		thread := models.ThreadModel{Title: "t", Text: "b", UserID: u.ID}
		if err := db.Create(&thread).Error; err != nil {
			t.Fatalf("create thread: %v", err)
		}

		d := newTestDispatcher(t, db, &fakeCache{}, counted)

		r := models.ThreadReplyModel{ThreadID: thread.ID, UserID: u.ID, Text: "me too"}
		if err := db.Create(&r).Error; err != nil {
			t.Fatalf("create reply: %v", err)
		}
		d.ReplyCreated(context.Background(), u, &r)

		if xp := userXP(t, db, u.ID); xp != 5 {
			t.Fatalf("counted=%v: xp = %d, want 5 (replies always earn XP)", counted, xp)
		}

		var unlocks int64
		db.Model(&models.UserAchievementModel{}).Where("user_id = ?", u.ID).Count(&unlocks)
		want := int64(0)
		if counted {
			want = 1
		}
		if unlocks != want {
			t.Fatalf("counted=%v: unlocks = %d, want %d", counted, unlocks, want)
		}
	}
}

func TestReviewCreated_NoActivityEntry(t *testing.T) {
	db := testutil.OpenTestDB(t)
	u := testutil.CreateUser(t, db, "alice")
	d := newTestDispatcher(t, db, &fakeCache{}, false)

	rv := models.ReviewModel{RefType: models.RefTypeGame, RefID: "g1", UserID: u.ID, Rating: 5, Text: "great"}
	if err := db.Create(&rv).Error; err != nil {
		t.Fatalf("create review: %v", err)
	}
	d.ReviewCreated(context.Background(), u, &rv)

	if xp := userXP(t, db, u.ID); xp != 50 {
		t.Fatalf("xp = %d, want 50", xp)
	}

	var entries int64
	db.Model(&models.ActivityModel{}).Count(&entries)
	if entries != 0 {
		t.Fatalf("reviews must not write activity entries, got %d", entries)
	}
}

func TestArticleCreated_CacheRefresh(t *testing.T) {
	db := testutil.OpenTestDB(t)
	now := time.Now()

	cases := []struct {
		name            string
		article         models.ArticleModel
		latest, popular int
	}{
		{"published", models.ArticleModel{Status: models.ArticlePublished, PublishedAt: &now}, 1, 1},
		{"draft with views", models.ArticleModel{Status: models.ArticleDraft, Views: 42}, 0, 1},
		{"plain draft", models.ArticleModel{Status: models.ArticleDraft}, 0, 0},
	}
	for _, tc := range cases {
		cache := &fakeCache{}
		d := newTestDispatcher(t, db, cache, false)
		d.ArticleCreated(context.Background(), &tc.article)
		if cache.latest != tc.latest || cache.popular != tc.popular {
			t.Errorf("%s: refreshes latest=%d popular=%d, want %d/%d",
				tc.name, cache.latest, cache.popular, tc.latest, tc.popular)
		}
	}
}

func TestArticleUpdated_RevisionOnContentChange(t *testing.T) {
	db := testutil.OpenTestDB(t)
	u := testutil.CreateUser(t, db, "editor")
	a := models.ArticleModel{Title: "v1", Slug: "v", Text: "body", Status: models.ArticleDraft, AuthorID: u.ID}
	if err := db.Create(&a).Error; err != nil {
		t.Fatalf("create article: %v", err)
	}

	cache := &fakeCache{}
	d := newTestDispatcher(t, db, cache, false)

	before := a
	after := a
	after.Title = "v2"
	d.ArticleUpdated(context.Background(), u, &before, &after)

	var revs []models.RevisionModel
	if err := db.Where("article_id = ?", a.ID).Find(&revs).Error; err != nil {
		t.Fatalf("load revisions: %v", err)
	}
	if len(revs) != 1 {
		t.Fatalf("revisions = %d, want 1", len(revs))
	}
	if revs[0].RevisionNumber != 1 || revs[0].UserID != u.ID || revs[0].Snapshot.Title != "v2" {
		t.Fatalf("revision = %+v", revs[0])
	}

	// Draft stayed invisible, so no cache refresh.
	if cache.latest != 0 || cache.popular != 0 {
		t.Fatalf("draft edit refreshed caches: latest=%d popular=%d", cache.latest, cache.popular)
	}
}

func TestArticleUpdated_NoOpWithoutChange(t *testing.T) {
	db := testutil.OpenTestDB(t)
	u := testutil.CreateUser(t, db, "editor")
	a := models.ArticleModel{Title: "v1", Slug: "v", Text: "body", Status: models.ArticleDraft, AuthorID: u.ID}
	if err := db.Create(&a).Error; err != nil {
		t.Fatalf("create article: %v", err)
	}

	cache := &fakeCache{}
	d := newTestDispatcher(t, db, cache, false)

	before := a
	after := a
	d.ArticleUpdated(context.Background(), u, &before, &after)

	var revs int64
	db.Model(&models.RevisionModel{}).Where("article_id = ?", a.ID).Count(&revs)
	if revs != 0 {
		t.Fatalf("no-op update recorded %d revisions", revs)
	}
	if cache.latest != 0 || cache.popular != 0 {
		t.Fatalf("no-op update refreshed caches")
	}
}

func TestArticleUpdated_ViewsOnlyChangeSkipsRevision(t *testing.T) {
	db := testutil.OpenTestDB(t)
	u := testutil.CreateUser(t, db, "editor")
	now := time.Now()
	a := models.ArticleModel{Title: "v1", Slug: "v", Text: "body", Status: models.ArticlePublished, PublishedAt: &now, AuthorID: u.ID}
	if err := db.Create(&a).Error; err != nil {
		t.Fatalf("create article: %v", err)
	}

	cache := &fakeCache{}
	d := newTestDispatcher(t, db, cache, false)

	before := a
	after := a
	after.Views = 42
	d.ArticleUpdated(context.Background(), u, &before, &after)

	var revs int64
	db.Model(&models.RevisionModel{}).Where("article_id = ?", a.ID).Count(&revs)
	if revs != 0 {
		t.Fatalf("views-only update recorded %d revisions", revs)
	}

	// A view-count change still reorders the popular list, so the
	// published article's read-side refreshes.
	if cache.latest != 1 || cache.popular != 1 {
		t.Fatalf("views change on published article must refresh both lists: latest=%d popular=%d", cache.latest, cache.popular)
	}
}

func TestArticleUpdated_UnpublishRefreshes(t *testing.T) {
	db := testutil.OpenTestDB(t)
	u := testutil.CreateUser(t, db, "editor")
	now := time.Now()
	a := models.ArticleModel{Title: "v1", Slug: "v", Text: "body", Status: models.ArticlePublished, PublishedAt: &now, AuthorID: u.ID}
	if err := db.Create(&a).Error; err != nil {
		t.Fatalf("create article: %v", err)
	}

	cache := &fakeCache{}
	d := newTestDispatcher(t, db, cache, false)

	before := a
	after := a
	after.Status = models.ArticleDraft
	d.ArticleUpdated(context.Background(), u, &before, &after)

	if cache.latest != 1 || cache.popular != 1 {
		t.Fatalf("unpublish must refresh both lists: latest=%d popular=%d", cache.latest, cache.popular)
	}
}

func TestArticleDeleted_AlwaysRefreshes(t *testing.T) {
	db := testutil.OpenTestDB(t)
	cache := &fakeCache{}
	d := newTestDispatcher(t, db, cache, false)

	d.ArticleDeleted(context.Background(), &models.ArticleModel{Status: models.ArticleDraft})

	if cache.latest != 1 || cache.popular != 1 {
		t.Fatalf("delete must refresh both lists: latest=%d popular=%d", cache.latest, cache.popular)
	}
}

func TestDispatcher_SideEffectFailureIsSwallowed(t *testing.T) {
	db := testutil.OpenTestDB(t)
	u := testutil.CreateUser(t, db, "alice")
	// No collaborators wired at all: every side effect is skipped, and
	// the dispatch itself must not panic.
	d := pipeline.NewDispatcher(db, zap.NewNop(), pipeline.Options{})

	c := models.CommentModel{RefType: models.RefTypeArticle, RefID: "a1", UserID: u.ID, Text: "hi"}
	d.CommentCreated(context.Background(), u, &c)
}
