package pipeline

import (
	"context"
	"time"

	"github.com/techplay/core/internal/models"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Ledger credits XP to a user. Implementations must use an atomic
// store-side increment.
type Ledger interface {
	AwardXP(ctx context.Context, userID string, amount int64) error
}

// Evaluator unlocks achievements whose threshold the count has crossed.
// Must be idempotent against duplicate invocations.
type Evaluator interface {
	CheckUnlock(ctx context.Context, userID, criterion string, count int64) ([]models.AchievementModel, error)
}

// ActivityRecorder appends one audit row.
type ActivityRecorder interface {
	Record(ctx context.Context, actorID string, refType models.RefType, refID, description string) error
}

// CacheRefresher rebuilds the read-side article lists.
type CacheRefresher interface {
	RefreshLatest(ctx context.Context) error
	RefreshPopular(ctx context.Context) error
}

// RevisionRecorder snapshots an article after a qualifying update.
type RevisionRecorder interface {
	Record(ctx context.Context, article *models.ArticleModel, actorID string) error
}

// Dispatcher is the synchronous observer fan-out invoked by content
// services right after persistence. Every side effect is best-effort:
// failures are logged and swallowed so they never roll back or fail the
// primary user action.
type Dispatcher struct {
	db                *gorm.DB
	ledger            Ledger
	evaluator         Evaluator
	activity          ActivityRecorder
	cache             CacheRefresher
	revisions         RevisionRecorder
	countForumReplies bool
	logger            *zap.Logger
}

// Options wires the dispatcher's collaborators.
type Options struct {
	Ledger            Ledger
	Evaluator         Evaluator
	Activity          ActivityRecorder
	Cache             CacheRefresher
	Revisions         RevisionRecorder
	CountForumReplies bool
}

func NewDispatcher(db *gorm.DB, logger *zap.Logger, opts Options) *Dispatcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Dispatcher{
		db:                db,
		ledger:            opts.Ledger,
		evaluator:         opts.Evaluator,
		activity:          opts.Activity,
		cache:             opts.Cache,
		revisions:         opts.Revisions,
		countForumReplies: opts.CountForumReplies,
		logger:            logger.Named("pipeline"),
	}
}

// CommentCreated fans out the side effects of a new comment.
func (d *Dispatcher) CommentCreated(ctx context.Context, actor *models.UserModel, c *models.CommentModel) {
	d.award(ctx, actor.ID, ActionCommentCreated, c.RefType, c.RefID, true)
}

// ThreadCreated fans out the side effects of a new forum thread.
func (d *Dispatcher) ThreadCreated(ctx context.Context, actor *models.UserModel, t *models.ThreadModel) {
	d.award(ctx, actor.ID, ActionThreadCreated, models.RefTypeThread, t.ID, true)
}

// ReplyCreated fans out the side effects of a new thread reply. Whether
// replies feed achievement evaluation is configuration, not code.
func (d *Dispatcher) ReplyCreated(ctx context.Context, actor *models.UserModel, r *models.ThreadReplyModel) {
	d.award(ctx, actor.ID, ActionReplyCreated, models.RefTypeThread, r.ThreadID, d.countForumReplies)
}

// ReviewCreated fans out the side effects of a new review. Reviews earn
// XP and achievements but no activity entry (the audit trail covers
// comment/thread/reply creation only).
func (d *Dispatcher) ReviewCreated(ctx context.Context, actor *models.UserModel, rv *models.ReviewModel) {
	rule := RuleFor(ActionReviewCreated)
	d.awardXP(ctx, actor.ID, rule.XP)
	d.checkAchievements(ctx, actor.ID, rule.Criterion, ActionReviewCreated)
}

// ArticleCreated refreshes the read-side lists for an article that
// arrives already published, and the popular list for seed imports that
// arrive with nonzero views.
func (d *Dispatcher) ArticleCreated(ctx context.Context, a *models.ArticleModel) {
	if a.IsPublished() {
		d.refreshLatest(ctx)
		d.refreshPopular(ctx)
		return
	}
	if a.Views > 0 {
		d.refreshPopular(ctx)
	}
}

// ArticleUpdated records a revision when an editable field changed and
// refreshes caches when the change is visible to readers.
func (d *Dispatcher) ArticleUpdated(ctx context.Context, actor *models.UserModel, before, after *models.ArticleModel) {
	contentChanged := before.Title != after.Title ||
		before.Text != after.Text ||
		before.Status != after.Status

	if contentChanged && d.revisions != nil {
		actorID := ""
		if actor != nil {
			actorID = actor.ID
		}
		if err := d.revisions.Record(ctx, after, actorID); err != nil {
			d.logger.Warn("revision record failed",
				zap.String("article_id", after.ID), zap.Error(err))
		}
	}

	cacheRelevant := contentChanged ||
		!equalTimePtr(before.PublishedAt, after.PublishedAt) ||
		before.Views != after.Views
	leftPublished := before.IsPublished() && !after.IsPublished()

	if (cacheRelevant && after.IsPublished()) || leftPublished {
		d.refreshLatest(ctx)
		d.refreshPopular(ctx)
	}
}

// ArticleDeleted always refreshes both lists, regardless of the prior
// status.
func (d *Dispatcher) ArticleDeleted(ctx context.Context, a *models.ArticleModel) {
	d.refreshLatest(ctx)
	d.refreshPopular(ctx)
}

// award runs the common fan-out: XP, achievement check, activity entry.
func (d *Dispatcher) award(ctx context.Context, actorID string, action Action, refType models.RefType, refID string, countsForAchievements bool) {
	rule := RuleFor(action)

	d.awardXP(ctx, actorID, rule.XP)
	if countsForAchievements {
		d.checkAchievements(ctx, actorID, rule.Criterion, action)
	}

	if d.activity != nil {
		if err := d.activity.Record(ctx, actorID, refType, refID, rule.Verb); err != nil {
			d.logger.Warn("activity record failed",
				zap.String("actor_id", actorID), zap.Error(err))
		}
	}
}

func (d *Dispatcher) awardXP(ctx context.Context, userID string, amount int64) {
	if d.ledger == nil {
		return
	}
	if err := d.ledger.AwardXP(ctx, userID, amount); err != nil {
		d.logger.Warn("xp award failed",
			zap.String("user_id", userID), zap.Int64("amount", amount), zap.Error(err))
	}
}

func (d *Dispatcher) checkAchievements(ctx context.Context, userID, criterion string, action Action) {
	if d.evaluator == nil {
		return
	}
	count, err := d.countForCriterion(userID, action)
	if err != nil {
		d.logger.Warn("criterion count failed",
			zap.String("user_id", userID), zap.String("criterion", criterion), zap.Error(err))
		return
	}
	unlocked, err := d.evaluator.CheckUnlock(ctx, userID, criterion, count)
	if err != nil {
		d.logger.Warn("achievement check failed",
			zap.String("user_id", userID), zap.String("criterion", criterion), zap.Error(err))
		return
	}
	for _, a := range unlocked {
		d.logger.Info("achievement unlocked",
			zap.String("user_id", userID), zap.String("achievement", a.Name))
	}
}

// countForCriterion counts the user's rows of the action's entity type.
// The count runs after the triggering insert, so the new row is included.
func (d *Dispatcher) countForCriterion(userID string, action Action) (int64, error) {
	var (
		count int64
		tx    *gorm.DB
	)
	switch action {
	case ActionCommentCreated:
		tx = d.db.Model(&models.CommentModel{})
	case ActionThreadCreated:
		tx = d.db.Model(&models.ThreadModel{})
	case ActionReplyCreated:
		tx = d.db.Model(&models.ThreadReplyModel{})
	case ActionReviewCreated:
		tx = d.db.Model(&models.ReviewModel{})
	}
	err := tx.Where("user_id = ?", userID).Count(&count).Error
	return count, err
}

func (d *Dispatcher) refreshLatest(ctx context.Context) {
	if d.cache == nil {
		return
	}
	if err := d.cache.RefreshLatest(ctx); err != nil {
		d.logger.Warn("latest articles cache refresh failed", zap.Error(err))
	}
}

func (d *Dispatcher) refreshPopular(ctx context.Context) {
	if d.cache == nil {
		return
	}
	if err := d.cache.RefreshPopular(ctx); err != nil {
		d.logger.Warn("popular articles cache refresh failed", zap.Error(err))
	}
}

func equalTimePtr(a, b *time.Time) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Equal(*b)
}
