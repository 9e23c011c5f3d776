package gamification

import (
	"context"

	"github.com/redis/go-redis/v9"
	redisc "github.com/techplay/core/internal/pkg/redis"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const leaderboardKey = "tp:leaderboard:xp"

// Leaderboard mirrors XP totals into a redis sorted set for fast ranked
// reads. The primary store stays authoritative; the mirror is rebuilt by
// a periodic full resync.
type Leaderboard struct {
	db     *gorm.DB
	rc     *redisc.Client
	logger *zap.Logger
}

func NewLeaderboard(db *gorm.DB, rc *redisc.Client, logger *zap.Logger) *Leaderboard {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Leaderboard{db: db, rc: rc, logger: logger.Named("leaderboard")}
}

// Entry is one ranked row.
type Entry struct {
	Rank     int    `json:"rank"`
	UserID   string `json:"user_id"`
	Username string `json:"username"`
	XP       int64  `json:"xp"`
}

// Sync copies every user's XP into the sorted set. Batch, idempotent,
// full resync: no deltas, safe to re-run, eventually reflects the latest
// ledger writes.
func (l *Leaderboard) Sync(ctx context.Context) error {
	var users []struct {
		ID string
		XP int64
	}
	if err := l.db.WithContext(ctx).Table("users").
		Select("id, xp").Where("deleted_at IS NULL").Scan(&users).Error; err != nil {
		return err
	}
	if len(users) == 0 {
		return nil
	}

	members := make([]redis.Z, 0, len(users))
	for _, u := range users {
		members = append(members, redis.Z{Score: float64(u.XP), Member: u.ID})
	}

	pipe := l.rc.Raw().TxPipeline()
	pipe.Del(ctx, leaderboardKey)
	pipe.ZAdd(ctx, leaderboardKey, members...)
	if _, err := pipe.Exec(ctx); err != nil {
		return err
	}

	l.logger.Debug("leaderboard synced", zap.Int("users", len(users)))
	return nil
}

// TopN returns the highest-ranked users, resolving usernames from the
// primary store.
func (l *Leaderboard) TopN(ctx context.Context, n int) ([]Entry, error) {
	if n <= 0 {
		n = 10
	}
	zs, err := l.rc.Raw().ZRevRangeWithScores(ctx, leaderboardKey, 0, int64(n-1)).Result()
	if err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(zs))
	for _, z := range zs {
		if id, ok := z.Member.(string); ok {
			ids = append(ids, id)
		}
	}

	names := map[string]string{}
	if len(ids) > 0 {
		var rows []struct {
			ID       string
			Username string
		}
		if err := l.db.WithContext(ctx).Table("users").
			Select("id, username").Where("id IN ?", ids).Scan(&rows).Error; err != nil {
			return nil, err
		}
		for _, r := range rows {
			names[r.ID] = r.Username
		}
	}

	entries := make([]Entry, 0, len(zs))
	for i, z := range zs {
		id, _ := z.Member.(string)
		entries = append(entries, Entry{
			Rank:     i + 1,
			UserID:   id,
			Username: names[id],
			XP:       int64(z.Score),
		})
	}
	return entries, nil
}
