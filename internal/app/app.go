// Package app owns the per-session application state. A Session replaces
// the original app's ambient context singleton: it is constructed for one
// user lifecycle, hydrated once from storage, handed to the presentation
// layer by reference and torn down with Close.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/bloomapp/bloom-core/internal/dates"
	"github.com/bloomapp/bloom-core/internal/models"
	"github.com/bloomapp/bloom-core/internal/pagination"
	"github.com/bloomapp/bloom-core/internal/repositories"
	"github.com/bloomapp/bloom-core/internal/storage"
	"github.com/bloomapp/bloom-core/internal/store"
)

// QueryKeyFeed partitions the cached friends-feed pages.
const QueryKeyFeed = "feed"

// Config wires a Session. FeedRepo and UserRepo are optional; without
// them the session serves the feed from local posts only, which is the
// shipping configuration while the backend remains a scaffold.
type Config struct {
	Storage   storage.Storage
	Validator store.Validator
	Logger    *slog.Logger
	FeedRepo  repositories.FeedRepository
	UserRepo  repositories.UserRepository
	FeedLimit int
}

// Session is the explicit application-state object exposed to the UI.
type Session struct {
	logger   *slog.Logger
	storage  storage.Storage
	store    *store.Store
	cache    *pagination.Cache
	feed     *pagination.Controller[models.FeedPost]
	feedRepo repositories.FeedRepository
	userRepo repositories.UserRepository
}

// New creates a new Session. Call Load before anything else.
func New(cfg Config) *Session {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	s := &Session{
		logger:   logger,
		storage:  cfg.Storage,
		store:    store.New(cfg.Storage, cfg.Validator, logger),
		cache:    pagination.NewCache(),
		feedRepo: cfg.FeedRepo,
		userRepo: cfg.UserRepo,
	}

	queryFn := s.localFeedPage
	if s.feedRepo != nil {
		queryFn = s.feedRepo.GetFeed
	}
	s.feed = pagination.NewController(pagination.Config[models.FeedPost]{
		QueryKey: QueryKeyFeed,
		QueryFn:  queryFn,
		Limit:    cfg.FeedLimit,
	})
	s.cache.Register(QueryKeyFeed, s.feed)

	return s
}

// Load hydrates the session from durable storage, once per lifecycle.
func (s *Session) Load(ctx context.Context) error {
	if err := s.store.Load(ctx); err != nil {
		return fmt.Errorf("failed to load session state: %w", err)
	}
	s.logger.Info("session loaded",
		"userId", s.store.Profile().ID,
		"blooms", s.store.Stats().Blooms,
		"weeds", s.store.Stats().Weeds,
	)
	return nil
}

// Close releases the storage backend.
func (s *Session) Close(ctx context.Context) error {
	return s.storage.Close(ctx)
}

// localFeedPage serves feed pages from the locally stored posts, merged
// newest-first. The merge happens per request so a page always reflects
// the latest snapshot after invalidation.
func (s *Session) localFeedPage(ctx context.Context, req pagination.Request) (pagination.Page[models.FeedPost], error) {
	all := s.store.FeedPosts()
	start := (req.Page - 1) * req.Limit
	if start > len(all) {
		start = len(all)
	}
	end := start + req.Limit
	if end > len(all) {
		end = len(all)
	}
	return pagination.Page[models.FeedPost]{
		Items:   all[start:end],
		Page:    req.Page,
		HasMore: end < len(all),
	}, nil
}

// Greeting returns the time-of-day greeting for the home screen.
func (s *Session) Greeting() string {
	return dates.Greeting(time.Now())
}

// UserName returns the display name shown in greetings.
func (s *Session) UserName() string { return s.store.UserName() }

// SetUserName updates the display name used in greetings.
func (s *Session) SetUserName(ctx context.Context, name string) error {
	return s.store.SetUserName(ctx, name)
}

// Profile returns a copy of the owner's profile.
func (s *Session) Profile() models.UserProfile { return s.store.Profile() }

// Stats returns the lifetime bloom and weed counters.
func (s *Session) Stats() models.UserStats { return s.store.Stats() }

// CompostPoints returns the unconsumed compost balance.
func (s *Session) CompostPoints() int { return s.store.CompostPoints() }

// TodayEntry returns today's daily entry, if any.
func (s *Session) TodayEntry() (models.DailyEntry, bool) { return s.store.TodayEntry() }

// DailyEntries returns all entries for the gratitude archive.
func (s *Session) DailyEntries() []models.DailyEntry { return s.store.DailyEntries() }

// CurrentStreak returns the consecutive-day bloom streak ending today.
func (s *Session) CurrentStreak() int { return s.store.CurrentStreak() }

// BestStreak returns the longest bloom streak on record.
func (s *Session) BestStreak() int { return s.store.BestStreak() }

// UpdateTodayMood records today's mood check-in.
func (s *Session) UpdateTodayMood(ctx context.Context, mood models.Mood) error {
	return s.store.UpdateTodayMood(ctx, mood)
}

// UpdateTodayGratitude records today's gratitude reflection.
func (s *Session) UpdateTodayGratitude(ctx context.Context, gratitude string) error {
	return s.store.UpdateTodayGratitude(ctx, gratitude)
}

// AddBloomPost shares a habit win and invalidates the cached feed.
func (s *Session) AddBloomPost(ctx context.Context, caption, photoURL string) (*models.BloomPost, error) {
	post, err := s.store.AddBloomPost(ctx, caption, photoURL)
	if err != nil {
		return nil, err
	}
	s.cache.Invalidate(QueryKeyFeed)
	return post, nil
}

// AddPrunePost shares a habit drop and invalidates the cached feed.
func (s *Session) AddPrunePost(ctx context.Context, habitName, whyItMatters, strategy string, severity models.Severity) (*models.PrunePost, error) {
	post, err := s.store.AddPrunePost(ctx, habitName, whyItMatters, strategy, severity)
	if err != nil {
		return nil, err
	}
	s.cache.Invalidate(QueryKeyFeed)
	return post, nil
}

// ReactToPost records a reaction and invalidates the cached feed. With a
// remote feed configured the reaction goes to the backend; otherwise it
// lands on the locally stored post.
func (s *Session) ReactToPost(ctx context.Context, postID string, kind models.ReactionKind) error {
	var err error
	if s.feedRepo != nil {
		err = s.feedRepo.ReactToPost(ctx, postID, kind)
	} else {
		err = s.store.ReactToBloomPost(ctx, postID, kind, s.store.Profile().ID)
	}
	if err != nil {
		return err
	}
	s.cache.Invalidate(QueryKeyFeed)
	return nil
}

// FollowUser follows another gardener. The local profile is the source of
// truth; the remote call, when configured, is best effort.
func (s *Session) FollowUser(ctx context.Context, userID string) error {
	if err := s.store.FollowUser(ctx, userID); err != nil {
		return err
	}
	if s.userRepo != nil {
		if err := s.userRepo.Follow(ctx, userID); err != nil {
			s.logger.Warn("remote follow failed", "userId", userID, "error", err)
		}
	}
	return nil
}

// UnfollowUser unfollows another gardener.
func (s *Session) UnfollowUser(ctx context.Context, userID string) error {
	if err := s.store.UnfollowUser(ctx, userID); err != nil {
		return err
	}
	if s.userRepo != nil {
		if err := s.userRepo.Unfollow(ctx, userID); err != nil {
			s.logger.Warn("remote unfollow failed", "userId", userID, "error", err)
		}
	}
	return nil
}

// SearchUsers queries the backend user directory.
func (s *Session) SearchUsers(ctx context.Context, query string, req pagination.Request) (pagination.Page[models.UserSummary], error) {
	if s.userRepo == nil {
		return pagination.Page[models.UserSummary]{}, fmt.Errorf("user search requires a remote backend")
	}
	return s.userRepo.SearchUsers(ctx, query, req)
}

// FetchFeedPage loads the next feed page; a no-op while one is in flight
// or when the feed is exhausted.
func (s *Session) FetchFeedPage(ctx context.Context) error {
	return s.feed.FetchNextPage(ctx)
}

// RefreshFeed drops cached pages and reloads from page 1.
func (s *Session) RefreshFeed(ctx context.Context) error {
	return s.feed.Refetch(ctx)
}

// FeedPosts returns the accumulated feed, newest first.
func (s *Session) FeedPosts() []models.FeedPost { return s.feed.Items() }

// FeedHasMore reports whether another feed page is available.
func (s *Session) FeedHasMore() bool { return s.feed.HasMore() }

// FeedState returns the feed fetch lifecycle state.
func (s *Session) FeedState() pagination.State { return s.feed.State() }
