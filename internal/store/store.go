// Package store holds the device-local Bloom state: shared posts, daily
// entries, lifetime stats and the compost ledger. Every mutation persists
// the whole affected collection before the in-memory copy changes, so the
// durable state stays authoritative if the process dies between the two.
package store

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/bloomapp/bloom-core/internal/dates"
	"github.com/bloomapp/bloom-core/internal/models"
	"github.com/bloomapp/bloom-core/internal/storage"
	"github.com/bloomapp/bloom-core/internal/streak"
)

const defaultUserName = "Friend"

// Store is the in-memory post store backed by durable key-value storage.
// One mutex serializes all writes; reads return snapshot copies.
type Store struct {
	mu       sync.Mutex
	storage  storage.Storage
	validate Validator
	logger   *slog.Logger
	now      func() time.Time

	bloomPosts   []models.BloomPost
	prunePosts   []models.PrunePost
	dailyEntries []models.DailyEntry
	stats        models.UserStats
	profile      *models.UserProfile
	userName     string
	compost      int
	loaded       bool
}

// New creates a new Store over the given storage backend.
func New(st storage.Storage, v Validator, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{
		storage:  st,
		validate: v,
		logger:   logger,
		now:      time.Now,
		userName: defaultUserName,
	}
}

// Validator is the subset of the validators package the store needs.
type Validator interface {
	Validate(i interface{}) error
	Sanitize(s string) string
}

// Load hydrates the store from durable storage. Absent keys are the normal
// fresh-device state; a default profile is created and persisted on first
// load. Call once per session before any other operation.
func (s *Store) Load(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.loadJSON(ctx, storage.KeyBloomPosts, &s.bloomPosts); err != nil {
		return err
	}
	if err := s.loadJSON(ctx, storage.KeyPrunePosts, &s.prunePosts); err != nil {
		return err
	}
	if err := s.loadJSON(ctx, storage.KeyDailyEntries, &s.dailyEntries); err != nil {
		return err
	}
	if err := s.loadJSON(ctx, storage.KeyUserStats, &s.stats); err != nil {
		return err
	}

	if name, ok, err := s.storage.Get(ctx, storage.KeyUserName); err != nil {
		return fmt.Errorf("failed to load display name: %w", err)
	} else if ok && name != "" {
		s.userName = name
	}

	var profile models.UserProfile
	found := false
	if raw, ok, err := s.storage.Get(ctx, storage.KeyUserProfile); err != nil {
		return fmt.Errorf("failed to load profile: %w", err)
	} else if ok {
		if err := json.Unmarshal([]byte(raw), &profile); err != nil {
			return fmt.Errorf("corrupt profile document: %w", err)
		}
		found = true
	}
	if !found {
		id := uuid.NewString()
		profile = models.UserProfile{
			ID:        id,
			Name:      s.userName,
			Username:  "user_" + id[:8],
			JoinDate:  s.now().Format(time.RFC3339),
			Following: []string{},
			Followers: []string{},
		}
		raw, err := json.Marshal(profile)
		if err != nil {
			return err
		}
		if err := s.storage.Set(ctx, storage.KeyUserProfile, string(raw)); err != nil {
			return fmt.Errorf("failed to persist default profile: %w", err)
		}
		s.logger.Info("created default profile", "userId", profile.ID)
	}
	s.profile = &profile

	s.loaded = true
	return nil
}

func (s *Store) loadJSON(ctx context.Context, key string, dst interface{}) error {
	raw, ok, err := s.storage.Get(ctx, key)
	if err != nil {
		return fmt.Errorf("failed to load %s: %w", key, err)
	}
	if !ok {
		return nil
	}
	if err := json.Unmarshal([]byte(raw), dst); err != nil {
		return fmt.Errorf("corrupt document under %s: %w", key, err)
	}
	return nil
}

// persistJSON serializes v under key. Callers update memory only after it
// returns nil.
func (s *Store) persistJSON(ctx context.Context, key string, v interface{}) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to serialize %s: %w", key, err)
	}
	if err := s.storage.Set(ctx, key, string(raw)); err != nil {
		return fmt.Errorf("failed to persist %s: %w", key, err)
	}
	return nil
}

// postID generates a timestamp-based post identifier, nudged forward when
// two posts land in the same millisecond.
func (s *Store) postID(lastID string) string {
	ms := s.now().UnixMilli()
	if last, err := strconv.ParseInt(lastID, 10, 64); err == nil && ms <= last {
		ms = last + 1
	}
	return strconv.FormatInt(ms, 10)
}

// mustMillis reads the id back as the post timestamp so ordering always
// matches identity, even when the id was nudged past a same-millisecond
// predecessor.
func mustMillis(id string, now time.Time) int64 {
	if ms, err := strconv.ParseInt(id, 10, 64); err == nil {
		return ms
	}
	return now.UnixMilli()
}

// AddBloomPost validates and shares a habit-win update. On success the
// bloom counter increments and any accrued compost is consumed.
func (s *Store) AddBloomPost(ctx context.Context, caption, photoURL string) (*models.BloomPost, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	req := models.CreateBloomPostRequest{
		Caption:  s.validate.Sanitize(caption),
		PhotoURL: photoURL,
	}
	if err := s.validate.Validate(req); err != nil {
		return nil, err
	}

	now := s.now()
	var lastID string
	if len(s.bloomPosts) > 0 {
		lastID = s.bloomPosts[0].ID
	}
	id := s.postID(lastID)
	post := models.BloomPost{
		ID:         id,
		UserID:     s.profile.ID,
		Type:       models.PostTypeBloom,
		Caption:    req.Caption,
		PhotoURL:   req.PhotoURL,
		Date:       dates.Day(now),
		Timestamp:  mustMillis(id, now),
		Reactions:  models.NewReactions(),
		Visibility: models.VisibilityFriends,
		UserName:   s.profile.Name,
		UserAvatar: s.profile.Avatar,
	}

	updated := append([]models.BloomPost{post}, s.bloomPosts...)
	if err := s.persistJSON(ctx, storage.KeyBloomPosts, updated); err != nil {
		return nil, err
	}
	s.bloomPosts = updated

	s.bumpStats(ctx, func(st *models.UserStats) { st.Blooms++ })

	if s.compost > 0 {
		// Reset on use. The product copy promises doubled blooms; no
		// multiplier is applied anywhere, so only the reset is real.
		s.logger.Info("compost consumed by bloom", "points", s.compost)
		s.compost = 0
	}

	return &post, nil
}

// AddPrunePost validates and shares a habit-drop update. On success the
// weeds counter increments and compost accrues by severity.
func (s *Store) AddPrunePost(ctx context.Context, habitName, whyItMatters, strategy string, severity models.Severity) (*models.PrunePost, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	req := models.CreatePrunePostRequest{
		HabitName:    s.validate.Sanitize(habitName),
		WhyItMatters: s.validate.Sanitize(whyItMatters),
		Strategy:     s.validate.Sanitize(strategy),
		Severity:     string(severity),
	}
	if err := s.validate.Validate(req); err != nil {
		return nil, err
	}

	now := s.now()
	var lastID string
	if len(s.prunePosts) > 0 {
		lastID = s.prunePosts[0].ID
	}
	id := s.postID(lastID)
	post := models.PrunePost{
		ID:           id,
		UserID:       s.profile.ID,
		Type:         models.PostTypePrune,
		HabitName:    req.HabitName,
		WhyItMatters: req.WhyItMatters,
		Strategy:     req.Strategy,
		Severity:     severity,
		Date:         dates.Day(now),
		Timestamp:    mustMillis(id, now),
		Visibility:   models.VisibilityFriends,
		UserName:     s.profile.Name,
		UserAvatar:   s.profile.Avatar,
	}

	updated := append([]models.PrunePost{post}, s.prunePosts...)
	if err := s.persistJSON(ctx, storage.KeyPrunePosts, updated); err != nil {
		return nil, err
	}
	s.prunePosts = updated

	s.bumpStats(ctx, func(st *models.UserStats) { st.Weeds++ })

	gain := severity.CompostValue()
	s.compost += gain
	s.logger.Info("compost accrued from prune", "gain", gain, "total", s.compost)

	return &post, nil
}

// bumpStats persists then applies a stats update. A persist failure leaves
// the counters as they were and is logged rather than failing the post,
// matching the side-effect semantics of the original app.
func (s *Store) bumpStats(ctx context.Context, apply func(*models.UserStats)) {
	next := s.stats
	apply(&next)
	if err := s.persistJSON(ctx, storage.KeyUserStats, next); err != nil {
		s.logger.Error("failed to save user stats", "error", err)
		return
	}
	s.stats = next
}

// ReactToBloomPost records a reaction on a locally stored bloom post.
// Reacting twice with the same kind is a no-op.
func (s *Store) ReactToBloomPost(ctx context.Context, postID string, kind models.ReactionKind, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := -1
	for i := range s.bloomPosts {
		if s.bloomPosts[i].ID == postID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return fmt.Errorf("post %q not found", postID)
	}

	updated := make([]models.BloomPost, len(s.bloomPosts))
	copy(updated, s.bloomPosts)
	reactions := make(models.Reactions, len(updated[idx].Reactions))
	for k, ids := range updated[idx].Reactions {
		reactions[k] = append([]string{}, ids...)
	}
	if !reactions.Add(kind, userID) {
		return nil
	}
	updated[idx].Reactions = reactions

	if err := s.persistJSON(ctx, storage.KeyBloomPosts, updated); err != nil {
		return err
	}
	s.bloomPosts = updated
	return nil
}

// BloomPosts returns a newest-first snapshot of bloom posts.
func (s *Store) BloomPosts() []models.BloomPost {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.BloomPost, len(s.bloomPosts))
	copy(out, s.bloomPosts)
	return out
}

// PrunePosts returns a newest-first snapshot of prune posts.
func (s *Store) PrunePosts() []models.PrunePost {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.PrunePost, len(s.prunePosts))
	copy(out, s.prunePosts)
	return out
}

// Stats returns the lifetime bloom and weed counters.
func (s *Store) Stats() models.UserStats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stats
}

// CompostPoints returns the compost accrued and not yet consumed.
func (s *Store) CompostPoints() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.compost
}

// CurrentStreak recomputes the consecutive-day streak ending today.
func (s *Store) CurrentStreak() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return streak.Current(s.bloomDates(), dates.Day(s.now()))
}

// BestStreak recomputes the longest streak over the full post history.
func (s *Store) BestStreak() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return streak.Best(s.bloomDates())
}

func (s *Store) bloomDates() []string {
	out := make([]string, len(s.bloomPosts))
	for i, p := range s.bloomPosts {
		out[i] = p.Date
	}
	return out
}

// FeedPosts merges bloom and prune posts into the shared feed shape,
// newest first.
func (s *Store) FeedPosts() []models.FeedPost {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]models.FeedPost, 0, len(s.bloomPosts)+len(s.prunePosts))
	for _, p := range s.bloomPosts {
		name := p.UserName
		if name == "" {
			name = "Anonymous"
		}
		out = append(out, models.FeedPost{
			ID:         p.ID,
			UserID:     p.UserID,
			UserName:   name,
			UserAvatar: p.UserAvatar,
			Type:       p.Type,
			Content:    p.Caption,
			PhotoURL:   p.PhotoURL,
			Timestamp:  p.Timestamp,
			Reactions:  p.Reactions,
		})
	}
	for _, p := range s.prunePosts {
		name := p.UserName
		if name == "" {
			name = "Anonymous"
		}
		out = append(out, models.FeedPost{
			ID:         p.ID,
			UserID:     p.UserID,
			UserName:   name,
			UserAvatar: p.UserAvatar,
			Type:       p.Type,
			Content:    p.HabitName + ": " + p.WhyItMatters,
			Timestamp:  p.Timestamp,
			Reactions:  models.NewReactions(),
		})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Timestamp > out[j].Timestamp
	})
	return out
}
