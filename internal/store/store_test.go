package store

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/bloomapp/bloom-core/internal/models"
	"github.com/bloomapp/bloom-core/internal/storage"
	"github.com/bloomapp/bloom-core/validators"
)

var discard = slog.New(slog.NewTextHandler(io.Discard, nil))

func newTestStore(t *testing.T) (*Store, *storage.MemoryStorage) {
	t.Helper()
	mem := storage.NewMemoryStorage()
	s := New(mem, validators.NewValidator(), discard)
	s.now = func() time.Time { return time.Date(2024, 6, 10, 12, 0, 0, 0, time.UTC) }
	if err := s.Load(context.Background()); err != nil {
		t.Fatalf("Load: %v", err)
	}
	return s, mem
}

func TestAddBloomPost(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	post, err := s.AddBloomPost(ctx, "  shipped my first 5k run  ", "")
	if err != nil {
		t.Fatalf("AddBloomPost: %v", err)
	}
	if post.Caption != "shipped my first 5k run" {
		t.Errorf("caption not trimmed: %q", post.Caption)
	}
	if post.Date != "2024-06-10" {
		t.Errorf("post date = %q, want 2024-06-10", post.Date)
	}
	if got := s.Stats().Blooms; got != 1 {
		t.Errorf("blooms counter = %d, want 1", got)
	}

	second, err := s.AddBloomPost(ctx, "another win", "")
	if err != nil {
		t.Fatalf("AddBloomPost second: %v", err)
	}
	posts := s.BloomPosts()
	if len(posts) != 2 {
		t.Fatalf("len(BloomPosts) = %d, want 2", len(posts))
	}
	if posts[0].ID != second.ID {
		t.Error("newest post is not first")
	}
	if posts[0].ID == posts[1].ID {
		t.Error("posts created in the same millisecond share an ID")
	}
}

func TestAddBloomPostRejectsInvalidInput(t *testing.T) {
	long := make([]byte, 281)
	for i := range long {
		long[i] = 'a'
	}
	tests := []struct {
		name     string
		caption  string
		photoURL string
	}{
		{"empty caption", "", ""},
		{"whitespace caption", "   ", ""},
		{"281 char caption", string(long), ""},
		{"bad photo url", "fine caption", "not a url"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, _ := newTestStore(t)
			_, err := s.AddBloomPost(context.Background(), tt.caption, tt.photoURL)

			var verr *validators.ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("expected *ValidationError, got %v", err)
			}
			if len(s.BloomPosts()) != 0 {
				t.Error("store changed after rejected input")
			}
			if s.Stats().Blooms != 0 {
				t.Error("blooms counter changed after rejected input")
			}
		})
	}
}

func TestCompostAccrualAndReset(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	cases := []struct {
		severity models.Severity
		gain     int
	}{
		{models.SeverityHigh, 3},
		{models.SeverityMedium, 2},
		{models.SeverityLow, 1},
	}
	for _, c := range cases {
		before := s.CompostPoints()
		if _, err := s.AddPrunePost(ctx, "doomscrolling", "it eats my evenings", "", c.severity); err != nil {
			t.Fatalf("AddPrunePost(%s): %v", c.severity, err)
		}
		if got := s.CompostPoints(); got != before+c.gain {
			t.Errorf("compost after %s prune = %d, want %d", c.severity, got, before+c.gain)
		}
	}
	if s.Stats().Weeds != 3 {
		t.Errorf("weeds counter = %d, want 3", s.Stats().Weeds)
	}

	if _, err := s.AddBloomPost(ctx, "slept 8 hours", ""); err != nil {
		t.Fatalf("AddBloomPost: %v", err)
	}
	if got := s.CompostPoints(); got != 0 {
		t.Errorf("compost after bloom = %d, want 0", got)
	}

	// No compost accrued: the next bloom must not go negative or reset logs.
	if _, err := s.AddBloomPost(ctx, "again", ""); err != nil {
		t.Fatalf("AddBloomPost: %v", err)
	}
	if got := s.CompostPoints(); got != 0 {
		t.Errorf("compost = %d, want 0", got)
	}
}

func TestAddPrunePostRejectsInvalidInput(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	if _, err := s.AddPrunePost(ctx, "", "matters", "", models.SeverityLow); err == nil {
		t.Error("expected error for empty habit name")
	}
	if _, err := s.AddPrunePost(ctx, "habit", "", "", models.SeverityLow); err == nil {
		t.Error("expected error for empty rationale")
	}
	if _, err := s.AddPrunePost(ctx, "habit", "matters", "", models.Severity("Extreme")); err == nil {
		t.Error("expected error for unknown severity")
	}
	if len(s.PrunePosts()) != 0 || s.CompostPoints() != 0 {
		t.Error("store changed after rejected input")
	}
}

func TestStreaksOverStore(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	days := []string{"2024-06-08", "2024-06-09", "2024-06-10"}
	for _, day := range days {
		d, _ := time.Parse("2006-01-02", day)
		s.now = func() time.Time { return d.Add(9 * time.Hour) }
		if _, err := s.AddBloomPost(ctx, "win on "+day, ""); err != nil {
			t.Fatalf("AddBloomPost: %v", err)
		}
	}

	s.now = func() time.Time { return time.Date(2024, 6, 10, 20, 0, 0, 0, time.UTC) }
	if got := s.CurrentStreak(); got != 3 {
		t.Errorf("CurrentStreak = %d, want 3", got)
	}
	if got := s.BestStreak(); got != 3 {
		t.Errorf("BestStreak = %d, want 3", got)
	}

	// Next evening without a post: current drops to zero, best stays.
	s.now = func() time.Time { return time.Date(2024, 6, 11, 20, 0, 0, 0, time.UTC) }
	if got := s.CurrentStreak(); got != 0 {
		t.Errorf("CurrentStreak after silent day = %d, want 0", got)
	}
	if got := s.BestStreak(); got != 3 {
		t.Errorf("BestStreak after silent day = %d, want 3", got)
	}
}

func TestPersistenceRoundTrip(t *testing.T) {
	s, mem := newTestStore(t)
	ctx := context.Background()

	if _, err := s.AddBloomPost(ctx, "first", ""); err != nil {
		t.Fatal(err)
	}
	if _, err := s.AddBloomPost(ctx, "second", "https://example.com/p.jpg"); err != nil {
		t.Fatal(err)
	}
	if _, err := s.AddPrunePost(ctx, "late caffeine", "ruins my sleep", "tea after 2pm", models.SeverityMedium); err != nil {
		t.Fatal(err)
	}
	if err := s.UpdateTodayMood(ctx, models.MoodGood); err != nil {
		t.Fatal(err)
	}

	reloaded := New(mem, validators.NewValidator(), discard)
	reloaded.now = s.now
	if err := reloaded.Load(ctx); err != nil {
		t.Fatalf("reload: %v", err)
	}

	a, b := s.BloomPosts(), reloaded.BloomPosts()
	if len(a) != len(b) {
		t.Fatalf("bloom post count changed across reload: %d vs %d", len(a), len(b))
	}
	for i := range a {
		if a[i].ID != b[i].ID || a[i].Caption != b[i].Caption || a[i].Date != b[i].Date {
			t.Errorf("post %d differs across reload: %+v vs %+v", i, a[i], b[i])
		}
	}
	if got := reloaded.Stats(); got != s.Stats() {
		t.Errorf("stats changed across reload: %+v vs %+v", got, s.Stats())
	}
	if len(reloaded.PrunePosts()) != 1 {
		t.Errorf("prune posts lost across reload")
	}
	if _, ok := reloaded.TodayEntry(); !ok {
		t.Error("today's entry lost across reload")
	}
	if reloaded.Profile().ID != s.Profile().ID {
		t.Error("profile identity changed across reload")
	}
}

func TestDailyEntryUpsert(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	if _, ok := s.TodayEntry(); ok {
		t.Fatal("fresh store has a today entry")
	}
	if err := s.UpdateTodayMood(ctx, models.MoodStruggling); err != nil {
		t.Fatal(err)
	}
	if err := s.UpdateTodayGratitude(ctx, "  grateful for rain  "); err != nil {
		t.Fatal(err)
	}
	if err := s.UpdateTodayMood(ctx, models.MoodGreat); err != nil {
		t.Fatal(err)
	}

	if got := len(s.DailyEntries()); got != 1 {
		t.Fatalf("entries = %d, want 1 per date", got)
	}
	entry, ok := s.TodayEntry()
	if !ok {
		t.Fatal("expected today entry")
	}
	if entry.Mood != models.MoodGreat {
		t.Errorf("mood = %q, want great", entry.Mood)
	}
	if entry.Gratitude != "grateful for rain" {
		t.Errorf("gratitude = %q", entry.Gratitude)
	}

	if err := s.UpdateTodayMood(ctx, models.Mood("meh")); err == nil {
		t.Error("expected error for unknown mood")
	}

	long := make([]byte, 501)
	for i := range long {
		long[i] = 'g'
	}
	if err := s.UpdateTodayGratitude(ctx, string(long)); err == nil {
		t.Error("expected error for oversized gratitude")
	}
}

func TestFollowUnfollow(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	if err := s.FollowUser(ctx, "friend-1"); err != nil {
		t.Fatal(err)
	}
	if err := s.FollowUser(ctx, "friend-1"); err != nil {
		t.Fatal(err)
	}
	if got := s.Profile().Following; len(got) != 1 || got[0] != "friend-1" {
		t.Errorf("following = %v, want [friend-1]", got)
	}

	if err := s.UnfollowUser(ctx, "friend-1"); err != nil {
		t.Fatal(err)
	}
	if err := s.UnfollowUser(ctx, "friend-1"); err != nil {
		t.Fatal(err)
	}
	if got := s.Profile().Following; len(got) != 0 {
		t.Errorf("following = %v, want empty", got)
	}
}

func TestSetUserName(t *testing.T) {
	s, mem := newTestStore(t)
	ctx := context.Background()

	if got := s.UserName(); got != "Friend" {
		t.Fatalf("default name = %q, want Friend", got)
	}
	if err := s.SetUserName(ctx, "  Rosa  "); err != nil {
		t.Fatal(err)
	}
	if got := s.UserName(); got != "Rosa" {
		t.Errorf("name = %q, want Rosa", got)
	}
	if err := s.SetUserName(ctx, "   "); err == nil {
		t.Error("expected error for blank name")
	}

	reloaded := New(mem, validators.NewValidator(), discard)
	if err := reloaded.Load(ctx); err != nil {
		t.Fatal(err)
	}
	if got := reloaded.UserName(); got != "Rosa" {
		t.Errorf("name after reload = %q, want Rosa", got)
	}
}

func TestReactToBloomPost(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	post, err := s.AddBloomPost(ctx, "morning pages done", "")
	if err != nil {
		t.Fatal(err)
	}

	if err := s.ReactToBloomPost(ctx, post.ID, models.ReactionGrowth, "friend-1"); err != nil {
		t.Fatal(err)
	}
	if err := s.ReactToBloomPost(ctx, post.ID, models.ReactionGrowth, "friend-1"); err != nil {
		t.Fatal(err)
	}
	if err := s.ReactToBloomPost(ctx, post.ID, models.ReactionLove, "friend-2"); err != nil {
		t.Fatal(err)
	}

	got := s.BloomPosts()[0].Reactions
	if got.Count(models.ReactionGrowth) != 1 {
		t.Errorf("growth reactions = %d, want 1 (per-user-per-kind)", got.Count(models.ReactionGrowth))
	}
	if got.Count(models.ReactionLove) != 1 {
		t.Errorf("love reactions = %d, want 1", got.Count(models.ReactionLove))
	}

	if err := s.ReactToBloomPost(ctx, "missing", models.ReactionLove, "friend-2"); err == nil {
		t.Error("expected error for unknown post")
	}
}

func TestFeedPostsMergeNewestFirst(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	base := time.Date(2024, 6, 10, 8, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return base }
	if _, err := s.AddBloomPost(ctx, "early bloom", ""); err != nil {
		t.Fatal(err)
	}
	s.now = func() time.Time { return base.Add(time.Hour) }
	if _, err := s.AddPrunePost(ctx, "snoozing", "mornings matter", "", models.SeverityLow); err != nil {
		t.Fatal(err)
	}
	s.now = func() time.Time { return base.Add(2 * time.Hour) }
	if _, err := s.AddBloomPost(ctx, "late bloom", ""); err != nil {
		t.Fatal(err)
	}

	feed := s.FeedPosts()
	if len(feed) != 3 {
		t.Fatalf("feed length = %d, want 3", len(feed))
	}
	for i := 1; i < len(feed); i++ {
		if feed[i-1].Timestamp < feed[i].Timestamp {
			t.Fatalf("feed not newest-first at index %d", i)
		}
	}
	if feed[0].Content != "late bloom" {
		t.Errorf("feed[0] = %q, want the newest bloom", feed[0].Content)
	}
	if feed[1].Type != models.PostTypePrune {
		t.Errorf("feed[1].Type = %q, want prune", feed[1].Type)
	}
	if feed[1].Content != "snoozing: mornings matter" {
		t.Errorf("prune feed content = %q", feed[1].Content)
	}
}

// failingStorage wraps MemoryStorage and fails writes on demand.
type failingStorage struct {
	*storage.MemoryStorage
	failSet bool
}

func (f *failingStorage) Set(ctx context.Context, key, value string) error {
	if f.failSet {
		return errors.New("disk full")
	}
	return f.MemoryStorage.Set(ctx, key, value)
}

func TestStorageFailureLeavesMemoryUntouched(t *testing.T) {
	fs := &failingStorage{MemoryStorage: storage.NewMemoryStorage()}
	s := New(fs, validators.NewValidator(), discard)
	s.now = func() time.Time { return time.Date(2024, 6, 10, 12, 0, 0, 0, time.UTC) }
	ctx := context.Background()
	if err := s.Load(ctx); err != nil {
		t.Fatalf("Load: %v", err)
	}

	fs.failSet = true
	if _, err := s.AddBloomPost(ctx, "should not stick", ""); err == nil {
		t.Fatal("expected storage error")
	}
	if err := s.UpdateTodayGratitude(ctx, "also should not stick"); err == nil {
		t.Fatal("expected storage error")
	}

	fs.failSet = false
	if len(s.BloomPosts()) != 0 {
		t.Error("bloom post visible after failed persist")
	}
	if _, ok := s.TodayEntry(); ok {
		t.Error("entry visible after failed persist")
	}
}
