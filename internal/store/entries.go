package store

import (
	"context"
	"fmt"

	"github.com/bloomapp/bloom-core/internal/dates"
	"github.com/bloomapp/bloom-core/internal/models"
	"github.com/bloomapp/bloom-core/internal/storage"
)

// TodayEntry returns today's daily entry, if one exists.
func (s *Store) TodayEntry() (models.DailyEntry, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	today := dates.Day(s.now())
	for _, e := range s.dailyEntries {
		if e.Date == today {
			return e, true
		}
	}
	return models.DailyEntry{}, false
}

// DailyEntries returns a snapshot of all daily entries for the archive.
func (s *Store) DailyEntries() []models.DailyEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.DailyEntry, len(s.dailyEntries))
	copy(out, s.dailyEntries)
	return out
}

// UpdateTodayMood upserts today's entry with the given mood.
func (s *Store) UpdateTodayMood(ctx context.Context, mood models.Mood) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.validate.Validate(models.UpdateMoodRequest{Mood: string(mood)}); err != nil {
		return err
	}
	return s.upsertToday(ctx, func(e *models.DailyEntry) { e.Mood = mood })
}

// UpdateTodayGratitude upserts today's entry with the given gratitude text.
// Empty text clears the reflection, which is the only delete the entry
// model supports.
func (s *Store) UpdateTodayGratitude(ctx context.Context, gratitude string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	text := s.validate.Sanitize(gratitude)
	if err := s.validate.Validate(models.UpdateGratitudeRequest{Gratitude: text}); err != nil {
		return err
	}
	return s.upsertToday(ctx, func(e *models.DailyEntry) { e.Gratitude = text })
}

// upsertToday applies change to today's entry, appending one if today has
// none yet. At most one entry ever exists per date. Caller holds the lock.
func (s *Store) upsertToday(ctx context.Context, change func(*models.DailyEntry)) error {
	today := dates.Day(s.now())

	updated := make([]models.DailyEntry, len(s.dailyEntries))
	copy(updated, s.dailyEntries)

	found := false
	for i := range updated {
		if updated[i].Date == today {
			change(&updated[i])
			found = true
			break
		}
	}
	if !found {
		entry := models.DailyEntry{Date: today}
		change(&entry)
		updated = append(updated, entry)
	}

	if err := s.persistJSON(ctx, storage.KeyDailyEntries, updated); err != nil {
		return err
	}
	s.dailyEntries = updated
	return nil
}

// Profile returns a copy of the owner's profile.
func (s *Store) Profile() models.UserProfile {
	s.mu.Lock()
	defer s.mu.Unlock()
	p := *s.profile
	p.Following = append([]string{}, s.profile.Following...)
	p.Followers = append([]string{}, s.profile.Followers...)
	return p
}

// UserName returns the display name shown in greetings.
func (s *Store) UserName() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.userName
}

// SetUserName persists a new display name.
func (s *Store) SetUserName(ctx context.Context, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	name = s.validate.Sanitize(name)
	if name == "" {
		return fmt.Errorf("display name must not be empty")
	}
	if err := s.storage.Set(ctx, storage.KeyUserName, name); err != nil {
		return fmt.Errorf("failed to persist display name: %w", err)
	}
	s.userName = name
	return nil
}

// FollowUser adds userID to the follow list and persists the profile.
// Following an already-followed user is a no-op.
func (s *Store) FollowUser(ctx context.Context, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.profile.IsFollowing(userID) {
		return nil
	}
	updated := *s.profile
	updated.Following = append(append([]string{}, s.profile.Following...), userID)

	if err := s.persistJSON(ctx, storage.KeyUserProfile, updated); err != nil {
		return err
	}
	s.profile = &updated
	return nil
}

// UnfollowUser removes userID from the follow list and persists the profile.
func (s *Store) UnfollowUser(ctx context.Context, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	updated := *s.profile
	updated.Following = make([]string, 0, len(s.profile.Following))
	for _, id := range s.profile.Following {
		if id != userID {
			updated.Following = append(updated.Following, id)
		}
	}
	if len(updated.Following) == len(s.profile.Following) {
		return nil
	}

	if err := s.persistJSON(ctx, storage.KeyUserProfile, updated); err != nil {
		return err
	}
	s.profile = &updated
	return nil
}
