package models

// Mood is the self-reported check-in value for one day
type Mood string

const (
	MoodGreat      Mood = "great"
	MoodGood       Mood = "good"
	MoodOkay       Mood = "okay"
	MoodStruggling Mood = "struggling"
)

// ValidMood reports whether s names a supported mood.
func ValidMood(s string) bool {
	switch Mood(s) {
	case MoodGreat, MoodGood, MoodOkay, MoodStruggling:
		return true
	}
	return false
}

// DailyEntry holds one calendar day's mood and gratitude reflection.
// At most one entry exists per date; updates upsert in place.
type DailyEntry struct {
	Date      string `json:"date"` // YYYY-MM-DD, unique key
	Mood      Mood   `json:"mood,omitempty"`
	Gratitude string `json:"gratitude,omitempty"`
}

// UpdateMoodRequest defines the input for a mood check-in
type UpdateMoodRequest struct {
	Mood string `json:"mood" validate:"required,oneof=great good okay struggling"`
}

// UpdateGratitudeRequest defines the input for a gratitude reflection
type UpdateGratitudeRequest struct {
	Gratitude string `json:"gratitude" validate:"max=500"`
}
