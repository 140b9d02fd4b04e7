// Package text holds the small display helpers shared by feed and
// archive rendering.
package text

import "github.com/bloomapp/bloom-core/internal/models"

// DefaultTruncateLength is where feed cards cut long content.
const DefaultTruncateLength = 150

// Truncate shortens text to maxLength runes with a "See more" tail.
func Truncate(s string, maxLength int) string {
	if maxLength <= 0 {
		maxLength = DefaultTruncateLength
	}
	runes := []rune(s)
	if len(runes) <= maxLength {
		return s
	}
	return string(runes[:maxLength]) + "... See more"
}

// MoodEmoji returns the emoji shown next to a mood check-in.
func MoodEmoji(mood models.Mood) string {
	switch mood {
	case models.MoodGreat:
		return "😄"
	case models.MoodGood:
		return "🙂"
	case models.MoodOkay:
		return "😐"
	case models.MoodStruggling:
		return "😣"
	}
	return "💭"
}

// TypeIcon returns the emoji marking a post variant in the feed.
func TypeIcon(t models.PostType) string {
	switch t {
	case models.PostTypeBloom:
		return "🌸"
	case models.PostTypePrune:
		return "✂️"
	case models.PostTypeReflection:
		return "🌼"
	}
	return "🌱"
}

// TypeBadge returns the label for a post variant.
func TypeBadge(t models.PostType) string {
	switch t {
	case models.PostTypeBloom:
		return "Bloom"
	case models.PostTypePrune:
		return "Prune"
	case models.PostTypeReflection:
		return "Reflection"
	}
	return "Post"
}
