package models

// PostType discriminates the post variants sharing the feed rendering path
type PostType string

const (
	PostTypeBloom      PostType = "bloom"
	PostTypePrune      PostType = "prune"
	PostTypeReflection PostType = "reflection"
)

// Severity grades how hard a pruned habit is to drop
type Severity string

const (
	SeverityLow    Severity = "Low"
	SeverityMedium Severity = "Medium"
	SeverityHigh   Severity = "High"
)

// CompostValue returns the compost points earned for pruning a habit of this severity.
func (s Severity) CompostValue() int {
	switch s {
	case SeverityHigh:
		return 3
	case SeverityMedium:
		return 2
	case SeverityLow:
		return 1
	}
	return 0
}

// Visibility controls who can see a shared post
type Visibility string

const (
	VisibilityFriends Visibility = "friends"
	VisibilityPublic  Visibility = "public"
	VisibilityPrivate Visibility = "private"
)

// BloomPost is a shared habit-win update
type BloomPost struct {
	ID         string     `json:"id"`
	UserID     string     `json:"userId"`
	Type       PostType   `json:"type"` // always PostTypeBloom
	Caption    string     `json:"caption"`
	PhotoURL   string     `json:"photoUrl,omitempty"`
	Date       string     `json:"date"` // YYYY-MM-DD in local time at creation
	Timestamp  int64      `json:"timestamp"`
	Reactions  Reactions  `json:"reactions"`
	Visibility Visibility `json:"visibility"`
	UserName   string     `json:"userName,omitempty"`
	UserAvatar string     `json:"userAvatar,omitempty"`
}

// PrunePost is a shared habit the user is deliberately dropping
type PrunePost struct {
	ID           string     `json:"id"`
	UserID       string     `json:"userId"`
	Type         PostType   `json:"type"` // always PostTypePrune
	HabitName    string     `json:"habitName"`
	WhyItMatters string     `json:"whyItMatters"`
	Strategy     string     `json:"strategy,omitempty"`
	Severity     Severity   `json:"severity"`
	Date         string     `json:"date"`
	Timestamp    int64      `json:"timestamp"`
	Visibility   Visibility `json:"visibility"`
	UserName     string     `json:"userName,omitempty"`
	UserAvatar   string     `json:"userAvatar,omitempty"`
}

// FeedPost is the merged view rendered in the friends feed, regardless of variant
type FeedPost struct {
	ID         string    `json:"id"`
	UserID     string    `json:"userId"`
	UserName   string    `json:"userName"`
	UserAvatar string    `json:"userAvatar,omitempty"`
	Type       PostType  `json:"type"`
	Content    string    `json:"content"`
	PhotoURL   string    `json:"photoUrl,omitempty"`
	Timestamp  int64     `json:"timestamp"`
	Reactions  Reactions `json:"reactions"`
}

// CreateBloomPostRequest defines the input for sharing a bloom
type CreateBloomPostRequest struct {
	Caption  string `json:"caption" validate:"required,min=1,max=280"`
	PhotoURL string `json:"photoUrl,omitempty" validate:"omitempty,url"`
}

// CreatePrunePostRequest defines the input for sharing a prune
type CreatePrunePostRequest struct {
	HabitName    string `json:"habitName" validate:"required,min=1,max=100"`
	WhyItMatters string `json:"whyItMatters" validate:"required,min=1,max=280"`
	Strategy     string `json:"strategy,omitempty" validate:"omitempty,max=200"`
	Severity     string `json:"severity" validate:"required,oneof=Low Medium High"`
}

// CreatePostRequest defines the request body sent to the remote feed endpoint
type CreatePostRequest struct {
	Type       string `json:"type" validate:"required,oneof=bloom prune reflection"`
	Content    string `json:"content" validate:"required,min=1,max=280"`
	PhotoURL   string `json:"photoUrl,omitempty" validate:"omitempty,url"`
	Visibility string `json:"visibility,omitempty" validate:"omitempty,oneof=friends public private"`
}
