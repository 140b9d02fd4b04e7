package models

// ReactionKind identifies one of the supported feed reactions
type ReactionKind string

const (
	ReactionGrowth   ReactionKind = "growth"
	ReactionApplause ReactionKind = "applause"
	ReactionLove     ReactionKind = "love"
)

// ReactionKinds lists every supported kind in display order.
var ReactionKinds = []ReactionKind{ReactionGrowth, ReactionApplause, ReactionLove}

// Reactions maps each reaction kind to the IDs of users who reacted with it.
// A user appears at most once per kind.
type Reactions map[ReactionKind][]string

// NewReactions returns a reaction map with every kind present and empty.
func NewReactions() Reactions {
	r := make(Reactions, len(ReactionKinds))
	for _, kind := range ReactionKinds {
		r[kind] = []string{}
	}
	return r
}

// Has reports whether userID already reacted with the given kind.
func (r Reactions) Has(kind ReactionKind, userID string) bool {
	for _, id := range r[kind] {
		if id == userID {
			return true
		}
	}
	return false
}

// Add records a reaction. It returns false if the user already reacted with
// this kind, keeping the at-most-one-per-user-per-kind invariant.
func (r Reactions) Add(kind ReactionKind, userID string) bool {
	if r.Has(kind, userID) {
		return false
	}
	r[kind] = append(r[kind], userID)
	return true
}

// Remove withdraws a reaction. It returns false if the user had not reacted.
func (r Reactions) Remove(kind ReactionKind, userID string) bool {
	ids := r[kind]
	for i, id := range ids {
		if id == userID {
			r[kind] = append(ids[:i:i], ids[i+1:]...)
			return true
		}
	}
	return false
}

// Count returns the number of reactions of the given kind.
func (r Reactions) Count(kind ReactionKind) int {
	return len(r[kind])
}

// ValidReactionKind reports whether s names a supported reaction kind.
func ValidReactionKind(s string) bool {
	switch ReactionKind(s) {
	case ReactionGrowth, ReactionApplause, ReactionLove:
		return true
	}
	return false
}
