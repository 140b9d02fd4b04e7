package models

// UserStats counts lifetime blooms and pruned weeds. Counters only ever
// move forward; there is no decrement in the current product scope.
type UserStats struct {
	Blooms int `json:"blooms"`
	Weeds  int `json:"weeds"`
}

// UserProfile is the locally persisted profile of the device owner
type UserProfile struct {
	ID        string   `json:"id"`
	Name      string   `json:"name"`
	Username  string   `json:"username"`
	Email     string   `json:"email,omitempty"`
	Avatar    string   `json:"avatar,omitempty"`
	JoinDate  string   `json:"joinDate"` // RFC 3339
	Following []string `json:"following"`
	Followers []string `json:"followers"`
}

// IsFollowing reports whether the profile already follows userID.
func (p *UserProfile) IsFollowing(userID string) bool {
	for _, id := range p.Following {
		if id == userID {
			return true
		}
	}
	return false
}

// UserSummary is the compact user shape returned by remote search results
type UserSummary struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Username   string `json:"username"`
	Avatar     string `json:"avatar,omitempty"`
	IsFollowed bool   `json:"isFollowed"`
}
