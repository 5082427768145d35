package telegram

// Channel identifies a resolved channel or group
type Channel struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Title    string `json:"title"`
}

// RawMember is a participant record as returned by the search primitive,
// before normalization into the canonical member model. Nil text fields
// mean the platform did not expose the value.
type RawMember struct {
	ID         int64   `json:"id"`
	Username   *string `json:"username"`
	FirstName  *string `json:"first_name"`
	LastName   *string `json:"last_name"`
	Phone      *string `json:"phone"`
	IsPremium  bool    `json:"is_premium"`
	LastOnline int64   `json:"last_online"`
}
