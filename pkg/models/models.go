package models

// Member is the canonical record for a single channel member.
//
// The four text fields are pointers because the platform distinguishes
// "absent" from "empty": a nil pointer means the member never exposed the
// field, and it must stay nil through export and across the C boundary.
type Member struct {
	ID         int64   `json:"id"`
	Username   *string `json:"username"`
	FirstName  *string `json:"first_name"`
	LastName   *string `json:"last_name"`
	Phone      *string `json:"phone"`
	IsPremium  bool    `json:"is_premium"`
	LastOnline int64   `json:"last_online"`
	SourceChan string  `json:"source_group"`
}

// Task describes one enumeration run. Immutable once submitted.
type Task struct {
	Target     string
	MaxMembers int
	Patterns   []string
}

// DefaultPatterns is the prefix sweep order used when a task does not
// supply its own: the empty prefix first, then the most common letters.
var DefaultPatterns = []string{"", "a", "e", "i", "o", "u", "s", "t", "n", "r"}

// StringPtr returns a pointer to s. Convenience for building optional fields.
func StringPtr(s string) *string {
	return &s
}

// Deref returns the value of p, or the empty string when p is nil.
// CSV export and log fields render absent optionals this way.
func Deref(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}
