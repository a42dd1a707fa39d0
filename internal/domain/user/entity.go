package user

import "github.com/google/uuid"

// User represents a user profile together with its follow edges.
type User struct {
	ID        uuid.UUID   `json:"id"`        // ID is the unique identifier for the user
	Email     string      `json:"email"`     // Email is the unique email address of the user
	Username  string      `json:"username"`  // Username is the unique login handle
	Name      string      `json:"name"`      // Name is the display name
	Location  string      `json:"location"`  // Location is an ISO 3166-1 alpha-3 code, empty when unset
	Blocked   bool        `json:"blocked"`   // Blocked hides the profile from direct lookups
	Interests []Interest  `json:"interests"` // Interests is the set of interest tags
	Goals     []string    `json:"goals"`     // Goals is the ordered list of free-text goals
	Followers []uuid.UUID `json:"followers"` // Followers are the users following this user
	Followeds []uuid.UUID `json:"followeds"` // Followeds are the users this user follows
	Twitsnaps []uuid.UUID `json:"twitsnaps"` // Twitsnaps references content owned by another service
}

// Summary is the reduced view returned by recommendations and used for ranking.
type Summary struct {
	ID       uuid.UUID `json:"id"`
	Username string    `json:"username"`
	Name     string    `json:"name"`
}

// Summary returns the reduced view of u.
func (u *User) Summary() Summary {
	return Summary{ID: u.ID, Username: u.Username, Name: u.Name}
}

// NewUser holds the attributes supplied at signup.
type NewUser struct {
	Email    string
	Username string
	Name     string
	Location string
}

// Admin is an administrator account. Admins live in their own namespace.
type Admin struct {
	ID    uuid.UUID `json:"id"`
	Email string    `json:"email"`
}
