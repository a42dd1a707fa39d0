package user

// SignUpRequest represents the payload for registering a new user.
// The password is checked for presence only: credentials are held by the
// identity provider, never by this service.
type SignUpRequest struct {
	Email    string `json:"email" validate:"required,email,max=255"`
	Password string `json:"password" validate:"required,min=6,max=128"`
	Username string `json:"username" validate:"required,min=3,max=50"`
	Name     string `json:"name" validate:"required,max=255"`
	Location string `json:"location" validate:"omitempty,iso3166_1_alpha3"`
}

// AdminSignUpRequest represents the payload for registering an administrator.
type AdminSignUpRequest struct {
	Email    string `json:"email" validate:"required,email,max=255"`
	Password string `json:"password" validate:"required,min=6,max=128"`
}

// SetLocationRequest represents the payload for changing a user's location.
type SetLocationRequest struct {
	Location string `json:"location" validate:"required,iso3166_1_alpha3"`
}

// RenameRequest represents the payload for changing a user's display name.
type RenameRequest struct {
	Name string `validate:"required,max=255"`
}

// SearchRequest represents a username search. A zero Limit selects the default.
type SearchRequest struct {
	Query string `validate:"max=100"`
	Limit int    `validate:"min=0"`
}

type interestsRequest struct {
	Interests []string `validate:"dive,oneof=sports games science politics engineering"`
}

type goalsRequest struct {
	Goals []string `validate:"dive,required,max=255"`
}
