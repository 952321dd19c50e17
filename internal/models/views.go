package models

// ProfileView is the public projection of a user returned from follow
// toggles and profile reads. Following is relative to the requester.
type ProfileView struct {
	Username  string `json:"username"`
	FirstName string `json:"first_name,omitempty"`
	LastName  string `json:"last_name,omitempty"`
	Bio       string `json:"bio"`
	Following bool   `json:"following"`
}

// ProfileViewOf builds a ProfileView for the target user as seen by a
// requester with the given follow state.
func ProfileViewOf(u *User, following bool) *ProfileView {
	return &ProfileView{
		Username:  u.Username,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Bio:       u.Bio,
		Following: following,
	}
}

// UserSummary is the reduced user projection used in admin listings.
type UserSummary struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Bio      string `json:"bio"`
}

// SummaryOf projects a user onto its summary form.
func SummaryOf(u *User) UserSummary {
	return UserSummary{Username: u.Username, Email: u.Email, Bio: u.Bio}
}
