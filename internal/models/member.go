package models

// UnknownEmail is shown for members that resolve neither through the user
// directory nor through the list's email map.
const UnknownEmail = "Email not available"

// Member is the display projection of a list member. It is not stored;
// it is resolved from the user directory, then List.MemberEmails, then a placeholder.
type Member struct {
	ID          string
	Email       string
	DisplayName string
	PhotoURL    string
	IsOwner     bool
}
