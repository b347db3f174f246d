package service

// Status values are part of the wire contract; clients match on the exact
// strings, so they must never change.
type Status string

const (
	StatusSuccess                   Status = "SUCCESS"
	StatusInvalidInput              Status = "INVALID_INPUT"
	StatusUserAlreadyExists         Status = "USER_ALREADY_EXISTS"
	StatusSuccessfulAuthentication  Status = "SUCCESSFUL_AUTHENTICATION"
	StatusInvalidUsernameOrPassword Status = "INVALID_USERNAME_OR_PASSWORD"
	StatusSessionAuthenticated      Status = "SESSION_AUTHENTICATED"
	StatusInvalidSession            Status = "INVALID_SESSION"
	StatusLoggedOut                 Status = "LOGGED_OUT"
	StatusUserUpdated               Status = "USER_UPDATED"
)

// OK reports whether the status describes a successful outcome.
func (s Status) OK() bool {
	switch s {
	case StatusSuccess, StatusSuccessfulAuthentication, StatusSessionAuthenticated,
		StatusLoggedOut, StatusUserUpdated:
		return true
	default:
		return false
	}
}
