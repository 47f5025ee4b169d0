package enums

import "fmt"

// ActivityAction labels an entry in the user activity log.
type ActivityAction string

const (
	ActivityActionLogin         ActivityAction = "login"
	ActivityActionLogout        ActivityAction = "logout"
	ActivityActionUpdateProfile ActivityAction = "update_profile"
	ActivityActionPurchase      ActivityAction = "purchase"
)

var validActivityActions = []ActivityAction{
	ActivityActionLogin,
	ActivityActionLogout,
	ActivityActionUpdateProfile,
	ActivityActionPurchase,
}

// String implements fmt.Stringer.
func (a ActivityAction) String() string {
	return string(a)
}

// IsValid reports whether the value is a known ActivityAction.
func (a ActivityAction) IsValid() bool {
	for _, candidate := range validActivityActions {
		if candidate == a {
			return true
		}
	}
	return false
}

// ParseActivityAction converts raw input into an ActivityAction.
func ParseActivityAction(value string) (ActivityAction, error) {
	for _, candidate := range validActivityActions {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid activity action %q", value)
}
