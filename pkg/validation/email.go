package validation

import "regexp"

// emailPattern accepts "local@domain.tld" where no part contains whitespace or '@'.
var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// InvalidEmailMessage is shown to users when an address fails IsValidEmail.
const InvalidEmailMessage = "Please enter a valid email address"

// IsValidEmail reports whether s looks like an email address. It never fails.
func IsValidEmail(s string) bool {
	return emailPattern.MatchString(s)
}
