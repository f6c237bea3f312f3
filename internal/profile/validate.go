package profile

import (
	"fmt"
	"regexp"
)

// User identifiers double as directory names, so restrict them to the safe
// subset of email characters. Identifiers are case-sensitive opaque strings;
// no normalization happens here.
var userRegexp = regexp.MustCompile(`^[A-Za-z0-9@._+-]{1,128}$`)

// ValidateUser checks that user is usable as a profile name.
func ValidateUser(user string) error {
	if !userRegexp.MatchString(user) {
		return fmt.Errorf("invalid user %q: must match ^[A-Za-z0-9@._+-]{1,128}$", user)
	}
	return nil
}
