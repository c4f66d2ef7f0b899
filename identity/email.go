package identity

import "strings"

var educationalSuffixes = []string{".edu", ".ac.kr", ".edu.kr"}

// IsEducationalEmail reports whether email belongs to a university domain.
// The gateway itself does not enforce this; callers check it before
// registering or authenticating.
func IsEducationalEmail(email string) bool {
	for _, suffix := range educationalSuffixes {
		if strings.HasSuffix(email, suffix) {
			return true
		}
	}

	return false
}
