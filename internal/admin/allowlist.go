package admin

// Allowed reports whether email is on the operator-configured allow-list.
// The match is exact, same as every other principal comparison in this
// service; the decision is a pure function of its two arguments.
func Allowed(email string, allowlist []string) bool {
	if email == "" {
		return false
	}
	for _, a := range allowlist {
		if a == email {
			return true
		}
	}
	return false
}
