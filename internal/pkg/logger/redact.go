package logger

import "strings"

// RedactEmail masks the local part of an email address for logging, keeping
// the first two characters and the full domain: "jo***@example.com".
// Non-address strings are returned unchanged.
func RedactEmail(email string) string {
	at := strings.LastIndex(email, "@")
	if at <= 0 {
		return email
	}
	local, domain := email[:at], email[at+1:]
	if len(local) <= 2 {
		return local[:1] + "***@" + domain
	}
	return local[:2] + "***@" + domain
}

// RedactEmails masks each address in a slice. The result is a new slice.
func RedactEmails(emails []string) []string {
	out := make([]string, len(emails))
	for i, e := range emails {
		out[i] = RedactEmail(e)
	}
	return out
}
