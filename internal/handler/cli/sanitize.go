package cli

import "regexp"

var (
	// password inside a URL DSN
	urlPasswordPattern = regexp.MustCompile(`://([^:/@]+):([^@]+)@`)
	// password in a keyword/value DSN
	kvPasswordPattern = regexp.MustCompile(`(password\s*=\s*)('[^']*'|\S+)`)
)

// SanitizeError returns the error text with connection passwords masked.
func SanitizeError(err error) string {
	if err == nil {
		return ""
	}
	msg := urlPasswordPattern.ReplaceAllString(err.Error(), "://$1:****@")
	return kvPasswordPattern.ReplaceAllString(msg, "${1}****")
}
