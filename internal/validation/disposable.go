package validation

import "strings"

var disposableDomains = []string{
	"tempmail.com",
	"10minutemail.com",
	"mailinator.com",
	"guerrillamail.com",
	"trashmail.com",
	"temp-mail.org",
	"yopmail.com",
	"getnada.com",
	"fakeinbox.com",
}

// IsDisposableEmail reports whether the address belongs to a throwaway mail provider,
// including any subdomain of one. An address without a domain part is treated as disposable.
func IsDisposableEmail(email string) bool {
	at := strings.LastIndex(email, "@")
	if at < 0 || at == len(email)-1 {
		return true
	}
	domain := strings.ToLower(strings.TrimSpace(email[at+1:]))
	for _, d := range disposableDomains {
		if domain == d || strings.HasSuffix(domain, "."+d) {
			return true
		}
	}
	return false
}
