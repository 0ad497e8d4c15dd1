package validation

import (
	"errors"
	"regexp"
	"strings"
)

// Usernames that would collide with routes, confuse support, or impersonate
// the platform. Checked case-insensitively.
var reservedUsernames = map[string]struct{}{
	"admin": {}, "administrator": {}, "root": {}, "api": {}, "www": {}, "mail": {}, "email": {},
	"support": {}, "help": {}, "info": {}, "contact": {}, "about": {}, "terms": {}, "privacy": {},
	"login": {}, "register": {}, "signup": {}, "signin": {}, "logout": {}, "dashboard": {},
	"profile": {}, "user": {}, "users": {}, "account": {}, "settings": {}, "config": {},
	"lumalink": {}, "official": {}, "staff": {}, "moderator": {},
	"null": {}, "undefined": {}, "true": {}, "false": {}, "test": {}, "demo": {},
}

var (
	usernameCharset    = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)
	usernameAlnumEdge  = regexp.MustCompile(`^[a-zA-Z0-9].*[a-zA-Z0-9]$|^[a-zA-Z0-9]$`)
	usernameDoubleSeps = regexp.MustCompile(`[_-]{2,}`)
)

var ErrUsernameReserved = errors.New("this username is not available")

// ValidateUsername applies the username rules: not reserved, 3-30 chars,
// letters/digits/underscore/hyphen only, alphanumeric at both ends, and no
// consecutive separators. Returns nil when the username is acceptable.
func ValidateUsername(username string) error {
	if username == "" {
		return errors.New("username is required")
	}
	if _, ok := reservedUsernames[strings.ToLower(username)]; ok {
		return ErrUsernameReserved
	}
	if len(username) < 3 {
		return errors.New("username must be at least 3 characters long")
	}
	if len(username) > 30 {
		return errors.New("username must be 30 characters or less")
	}
	if !usernameCharset.MatchString(username) {
		return errors.New("username can only contain letters, numbers, underscores, and hyphens")
	}
	if !usernameAlnumEdge.MatchString(username) {
		return errors.New("username must start and end with a letter or number")
	}
	if usernameDoubleSeps.MatchString(username) {
		return errors.New("username cannot have consecutive underscores or hyphens")
	}
	return nil
}
