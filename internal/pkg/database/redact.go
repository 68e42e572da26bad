package database

import "net/url"

// RedactKey hides the password of a DSN-shaped store key for logging.
func RedactKey(key string) string {
	u, err := url.Parse(key)
	if err != nil || u.User == nil {
		return key
	}
	if _, ok := u.User.Password(); ok {
		u.User = url.UserPassword(u.User.Username(), "xxxxx")
	}
	return u.String()
}
