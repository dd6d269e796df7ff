package shortener

import (
	"errors"
	"net/url"
	"strings"
)

var ErrInvalidURL = errors.New("invalid url")

// NormalizeURL validates a user-supplied URL and returns it in canonical form.
//   - Defaults the scheme to https when none is given
//   - Lowercases the scheme and host
//   - Removes default ports (80 for http, 443 for https)
//   - Removes the fragment
func NormalizeURL(rawURL string) (string, error) {
	rawURL = strings.TrimSpace(rawURL)
	if rawURL == "" {
		return "", ErrInvalidURL
	}

	if !strings.Contains(rawURL, "://") {
		rawURL = "https://" + rawURL
	}

	u, err := url.Parse(rawURL)
	if err != nil {
		return "", ErrInvalidURL
	}

	u.Scheme = strings.ToLower(u.Scheme)
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", ErrInvalidURL
	}

	u.Host = strings.ToLower(u.Host)
	if u.Hostname() == "" {
		return "", ErrInvalidURL
	}

	host := u.Host
	if strings.HasSuffix(host, ":80") && u.Scheme == "http" {
		u.Host = strings.TrimSuffix(host, ":80")
	} else if strings.HasSuffix(host, ":443") && u.Scheme == "https" {
		u.Host = strings.TrimSuffix(host, ":443")
	}

	u.Fragment = ""

	return u.String(), nil
}
