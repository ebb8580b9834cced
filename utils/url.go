package utils

import "net/url"

// ToAbsoluteURL resolves href against base, so relative listing links and
// their absolute forms collapse to one canonical URL.
func ToAbsoluteURL(base *url.URL, href string) (string, error) {
	ref, err := url.Parse(href)
	if err != nil {
		return "", err
	}
	return base.ResolveReference(ref).String(), nil
}
