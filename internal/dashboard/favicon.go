package dashboard

import "net/url"

const faviconService = "https://www.google.com/s2/favicons"

// FaviconURL derives the icon url shown for a link. It returns "" when the
// link has no usable host.
func FaviconURL(link string) string {
	if link == "" {
		return ""
	}
	u, err := url.Parse(link)
	if err != nil || u.Hostname() == "" {
		return ""
	}
	q := url.Values{}
	q.Set("domain", u.Hostname())
	q.Set("sz", "128")
	return faviconService + "?" + q.Encode()
}
