package dashboard

import "testing"

func TestFaviconURL(t *testing.T) {
	tests := []struct {
		link string
		want string
	}{
		{"https://github.com", "https://www.google.com/s2/favicons?domain=github.com&sz=128"},
		{"https://news.ycombinator.com/item?id=1", "https://www.google.com/s2/favicons?domain=news.ycombinator.com&sz=128"},
		{"http://localhost:8080/x", "https://www.google.com/s2/favicons?domain=localhost&sz=128"},
		{"", ""},
		{"not a url", ""},
		{"about:blank", ""},
	}
	for _, tt := range tests {
		if got := FaviconURL(tt.link); got != tt.want {
			t.Errorf("FaviconURL(%q): expected %q, got %q", tt.link, tt.want, got)
		}
	}
}
