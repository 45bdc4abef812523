package dashboard

import (
	"fmt"
	"net/url"
	"strings"
	"unicode/utf8"
)

const MaxTitleLen = 200

var allowedSchemes = map[string]bool{
	"http":   true,
	"https":  true,
	"ftp":    true,
	"file":   true,
	"chrome": true,
	"about":  true,
}

// ValidateItem checks user-supplied content before it enters the tree.
// Action items are never accepted from outside.
func ValidateItem(it Item) error {
	title := strings.TrimSpace(it.Title)
	if title == "" {
		return fmt.Errorf("title is required")
	}
	if utf8.RuneCountInString(title) > MaxTitleLen {
		return fmt.Errorf("title exceeds %d characters", MaxTitleLen)
	}

	switch it.Type {
	case TypeLink:
		return ValidateURL(it.URL)
	case TypeFolder:
		for _, ch := range it.Items {
			if err := ValidateItem(ch); err != nil {
				return fmt.Errorf("folder %q: %w", title, err)
			}
		}
		return nil
	case TypeAction:
		return fmt.Errorf("action items cannot be created")
	default:
		return fmt.Errorf("unknown item type %q", it.Type)
	}
}

// ValidateURL accepts absolute urls with a known scheme.
func ValidateURL(raw string) error {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return fmt.Errorf("url is required")
	}
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("invalid url: %w", err)
	}
	if !allowedSchemes[strings.ToLower(u.Scheme)] {
		return fmt.Errorf("unsupported url scheme %q", u.Scheme)
	}
	if (u.Scheme == "http" || u.Scheme == "https") && u.Host == "" {
		return fmt.Errorf("url has no host")
	}
	return nil
}
