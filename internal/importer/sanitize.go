package importer

import (
	"strings"
	"unicode/utf8"

	"github.com/dgallion1/startpage/internal/dashboard"
)

// sanitize infers missing types, trims titles and drops what cannot be
// imported: actions, links with unusable urls and folders left empty.
func sanitize(items []dashboard.Item) []dashboard.Item {
	out := make([]dashboard.Item, 0, len(items))
	for _, it := range items {
		if it.Type == "" {
			if it.URL != "" {
				it.Type = dashboard.TypeLink
			} else if len(it.Items) > 0 {
				it.Type = dashboard.TypeFolder
			}
		}
		it.ID = strings.TrimSpace(it.ID)
		it.Title = clampTitle(it.Title)

		switch it.Type {
		case dashboard.TypeLink:
			it.URL = strings.TrimSpace(it.URL)
			if dashboard.ValidateURL(it.URL) != nil {
				continue
			}
			if it.Title == "" {
				it.Title = clampTitle(it.URL)
			}
			it.Items = nil
		case dashboard.TypeFolder:
			it.Items = sanitize(it.Items)
			if len(it.Items) == 0 {
				continue
			}
			if it.Title == "" {
				it.Title = dashboard.DefaultFolderTitle
			}
			it.URL = ""
		default:
			continue
		}
		it.Action = ""
		out = append(out, it)
	}
	return out
}

func clampTitle(s string) string {
	s = strings.Join(strings.Fields(s), " ")
	if utf8.RuneCountInString(s) <= dashboard.MaxTitleLen {
		return s
	}
	return string([]rune(s)[:dashboard.MaxTitleLen])
}
