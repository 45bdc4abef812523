package dashboard

// ItemType categorizes the nodes of the dashboard tree.
type ItemType string

const (
	TypeLink   ItemType = "link"
	TypeAction ItemType = "action"
	TypeFolder ItemType = "folder"
)

// Action names a built-in affordance carried by an action item.
type Action string

const (
	ActionClearData  Action = "clear-data"
	ActionAddCurrent Action = "add-current"
)

const (
	// FavoritesID is the id of the section that receives saved and moved items.
	FavoritesID = "favorites"

	// TargetRoot and TargetFavorites are the move-target aliases for Favorites.
	TargetRoot      = "root"
	TargetFavorites = "favorites"

	DefaultFolderTitle = "New Folder"
	DefaultPageTitle   = "New Page"
)

// Item is a node in the tree: a link, an action or a folder.
type Item struct {
	ID        string   `json:"id" yaml:"id"`
	Title     string   `json:"title" yaml:"title"`
	Type      ItemType `json:"type" yaml:"type"`
	URL       string   `json:"url,omitempty" yaml:"url,omitempty"`
	Action    Action   `json:"action,omitempty" yaml:"action,omitempty"`
	IconType  string   `json:"iconType,omitempty" yaml:"iconType,omitempty"`
	IconValue string   `json:"iconValue,omitempty" yaml:"iconValue,omitempty"`
	Items     []Item   `json:"items,omitempty" yaml:"items,omitempty"`
}

// Section is a named, independently hideable top-level group.
type Section struct {
	ID     string `json:"id" yaml:"id"`
	Title  string `json:"title" yaml:"title"`
	Hidden bool   `json:"hidden,omitempty" yaml:"hidden,omitempty"`
	Items  []Item `json:"items" yaml:"items"`
}

// Document is the whole persisted state.
type Document struct {
	Sections []Section `json:"sections" yaml:"sections"`
}

func (it Item) IsFolder() bool { return it.Type == TypeFolder }
func (it Item) IsAction() bool { return it.Type == TypeAction }

// Clone returns a deep copy of the item and its children.
func (it Item) Clone() Item {
	out := it
	if it.Items != nil {
		out.Items = cloneItems(it.Items)
	}
	return out
}

func cloneItems(items []Item) []Item {
	out := make([]Item, len(items))
	for i := range items {
		out[i] = items[i].Clone()
	}
	return out
}

// Clone returns a deep copy of the document.
func (d Document) Clone() Document {
	out := Document{Sections: make([]Section, len(d.Sections))}
	for i, s := range d.Sections {
		s.Items = cloneItems(s.Items)
		out.Sections[i] = s
	}
	return out
}

// Section returns the section with the given id.
func (d *Document) Section(id string) (*Section, bool) {
	for i := range d.Sections {
		if d.Sections[i].ID == id {
			return &d.Sections[i], true
		}
	}
	return nil, false
}

// VisibleSections returns the sections that are not hidden, in order.
func (d Document) VisibleSections() []Section {
	out := make([]Section, 0, len(d.Sections))
	for _, s := range d.Sections {
		if !s.Hidden {
			out = append(out, s)
		}
	}
	return out
}

// Default returns the seed document used when nothing has been stored yet.
func Default() Document {
	return Document{Sections: []Section{
		{
			ID:    FavoritesID,
			Title: "Favorites",
			Items: []Item{
				{ID: "google", Title: "Google", URL: "https://google.com", Type: TypeLink},
				{ID: "youtube", Title: "YouTube", URL: "https://youtube.com", Type: TypeLink},
				{
					ID:    "tech-folder",
					Title: "Tech & News",
					Type:  TypeFolder,
					Items: []Item{
						{ID: "verge", Title: "The Verge", URL: "https://theverge.com", Type: TypeLink},
						{ID: "techcrunch", Title: "TechCrunch", URL: "https://techcrunch.com", Type: TypeLink},
						{ID: "wired", Title: "Wired", URL: "https://wired.com", Type: TypeLink},
						{ID: "ycombinator", Title: "Y Combinator", URL: "https://news.ycombinator.com", Type: TypeLink},
					},
				},
				{ID: "github", Title: "GitHub", URL: "https://github.com", Type: TypeLink},
				{ID: "add-btn", Title: "Add Page", Type: TypeAction, Action: ActionAddCurrent, IconType: "lucide", IconValue: "plus"},
			},
		},
		{
			ID:    "social",
			Title: "Social",
			Items: []Item{
				{ID: "twitter", Title: "X / Twitter", URL: "https://twitter.com", Type: TypeLink},
				{ID: "reddit", Title: "Reddit", URL: "https://reddit.com", Type: TypeLink},
				{ID: "linkedin", Title: "LinkedIn", URL: "https://linkedin.com", Type: TypeLink},
			},
		},
		{
			ID:    "privacy",
			Title: "Privacy & Tools",
			Items: []Item{
				{ID: "clear-data", Title: "Clear Data (24h)", Type: TypeAction, Action: ActionClearData, IconType: "lucide", IconValue: "trash"},
			},
		},
	}}
}

// Normalize replaces nil section item lists with empty ones so the
// document always encodes "items": [].
func (d *Document) Normalize() {
	for i := range d.Sections {
		if d.Sections[i].Items == nil {
			d.Sections[i].Items = []Item{}
		}
	}
}
