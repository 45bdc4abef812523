package dashboard

// Location describes where an item physically lives in the document.
type Location struct {
	Item      *Item
	Container *[]Item // owning list: a section's items or a folder's items
	Index     int
	SectionID string
	Depth     int // 0 for section-level items
}

// Find locates an item by id. The search is depth-first and pre-order
// across sections in order, descending into a folder before its next
// sibling. Pointers in the returned Location are invalidated by any
// structural change to the document.
func (d *Document) Find(id string) (Location, bool) {
	return d.find(func(it *Item) bool { return it.ID == id })
}

// FindFolder is Find restricted to folder items.
func (d *Document) FindFolder(id string) (Location, bool) {
	return d.find(func(it *Item) bool { return it.ID == id && it.IsFolder() })
}

// FindContainer returns the list that owns the item and its index there.
func (d *Document) FindContainer(id string) (*[]Item, int, bool) {
	loc, ok := d.Find(id)
	if !ok {
		return nil, -1, false
	}
	return loc.Container, loc.Index, true
}

// Contains reports whether any item carries the id.
func (d *Document) Contains(id string) bool {
	_, ok := d.Find(id)
	return ok
}

func (d *Document) find(match func(*Item) bool) (Location, bool) {
	for si := range d.Sections {
		s := &d.Sections[si]
		if loc, ok := findIn(&s.Items, match, s.ID, 0); ok {
			return loc, true
		}
	}
	return Location{}, false
}

func findIn(items *[]Item, match func(*Item) bool, sectionID string, depth int) (Location, bool) {
	for i := range *items {
		it := &(*items)[i]
		if match(it) {
			return Location{Item: it, Container: items, Index: i, SectionID: sectionID, Depth: depth}, true
		}
		if it.IsFolder() {
			if loc, ok := findIn(&it.Items, match, sectionID, depth+1); ok {
				return loc, true
			}
		}
	}
	return Location{}, false
}

// Walk visits every item in search order. Returning false from fn stops
// the walk.
func (d *Document) Walk(fn func(it *Item, depth int) bool) {
	var walk func(items []Item, depth int) bool
	walk = func(items []Item, depth int) bool {
		for i := range items {
			if !fn(&items[i], depth) {
				return false
			}
			if items[i].IsFolder() && !walk(items[i].Items, depth+1) {
				return false
			}
		}
		return true
	}
	for si := range d.Sections {
		if !walk(d.Sections[si].Items, 0) {
			return
		}
	}
}

// IDs returns every item id in search order.
func (d *Document) IDs() []string {
	var ids []string
	d.Walk(func(it *Item, _ int) bool {
		ids = append(ids, it.ID)
		return true
	})
	return ids
}
