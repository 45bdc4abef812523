package dashboard

import (
	"slices"
	"strings"
)

// The operations below mutate the document in place and report whether
// anything changed. A false result always leaves the document untouched,
// so callers can skip persisting it. Unknown ids and action items are
// silent no-ops.

// ToggleSectionVisibility flips the hidden flag of a section.
func (d *Document) ToggleSectionVisibility(sectionID string) bool {
	s, ok := d.Section(sectionID)
	if !ok {
		return false
	}
	s.Hidden = !s.Hidden
	return true
}

// SaveToFavorites inserts the item into Favorites, immediately before the
// add-current action when there is one. An item is refused when its id,
// or any id inside it, is empty or already taken.
func (d *Document) SaveToFavorites(it Item) bool {
	taken := make(map[string]bool)
	for _, id := range d.IDs() {
		taken[id] = true
	}
	if !claimIDs(it, taken) {
		return false
	}
	if !d.insertIntoFavorites(it) {
		return false
	}
	d.Cleanup()
	return true
}

// DeleteItem removes the item wherever it is and drops folders it leaves
// empty.
func (d *Document) DeleteItem(id string) bool {
	loc, ok := d.Find(id)
	if !ok || loc.Item.IsAction() {
		return false
	}
	d.detach(loc)
	d.Cleanup()
	return true
}

// RenameItem sets a new title in place.
func (d *Document) RenameItem(id, title string) bool {
	loc, ok := d.Find(id)
	if !ok || loc.Item.IsAction() || loc.Item.Title == title {
		return false
	}
	loc.Item.Title = title
	return true
}

// MoveItem moves an item to the end of a folder, or into Favorites when
// target is one of the Favorites aliases. A target that does not resolve
// to a folder once the item has been lifted out falls back to Favorites.
func (d *Document) MoveItem(id, target string) bool {
	loc, ok := d.Find(id)
	if !ok || loc.Item.IsAction() {
		return false
	}

	toFavorites := isFavoritesAlias(target)
	if !toFavorites {
		f, ok := d.FindFolder(target)
		toFavorites = !ok || subtreeContains(*loc.Item, f.Item.ID)
	}
	if toFavorites && !d.hasFavorites() {
		return false
	}

	it := d.detach(loc)
	if toFavorites {
		d.insertIntoFavorites(it)
	} else {
		f, _ := d.FindFolder(target)
		f.Item.Items = append(f.Item.Items, it)
	}
	d.Cleanup()
	return true
}

// ReorderItem moves source to the position target currently occupies. In
// a shared container where source sat before target, the insertion index
// is one less than target's original index, because lifting source out
// shifted target down; source ends up directly before target.
func (d *Document) ReorderItem(sourceID, targetID string) bool {
	if sourceID == targetID {
		return false
	}
	src, ok := d.Find(sourceID)
	if !ok || src.Item.IsAction() {
		return false
	}
	tgt, ok := d.Find(targetID)
	if !ok || tgt.Item.IsAction() {
		return false
	}
	// A target inside the source folder would leave with it.
	if subtreeContains(*src.Item, targetID) {
		return false
	}

	sameContainer := src.Container == tgt.Container
	srcIndex, tgtIndex := src.Index, tgt.Index
	// Source directly before target lands back where it was.
	if sameContainer && srcIndex+1 == tgtIndex {
		return false
	}

	it := d.detach(src)

	// Re-resolve: detaching may have shifted the parent of target's list.
	tgt, _ = d.Find(targetID)
	insertAt := tgt.Index
	if sameContainer {
		insertAt = tgtIndex
		if srcIndex < tgtIndex {
			insertAt--
		}
	}
	*tgt.Container = slices.Insert(*tgt.Container, insertAt, it)
	// Reordering across containers can empty the folder source came from.
	d.Cleanup()
	return true
}

// CreateFolderWithItems lifts source out and replaces target with a new
// folder holding [target, source]. When target cannot be found after the
// source is gone, source is moved to Favorites instead.
func (d *Document) CreateFolderWithItems(sourceID, targetID, folderID string) bool {
	src, ok := d.Find(sourceID)
	if !ok || src.Item.IsAction() {
		return false
	}
	tgt, found := d.Find(targetID)
	if found && tgt.Item.IsAction() {
		return false
	}
	replace := found && !subtreeContains(*src.Item, targetID)
	if !replace && !d.hasFavorites() {
		return false
	}

	it := d.detach(src)
	if replace {
		tgt, _ = d.Find(targetID)
		target := *tgt.Item
		(*tgt.Container)[tgt.Index] = Item{
			ID:    folderID,
			Title: DefaultFolderTitle,
			Type:  TypeFolder,
			Items: []Item{target, it},
		}
	} else {
		d.insertIntoFavorites(it)
	}
	d.Cleanup()
	return true
}

// ImportItems appends items to a section, using the Favorites insertion
// rule when the section is Favorites. Ids that are empty or already taken
// are replaced with newID(prefix). It returns the number of top-level
// items inserted.
func (d *Document) ImportItems(sectionID string, items []Item, newID func(prefix string) string) int {
	s, ok := d.Section(sectionID)
	if !ok {
		return 0
	}
	taken := make(map[string]bool)
	for _, id := range d.IDs() {
		taken[id] = true
	}

	n := 0
	for _, it := range items {
		if it.IsAction() {
			continue
		}
		it = withoutActions(it)
		reassignIDs(&it, taken, newID)
		if it.IsFolder() && len(it.Items) == 0 {
			continue
		}
		if sectionID == FavoritesID {
			s.Items = insertBeforeAddCurrent(s.Items, it)
		} else {
			s.Items = append(s.Items, it)
		}
		n++
	}
	if n > 0 {
		d.Cleanup()
	}
	return n
}

// withoutActions returns a copy of it with nested action items dropped.
func withoutActions(it Item) Item {
	out := it
	if it.Items == nil {
		return out
	}
	out.Items = make([]Item, 0, len(it.Items))
	for _, ch := range it.Items {
		if ch.IsAction() {
			continue
		}
		out.Items = append(out.Items, withoutActions(ch))
	}
	return out
}

// claimIDs marks every id in the subtree as taken, failing on the first
// empty or repeated one.
func claimIDs(it Item, taken map[string]bool) bool {
	if it.ID == "" || taken[it.ID] {
		return false
	}
	taken[it.ID] = true
	for _, ch := range it.Items {
		if !claimIDs(ch, taken) {
			return false
		}
	}
	return true
}

func reassignIDs(it *Item, taken map[string]bool, newID func(prefix string) string) {
	if it.ID == "" || taken[it.ID] {
		it.ID = newID(string(it.Type))
	}
	taken[it.ID] = true
	for i := range it.Items {
		reassignIDs(&it.Items[i], taken, newID)
	}
}

// detach removes the item at loc from its container and returns it.
func (d *Document) detach(loc Location) Item {
	it := *loc.Item
	*loc.Container = slices.Delete(*loc.Container, loc.Index, loc.Index+1)
	return it
}

func (d *Document) hasFavorites() bool {
	_, ok := d.Section(FavoritesID)
	return ok
}

func (d *Document) insertIntoFavorites(it Item) bool {
	fav, ok := d.Section(FavoritesID)
	if !ok {
		return false
	}
	fav.Items = insertBeforeAddCurrent(fav.Items, it)
	return true
}

func insertBeforeAddCurrent(items []Item, it Item) []Item {
	idx := slices.IndexFunc(items, func(x Item) bool { return x.Action == ActionAddCurrent })
	if idx < 0 {
		return append(items, it)
	}
	return slices.Insert(items, idx, it)
}

func isFavoritesAlias(target string) bool {
	switch strings.TrimSpace(target) {
	case TargetRoot, TargetFavorites:
		return true
	}
	return false
}

// subtreeContains reports whether id names it or one of its descendants.
func subtreeContains(it Item, id string) bool {
	if it.ID == id {
		return true
	}
	for _, ch := range it.Items {
		if subtreeContains(ch, id) {
			return true
		}
	}
	return false
}
