package dashboard

// Cleanup removes every folder left without children. Folders are visited
// children-first, so a folder emptied by removing its own empty subfolders
// is removed as well. It returns the number of folders removed.
func (d *Document) Cleanup() int {
	removed := 0
	for si := range d.Sections {
		removed += cleanItems(&d.Sections[si].Items)
	}
	return removed
}

func cleanItems(items *[]Item) int {
	removed := 0
	for i := range *items {
		it := &(*items)[i]
		if it.IsFolder() {
			removed += cleanItems(&it.Items)
		}
	}

	kept := (*items)[:0]
	for _, it := range *items {
		if it.IsFolder() && len(it.Items) == 0 {
			removed++
			continue
		}
		kept = append(kept, it)
	}
	// Clear the tail so dropped items are not retained by the backing array.
	for i := len(kept); i < len(*items); i++ {
		(*items)[i] = Item{}
	}
	*items = kept
	return removed
}
