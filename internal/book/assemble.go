package book

import "sort"

// Assemble fixes the final reading order. Every visible chapter is sorted by
// (Indent, Order), ties keeping their insertion order, and chapters that
// fail the ignore rule move to the ignored collection.
func (b *Book) Assemble(threshold int) {
	all := b.chapters
	sort.SliceStable(all, func(i, j int) bool {
		if all[i].Indent != all[j].Indent {
			return all[i].Indent < all[j].Indent
		}
		return all[i].Order < all[j].Order
	})

	visible := all[:0:0]
	for _, c := range all {
		c.Ignore = c.ShouldIgnore(threshold)
		if c.Ignore {
			b.ignored = append(b.ignored, c)
			continue
		}
		visible = append(visible, c)
	}
	b.chapters = visible
}
