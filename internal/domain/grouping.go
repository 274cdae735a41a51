package domain

import "sort"

// UnsortedTitle labels the implicit group of items without a resolvable section.
const UnsortedTitle = "Unsorted"

// Group is one display group of items. Section is nil for the Unsorted group.
type Group struct {
	Section *Section
	Items   []Item
}

func (g Group) Title() string {
	if g.Section == nil {
		return UnsortedTitle
	}
	return g.Section.Title
}

// SortSections returns the sections ordered by ascending Order. Sections with
// equal Order keep their insertion order.
func SortSections(sections []Section) []Section {
	out := make([]Section, len(sections))
	copy(out, sections)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Order < out[j].Order })
	return out
}

// SortItems returns the items ordered by ascending Order, stable.
func SortItems(items []Item) []Item {
	out := make([]Item, len(items))
	copy(out, items)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Order < out[j].Order })
	return out
}

// GroupItems groups p's items by section at view time. One group is returned
// per section in display order, followed by the Unsorted group holding every
// item whose SectionID is empty or dangling. Unsorted is omitted when empty.
// Items are sorted by Order within each group only.
func GroupItems(p *Portfolio) []Group {
	if p == nil {
		return nil
	}
	sections := SortSections(p.Sections)
	bySection := make(map[string][]Item, len(sections))
	var unsorted []Item
	for _, it := range p.Items {
		if p.HasSection(it.SectionID) {
			bySection[it.SectionID] = append(bySection[it.SectionID], it)
			continue
		}
		unsorted = append(unsorted, it)
	}

	groups := make([]Group, 0, len(sections)+1)
	for i := range sections {
		groups = append(groups, Group{Section: &sections[i], Items: SortItems(bySection[sections[i].ID])})
	}
	if len(unsorted) > 0 {
		groups = append(groups, Group{Items: SortItems(unsorted)})
	}
	return groups
}

// ItemsInGroup returns the items of p that display under sectionID, sorted.
// An empty or dangling sectionID selects the Unsorted group.
func ItemsInGroup(p *Portfolio, sectionID string) []Item {
	if p == nil {
		return nil
	}
	resolved := p.HasSection(sectionID)
	var out []Item
	for _, it := range p.Items {
		if resolved && it.SectionID == sectionID {
			out = append(out, it)
		} else if !resolved && !p.HasSection(it.SectionID) {
			out = append(out, it)
		}
	}
	return SortItems(out)
}

// NextOrder returns an order value that places a new item last in the group
// for sectionID.
func NextOrder(p *Portfolio, sectionID string) int {
	items := ItemsInGroup(p, sectionID)
	if len(items) == 0 {
		return 0
	}
	return items[len(items)-1].Order + 1
}
