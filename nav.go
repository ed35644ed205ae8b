package main

// NavItem is one entry of the sidebar navigation.
type NavItem struct {
	ID    string
	Label string
	Icon  string
}

// RenderedNavItem is the view model handed to the sidebar template.
type RenderedNavItem struct {
	NavItem
	Href   string
	Active bool
}

const defaultSection = "home"

// navItems lists the page sections in display order.
var navItems = []NavItem{
	{ID: "home", Label: "Home", Icon: "home"},
	{ID: "about", Label: "About", Icon: "user"},
	{ID: "work", Label: "Work", Icon: "briefcase"},
	{ID: "contact", Label: "Contact", Icon: "mail"},
}

// normalizeSection maps a requested section to a known nav id, falling back
// to the home section.
func normalizeSection(id string) string {
	for _, it := range navItems {
		if it.ID == id {
			return id
		}
	}
	return defaultSection
}

// BuildNav marks exactly one entry active: the one matching active, or home.
func BuildNav(active string) []RenderedNavItem {
	active = normalizeSection(active)
	items := make([]RenderedNavItem, 0, len(navItems))
	for _, it := range navItems {
		items = append(items, RenderedNavItem{
			NavItem: it,
			Href:    "#" + it.ID,
			Active:  it.ID == active,
		})
	}
	return items
}
