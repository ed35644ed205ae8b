package main

import (
	"errors"
	"fmt"
	"html/template"
	"strconv"
)

// ErrProjectNotFound is returned for gallery indexes outside 1..galleryLen.
var ErrProjectNotFound = errors.New("project not found")

const galleryLen = 8

// GalleryItem is a tile in the work section.
type GalleryItem struct {
	Index int
}

var galleryItems = func() []GalleryItem {
	items := make([]GalleryItem, galleryLen)
	for i := range items {
		items[i] = GalleryItem{Index: i + 1}
	}
	return items
}()

func (g GalleryItem) Title() string {
	return fmt.Sprintf("Project %d", g.Index)
}

func (g GalleryItem) Image() string {
	return fmt.Sprintf("/images/project-%d.jpg", g.Index)
}

func (g GalleryItem) Href() string {
	return fmt.Sprintf("/work/%d", g.Index)
}

func (g GalleryItem) Summary() string {
	return ProjectSummary
}

// Description is the extended caption shown in the modal.
func (g GalleryItem) Description() template.HTML {
	return renderMarkdown(ProjectDescription)
}

// lookupProject resolves a path parameter into a gallery item.
func lookupProject(raw string) (GalleryItem, error) {
	idx, err := strconv.Atoi(raw)
	if err != nil {
		return GalleryItem{}, fmt.Errorf("project %q: %w", raw, ErrProjectNotFound)
	}
	if idx < 1 || idx > len(galleryItems) {
		return GalleryItem{}, fmt.Errorf("project %d: %w", idx, ErrProjectNotFound)
	}
	return galleryItems[idx-1], nil
}
