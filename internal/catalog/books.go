// Package catalog holds the static book catalog. Books are compiled in
// rather than stored in the database: the list is small, read-only and
// shared by every request, so an in-memory slice is the synchronization
// point-free option.
package catalog

// Book describes a single title offered by the shop. Prices are kept in
// minor units (pence) to avoid floating point money arithmetic.
type Book struct {
	Title           string   `json:"title"`
	Slug            string   `json:"slug"`
	Author          string   `json:"author"`
	PriceMinorUnits int64    `json:"price_minor_units"`
	Description     []string `json:"description"`
}

// Books is the full catalog in display order.
var Books = []Book{
	{
		Title:           "Dracula",
		Slug:            "dracula",
		Author:          "Bram Stoker",
		PriceMinorUnits: 999,
		Description: []string{
			"Step into the shadows of Victorian-era Transylvania with Bram Stoker's timeless masterpiece. This chilling tale of horror and suspense has captivated readers for over a century.",
			"Follow Jonathan Harker's journey into the heart of darkness through ancient castles, forbidden desires and unspeakable terrors.",
		},
	},
	{
		Title:           "Jane Eyre",
		Slug:            "jane-eyre",
		Author:          "Charlotte Brontë",
		PriceMinorUnits: 899,
		Description: []string{
			"Follow Jane's transformative journey from a neglected orphan to a fiercely independent woman in Charlotte Brontë's groundbreaking novel.",
			"Love and mystery intertwine on the misty moors of England at the enigmatic Thornfield Hall.",
		},
	},
	{
		Title:           "Madame Bovary",
		Slug:            "madame-bovary",
		Author:          "Gustave Flaubert",
		PriceMinorUnits: 799,
		Description: []string{
			"Delve into the life of Emma Bovary as she pursues passion and luxury, challenging the societal norms of 19th-century provincial France.",
			"Flaubert's exquisite attention to detail created a cornerstone of realistic fiction that shocked its first readers.",
		},
	},
}

// FindBySlug returns the book with the given slug. The second return
// value reports whether the slug exists in the catalog.
func FindBySlug(slug string) (Book, bool) {
	for _, b := range Books {
		if b.Slug == slug {
			return b, true
		}
	}
	return Book{}, false
}
