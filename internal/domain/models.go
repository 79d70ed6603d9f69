package domain

// CatalogItem is one searchable block discovered in the host toolbox
type CatalogItem struct {
	ID       string `json:"id"`
	Label    string `json:"label"`
	Category string `json:"category"`
}

// Catalog is the flattened, ordered list of discovered blocks.
// A catalog is never edited in place; a new scan replaces it.
type Catalog []CatalogItem

