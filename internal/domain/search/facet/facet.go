package facet

// Category names a facet group.
type Category string

// Facet categories and the columns they count.
const (
	Countries     Category = "countries"
	Languages     Category = "languages"
	DocumentTypes Category = "document_types"
)

// Categories lists every facet category in response order.
func Categories() []Category {
	return []Category{Countries, Languages, DocumentTypes}
}

// Value is a distinct field value and the number of documents having it.
type Value struct {
	Value string
	Count int
}

// Set maps each category to its values, ordered by descending count.
type Set map[Category][]Value
