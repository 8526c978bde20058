// Package taxonomy assigns every club to exactly one category by keyword
// matching the club name plus its event text against a fixed taxonomy.
package taxonomy

import "strings"

// Fallback is the catch-all category for clubs matching no keyword.
const Fallback = "others"

// Category pairs a name with its keyword set. Declaration order is
// significant: the first category with any keyword match wins, so the
// taxonomy must stay an ordered slice, never a map.
type Category struct {
	Name     string
	Keywords []string
}

// Default is the fixed taxonomy consulted in declaration order.
var Default = []Category{
	{Name: "tech", Keywords: []string{"coding", "robotics", "programming", "hackathon", "python", "java", "embedded", "electronics"}},
	{Name: "sports", Keywords: []string{"football", "basketball", "cricket", "tennis", "soccer", "training", "match", "tournament", "camp", "practice", "tryouts"}},
	{Name: "entertainment", Keywords: []string{"music", "dance", "drama", "theatre", "acoustic", "play", "singing", "performance", "recording"}},
	{Name: "literature & knowledge", Keywords: []string{"quiz", "debate", "tamil", "lecture", "knowledge", "mun", "cultural", "seminar", "talk"}},
}

// Assigner resolves a club to one category name.
type Assigner struct {
	categories []Category
}

// NewAssigner builds an assigner over the given taxonomy. A nil or empty
// taxonomy falls back to Default.
func NewAssigner(categories []Category) *Assigner {
	if len(categories) == 0 {
		categories = Default
	}
	return &Assigner{categories: categories}
}

// Assign returns the first category (in taxonomy order) whose keyword set
// has a substring match against "{club} {text}", lower-cased. A club
// matching several categories is assigned only to the first one checked.
// The function is total: no match yields Fallback.
func (a *Assigner) Assign(club, text string) string {
	combined := strings.ToLower(club + " " + text)
	for _, cat := range a.categories {
		for _, kw := range cat.Keywords {
			if strings.Contains(combined, kw) {
				return cat.Name
			}
		}
	}
	return Fallback
}

// Names returns the category names in declaration order, Fallback last.
func (a *Assigner) Names() []string {
	names := make([]string, 0, len(a.categories)+1)
	for _, cat := range a.categories {
		names = append(names, cat.Name)
	}
	return append(names, Fallback)
}
