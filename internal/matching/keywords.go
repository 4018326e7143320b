// internal/matching/keywords.go
package matching

import "strings"

// colorVocabulary is the fixed set of color tokens recognized in free-text
// descriptions. Matching is substring containment, so "space gray" yields
// "gray" and "navy blue" yields both "navy" and "blue".
var colorVocabulary = []string{
	"red", "blue", "green", "black", "white", "silver", "gold",
	"brown", "pink", "gray", "grey", "purple", "yellow", "orange",
	"navy", "cream", "beige", "bronze", "copper", "rose", "maroon",
	"turquoise", "teal", "magenta", "cyan", "indigo", "violet",
}

// categoryGroups are the fixed families of related report categories.
// Membership is a case-insensitive exact match against a group entry.
var categoryGroups = [][]string{
	{"Electronics", "Phone", "Laptop", "Tablet", "Watch", "Camera", "Headphones"},
	{"Accessories", "Wallet", "Bag", "Keys", "Jewelry", "Keychain", "Belt", "Scarf"},
	{"Clothing", "Jacket", "Shoes", "Hat", "Coat", "Shirt", "Pants"},
}

// ExtractColors returns every vocabulary color that appears in the text, in
// vocabulary order, without duplicates. Case-insensitive.
func ExtractColors(text string) []string {
	if text == "" {
		return nil
	}

	lower := strings.ToLower(text)
	var colors []string
	for _, color := range colorVocabulary {
		if strings.Contains(lower, color) {
			colors = append(colors, color)
		}
	}
	return colors
}

// CategoriesRelated reports whether two categories fall into the same
// category group. Categories outside every group are never related, even to
// themselves.
func CategoriesRelated(a, b string) bool {
	for _, group := range categoryGroups {
		if inGroup(a, group) && inGroup(b, group) {
			return true
		}
	}
	return false
}

func inGroup(category string, group []string) bool {
	for _, member := range group {
		if strings.EqualFold(category, member) {
			return true
		}
	}
	return false
}

// commonColorCount counts colors mentioned in both descriptions.
func commonColorCount(descA, descB string) int {
	colorsB := make(map[string]bool)
	for _, c := range ExtractColors(descB) {
		colorsB[c] = true
	}

	count := 0
	for _, c := range ExtractColors(descA) {
		if colorsB[c] {
			count++
		}
	}
	return count
}
