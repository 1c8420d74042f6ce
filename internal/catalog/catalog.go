// Package catalog holds the static lexical tables the assistant matches
// utterances against: known items and their categories, number words and
// the mock product catalog used by search.
package catalog

// Others is the category of every item missing from Categories.
const Others = "others"

type Category struct {
	Item     string
	Category string
}

type NumberWord struct {
	Word  string
	Value int
}

type Product struct {
	Name  string
	Brand string
	Price float64
	Unit  string
}

// Categories is scanned in order during item extraction, so the first
// listed item that occurs in an utterance wins.
var Categories = []Category{
	{"milk", "dairy"},
	{"cheese", "dairy"},
	{"yogurt", "dairy"},
	{"apple", "fruits"},
	{"banana", "fruits"},
	{"orange", "fruits"},
	{"bread", "bakery"},
	{"rice", "grains"},
	{"water", "beverages"},
}

var NumberWords = []NumberWord{
	{"one", 1},
	{"two", 2},
	{"three", 3},
	{"four", 4},
	{"five", 5},
	{"six", 6},
	{"seven", 7},
	{"eight", 8},
	{"nine", 9},
	{"ten", 10},
}

var Products = []Product{
	{Name: "organic apples", Brand: "Farm Fresh", Price: 3.5, Unit: "kg"},
	{Name: "toothpaste", Brand: "Colgate", Price: 2.2, Unit: "tube"},
	{Name: "toothpaste", Brand: "Sensodyne", Price: 4.8, Unit: "tube"},
	{Name: "almond milk", Brand: "Alpro", Price: 3.9, Unit: "1L"},
}

// CategoryOf returns the category of item, or Others when it is unknown.
func CategoryOf(item string) string {
	for _, c := range Categories {
		if c.Item == item {
			return c.Category
		}
	}
	return Others
}
