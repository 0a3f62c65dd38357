package constants

// FoodCategory groups the keywords used to score how food-like a line is.
type FoodCategory string

const (
	Protein     FoodCategory = "Protein"
	Staple      FoodCategory = "Staple"
	Drink       FoodCategory = "Drink"
	Preparation FoodCategory = "Preparation"
	Other       FoodCategory = "Other"
)

var allFoodCategories = []FoodCategory{Protein, Staple, Drink, Preparation}

// FoodCategories returns the scored categories in a stable order.
func FoodCategories() []FoodCategory {
	out := make([]FoodCategory, len(allFoodCategories))
	copy(out, allFoodCategories)
	return out
}

// FoodVocabulary is the fixed lowercase keyword list per category. Keywords are matched as substrings.
var FoodVocabulary = map[FoodCategory][]string{
	Protein: {
		"chicken", "beef", "pork", "lamb", "mutton", "fish", "prawn", "shrimp", "egg",
		"paneer", "tofu", "bacon", "ham", "sausage", "turkey", "duck", "salmon", "tuna",
		"crab", "squid", "keema", "kebab",
	},
	Staple: {
		"rice", "bread", "naan", "roti", "noodle", "pasta", "pizza", "burger", "toast",
		"fries", "chips", "potato", "salad", "soup", "curry", "dal", "sandwich", "wrap",
		"biryani", "dosa", "idli", "bun", "cake", "pie", "dessert", "cheese", "butter",
	},
	Drink: {
		"tea", "coffee", "latte", "cappuccino", "espresso", "mocha", "juice", "soda", "cola",
		"coke", "lemonade", "water", "beer", "wine", "lassi", "shake", "smoothie", "milk",
		"chai", "mojito", "cocktail",
	},
	Preparation: {
		"fried", "grilled", "roast", "roasted", "baked", "steamed", "tandoori", "masala",
		"spicy", "crispy", "boiled", "smoked", "stuffed", "special",
	},
}
