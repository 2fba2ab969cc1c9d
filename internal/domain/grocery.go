package domain

import (
	"strings"
	"time"
)

// GroceryItem is a single line of a grocery list
type GroceryItem struct {
	Name     string `json:"name" bson:"name" validate:"required"`
	Category string `json:"category" bson:"category" validate:"grocery_category"`
	// Quantity is nil when the quantity text held no leading integer
	Quantity *int    `json:"quantity" bson:"quantity"`
	Note     string  `json:"note" bson:"note"`
	Taken    bool    `json:"taken" bson:"taken"`
	File     *string `json:"file" bson:"file"`
	Pic      string  `json:"pic" bson:"pic"`
}

// GroceryList is one persisted batch of items. Amount and Invoice are filled
// in later by whoever does the shopping.
type GroceryList struct {
	ID      string        `json:"id" bson:"-"`
	Items   []GroceryItem `json:"items" bson:"grocery_items"`
	Date    time.Time     `json:"date" bson:"grocery_date"`
	Amount  string        `json:"amount" bson:"grocery_amount"`
	Invoice string        `json:"invoice" bson:"grocery_invoice"`
}

// NewGroceryList creates a list stamped with now
func NewGroceryList(items []GroceryItem, now time.Time) *GroceryList {
	return &GroceryList{
		Items:   items,
		Date:    now.UTC(),
		Amount:  "",
		Invoice: "",
	}
}

// Categories are the labels the text generator is asked to choose from
var Categories = []string{
	"snacks-and-candy",
	"beverages",
	"canned-goods",
	"spices-and-herbs",
	"cleaning-products",
	"frozen",
	"soap-and-personal-hygiene",
	"prep-products",
	"disposable-utensils",
	"sauces",
	"dairy",
	"vegetables",
	"fruits",
	"meat-and-fish",
	"bread-and-baked-goods",
	"carbs-and-grains",
}

// IsValidCategory reports whether category is one of Categories, ignoring case
func IsValidCategory(category string) bool {
	c := strings.ToLower(strings.TrimSpace(category))
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}
