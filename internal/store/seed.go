// internal/store/seed.go
package store

import "shopping-assistant/internal/models"

// PlaceholderImages are assigned to listings stored without an image.
var PlaceholderImages = []string{
	"https://images.unsplash.com/photo-1517336714731-489689fd1ca8?w=300&h=300&fit=crop&crop=center",
	"https://images.unsplash.com/photo-1578662996442-48f60103fc96?w=300&h=300&fit=crop&crop=center",
	"https://images.unsplash.com/photo-1606144042614-b2417e99c4e3?w=300&h=300&fit=crop&crop=center",
	"https://images.unsplash.com/photo-1556821840-3a63f95609a7?w=300&h=300&fit=crop&crop=center",
	"https://images.unsplash.com/photo-1515562141207-7a88fb7ce338?w=300&h=300&fit=crop&crop=center",
	"https://images.unsplash.com/photo-1523275335684-37898b6baf30?w=300&h=300&fit=crop&crop=center",
	"https://images.unsplash.com/photo-1544244015-0df4b3ffc6b0?w=300&h=300&fit=crop&crop=center",
	"https://images.unsplash.com/photo-1502920917128-1aa500764cbd?w=300&h=300&fit=crop&crop=center",
}

// SampleCatalog is loaded into an empty listing table.
func SampleCatalog() []models.Listing {
	return []models.Listing{
		{
			ID: "m001", Name: "iPhone 15 Pro 256GB", Price: 150000, Condition: "new", SellerRating: 4.8,
			Category: "Electronics", Brand: "Apple", URL: "https://jp.mercari.com/item/m001",
			Description: "Unopened iPhone 15 Pro, natural titanium.",
		},
		{
			ID: "m002", Name: "iPhone 14 128GB", Price: 120000, Condition: "like_new", SellerRating: 4.5,
			Category: "Electronics", Brand: "Apple", URL: "https://jp.mercari.com/item/m002",
			Description: "Used for three months, battery health 98%.",
		},
		{
			ID: "m003", Name: "Samsung Galaxy S24", Price: 140000, Condition: "new", SellerRating: 4.2,
			Category: "Electronics", Brand: "Samsung", URL: "https://jp.mercari.com/item/m003",
			Description: "Galaxy S24 onyx black, SIM free.",
		},
		{
			ID: "m004", Name: "Nike Air Max 90", Price: 8000, Condition: "good", SellerRating: 4.0,
			Category: "Fashion", Brand: "Nike", URL: "https://jp.mercari.com/item/m004",
			Description: "Size 27cm, light wear on the soles.",
		},
		{
			ID: "m005", Name: "MacBook Air M2", Price: 110000, Condition: "very_good", SellerRating: 4.7,
			Category: "Electronics", Brand: "Apple", URL: "https://jp.mercari.com/item/m005",
			Description: "13 inch, 8GB memory, includes charger.",
		},
		{
			ID: "m006", Name: "Coach レザーバッグ", Price: 18000, Condition: "good", SellerRating: 4.4,
			Category: "Fashion", Brand: "Coach", URL: "https://jp.mercari.com/item/m006",
			Description: "Leather shoulder bag, minor scuffs.",
		},
		{
			ID: "m007", Name: "AirPods Pro ワイヤレスイヤホン", Price: 22000, Condition: "like_new", SellerRating: 4.6,
			Category: "Electronics", Brand: "Apple", URL: "https://jp.mercari.com/item/m007",
			Description: "Second generation with USB-C case.",
		},
	}
}

// ShowcaseListings tops up each showcase category.
var ShowcaseListings = map[string][]models.Listing{
	"Electronics": {
		{
			ID: "ent001", Name: "Sony WH-1000XM5 Headphones", Price: 42000, Condition: "new", SellerRating: 4.9,
			Category: "Electronics", Brand: "Sony", URL: "https://jp.mercari.com/item/ent001",
			ImageURL:    "https://images.unsplash.com/photo-1517336714731-489689fd1ca8?w=150&h=150&fit=crop&crop=center",
			Description: "Industry-leading noise canceling headphones.",
		},
	},
	"Entertainment": {
		{
			ID: "ent002", Name: "Nintendo Switch OLED", Price: 35000, Condition: "like_new", SellerRating: 4.8,
			Category: "Entertainment", Brand: "Nintendo", URL: "https://jp.mercari.com/item/ent002",
			ImageURL:    "https://images.unsplash.com/photo-1578662996442-48f60103fc96?w=150&h=150&fit=crop&crop=center",
			Description: "Nintendo Switch OLED model, barely used.",
		},
		{
			ID: "ent003", Name: "PlayStation 5 Console", Price: 65000, Condition: "very_good", SellerRating: 4.9,
			Category: "Entertainment", Brand: "Sony", URL: "https://jp.mercari.com/item/ent003",
			ImageURL:    "https://images.unsplash.com/photo-1606144042614-b2417e99c4e3?w=150&h=150&fit=crop&crop=center",
			Description: "PS5 console with original accessories.",
		},
	},
	"Fashion": {
		{
			ID: "fas001", Name: "Uniqlo Ultra Light Down Jacket", Price: 5000, Condition: "good", SellerRating: 4.7,
			Category: "Fashion", Brand: "Uniqlo", URL: "https://jp.mercari.com/item/fas001",
			ImageURL:    "https://images.unsplash.com/photo-1556821840-3a63f95609a7?w=150&h=150&fit=crop&crop=center",
			Description: "Lightweight and warm down jacket.",
		},
	},
	"Home & Beauty": {
		{
			ID: "hb001", Name: "Dyson Supersonic Hair Dryer", Price: 32000, Condition: "like_new", SellerRating: 4.8,
			Category: "Home & Beauty", Brand: "Dyson", URL: "https://jp.mercari.com/item/hb001",
			ImageURL:    "https://images.unsplash.com/photo-1515562141207-7a88fb7ce338?w=150&h=150&fit=crop&crop=center",
			Description: "High-end hair dryer, barely used.",
		},
		{
			ID: "hb002", Name: "Panasonic Nanoe Facial Steamer", Price: 12000, Condition: "new", SellerRating: 4.7,
			Category: "Home & Beauty", Brand: "Panasonic", URL: "https://jp.mercari.com/item/hb002",
			ImageURL:    "https://images.unsplash.com/photo-1517336714731-489689fd1ca8?w=150&h=150&fit=crop&crop=center",
			Description: "Facial steamer for skincare routines.",
		},
	},
}

// ShowcaseCategories is the order in which categories are topped up.
var ShowcaseCategories = []string{"Electronics", "Entertainment", "Fashion", "Home & Beauty"}

// minShowcaseListings is the count below which a category is topped up.
const minShowcaseListings = 2
