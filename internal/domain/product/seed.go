package product

import "github.com/shopspring/decimal"

// Seed returns the built-in catalog used on first load and by Reset.
// A fresh slice is returned on every call.
func Seed() []Product {
	return []Product{
		{
			ID:              "p1",
			Title:           "Noise-Cancelling Headphones Pro",
			Slug:            "noise-cancelling-headphones-pro",
			Price:           decimal.RequireFromString("349.99"),
			Category:        "Tech",
			Image:           "https://picsum.photos/400/400?random=1",
			Description:     "Silence the world and your conscience. 30 hours of battery.",
			IsDupeCandidate: true,
			Rating:          decimal.RequireFromString("4.8"),
			Reviews:         1204,
			Specs: Specs{
				{Key: "Battery", Value: "30h"},
				{Key: "Weight", Value: "250g"},
			},
		},
		{
			ID:          "p2",
			Title:       "Budget Buds Wireless",
			Slug:        "budget-buds-wireless",
			Price:       decimal.RequireFromString("39.99"),
			Category:    "Tech",
			Image:       "https://picsum.photos/400/400?random=2",
			Description: "They play music. What more do you want?",
			Rating:      decimal.RequireFromString("4.1"),
			Reviews:     873,
			Specs: Specs{
				{Key: "Battery", Value: "8h"},
			},
		},
		{
			ID:              "p3",
			Title:           "Designer Leather Tote",
			Slug:            "designer-leather-tote",
			Price:           decimal.RequireFromString("895.00"),
			Category:        "Fashion",
			Image:           "https://picsum.photos/400/400?random=3",
			Description:     "Holds a laptop, a lunch, and the weight of your credit card bill.",
			IsDupeCandidate: true,
			Rating:          decimal.RequireFromString("4.6"),
			Reviews:         312,
			Specs: Specs{
				{Key: "Material", Value: "Italian leather"},
			},
		},
		{
			ID:          "p4",
			Title:       "Canvas Everyday Tote",
			Slug:        "canvas-everyday-tote",
			Price:       decimal.RequireFromString("24.50"),
			Category:    "Fashion",
			Image:       "https://picsum.photos/400/400?random=4",
			Description: "Same shape, same pockets, none of the logo tax.",
			Rating:      decimal.RequireFromString("4.3"),
			Reviews:     1542,
		},
		{
			ID:              "p5",
			Title:           "Smart Espresso Machine",
			Slug:            "smart-espresso-machine",
			Price:           decimal.RequireFromString("599.00"),
			Category:        "Home",
			Image:           "https://picsum.photos/400/400?random=5",
			Description:     "App-controlled coffee, because pressing a button was too hard.",
			IsDupeCandidate: true,
			Rating:          decimal.RequireFromString("4.4"),
			Reviews:         208,
			Specs: Specs{
				{Key: "Pressure", Value: "15 bar"},
				{Key: "Connectivity", Value: "Wi-Fi"},
			},
		},
		{
			ID:          "p6",
			Title:       "Stovetop Moka Pot",
			Slug:        "stovetop-moka-pot",
			Price:       decimal.RequireFromString("29.99"),
			Category:    "Home",
			Image:       "https://picsum.photos/400/400?random=6",
			Description: "Your nan's espresso machine. Still works.",
			Rating:      decimal.RequireFromString("4.7"),
			Reviews:     3310,
		},
		{
			ID:          "p7",
			Title:       "Mechanical Keyboard RGB",
			Slug:        "mechanical-keyboard-rgb",
			Price:       decimal.RequireFromString("129.00"),
			Category:    "Tech",
			Image:       "https://picsum.photos/400/400?random=7",
			Description: "Clicky keys and enough lights to guide aircraft.",
			Rating:      decimal.RequireFromString("4.5"),
			Reviews:     640,
		},
		{
			ID:          "p8",
			Title:       "Scented Soy Candle",
			Slug:        "scented-soy-candle",
			Price:       decimal.RequireFromString("18.00"),
			Category:    "Home",
			Image:       "https://picsum.photos/400/400?random=8",
			Description: "Smells like a cottage you cannot afford.",
			Rating:      decimal.RequireFromString("4.2"),
			Reviews:     95,
		},
	}
}
