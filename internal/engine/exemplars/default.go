package exemplars

// DefaultTable returns the built-in category table that ships with spendsort.
// Phrases are hand-picked anchors; each category needs only a handful of
// representative examples, not exhaustive coverage.
func DefaultTable() Table {
	return Table{
		{Category: "Groceries", Phrases: []string{
			"Safeway grocery", "Trader Joe's", "Walmart essentials", "Apna Bazaar",
			"Whole Foods vegetables", "TJ's snacks", "Kroger supplies",
		}},
		{Category: "Eating Out", Phrases: []string{
			"Pizza at Domino's", "McDonald's lunch", "Dinner at Olive Garden",
			"Starbucks coffee", "Lunch at Chipotle", "Breakfast at IHOP",
		}},
		{Category: "Alcohol", Phrases: []string{
			"Wine night", "Beer from Safeway", "Liquor store purchase",
			"Whiskey for party", "Chambong shots",
		}},
		{Category: "Shopping", Phrases: []string{
			"Amazon order", "Target haul", "Costco shopping", "Myntra clothes",
			"H&M jeans", "Zara purchase", "Concert ticket", "Spotify plan",
		}},
		{Category: "Rent", Phrases: []string{
			"Monthly Rent May", "Rent payment April", "Room rent",
			"Lease deposit", "Rent + utilities",
		}},
		{Category: "Utilities", Phrases: []string{
			"Electricity bill", "Internet - Xfinity", "Water bill", "Mobile plan September",
			"Elec: April 1-May 8", "Gas charges", "Nov Dec electricity", "Mint mobile plan",
		}},
		{Category: "Travel", Phrases: []string{
			"Flight to Mumbai", "Bus Madgaon to Thivim", "Airbnb Goa", "Trip to Portland",
			"Train to LA", "Hotel booking", "Uber to airport", "Lyft ride downtown",
			"Bus to Fremont", "Parking Sinquerim", "Train ticket Seattle", "Avis car rental",
		}},
		{Category: "Other", Phrases: []string{
			"CVS pharmacy meds", "Therapist session", "Dental cleaning",
			"Emergency visit", "Doctor appointment", "Netflix subscription",
			"Movie night", "Amusement park ticket", "Bowling with friends",
		}},
	}
}
