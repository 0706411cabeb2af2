package category

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Seed is one category entry of a seed file:
//
//	- name: Groceries
//	  keywords: [tesco, sainsbury]
type Seed struct {
	Name     string   `yaml:"name" json:"name"`
	Keywords []string `yaml:"keywords" json:"keywords"`
}

var defaultSeed = []Seed{
	{Name: "Restaurant", Keywords: []string{"restaurant", "resto", "restuarant", "dine", "dining", "cafe", "coffee", "bar", "zomato", "swiggy", "dominos", "pizza", "mcdonald", "burger", "kfc", "food", "eatery"}},
	{Name: "Hospital", Keywords: []string{"hospital", "hostpital", "clinic", "medical", "care", "apollo", "fortis", "manipal", "health"}},
	{Name: "Taxi", Keywords: []string{"uber", "ola", "cab", "taxi", "ride", "auto", "ola cabs", "uber auto", "olaauto", "transport"}},
	{Name: DefaultCategory},
	{Name: "Grocery", Keywords: []string{"grocery", "grosery", "supermarket", "bigbasket", "dmart", "reliance fresh", "spencer", "store", "mart", "super", "vegetables", "provision"}},
	{Name: "Credit card payment", Keywords: []string{"credit card", "card payment", "visa", "mastercard", "amex", "creditcard", "cardpayment", "credit", "billdesk"}},
	{Name: "Subscription", Keywords: []string{"subscription", "subscrption", "netflix", "spotify", "prime", "hotstar", "disney", "youtube premium", "zee5", "sony liv"}},
	{Name: "Sutherland", Keywords: []string{"sutherland"}},
	{Name: "Rent", Keywords: []string{"rent", "rental", "house rent", "flat rent", "pg", "lease"}},
	{Name: "Electricity", Keywords: []string{"electricity", "power", "electric bill", "tneb", "mahavitaran", "bill payment", "bills", "current"}},
	{Name: "Cashback", Keywords: []string{"cashback", "reward", "rewards", "referral", "cash back"}},
	{Name: "Travel", Keywords: []string{"flight", "air", "indigo", "spicejet", "goair", "air india", "train", "irctc", "hotel", "booking", "travel", "trip", "journey"}},
}

// ParseSeed decodes a YAML list of categories and appends them to idx.
func ParseSeed(idx *Index, data []byte) error {
	var seeds []Seed
	if err := yaml.Unmarshal(data, &seeds); err != nil {
		return fmt.Errorf("parsing category seed: %w", err)
	}
	for _, s := range seeds {
		idx.AddCategory(s.Name)
		for _, kw := range s.Keywords {
			idx.AddKeyword(s.Name, kw)
		}
	}
	return nil
}

// LoadSeed reads a YAML seed file and appends its categories to idx.
func LoadSeed(idx *Index, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading category seed: %w", err)
	}
	return ParseSeed(idx, data)
}

// Export returns the index as seed entries, in order.
func (idx *Index) Export() []Seed {
	out := make([]Seed, 0, len(idx.names))
	for _, name := range idx.names {
		out = append(out, Seed{Name: name, Keywords: idx.Keywords(name)})
	}
	return out
}
