package seed

import (
	"fmt"
	"strings"

	"github.com/brianvoe/gofakeit/v6"
)

var (
	styleNames = []string{
		"Streetwear", "Casual", "Formal", "Business", "Athleisure", "Minimal",
		"Vintage", "Outdoor", "Techwear", "Preppy", "Workwear", "Resort",
	}

	garments = []string{
		"Hoodie", "T-Shirt", "Overshirt", "Blazer", "Parka", "Bomber Jacket",
		"Jeans", "Chinos", "Cargo Pants", "Shorts", "Sneakers", "Boots",
		"Loafers", "Cap", "Scarf", "Knit Sweater", "Cardigan", "Trench Coat",
	}
)

// GenerateOptions sizes a generated catalog. Seed makes the output
// reproducible; zero picks a random seed.
type GenerateOptions struct {
	Categories         int
	OutfitsPerCategory int
	ItemsPerOutfit     int
	Seed               int64
}

// Generate builds a random catalog with gofakeit.
func Generate(opts GenerateOptions) *Catalog {
	faker := gofakeit.New(opts.Seed)

	names := make([]string, len(styleNames))
	copy(names, styleNames)
	faker.ShuffleStrings(names)

	catalog := &Catalog{Categories: make([]CategorySpec, 0, opts.Categories)}
	for i := 0; i < opts.Categories; i++ {
		name := names[i%len(names)]
		if i >= len(names) {
			name = fmt.Sprintf("%s %d", name, i/len(names)+1)
		}

		category := CategorySpec{Name: name, Outfits: make([]OutfitSpec, 0, opts.OutfitsPerCategory)}
		for j := 0; j < opts.OutfitsPerCategory; j++ {
			category.Outfits = append(category.Outfits, generateOutfit(faker, opts.ItemsPerOutfit))
		}
		catalog.Categories = append(catalog.Categories, category)
	}
	return catalog
}

func generateOutfit(faker *gofakeit.Faker, items int) OutfitSpec {
	outfit := OutfitSpec{
		Title:       titleCase(faker.Adjective() + " " + faker.Color()),
		Description: faker.Sentence(8),
		ImageURL:    fmt.Sprintf("https://picsum.photos/seed/%s/600/800", faker.UUID()),
		Items:       make([]ItemSpec, 0, items),
	}
	for k := 0; k < items; k++ {
		outfit.Items = append(outfit.Items, ItemSpec{
			Name:  faker.RandomString(garments),
			Brand: faker.Company(),
			Model: fmt.Sprintf("%s-%d", strings.ToUpper(faker.LetterN(2)), faker.Number(100, 999)),
		})
	}
	return outfit
}

func titleCase(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
