// Command seed loads a demo catalog into the database.
package main

import (
	"context"
	"flag"
	"log"
	"os"

	"outfitted/internal/config"
	"outfitted/internal/database"
	"outfitted/internal/seed"
)

func main() {
	file := flag.String("file", "", "YAML catalog to load (default: built-in catalog)")
	random := flag.Bool("random", false, "Generate a random catalog instead of loading one")
	categories := flag.Int("categories", 5, "Categories to generate with -random")
	outfits := flag.Int("outfits", 6, "Outfits per category with -random")
	items := flag.Int("items", 4, "Items per outfit with -random")
	seedValue := flag.Int64("seed", 0, "Random seed for -random (0 picks one)")
	dump := flag.Bool("dump", false, "Print the catalog as YAML instead of writing it")
	clean := flag.Bool("clean", false, "Remove existing catalog data first")
	flag.Parse()

	log.Println("Catalog Seeder")

	var (
		catalog *seed.Catalog
		err     error
	)
	switch {
	case *random:
		catalog = seed.Generate(seed.GenerateOptions{
			Categories:         *categories,
			OutfitsPerCategory: *outfits,
			ItemsPerOutfit:     *items,
			Seed:               *seedValue,
		})
	case *file != "":
		catalog, err = seed.LoadCatalogFile(*file)
	default:
		catalog, err = seed.DefaultCatalog()
	}
	if err != nil {
		log.Fatalf("Failed to load catalog: %v", err)
	}

	if *dump {
		data, err := catalog.Marshal()
		if err != nil {
			log.Fatalf("Failed to encode catalog: %v", err)
		}
		_, _ = os.Stdout.Write(data)
		return
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer func() { _ = database.Close(db) }()

	ctx := context.Background()
	s := seed.NewSeeder(db)

	if *clean {
		if err := s.Clear(ctx); err != nil {
			log.Fatalf("Cleanup failed: %v", err)
		}
	}

	res, err := s.Apply(ctx, catalog)
	if err != nil {
		log.Fatalf("Seeding failed: %v", err)
	}
	log.Printf("Done: %d categories, %d outfits, %d items created", res.Categories, res.Outfits, res.Items)
}
