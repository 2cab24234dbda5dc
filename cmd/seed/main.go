package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"strings"

	"github.com/shopspring/decimal"

	"sweetshop/internal/config"
	"sweetshop/internal/db"
	"sweetshop/internal/model"
	"sweetshop/internal/repository"
	"sweetshop/internal/service"
)

// SeedSweetData is the external seed file shape; price travels as a string.
type SeedSweetData struct {
	Name     string `json:"name"`
	Category string `json:"category"`
	Price    string `json:"price"`
	Quantity int    `json:"quantity"`
	ImageURL string `json:"image_url"`
}

func main() {
	source := flag.String("source", "seed/sweets.json", "seed file path or http(s) URL")
	flag.Parse()

	log.Println("Starting seed script...")

	cfg := config.Load()
	gateway := db.New(cfg)

	items, err := loadSeedData(*source)
	if err != nil {
		log.Fatalf("Failed to load seed data: %v", err)
	}
	log.Printf("Loaded %d sweets from %s", len(items), *source)

	sweets := make([]model.Sweet, 0, len(items))
	skipped := 0
	for _, item := range items {
		price, err := decimal.NewFromString(item.Price)
		if err != nil {
			log.Printf("Skipping sweet %q with invalid price: %s", item.Name, item.Price)
			skipped++
			continue
		}

		sweet := model.Sweet{
			Name:     item.Name,
			Category: item.Category,
			Price:    price,
			Quantity: item.Quantity,
		}
		if item.ImageURL != "" {
			image := item.ImageURL
			sweet.ImageURL = &image
		}
		sweets = append(sweets, sweet)
	}
	if skipped > 0 {
		log.Printf("Skipped %d invalid sweets", skipped)
	}

	sweetRepo := repository.NewSweetRepository(gateway)
	sweetService := service.NewSweetService(sweetRepo, nil)

	created, updated, err := sweetService.SeedSweets(context.Background(), sweets)
	if err != nil {
		log.Fatalf("Failed to seed sweets: %v", err)
	}

	log.Printf("Seed completed successfully!")
	log.Printf("  - New sweets created: %d", created)
	log.Printf("  - Existing sweets updated: %d", updated)
	log.Printf("  - Total sweets processed: %d", created+updated)
}

// loadSeedData reads the seed JSON from a local file or an http(s) URL.
func loadSeedData(source string) ([]SeedSweetData, error) {
	var body []byte
	if strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://") {
		resp, err := http.Get(source)
		if err != nil {
			return nil, fmt.Errorf("fetch seed data: %w", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			return nil, fmt.Errorf("seed source returned status code: %d", resp.StatusCode)
		}
		body, err = io.ReadAll(resp.Body)
		if err != nil {
			return nil, fmt.Errorf("read seed response: %w", err)
		}
	} else {
		var err error
		body, err = os.ReadFile(source)
		if err != nil {
			return nil, fmt.Errorf("read seed file: %w", err)
		}
	}

	var items []SeedSweetData
	if err := json.Unmarshal(body, &items); err != nil {
		return nil, fmt.Errorf("parse seed JSON: %w", err)
	}
	return items, nil
}
