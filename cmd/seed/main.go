// Package main provides a tool to seed the database with a demo wardrobe.
//
// This creates a demo account (if it does not exist yet), the default tag
// and item-type vocabularies, and a starter closet with items across every
// carousel lane, a couple of outfits, and schedule entries for this week.
//
// Usage:
//
//	WARDROBE_DATA=~/wardrobe/data go run ./cmd/seed
//	WARDROBE_DATA=~/wardrobe/data go run ./cmd/seed --email demo@example.com --password changeme
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"math/rand"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/wardrobeapp/wardrobe-server/internal/auth"
	"github.com/wardrobeapp/wardrobe-server/internal/domain"
	"github.com/wardrobeapp/wardrobe-server/internal/id"
	"github.com/wardrobeapp/wardrobe-server/internal/normalize"
	"github.com/wardrobeapp/wardrobe-server/internal/store"
	"github.com/wardrobeapp/wardrobe-server/internal/store/sqlite"
)

var (
	email       = flag.String("email", "demo@wardrobe.local", "Email for the demo account")
	password    = flag.String("password", "TryItOn123!", "Password for the demo account")
	displayName = flag.String("name", "Demo User", "Display name for the demo account")
)

// starterItems covers every carousel lane twice so scrolling and shuffling
// have something to work with out of the box.
var starterItems = []struct {
	name     string
	itemType string
	category domain.CarouselCategory
	tags     []string
}{
	{"White Oxford Shirt", "Shirts", domain.CategoryTop, []string{"Work", "Casual"}},
	{"Navy Crewneck Sweater", "Sweaters", domain.CategoryTop, []string{"Winter", "Casual"}},
	{"Dark Wash Jeans", "Jeans", domain.CategoryBottom, []string{"Casual"}},
	{"Grey Wool Trousers", "Trousers", domain.CategoryBottom, []string{"Work"}},
	{"White Leather Sneakers", "Shoes", domain.CategoryFootwear, []string{"Casual", "Summer"}},
	{"Brown Derby Shoes", "Shoes", domain.CategoryFootwear, []string{"Work", "Evening"}},
	{"Silver Watch", "Accessories", domain.CategoryAccessory, []string{"Work", "Evening"}},
	{"Wool Beanie", "Accessories", domain.CategoryHeadwear, []string{"Winter", "Casual"}},
	{"Linen Summer Dress", "Dresses", domain.CategoryOnePiece, []string{"Summer", "Evening"}},
}

func main() {
	flag.Parse()

	dataPath := os.Getenv("WARDROBE_DATA")
	if dataPath == "" {
		dataPath = os.ExpandEnv("$HOME/wardrobe/data")
	}

	dbPath := filepath.Join(dataPath, "wardrobe.db")
	fmt.Printf("Opening database at: %s\n", dbPath)

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
	st, err := sqlite.Open(dbPath, logger)
	if err != nil {
		log.Fatalf("Failed to open store: %v", err)
	}
	defer st.Close()

	ctx := context.Background()
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))

	user, err := ensureDemoUser(ctx, st)
	if err != nil {
		log.Fatalf("Failed to create demo user: %v", err)
	}
	fmt.Printf("Demo user: %s (%s)\n", user.Email, user.ID)

	seedVocabularies(ctx, st, user.ID)

	items, err := seedItems(ctx, st, user.ID)
	if err != nil {
		log.Fatalf("Failed to seed items: %v", err)
	}
	fmt.Printf("Closet has %d items\n", len(items))

	outfits, err := seedOutfits(ctx, st, user.ID, items, rng)
	if err != nil {
		log.Fatalf("Failed to seed outfits: %v", err)
	}
	fmt.Printf("Created %d outfits\n", len(outfits))

	scheduled, err := seedSchedule(ctx, st, user.ID, outfits, rng)
	if err != nil {
		log.Fatalf("Failed to seed schedule: %v", err)
	}
	fmt.Printf("Scheduled outfits on %d days\n", scheduled)

	fmt.Println("\nDone. Log in with:")
	fmt.Printf("  email:    %s\n", *email)
	fmt.Printf("  password: %s\n", *password)
}

// ensureDemoUser returns the existing demo account or creates a fresh one.
func ensureDemoUser(ctx context.Context, st store.Store) (*domain.User, error) {
	existing, err := st.GetUserByEmail(ctx, *email)
	if err == nil {
		fmt.Println("Demo user already exists, reusing it")
		return existing, nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return nil, err
	}

	passwordHash, err := auth.HashPassword(*password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &domain.User{
		ExternalUID:  uuid.NewString(),
		Email:        *email,
		PasswordHash: passwordHash,
		DisplayName:  *displayName,
		LastLoginAt:  time.Now(),
	}
	user.ID = id.MustGenerate(id.PrefixUser)
	user.InitTimestamps()

	if err := st.CreateUser(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// seedVocabularies mirrors what registration does for a new account.
// Existing entries are left alone.
func seedVocabularies(ctx context.Context, st store.Store, userID string) {
	now := time.Now()
	for _, name := range domain.DefaultTags {
		tag := &domain.Tag{
			ID:        id.MustGenerate(id.PrefixTag),
			UserID:    userID,
			Name:      name,
			Slug:      normalize.Slug(name),
			CreatedAt: now,
			UpdatedAt: now,
		}
		if err := st.CreateTag(ctx, tag); err != nil && !errors.Is(err, store.ErrAlreadyExists) {
			log.Printf("Failed to seed tag %q: %v", name, err)
		}
	}
	for _, name := range domain.DefaultItemTypes {
		it := &domain.ItemType{
			ID:        id.MustGenerate(id.PrefixType),
			UserID:    userID,
			Name:      name,
			Slug:      normalize.Slug(name),
			CreatedAt: now,
			UpdatedAt: now,
		}
		if err := st.CreateItemType(ctx, it); err != nil && !errors.Is(err, store.ErrAlreadyExists) {
			log.Printf("Failed to seed item type %q: %v", name, err)
		}
	}
}

// seedItems creates the starter closet, skipping items the user already has
// by name.
func seedItems(ctx context.Context, st store.Store, userID string) ([]*domain.Item, error) {
	existing, err := st.ListItems(ctx, userID)
	if err != nil {
		return nil, err
	}
	byName := make(map[string]*domain.Item, len(existing))
	for _, item := range existing {
		byName[item.Name] = item
	}

	items := make([]*domain.Item, 0, len(starterItems))
	for _, def := range starterItems {
		if item, ok := byName[def.name]; ok {
			items = append(items, item)
			continue
		}

		item := &domain.Item{
			UserID:       userID,
			Name:         def.name,
			Type:         def.itemType,
			Tags:         def.tags,
			CarouselType: def.category,
		}
		item.ID = id.MustGenerate(id.PrefixItem)
		item.InitTimestamps()

		if err := st.CreateItem(ctx, item); err != nil {
			return nil, fmt.Errorf("create item %q: %w", def.name, err)
		}
		items = append(items, item)
	}
	return items, nil
}

// seedOutfits builds one outfit per lane-covering combination: a casual one,
// a work one, and the one-piece summer look.
func seedOutfits(ctx context.Context, st store.Store, userID string, items []*domain.Item, rng *rand.Rand) ([]*domain.Outfit, error) {
	existing, err := st.ListOutfits(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(existing) > 0 {
		fmt.Println("Outfits already exist, reusing them")
		return existing, nil
	}

	pick := func(category domain.CarouselCategory) *domain.Item {
		candidates := make([]*domain.Item, 0, 2)
		for _, item := range items {
			if item.CarouselType == category {
				candidates = append(candidates, item)
			}
		}
		if len(candidates) == 0 {
			return nil
		}
		return candidates[rng.Intn(len(candidates))]
	}

	defs := []struct {
		name        string
		description string
		tags        []string
		categories  []domain.CarouselCategory
	}{
		{
			name:        "Everyday Casual",
			description: "Jeans and sneakers, works for most days",
			tags:        []string{"Casual"},
			categories:  []domain.CarouselCategory{domain.CategoryTop, domain.CategoryBottom, domain.CategoryFootwear},
		},
		{
			name:        "Office Ready",
			description: "Shirt, trousers and proper shoes",
			tags:        []string{"Work"},
			categories:  []domain.CarouselCategory{domain.CategoryTop, domain.CategoryBottom, domain.CategoryFootwear, domain.CategoryAccessory},
		},
		{
			name:        "Summer Evening",
			description: "The linen dress with a watch",
			tags:        []string{"Summer", "Evening"},
			categories:  []domain.CarouselCategory{domain.CategoryOnePiece, domain.CategoryAccessory},
		},
	}

	outfits := make([]*domain.Outfit, 0, len(defs))
	for _, def := range defs {
		var itemIDs []string
		for _, category := range def.categories {
			if item := pick(category); item != nil {
				itemIDs = append(itemIDs, item.ID)
			}
		}
		if len(itemIDs) == 0 {
			continue
		}

		outfit := &domain.Outfit{
			UserID:      userID,
			Name:        def.name,
			Description: def.description,
			Tags:        def.tags,
			ItemIDs:     itemIDs,
		}
		outfit.ID = id.MustGenerate(id.PrefixOutfit)
		outfit.InitTimestamps()

		if err := st.CreateOutfit(ctx, outfit); err != nil {
			return nil, fmt.Errorf("create outfit %q: %w", def.name, err)
		}
		outfits = append(outfits, outfit)
	}
	return outfits, nil
}

// seedSchedule plans a random outfit onto each of the next seven days,
// skipping roughly one day in three so the calendar looks lived-in.
func seedSchedule(ctx context.Context, st store.Store, userID string, outfits []*domain.Outfit, rng *rand.Rand) (int, error) {
	if len(outfits) == 0 {
		return 0, nil
	}

	today := domain.EpochDayFromTime(time.Now())
	scheduled := 0
	for offset := 0; offset < 7; offset++ {
		if offset > 0 && rng.Float32() < 0.3 {
			continue
		}

		outfit := outfits[rng.Intn(len(outfits))]
		added, err := st.ScheduleOutfit(ctx, &domain.ScheduledOutfit{
			Day:       today + domain.EpochDay(offset),
			OutfitID:  outfit.ID,
			UserID:    userID,
			CreatedAt: time.Now(),
		})
		if err != nil {
			return scheduled, fmt.Errorf("schedule outfit %q: %w", outfit.Name, err)
		}
		if added {
			scheduled++
		}
	}
	return scheduled, nil
}
