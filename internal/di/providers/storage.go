package providers

import (
	"fmt"

	"github.com/samber/do/v2"

	"github.com/wardrobeapp/wardrobe-server/internal/config"
	"github.com/wardrobeapp/wardrobe-server/internal/logger"
	"github.com/wardrobeapp/wardrobe-server/internal/media/images"
)

// ImageStorages groups all image storage services.
type ImageStorages struct {
	ItemPhotos   *images.Storage
	OutfitPhotos *images.Storage
	Avatars      *images.Storage
	TryOnResults *images.Storage
}

// ProvideImageStorages provides all image storage services.
func ProvideImageStorages(i do.Injector) (*ImageStorages, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	items, err := images.NewStorage(cfg.Data.BasePath, "items")
	if err != nil {
		return nil, fmt.Errorf("item photo storage: %w", err)
	}

	outfits, err := images.NewStorage(cfg.Data.BasePath, "outfits")
	if err != nil {
		return nil, fmt.Errorf("outfit photo storage: %w", err)
	}

	avatars, err := images.NewStorage(cfg.Data.BasePath, "avatars")
	if err != nil {
		return nil, fmt.Errorf("avatar storage: %w", err)
	}

	results, err := images.NewStorage(cfg.Data.BasePath, "tryon")
	if err != nil {
		return nil, fmt.Errorf("try-on result storage: %w", err)
	}

	log.Info("Image storages initialized")

	return &ImageStorages{
		ItemPhotos:   items,
		OutfitPhotos: outfits,
		Avatars:      avatars,
		TryOnResults: results,
	}, nil
}

// ProvideImageProcessor provides the image processor for photos.
func ProvideImageProcessor(i do.Injector) (*images.Processor, error) {
	log := do.MustInvoke[*logger.Logger](i)
	return images.NewProcessor(log.Logger), nil
}
