package api

import (
	"github.com/wardrobeapp/wardrobe-server/internal/media/images"
	"github.com/wardrobeapp/wardrobe-server/internal/service"
)

// Services groups all business logic services used by the API server.
// This reduces the parameter count for NewServer and improves testability.
type Services struct {
	Auth     *service.AuthService
	Session  *service.SessionService
	Closet   *service.ClosetService
	Outfit   *service.OutfitService
	Carousel *service.CarouselService
	Tag      *service.TagService
	ItemType *service.ItemTypeService
	TryOn    *service.TryOnService // nil when the fashion API is not configured
	Weather  *service.WeatherService
	Search   *service.SearchService
}

// StorageServices groups file storage handlers used by the API server.
type StorageServices struct {
	ItemPhotos   *images.Storage // Clothing item photos
	OutfitPhotos *images.Storage // Outfit photos
	Avatars      *images.Storage // Prepared try-on avatars
	TryOnResults *images.Storage // Cached dress-up renders
}
