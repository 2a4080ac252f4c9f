package providers

import (
	"github.com/samber/do/v2"

	"github.com/wardrobeapp/wardrobe-server/internal/auth"
	"github.com/wardrobeapp/wardrobe-server/internal/logger"
	"github.com/wardrobeapp/wardrobe-server/internal/media/images"
	"github.com/wardrobeapp/wardrobe-server/internal/service"
	"github.com/wardrobeapp/wardrobe-server/internal/validation"
)

// ProvideValidator provides the request validator.
func ProvideValidator(i do.Injector) (*validation.Validator, error) {
	return validation.New(), nil
}

// ProvideSessionService provides the session management service.
func ProvideSessionService(i do.Injector) (*service.SessionService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	tokenService := do.MustInvoke[*auth.TokenService](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewSessionService(storeHandle.Store, tokenService, log.Logger), nil
}

// ProvideAuthService provides the authentication service.
func ProvideAuthService(i do.Injector) (*service.AuthService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	tokenService := do.MustInvoke[*auth.TokenService](i)
	sessionService := do.MustInvoke[*service.SessionService](i)
	validator := do.MustInvoke[*validation.Validator](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewAuthService(storeHandle.Store, tokenService, sessionService, validator, log.Logger), nil
}

// ProvideClosetService provides the closet item service.
func ProvideClosetService(i do.Injector) (*service.ClosetService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	storages := do.MustInvoke[*ImageStorages](i)
	processor := do.MustInvoke[*images.Processor](i)
	validator := do.MustInvoke[*validation.Validator](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewClosetService(storeHandle.Store, storages.ItemPhotos, processor, validator, log.Logger), nil
}

// ProvideOutfitService provides the outfit service.
func ProvideOutfitService(i do.Injector) (*service.OutfitService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	storages := do.MustInvoke[*ImageStorages](i)
	processor := do.MustInvoke[*images.Processor](i)
	validator := do.MustInvoke[*validation.Validator](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewOutfitService(storeHandle.Store, storages.OutfitPhotos, processor, validator, log.Logger), nil
}

// ProvideCarouselService provides the combination carousel service.
func ProvideCarouselService(i do.Injector) (*service.CarouselService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewCarouselService(storeHandle.Store, log.Logger), nil
}

// ProvideTagService provides the tag vocabulary service.
func ProvideTagService(i do.Injector) (*service.TagService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewTagService(storeHandle.Store, log.Logger), nil
}

// ProvideItemTypeService provides the item-type vocabulary service.
func ProvideItemTypeService(i do.Injector) (*service.ItemTypeService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewItemTypeService(storeHandle.Store, log.Logger), nil
}

// TryOnServiceHandle wraps the try-on service. Service is nil when the
// fashion API is not configured.
type TryOnServiceHandle struct {
	Service *service.TryOnService
}

// ProvideTryOnService provides the virtual try-on service when the fashion
// API is configured.
func ProvideTryOnService(i do.Injector) (*TryOnServiceHandle, error) {
	fashionHandle := do.MustInvoke[*FashionClientHandle](i)
	if fashionHandle.Client == nil {
		return &TryOnServiceHandle{}, nil
	}

	storeHandle := do.MustInvoke[*StoreHandle](i)
	storages := do.MustInvoke[*ImageStorages](i)
	processor := do.MustInvoke[*images.Processor](i)
	log := do.MustInvoke[*logger.Logger](i)

	svc := service.NewTryOnService(
		storeHandle.Store,
		fashionHandle.Client,
		storages.Avatars,
		storages.ItemPhotos,
		storages.TryOnResults,
		processor,
		log.Logger,
	)
	return &TryOnServiceHandle{Service: svc}, nil
}

// ProvideWeatherService provides the forecast service.
func ProvideWeatherService(i do.Injector) (*service.WeatherService, error) {
	weatherHandle := do.MustInvoke[*WeatherClientHandle](i)
	validator := do.MustInvoke[*validation.Validator](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewWeatherService(weatherHandle.Client, validator, log.Logger), nil
}
