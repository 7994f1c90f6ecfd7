package availability

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"tavolo/config"
	"tavolo/infras/otel"
	"tavolo/internal/domains/booking/model"
	"tavolo/internal/domains/booking/repository"
	restaurantModel "tavolo/internal/domains/restaurant/model"
	restaurantRepo "tavolo/internal/domains/restaurant/repository"
	"tavolo/shared"
	"tavolo/shared/cache"
	"tavolo/shared/constant"
	"tavolo/shared/failure"
)

// CacheRestaurantBookings is the cache prefix for per-restaurant booking
// lists. Anything that mutates a booking must clear it.
const CacheRestaurantBookings = "booking:restaurant"

// Result is the outcome of a capacity check. Booked counts guests from live
// bookings overlapping the requested window on the requested day.
type Result struct {
	Available bool
	Booked    int
	Capacity  int
}

// Engine arbitrates seating capacity. A request is granted only when the
// already-committed guests plus the requested party stay strictly under the
// restaurant's capacity; pending and confirmed bookings both count, cancelled,
// completed and no-show ones never do.
type Engine interface {
	CheckAvailability(ctx context.Context, restaurantID string, date time.Time, slot model.Slot, guestCount int) (Result, error)
}

type engineImpl struct {
	repo       repository.Booking
	restaurant restaurantRepo.Restaurant
	cfg        *config.Config
	cache      cache.TieredCache
	otel       otel.Otel
}

func New(repo repository.Booking, restaurant restaurantRepo.Restaurant, cfg *config.Config, cache cache.TieredCache, otel otel.Otel) Engine {
	return &engineImpl{
		repo:       repo,
		restaurant: restaurant,
		cfg:        cfg,
		cache:      cache,
		otel:       otel,
	}
}

func (e *engineImpl) CheckAvailability(ctx context.Context, restaurantID string, date time.Time, slot model.Slot, guestCount int) (res Result, err error) {
	ctx, scope := e.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".CheckAvailability")
	defer scope.End()
	defer scope.TraceIfError(err)

	capacity, err := e.capacity(ctx, restaurantID)
	if err != nil {
		return res, err
	}

	bookings, err := e.restaurantBookings(ctx, restaurantID)
	if err != nil {
		return res, err
	}

	booked := 0

	for i := range bookings {
		booking := &bookings[i]

		if !booking.Status.Active() || !booking.SameDay(date) {
			continue
		}

		existing, err := model.ParseSlot(booking.TimeSlot)
		if err != nil {
			log.Warn().Str("bookingID", booking.ID).Str("timeSlot", booking.TimeSlot).Msg("skipping booking with unparseable time slot")

			continue
		}

		if existing.Overlaps(slot) {
			booked += booking.GuestCount
		}
	}

	return Result{
		Available: booked+guestCount < capacity,
		Booked:    booked,
		Capacity:  capacity,
	}, nil
}

func (e *engineImpl) capacity(ctx context.Context, restaurantID string) (int, error) {
	restaurant, err := e.restaurant.Get(ctx, shared.FilterByID(restaurantID, restaurantModel.FieldID, restaurantModel.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get restaurant for availability check")

		return 0, fmt.Errorf("failed to get restaurant: %w", err)
	}

	if restaurant.ID == constant.Empty {
		return 0, failure.NotFound("restaurant not found") // nolint:wrapcheck
	}

	if restaurant.Capacity <= 0 {
		return e.cfg.Booking.DefaultCapacity, nil
	}

	return restaurant.Capacity, nil
}

func (e *engineImpl) restaurantBookings(ctx context.Context, restaurantID string) (bookings []model.Booking, err error) {
	cacheKey := shared.BuildCacheKey(CacheRestaurantBookings, restaurantID)

	if e.cache.Load(ctx, cacheKey, &bookings) {
		return bookings, nil
	}

	bookings, err = e.repo.ListByRestaurant(ctx, restaurantID)
	if err != nil {
		log.Error().Err(err).Msg("failed to list bookings for availability check")

		return nil, fmt.Errorf("failed to list bookings: %w", err)
	}

	// The save completes before returning so a caller that clears this key
	// under the admission lock cannot be outrun by a late write.
	if err := e.cache.Save(ctx, cacheKey, bookings, time.Duration(e.cfg.Cache.TTL)*time.Second); err != nil {
		log.Error().Err(err).Msg("failed to save restaurant bookings to cache")
	}

	return bookings, nil
}
