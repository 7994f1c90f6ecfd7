package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"tavolo/config"
	"tavolo/infras/otel"
	"tavolo/internal/domains/booking/availability"
	"tavolo/internal/domains/booking/lifecycle"
	"tavolo/internal/domains/booking/model"
	"tavolo/internal/domains/booking/model/dto"
	"tavolo/internal/domains/booking/repository"
	restaurantModel "tavolo/internal/domains/restaurant/model"
	restaurantRepo "tavolo/internal/domains/restaurant/repository"
	"tavolo/shared"
	"tavolo/shared/cache"
	"tavolo/shared/clock"
	"tavolo/shared/constant"
	gDto "tavolo/shared/dto"
	"tavolo/shared/failure"
	"tavolo/shared/keymutex"
	"tavolo/shared/notifier"
)

const (
	cacheGetBooking     = "booking:get"
	cacheGetAllBooking  = "booking:gets"
	cacheCountBooking   = "booking:count"
	cacheClientBookings = "booking:client"

	ViewUpcoming = "upcoming"
	ViewPast     = "past"
)

// DurationPolicy derives a dining window length from the party size. It is
// only consulted when a request carries a bare "HH:MM" start time instead of a
// full window.
type DurationPolicy func(guestCount int) time.Duration

// DefaultDurationPolicy gives larger parties longer windows.
func DefaultDurationPolicy(guestCount int) time.Duration {
	switch {
	case guestCount >= 8:
		return 150 * time.Minute
	case guestCount >= 5:
		return 2 * time.Hour
	default:
		return 90 * time.Minute
	}
}

type Booking interface {
	Create(ctx context.Context, req dto.CreateBookingRequest) (dto.BookingResponse, error)
	Get(ctx context.Context, id string) (dto.BookingResponse, error)
	GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (dto.GetBookingsResponse, error)
	Count(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (int, error)
	ApplyEvent(ctx context.Context, id string, event lifecycle.Event) (dto.BookingResponse, error)
	Update(ctx context.Context, req dto.UpdateBookingRequest, id string) error
	GetByClient(ctx context.Context, clientID, view string) (dto.GetBookingsResponse, error)
	CheckAvailability(ctx context.Context, req dto.AvailabilityRequest) (dto.AvailabilityResponse, error)
}

type serviceImpl struct {
	repo       repository.Booking
	restaurant restaurantRepo.Restaurant
	engine     availability.Engine
	cfg        *config.Config
	cache      cache.TieredCache
	clock      clock.Clock
	notifier   notifier.Notifier
	otel       otel.Otel
	locks      *keymutex.KeyMutex
	duration   DurationPolicy
}

func New(
	repo repository.Booking,
	restaurant restaurantRepo.Restaurant,
	engine availability.Engine,
	cfg *config.Config,
	cache cache.TieredCache,
	clock clock.Clock,
	notifier notifier.Notifier,
	otel otel.Otel,
) Booking {
	return &serviceImpl{
		repo:       repo,
		restaurant: restaurant,
		engine:     engine,
		cfg:        cfg,
		cache:      cache,
		clock:      clock,
		notifier:   notifier,
		otel:       otel,
		locks:      keymutex.New(),
		duration:   DefaultDurationPolicy,
	}
}

func (s *serviceImpl) cacheTTL() time.Duration {
	return time.Duration(s.cfg.Cache.TTL) * time.Second
}

// lockKey serialises bookings per restaurant and day. Locking per slot would
// miss overlapping windows with different strings, so the whole day is the
// unit of arbitration.
func lockKey(restaurantID string, date time.Time) string {
	return restaurantID + "|" + date.Format(constant.DayFormat)
}

// Create runs the full admission sequence: date, party size, window format,
// restaurant existence, working hours, then capacity under the day lock. The
// checks always run in that order so clients see one stable error per class of
// mistake.
func (s *serviceImpl) Create(ctx context.Context, req dto.CreateBookingRequest) (res dto.BookingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Create")
	defer scope.End()
	defer scope.TraceIfError(err)

	now := s.clock.Now()

	date, err := time.ParseInLocation(constant.DayFormat, req.Date, now.Location())
	if err != nil {
		return res, failure.BadRequestFromString(fmt.Sprintf("invalid date %q, expected YYYY-MM-DD", req.Date)) // nolint:wrapcheck
	}

	if !date.AddDate(0, 0, 1).After(now) {
		return res, failure.BadRequestFromString("date must be in the future") // nolint:wrapcheck
	}

	if req.GuestCount < s.cfg.Booking.MinGuests || req.GuestCount > s.cfg.Booking.MaxGuests {
		return res, failure.BadRequestFromString(fmt.Sprintf("guest_count must be between %d and %d", s.cfg.Booking.MinGuests, s.cfg.Booking.MaxGuests)) // nolint:wrapcheck
	}

	slot, err := s.parseWindow(req.TimeSlot, req.GuestCount)
	if err != nil {
		return res, err
	}

	startAt := date.Add(time.Duration(slot.Start) * time.Minute)
	if !startAt.After(now) {
		return res, failure.BadRequestFromString("booking must start in the future") // nolint:wrapcheck
	}

	restaurant, err := s.restaurant.Get(ctx, shared.FilterByID(req.RestaurantID, restaurantModel.FieldID, restaurantModel.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get restaurant")

		return res, fmt.Errorf("failed to get restaurant: %w", err)
	}

	if restaurant.ID == constant.Empty {
		return res, failure.NotFound("restaurant not found") // nolint:wrapcheck
	}

	if !restaurant.Active {
		return res, failure.BadRequestFromString("restaurant is not accepting bookings") // nolint:wrapcheck
	}

	hours, hoursErr := restaurant.Hours()
	if hoursErr != nil {
		log.Warn().Err(hoursErr).Str("restaurantID", restaurant.ID).Msg("skipping working-hours check: stored opening times are unparseable")
	} else if !slot.Within(hours.Open, hours.Close) {
		return res, failure.BadRequestFromString(fmt.Sprintf("time slot %s is outside working hours %s-%s", slot, restaurant.OpenTime, restaurant.CloseTime)) // nolint:wrapcheck
	}

	// The check and the insert must be atomic with respect to other requests
	// for the same restaurant and day.
	key := lockKey(req.RestaurantID, date)
	s.locks.Lock(key)
	defer s.locks.Unlock(key)

	check, err := s.engine.CheckAvailability(ctx, req.RestaurantID, date, slot, req.GuestCount)
	if err != nil {
		return res, err
	}

	if !check.Available {
		return res, &failure.CapacityExceededError{
			RestaurantID: req.RestaurantID,
			Date:         req.Date,
			TimeSlot:     slot.String(),
			Requested:    req.GuestCount,
			Booked:       check.Booked,
			Capacity:     check.Capacity,
		}
	}

	booking := req.ToModel(date, slot, now)

	if err = s.repo.Insert(ctx, booking); err != nil {
		log.Error().Err(err).Msg("failed to create booking")

		return res, fmt.Errorf("failed to create booking: %w", err)
	}

	// The stale booking list must be cleared before the lock is released,
	// otherwise the next admission under the same key reads a list missing
	// this insert.
	s.invalidate(ctx, booking)

	go func() {
		s.notifier.Emit(context.WithoutCancel(ctx), notifier.EventNewBooking, bookingPayload(booking))
	}()

	res.FromModel(booking)

	return res, nil
}

// parseWindow accepts either a full "HH:MM-HH:MM" window or a bare "HH:MM"
// start; the latter gets its end derived from the duration policy.
func (s *serviceImpl) parseWindow(value string, guestCount int) (model.Slot, error) {
	if strings.Contains(value, "-") {
		return model.ParseSlot(value)
	}

	start, err := model.ParseClock(value)
	if err != nil {
		return model.Slot{}, err
	}

	end := start + int(s.duration(guestCount).Minutes())
	if end > 24*60 {
		end = 24 * 60
	}

	return model.Slot{Start: start, End: end}, nil
}

func (s *serviceImpl) Get(ctx context.Context, id string) (res dto.BookingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Get")
	defer scope.End()
	defer scope.TraceIfError(err)

	cacheKey := shared.BuildCacheKey(cacheGetBooking, id)

	if s.cache.Load(ctx, cacheKey, &res) {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for booking")

		return res, nil
	}

	booking, err := s.repo.Get(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get booking")

		return res, fmt.Errorf("failed to get booking: %w", err)
	}

	if booking.ID == constant.Empty {
		return res, failure.NotFound("booking not found") // nolint:wrapcheck
	}

	res.FromModel(booking)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cacheTTL()); err != nil {
			log.Error().Err(err).Msg("failed to save booking to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res dto.GetBookingsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".GetAll")
	defer scope.End()
	defer scope.TraceIfError(err)

	cacheKey := shared.BuildCacheKeyWithQuery(cacheGetAllBooking, req, filter)

	if s.cache.Load(ctx, cacheKey, &res) {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for bookings")

		return res, nil
	}

	total, err := s.Count(ctx, req, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count bookings")

		return res, fmt.Errorf("failed to count bookings: %w", err)
	}

	models, err := s.repo.GetAll(ctx, req, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get bookings")

		return res, fmt.Errorf("failed to get bookings: %w", err)
	}

	res.FromModels(models, total, req.Limit)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cacheTTL()); err != nil {
			log.Error().Err(err).Msg("failed to save bookings to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) Count(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res int, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Count")
	defer scope.End()
	defer scope.TraceIfError(err)

	cacheKey := shared.BuildCacheKeyWithQuery(cacheCountBooking, req, filter)

	if s.cache.Load(ctx, cacheKey, &res) {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for booking count")

		return res, nil
	}

	res, err = s.repo.Count(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count bookings")

		return res, fmt.Errorf("failed to count bookings: %w", err)
	}

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cacheTTL()); err != nil {
			log.Error().Err(err).Msg("failed to save booking count to cache")
		}
	}()

	return res, nil
}

// ApplyEvent drives the booking lifecycle. Illegal events are rejected without
// touching the store, so replaying a cancel on an already-cancelled booking is
// an error, not a silent no-op.
func (s *serviceImpl) ApplyEvent(ctx context.Context, id string, event lifecycle.Event) (res dto.BookingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".ApplyEvent")
	defer scope.End()
	defer scope.TraceIfError(err)

	booking, err := s.repo.Get(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get booking")

		return res, fmt.Errorf("failed to get booking: %w", err)
	}

	if booking.ID == constant.Empty {
		return res, failure.NotFound("booking not found") // nolint:wrapcheck
	}

	key := lockKey(booking.RestaurantID, booking.BookingDate)
	s.locks.Lock(key)
	defer s.locks.Unlock(key)

	booking, err = lifecycle.Transition(booking, event, s.clock.Now())
	if err != nil {
		return res, err
	}

	fields := map[string]any{
		model.FieldStatus:       booking.Status,
		constant.FieldUpdatedAt: booking.UpdatedAt,
	}

	if err = s.repo.Update(ctx, fields, shared.FilterByID(id, model.FieldID, model.TableName)); err != nil {
		log.Error().Err(err).Msg("failed to update booking status")

		return res, fmt.Errorf("failed to update booking status: %w", err)
	}

	// Status changes move guests in and out of the capacity sum, so the cached
	// lists are cleared under the same lock the admission path takes.
	s.invalidate(ctx, booking)

	go func() {
		if eventType, ok := notification(event); ok {
			s.notifier.Emit(context.WithoutCancel(ctx), eventType, bookingPayload(booking))
		}
	}()

	res.FromModel(booking)

	return res, nil
}

func (s *serviceImpl) Update(ctx context.Context, req dto.UpdateBookingRequest, id string) error {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Update")
	defer scope.End()
	defer scope.TraceIfError(nil)

	if req == (dto.UpdateBookingRequest{}) {
		return failure.BadRequestFromString("update request cannot be empty") // nolint:wrapcheck
	}

	booking, err := s.repo.Get(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get booking")

		return fmt.Errorf("failed to get booking: %w", err)
	}

	if booking.ID == constant.Empty {
		return failure.NotFound("booking not found") // nolint:wrapcheck
	}

	now := s.clock.Now()
	grace := time.Duration(s.cfg.Booking.ModifyGraceMinutes) * time.Minute

	if !lifecycle.CanModify(booking, now, grace) {
		return failure.BadRequestFromString("booking can no longer be modified") // nolint:wrapcheck
	}

	updatedFields := shared.TransformFields(req, now)
	if err := s.repo.Update(ctx, updatedFields, shared.FilterByID(id, model.FieldID, model.TableName)); err != nil {
		log.Error().Err(err).Msg("failed to update booking")

		return fmt.Errorf("failed to update booking: %w", err)
	}

	go func() {
		c := context.WithoutCancel(ctx)

		s.invalidate(c, booking)
	}()

	return nil
}

// GetByClient returns a client's bookings, optionally narrowed to the
// "upcoming" or "past" view. Upcoming bookings are live and not yet started,
// soonest first; everything else is past, most recent first.
func (s *serviceImpl) GetByClient(ctx context.Context, clientID, view string) (res dto.GetBookingsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".GetByClient")
	defer scope.End()
	defer scope.TraceIfError(err)

	var bookings []model.Booking

	cacheKey := shared.BuildCacheKey(cacheClientBookings, clientID)

	if !s.cache.Load(ctx, cacheKey, &bookings) {
		bookings, err = s.repo.ListByClient(ctx, clientID)
		if err != nil {
			log.Error().Err(err).Msg("failed to list client bookings")

			return res, fmt.Errorf("failed to list client bookings: %w", err)
		}

		go func() {
			c := context.WithoutCancel(ctx)

			if err := s.cache.Save(c, cacheKey, bookings, s.cacheTTL()); err != nil {
				log.Error().Err(err).Msg("failed to save client bookings to cache")
			}
		}()
	}

	filtered := filterByView(bookings, view, s.clock.Now())

	res.FromModels(filtered, len(filtered), 0)

	return res, nil
}

func filterByView(bookings []model.Booking, view string, now time.Time) []model.Booking {
	filtered := make([]model.Booking, 0, len(bookings))

	for _, booking := range bookings {
		upcoming := booking.Status.Active() && booking.StartAt().After(now)

		switch view {
		case ViewUpcoming:
			if upcoming {
				filtered = append(filtered, booking)
			}
		case ViewPast:
			if !upcoming {
				filtered = append(filtered, booking)
			}
		default:
			filtered = append(filtered, booking)
		}
	}

	sort.SliceStable(filtered, func(i, j int) bool {
		if view == ViewPast {
			return filtered[i].StartAt().After(filtered[j].StartAt())
		}

		return filtered[i].StartAt().Before(filtered[j].StartAt())
	})

	return filtered
}

func (s *serviceImpl) CheckAvailability(ctx context.Context, req dto.AvailabilityRequest) (res dto.AvailabilityResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".CheckAvailability")
	defer scope.End()
	defer scope.TraceIfError(err)

	now := s.clock.Now()

	date, err := time.ParseInLocation(constant.DayFormat, req.Date, now.Location())
	if err != nil {
		return res, failure.BadRequestFromString(fmt.Sprintf("invalid date %q, expected YYYY-MM-DD", req.Date)) // nolint:wrapcheck
	}

	slot, err := s.parseWindow(req.TimeSlot, req.GuestCount)
	if err != nil {
		return res, err
	}

	check, err := s.engine.CheckAvailability(ctx, req.RestaurantID, date, slot, req.GuestCount)
	if err != nil {
		return res, err
	}

	return dto.AvailabilityResponse{
		Available: check.Available,
		Booked:    check.Booked,
		Capacity:  check.Capacity,
		TimeSlot:  slot.String(),
		Date:      req.Date,
	}, nil
}

func (s *serviceImpl) invalidate(ctx context.Context, booking model.Booking) {
	if err := s.cache.Remove(ctx, shared.BuildCacheKey(cacheGetBooking, booking.ID)); err != nil {
		log.Error().Err(err).Msg("failed to remove booking from cache")
	}

	shared.InvalidateCaches(ctx, s.cache, shared.BuildCacheKey(availability.CacheRestaurantBookings, booking.RestaurantID))
	shared.InvalidateCaches(ctx, s.cache, shared.BuildCacheKey(cacheClientBookings, booking.ClientID))
	shared.InvalidateCaches(ctx, s.cache, cacheGetAllBooking)
	shared.InvalidateCaches(ctx, s.cache, cacheCountBooking)
}

func notification(event lifecycle.Event) (string, bool) {
	switch event {
	case lifecycle.EventConfirm:
		return notifier.EventBookingConfirmed, true
	case lifecycle.EventCancel:
		return notifier.EventBookingCancelled, true
	default:
		return "", false
	}
}

func bookingPayload(booking model.Booking) map[string]any {
	return map[string]any{
		"booking_id":    booking.ID,
		"restaurant_id": booking.RestaurantID,
		"client_id":     booking.ClientID,
		"date":          booking.BookingDate.Format(constant.DayFormat),
		"time_slot":     booking.TimeSlot,
		"guest_count":   booking.GuestCount,
		"status":        string(booking.Status),
	}
}
