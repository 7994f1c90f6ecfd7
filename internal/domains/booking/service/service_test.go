package service_test

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"tavolo/config"
	"tavolo/infras/otel/mocks"
	"tavolo/internal/domains/booking/availability"
	"tavolo/internal/domains/booking/lifecycle"
	bookingMocks "tavolo/internal/domains/booking/mocks"
	"tavolo/internal/domains/booking/model"
	"tavolo/internal/domains/booking/model/dto"
	"tavolo/internal/domains/booking/service"
	restaurantMocks "tavolo/internal/domains/restaurant/mocks"
	restaurantModel "tavolo/internal/domains/restaurant/model"
	"tavolo/shared"
	"tavolo/shared/cache"
	cacheMocks "tavolo/shared/cache/mocks"
	"tavolo/shared/clock"
	"tavolo/shared/failure"
	notifierMocks "tavolo/shared/notifier/mocks"
)

type harness struct {
	svc        service.Booking
	repo       *bookingMocks.MockBooking
	restaurant *restaurantMocks.MockRestaurant
	cache      *cacheMocks.MockTieredCache
	notifier   *notifierMocks.MockNotifier
	clk        *clock.Mock
	cfg        *config.Config
}

// newHarness wires the service against a real availability engine; only the
// store, cache and sink are mocked.
func newHarness(ctrl *gomock.Controller) *harness {
	mockRepo := bookingMocks.NewMockBooking(ctrl)
	mockRestaurant := restaurantMocks.NewMockRestaurant(ctrl)
	mockCache := cacheMocks.NewMockTieredCache(ctrl)
	mockNotifier := notifierMocks.NewMockNotifier(ctrl)
	mockOtel := mocks.NewOtel()
	clk := clock.NewMock(time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC))

	cfg := &config.Config{}
	cfg.Cache.TTL = 3600
	cfg.Booking.DefaultCapacity = 50
	cfg.Booking.MinGuests = 1
	cfg.Booking.MaxGuests = 20
	cfg.Booking.ModifyGraceMinutes = 60

	engine := availability.New(mockRepo, mockRestaurant, cfg, mockCache, mockOtel)
	svc := service.New(mockRepo, mockRestaurant, engine, cfg, mockCache, clk, mockNotifier, mockOtel)

	mockCache.EXPECT().Load(gomock.Any(), gomock.Any(), gomock.Any()).Return(false).AnyTimes()
	mockCache.EXPECT().Save(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	mockCache.EXPECT().Remove(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	mockCache.EXPECT().Clear(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	mockNotifier.EXPECT().Emit(gomock.Any(), gomock.Any(), gomock.Any()).AnyTimes()

	return &harness{
		svc:        svc,
		repo:       mockRepo,
		restaurant: mockRestaurant,
		cache:      mockCache,
		notifier:   mockNotifier,
		clk:        clk,
		cfg:        cfg,
	}
}

func openRestaurant() restaurantModel.Restaurant {
	return restaurantModel.Restaurant{
		ID:        "restaurant-1",
		Name:      "Trattoria Da Mario",
		Capacity:  50,
		OpenTime:  "11:00",
		CloseTime: "23:00",
		Active:    true,
	}
}

func validRequest() dto.CreateBookingRequest {
	return dto.CreateBookingRequest{
		RestaurantID: "restaurant-1",
		ClientID:     "client-1",
		ClientName:   "Ada",
		Date:         "2026-09-12",
		TimeSlot:     "19:00-21:00",
		GuestCount:   4,
	}
}

func TestBookingService_Create(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(req *dto.CreateBookingRequest)
		setupMock func(h *harness)
		wantErr   string
	}{
		{
			name:   "successful booking",
			mutate: func(req *dto.CreateBookingRequest) {},
			setupMock: func(h *harness) {
				h.restaurant.EXPECT().Get(gomock.Any(), gomock.Any()).Return(openRestaurant(), nil).Times(2)
				h.repo.EXPECT().ListByRestaurant(gomock.Any(), "restaurant-1").Return(nil, nil)
				h.repo.EXPECT().Insert(gomock.Any(), gomock.Any()).Return(nil)
			},
		},
		{
			name: "past date rejected before anything else",
			mutate: func(req *dto.CreateBookingRequest) {
				req.Date = "2026-08-15"
				req.GuestCount = 99
				req.TimeSlot = "nonsense"
			},
			setupMock: func(h *harness) {},
			wantErr:   "date must be in the future",
		},
		{
			name: "guest count checked before the window format",
			mutate: func(req *dto.CreateBookingRequest) {
				req.GuestCount = 99
				req.TimeSlot = "nonsense"
			},
			setupMock: func(h *harness) {},
			wantErr:   "guest_count must be between 1 and 20",
		},
		{
			name: "window format checked before the restaurant lookup",
			mutate: func(req *dto.CreateBookingRequest) {
				req.TimeSlot = "nonsense"
			},
			setupMock: func(h *harness) {},
			wantErr:   "invalid time",
		},
		{
			name: "booking for today must still be ahead of the clock",
			mutate: func(req *dto.CreateBookingRequest) {
				req.Date = "2026-09-01"
				req.TimeSlot = "09:00-10:00"
			},
			setupMock: func(h *harness) {},
			wantErr:   "booking must start in the future",
		},
		{
			name:   "unknown restaurant",
			mutate: func(req *dto.CreateBookingRequest) {},
			setupMock: func(h *harness) {
				h.restaurant.EXPECT().Get(gomock.Any(), gomock.Any()).Return(restaurantModel.Restaurant{}, nil)
			},
			wantErr: "restaurant not found",
		},
		{
			name:   "inactive restaurant",
			mutate: func(req *dto.CreateBookingRequest) {},
			setupMock: func(h *harness) {
				closed := openRestaurant()
				closed.Active = false
				h.restaurant.EXPECT().Get(gomock.Any(), gomock.Any()).Return(closed, nil)
			},
			wantErr: "not accepting bookings",
		},
		{
			name:   "unparseable working hours do not block admission",
			mutate: func(req *dto.CreateBookingRequest) {},
			setupMock: func(h *harness) {
				broken := openRestaurant()
				broken.OpenTime = "soon"
				h.restaurant.EXPECT().Get(gomock.Any(), gomock.Any()).Return(broken, nil).Times(2)
				h.repo.EXPECT().ListByRestaurant(gomock.Any(), "restaurant-1").Return(nil, nil)
				h.repo.EXPECT().Insert(gomock.Any(), gomock.Any()).Return(nil)
			},
		},
		{
			name: "window outside working hours",
			mutate: func(req *dto.CreateBookingRequest) {
				req.TimeSlot = "22:00-23:30"
			},
			setupMock: func(h *harness) {
				h.restaurant.EXPECT().Get(gomock.Any(), gomock.Any()).Return(openRestaurant(), nil)
			},
			wantErr: "outside working hours",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			h := newHarness(ctrl)
			tt.setupMock(h)

			req := validRequest()
			tt.mutate(&req)

			res, err := h.svc.Create(context.Background(), req)

			if tt.wantErr != "" {
				assert.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}

			assert.NoError(t, err)
			assert.NotEmpty(t, res.ID)
			assert.Equal(t, string(model.StatusPending), res.Status)
			assert.Equal(t, string(model.PaymentUnpaid), res.PaymentStatus)
		})
	}
}

func TestBookingService_CreateCapacityBoundary(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	h := newHarness(ctrl)

	// 45 of 50 seats already committed in the requested window.
	existing := []model.Booking{
		{
			ID:           "booking-a",
			RestaurantID: "restaurant-1",
			BookingDate:  time.Date(2026, 9, 12, 0, 0, 0, 0, time.UTC),
			TimeSlot:     "19:00-21:00",
			GuestCount:   45,
			Status:       model.StatusConfirmed,
		},
	}

	h.restaurant.EXPECT().Get(gomock.Any(), gomock.Any()).Return(openRestaurant(), nil).Times(2)
	h.repo.EXPECT().ListByRestaurant(gomock.Any(), "restaurant-1").Return(existing, nil)

	req := validRequest()
	req.GuestCount = 5

	_, err := h.svc.Create(context.Background(), req)

	assert.Error(t, err)

	var capErr *failure.CapacityExceededError
	assert.ErrorAs(t, err, &capErr)
	assert.Equal(t, 5, capErr.Requested)
	assert.Equal(t, 45, capErr.Booked)
	assert.Equal(t, 50, capErr.Capacity)
	assert.Equal(t, http.StatusConflict, failure.GetCode(err))
}

// Two concurrent requests race for the last seats; the day lock must let
// exactly one of each conflicting pair through.
func TestBookingService_ConcurrentCreates(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	h := newHarness(ctrl)

	var mu sync.Mutex
	var stored []model.Booking

	h.restaurant.EXPECT().Get(gomock.Any(), gomock.Any()).Return(openRestaurant(), nil).AnyTimes()
	h.repo.EXPECT().ListByRestaurant(gomock.Any(), "restaurant-1").DoAndReturn(
		func(ctx context.Context, restaurantID string) ([]model.Booking, error) {
			mu.Lock()
			defer mu.Unlock()

			out := make([]model.Booking, len(stored))
			copy(out, stored)

			return out, nil
		}).AnyTimes()
	h.repo.EXPECT().Insert(gomock.Any(), gomock.Any()).DoAndReturn(
		func(ctx context.Context, booking model.Booking) error {
			mu.Lock()
			defer mu.Unlock()

			stored = append(stored, booking)

			return nil
		}).AnyTimes()

	const workers = 10

	var wg sync.WaitGroup
	results := make([]error, workers)

	for i := range workers {
		wg.Add(1)

		go func(i int) {
			defer wg.Done()

			req := validRequest()
			req.ClientID = "client-1"
			req.GuestCount = 8

			_, results[i] = h.svc.Create(context.Background(), req)
		}(i)
	}

	wg.Wait()

	granted := 0
	for _, err := range results {
		if err == nil {
			granted++
			continue
		}

		var capErr *failure.CapacityExceededError
		assert.ErrorAs(t, err, &capErr)
	}

	// 8 guests per booking against 50 seats: grants stop once another party
	// would reach the capacity.
	assert.Equal(t, 6, granted)

	total := 0
	for _, booking := range stored {
		total += booking.GuestCount
	}
	assert.Less(t, total, 50)
}

// memStore is a map-backed PersistentStore so admission tests can run against
// the real tiered cache instead of an always-missing mock.
type memStore struct {
	mu   sync.Mutex
	data map[string][]byte
}

func newMemStore() *memStore {
	return &memStore{data: map[string][]byte{}}
}

func (s *memStore) Get(_ context.Context, key string) ([]byte, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	raw, ok := s.data[key]

	return raw, ok, nil
}

func (s *memStore) Set(_ context.Context, key string, raw []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.data[key] = raw

	return nil
}

func (s *memStore) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.data, key)

	return nil
}

func (s *memStore) Keys(_ context.Context, prefix string) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var keys []string
	for key := range s.data {
		if strings.HasPrefix(key, prefix) {
			keys = append(keys, key)
		}
	}

	return keys, nil
}

// A granted admission must leave no cached booking list behind: the admission
// path caches the list it read, and a list written before the insert is stale
// the moment the insert commits. If the clear does not land before Create
// returns, the next admission under the same day lock reads counts missing
// committed bookings and over-books.
func TestBookingService_CreateClearsAdmissionCache(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := bookingMocks.NewMockBooking(ctrl)
	mockRestaurant := restaurantMocks.NewMockRestaurant(ctrl)
	mockNotifier := notifierMocks.NewMockNotifier(ctrl)
	mockOtel := mocks.NewOtel()
	clk := clock.NewMock(time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC))

	cfg := &config.Config{}
	cfg.Cache.TTL = 3600
	cfg.Cache.Memory.MaxEntries = 100
	cfg.Cache.Memory.MaxSizeMB = 8
	cfg.Booking.DefaultCapacity = 50
	cfg.Booking.MinGuests = 1
	cfg.Booking.MaxGuests = 20

	tiered := cache.NewTieredCache(newMemStore(), cfg, clk, mockOtel)
	engine := availability.New(mockRepo, mockRestaurant, cfg, tiered, mockOtel)
	svc := service.New(mockRepo, mockRestaurant, engine, cfg, tiered, clk, mockNotifier, mockOtel)

	mockNotifier.EXPECT().Emit(gomock.Any(), gomock.Any(), gomock.Any()).AnyTimes()
	mockRestaurant.EXPECT().Get(gomock.Any(), gomock.Any()).Return(openRestaurant(), nil).AnyTimes()

	var mu sync.Mutex
	var stored []model.Booking

	mockRepo.EXPECT().ListByRestaurant(gomock.Any(), "restaurant-1").DoAndReturn(
		func(ctx context.Context, restaurantID string) ([]model.Booking, error) {
			mu.Lock()
			defer mu.Unlock()

			out := make([]model.Booking, len(stored))
			copy(out, stored)

			return out, nil
		}).AnyTimes()
	mockRepo.EXPECT().Insert(gomock.Any(), gomock.Any()).DoAndReturn(
		func(ctx context.Context, booking model.Booking) error {
			mu.Lock()
			defer mu.Unlock()

			stored = append(stored, booking)

			return nil
		}).AnyTimes()

	listKey := shared.BuildCacheKey(availability.CacheRestaurantBookings, "restaurant-1")

	// Three parties of 18 against 50 seats: the first two fit, the third
	// must see 36 committed guests, not the empty list the first admission
	// cached.
	for i := 1; i <= 2; i++ {
		req := validRequest()
		req.ClientID = fmt.Sprintf("client-%d", i)
		req.GuestCount = 18

		_, err := svc.Create(context.Background(), req)
		assert.NoError(t, err)

		var cached []model.Booking
		assert.False(t, tiered.Load(context.Background(), listKey, &cached), "booking list still cached after create %d", i)
	}

	req := validRequest()
	req.ClientID = "client-3"
	req.GuestCount = 18

	_, err := svc.Create(context.Background(), req)

	var capErr *failure.CapacityExceededError
	assert.ErrorAs(t, err, &capErr)
	assert.Equal(t, 36, capErr.Booked)
	assert.Equal(t, 50, capErr.Capacity)

	total := 0
	for _, booking := range stored {
		total += booking.GuestCount
	}
	assert.Less(t, total, 50)
}

func TestBookingService_ApplyEvent(t *testing.T) {
	pending := model.Booking{
		ID:           "booking-1",
		RestaurantID: "restaurant-1",
		ClientID:     "client-1",
		BookingDate:  time.Date(2026, 9, 12, 0, 0, 0, 0, time.UTC),
		TimeSlot:     "19:00-21:00",
		GuestCount:   4,
		Status:       model.StatusPending,
	}

	tests := []struct {
		name     string
		from     model.Status
		event    lifecycle.Event
		want     model.Status
		wantCode int
	}{
		{name: "confirm pending", from: model.StatusPending, event: lifecycle.EventConfirm, want: model.StatusConfirmed},
		{name: "complete confirmed", from: model.StatusConfirmed, event: lifecycle.EventComplete, want: model.StatusCompleted},
		{name: "cancel confirmed", from: model.StatusConfirmed, event: lifecycle.EventCancel, want: model.StatusCancelled},
		{name: "cancel twice", from: model.StatusCancelled, event: lifecycle.EventCancel, wantCode: http.StatusUnprocessableEntity},
		{name: "complete pending", from: model.StatusPending, event: lifecycle.EventComplete, wantCode: http.StatusUnprocessableEntity},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			h := newHarness(ctrl)

			booking := pending
			booking.Status = tt.from

			h.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(booking, nil)

			if tt.wantCode == 0 {
				h.repo.EXPECT().Update(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
			}

			res, err := h.svc.ApplyEvent(context.Background(), booking.ID, tt.event)

			if tt.wantCode != 0 {
				assert.Error(t, err)
				assert.Equal(t, tt.wantCode, failure.GetCode(err))
				return
			}

			assert.NoError(t, err)
			assert.Equal(t, string(tt.want), res.Status)
		})
	}
}

func TestBookingService_ApplyEventNotFound(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	h := newHarness(ctrl)

	h.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.Booking{}, nil)

	_, err := h.svc.ApplyEvent(context.Background(), "missing", lifecycle.EventCancel)

	assert.Error(t, err)
	assert.Equal(t, http.StatusNotFound, failure.GetCode(err))
}

func TestBookingService_Update(t *testing.T) {
	confirmed := model.Booking{
		ID:           "booking-1",
		RestaurantID: "restaurant-1",
		ClientID:     "client-1",
		BookingDate:  time.Date(2026, 9, 12, 0, 0, 0, 0, time.UTC),
		TimeSlot:     "19:00-21:00",
		GuestCount:   4,
		Status:       model.StatusConfirmed,
	}

	tests := []struct {
		name      string
		booking   model.Booking
		at        time.Time
		setupMock func(h *harness, booking model.Booking)
		wantErr   bool
	}{
		{
			name:    "update well before the window",
			booking: confirmed,
			at:      time.Date(2026, 9, 12, 12, 0, 0, 0, time.UTC),
			setupMock: func(h *harness, booking model.Booking) {
				h.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(booking, nil)
				h.repo.EXPECT().Update(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
			},
		},
		{
			name:    "update inside the grace period",
			booking: confirmed,
			at:      time.Date(2026, 9, 12, 18, 30, 0, 0, time.UTC),
			setupMock: func(h *harness, booking model.Booking) {
				h.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(booking, nil)
			},
			wantErr: true,
		},
		{
			name: "update cancelled booking",
			booking: func() model.Booking {
				b := confirmed
				b.Status = model.StatusCancelled
				return b
			}(),
			at: time.Date(2026, 9, 12, 12, 0, 0, 0, time.UTC),
			setupMock: func(h *harness, booking model.Booking) {
				h.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(booking, nil)
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			h := newHarness(ctrl)
			h.clk.Set(tt.at)
			tt.setupMock(h, tt.booking)

			err := h.svc.Update(context.Background(), dto.UpdateBookingRequest{SpecialRequests: "window table"}, tt.booking.ID)

			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestBookingService_GetByClient(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	h := newHarness(ctrl)

	day := func(d int) time.Time { return time.Date(2026, 9, d, 0, 0, 0, 0, time.UTC) }

	bookings := []model.Booking{
		{ID: "old", ClientID: "client-1", BookingDate: day(1), TimeSlot: "08:00-09:00", Status: model.StatusCompleted, GuestCount: 2},
		{ID: "cancelled", ClientID: "client-1", BookingDate: day(20), TimeSlot: "19:00-21:00", Status: model.StatusCancelled, GuestCount: 2},
		{ID: "soon", ClientID: "client-1", BookingDate: day(5), TimeSlot: "19:00-21:00", Status: model.StatusConfirmed, GuestCount: 2},
		{ID: "later", ClientID: "client-1", BookingDate: day(15), TimeSlot: "19:00-21:00", Status: model.StatusPending, GuestCount: 2},
	}

	h.repo.EXPECT().ListByClient(gomock.Any(), "client-1").Return(bookings, nil).Times(2)

	upcoming, err := h.svc.GetByClient(context.Background(), "client-1", service.ViewUpcoming)
	assert.NoError(t, err)
	assert.Len(t, upcoming.Bookings, 2)
	assert.Equal(t, "soon", upcoming.Bookings[0].ID)
	assert.Equal(t, "later", upcoming.Bookings[1].ID)

	past, err := h.svc.GetByClient(context.Background(), "client-1", service.ViewPast)
	assert.NoError(t, err)
	assert.Len(t, past.Bookings, 2)
	assert.Equal(t, "cancelled", past.Bookings[0].ID)
	assert.Equal(t, "old", past.Bookings[1].ID)
}

func TestBookingService_BareStartUsesDurationPolicy(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	h := newHarness(ctrl)

	var inserted model.Booking

	h.restaurant.EXPECT().Get(gomock.Any(), gomock.Any()).Return(openRestaurant(), nil).Times(2)
	h.repo.EXPECT().ListByRestaurant(gomock.Any(), "restaurant-1").Return(nil, nil)
	h.repo.EXPECT().Insert(gomock.Any(), gomock.Any()).DoAndReturn(
		func(ctx context.Context, booking model.Booking) error {
			inserted = booking
			return nil
		})

	req := validRequest()
	req.TimeSlot = "19:00"
	req.GuestCount = 6

	_, err := h.svc.Create(context.Background(), req)

	assert.NoError(t, err)
	assert.Equal(t, "19:00-21:00", inserted.TimeSlot)
}

func TestBookingService_CheckAvailability(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	h := newHarness(ctrl)

	h.restaurant.EXPECT().Get(gomock.Any(), gomock.Any()).Return(openRestaurant(), nil)
	h.repo.EXPECT().ListByRestaurant(gomock.Any(), "restaurant-1").Return([]model.Booking{
		{
			ID:           "booking-a",
			RestaurantID: "restaurant-1",
			BookingDate:  time.Date(2026, 9, 12, 0, 0, 0, 0, time.UTC),
			TimeSlot:     "19:00-21:00",
			GuestCount:   30,
			Status:       model.StatusConfirmed,
		},
	}, nil)

	res, err := h.svc.CheckAvailability(context.Background(), dto.AvailabilityRequest{
		RestaurantID: "restaurant-1",
		Date:         "2026-09-12",
		TimeSlot:     "19:00-21:00",
		GuestCount:   4,
	})

	assert.NoError(t, err)
	assert.True(t, res.Available)
	assert.Equal(t, 30, res.Booked)
	assert.Equal(t, 50, res.Capacity)

	_, err = h.svc.CheckAvailability(context.Background(), dto.AvailabilityRequest{
		RestaurantID: "restaurant-1",
		Date:         "not-a-date",
		TimeSlot:     "19:00-21:00",
		GuestCount:   4,
	})
	assert.Error(t, err)
}
