package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"tavolo/config"
	"tavolo/infras/otel/mocks"
	restaurantMocks "tavolo/internal/domains/restaurant/mocks"
	"tavolo/internal/domains/restaurant/model"
	"tavolo/internal/domains/restaurant/model/dto"
	"tavolo/internal/domains/restaurant/service"
	cacheMocks "tavolo/shared/cache/mocks"
	"tavolo/shared/clock"
	"tavolo/shared/failure"
	gModel "tavolo/shared/model"
)

func TestRestaurantService_Create(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := restaurantMocks.NewMockRestaurant(ctrl)
	mockCache := cacheMocks.NewMockTieredCache(ctrl)
	mockOtel := mocks.NewOtel()
	clk := clock.NewMock(time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC))

	cfg := &config.Config{}
	cfg.Cache.TTL = 3600

	svc := service.New(mockRepo, cfg, mockCache, clk, mockOtel)

	mockCache.EXPECT().Clear(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

	tests := []struct {
		name      string
		req       dto.CreateRestaurantRequest
		setupMock func()
		wantErr   bool
	}{
		{
			name: "successful creation",
			req: dto.CreateRestaurantRequest{
				Name:      "Trattoria Da Mario",
				Capacity:  50,
				OpenTime:  "11:00",
				CloseTime: "23:00",
			},
			setupMock: func() {
				mockRepo.EXPECT().
					Insert(gomock.Any(), gomock.Any()).
					Return(nil)
			},
			wantErr: false,
		},
		{
			name: "close before open",
			req: dto.CreateRestaurantRequest{
				Name:      "Trattoria Da Mario",
				Capacity:  50,
				OpenTime:  "23:00",
				CloseTime: "11:00",
			},
			setupMock: func() {},
			wantErr:   true,
		},
		{
			name: "repository error",
			req: dto.CreateRestaurantRequest{
				Name:      "Trattoria Da Mario",
				Capacity:  50,
				OpenTime:  "11:00",
				CloseTime: "23:00",
			},
			setupMock: func() {
				mockRepo.EXPECT().
					Insert(gomock.Any(), gomock.Any()).
					Return(errors.New("database error"))
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setupMock()

			err := svc.Create(context.Background(), tt.req)

			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestRestaurantService_Get(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := restaurantMocks.NewMockRestaurant(ctrl)
	mockCache := cacheMocks.NewMockTieredCache(ctrl)
	mockOtel := mocks.NewOtel()
	clk := clock.NewMock(time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC))

	cfg := &config.Config{}
	cfg.Cache.TTL = 3600

	svc := service.New(mockRepo, cfg, mockCache, clk, mockOtel)

	mockCache.EXPECT().Load(gomock.Any(), gomock.Any(), gomock.Any()).Return(false).AnyTimes()
	mockCache.EXPECT().Save(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

	existing := model.Restaurant{
		ID:        "restaurant-1",
		Name:      "Trattoria Da Mario",
		Capacity:  50,
		OpenTime:  "11:00",
		CloseTime: "23:00",
		Active:    true,
		Metadata: gModel.Metadata{
			CreatedAt: clk.Now(),
			UpdatedAt: clk.Now(),
		},
	}

	tests := []struct {
		name      string
		id        string
		setupMock func()
		wantErr   bool
		wantCode  int
	}{
		{
			name: "found",
			id:   "restaurant-1",
			setupMock: func() {
				mockRepo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(existing, nil)
			},
			wantErr: false,
		},
		{
			name: "not found",
			id:   "missing",
			setupMock: func() {
				mockRepo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(model.Restaurant{}, nil)
			},
			wantErr:  true,
			wantCode: 404,
		},
		{
			name: "repository error",
			id:   "restaurant-1",
			setupMock: func() {
				mockRepo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(model.Restaurant{}, errors.New("database error"))
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setupMock()

			res, err := svc.Get(context.Background(), tt.id)

			if tt.wantErr {
				assert.Error(t, err)
				if tt.wantCode != 0 {
					assert.Equal(t, tt.wantCode, failure.GetCode(err))
				}
				return
			}

			assert.NoError(t, err)
			assert.Equal(t, existing.ID, res.ID)
			assert.Equal(t, existing.Capacity, res.Capacity)
		})
	}
}

func TestRestaurantService_Update(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := restaurantMocks.NewMockRestaurant(ctrl)
	mockCache := cacheMocks.NewMockTieredCache(ctrl)
	mockOtel := mocks.NewOtel()
	clk := clock.NewMock(time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC))

	cfg := &config.Config{}
	cfg.Cache.TTL = 3600

	svc := service.New(mockRepo, cfg, mockCache, clk, mockOtel)

	mockCache.EXPECT().Remove(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	mockCache.EXPECT().Clear(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

	capacity := 80

	tests := []struct {
		name      string
		req       dto.UpdateRestaurantRequest
		setupMock func()
		wantErr   bool
	}{
		{
			name: "successful update",
			req:  dto.UpdateRestaurantRequest{Capacity: &capacity},
			setupMock: func() {
				mockRepo.EXPECT().
					Exist(gomock.Any(), gomock.Any()).
					Return(true, nil)
				mockRepo.EXPECT().
					Update(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(nil)
			},
			wantErr: false,
		},
		{
			name:      "empty request",
			req:       dto.UpdateRestaurantRequest{},
			setupMock: func() {},
			wantErr:   true,
		},
		{
			name: "restaurant missing",
			req:  dto.UpdateRestaurantRequest{Capacity: &capacity},
			setupMock: func() {
				mockRepo.EXPECT().
					Exist(gomock.Any(), gomock.Any()).
					Return(false, nil)
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setupMock()

			err := svc.Update(context.Background(), tt.req, "restaurant-1")

			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
