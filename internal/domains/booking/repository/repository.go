package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"

	"tavolo/infras/otel"
	"tavolo/infras/postgres"
	"tavolo/internal/domains/booking/model"
	gDto "tavolo/shared/dto"
	gRepo "tavolo/shared/repository"
)

type Booking interface {
	Insert(ctx context.Context, model model.Booking) error
	Get(ctx context.Context, filter gDto.FilterGroup, columns ...string) (model.Booking, error)
	GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup, columns ...string) ([]model.Booking, error)
	Exist(ctx context.Context, filter gDto.FilterGroup) (bool, error)
	Count(ctx context.Context, filter gDto.FilterGroup) (int, error)
	Update(ctx context.Context, req map[string]any, filter gDto.FilterGroup) error
	ListByRestaurant(ctx context.Context, restaurantID string) ([]model.Booking, error)
	ListByClient(ctx context.Context, clientID string) ([]model.Booking, error)
}

type repositoryImpl struct {
	gRepo.Repository[model.Booking]
	db   *postgres.Connection
	otel otel.Otel
}

func New(db *postgres.Connection, otel otel.Otel) Booking {
	return &repositoryImpl{
		Repository: gRepo.NewRepository[model.Booking](model.EntityName, model.TableName, model.FieldID, db, otel),
		db:         db,
		otel:       otel,
	}
}

// ListByRestaurant returns every booking for the restaurant, regardless of
// status or date. Callers filter to the day and window they care about.
func (r *repositoryImpl) ListByRestaurant(ctx context.Context, restaurantID string) ([]model.Booking, error) {
	filter := gDto.FilterGroup{
		Filters: []any{
			gDto.Filter{
				Field:    model.FieldRestaurantID,
				Value:    restaurantID,
				Operator: gDto.FilterOperatorEq,
				Table:    model.TableName,
			},
		},
	}

	return r.GetAll(ctx, gDto.QueryParams{}, filter)
}

// ListByClient returns every booking made by the client.
func (r *repositoryImpl) ListByClient(ctx context.Context, clientID string) ([]model.Booking, error) {
	filter := gDto.FilterGroup{
		Filters: []any{
			gDto.Filter{
				Field:    model.FieldClientID,
				Value:    clientID,
				Operator: gDto.FilterOperatorEq,
				Table:    model.TableName,
			},
		},
	}

	return r.GetAll(ctx, gDto.QueryParams{}, filter)
}
