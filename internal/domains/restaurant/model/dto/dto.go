package dto

import (
	"time"

	"github.com/google/uuid"

	"tavolo/internal/domains/restaurant/model"
	"tavolo/shared"
	gDto "tavolo/shared/dto"
	gModel "tavolo/shared/model"
)

type CreateRestaurantRequest struct {
	Name      string `json:"name"       validate:"required,max=100"`
	Location  string `json:"location"   validate:"omitempty,max=100"`
	Capacity  int    `json:"capacity"   validate:"required,min=1"`
	OpenTime  string `json:"open_time"  validate:"required,clocktime"`
	CloseTime string `json:"close_time" validate:"required,clocktime"`
	Active    *bool  `json:"active"     validate:"omitempty"`
}

func (c *CreateRestaurantRequest) ToModel(now time.Time) model.Restaurant {
	active := true
	if c.Active != nil {
		active = *c.Active
	}

	return model.Restaurant{
		ID:        uuid.NewString(),
		Name:      c.Name,
		Location:  c.Location,
		Capacity:  c.Capacity,
		OpenTime:  c.OpenTime,
		CloseTime: c.CloseTime,
		Active:    active,
		Metadata: gModel.Metadata{
			CreatedAt: now,
			UpdatedAt: now,
		},
	}
}

type UpdateRestaurantRequest struct {
	Name      string `db:"name"       json:"name"       validate:"omitempty,max=100"`
	Location  string `db:"location"   json:"location"   validate:"omitempty,max=100"`
	Capacity  *int   `db:"capacity"   json:"capacity"   validate:"omitempty,min=1"`
	OpenTime  string `db:"open_time"  json:"open_time"  validate:"omitempty,clocktime"`
	CloseTime string `db:"close_time" json:"close_time" validate:"omitempty,clocktime"`
	Active    *bool  `db:"active"     json:"active"     validate:"omitempty"`
}

type RestaurantResponse struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Location  string `json:"location"`
	Capacity  int    `json:"capacity"`
	OpenTime  string `json:"open_time"`
	CloseTime string `json:"close_time"`
	Active    bool   `json:"active"`
	gDto.Metadata
}

func (r *RestaurantResponse) FromModel(model model.Restaurant) {
	r.ID = model.ID
	r.Name = model.Name
	r.Location = model.Location
	r.Capacity = model.Capacity
	r.OpenTime = model.OpenTime
	r.CloseTime = model.CloseTime
	r.Active = model.Active
	r.Metadata.FromModel(model.Metadata)
}

type GetRestaurantsResponse struct {
	Restaurants []RestaurantResponse `json:"restaurants"`
	TotalPage   int                  `json:"total_page"`
	TotalData   int                  `json:"total_data"`
}

func (r *GetRestaurantsResponse) FromModels(models []model.Restaurant, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Restaurants = make([]RestaurantResponse, len(models))
	for i, mod := range models {
		r.Restaurants[i].FromModel(mod)
	}
}
