package dto

import (
	"tavolo/shared/constant"
	"tavolo/shared/model"
)

type Metadata struct {
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

func (m *Metadata) FromModel(model model.Metadata) {
	m.CreatedAt = model.CreatedAt.Format(constant.DateFormat)
	m.UpdatedAt = model.UpdatedAt.Format(constant.DateFormat)
}
