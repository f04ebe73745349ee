package dto

import "vcardops/internal/domains/hotel/model"

type Hotel struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

func (h *Hotel) FromModel(m model.Hotel) {
	h.ID = m.ID
	h.Name = m.Name
}

func FromModels(models []model.Hotel) []Hotel {
	res := make([]Hotel, len(models))
	for i, mod := range models {
		res[i].FromModel(mod)
	}

	return res
}
