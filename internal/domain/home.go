package domain

import "encoding/json"

// Home is a listing as served by the remote API.
type Home struct {
	ID          string
	HouseName   string
	Price       json.Number
	Location    string
	Rating      json.Number
	Description string
	Photo       string
}

type homeJSON struct {
	ID          string      `json:"_id,omitempty"`
	AltID       string      `json:"id,omitempty"`
	HouseName   string      `json:"houseName"`
	Price       json.Number `json:"price,omitempty"`
	Location    string      `json:"location"`
	Rating      json.Number `json:"rating,omitempty"`
	Description string      `json:"description"`
	Photo       string      `json:"photo"`
}

func (h *Home) UnmarshalJSON(data []byte) error {
	var raw homeJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	id := raw.ID
	if id == "" {
		id = raw.AltID
	}
	*h = Home{
		ID:          id,
		HouseName:   raw.HouseName,
		Price:       raw.Price,
		Location:    raw.Location,
		Rating:      raw.Rating,
		Description: raw.Description,
		Photo:       raw.Photo,
	}
	return nil
}

func (h Home) MarshalJSON() ([]byte, error) {
	return json.Marshal(homeJSON{
		ID:          h.ID,
		HouseName:   h.HouseName,
		Price:       h.Price,
		Location:    h.Location,
		Rating:      h.Rating,
		Description: h.Description,
		Photo:       h.Photo,
	})
}
