package dashboard

import (
	"time"

	"github.com/grahmind/careers-waitlist/internal/models"
)

type WaitlistViewResponse struct {
	Records         []models.WaitlistRecord `json:"records"`
	Total           int                     `json:"total"`
	Showing         int                     `json:"showing"`
	Search          string                  `json:"search,omitempty"`
	Filter          Window                  `json:"filter"`
	Stats           Stats                   `json:"stats"`
	Loading         bool                    `json:"loading"`
	LastRefreshedAt *time.Time              `json:"last_refreshed_at,omitempty"`
}

type ClearResponse struct {
	Cleared bool `json:"cleared"`
}

func (v *View) toResponse(term string, window Window) WaitlistViewResponse {
	records := v.Filter(term, window)
	resp := WaitlistViewResponse{
		Records: records,
		Total:   len(v.Records()),
		Showing: len(records),
		Search:  term,
		Filter:  window,
		Stats:   v.Stats(),
		Loading: v.Loading(),
	}
	if refreshed := v.LastRefreshed(); !refreshed.IsZero() {
		resp.LastRefreshedAt = &refreshed
	}
	return resp
}
