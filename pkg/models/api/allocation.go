package api

import "encoding/json"

type Allocation struct {
	WeekStart  string      `json:"week_start"`
	WeekEnd    string      `json:"week_end"`
	StartMonth int         `json:"start_month"`
	Percentage json.Number `json:"percentage"`
}

type AllocationsResponse struct {
	Start       string       `json:"start"`
	End         string       `json:"end"`
	Allocations []Allocation `json:"allocations"`
}

type Profile struct {
	Name  string `json:"name"`
	Start string `json:"start"`
	End   string `json:"end"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}
