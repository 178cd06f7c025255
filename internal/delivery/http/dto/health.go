package dto

type HealthResponse struct {
	Status   string                      `json:"status"`
	Store    string                      `json:"store"`
	Degraded []string                    `json:"degraded"`
	Lookups  map[string]map[string]int64 `json:"lookups"`
}
