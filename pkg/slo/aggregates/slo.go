package aggregates

import "time"

type SLO struct {
	ID          string
	Name        string `validate:"required,max=255"`
	Description *string
	Labels      map[string]string
	CreatedAt   time.Time
	Objective   *float64 `validate:"omitempty,gte=0,lte=100"`
	Filter      *string
}

type Record struct {
	Name    string `validate:"required"`
	Success bool
	Value   int64 `validate:"gte=0"`
}

type SLOSum struct {
	StartDate time.Time
	Name      string
	Success   int64
	Failure   int64
}

// Percent returns the achieved percentage, or nil when nothing was recorded.
func (s *SLOSum) Percent() *float64 {
	total := s.Success + s.Failure
	if total <= 0 {
		return nil
	}
	result := float64(s.Success) / float64(total) * 100
	return &result
}
