package handlers

import (
	"context"

	"github.com/appclacks/sloreport/pkg/slo/aggregates"
)

type SLOService interface {
	CreateSLO(ctx context.Context, slo *aggregates.SLO) error
	GetSLO(ctx context.Context, id string) (*aggregates.SLO, error)
	GetSLOByName(ctx context.Context, name string) (*aggregates.SLO, error)
	ListSLOs(ctx context.Context) ([]*aggregates.SLO, error)
	DeleteSLO(ctx context.Context, id string) error
	AddRecord(ctx context.Context, record aggregates.Record) error
	Report(ctx context.Context) (*aggregates.Report, error)
	Evaluate(ctx context.Context, records []aggregates.SLORecord) (*aggregates.Report, error)
}

type Builder struct {
	slo SLOService
}

func NewBuilder(slo SLOService) *Builder {
	return &Builder{
		slo: slo,
	}
}
