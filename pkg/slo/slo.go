package slo

import (
	"context"
	"fmt"
	"time"

	"github.com/appclacks/sloreport/internal/util"
	"github.com/appclacks/sloreport/internal/validator"
	"github.com/appclacks/sloreport/pkg/filter"
	"github.com/appclacks/sloreport/pkg/slo/aggregates"
	er "github.com/mcorbin/corbierror"
)

func InitSLO(slo *aggregates.SLO) {
	slo.ID = util.NewUUID()
	slo.CreatedAt = time.Now().UTC()
}

func (s *Service) CreateSLO(ctx context.Context, slo *aggregates.SLO) error {
	s.logger.Info(fmt.Sprintf("creating SLO %s", slo.Name))
	err := validator.Validator.Struct(*slo)
	if err != nil {
		return err
	}
	if slo.Filter != nil {
		_, err := filter.Parse(*slo.Filter)
		if err != nil {
			return er.Newf("invalid SLO filter: %s", er.BadRequest, true, err.Error())
		}
	}
	return s.store.CreateSLO(ctx, *slo)
}

func (s *Service) GetSLO(ctx context.Context, id string) (*aggregates.SLO, error) {
	return s.store.GetSLO(ctx, id)
}

func (s *Service) GetSLOByName(ctx context.Context, name string) (*aggregates.SLO, error) {
	return s.store.GetSLOByName(ctx, name)
}

func (s *Service) ListSLOs(ctx context.Context) ([]*aggregates.SLO, error) {
	return s.store.ListSLOs(ctx)
}

func (s *Service) DeleteSLO(ctx context.Context, id string) error {
	s.logger.Info(fmt.Sprintf("deleting SLO %s", id))
	return s.store.DeleteSLO(ctx, id)
}

func (s *Service) AddRecord(ctx context.Context, record aggregates.Record) error {
	err := validator.Validator.Struct(record)
	if err != nil {
		return err
	}
	return s.store.AddRecord(ctx, record)
}
