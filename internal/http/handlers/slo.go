package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/appclacks/sloreport/internal/util"
	"github.com/appclacks/sloreport/pkg/slo"
	"github.com/appclacks/sloreport/pkg/slo/aggregates"
	"github.com/labstack/echo/v4"
)

type Record struct {
	Name    string `json:"name" validate:"required"`
	Success bool   `json:"success"`
	Value   int64  `json:"value" validate:"gte=0"`
}

type CreateSLOInput struct {
	Name        string            `json:"name" validate:"required,max=255"`
	Description string            `json:"description,omitempty"`
	Labels      map[string]string `json:"labels,omitempty"`
	Objective   *float64          `json:"objective,omitempty" validate:"omitempty,gte=0,lte=100"`
	Filter      string            `json:"filter,omitempty"`
}

type SLOIdentifierInput struct {
	Identifier string `param:"id" validate:"required"`
}

type SLOIDInput struct {
	ID string `param:"id" validate:"required,uuid"`
}

type SLO struct {
	ID          string            `json:"id"`
	Name        string            `json:"name"`
	Description string            `json:"description,omitempty"`
	Labels      map[string]string `json:"labels,omitempty"`
	Objective   *float64          `json:"objective,omitempty"`
	Filter      string            `json:"filter,omitempty"`
	CreatedAt   time.Time         `json:"created-at"`
}

type ListSLOsOutput struct {
	Result []SLO `json:"result"`
}

func toSLO(s aggregates.SLO) SLO {
	result := SLO{
		ID:        s.ID,
		Name:      s.Name,
		Labels:    s.Labels,
		Objective: s.Objective,
		CreatedAt: s.CreatedAt,
	}
	if s.Description != nil {
		result.Description = *s.Description
	}
	if s.Filter != nil {
		result.Filter = *s.Filter
	}
	return result
}

func toSLOs(slos []*aggregates.SLO) []SLO {
	result := []SLO{}
	for i := range slos {
		result = append(result, toSLO(*slos[i]))
	}
	return result
}

func (b *Builder) CreateSLO(ec echo.Context) error {
	var payload CreateSLOInput
	if err := ec.Bind(&payload); err != nil {
		return err
	}
	if err := ec.Validate(payload); err != nil {
		return err
	}
	newSLO := aggregates.SLO{
		Name:      payload.Name,
		Labels:    payload.Labels,
		Objective: payload.Objective,
	}
	if payload.Description != "" {
		newSLO.Description = &payload.Description
	}
	if payload.Filter != "" {
		newSLO.Filter = &payload.Filter
	}
	slo.InitSLO(&newSLO)
	err := b.slo.CreateSLO(ec.Request().Context(), &newSLO)
	if err != nil {
		return err
	}
	return ec.JSON(http.StatusCreated, toSLO(newSLO))
}

func (b *Builder) GetSLO(ec echo.Context) error {
	var payload SLOIdentifierInput
	if err := ec.Bind(&payload); err != nil {
		return err
	}
	if err := ec.Validate(payload); err != nil {
		return err
	}
	var result *aggregates.SLO
	var err error
	if util.IsUUID(payload.Identifier) {
		result, err = b.slo.GetSLO(ec.Request().Context(), payload.Identifier)
	} else {
		result, err = b.slo.GetSLOByName(ec.Request().Context(), payload.Identifier)
	}
	if err != nil {
		return err
	}
	return ec.JSON(http.StatusOK, toSLO(*result))
}

func (b *Builder) ListSLOs(ec echo.Context) error {
	slos, err := b.slo.ListSLOs(ec.Request().Context())
	if err != nil {
		return err
	}
	return ec.JSON(http.StatusOK, ListSLOsOutput{Result: toSLOs(slos)})
}

func (b *Builder) DeleteSLO(ec echo.Context) error {
	var payload SLOIDInput
	if err := ec.Bind(&payload); err != nil {
		return err
	}
	if err := ec.Validate(payload); err != nil {
		return err
	}
	err := b.slo.DeleteSLO(ec.Request().Context(), payload.ID)
	if err != nil {
		return err
	}
	return ec.JSON(http.StatusOK, NewResponse(fmt.Sprintf("SLO %s deleted", payload.ID)))
}

func (b *Builder) AddSLORecord(ec echo.Context) error {
	var payload Record
	if err := ec.Bind(&payload); err != nil {
		return err
	}
	if err := ec.Validate(payload); err != nil {
		return err
	}

	record := aggregates.Record{
		Name:    payload.Name,
		Success: payload.Success,
		Value:   payload.Value,
	}

	err := b.slo.AddRecord(ec.Request().Context(), record)
	if err != nil {
		return err
	}
	return ec.JSON(http.StatusOK, NewResponse("record created"))
}
