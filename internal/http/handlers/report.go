package handlers

import (
	"net/http"

	"github.com/appclacks/sloreport/pkg/report"
	"github.com/appclacks/sloreport/pkg/slo/aggregates"
	"github.com/labstack/echo/v4"
	er "github.com/mcorbin/corbierror"
)

type ReportInput struct {
	Format string `query:"format" validate:"omitempty,oneof=json markdown"`
}

type EvaluateInput struct {
	Format  string                 `json:"-" query:"format" validate:"omitempty,oneof=json markdown"`
	Records []aggregates.SLORecord `json:"records" validate:"required"`
}

func writeReport(ec echo.Context, format string, result *aggregates.Report) error {
	if format == "markdown" {
		return ec.Blob(http.StatusOK, "text/markdown; charset=UTF-8", []byte(report.Markdown(result)))
	}
	return ec.JSON(http.StatusOK, result)
}

func (b *Builder) SLOReport(ec echo.Context) error {
	var payload ReportInput
	if err := ec.Bind(&payload); err != nil {
		return err
	}
	if err := ec.Validate(payload); err != nil {
		return err
	}
	result, err := b.slo.Report(ec.Request().Context())
	if err != nil {
		return err
	}
	return writeReport(ec, payload.Format, result)
}

func (b *Builder) EvaluateSLORecords(ec echo.Context) error {
	var payload EvaluateInput
	if err := ec.Bind(&payload); err != nil {
		return err
	}
	// the default binder ignores query parameters on POST
	binder := &echo.DefaultBinder{}
	if err := binder.BindQueryParams(ec, &payload); err != nil {
		return err
	}
	if err := ec.Validate(payload); err != nil {
		return err
	}
	if len(payload.Records) == 0 {
		return er.New("at least one record is required", er.BadRequest, true)
	}
	result, err := b.slo.Evaluate(ec.Request().Context(), payload.Records)
	if err != nil {
		return err
	}
	return writeReport(ec, payload.Format, result)
}
