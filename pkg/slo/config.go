package slo

import (
	"fmt"
	"time"

	"github.com/appclacks/sloreport/internal/validator"
	"github.com/appclacks/sloreport/pkg/slo/aggregates"
)

const (
	DefaultStableEpsilon    = 0.005
	DefaultEvaluationWindow = aggregates.Window7Days

	// MissingTargetNoData reports records without a target as NoData.
	MissingTargetNoData = "no-data"
	// MissingTargetZero treats a missing target as 0, which always passes.
	MissingTargetZero = "zero"
)

type Config struct {
	EvaluationWindow string             `yaml:"evaluation-window" validate:"omitempty,oneof=90d 30d 7d 1d"`
	StableEpsilon    *float64           `yaml:"stable-epsilon" validate:"omitempty,gte=0"`
	PriorityIDs      []string           `yaml:"priority-ids"`
	TargetOverrides  map[string]float64 `yaml:"target-overrides" validate:"dive,gte=0,lte=100"`
	MissingTarget    string             `yaml:"missing-target" validate:"omitempty,oneof=no-data zero"`
	Interval         string             `yaml:"interval"`
}

func (c *Config) Validate() error {
	err := validator.Validator.Struct(*c)
	if err != nil {
		return err
	}
	if c.Interval != "" {
		interval, err := time.ParseDuration(c.Interval)
		if err != nil {
			return fmt.Errorf("invalid report interval %s: %w", c.Interval, err)
		}
		if interval < time.Minute {
			return fmt.Errorf("the minimum report interval is 1 minute, got %s", c.Interval)
		}
	}
	return nil
}

func (c *Config) Window() aggregates.Window {
	if c.EvaluationWindow == "" {
		return DefaultEvaluationWindow
	}
	w, err := aggregates.ParseWindow(c.EvaluationWindow)
	if err != nil {
		return DefaultEvaluationWindow
	}
	return w
}

func (c *Config) Epsilon() float64 {
	if c.StableEpsilon == nil {
		return DefaultStableEpsilon
	}
	return *c.StableEpsilon
}

func (c *Config) MissingTargetPolicy() string {
	if c.MissingTarget == "" {
		return MissingTargetNoData
	}
	return c.MissingTarget
}

// ReportInterval returns 0 when the periodic report job is disabled.
func (c *Config) ReportInterval() time.Duration {
	if c.Interval == "" {
		return 0
	}
	interval, err := time.ParseDuration(c.Interval)
	if err != nil {
		return 0
	}
	return interval
}
