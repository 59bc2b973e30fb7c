package slo

import (
	"errors"
	"fmt"

	"github.com/appclacks/sloreport/pkg/slo/aggregates"
	er "github.com/mcorbin/corbierror"
	"gopkg.in/yaml.v3"
)

type recordsFile struct {
	Records []aggregates.SLORecord `yaml:"records"`
}

// LoadRecords decodes a records document. JSON is accepted as well since
// it is valid YAML.
func LoadRecords(data []byte) ([]aggregates.SLORecord, error) {
	var file recordsFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		var corbiError *er.Error
		if errors.As(err, &corbiError) {
			return nil, err
		}
		return nil, fmt.Errorf("fail to parse records file: %w", err)
	}
	if file.Records == nil {
		return []aggregates.SLORecord{}, nil
	}
	return file.Records, nil
}
