package config

import (
	"bytes"
	"fmt"
	"os"

	"github.com/appclacks/sloreport/internal/database"
	"github.com/appclacks/sloreport/internal/http"
	"github.com/appclacks/sloreport/internal/tracing"
	"github.com/appclacks/sloreport/pkg/notifier"
	"github.com/appclacks/sloreport/pkg/slo"
	"gopkg.in/yaml.v3"
)

type Configuration struct {
	HTTP     http.Configuration
	Database database.Configuration
	Report   slo.Config
	Notifier *notifier.Configuration
	Tracing  tracing.Configuration
}

// Load reads the YAML configuration file. Unknown keys are rejected.
// The HTTP and database sections are validated by the components using them,
// the report section is validated here because every command needs it.
func Load(path string) (*Configuration, error) {
	file, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("fail to read configuration file: %w", err)
	}
	return Parse(file)
}

func Parse(data []byte) (*Configuration, error) {
	var config Configuration
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&config); err != nil {
		return nil, fmt.Errorf("fail to parse yaml configuration file: %w", err)
	}
	if err := config.Report.Validate(); err != nil {
		return nil, fmt.Errorf("invalid report configuration: %w", err)
	}
	return &config, nil
}
