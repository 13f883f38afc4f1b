package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// ErrConfigNotFound is returned when the config file does not exist.
// Callers can check for this with errors.Is(err, config.ErrConfigNotFound).
var ErrConfigNotFound = errors.New("config file not found")

// StringList accepts either a YAML sequence or a comma-separated scalar.
// Older provisioning records carried "postgis,postgis_topology" as a single
// string; newer ones use a proper list. Both normalize to a trimmed,
// ordered []string here so nothing downstream ever sees the difference.
type StringList []string

// UnmarshalYAML implements yaml.Unmarshaler.
func (s *StringList) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.ScalarNode:
		*s = SplitList(value.Value)
		return nil
	case yaml.SequenceNode:
		var items []string
		if err := value.Decode(&items); err != nil {
			return err
		}
		out := make(StringList, 0, len(items))
		for _, item := range items {
			if trimmed := strings.TrimSpace(item); trimmed != "" {
				out = append(out, trimmed)
			}
		}
		*s = out
		return nil
	default:
		return fmt.Errorf("line %d: expected string or list", value.Line)
	}
}

// SplitList splits a comma-separated string into a trimmed list, dropping
// empty elements.
func SplitList(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

// ConnectionSection holds server location and authentication settings.
type ConnectionSection struct {
	Host                string `yaml:"host"`
	Port                int    `yaml:"port"`
	SSLMode             string `yaml:"sslmode"`
	MaintenanceDatabase string `yaml:"maintenance_database,omitempty"`
	AuthMethod          string `yaml:"auth_method,omitempty"`
	AzureTenantID       string `yaml:"azure_tenant_id,omitempty"`
	AzureClientID       string `yaml:"azure_client_id,omitempty"`
	AWSRegion           string `yaml:"aws_region,omitempty"`
	GoogleInstance      string `yaml:"google_instance,omitempty"`
}

// File is the raw provisioning record as read from disk. Field formats are
// deliberately loose (comma strings or lists); Resolve normalizes them.
type File struct {
	Database          string            `yaml:"database"`
	Owner             string            `yaml:"owner"`
	OwnerPassword     string            `yaml:"owner_password,omitempty"`
	Superuser         string            `yaml:"superuser,omitempty"`
	SuperuserPassword string            `yaml:"superuser_password,omitempty"`
	Encoding          string            `yaml:"encoding,omitempty"`
	Extensions        StringList        `yaml:"extensions,omitempty"`
	ExtensionSchema   string            `yaml:"extension_schema,omitempty"`
	SearchPath        StringList        `yaml:"search_path,omitempty"`
	MinVersions       map[string]string `yaml:"extension_min_versions,omitempty"`
	Connection        ConnectionSection `yaml:"connection"`
	Timeout           string            `yaml:"timeout,omitempty"`
}

// Load reads a provisioning config file.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%s: %w", path, ErrConfigNotFound)
		}
		return nil, err
	}

	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return &f, nil
}
