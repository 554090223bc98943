package mapping

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"gopkg.in/yaml.v3"
)

// configSchema validates the clause configuration document before it is
// decoded. Thresholds must sit in (0, 1].
const configSchema = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "type": "object",
  "required": ["frameworks"],
  "properties": {
    "frameworks": {
      "type": "object",
      "additionalProperties": {
        "type": "object",
        "required": ["name", "clauses"],
        "properties": {
          "name": {"type": "string", "minLength": 1},
          "version": {"type": "string"},
          "jurisdiction": {"type": "string"},
          "clauses": {
            "type": "array",
            "items": {
              "type": "object",
              "required": ["clause_id", "title"],
              "properties": {
                "clause_id": {"type": "string", "minLength": 1},
                "title": {"type": "string"},
                "category": {"type": "string"},
                "evidence_required": {"type": "array", "items": {"type": "string"}},
                "compliance_threshold": {"type": "number", "exclusiveMinimum": 0, "maximum": 1},
                "risk_level": {"type": "string"},
                "sdlc_phase": {"type": "array", "items": {"type": "string"}}
              }
            }
          }
        }
      }
    }
  }
}`

var compiledSchema = jsonschema.MustCompileString("clause_config.schema.json", configSchema)

// LoadConfig reads and validates a clause configuration document. YAML and
// JSON are both accepted (YAML is a superset). The error return is for
// callers that want to hard-fail; NewEngine soft-fails instead.
func LoadConfig(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read clause config: %w", err)
	}
	return ParseConfig(raw)
}

// ParseConfig validates and decodes a clause configuration document.
func ParseConfig(raw []byte) (*Config, error) {
	var doc any
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("parse clause config: %w", err)
	}
	doc = normalizeKeys(doc)

	// Round-trip through JSON so the validator sees exactly the value
	// shapes it is specified over, then decode into the typed config.
	buf, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("canonicalize clause config: %w", err)
	}
	var jsonDoc any
	if err := json.Unmarshal(buf, &jsonDoc); err != nil {
		return nil, fmt.Errorf("canonicalize clause config: %w", err)
	}
	if err := compiledSchema.Validate(jsonDoc); err != nil {
		return nil, fmt.Errorf("validate clause config: %w", err)
	}
	var cfg Config
	dec := json.NewDecoder(bytes.NewReader(buf))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&cfg); err != nil {
		return nil, fmt.Errorf("decode clause config: %w", err)
	}

	for id, fw := range cfg.Frameworks {
		for i := range fw.Clauses {
			if fw.Clauses[i].ComplianceThreshold == 0 {
				fw.Clauses[i].ComplianceThreshold = DefaultComplianceThreshold
			}
		}
		cfg.Frameworks[id] = fw
	}
	return &cfg, nil
}

// loadConfigSoft applies the §7 policy: configuration problems degrade to
// an empty framework set, logged, never fatal.
func loadConfigSoft(path string, logger *slog.Logger) *Config {
	cfg, err := LoadConfig(path)
	if err != nil {
		logger.Error("clause configuration unusable, running with empty framework set",
			"path", path, "error", err)
		return &Config{Frameworks: map[string]Framework{}}
	}
	return cfg
}

// normalizeKeys converts YAML's map[any]any maps into map[string]any so
// the schema validator and JSON round-trip accept them.
func normalizeKeys(v any) any {
	switch val := v.(type) {
	case map[any]any:
		m := make(map[string]any, len(val))
		for k, inner := range val {
			m[fmt.Sprint(k)] = normalizeKeys(inner)
		}
		return m
	case map[string]any:
		for k, inner := range val {
			val[k] = normalizeKeys(inner)
		}
		return val
	case []any:
		for i, inner := range val {
			val[i] = normalizeKeys(inner)
		}
		return val
	default:
		return v
	}
}
