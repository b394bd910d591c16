package config

import (
	"github.com/knadh/koanf/v2"
	"gopkg.in/yaml.v3"
)

// yamlParser implements koanf.Parser on top of yaml.v3
type yamlParser struct{}

// YAML returns a koanf parser for YAML config files
func YAML() koanf.Parser {
	return &yamlParser{}
}

// Unmarshal parses YAML bytes into a key/value map
func (p *yamlParser) Unmarshal(b []byte) (map[string]interface{}, error) {
	out := make(map[string]interface{})
	if err := yaml.Unmarshal(b, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Marshal renders a key/value map as YAML
func (p *yamlParser) Marshal(o map[string]interface{}) ([]byte, error) {
	return yaml.Marshal(o)
}
