package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Keywords holds the scam and financial keyword lists used by the news
// filter and the company branch. Empty lists fall back to the built-in
// defaults at the point of use.
type Keywords struct {
	Scam      []string `yaml:"scam_keywords"`
	Financial []string `yaml:"financial_keywords"`
}

// LoadKeywords reads keyword overrides from a YAML file. An empty path
// returns zero-value Keywords, meaning defaults apply.
func LoadKeywords(path string) (Keywords, error) {
	if path == "" {
		return Keywords{}, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Keywords{}, fmt.Errorf("read keywords file: %w", err)
	}

	var kw Keywords
	if err := yaml.Unmarshal(data, &kw); err != nil {
		return Keywords{}, fmt.Errorf("parse keywords file: %w", err)
	}

	return kw, nil
}
