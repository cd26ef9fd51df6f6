package config

import (
	_ "embed"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed vocabulary.yaml
var defaultVocabulary []byte

// Relevance lists the keywords that keep or drop open-web results.
type Relevance struct {
	Positive []string `yaml:"positive"`
	Negative []string `yaml:"negative"`
}

// Vocabulary holds the domain word lists used by the extraction rules and
// the relevance filter.
type Vocabulary struct {
	Registry        []string  `yaml:"registry"`
	StopWords       []string  `yaml:"stop_words"`
	MovingKeywords  []string  `yaml:"moving_keywords"`
	Relevance       Relevance `yaml:"relevance"`
	ServiceKeywords []string  `yaml:"service_keywords"`
	FeeKeywords     []string  `yaml:"fee_keywords"`
	Boroughs        []string  `yaml:"boroughs"`
	DefaultCity     string    `yaml:"default_city"`
	Region          string    `yaml:"region"`
}

// DefaultVocabulary returns the embedded word lists.
func DefaultVocabulary() Vocabulary {
	v, err := parseVocabulary(defaultVocabulary)
	if err != nil {
		panic(fmt.Sprintf("embedded vocabulary is invalid: %v", err))
	}
	return v
}

// LoadVocabulary reads word lists from path. Lists missing from the file
// keep their embedded defaults; an empty path yields the defaults.
func LoadVocabulary(path string) (Vocabulary, error) {
	base := DefaultVocabulary()
	if strings.TrimSpace(path) == "" {
		return base, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Vocabulary{}, fmt.Errorf("read vocabulary: %w", err)
	}
	override, err := parseVocabulary(data)
	if err != nil {
		return Vocabulary{}, err
	}
	return base.overlay(override), nil
}

func parseVocabulary(data []byte) (Vocabulary, error) {
	var v Vocabulary
	if err := yaml.Unmarshal(data, &v); err != nil {
		return Vocabulary{}, fmt.Errorf("parse vocabulary: %w", err)
	}
	return v, nil
}

func (v Vocabulary) overlay(o Vocabulary) Vocabulary {
	pick := func(base, override []string) []string {
		if len(override) > 0 {
			return override
		}
		return base
	}
	v.Registry = pick(v.Registry, o.Registry)
	v.StopWords = pick(v.StopWords, o.StopWords)
	v.MovingKeywords = pick(v.MovingKeywords, o.MovingKeywords)
	v.Relevance.Positive = pick(v.Relevance.Positive, o.Relevance.Positive)
	v.Relevance.Negative = pick(v.Relevance.Negative, o.Relevance.Negative)
	v.ServiceKeywords = pick(v.ServiceKeywords, o.ServiceKeywords)
	v.FeeKeywords = pick(v.FeeKeywords, o.FeeKeywords)
	v.Boroughs = pick(v.Boroughs, o.Boroughs)
	if o.DefaultCity != "" {
		v.DefaultCity = o.DefaultCity
	}
	if o.Region != "" {
		v.Region = o.Region
	}
	return v
}
