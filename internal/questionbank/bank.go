// Package questionbank provides the static interview question sets, keyed
// by normalized domain. The default bank is embedded; deployments can point
// QUESTION_BANK_PATH at a YAML file with the same shape to override it.
package questionbank

import (
	_ "embed"
	"fmt"
	"os"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed questions.yaml
var defaultBankYAML []byte

// QuestionSet is one domain's worth of questions.
type QuestionSet struct {
	HR        []string `yaml:"hr"`
	Technical []string `yaml:"technical"`
}

type bankFile struct {
	Domains  map[string]QuestionSet `yaml:"domains"`
	Fallback QuestionSet            `yaml:"fallback"`
}

// Bank resolves question sets by domain.
type Bank struct {
	domains  map[string]QuestionSet
	fallback QuestionSet
}

// Load parses a question bank from YAML. Every domain entry and the
// fallback must carry at least one HR and one technical question.
func Load(data []byte) (*Bank, error) {
	var file bankFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse question bank: %w", err)
	}

	if len(file.Fallback.HR) == 0 || len(file.Fallback.Technical) == 0 {
		return nil, fmt.Errorf("question bank fallback must have hr and technical questions")
	}

	domains := make(map[string]QuestionSet, len(file.Domains))
	for name, set := range file.Domains {
		if len(set.HR) == 0 || len(set.Technical) == 0 {
			return nil, fmt.Errorf("domain %q must have hr and technical questions", name)
		}
		domains[NormalizeDomain(name)] = set
	}

	return &Bank{domains: domains, fallback: file.Fallback}, nil
}

// LoadFile loads a question bank from a YAML file on disk.
func LoadFile(path string) (*Bank, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read question bank %s: %w", path, err)
	}
	return Load(data)
}

// Default returns the embedded question bank.
func Default() *Bank {
	bank, err := Load(defaultBankYAML)
	if err != nil {
		// The embedded bank is validated by tests; a parse failure here is a
		// build defect, not a runtime condition.
		panic(fmt.Sprintf("embedded question bank invalid: %v", err))
	}
	return bank
}

var whitespaceRe = regexp.MustCompile(`\s+`)

// NormalizeDomain lowercases a domain name and replaces whitespace runs
// with hyphens, so "Data Science" and "data-science" hit the same entry.
func NormalizeDomain(domain string) string {
	return whitespaceRe.ReplaceAllString(strings.ToLower(strings.TrimSpace(domain)), "-")
}

// QuestionsByDomain returns the question set for a domain, or the generic
// fallback set when the domain is unknown. It never fails.
func (b *Bank) QuestionsByDomain(domain string) QuestionSet {
	if set, ok := b.domains[NormalizeDomain(domain)]; ok {
		return set
	}
	return b.fallback
}

// Domains lists the known domain keys, for validation and UI listings.
func (b *Bank) Domains() []string {
	keys := make([]string, 0, len(b.domains))
	for k := range b.domains {
		keys = append(keys, k)
	}
	return keys
}
