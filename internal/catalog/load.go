package catalog

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// document is the on-disk shape of a question catalog.
type document struct {
	Version   string           `yaml:"version"`
	Questions []questionRecord `yaml:"questions"`
}

type questionRecord struct {
	ID          int    `yaml:"id" validate:"gt=0"`
	Category    string `yaml:"category" validate:"required"`
	Level       string `yaml:"level" validate:"required"`
	Text        string `yaml:"text" validate:"required"`
	Description string `yaml:"description" validate:"required"`
	LookFor     string `yaml:"look_for"`
	RedFlags    string `yaml:"red_flags"`
	GreenFlags  string `yaml:"green_flags"`
}

var validate = validator.New()

// Load parses and validates a YAML catalog document.
// Unknown fields, categories or levels are configuration errors.
func Load(data []byte) (*Catalog, error) {
	var doc document
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("parse catalog: empty document")
		}
		return nil, fmt.Errorf("parse catalog: %w", err)
	}

	if err := validateDocument(doc); err != nil {
		return nil, err
	}

	questions := make([]Question, 0, len(doc.Questions))
	for _, r := range doc.Questions {
		questions = append(questions, Question{
			ID:          r.ID,
			Category:    Category(r.Category),
			Level:       Level(r.Level),
			Text:        r.Text,
			Description: r.Description,
			LookFor:     r.LookFor,
			RedFlags:    r.RedFlags,
			GreenFlags:  r.GreenFlags,
		})
	}
	return build(doc.Version, questions), nil
}

// LoadFile reads a catalog from a YAML file on disk.
func LoadFile(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog %s: %w", path, err)
	}
	c, err := Load(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return c, nil
}
