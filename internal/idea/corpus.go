package idea

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Corpus is an ordered list of ideas a candidate is compared against.
// Order matters only for tie-breaks: the first entry seen wins.
type Corpus []*Idea

func (c Corpus) Len() int {
	return len(c)
}

// Filter returns the entries kept by keep, preserving order, and the IDs (or titles) of dropped ones.
func (c Corpus) Filter(keep func(*Idea) bool) (Corpus, []string) {
	kept := make(Corpus, 0, len(c))
	var dropped []string
	for _, entry := range c {
		if entry == nil {
			continue
		}
		if keep(entry) {
			kept = append(kept, entry)
			continue
		}
		dropped = append(dropped, entry.Label())
	}
	return kept, dropped
}

func (c Corpus) FindByID(id string) *Idea {
	for _, entry := range c {
		if entry != nil && entry.ID == id {
			return entry
		}
	}
	return nil
}

func (c Corpus) Titles() []string {
	titles := make([]string, 0, len(c))
	for _, entry := range c {
		if entry != nil {
			titles = append(titles, entry.Title)
		}
	}
	return titles
}

// Label identifies an idea in logs: its ID when set, its title otherwise.
func (i *Idea) Label() string {
	if i == nil {
		return ""
	}
	if i.ID != "" {
		return i.ID
	}
	return i.Title
}

// LoadFile reads ideas from a JSON or YAML file. The file may hold a single idea or a list.
// An empty file yields an empty corpus.
func LoadFile(path string) (Corpus, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	if len(bytes.TrimSpace(data)) == 0 {
		return Corpus{}, nil
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return decodeYAML(data)
	default:
		return decodeJSON(data)
	}
}

func decodeJSON(data []byte) (Corpus, error) {
	trimmed := bytes.TrimSpace(data)
	if trimmed[0] == '[' {
		var corpus Corpus
		if err := json.Unmarshal(trimmed, &corpus); err != nil {
			return nil, fmt.Errorf("decode ideas: %w", err)
		}
		return corpus, nil
	}

	var single Idea
	if err := json.Unmarshal(trimmed, &single); err != nil {
		return nil, fmt.Errorf("decode idea: %w", err)
	}
	return Corpus{&single}, nil
}

func decodeYAML(data []byte) (Corpus, error) {
	var node yaml.Node
	if err := yaml.Unmarshal(data, &node); err != nil {
		return nil, fmt.Errorf("decode ideas: %w", err)
	}

	root := &node
	if root.Kind == yaml.DocumentNode && len(root.Content) > 0 {
		root = root.Content[0]
	}

	if root.Kind == yaml.SequenceNode {
		var corpus Corpus
		if err := root.Decode(&corpus); err != nil {
			return nil, fmt.Errorf("decode ideas: %w", err)
		}
		return corpus, nil
	}

	var single Idea
	if err := root.Decode(&single); err != nil {
		return nil, fmt.Errorf("decode idea: %w", err)
	}
	return Corpus{&single}, nil
}

// ToFile writes the corpus as indented JSON, truncating any existing file.
func (c Corpus) ToFile(path string) error {
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}
	defer file.Close()

	enc := json.NewEncoder(file)
	enc.SetIndent("", "  ")
	if err := enc.Encode(c); err != nil {
		return err
	}
	return nil
}
