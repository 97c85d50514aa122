package topic

import (
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"

	"topic-rag/internal/domain/entity"
)

// Catalog is the static topic registry. It is loaded once at startup and
// only ever read afterwards, so no locking is needed.
type Catalog struct {
	topics map[string]entity.Topic
	order  []string
}

type catalogFile struct {
	Topics map[string]entity.Topic `yaml:"topics"`
}

// LoadCatalog reads the topic definitions from a YAML file.
func LoadCatalog(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read topics config: %w", err)
	}
	return ParseCatalog(data)
}

// ParseCatalog builds a catalog from raw YAML.
func ParseCatalog(data []byte) (*Catalog, error) {
	var file catalogFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse topics config: %w", err)
	}
	if len(file.Topics) == 0 {
		return nil, fmt.Errorf("topics config defines no topics")
	}

	topics := make(map[string]entity.Topic, len(file.Topics))
	order := make([]string, 0, len(file.Topics))
	for id, t := range file.Topics {
		if t.CollectionName == "" {
			return nil, fmt.Errorf("topic %q has no collection_name", id)
		}
		t.ID = id
		topics[id] = t
		order = append(order, id)
	}
	sort.Strings(order)

	return &Catalog{topics: topics, order: order}, nil
}

// Has reports whether the topic id is configured.
func (c *Catalog) Has(id string) bool {
	_, ok := c.topics[id]
	return ok
}

// Get returns the topic definition for an id.
func (c *Catalog) Get(id string) (entity.Topic, bool) {
	t, ok := c.topics[id]
	return t, ok
}

// CollectionName resolves the backing collection for a topic.
func (c *Catalog) CollectionName(id string) (string, error) {
	t, ok := c.topics[id]
	if !ok {
		return "", fmt.Errorf("%w: %s", entity.ErrUnknownTopic, id)
	}
	return t.CollectionName, nil
}

// All returns every topic in stable id order.
func (c *Catalog) All() []entity.Topic {
	out := make([]entity.Topic, 0, len(c.order))
	for _, id := range c.order {
		out = append(out, c.topics[id])
	}
	return out
}
