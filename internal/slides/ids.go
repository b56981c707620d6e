package slides

import (
	"fmt"

	"github.com/google/uuid"
)

// Object ID categories.
const (
	CategorySlide = "slide"
	CategoryTitle = "title"
	CategoryBody  = "body"
	CategoryImage = "image"
)

// IDGenerator hands out sequential object IDs per category ("slide_1",
// "title_1", "slide_2", ...). Object IDs only need to be unique inside one
// presentation, so each deck build owns its own generator. The zero value is
// ready to use. An IDGenerator is not safe for concurrent use.
type IDGenerator struct {
	counters map[string]int
	unique   bool
}

// NewIDGenerator returns a generator whose counters start at zero.
func NewIDGenerator() *IDGenerator {
	return &IDGenerator{}
}

// NewUniqueIDGenerator returns a generator of random IDs ("title-<uuid>")
// for adding objects to a presentation that already has content.
func NewUniqueIDGenerator() *IDGenerator {
	return &IDGenerator{unique: true}
}

// Next returns the next ID in category.
func (g *IDGenerator) Next(category string) string {
	if g.unique {
		return fmt.Sprintf("%s-%s", category, uuid.New().String())
	}
	if g.counters == nil {
		g.counters = map[string]int{}
	}
	g.counters[category]++
	return fmt.Sprintf("%s_%d", category, g.counters[category])
}
