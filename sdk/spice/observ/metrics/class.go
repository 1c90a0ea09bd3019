package metrics

import (
	"expvar"
	"sync"
)

// classCounts tracks how often each class is predicted along with the
// running confidence stats for that class. Classes are registered
// lazily on first prediction.
type classCounts struct {
	name string
	mu   sync.Mutex
	hits map[string]*expvar.Int
	conf map[string]*avgMetric
}

func newClassCounts(name string) *classCounts {
	return &classCounts{
		name: name,
		hits: make(map[string]*expvar.Int),
		conf: make(map[string]*avgMetric),
	}
}

func (c *classCounts) add(class string, confidence float64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	hit, exists := c.hits[class]
	if !exists {
		hit = expvar.NewInt(c.name + "_" + class + "_count")
		c.hits[class] = hit
		c.conf[class] = newAvgMetric(c.name + "_" + class + "_confidence")
	}

	hit.Add(1)
	c.conf[class].add(confidence)
}
