// Package cache manages the classifiers that are maintained in memory
// at any given time. At most MaxInCache distinct models are loaded
// concurrently; requesting one more evicts the least recently used
// entry. Population of a cold entry happens at most once no matter how
// many requests race on it.
package cache

import (
	"container/list"
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"sync/atomic"
	"time"

	"github.com/najmahf/spicelink/cmd/server/foundation/logger"
	"github.com/najmahf/spicelink/sdk/spice"
	"github.com/najmahf/spicelink/sdk/spice/image"
	"github.com/najmahf/spicelink/sdk/spice/model"
	"github.com/najmahf/spicelink/sdk/tools/registry"
)

// ErrModelLoad indicates the model artifact could not be loaded. The
// failure is not cached; a later request retries the load.
var ErrModelLoad = errors.New("unable to load model")

// Classifier is the behavior the cache requires from a loaded model.
type Classifier interface {
	Classify(ctx context.Context, t image.Tensor) (spice.Prediction, error)
	Close(ctx context.Context) error
}

// LoadFunc loads the classifier for a resolved descriptor.
type LoadFunc func(ctx context.Context, d registry.Descriptor) (Classifier, error)

// Config represents settings for the cache.
//
// Log: Defaults to a discard logger if the value is nil.
//
// MaxInCache: Defines the maximum number of unique models kept in
// memory at a time. Defaults to 4 if the value is 0.
//
// Instances: Defines how many instances of the same model are loaded.
// Defaults to 1 if the value is 0.
//
// Load: Overrides how a classifier is constructed. Defaults to loading
// the ONNX artifact from the descriptor.
type Config struct {
	Log        *logger.Logger
	Registry   *registry.Registry
	MaxInCache int
	Instances  int
	Load       LoadFunc
}

func validateConfig(cfg Config) (Config, error) {
	if cfg.Registry == nil {
		return Config{}, fmt.Errorf("registry is required")
	}

	if cfg.Log == nil {
		cfg.Log = logger.New(io.Discard, logger.LevelInfo, "cache", nil)
	}

	if cfg.MaxInCache <= 0 {
		cfg.MaxInCache = 4
	}

	if cfg.Instances <= 0 {
		cfg.Instances = 1
	}

	return cfg, nil
}

// entry tracks one model in the cache. The ready channel closes once
// the load attempt finished; after that exactly one of clf and err is
// set.
type entry struct {
	name  string
	elem  *list.Element
	ready chan struct{}
	clf   Classifier
	err   error
}

// Cache manages a bounded set of loaded classifiers keyed by model
// name. Reads of warm entries run concurrently; population of a cold
// entry is single-flight.
type Cache struct {
	log          *logger.Logger
	registry     *registry.Registry
	capacity     int
	instances    int
	load         LoadFunc
	mu           sync.Mutex
	entries      map[string]*entry
	order        *list.List
	itemsInCache atomic.Int32
}

// New constructs the cache for use.
func New(cfg Config) (*Cache, error) {
	cfg, err := validateConfig(cfg)
	if err != nil {
		return nil, err
	}

	c := Cache{
		log:       cfg.Log,
		registry:  cfg.Registry,
		capacity:  cfg.MaxInCache,
		instances: cfg.Instances,
		load:      cfg.Load,
		entries:   make(map[string]*entry),
		order:     list.New(),
	}

	if c.load == nil {
		c.load = c.loadClassifier
	}

	return &c, nil
}

// Acquire provides the classifier for the specified model name, loading
// it on first access. Unknown names fail before any file I/O. The call
// blocks while another request is populating the same entry.
func (c *Cache) Acquire(ctx context.Context, modelName string) (Classifier, error) {
	d, err := c.registry.Resolve(modelName)
	if err != nil {
		return nil, fmt.Errorf("acquire-model: %w", err)
	}

	c.mu.Lock()

	if ent, exists := c.entries[modelName]; exists {
		c.order.MoveToFront(ent.elem)
		c.mu.Unlock()

		return c.wait(ctx, ent)
	}

	ent := &entry{
		name:  modelName,
		ready: make(chan struct{}),
	}
	ent.elem = c.order.PushFront(ent)
	c.entries[modelName] = ent

	for c.order.Len() > c.capacity {
		if !c.evictLocked(ent) {
			break
		}
	}

	c.mu.Unlock()

	// Load outside the lock so warm entries stay readable.
	clf, err := c.load(ctx, d)

	c.mu.Lock()
	switch {
	case err != nil:
		ent.err = fmt.Errorf("%w: %q: %s", ErrModelLoad, modelName, err)

		// Drop the failed entry so the next request retries. Loading
		// entries are never evicted, so the entry is still present.
		c.order.Remove(ent.elem)
		delete(c.entries, modelName)

	default:
		ent.clf = clf
		c.itemsInCache.Add(1)
	}
	close(ent.ready)

	if ent.err == nil {

		// Concurrent cold loads may have pushed the cache over
		// capacity while every entry was still loading. Rebalance now,
		// keeping the entry this request just populated.
		for c.order.Len() > c.capacity {
			if !c.evictLocked(ent) {
				break
			}
		}
	}
	c.mu.Unlock()

	if ent.err != nil {
		return nil, ent.err
	}

	c.log.Info(ctx, "cache add", "model", modelName, "file", d.File, "inCache", c.itemsInCache.Load())

	return ent.clf, nil
}

// wait blocks until the entry finished loading or the context expires.
func (c *Cache) wait(ctx context.Context, ent *entry) (Classifier, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()

	case <-ent.ready:
	}

	if ent.err != nil {
		return nil, ent.err
	}

	return ent.clf, nil
}

// evictLocked removes the least recently used entry whose load has
// finished and reports whether one was found. Entries still loading are
// never evicted, so a request populating an entry always hands its
// waiters a classifier that is not being closed underneath them. keep
// is skipped as well. The caller owns the lock; the classifier is
// closed in the background.
func (c *Cache) evictLocked(keep *entry) bool {
	for e := c.order.Back(); e != nil; e = e.Prev() {
		ent := e.Value.(*entry)

		if ent == keep {
			continue
		}

		select {
		case <-ent.ready:
		default:
			continue
		}

		c.order.Remove(e)
		delete(c.entries, ent.name)

		go func() {
			const unloadTimeout = 5 * time.Second
			ctx, cancel := context.WithTimeout(context.Background(), unloadTimeout)
			defer cancel()

			if ent.clf == nil {
				return
			}

			c.log.Info(ctx, "cache eviction", "model", ent.name)

			if err := ent.clf.Close(ctx); err != nil {
				c.log.Info(ctx, "cache eviction", "model", ent.name, "ERROR", err)
			}

			c.itemsInCache.Add(-1)
		}()

		return true
	}

	return false
}

// Models returns the names of the models currently in the cache, most
// recently used first.
func (c *Cache) Models() []string {
	c.mu.Lock()
	defer c.mu.Unlock()

	names := make([]string, 0, c.order.Len())
	for e := c.order.Front(); e != nil; e = e.Next() {
		names = append(names, e.Value.(*entry).name)
	}

	return names
}

// Shutdown releases all classifiers from the cache and performs a
// proper unloading.
func (c *Cache) Shutdown(ctx context.Context) error {
	if _, exists := ctx.Deadline(); !exists {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, 45*time.Second)
		defer cancel()
	}

	for {
		c.mu.Lock()
		for c.evictLocked(nil) {
		}
		remaining := c.order.Len()
		c.mu.Unlock()

		if remaining == 0 {
			break
		}

		// What remains is still loading; evict once the loads finish.
		select {
		case <-ctx.Done():
			return ctx.Err()

		case <-time.NewTimer(100 * time.Millisecond).C:
		}
	}

	for c.itemsInCache.Load() > 0 {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case <-time.NewTimer(100 * time.Millisecond).C:
		}
	}

	return nil
}

// loadClassifier is the default LoadFunc building a classifier from the
// ONNX artifact named by the descriptor.
func (c *Cache) loadClassifier(ctx context.Context, d registry.Descriptor) (Classifier, error) {
	cfg := model.Config{
		Log:       c.log.Info,
		ModelFile: d.File,
		ImageSize: d.ImageSize,
	}

	return spice.NewClassifier(ctx, c.instances, cfg)
}
