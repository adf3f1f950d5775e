package genai

import (
	"sync"
	"time"

	"github.com/flowline-ai/genai/adapter"
	"github.com/flowline-ai/genai/chat"
	"github.com/flowline-ai/genai/gaierr"
)

// modelListCacheTTL bounds how long a live model list is trusted before
// the next ResolveModelList call hits the network again.
const modelListCacheTTL = 30 * time.Second

type modelListCacheEntry struct {
	models    []chat.ModelName
	fetchedAt time.Time
}

// modelListCache memoizes ListModelsLive results per (adapter, endpoint)
// pair (auth is not part of the key) so a chat-heavy caller resolving the same Ollama server on
// every turn doesn't refetch /api/tags each time.
type modelListCache struct {
	mu      sync.Mutex
	entries map[string]modelListCacheEntry
}

func newModelListCache() *modelListCache {
	return &modelListCache{entries: make(map[string]modelListCacheEntry)}
}

func (c *modelListCache) get(key string) ([]chat.ModelName, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	entry, ok := c.entries[key]
	if !ok || time.Since(entry.fetchedAt) > modelListCacheTTL {
		return nil, false
	}
	return entry.models, true
}

func (c *modelListCache) put(key string, models []chat.ModelName) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = modelListCacheEntry{models: models, fetchedAt: time.Now()}
}

// ResolveModelList returns the set of models the target adapter knows
// about. Adapters that expose a live catalog (adapter.ModelLister, e.g.
// Ollama's /api/tags) are queried over the network and the result cached
// for modelListCacheTTL; every other adapter falls back to its compiled-in
// ListStaticModels.
func (c *Client) ResolveModelList(model ModelRef) ([]chat.ModelName, error) {
	target, err := c.resolver.Resolve(model)
	if err != nil {
		return nil, err
	}

	a, ok := adapter.Dispatch(target.Model.AdapterKind)
	if !ok {
		return nil, &gaierr.ErrAdapterNotSupported{Adapter: string(target.Model.AdapterKind), Feature: "list_models"}
	}

	lister, ok := a.(adapter.ModelLister)
	if !ok {
		return a.ListStaticModels(), nil
	}

	cacheKey := string(target.Model.AdapterKind) + "|" + string(target.Endpoint)
	if cached, ok := c.modelListCache.get(cacheKey); ok {
		return cached, nil
	}

	models, err := lister.ListModelsLive(target.Endpoint, target.Auth)
	if err != nil {
		return nil, err
	}
	c.modelListCache.put(cacheKey, models)
	return models, nil
}
