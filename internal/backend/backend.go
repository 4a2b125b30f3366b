// Package backend is the query facade used by presentation code.
//
// Backend composes the package client, the search result cache and the
// persisted cache preference. Its methods block; Async wraps each of them in
// the callback surface that delivers on an owning context.
package backend

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/obentoo/dnfkit/internal/cache"
	"github.com/obentoo/dnfkit/internal/common/command"
	"github.com/obentoo/dnfkit/internal/common/config"
	"github.com/obentoo/dnfkit/internal/common/logger"
	"github.com/obentoo/dnfkit/internal/common/prefs"
	"github.com/obentoo/dnfkit/internal/dnf"
)

// DefaultMaxResults bounds the number of search results kept
const DefaultMaxResults = 100

// ErrEmptyQuery is returned when a search query is blank
var ErrEmptyQuery = errors.New("search query is empty")

// PackageClient runs package manager operations
type PackageClient interface {
	Search(ctx context.Context, query string) ([]dnf.Package, error)
	Info(ctx context.Context, name string) (*dnf.PackageInfo, error)
	ListInstalled(ctx context.Context) ([]dnf.Package, error)
	CheckUpdates(ctx context.Context) ([]dnf.UpdateRecord, error)
	Install(ctx context.Context, name string) (*dnf.MutationResult, error)
	Uninstall(ctx context.Context, name string) (*dnf.MutationResult, error)
	Upgrade(ctx context.Context) (*dnf.MutationResult, error)
}

// Preferences is the persisted key-value store holding enable_cache
type Preferences interface {
	Get(key, def string) string
	Set(key, value string) error
}

// Backend serves package queries with search caching
type Backend struct {
	client     PackageClient
	cache      *cache.Cache[[]dnf.Package]
	prefs      Preferences
	maxResults int
}

// Option is a functional option for configuring Backend
type Option func(*Backend)

// WithCache sets the search result cache
func WithCache(c *cache.Cache[[]dnf.Package]) Option {
	return func(b *Backend) {
		b.cache = c
	}
}

// WithPreferences sets the store the cache flag is read from and saved to
func WithPreferences(p Preferences) Option {
	return func(b *Backend) {
		b.prefs = p
	}
}

// WithMaxResults sets the search result limit. Values below 1 are ignored.
func WithMaxResults(n int) Option {
	return func(b *Backend) {
		if n > 0 {
			b.maxResults = n
		}
	}
}

// New creates a Backend over client. Without WithCache a default cache is
// created. When preferences are set, the cache starts in the state they
// record.
func New(client PackageClient, opts ...Option) *Backend {
	b := &Backend{
		client:     client,
		maxResults: DefaultMaxResults,
	}
	for _, opt := range opts {
		opt(b)
	}
	if b.cache == nil {
		b.cache = cache.New[[]dnf.Package]()
	}
	if b.prefs != nil {
		b.cache.SetEnabled(prefs.CacheEnabled(b.prefs))
	}
	return b
}

// NewFromConfig builds the client, cache and backend described by cfg
func NewFromConfig(cfg *config.Config, exec command.Executor, p Preferences) (*Backend, error) {
	dialect, err := dnf.ResolveDialect(cfg.Dialect, cfg.DialectFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load output dialect: %w", err)
	}

	opts := dnf.DefaultOptions()
	opts.Manager = cfg.Manager
	opts.PackageDB = cfg.PackageDB
	opts.ElevationHelper = cfg.ElevationHelper
	opts.Timeouts = dnf.Timeouts{
		Search:      cfg.Timeouts.Search,
		Info:        cfg.Timeouts.Info,
		List:        cfg.Timeouts.List,
		UpdateCheck: cfg.Timeouts.UpdateCheck,
		Detail:      cfg.Timeouts.Detail,
		Install:     cfg.Timeouts.Install,
		Uninstall:   cfg.Timeouts.Uninstall,
		Upgrade:     cfg.Timeouts.Upgrade,
	}

	client := dnf.NewClient(exec, dnf.WithDialect(dialect), dnf.WithOptions(opts))
	c := cache.New[[]dnf.Package](
		cache.WithCapacity(cfg.Cache.Capacity),
		cache.WithTTL(cfg.Cache.TTL),
	)

	backendOpts := []Option{WithCache(c), WithMaxResults(cfg.Search.MaxResults)}
	if p != nil {
		backendOpts = append(backendOpts, WithPreferences(p))
	}
	return New(client, backendOpts...), nil
}

// cacheKey normalizes a query for cache lookup
func cacheKey(query string) string {
	return strings.ToLower(strings.TrimSpace(query))
}

// Search returns up to the result limit of packages matching query.
// Results are served from the cache when possible.
func (b *Backend) Search(ctx context.Context, query string) ([]dnf.Package, error) {
	key := cacheKey(query)
	if key == "" {
		return nil, ErrEmptyQuery
	}

	if cached, ok := b.cache.Get(key); ok {
		logger.Debug("Cache hit for query: %s", key)
		return slices.Clone(cached), nil
	}

	packages, err := b.client.Search(ctx, strings.TrimSpace(query))
	if err != nil {
		return nil, err
	}

	if len(packages) > b.maxResults {
		packages = packages[:b.maxResults]
	}
	b.cache.Set(key, slices.Clone(packages))
	return packages, nil
}

// Info returns details for one package
func (b *Backend) Info(ctx context.Context, name string) (*dnf.PackageInfo, error) {
	return b.client.Info(ctx, name)
}

// ListInstalled returns installed packages sorted by name
func (b *Backend) ListInstalled(ctx context.Context) ([]dnf.Package, error) {
	return b.client.ListInstalled(ctx)
}

// CheckUpdates returns available updates sorted by name
func (b *Backend) CheckUpdates(ctx context.Context) ([]dnf.UpdateRecord, error) {
	return b.client.CheckUpdates(ctx)
}

// Install installs a package; a successful install clears the cache
func (b *Backend) Install(ctx context.Context, name string) (*dnf.MutationResult, error) {
	return b.afterMutation(b.client.Install(ctx, name))
}

// Uninstall removes a package; a successful removal clears the cache
func (b *Backend) Uninstall(ctx context.Context, name string) (*dnf.MutationResult, error) {
	return b.afterMutation(b.client.Uninstall(ctx, name))
}

// Upgrade upgrades the system; a successful upgrade clears the cache
func (b *Backend) Upgrade(ctx context.Context) (*dnf.MutationResult, error) {
	return b.afterMutation(b.client.Upgrade(ctx))
}

// afterMutation drops cached search results, whose installed flags may be stale
func (b *Backend) afterMutation(res *dnf.MutationResult, err error) (*dnf.MutationResult, error) {
	if err == nil && res != nil && res.Success {
		b.cache.Clear()
		logger.Debug("Search cache cleared after package change")
	}
	return res, err
}

// ClearCache drops every cached search result
func (b *Backend) ClearCache() {
	b.cache.Clear()
	logger.Info("Search cache cleared")
}

// CacheEnabled reports whether search results are cached
func (b *Backend) CacheEnabled() bool {
	return b.cache.Enabled()
}

// SetCacheEnabled records the preference and toggles the cache.
// The cache is toggled even when saving the preference fails.
func (b *Backend) SetCacheEnabled(enabled bool) error {
	b.cache.SetEnabled(enabled)
	if b.prefs == nil {
		return nil
	}
	if err := b.prefs.Set(prefs.KeyEnableCache, prefs.FormatBool(enabled)); err != nil {
		return fmt.Errorf("failed to save cache preference: %w", err)
	}
	return nil
}

// ReloadCachePreference re-reads enable_cache and applies it
func (b *Backend) ReloadCachePreference() {
	if b.prefs == nil {
		return
	}
	enabled := prefs.CacheEnabled(b.prefs)
	b.cache.SetEnabled(enabled)
	logger.Debug("Cache preference applied: enabled=%v", enabled)
}

// CacheStats describes the cache for display
type CacheStats struct {
	Enabled  bool
	Entries  int
	Capacity int
	TTL      string
}

// CacheStats returns the current cache state
func (b *Backend) CacheStats() CacheStats {
	return CacheStats{
		Enabled:  b.cache.Enabled(),
		Entries:  b.cache.Len(),
		Capacity: b.cache.Capacity(),
		TTL:      b.cache.TTL().String(),
	}
}

// Ensure dnf.Client implements PackageClient interface
var _ PackageClient = (*dnf.Client)(nil)
