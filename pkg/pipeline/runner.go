package pipeline

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/configtower/pkg/analysis"
	"github.com/matzehuels/configtower/pkg/cache"
	"github.com/matzehuels/configtower/pkg/graph"
	ctio "github.com/matzehuels/configtower/pkg/io"
	"github.com/matzehuels/configtower/pkg/observability"
	"github.com/matzehuels/configtower/pkg/render/nodelink"
	"github.com/matzehuels/configtower/pkg/rules"
)

// Runner executes analyses and renders with caching.
//
// The Runner holds no results itself; multiple goroutines can share one
// Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// SnapshotHash identifies a graph and rule table pair. It covers every
// node, edge, property and rule, and ignores export timestamps.
func SnapshotHash(g *graph.Graph, table *rules.Table) (string, error) {
	var buf bytes.Buffer
	if err := ctio.WriteGraph(&buf, g, ctio.WriteOptions{}); err != nil {
		return "", fmt.Errorf("serialize graph: %w", err)
	}
	if table == nil {
		table = &rules.Table{}
	}
	if err := json.NewEncoder(&buf).Encode(table); err != nil {
		return "", fmt.Errorf("serialize rules: %w", err)
	}
	return cache.Hash(buf.Bytes()), nil
}

// Analyze returns the whole-graph report for g and table, reusing a cached
// report for an identical snapshot unless opts.Refresh is set.
func (r *Runner) Analyze(ctx context.Context, g *graph.Graph, table *rules.Table, opts Options) (*Result, error) {
	opts.SetDefaults()
	start := time.Now()
	hooks := observability.Analysis()
	hooks.OnAnalyzeStart(ctx, g.NodeCount(), table.Len())

	res, err := r.analyze(ctx, g, table, opts)
	stats := observability.AnalyzeStats{Nodes: g.NodeCount(), Duration: time.Since(start)}
	if res != nil {
		res.Duration = stats.Duration
		stats.Issues = res.Report.TotalIssues
		stats.Conflicts = len(res.Report.ConflictPairs)
		stats.CacheHit = res.CacheHit
	}
	hooks.OnAnalyzeComplete(ctx, stats, err)
	if err != nil {
		return nil, err
	}

	r.Logger.Info("analyzed graph",
		"nodes", g.NodeCount(),
		"rules", table.Len(),
		"issues", res.Report.TotalIssues,
		"conflicts", len(res.Report.ConflictPairs),
		"cached", res.CacheHit,
		"duration", res.Duration)
	return res, nil
}

func (r *Runner) analyze(ctx context.Context, g *graph.Graph, table *rules.Table, opts Options) (*Result, error) {
	snap, err := SnapshotHash(g, table)
	if err != nil {
		return nil, err
	}
	key := r.Keyer.AnalysisKey(snap, cache.AnalysisKeyOpts{Version: opts.Version})

	if !opts.Refresh {
		if report, ok := r.cachedReport(ctx, key); ok {
			return &Result{Report: report, SnapshotHash: snap, CacheHit: true}, nil
		}
	}

	var report analysis.Report
	if opts.Workers > 1 {
		report, err = analysis.AnalyzeGraphConcurrent(ctx, g, table, opts.Workers)
		if err != nil {
			return nil, err
		}
	} else {
		report = analysis.AnalyzeGraph(g, table)
	}

	if data, err := json.Marshal(report); err == nil {
		r.store(ctx, "analysis", key, data, opts.CacheTTL)
	}
	return &Result{Report: report, SnapshotHash: snap}, nil
}

func (r *Runner) cachedReport(ctx context.Context, key string) (analysis.Report, bool) {
	data, hit, err := r.Cache.Get(ctx, key)
	if err != nil {
		r.Logger.Debug("cache read failed", "key", key, "error", err)
	}
	if err != nil || !hit {
		observability.Cache().OnCacheMiss(ctx, "analysis")
		return analysis.Report{}, false
	}
	var report analysis.Report
	if err := json.Unmarshal(data, &report); err != nil {
		// Unreadable entries are recomputed and overwritten.
		observability.Cache().OnCacheMiss(ctx, "analysis")
		return analysis.Report{}, false
	}
	observability.Cache().OnCacheHit(ctx, "analysis")
	return report, true
}

func (r *Runner) store(ctx context.Context, keyType, key string, data []byte, ttl time.Duration) {
	if err := r.Cache.Set(ctx, key, data, ttl); err != nil {
		r.Logger.Warn("cache write failed", "key", key, "error", err)
		return
	}
	observability.Cache().OnCacheSet(ctx, keyType, len(data))
}

// Render analyses the snapshot (through the cache) and draws it as a
// health-coloured node-link diagram.
func (r *Runner) Render(ctx context.Context, g *graph.Graph, table *rules.Table, opts RenderOptions) (*RenderResult, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	res, err := r.Analyze(ctx, g, table, opts.Options)
	if err != nil {
		return nil, err
	}
	out := &RenderResult{Format: opts.Format, SnapshotHash: res.SnapshotHash, Report: res.Report}

	key := r.Keyer.RenderKey(res.SnapshotHash, cache.RenderKeyOpts{
		Format:    opts.Format,
		Direction: opts.Direction,
		Detailed:  opts.Detailed,
		HideRules: opts.HideRules,
	})
	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
			observability.Cache().OnCacheHit(ctx, "render")
			out.Data, out.CacheHit = data, true
			return out, nil
		}
		observability.Cache().OnCacheMiss(ctx, "render")
	}

	hooks := observability.Analysis()
	hooks.OnRenderStart(ctx, opts.Format)
	start := time.Now()
	data, err := draw(ctx, g, res.Report, opts)
	hooks.OnRenderComplete(ctx, opts.Format, time.Since(start), err)
	if err != nil {
		return nil, fmt.Errorf("render %s: %w", opts.Format, err)
	}

	r.store(ctx, "render", key, data, opts.CacheTTL)
	r.Logger.Debug("rendered diagram", "format", opts.Format, "bytes", len(data), "duration", time.Since(start))
	out.Data = data
	return out, nil
}

func draw(ctx context.Context, g *graph.Graph, report analysis.Report, opts RenderOptions) ([]byte, error) {
	dot := nodelink.ToDOT(g, report, nodelink.Options{
		Detailed:  opts.Detailed,
		Direction: opts.Direction,
		HideRules: opts.HideRules,
	})
	if opts.Format == FormatDOT {
		return []byte(dot), nil
	}
	return nodelink.RenderSVG(ctx, dot)
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}
