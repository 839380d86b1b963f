package observability

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestNoopHooksDoNotPanic(t *testing.T) {
	ctx := context.Background()

	// Analysis hooks
	a := NoopAnalysisHooks{}
	a.OnAnalyzeStart(ctx, 42, 8)
	a.OnAnalyzeComplete(ctx, AnalyzeStats{Nodes: 42, Issues: 3, Duration: time.Millisecond}, nil)
	a.OnRenderStart(ctx, "svg")
	a.OnRenderComplete(ctx, "svg", time.Second, errors.New("boom"))

	// Cache hooks
	c := NoopCacheHooks{}
	c.OnCacheHit(ctx, "analysis")
	c.OnCacheMiss(ctx, "analysis")
	c.OnCacheSet(ctx, "render", 1024)
}

func TestGlobalHooksRegistry(t *testing.T) {
	// Reset to known state
	Reset()

	// Verify defaults are noop
	if _, ok := Analysis().(NoopAnalysisHooks); !ok {
		t.Error("Analysis() should return NoopAnalysisHooks by default")
	}
	if _, ok := Cache().(NoopCacheHooks); !ok {
		t.Error("Cache() should return NoopCacheHooks by default")
	}

	customAnalysis := &testAnalysisHooks{}
	SetAnalysisHooks(customAnalysis)
	if Analysis() != customAnalysis {
		t.Error("SetAnalysisHooks should set custom hooks")
	}

	customCache := &testCacheHooks{}
	SetCacheHooks(customCache)
	if Cache() != customCache {
		t.Error("SetCacheHooks should set custom hooks")
	}

	// Reset and verify
	Reset()
	if _, ok := Analysis().(NoopAnalysisHooks); !ok {
		t.Error("Reset() should restore NoopAnalysisHooks")
	}
	if _, ok := Cache().(NoopCacheHooks); !ok {
		t.Error("Reset() should restore NoopCacheHooks")
	}
}

func TestSetNilHooksIsIgnored(t *testing.T) {
	Reset()
	defer Reset()

	custom := &testAnalysisHooks{}
	SetAnalysisHooks(custom)
	SetAnalysisHooks(nil)

	if Analysis() != custom {
		t.Error("SetAnalysisHooks(nil) should be ignored")
	}
}

func TestCustomHooksReceiveEvents(t *testing.T) {
	Reset()
	defer Reset()

	h := &testAnalysisHooks{}
	SetAnalysisHooks(h)

	Analysis().OnAnalyzeStart(context.Background(), 10, 2)
	Analysis().OnAnalyzeComplete(context.Background(), AnalyzeStats{Nodes: 10, Issues: 4}, nil)

	if h.starts != 1 || h.last.Issues != 4 {
		t.Errorf("hooks saw starts=%d last=%+v", h.starts, h.last)
	}
}

// Test implementations
type testAnalysisHooks struct {
	NoopAnalysisHooks
	starts int
	last   AnalyzeStats
}

func (h *testAnalysisHooks) OnAnalyzeStart(context.Context, int, int) { h.starts++ }

func (h *testAnalysisHooks) OnAnalyzeComplete(_ context.Context, s AnalyzeStats, _ error) {
	h.last = s
}

type testCacheHooks struct{ NoopCacheHooks }
