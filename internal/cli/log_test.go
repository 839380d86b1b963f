package cli

import (
	"bytes"
	"context"
	"errors"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/configtower/pkg/observability"
)

func TestNewLoggerLevels(t *testing.T) {
	tests := []struct {
		level     log.Level
		wantDebug bool
		wantInfo  bool
	}{
		{log.InfoLevel, false, true},
		{log.DebugLevel, true, true},
		{log.WarnLevel, false, false},
	}
	for _, tt := range tests {
		t.Run(tt.level.String(), func(t *testing.T) {
			var debug, info bytes.Buffer
			newLogger(&debug, tt.level).Debug("scope resolved")
			newLogger(&info, tt.level).Info("graph loaded")

			if got := debug.Len() > 0; got != tt.wantDebug {
				t.Errorf("debug logged = %v, want %v", got, tt.wantDebug)
			}
			if got := info.Len() > 0; got != tt.wantInfo {
				t.Errorf("info logged = %v, want %v", got, tt.wantInfo)
			}
		})
	}
}

func TestProgressDone(t *testing.T) {
	var buf bytes.Buffer
	prog := newProgress(newLogger(&buf, log.InfoLevel))
	prog.done("Loaded 7 nodes")

	if !regexp.MustCompile(`Loaded 7 nodes \(\d+(\.\d+)?[µnm]?s\)`).MatchString(buf.String()) {
		t.Errorf("progress line = %q", buf.String())
	}
}

func TestLoggerContext(t *testing.T) {
	if loggerFromContext(context.Background()) != log.Default() {
		t.Error("empty context should yield the default logger")
	}

	var buf bytes.Buffer
	l := newLogger(&buf, log.InfoLevel)
	ctx := withLogger(context.Background(), l)
	if loggerFromContext(ctx) != l {
		t.Fatal("logger not carried by context")
	}
	loggerFromContext(ctx).Info("from context")
	if !strings.Contains(buf.String(), "from context") {
		t.Error("context logger wrote elsewhere")
	}
}

func TestLogHooks(t *testing.T) {
	ctx := context.Background()

	t.Run("debug level", func(t *testing.T) {
		var buf bytes.Buffer
		h := newLogHooks(newLogger(&buf, log.DebugLevel))

		h.OnAnalyzeStart(ctx, 7, 2)
		h.OnAnalyzeComplete(ctx, observability.AnalyzeStats{Nodes: 7, Issues: 3, Conflicts: 1}, nil)
		h.OnAnalyzeComplete(ctx, observability.AnalyzeStats{}, errors.New("boom"))
		h.OnRenderStart(ctx, "svg")
		h.OnRenderComplete(ctx, "svg", time.Millisecond, nil)
		h.OnCacheHit(ctx, "analysis")
		h.OnCacheMiss(ctx, "render")
		h.OnCacheSet(ctx, "render", 512)

		out := buf.String()
		for _, want := range []string{
			"analysis started", "analysis complete", "analysis failed",
			"render started", "render complete",
			"cache hit", "cache miss", "cache set",
		} {
			if !strings.Contains(out, want) {
				t.Errorf("log missing %q:\n%s", want, out)
			}
		}
	})

	t.Run("info level is silent", func(t *testing.T) {
		var buf bytes.Buffer
		h := newLogHooks(newLogger(&buf, log.InfoLevel))
		h.OnAnalyzeStart(ctx, 1, 0)
		h.OnCacheHit(ctx, "analysis")
		if buf.Len() != 0 {
			t.Errorf("hooks logged above debug level: %q", buf.String())
		}
	})
}
