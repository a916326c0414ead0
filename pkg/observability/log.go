package observability

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
)

// LogHooks writes pipeline and cache events to a logger at debug level.
// Failed stages are logged at error level.
type LogHooks struct {
	Logger *log.Logger
}

// NewLogHooks returns hooks logging to logger, or log.Default() when nil.
func NewLogHooks(logger *log.Logger) *LogHooks {
	if logger == nil {
		logger = log.Default()
	}
	return &LogHooks{Logger: logger.WithPrefix("hooks")}
}

func (h *LogHooks) done(stage string, duration time.Duration, err error, kv ...any) {
	kv = append(kv, "duration", duration)
	if err != nil {
		h.Logger.Error(stage+" failed", append(kv, "err", err)...)
		return
	}
	h.Logger.Debug(stage+" done", kv...)
}

func (h *LogHooks) OnBuildStart(_ context.Context, documents int) {
	h.Logger.Debug("build start", "documents", documents)
}

func (h *LogHooks) OnBuildComplete(_ context.Context, documents int, d time.Duration, err error) {
	h.done("build", d, err, "documents", documents)
}

func (h *LogHooks) OnExpandStart(_ context.Context, rootID int64) {
	h.Logger.Debug("expand start", "root", rootID)
}

func (h *LogHooks) OnExpandComplete(_ context.Context, rootID int64, nodes int, d time.Duration, err error) {
	h.done("expand", d, err, "root", rootID, "nodes", nodes)
}

func (h *LogHooks) OnNumberStart(_ context.Context, nodes int) {
	h.Logger.Debug("number start", "nodes", nodes)
}

func (h *LogHooks) OnNumberComplete(_ context.Context, prefixes int, d time.Duration, err error) {
	h.done("number", d, err, "prefixes", prefixes)
}

func (h *LogHooks) OnRenderStart(_ context.Context, formats []string) {
	h.Logger.Debug("render start", "formats", formats)
}

func (h *LogHooks) OnRenderComplete(_ context.Context, formats []string, d time.Duration, err error) {
	h.done("render", d, err, "formats", formats)
}

func (h *LogHooks) OnCacheHit(_ context.Context, keyType string) {
	h.Logger.Debug("cache hit", "type", keyType)
}

func (h *LogHooks) OnCacheMiss(_ context.Context, keyType string) {
	h.Logger.Debug("cache miss", "type", keyType)
}

func (h *LogHooks) OnCacheSet(_ context.Context, keyType string, size int) {
	h.Logger.Debug("cache set", "type", keyType, "bytes", size)
}

var (
	_ PipelineHooks = (*LogHooks)(nil)
	_ CacheHooks    = (*LogHooks)(nil)
)
