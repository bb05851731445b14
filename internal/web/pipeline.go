package web

import (
	"net/http"
	"time"

	"github.com/hpungsan/tinynotes/internal/errors"
	"github.com/hpungsan/tinynotes/internal/metrics"
	"github.com/hpungsan/tinynotes/internal/ratelimit"
)

// Pipeline applies the fixed per-request step order shared by every route:
// rate-limit admission first (rejections are answered before any timing
// starts), then the handler runs under a timer whose duration is recorded
// against the route's metric series.
type Pipeline struct {
	limiter    *ratelimit.Limiter
	recorder   *metrics.Recorder
	defaultKey string
}

// NewPipeline wires the shared limiter and recorder into a pipeline.
func NewPipeline(limiter *ratelimit.Limiter, recorder *metrics.Recorder, defaultKey string) *Pipeline {
	return &Pipeline{
		limiter:    limiter,
		recorder:   recorder,
		defaultKey: defaultKey,
	}
}

// apiKey resolves the caller identity: the X-API-Key header, or the fixed
// fallback identity when absent.
func (p *Pipeline) apiKey(r *http.Request) string {
	if key := r.Header.Get("X-API-Key"); key != "" {
		return key
	}
	return p.defaultKey
}

// Wrap runs the pipeline around handler. name is the route template
// ("METHOD /pattern") used as the metric series name.
func (p *Pipeline) Wrap(name string, handler http.HandlerFunc) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !p.limiter.Admit(p.apiKey(r)) {
			renderError(w, errors.NewRateLimited())
			return
		}

		start := time.Now()
		handler(w, r)
		p.recorder.Record(name, time.Since(start).Seconds()*1000.0)
	})
}
