package preview

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/vango-dev/webcell/internal/errors"
	"github.com/vango-dev/webcell/pkg/cell"
	"github.com/vango-dev/webcell/pkg/render"
	"github.com/vango-dev/webcell/pkg/vdom"
)

// Config configures the preview server.
type Config struct {
	// Address is the listen address, e.g. "localhost:3000".
	Address string

	// Title and Lang are applied to the served page.
	Title string
	Lang  string

	// Render configures the serializer.
	Render render.RendererConfig

	// Gatherer serves /metrics. Defaults to prometheus.DefaultGatherer.
	Gatherer prometheus.Gatherer

	// Logger defaults to the runtime logger.
	Logger *slog.Logger

	// ShutdownTimeout bounds graceful shutdown. Defaults to 5s.
	ShutdownTimeout time.Duration
}

// Server serves a runtime's document.
type Server struct {
	rt        *cell.Runtime
	config    Config
	logger    *slog.Logger
	hub       *Hub
	router    chi.Router
	unobserve []func()
}

// New creates a server for rt and starts recording the document's
// mutations.
func New(rt *cell.Runtime, config Config) *Server {
	if config.Gatherer == nil {
		config.Gatherer = prometheus.DefaultGatherer
	}
	if config.ShutdownTimeout == 0 {
		config.ShutdownTimeout = 5 * time.Second
	}
	logger := config.Logger
	if logger == nil {
		logger = rt.Logger()
	}
	logger = logger.With("component", "preview")

	s := &Server{
		rt:     rt,
		config: config,
		logger: logger,
		hub:    NewHub(logger),
	}
	s.unobserve = append(s.unobserve,
		rt.Document().Observe(s.hub.Publish),
		rt.Metrics().Observe(rt.Document()),
	)

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(Instrument(WithRequestMetrics(rt.Metrics())))
	r.Get("/", s.handlePage)
	r.Get("/body", s.handleBody)
	r.Get("/ws", s.hub.HandleWebSocket)
	r.Handle("/metrics", promhttp.HandlerFor(config.Gatherer, promhttp.HandlerOpts{}))
	s.router = r
	return s
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Hub returns the websocket hub.
func (s *Server) Hub() *Hub {
	return s.hub
}

// snapshot serializes the body's children on the loop goroutine.
func (s *Server) snapshot(ctx context.Context) (*vdom.VNode, error) {
	var body *vdom.VNode
	err := s.rt.Loop().Do(ctx, func() {
		body = vdom.Fragment(render.Snapshot(s.rt.Document().Body()).Children)
	})
	return body, err
}

func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	body, err := s.snapshot(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusServiceUnavailable)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	sr := render.NewStreamingRenderer(w, s.config.Render)
	err = sr.RenderPage(render.PageData{
		Body:    body,
		Title:   s.config.Title,
		Lang:    s.config.Lang,
		Scripts: []render.ScriptTag{{Inline: clientScript}},
	})
	if err != nil {
		s.logger.Error("render page", "error", err)
	}
}

func (s *Server) handleBody(w http.ResponseWriter, r *http.Request) {
	body, err := s.snapshot(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusServiceUnavailable)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := render.NewRenderer(s.config.Render).RenderToWriter(w, body); err != nil {
		s.logger.Error("render body", "error", err)
	}
}

// Run runs the loop and serves HTTP until ctx is done, then shuts down
// gracefully.
func (s *Server) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	go s.rt.Loop().Run(ctx)

	httpServer := &http.Server{
		Addr:              s.config.Address,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server starting", "address", s.config.Address)
		errCh <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		s.Close()
		if err != http.ErrServerClosed {
			return errors.New("W042").Wrap(err)
		}
		return nil
	case <-ctx.Done():
		s.logger.Info("shutting down...")
		shutdownCtx, done := context.WithTimeout(context.Background(), s.config.ShutdownTimeout)
		defer done()
		s.Close()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return errors.New("W042").Wrap(err)
		}
		return nil
	}
}

// Close stops recording mutations and disconnects every client.
func (s *Server) Close() {
	for _, fn := range s.unobserve {
		fn()
	}
	s.unobserve = nil
	s.hub.Close()
}

// clientScript swaps the body with a fresh /body snapshot after mutations,
// at most once per animation frame.
const clientScript = `(function() {
    'use strict';
    var pending = false;
    var delay = 1000;

    function refresh() {
        pending = false;
        fetch('/body').then(function(r) { return r.text(); }).then(function(html) {
            if (document.body.setHTMLUnsafe) {
                document.body.setHTMLUnsafe(html);
            } else {
                document.body.innerHTML = html;
            }
        });
    }

    function connect() {
        var protocol = location.protocol === 'https:' ? 'wss:' : 'ws:';
        var ws = new WebSocket(protocol + '//' + location.host + '/ws');
        ws.onmessage = function(e) {
            var msg = JSON.parse(e.data);
            if (msg.type === 'hello') {
                console.log('[webcell] preview connected as', msg.id);
                delay = 1000;
                return;
            }
            if (!pending) {
                pending = true;
                requestAnimationFrame(refresh);
            }
        };
        ws.onclose = function() {
            setTimeout(function() {
                delay = Math.min(delay * 2, 30000);
                connect();
            }, delay);
        };
    }
    connect();
})();`
