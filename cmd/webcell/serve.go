package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	pkgerrors "github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/vango-dev/webcell/internal/config"
	"github.com/vango-dev/webcell/internal/errors"
	"github.com/vango-dev/webcell/internal/preview"
	"github.com/vango-dev/webcell/pkg/cell"
	"github.com/vango-dev/webcell/pkg/dom"
	"github.com/vango-dev/webcell/pkg/metrics"
	"github.com/vango-dev/webcell/pkg/render"
	"github.com/vango-dev/webcell/pkg/vdom"
)

func serveCmd(c *cli) *cobra.Command {
	var (
		port int
		host string
	)

	cmd := &cobra.Command{
		Use:   "serve [file.html]",
		Short: "Run the live preview server",
		Long: `Load an HTML document into a live webcell runtime and serve it.

Connected browsers receive every document mutation over a websocket and
refresh their view. The built-in <webcell-clock> element ticks once per
second and can be used to watch the stream.

Examples:
  webcell serve
  webcell serve page.html --port=8080`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.load()
			if err != nil {
				return err
			}
			if port > 0 {
				cfg.Preview.Port = port
			}
			if host != "" {
				cfg.Preview.Host = host
			}
			if len(args) == 1 {
				cfg.Preview.Document = args[0]
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return runServe(ctx, c.fs, cfg)
		},
	}

	cmd.Flags().IntVarP(&port, "port", "p", 0, "Port to run on (default from webcell.yaml)")
	cmd.Flags().StringVarP(&host, "host", "H", "", "Host to bind to (default from webcell.yaml)")

	return cmd
}

func runServe(ctx context.Context, fs afero.Fs, cfg *config.Config) error {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	rt := cell.NewRuntime(dom.NewDocument(),
		cell.WithMetrics(metrics.New(
			metrics.WithNamespace(cfg.Metrics.Namespace),
			metrics.WithSubsystem(cfg.Metrics.Subsystem),
			metrics.WithRegistry(reg),
		)),
	)
	if err := rt.Register(clockDefinition); err != nil {
		return err
	}
	if err := loadDocument(fs, rt, cfg.Preview.Document); err != nil {
		return err
	}

	s := preview.New(rt, preview.Config{
		Address:  cfg.PreviewAddress(),
		Title:    cfg.Render.Title,
		Lang:     cfg.Render.Lang,
		Render:   render.RendererConfig{Pretty: cfg.Render.Pretty, Indent: cfg.Render.Indent},
		Gatherer: reg,
	})
	success("Preview running at http://%s", cfg.PreviewAddress())
	return s.Run(ctx)
}

// loadDocument parses path into the body. The loop is not running yet,
// so the document can be touched directly; connect callbacks queue their
// work on the loop.
func loadDocument(fs afero.Fs, rt *cell.Runtime, path string) error {
	markup := `<webcell-clock></webcell-clock>`
	if path != "" {
		src, err := afero.ReadFile(fs, path)
		if err != nil {
			return errors.New("W040").WithDetail(path).Wrap(pkgerrors.Wrap(err, "read document"))
		}
		markup = string(src)
	}
	if err := rt.Document().Body().SetInnerHTML(markup); err != nil {
		return pkgerrors.Wrapf(err, "parse %s", path)
	}
	rt.Loop().Flush()
	return nil
}

// clockDefinition renders the current time and updates it every second.
var clockDefinition = cell.Define("webcell-clock").
	Style(":host { font-family: monospace; }").
	OnMount(func(c *cell.Component) {
		ctx, cancel := context.WithCancel(context.Background())
		c.AddDisposer(cancel)
		lp := c.Runtime().Loop()
		go func() {
			ticker := time.NewTicker(time.Second)
			defer ticker.Stop()
			for {
				select {
				case <-ctx.Done():
					return
				case t := <-ticker.C:
					lp.Post(func() {
						c.SetState(cell.Data{"now": t.Format(time.TimeOnly)})
					})
				}
			}
		}()
	}).
	Render(func(c *cell.Component) any {
		return vdom.H("time", nil, c.State().String("now"))
	}).
	MustBuild()
