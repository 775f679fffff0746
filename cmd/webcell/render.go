package main

import (
	"bytes"

	pkgerrors "github.com/pkg/errors"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/vango-dev/webcell/internal/config"
	"github.com/vango-dev/webcell/internal/errors"
	"github.com/vango-dev/webcell/internal/publish"
	"github.com/vango-dev/webcell/pkg/dom"
	"github.com/vango-dev/webcell/pkg/render"
	"github.com/vango-dev/webcell/pkg/vdom"
)

func renderCmd(c *cli) *cobra.Command {
	var (
		page    bool
		out     string
		upload  bool
	)

	cmd := &cobra.Command{
		Use:   "render <file.html>",
		Short: "Normalize an HTML file through the virtual DOM",
		Long: `Parse an HTML fragment, hydrate it into a virtual DOM tree and print
the serialized markup. Attributes come out in a stable order, boolean
attributes are bare and void elements lose their closing tags.

Examples:
  webcell render index.html
  webcell render index.html --page --out dist/index.html
  webcell render index.html --page --publish`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.load()
			if err != nil {
				return err
			}
			markup, err := renderFile(c.fs, args[0], cfg, page)
			if err != nil {
				return err
			}
			if out != "" {
				if err := afero.WriteFile(c.fs, out, markup, 0o644); err != nil {
					return errors.New("W040").Wrap(pkgerrors.Wrapf(err, "write %s", out))
				}
				success("Wrote %s", out)
			} else if !upload {
				if _, err := cmd.OutOrStdout().Write(markup); err != nil {
					return err
				}
			}
			if upload {
				return publishMarkup(cmd, cfg, args[0], markup)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&page, "page", false, "Wrap the markup in a complete HTML document")
	cmd.Flags().StringVarP(&out, "out", "o", "", "Write to a file instead of stdout")
	cmd.Flags().BoolVar(&upload, "publish", false, "Upload the result to the configured S3 bucket")

	return cmd
}

// renderFile parses path into a fresh document and serializes the
// hydrated tree.
func renderFile(fs afero.Fs, path string, cfg *config.Config, page bool) ([]byte, error) {
	src, err := afero.ReadFile(fs, path)
	if err != nil {
		return nil, errors.New("W040").WithDetail(path).Wrap(pkgerrors.Wrap(err, "read input"))
	}

	doc := dom.NewDocument()
	if err := doc.Body().SetInnerHTML(string(src)); err != nil {
		return nil, pkgerrors.Wrapf(err, "parse %s", path)
	}
	tree := vdom.Container(doc.Body())

	r := render.NewRenderer(render.RendererConfig{Pretty: cfg.Render.Pretty, Indent: cfg.Render.Indent})
	var buf bytes.Buffer
	if page {
		err = r.RenderPage(&buf, render.PageData{
			Body:  tree,
			Title: cfg.Render.Title,
			Lang:  cfg.Render.Lang,
		})
	} else {
		err = r.RenderToWriter(&buf, tree)
		buf.WriteByte('\n')
	}
	if err != nil {
		return nil, pkgerrors.Wrap(err, "serialize")
	}
	return buf.Bytes(), nil
}

func publishMarkup(cmd *cobra.Command, cfg *config.Config, name string, markup []byte) error {
	p, err := publish.New(publish.NewClient(cfg.Publish), cfg.Publish, nil)
	if err != nil {
		return err
	}
	key, err := p.Publish(cmd.Context(), name, markup)
	if err != nil {
		return err
	}
	success("Published s3://%s/%s", cfg.Publish.Bucket, key)
	return nil
}
