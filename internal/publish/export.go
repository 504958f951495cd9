package publish

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/afero"

	"github.com/vango-dev/hotweb/internal/config"
	"github.com/vango-dev/hotweb/internal/errors"
	"github.com/vango-dev/hotweb/internal/site"
	"github.com/vango-dev/hotweb/pkg/render"
	"github.com/vango-dev/hotweb/pkg/vdom"
)

// ExportOptions configures an Exporter.
type ExportOptions struct {
	// Fs defaults to the OS filesystem.
	Fs afero.Fs

	// Root is the exported component. Defaults to the landing page.
	Root vdom.Component

	// Renderer defaults to a compact renderer.
	Renderer *render.Renderer

	// Logger defaults to slog.Default().
	Logger *slog.Logger
}

// Exporter writes the page and the public directory to a directory.
type Exporter struct {
	config   *config.Config
	fs       afero.Fs
	root     vdom.Component
	renderer *render.Renderer
	logger   *slog.Logger
}

// NewExporter creates an Exporter for the project described by cfg.
func NewExporter(cfg *config.Config, opts ExportOptions) *Exporter {
	if cfg == nil {
		cfg = config.New()
	}
	if opts.Fs == nil {
		opts.Fs = afero.NewOsFs()
	}
	if opts.Root == nil {
		opts.Root = site.Root()
	}
	if opts.Renderer == nil {
		opts.Renderer = render.NewRenderer(render.RendererConfig{})
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	return &Exporter{
		config:   cfg,
		fs:       opts.Fs,
		root:     opts.Root,
		renderer: opts.Renderer,
		logger:   opts.Logger.With("component", "publish"),
	}
}

// Export writes the public directory and the rendered page below dir and
// returns the written files as slash-separated paths relative to dir, in
// sorted order. A public file at the page location is replaced by the
// rendered page.
func (e *Exporter) Export(ctx context.Context, dir string) ([]string, error) {
	if err := e.fs.MkdirAll(dir, 0o755); err != nil {
		return nil, errors.New("E501").WithDetailf("create %s", dir).Wrap(err)
	}

	written := make(map[string]bool)
	if err := e.copyPublic(ctx, dir, written); err != nil {
		return nil, err
	}

	page, err := e.renderPage()
	if err != nil {
		return nil, errors.New("E501").WithDetail("render page").Wrap(err)
	}
	pageFile := PageFile(e.config.Site.PagePath)
	if err := e.writeFile(dir, pageFile, page); err != nil {
		return nil, err
	}
	written[pageFile] = true

	files := make([]string, 0, len(written))
	for f := range written {
		files = append(files, f)
	}
	sort.Strings(files)

	e.logger.Info("exported", "dir", dir, "files", len(files))
	return files, nil
}

// PageFile returns the export path of the page served at pagePath.
func PageFile(pagePath string) string {
	p := strings.Trim(path.Clean("/"+pagePath), "/")
	if p == "" {
		return "index.html"
	}
	return p + "/index.html"
}

func (e *Exporter) renderPage() ([]byte, error) {
	page := site.Document(e.config.Site.Container, "", e.root.Render())
	if e.config.Site.Title != "" {
		page.Title = e.config.Site.Title
	}
	var buf bytes.Buffer
	if err := e.renderer.RenderPage(&buf, page); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// copyPublic copies the static directory into dir. A missing static
// directory exports nothing.
func (e *Exporter) copyPublic(ctx context.Context, dir string, written map[string]bool) error {
	public := e.config.PublicPath()
	if ok, _ := afero.DirExists(e.fs, public); !ok {
		e.logger.Debug("no public directory", "path", public)
		return nil
	}

	return afero.Walk(e.fs, public, func(p string, info os.FileInfo, err error) error {
		if err != nil {
			return errors.New("E501").WithDetailf("walk %s", p).Wrap(err)
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(public, p)
		if err != nil {
			return errors.New("E501").Wrap(err)
		}
		rel = filepath.ToSlash(rel)

		src, err := e.fs.Open(p)
		if err != nil {
			return errors.New("E501").WithDetailf("open %s", p).Wrap(err)
		}
		defer src.Close()
		data, err := io.ReadAll(src)
		if err != nil {
			return errors.New("E501").WithDetailf("read %s", p).Wrap(err)
		}
		if err := e.writeFile(dir, rel, data); err != nil {
			return err
		}
		written[rel] = true
		return nil
	})
}

func (e *Exporter) writeFile(dir, rel string, data []byte) error {
	target := filepath.Join(dir, filepath.FromSlash(rel))
	if err := e.fs.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return errors.New("E501").WithDetailf("create %s", filepath.Dir(target)).Wrap(err)
	}
	if err := afero.WriteFile(e.fs, target, data, 0o644); err != nil {
		return errors.New("E501").WithDetailf("write %s", target).Wrap(err)
	}
	return nil
}
