package export

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"path"
	"path/filepath"
	"strings"

	"github.com/hack-pad/hackpadfs"
	osfs "github.com/hack-pad/hackpadfs/os"
	"github.com/hschendel/stl"
	"go.uber.org/zap"

	"spaceship-designer/internal/generator"
	"spaceship-designer/internal/mesh"
	"spaceship-designer/internal/metrics"
)

const (
	dirPerm  = 0o755
	filePerm = 0o644
)

// Exporter saves ships onto a hackpadfs filesystem. The CLI uses the OS filesystem;
// tests use an in-memory one.
type Exporter struct {
	fsys    hackpadfs.FS
	resolve func(string) (string, error)
	log     *zap.Logger
	metrics *metrics.Metrics
}

// Option configures an Exporter.
type Option func(*Exporter)

// WithLogger sets the logger used to report failed exports.
func WithLogger(log *zap.Logger) Option {
	return func(e *Exporter) {
		if log != nil {
			e.log = log
		}
	}
}

// WithMetrics counts exports by format and result in m.
func WithMetrics(m *metrics.Metrics) Option {
	return func(e *Exporter) { e.metrics = m }
}

// New returns an exporter writing to fsys. Paths are slash-separated and relative to
// the filesystem root.
func New(fsys hackpadfs.FS, opts ...Option) *Exporter {
	e := &Exporter{fsys: fsys, resolve: fsPath, log: zap.NewNop()}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// NewOS returns an exporter on the host filesystem. Paths are ordinary OS paths,
// relative ones resolved against the working directory.
func NewOS(opts ...Option) *Exporter {
	fsys := osfs.NewFS()
	e := New(fsys, opts...)
	e.resolve = func(p string) (string, error) {
		abs, err := filepath.Abs(p)
		if err != nil {
			return "", err
		}
		return fsys.FromOSPath(abs)
	}
	return e
}

// FS returns the underlying filesystem.
func (e *Exporter) FS() hackpadfs.FS {
	return e.fsys
}

// fsPath turns a user path into an io/fs style name.
func fsPath(p string) (string, error) {
	p = path.Clean(strings.TrimLeft(filepath.ToSlash(p), "/"))
	if p == "." || !fs.ValidPath(p) {
		return "", fmt.Errorf("invalid path %q", p)
	}
	return p, nil
}

// Export writes res to p in format f and reports success. Parent directories are
// created as needed; OBJ also writes a sibling .mtl. Failures are logged, never
// returned, so a bad path or full disk cannot take the caller down.
func (e *Exporter) Export(res *generator.ShipResult, p string, f Format) bool {
	err := e.export(res, p, f)
	e.metrics.ObserveExport(f.String(), err == nil)
	if err != nil {
		e.log.Warn("export failed",
			zap.String("path", p),
			zap.Stringer("format", f),
			zap.Error(err))
		return false
	}
	e.log.Info("ship exported",
		zap.String("ship", res.ID),
		zap.String("path", p),
		zap.Stringer("format", f),
		zap.Int("faces", res.Faces))
	return true
}

func (e *Exporter) export(res *generator.ShipResult, p string, f Format) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("encode %s: %v", f, r)
		}
	}()
	if res == nil || res.Mesh == nil {
		return errors.New("no ship to export")
	}
	name, err := e.resolve(p)
	if err != nil {
		return err
	}

	if f != OBJ {
		var buf bytes.Buffer
		if err := Encode(&buf, res.Mesh, f); err != nil {
			return err
		}
		return e.write(name, buf.Bytes())
	}

	if res.Mesh.IsEmpty() {
		return mesh.ErrEmpty
	}
	if err := res.Mesh.Validate(); err != nil {
		return err
	}
	mtl := strings.TrimSuffix(path.Base(name), path.Ext(name)) + ".mtl"
	var obj, mbuf bytes.Buffer
	if err := writeOBJ(&obj, res.Mesh, mtl); err != nil {
		return err
	}
	if err := writeMTL(&mbuf, res.Mesh); err != nil {
		return err
	}
	if err := e.write(path.Join(path.Dir(name), mtl), mbuf.Bytes()); err != nil {
		return err
	}
	return e.write(name, obj.Bytes())
}

func (e *Exporter) write(name string, data []byte) error {
	if dir := path.Dir(name); dir != "." {
		if err := hackpadfs.MkdirAll(e.fsys, dir, dirPerm); err != nil {
			return fmt.Errorf("create %s: %w", dir, err)
		}
	}
	if err := hackpadfs.WriteFullFile(e.fsys, name, data, filePerm); err != nil {
		return fmt.Errorf("write %s: %w", name, err)
	}
	return nil
}

// ReadSTL loads an STL file written by the exporter.
func (e *Exporter) ReadSTL(p string) (*stl.Solid, error) {
	data, err := e.ReadFile(p)
	if err != nil {
		return nil, err
	}
	return stl.ReadAll(bytes.NewReader(data))
}

// WriteFile stores data at p on the exporter's filesystem, creating parent directories.
func (e *Exporter) WriteFile(p string, data []byte) error {
	name, err := e.resolve(p)
	if err != nil {
		return err
	}
	return e.write(name, data)
}

// ReadFile reads p from the exporter's filesystem.
func (e *Exporter) ReadFile(p string) ([]byte, error) {
	name, err := e.resolve(p)
	if err != nil {
		return nil, err
	}
	return fs.ReadFile(e.fsys, name)
}
