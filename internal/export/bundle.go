package export

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
	"time"

	"go.uber.org/zap"

	"spaceship-designer/internal/generator"
	"spaceship-designer/internal/mesh"
	"spaceship-designer/internal/ship"
)

// bundleFormat is the metrics label for bundle exports.
const bundleFormat = "zip"

// WriteBundle writes a zip archive holding the ship in every format, the OBJ material
// library and the ship's template as YAML, all under a directory named after base.
func WriteBundle(w io.Writer, res *generator.ShipResult, base string) error {
	if res == nil || res.Mesh.IsEmpty() {
		return mesh.ErrEmpty
	}
	if err := res.Mesh.Validate(); err != nil {
		return err
	}
	zw := zip.NewWriter(w)
	add := func(name string, write func(io.Writer) error) error {
		fw, err := zw.CreateHeader(&zip.FileHeader{
			Name:     base + "/" + name,
			Method:   zip.Deflate,
			Modified: time.Now(),
		})
		if err != nil {
			return fmt.Errorf("bundle %s: %w", name, err)
		}
		return write(fw)
	}

	for _, f := range Formats() {
		if f == OBJ {
			continue
		}
		if err := add(base+f.Ext(), func(w io.Writer) error { return Encode(w, res.Mesh, f) }); err != nil {
			return err
		}
	}
	if err := add(base+".obj", func(w io.Writer) error { return writeOBJ(w, res.Mesh, base+".mtl") }); err != nil {
		return err
	}
	if err := add(base+".mtl", func(w io.Writer) error { return writeMTL(w, res.Mesh) }); err != nil {
		return err
	}
	if err := add(base+".yaml", func(w io.Writer) error {
		data, err := ship.MarshalConfig(res.Template, res.Metadata())
		if err != nil {
			return err
		}
		_, err = w.Write(data)
		return err
	}); err != nil {
		return err
	}
	return zw.Close()
}

// Bundle writes WriteBundle's archive to p and reports success, logging failures like
// Export does.
func (e *Exporter) Bundle(res *generator.ShipResult, p string) bool {
	err := e.bundle(res, p)
	e.metrics.ObserveExport(bundleFormat, err == nil)
	if err != nil {
		e.log.Warn("bundle failed", zap.String("path", p), zap.Error(err))
		return false
	}
	e.log.Info("ship bundled", zap.String("ship", res.ID), zap.String("path", p))
	return true
}

func (e *Exporter) bundle(res *generator.ShipResult, p string) error {
	if res == nil {
		return mesh.ErrEmpty
	}
	name, err := e.resolve(p)
	if err != nil {
		return err
	}
	var buf bytes.Buffer
	if err := WriteBundle(&buf, res, bundleBase(res)); err != nil {
		return err
	}
	return e.write(name, buf.Bytes())
}

func bundleBase(res *generator.ShipResult) string {
	class := res.Class
	if class == "" {
		class = "ship"
	}
	id := res.ID
	if len(id) > 8 {
		id = id[:8]
	}
	return class + "-" + id
}
