package s2map

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
)

// MapPackage resolves and rewrites the well-known files inside an extracted
// .sc2map directory.
type MapPackage struct {
	dir    string
	logger *slog.Logger
	rename func(oldpath, newpath string) error
}

// Option configures a MapPackage.
type Option func(*MapPackage)

// WithLogger sets a custom logger. The default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(p *MapPackage) {
		p.logger = logger
	}
}

// OpenMapPackage binds to an extracted map directory. The directory must
// exist; the files inside it are only touched by the read/write calls.
func OpenMapPackage(dir string, opts ...Option) (*MapPackage, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("opening map package: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("opening map package: %s is not a directory", dir)
	}
	p := &MapPackage{dir: dir, logger: slog.Default(), rename: os.Rename}
	for _, opt := range opts {
		opt(p)
	}
	return p, nil
}

// HeaderPath is the location of the binary documentheader file.
func (p *MapPackage) HeaderPath() string {
	return filepath.Join(p.dir, "documentheader")
}

// InfoPath is the location of the documentinfo XML sidecar.
func (p *MapPackage) InfoPath() string {
	return filepath.Join(p.dir, "documentinfo")
}

// ReadHeader reads and decodes the documentheader file.
func (p *MapPackage) ReadHeader() (*DocumentHeader, error) {
	data, err := os.ReadFile(p.HeaderPath())
	if err != nil {
		return nil, fmt.Errorf("reading document header: %w", err)
	}
	h, err := DecodeHeader(data)
	if err != nil {
		return nil, err
	}
	p.logger.Debug("decoded document header",
		"path", p.HeaderPath(),
		"size", len(data),
		"dependencies", len(h.Dependencies),
		"attribs", len(h.Attribs))
	return h, nil
}

// WriteHeader encodes h and replaces the documentheader file atomically
// (write to a temp file in the same directory, then rename).
func (p *MapPackage) WriteHeader(h *DocumentHeader) error {
	data, err := EncodeHeader(h)
	if err != nil {
		return err
	}
	p.logger.Debug("writing document header",
		"path", p.HeaderPath(),
		"size", len(data),
		"dependencies", len(h.Dependencies))
	return p.replaceFile(p.HeaderPath(), data)
}

// ReadInfo reads and parses the documentinfo sidecar.
func (p *MapPackage) ReadInfo() (*DocumentInfo, error) {
	data, err := os.ReadFile(p.InfoPath())
	if err != nil {
		return nil, fmt.Errorf("reading document info: %w", err)
	}
	return ParseDocumentInfo(data)
}

// WriteInfo replaces the documentinfo sidecar atomically.
func (p *MapPackage) WriteInfo(info *DocumentInfo) error {
	p.logger.Debug("writing document info",
		"path", p.InfoPath(),
		"size", len(info.Bytes()))
	return p.replaceFile(p.InfoPath(), info.Bytes())
}

// AddDependencies appends dependency URIs to both the binary header and the
// XML sidecar, keeping the two lists identical. Entries already present in
// the header are skipped. Nothing is written when every entry is a
// duplicate, and a failed sidecar write restores the original header so the
// two files never disagree.
func (p *MapPackage) AddDependencies(deps ...string) error {
	origHeader, err := os.ReadFile(p.HeaderPath())
	if err != nil {
		return fmt.Errorf("reading document header: %w", err)
	}
	h, err := DecodeHeader(origHeader)
	if err != nil {
		return err
	}
	if added := h.AddDependencies(deps...); added == 0 {
		p.logger.Debug("no new dependencies to add", "requested", len(deps))
		return nil
	}

	info, err := p.ReadInfo()
	if err != nil {
		return err
	}
	if err := info.SetDependencies(h.Dependencies); err != nil {
		return err
	}

	if err := p.WriteHeader(h); err != nil {
		return err
	}
	if err := p.WriteInfo(info); err != nil {
		if rerr := p.replaceFile(p.HeaderPath(), origHeader); rerr != nil {
			return fmt.Errorf("%w (header left updated: %w)", err, rerr)
		}
		return err
	}
	return nil
}

func (p *MapPackage) replaceFile(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".tmp*")
	if err != nil {
		return fmt.Errorf("replacing %s: %w", path, err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("replacing %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replacing %s: %w", path, err)
	}
	if err := p.rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replacing %s: %w", path, err)
	}
	return nil
}
