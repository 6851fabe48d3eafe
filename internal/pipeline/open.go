package pipeline

import (
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/dsnet/compress/bzip2"
	"github.com/ulikunitz/xz"
)

// Stdio is the path naming standard input or output.
const Stdio = "-"

// Compression identifies a stream compression format.
type Compression int

// Supported compressions.
const (
	None Compression = iota
	Gzip
	Bzip2
	XZ
)

// CompressionFor picks the compression from a file extension.
func CompressionFor(path string) Compression {
	switch {
	case strings.HasSuffix(path, ".gz"):
		return Gzip
	case strings.HasSuffix(path, ".bz2"):
		return Bzip2
	case strings.HasSuffix(path, ".xz"):
		return XZ
	}
	return None
}

// readCloser closes the decompressor and then the underlying file.
type readCloser struct {
	io.Reader
	closers []io.Closer
}

func (r *readCloser) Close() error {
	var first error
	for _, c := range r.closers {
		if err := c.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// Open opens a dump for reading, decompressing by file extension.
func Open(path string) (io.ReadCloser, error) {
	var f *os.File
	if path == Stdio {
		f = os.Stdin
	} else {
		var err error
		if f, err = os.Open(path); err != nil {
			return nil, fmt.Errorf("open dump: %w", err)
		}
	}
	rc, err := NewReader(f, CompressionFor(path))
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("open dump %s: %w", path, err)
	}
	return rc, nil
}

// NewReader wraps r in the decompressor for c. Closing the result closes r
// when r is an io.Closer.
func NewReader(r io.Reader, c Compression) (io.ReadCloser, error) {
	rc := &readCloser{Reader: r}
	switch c {
	case Gzip:
		zr, err := gzip.NewReader(r)
		if err != nil {
			return nil, err
		}
		rc.Reader = zr
		rc.closers = append(rc.closers, zr)
	case Bzip2:
		br, err := bzip2.NewReader(r, &bzip2.ReaderConfig{})
		if err != nil {
			return nil, err
		}
		rc.Reader = br
		rc.closers = append(rc.closers, br)
	case XZ:
		xr, err := xz.NewReader(r)
		if err != nil {
			return nil, err
		}
		rc.Reader = xr
	}
	if c, ok := r.(io.Closer); ok {
		rc.closers = append(rc.closers, c)
	}
	return rc, nil
}

// writeCloser flushes the compressor before closing the file.
type writeCloser struct {
	io.Writer
	closers []io.Closer
}

func (w *writeCloser) Close() error {
	var first error
	for _, c := range w.closers {
		if err := c.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// Create creates the output file, compressing by file extension.
func Create(path string) (io.WriteCloser, error) {
	var f *os.File
	if path == Stdio {
		f = os.Stdout
	} else {
		var err error
		if f, err = os.Create(path); err != nil {
			return nil, fmt.Errorf("create output: %w", err)
		}
	}
	wc, err := NewWriter(f, CompressionFor(path))
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("create output %s: %w", path, err)
	}
	return wc, nil
}

// NewWriter wraps w in the compressor for c.
func NewWriter(w io.Writer, c Compression) (io.WriteCloser, error) {
	wc := &writeCloser{Writer: w}
	switch c {
	case Gzip:
		zw := gzip.NewWriter(w)
		wc.Writer = zw
		wc.closers = append(wc.closers, zw)
	case Bzip2:
		bw, err := bzip2.NewWriter(w, &bzip2.WriterConfig{Level: bzip2.DefaultCompression})
		if err != nil {
			return nil, err
		}
		wc.Writer = bw
		wc.closers = append(wc.closers, bw)
	case XZ:
		xw, err := xz.NewWriter(w)
		if err != nil {
			return nil, err
		}
		wc.Writer = xw
		wc.closers = append(wc.closers, xw)
	}
	if c, ok := w.(io.Closer); ok && w != io.Writer(os.Stdout) {
		wc.closers = append(wc.closers, c)
	}
	return wc, nil
}
