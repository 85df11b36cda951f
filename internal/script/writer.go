package script

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/klauspost/compress/zstd"

	"github.com/dbsmedya/goexport/internal/types"
)

// CompressZstd selects zstd-compressed output.
const CompressZstd = "zstd"

// ErrFileExists is returned when overwrite is disabled and the target exists.
var ErrFileExists = errors.New("output file already exists")

// Writer stores finished scripts under a directory, one file per table.
type Writer struct {
	dir       string
	compress  string
	overwrite bool
}

// NewWriter creates a Writer, creating dir when it does not exist.
func NewWriter(dir, compress string, overwrite bool) (*Writer, error) {
	if dir == "" {
		dir = "."
	}
	if compress != "" && compress != CompressZstd {
		return nil, fmt.Errorf("unsupported compression %q", compress)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	return &Writer{
		dir:       dir,
		compress:  compress,
		overwrite: overwrite,
	}, nil
}

// Dir returns the output directory.
func (w *Writer) Dir() string {
	return w.dir
}

// Path returns where the script for table will be written.
func (w *Writer) Path(table types.TableID) string {
	name := table.FileName()
	if w.compress == CompressZstd {
		name += ".zst"
	}
	return filepath.Join(w.dir, name)
}

// Write stores content for table and returns the file path. Empty content is
// never written and yields an empty path.
func (w *Writer) Write(table types.TableID, content string) (string, error) {
	if content == "" {
		return "", nil
	}

	path := w.Path(table)

	flags := os.O_CREATE | os.O_WRONLY | os.O_TRUNC
	if !w.overwrite {
		flags = os.O_CREATE | os.O_WRONLY | os.O_EXCL
	}

	fh, err := os.OpenFile(path, flags, 0o644)
	if err != nil {
		if errors.Is(err, os.ErrExist) {
			return "", fmt.Errorf("%w: %s", ErrFileExists, path)
		}
		return "", fmt.Errorf("failed to open %s: %w", path, err)
	}

	if err := w.writeBody(fh, content); err != nil {
		_ = fh.Close()
		return "", fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := fh.Close(); err != nil {
		return "", fmt.Errorf("failed to close %s: %w", path, err)
	}

	return path, nil
}

func (w *Writer) writeBody(dst io.Writer, content string) error {
	if w.compress != CompressZstd {
		_, err := io.WriteString(dst, content)
		return err
	}

	enc, err := zstd.NewWriter(dst, zstd.WithEncoderLevel(zstd.SpeedBestCompression))
	if err != nil {
		return fmt.Errorf("can not create zstd writer: %w", err)
	}
	if _, err := io.WriteString(enc, content); err != nil {
		_ = enc.Close()
		return err
	}
	return enc.Close()
}
