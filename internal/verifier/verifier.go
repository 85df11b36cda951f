// Package verifier checks exported scripts against the source database.
package verifier

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/dbsmedya/goexport/internal/logger"
	"github.com/dbsmedya/goexport/internal/types"
)

// Method defines how an exported table is verified.
type Method string

const (
	// MethodCount compares exported rows with a fresh source row count
	MethodCount Method = "count"
	// MethodSHA256 does the count check and records a checksum of each script
	MethodSHA256 Method = "sha256"
	// MethodSkip skips verification entirely
	MethodSkip Method = "skip"
)

// ManifestName is the checksum file written next to the scripts.
const ManifestName = "SHA256SUMS"

// ErrMismatch is returned when the exported row count differs from the source.
var ErrMismatch = errors.New("verification mismatch")

// RowCounter counts the rows currently in a table.
type RowCounter interface {
	RowCount(ctx context.Context, t types.TableID) (int64, error)
}

// Result holds the verification outcome for a single table.
type Result struct {
	Table         types.TableID
	Method        Method
	SourceCount   int64
	ExportedCount int64
	Path          string
	Hash          string
	Match         bool
	ErrorMessage  string
}

// Stats contains overall verification statistics.
type Stats struct {
	TablesVerified int
	TablesPassed   int
	TablesFailed   int
	TotalRows      int64
	Method         Method
}

// Verifier checks each exported table once its script is on disk.
type Verifier struct {
	counter RowCounter
	method  Method
	logger  *logger.Logger
	stats   Stats
	results []Result
}

// NewVerifier creates a verifier. An empty method defaults to MethodCount.
func NewVerifier(counter RowCounter, method Method, log *logger.Logger) (*Verifier, error) {
	if counter == nil {
		return nil, fmt.Errorf("row counter is nil")
	}
	if log == nil {
		log = logger.NewDefault()
	}
	if method == "" {
		method = MethodCount
	}

	switch method {
	case MethodCount, MethodSHA256, MethodSkip:
	default:
		return nil, fmt.Errorf("unknown verification method %q", method)
	}

	return &Verifier{
		counter: counter,
		method:  method,
		logger:  log,
		stats:   Stats{Method: method},
	}, nil
}

// VerifyTable compares exported with the source row count of t. path is the
// written script, empty for a table without rows. A count mismatch returns
// the result together with an error wrapping ErrMismatch.
func (v *Verifier) VerifyTable(ctx context.Context, t types.TableID, exported int64, path string) (*Result, error) {
	if v.method == MethodSkip {
		return &Result{Table: t, Method: MethodSkip, ExportedCount: exported, Path: path, Match: true}, nil
	}

	sourceCount, err := v.counter.RowCount(ctx, t)
	if err != nil {
		return nil, fmt.Errorf("failed to verify %s: %w", t, err)
	}

	res := Result{
		Table:         t,
		Method:        v.method,
		SourceCount:   sourceCount,
		ExportedCount: exported,
		Path:          path,
		Match:         sourceCount == exported,
	}
	if !res.Match {
		res.ErrorMessage = fmt.Sprintf("count mismatch: source=%d, exported=%d", sourceCount, exported)
	}

	if v.method == MethodSHA256 && path != "" {
		hash, err := FileHash(path)
		if err != nil {
			return nil, err
		}
		res.Hash = hash
	}

	v.record(res)

	if !res.Match {
		v.logger.Errorw("Verification failed",
			"table", t.String(),
			"source_rows", sourceCount,
			"exported_rows", exported,
		)
		return &res, fmt.Errorf("%w for %s: %s", ErrMismatch, t, res.ErrorMessage)
	}

	v.logger.Debugw("Verification passed", "table", t.String(), "rows", exported, "hash", res.Hash)
	return &res, nil
}

func (v *Verifier) record(res Result) {
	v.results = append(v.results, res)
	v.stats.TablesVerified++
	v.stats.TotalRows += res.ExportedCount
	if res.Match {
		v.stats.TablesPassed++
	} else {
		v.stats.TablesFailed++
	}
}

// Stats returns the statistics collected so far.
func (v *Verifier) Stats() Stats {
	return v.stats
}

// Results returns every recorded result in verification order.
func (v *Verifier) Results() []Result {
	return v.results
}

// Method returns the configured verification method.
func (v *Verifier) Method() Method {
	return v.method
}

// SaveManifest writes ManifestName into dir when checksums were recorded and
// returns its path. Other methods write nothing and return "".
func (v *Verifier) SaveManifest(dir string) (string, error) {
	if v.method != MethodSHA256 {
		return "", nil
	}

	path := filepath.Join(dir, ManifestName)
	fh, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create manifest: %w", err)
	}

	if err := WriteManifest(fh, v.results); err != nil {
		_ = fh.Close()
		return "", err
	}
	if err := fh.Close(); err != nil {
		return "", fmt.Errorf("failed to close manifest: %w", err)
	}

	return path, nil
}

// WriteManifest writes one "<hash>  <file>" line per hashed result, the
// format sha256sum -c reads.
func WriteManifest(w io.Writer, results []Result) error {
	for _, res := range results {
		if res.Hash == "" {
			continue
		}
		if _, err := fmt.Fprintf(w, "%s  %s\n", res.Hash, filepath.Base(res.Path)); err != nil {
			return fmt.Errorf("failed to write manifest: %w", err)
		}
	}
	return nil
}

// FileHash returns the hex SHA256 of the file at path.
func FileHash(path string) (string, error) {
	fh, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer func() { _ = fh.Close() }()

	hasher := sha256.New()
	if _, err := io.Copy(hasher, fh); err != nil {
		return "", fmt.Errorf("failed to hash %s: %w", path, err)
	}

	return hex.EncodeToString(hasher.Sum(nil)), nil
}
