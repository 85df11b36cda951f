package catalog

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path"
	"strings"

	"github.com/elliotchance/orderedmap/v2"

	"github.com/dbsmedya/goexport/internal/types"
)

// LoadTableList reads a table list file.
func LoadTableList(filename string) ([]types.TableID, error) {
	fh, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open table list: %w", err)
	}
	defer func() { _ = fh.Close() }()

	tables, err := ParseTableList(fh)
	if err != nil {
		return nil, fmt.Errorf("failed to read table list %s: %w", filename, err)
	}
	return tables, nil
}

// ParseTableList reads one qualified table name per line. Blank lines and
// lines starting with "--" are skipped; every other line is used verbatim.
func ParseTableList(r io.Reader) ([]types.TableID, error) {
	var tables []types.TableID

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "--") {
			continue
		}
		tables = append(tables, types.ParseTableID(line))
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	return tables, nil
}

// Filter applies include and exclude glob patterns to the schema.table key
// of each table and drops repeated tables, keeping the first occurrence.
// An empty include list selects everything.
func Filter(tables []types.TableID, include, exclude []string) ([]types.TableID, error) {
	selected := orderedmap.NewOrderedMap[string, types.TableID]()

	for _, t := range tables {
		key := t.Key()
		if _, seen := selected.Get(key); seen {
			continue
		}

		ok, err := matchesAny(key, include, true)
		if err != nil {
			return nil, err
		}
		if !ok {
			continue
		}

		excluded, err := matchesAny(key, exclude, false)
		if err != nil {
			return nil, err
		}
		if excluded {
			continue
		}

		selected.Set(key, t)
	}

	result := make([]types.TableID, 0, selected.Len())
	for el := selected.Front(); el != nil; el = el.Next() {
		result = append(result, el.Value)
	}
	return result, nil
}

func matchesAny(key string, patterns []string, emptyResult bool) (bool, error) {
	if len(patterns) == 0 {
		return emptyResult, nil
	}
	for _, p := range patterns {
		ok, err := path.Match(p, key)
		if err != nil {
			return false, fmt.Errorf("invalid table pattern %q: %w", p, err)
		}
		if ok {
			return true, nil
		}
	}
	return false, nil
}
