package index

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"rpgm-asset-decrypter/internal/asset"
)

// Entry is one asset found under the input directory.
type Entry struct {
	Path string // full path
	Rel  string // path relative to the scanned root
	Ext  string // extension without the dot, case preserved
	Type asset.FileType
}

// Index lists the assets to process in a stable order.
type Index struct {
	root    string
	entries []Entry
}

// Build scans root for encrypted assets, or for plain png/ogg/m4a files
// when encrypted is false. Directories listed in skip are not descended
// into, so an output tree nested in the input tree is not picked up again.
func Build(root string, encrypted bool, skip ...string) (*Index, error) {
	idx := &Index{root: root}

	skipped := make(map[string]bool, len(skip))
	for _, s := range skip {
		skipped[absPath(s)] = true
	}

	classify := asset.ClassifyPlain
	if encrypted {
		classify = asset.Classify
	}

	err := filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != root && skipped[absPath(path)] {
				return filepath.SkipDir
			}
			return nil
		}

		ext := strings.TrimPrefix(filepath.Ext(path), ".")
		ft, cerr := classify(ext)
		if cerr != nil {
			return nil
		}
		rel, rerr := filepath.Rel(root, path)
		if rerr != nil {
			rel = filepath.Base(path)
		}
		idx.entries = append(idx.entries, Entry{Path: path, Rel: rel, Ext: ext, Type: ft})
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Slice(idx.entries, func(i, j int) bool {
		return idx.entries[i].Rel < idx.entries[j].Rel
	})
	return idx, nil
}

func absPath(p string) string {
	if abs, err := filepath.Abs(p); err == nil {
		return abs
	}
	return filepath.Clean(p)
}

// Entries returns the indexed assets sorted by relative path.
func (idx *Index) Entries() []Entry {
	return idx.entries
}

// Len returns the number of indexed assets.
func (idx *Index) Len() int {
	return len(idx.entries)
}

// Root returns the scanned directory.
func (idx *Index) Root() string {
	return idx.root
}

// CountByType tallies entries per asset type.
func (idx *Index) CountByType() map[asset.FileType]int {
	counts := make(map[asset.FileType]int)
	for _, e := range idx.entries {
		counts[e.Type]++
	}
	return counts
}
