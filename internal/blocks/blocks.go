package blocks

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/sahilm/fuzzy"
	"go.uber.org/zap"
)

// Block is one reusable text block: a preset or a task type. Its name is
// the source filename minus the .txt extension.
type Block struct {
	Name string
	Path string
	Body string
}

// Library is a named collection of blocks loaded from one directory.
type Library struct {
	blocks map[string]Block
	names  []string
}

// LoadLibrary reads every .txt file in dir into a Library. A missing
// directory yields an empty library; unreadable files are logged and
// skipped so one bad file never hides the rest.
func LoadLibrary(dir string, logger *zap.Logger) *Library {
	if logger == nil {
		logger = zap.NewNop()
	}

	lib := &Library{blocks: make(map[string]Block)}

	entries, err := os.ReadDir(dir)
	if err != nil {
		if !os.IsNotExist(err) {
			logger.Warn("cannot read block directory", zap.String("dir", dir), zap.Error(err))
		}
		return lib
	}

	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, ".txt") {
			continue
		}
		path := filepath.Join(dir, name)
		body, err := os.ReadFile(path)
		if err != nil {
			logger.Warn("skipping unreadable block", zap.String("file", path), zap.Error(err))
			continue
		}
		blockName := strings.TrimSuffix(name, ".txt")
		lib.blocks[blockName] = Block{Name: blockName, Path: path, Body: string(body)}
		lib.names = append(lib.names, blockName)
	}

	sort.Strings(lib.names)
	return lib
}

// Names returns the block names in sorted order.
func (l *Library) Names() []string { return l.names }

// Len returns the number of loaded blocks.
func (l *Library) Len() int { return len(l.blocks) }

// Get returns the block with the given name.
func (l *Library) Get(name string) (Block, bool) {
	b, ok := l.blocks[name]
	return b, ok
}

// Match resolves a query to a block. An exact name wins; otherwise the best
// fuzzy match is used, with low-confidence scores rejected.
func (l *Library) Match(query string) (Block, bool) {
	if b, ok := l.blocks[query]; ok {
		return b, true
	}

	matches := fuzzy.Find(query, l.names)
	if len(matches) == 0 {
		return Block{}, false
	}
	best := matches[0]
	if best.Score < -10 {
		return Block{}, false
	}
	return l.blocks[best.Str], true
}
