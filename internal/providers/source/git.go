package source

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"sync"

	"go.uber.org/zap"

	"github.com/WebThingsIO/addon-proxy/internal/infrastructure/logging"
)

// Git fetches the add-on list from a git repository holding one JSON file
// per add-on under addons/. The repository is cloned once and pulled on
// every subsequent fetch.
type Git struct {
	repo   string
	branch string
	dir    string
	logger *logging.Logger

	mu     sync.Mutex
	cloned bool
}

// NewGit creates a git fetcher. dir is where the checkout lives.
func NewGit(repo, branch, dir string, logger *logging.Logger) *Git {
	return &Git{
		repo:   repo,
		branch: branch,
		dir:    dir,
		logger: logger,
	}
}

// Fetch updates the checkout and reads every addons/*.json file in path
// order. Unreadable files are skipped with a warning; a failed clone or
// pull fails the whole fetch.
func (g *Git) Fetch(ctx context.Context) ([]json.RawMessage, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if err := g.sync(ctx); err != nil {
		return nil, err
	}

	pattern := filepath.Join(g.dir, "addons", "*.json")
	paths, err := filepath.Glob(pattern)
	if err != nil {
		return nil, fmt.Errorf("glob %s: %w", pattern, err)
	}
	sort.Strings(paths)

	records := make([]json.RawMessage, 0, len(paths))
	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			g.logger.Warn("Failed to read addon file", zap.String("path", path), zap.Error(err))
			continue
		}
		records = append(records, json.RawMessage(data))
	}
	return records, nil
}

// sync clones the repository on first use and pulls afterwards. A stale
// checkout from a previous run is removed before cloning.
func (g *Git) sync(ctx context.Context) error {
	if g.cloned {
		cmd := exec.CommandContext(ctx, "git", "pull")
		cmd.Dir = g.dir
		if out, err := cmd.CombinedOutput(); err != nil {
			return fmt.Errorf("git pull: %w: %s", err, out)
		}
		return nil
	}

	if err := os.RemoveAll(g.dir); err != nil {
		return fmt.Errorf("remove existing checkout: %w", err)
	}

	cmd := exec.CommandContext(ctx, "git", "clone",
		"--single-branch", "--depth", "1",
		"--branch", g.branch, g.repo, g.dir)
	if out, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("git clone %s: %w: %s", g.repo, err, out)
	}

	g.cloned = true
	return nil
}
