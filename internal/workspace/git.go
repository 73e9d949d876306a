package workspace

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/cleared-dev/runway/internal/config"
	"github.com/cleared-dev/runway/internal/gitops"
)

const gitignore = "*.tmp\n*.db-journal\n*.db-wal\n*.db-shm\n"

// InitGit turns on git snapshots for the workspace at root and commits
// its current state. Returns the short hash of that commit.
func InitGit(root string) (string, error) {
	if !gitops.Available() {
		return "", errors.New("git not found on PATH")
	}
	cfgPath := filepath.Join(root, config.FileName)
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return "", err
	}
	cfg.Git.Enabled = true
	if err := config.Save(cfgPath, cfg); err != nil {
		return "", err
	}

	if err := os.WriteFile(filepath.Join(root, ".gitignore"), []byte(gitignore), 0o644); err != nil {
		return "", fmt.Errorf("writing .gitignore: %w", err)
	}
	if !gitops.IsRepo(root) {
		if err := gitops.Init(root); err != nil {
			return "", err
		}
	}
	return gitops.CommitAll(root, "init: runway workspace", signature(cfg))
}

func signature(cfg *config.Config) gitops.Signature {
	return gitops.Signature{Name: cfg.Git.AuthorName, Email: cfg.Git.AuthorEmail}
}

// Snapshot commits the workspace when git snapshots are enabled. A clean
// work tree is not an error.
func (w *Workspace) Snapshot(message string) error {
	if !w.Config.Git.Enabled || !gitops.IsRepo(w.Root) {
		return nil
	}
	hash, err := gitops.CommitAll(w.Root, message, signature(w.Config))
	if errors.Is(err, gitops.ErrNothingToCommit) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("recording snapshot: %w", err)
	}
	w.Logger.Info().Str("commit", hash).Str("message", message).Msg("snapshot committed")
	return nil
}
