// Package gitops shells out to git so accepted journal entries land in
// version control alongside the books.
package gitops

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// Init initializes a new git repository at dir.
func Init(dir string) error {
	cmd := exec.Command("git", "init")
	cmd.Dir = dir
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("git init: %w", err)
	}
	return nil
}

// CommitAll stages all files and creates a commit. Returns the short commit hash.
func CommitAll(dir, message, authorName, authorEmail string) (string, error) {
	return commit(dir, message, authorName, authorEmail, []string{"-A"})
}

// CommitPaths stages only the given paths (relative to dir) and commits.
// Accepting a suggestion touches the journal and the audit log; nothing
// else in the working tree should ride along.
func CommitPaths(dir, message, authorName, authorEmail string, paths []string) (string, error) {
	if len(paths) == 0 {
		return "", fmt.Errorf("no paths to commit")
	}
	return commit(dir, message, authorName, authorEmail, paths)
}

func commit(dir, message, authorName, authorEmail string, addArgs []string) (string, error) {
	author := fmt.Sprintf("%s <%s>", authorName, authorEmail)

	add := exec.Command("git", append([]string{"add"}, addArgs...)...)
	add.Dir = dir
	if out, err := add.CombinedOutput(); err != nil {
		return "", fmt.Errorf("git add: %s: %w", out, err)
	}

	ci := exec.Command("git", "commit", "-m", message, "--author", author)
	ci.Dir = dir
	if out, err := ci.CombinedOutput(); err != nil {
		return "", fmt.Errorf("git commit: %s: %w", out, err)
	}

	rev := exec.Command("git", "rev-parse", "--short", "HEAD")
	rev.Dir = dir
	out, err := rev.Output()
	if err != nil {
		return "", fmt.Errorf("git rev-parse: %w", err)
	}
	return strings.TrimSpace(string(out)), nil
}

// IsRepo reports whether dir is inside a git repository.
func IsRepo(dir string) bool {
	_, err := os.Stat(filepath.Join(dir, ".git"))
	return err == nil
}
