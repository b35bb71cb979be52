// Package project locates the workspace a dataset root belongs to: the
// nearest directory holding an egralens config file.
package project

import (
	"os"
	"path/filepath"
)

// Info describes a detected workspace.
// Named 'Info' instead of 'ProjectInfo' to avoid stuttering (project.Info vs project.ProjectInfo).
type Info struct {
	Root       string
	ConfigFile string // empty when no config file was found
	HasGit     bool
}

// Find climbs the directory tree from startPath looking for the first of
// names present in a directory. The climb stops at the first match, at a
// directory containing .git, or at the filesystem root. Root is the
// directory the climb stopped in, or startPath when nothing matched.
func Find(startPath string, names []string) (*Info, error) {
	if startPath == "" {
		startPath = "."
	}
	absPath, err := filepath.Abs(startPath)
	if err != nil {
		return nil, err
	}

	currentDir := absPath
	for {
		if file, ok := configIn(currentDir, names); ok {
			return &Info{Root: currentDir, ConfigFile: file, HasGit: hasGit(currentDir)}, nil
		}
		if hasGit(currentDir) {
			return &Info{Root: currentDir, HasGit: true}, nil
		}

		parent := filepath.Dir(currentDir)
		if parent == currentDir {
			break
		}
		currentDir = parent
	}

	return &Info{Root: absPath}, nil
}

func configIn(dir string, names []string) (string, bool) {
	for _, name := range names {
		path := filepath.Join(dir, name)
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			return path, true
		}
	}
	return "", false
}

func hasGit(dir string) bool {
	_, err := os.Stat(filepath.Join(dir, ".git"))
	return err == nil
}
