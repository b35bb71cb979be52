package discovery

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// FileType categorizes discovered dataset files by format.
type FileType int

const (
	FileTypeUnknown FileType = iota
	FileTypeCSV
	FileTypeYAML
	FileTypeJSON
)

// String returns the human-readable name of the file type.
func (ft FileType) String() string {
	switch ft {
	case FileTypeCSV:
		return "csv"
	case FileTypeYAML:
		return "yaml"
	case FileTypeJSON:
		return "json"
	default:
		return "unknown"
	}
}

// FileTypeEntry defines the discovery patterns for a file type.
type FileTypeEntry struct {
	Type     FileType
	Patterns []string
}

// DefaultFileTypes is the registry of dataset formats and their patterns.
var DefaultFileTypes = []FileTypeEntry{
	{Type: FileTypeCSV, Patterns: []string{"**/*.csv"}},
	{Type: FileTypeYAML, Patterns: []string{"**/*.yaml", "**/*.yml"}},
	{Type: FileTypeJSON, Patterns: []string{"**/*.json"}},
}

// DefaultExcludes keeps tool configuration and vendored trees out of the
// dataset scan.
var DefaultExcludes = []string{
	".egralensrc.*",
	"**/.git/**",
	"**/node_modules/**",
}

// DetectFileType determines the dataset format from the file extension.
func DetectFileType(path string) (FileType, error) {
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".csv":
		return FileTypeCSV, nil
	case ".yaml", ".yml":
		return FileTypeYAML, nil
	case ".json":
		return FileTypeJSON, nil
	case ".xlsx", ".xls":
		return FileTypeUnknown, fmt.Errorf(
			"unsupported file type: %s. Export the sheet as CSV first", filepath.Base(path))
	case "":
		return FileTypeUnknown, fmt.Errorf(
			"unsupported file: %s has no extension. egralens reads .csv, .yaml, .yml and .json files", filepath.Base(path))
	default:
		return FileTypeUnknown, fmt.Errorf(
			"unsupported file type: %s. egralens reads .csv, .yaml, .yml and .json files", ext)
	}
}

// ValidateFilePath checks that path is a readable, non-empty text file and
// returns its absolute path.
func ValidateFilePath(path string) (absPath string, err error) {
	absPath, err = filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("invalid path %q: %w", path, err)
	}

	info, err := os.Lstat(absPath) // Lstat to detect symlinks
	if err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("file not found: %s", absPath)
		}
		if os.IsPermission(err) {
			return "", fmt.Errorf("permission denied: %s", absPath)
		}
		return "", fmt.Errorf("cannot access file: %s: %w", absPath, err)
	}

	if info.Mode()&os.ModeSymlink != 0 {
		realPath, evalErr := filepath.EvalSymlinks(absPath)
		if evalErr != nil {
			return "", fmt.Errorf("cannot resolve symlink %s: %w", absPath, evalErr)
		}
		absPath = realPath
		info, err = os.Stat(absPath)
		if err != nil {
			return "", fmt.Errorf("symlink target inaccessible: %s: %w", absPath, err)
		}
	}

	if info.IsDir() {
		return "", fmt.Errorf("path is a directory, not a file: %s", absPath)
	}
	if info.Size() == 0 {
		return "", fmt.Errorf("file is empty: %s", absPath)
	}

	f, err := os.Open(absPath)
	if err != nil {
		return "", fmt.Errorf("cannot read file: %s: %w", absPath, err)
	}
	defer f.Close()

	buf := make([]byte, 512)
	n, err := f.Read(buf)
	if err != nil {
		return "", fmt.Errorf("cannot read file: %s: %w", absPath, err)
	}
	// Null bytes mean a binary file, most likely a spreadsheet.
	if bytes.Contains(buf[:n], []byte{0}) {
		return "", fmt.Errorf("file appears to be binary, not text: %s", absPath)
	}

	return absPath, nil
}

// File represents a discovered dataset file.
type File struct {
	Path    string
	RelPath string
	Size    int64
	Type    FileType

	// Explicit is set for files named on the command line rather than
	// found by a directory scan.
	Explicit bool
}

// FileDiscovery finds dataset files under a root directory.
type FileDiscovery struct {
	rootPath       string
	followSymlinks bool
	exclude        []string
}

// NewFileDiscovery creates a new FileDiscovery instance. Exclude patterns
// are doublestar globs matched against paths relative to rootPath, in
// addition to DefaultExcludes.
func NewFileDiscovery(rootPath string, followSymlinks bool, exclude ...string) *FileDiscovery {
	return &FileDiscovery{
		rootPath:       rootPath,
		followSymlinks: followSymlinks,
		exclude:        append(append([]string{}, DefaultExcludes...), exclude...),
	}
}

// DiscoverFiles finds all dataset files under the root, sorted by path.
func (fd *FileDiscovery) DiscoverFiles() ([]File, error) {
	return fd.DiscoverFilesWithRegistry(DefaultFileTypes)
}

// DiscoverFilesWithRegistry finds files using a custom registry.
func (fd *FileDiscovery) DiscoverFilesWithRegistry(registry []FileTypeEntry) ([]File, error) {
	for _, pattern := range fd.exclude {
		if !doublestar.ValidatePattern(pattern) {
			return nil, fmt.Errorf("invalid exclude pattern %q", pattern)
		}
	}

	seen := make(map[string]bool)
	var files []File
	for _, ftc := range registry {
		discovered, err := fd.findFilesByPattern(ftc.Patterns)
		if err != nil {
			return nil, fmt.Errorf("error discovering %s files: %w", ftc.Type.String(), err)
		}
		for _, f := range discovered {
			if seen[f.Path] {
				continue
			}
			seen[f.Path] = true
			f.Type = ftc.Type
			files = append(files, f)
		}
	}

	sort.Slice(files, func(i, j int) bool { return files[i].RelPath < files[j].RelPath })
	return files, nil
}

func (fd *FileDiscovery) findFilesByPattern(patterns []string) ([]File, error) {
	var files []File
	for _, pattern := range patterns {
		matches, err := doublestar.Glob(os.DirFS(fd.rootPath), pattern)
		if err != nil {
			return nil, fmt.Errorf("error evaluating pattern %s: %w", pattern, err)
		}
		for _, match := range matches {
			if fd.isExcluded(match) {
				continue
			}
			if f, ok := fd.processMatch(match); ok {
				files = append(files, f)
			}
		}
	}
	return files, nil
}

func (fd *FileDiscovery) isExcluded(relPath string) bool {
	for _, pattern := range fd.exclude {
		if ok, _ := doublestar.Match(pattern, relPath); ok {
			return true
		}
	}
	return false
}

// processMatch converts a glob match into a File, returning false if the match should be skipped.
func (fd *FileDiscovery) processMatch(match string) (File, bool) {
	fullPath := filepath.Join(fd.rootPath, filepath.FromSlash(match))

	info, err := os.Lstat(fullPath)
	if err != nil {
		return File{}, false
	}
	if info.Mode()&os.ModeSymlink != 0 {
		resolvedInfo, ok := fd.resolveSymlink(fullPath)
		if !ok {
			return File{}, false
		}
		info = resolvedInfo
	}
	if info.IsDir() {
		return File{}, false
	}

	return File{
		Path:    fullPath,
		RelPath: match,
		Size:    info.Size(),
	}, true
}

// resolveSymlink follows a symlink if configured. Targets outside the root
// are skipped.
func (fd *FileDiscovery) resolveSymlink(fullPath string) (os.FileInfo, bool) {
	if !fd.followSymlinks {
		return nil, false
	}
	realPath, err := filepath.EvalSymlinks(fullPath)
	if err != nil {
		return nil, false
	}
	root, err := filepath.EvalSymlinks(fd.rootPath)
	if err != nil {
		return nil, false
	}
	if realPath != root && !strings.HasPrefix(realPath, root+string(filepath.Separator)) {
		return nil, false
	}
	info, err := os.Stat(realPath)
	if err != nil {
		return nil, false
	}
	return info, true
}

// Resolve turns command-line arguments into dataset files. Directories are
// scanned, files are validated and typed by extension. With no arguments
// the discovery root is scanned.
func (fd *FileDiscovery) Resolve(args []string) ([]File, error) {
	if len(args) == 0 {
		return fd.DiscoverFiles()
	}

	var files []File
	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			return nil, fmt.Errorf("cannot access %s: %w", arg, err)
		}
		if info.IsDir() {
			sub, err := NewFileDiscovery(arg, fd.followSymlinks, fd.exclude...).DiscoverFiles()
			if err != nil {
				return nil, err
			}
			files = append(files, sub...)
			continue
		}

		ft, err := DetectFileType(arg)
		if err != nil {
			return nil, err
		}
		absPath, err := ValidateFilePath(arg)
		if err != nil {
			return nil, err
		}
		files = append(files, File{Path: absPath, RelPath: filepath.Base(arg), Size: info.Size(), Type: ft, Explicit: true})
	}
	return files, nil
}
