package cli

import (
	"bufio"
	"os"
	"path/filepath"
	"strings"
)

// ParseDirFile reads a file listing directories to scan, one per line.
// Blank lines and lines starting with # are ignored.
func ParseDirFile(path string) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	var dirs []string
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		dirs = append(dirs, line)
	}

	if err := scanner.Err(); err != nil {
		return nil, err
	}

	return dirs, nil
}

// CollectDirs combines CLI arguments and file input, deduplicating cleaned
// paths. Args come first, then file entries. With no input at all the
// current directory is used.
func CollectDirs(args []string, filePath string) ([]string, error) {
	inputs := append([]string{}, args...)

	if filePath != "" {
		fileDirs, err := ParseDirFile(filePath)
		if err != nil {
			return nil, err
		}
		inputs = append(inputs, fileDirs...)
	}

	if len(inputs) == 0 {
		return []string{"."}, nil
	}

	seen := make(map[string]bool)
	var dirs []string
	for _, in := range inputs {
		dir := filepath.Clean(expandHome(in))
		if !seen[dir] {
			seen[dir] = true
			dirs = append(dirs, dir)
		}
	}
	return dirs, nil
}

func expandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}
