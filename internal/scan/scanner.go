package scan

import (
	"os"
	"path/filepath"
	"strings"
)

type FileInfo struct {
	Path  string
	Mtime int64
	Size  int64
}

// Root walks the library root and returns every JSONL export file the
// mobile app (or `rdm add`) has written there.
func Root(root string) ([]FileInfo, error) {
	var files []FileInfo
	err := filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return nil // skip unreadable dirs
		}
		if info.IsDir() {
			if path != root && strings.HasPrefix(filepath.Base(path), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if filepath.Ext(path) != ".jsonl" {
			return nil
		}
		files = append(files, FileInfo{
			Path:  path,
			Mtime: info.ModTime().Unix(),
			Size:  info.Size(),
		})
		return nil
	})
	return files, err
}
