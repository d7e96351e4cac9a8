package fsutil

import (
	"errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// Exists reports whether path names an existing regular file.
func Exists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return info.Mode().IsRegular()
}

// DirExists reports whether path names an existing directory.
func DirExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return info.IsDir()
}

// CopyFile copies src to dst, replacing dst if it exists.
func CopyFile(src, dst string) (err error) {
	in, err := os.Open(src)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return &NotFoundError{Path: src, Message: "copy source", Cause: err}
		}
		return &IOError{Op: "open", Path: src, Cause: err}
	}
	defer in.Close()

	if SameFile(src, dst) {
		return nil
	}

	out, err := os.Create(dst)
	if err != nil {
		return &IOError{Op: "create", Path: dst, Cause: err}
	}
	defer func() {
		if cerr := out.Close(); cerr != nil && err == nil {
			err = &IOError{Op: "close", Path: dst, Cause: cerr}
		}
	}()

	if _, err := io.Copy(out, in); err != nil {
		return &IOError{Op: "copy", Path: dst, Cause: err}
	}
	return nil
}

// SameFile reports whether a and b name the same existing file.
func SameFile(a, b string) bool {
	aInfo, err := os.Stat(a)
	if err != nil {
		return false
	}
	bInfo, err := os.Stat(b)
	if err != nil {
		return false
	}
	return os.SameFile(aInfo, bInfo)
}

// CopyDir recursively copies the contents of src into dst, creating dst and
// any subdirectories as needed.
func CopyDir(src, dst string) error {
	return filepath.WalkDir(src, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return &IOError{Op: "walk", Path: path, Cause: walkErr}
		}
		rel, err := filepath.Rel(src, path)
		if err != nil {
			return &IOError{Op: "walk", Path: path, Cause: err}
		}
		target := filepath.Join(dst, rel)
		if d.IsDir() {
			if err := os.MkdirAll(target, 0755); err != nil {
				return &IOError{Op: "mkdir", Path: target, Cause: err}
			}
			return nil
		}
		return CopyFile(path, target)
	})
}

// ListFilesWithSuffix returns the regular files directly inside dir whose
// names end with suffix (case-insensitive), in directory listing order.
func ListFilesWithSuffix(dir, suffix string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, &IOError{Op: "read dir", Path: dir, Cause: err}
	}

	suffix = strings.ToLower(suffix)
	var names []string
	for _, entry := range entries {
		if !entry.Type().IsRegular() {
			continue
		}
		if strings.HasSuffix(strings.ToLower(entry.Name()), suffix) {
			names = append(names, entry.Name())
		}
	}
	return names, nil
}
