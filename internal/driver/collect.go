package driver

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"github.com/bmatcuk/doublestar/v4"

	"shadercheck/internal/project"
)

// CollectFiles expands paths into a sorted, de-duplicated list of shader
// files. Directories are walked and their files filtered by include/exclude
// (doublestar patterns matched against the slash path relative to the
// directory); an empty include list means project.DefaultIncludes. Paths
// naming a file are taken as is unless excluded.
func CollectFiles(paths, include, exclude []string) ([]string, error) {
	if len(include) == 0 {
		include = project.DefaultIncludes
	}
	for _, p := range append(append([]string(nil), include...), exclude...) {
		if !doublestar.ValidatePattern(p) {
			return nil, fmt.Errorf("invalid glob pattern %q", p)
		}
	}

	seen := make(map[string]struct{})
	var files []string
	// пути в том же виде, что source.File.Path, чтобы события и результаты совпадали
	add := func(p string) {
		clean := filepath.ToSlash(filepath.Clean(p))
		if _, ok := seen[clean]; ok {
			return
		}
		seen[clean] = struct{}{}
		files = append(files, clean)
	}

	for _, root := range paths {
		info, err := os.Stat(root)
		if err != nil {
			// несуществующий файл всё равно попадёт в список: загрузка
			// превратит ошибку в диагностику IO9001
			add(root)
			continue
		}
		if !info.IsDir() {
			if !matchAny(exclude, filepath.ToSlash(filepath.Base(root))) {
				add(root)
			}
			continue
		}

		err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			rel, err := filepath.Rel(root, path)
			if err != nil {
				return err
			}
			rel = filepath.ToSlash(rel)
			if d.IsDir() {
				if rel != "." && matchAny(exclude, rel) {
					return filepath.SkipDir
				}
				return nil
			}
			if matchAny(include, rel) && !matchAny(exclude, rel) {
				add(path)
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("failed to walk %s: %w", root, err)
		}
	}

	// Сортируем для детерминированного порядка
	sort.Strings(files)
	return files, nil
}

func matchAny(patterns []string, path string) bool {
	for _, pattern := range patterns {
		if ok, err := doublestar.Match(pattern, path); err == nil && ok {
			return true
		}
	}
	return false
}
