package docker

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/afero"
	"golang.org/x/sync/errgroup"
)

// copyConcurrency bounds parallel file copies while preparing a context.
const copyConcurrency = 8

// copyPlan maps destination-relative paths to their source file.
type copyPlan struct {
	dirs  []string
	files map[string]string
}

// PrepareContext copies every source directory into dest. Missing sources
// are skipped with a warning. When two sources hold the same relative path
// the later source wins. Anything already inside dest is never read back.
func PrepareContext(ctx context.Context, fsys afero.Fs, log zerolog.Logger, dest string, sources ...string) (int, error) {
	plan := copyPlan{files: map[string]string{}}
	seenDirs := map[string]bool{}

	for _, src := range sources {
		info, err := fsys.Stat(src)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				log.Warn().Str("source", src).Msg("context source does not exist, skipping")
				continue
			}
			return 0, fmt.Errorf("reading %s: %w", src, err)
		}
		if !info.IsDir() {
			return 0, fmt.Errorf("context source %s is not a directory", src)
		}

		err = afero.Walk(fsys, src, func(path string, fi os.FileInfo, err error) error {
			if err != nil {
				return err
			}
			if isWithin(path, dest) {
				if fi.IsDir() {
					return filepath.SkipDir
				}
				return nil
			}
			rel, err := filepath.Rel(src, path)
			if err != nil {
				return err
			}
			if fi.IsDir() {
				if rel != "." && !seenDirs[rel] {
					seenDirs[rel] = true
					plan.dirs = append(plan.dirs, rel)
				}
				return nil
			}
			plan.files[rel] = path
			return nil
		})
		if err != nil {
			return 0, fmt.Errorf("walking %s: %w", src, err)
		}
	}

	if err := fsys.MkdirAll(dest, 0o755); err != nil {
		return 0, fmt.Errorf("creating %s: %w", dest, err)
	}
	sort.Strings(plan.dirs)
	for _, d := range plan.dirs {
		if err := fsys.MkdirAll(filepath.Join(dest, d), 0o755); err != nil {
			return 0, fmt.Errorf("creating %s: %w", d, err)
		}
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(copyConcurrency)
	for rel, src := range plan.files {
		target := filepath.Join(dest, rel)
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			return copyFile(fsys, src, target)
		})
	}
	if err := g.Wait(); err != nil {
		return 0, err
	}

	log.Debug().Int("files", len(plan.files)).Str("dest", dest).Msg("context prepared")
	return len(plan.files), nil
}

func copyFile(fsys afero.Fs, src, dst string) error {
	info, err := fsys.Stat(src)
	if err != nil {
		return err
	}

	in, err := fsys.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := fsys.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, info.Mode().Perm())
	if err != nil {
		return fmt.Errorf("creating %s: %w", dst, err)
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return fmt.Errorf("copying %s: %w", src, err)
	}
	return out.Close()
}

// isWithin reports whether path equals dir or lies below it.
func isWithin(path, dir string) bool {
	rel, err := filepath.Rel(dir, path)
	if err != nil {
		return false
	}
	return rel == "." || (rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)))
}
