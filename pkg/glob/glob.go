// Package glob expands source globs against the filesystem, honoring the
// configured GlobMatchErrorBehavior for patterns that match nothing.
package glob

import (
	"context"
	"os"
	"sort"

	"github.com/anvilbuild/anvil/pkg/behavior"
	"github.com/bmatcuk/doublestar/v4"
	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
	"golang.org/x/sync/errgroup"
)

// Expand matches each pattern against the tree rooted at root and returns
// the deduplicated union of matches, sorted. Patterns use doublestar syntax
// (`**` crosses directories).
//
// A pattern that matches nothing is handled per onNoMatch: ignored, warned
// about, or treated as an error naming the pattern. A syntactically invalid
// pattern is always an error regardless of onNoMatch.
func Expand(ctx context.Context, root string, patterns []string, onNoMatch behavior.GlobMatchErrorBehavior) ([]string, error) {
	fsys := os.DirFS(root)
	results := make([][]string, len(patterns))

	g, gctx := errgroup.WithContext(ctx)
	for i, pattern := range patterns {
		i, pattern := i, pattern
		g.Go(func() error {
			matches, err := doublestar.Glob(fsys, pattern)
			if err != nil {
				return errors.Errorf("matching glob %q: %w", pattern, err)
			}
			if len(matches) == 0 {
				switch onNoMatch {
				case behavior.GlobMatchIgnore:
				case behavior.GlobMatchWarn:
					zerolog.Ctx(gctx).Warn().
						Str("glob", pattern).
						Str("root", root).
						Msg("glob did not match any files")
				case behavior.GlobMatchError:
					return errors.Errorf("glob %q did not match any files under %s", pattern, root)
				}
			}
			results[i] = matches
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	seen := map[string]struct{}{}
	var out []string
	for _, matches := range results {
		for _, m := range matches {
			if _, dup := seen[m]; dup {
				continue
			}
			seen[m] = struct{}{}
			out = append(out, m)
		}
	}
	sort.Strings(out)
	return out, nil
}
