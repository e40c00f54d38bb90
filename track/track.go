package track

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/jsphweid/genomedex/constants"
	"github.com/jsphweid/genomedex/model"
	"github.com/jsphweid/genomedex/util"
)

var (
	// ErrNotAllowlisted means the path was never exposed. The caller must not
	// reveal whether the file exists on disk.
	ErrNotAllowlisted = errors.New("path is not an exposed file")
	// ErrNotFound means the path is exposed but neither it nor its index
	// alias exists on disk.
	ErrNotFound = errors.New("no such file")
)

// EscapePath turns an absolute path into a single URL segment by replacing
// "/" with the placeholder character.
func EscapePath(p string) string {
	return strings.ReplaceAll(p, "/", constants.PathSeparatorPlaceholder)
}

// UnescapePath is the inverse of EscapePath.
func UnescapePath(p string) string {
	return strings.ReplaceAll(p, constants.PathSeparatorPlaceholder, "/")
}

// FileURL is the escaped /file/ endpoint URL for a path.
func FileURL(p string) string {
	return "/file/" + EscapePath(p)
}

// IndexAlias returns the other conventional name for a bam index: the
// suffix-appended form x.bam.bai and the suffix-replaced form x.bai name the
// same index. Returns "" when p is not a bam index path.
func IndexAlias(p string) string {
	switch {
	case strings.HasSuffix(p, ".bam.bai"):
		return strings.TrimSuffix(p, ".bam.bai") + ".bai"
	case strings.HasSuffix(p, ".bai"):
		return strings.TrimSuffix(p, ".bai") + ".bam.bai"
	}
	return ""
}

// Registry is the exposed-file set: the exact paths the server may ever
// serve. Membership is exact string equality on cleaned paths, never a
// prefix match. Built once at startup, read-only afterwards.
type Registry struct {
	exposed map[string]struct{}
}

// NewRegistry exposes every track's data file, both index naming variants
// for indexed tracks, and the reference pair when refFasta is non-empty.
func NewRegistry(tracks []model.Track, refFasta string) *Registry {
	r := &Registry{exposed: make(map[string]struct{})}
	for _, t := range tracks {
		r.expose(t.Path)
		if t.HasIndex {
			// expose both index spellings so a request for either passes
			// the allowlist; disk decides which one actually serves
			r.expose(t.Path + ".bai")
			if strings.HasSuffix(t.Path, ".bam") {
				r.expose(strings.TrimSuffix(t.Path, ".bam") + ".bai")
			}
		}
	}
	if refFasta != "" {
		r.expose(refFasta)
		r.expose(refFasta + ".fai")
	}
	return r
}

func (r *Registry) expose(p string) {
	r.exposed[filepath.Clean(p)] = struct{}{}
}

// Exposed is the exact-match allowlist test.
func (r *Registry) Exposed(p string) bool {
	_, ok := r.exposed[filepath.Clean(p)]
	return ok
}

// Paths returns the exposed set, sorted, for logging and the check command.
func (r *Registry) Paths() []string {
	return util.GetKeysSorted(r.exposed)
}

func (r *Registry) Len() int {
	return len(r.exposed)
}

// Resolve maps a requested path to the on-disk path to serve. The allowlist
// is consulted before the filesystem so an unexposed path gets the same
// answer whether or not the file exists. After the allowlist passes, a bam
// index request falls back to the other index spelling before giving up.
func (r *Registry) Resolve(requested string) (string, error) {
	requested = filepath.Clean(requested)
	alias := IndexAlias(requested)

	if !r.Exposed(requested) && (alias == "" || !r.Exposed(alias)) {
		return "", fmt.Errorf("%q: %w", requested, ErrNotAllowlisted)
	}

	if _, err := os.Stat(requested); err == nil {
		return requested, nil
	}
	if alias != "" {
		if _, err := os.Stat(alias); err == nil {
			return alias, nil
		}
	}
	return "", fmt.Errorf("%q: %w", requested, ErrNotFound)
}
