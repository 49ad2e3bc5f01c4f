package download

import (
	"fmt"
	"net/url"
	"path"
	"strings"
)

const defaultExt = ".jpg"

// Dedupe drops items whose key was already seen. The first occurrence wins
// and keeps its position.
func Dedupe[T any](items []T, key func(T) string) []T {
	seen := make(map[string]struct{}, len(items))
	out := make([]T, 0, len(items))
	for _, it := range items {
		k := key(it)
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, it)
	}
	return out
}

// ExtFromURL derives a file extension from the URL path, falling back to
// the type query hint and finally .jpg.
func ExtFromURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return defaultExt
	}
	if ext := path.Ext(u.Path); ext != "" && len(ext) <= 5 {
		return ext
	}
	switch {
	case strings.Contains(raw, "type=mp4"):
		return ".mp4"
	case strings.Contains(raw, "type=webm"):
		return ".webm"
	}
	return defaultExt
}

// Filename returns the name for the index-th (1-based) asset of kind.
func Filename(kind Kind, index int, src string) string {
	return fmt.Sprintf("%s-%03d%s", kind, index, ExtFromURL(src))
}
