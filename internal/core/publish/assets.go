package publish

import (
	"io/fs"
	"path"
	"path/filepath"
	"strings"
)

var contentTypes = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".gif":  "image/gif",
	".webp": "image/webp",
	".svg":  "image/svg+xml",
	".mp4":  "video/mp4",
	".webm": "video/webm",
	".mov":  "video/quicktime",
}

// ContentType maps a file extension to its MIME type, case-insensitively.
func ContentType(name string) string {
	if t, ok := contentTypes[strings.ToLower(filepath.Ext(name))]; ok {
		return t
	}
	return "application/octet-stream"
}

// Asset is a file found under the asset root.
type Asset struct {
	Path string // on disk
	Rel  string // relative to the asset root, slash separated
}

// ListAssets returns every regular file below root in lexical order.
func ListAssets(root string) ([]Asset, error) {
	var out []Asset
	err := filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(root, p)
		if err != nil {
			return err
		}
		out = append(out, Asset{Path: p, Rel: filepath.ToSlash(rel)})
		return nil
	})
	return out, err
}

// RemoteKey joins the namespace prefix and the asset's relative path.
func RemoteKey(prefix string, a Asset) string {
	if prefix == "" {
		return a.Rel
	}
	return path.Join(prefix, a.Rel)
}
