package storage

import (
	"mime"
	"path"
	"strings"
)

const defaultContentType = "application/octet-stream"

var contentTypes = map[string]string{
	".html": "text/html",
	".htm":  "text/html",
	".css":  "text/css",
	".js":   "application/javascript",
	".json": "application/json",
	".yaml": "application/yaml",
	".yml":  "application/yaml",
	".csv":  "text/csv",
	".png":  "image/png",
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".gif":  "image/gif",
	".svg":  "image/svg+xml",
	".pdf":  "application/pdf",
	".txt":  "text/plain",
	".xml":  "application/xml",
	".zip":  "application/zip",
	".gz":   "application/gzip",
}

// ContentType returns the content type for name based on its extension
func ContentType(name string) string {
	ext := strings.ToLower(path.Ext(name))
	if ext == "" {
		return defaultContentType
	}
	if ret, ok := contentTypes[ext]; ok {
		return ret
	}
	if ret := mime.TypeByExtension(ext); ret != "" {
		return ret
	}
	return defaultContentType
}
