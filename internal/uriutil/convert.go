// Package uriutil converts between file system paths and file:// URIs as
// exchanged with LSP clients.
package uriutil

import (
	"net/url"
	"path/filepath"
	"strings"
)

// PathToURI converts a file system path to a percent-encoded file:// URI.
// Relative paths are made absolute first. Windows drive paths become
// file:///C:/... and UNC paths become file://server/share/....
func PathToURI(path string) string {
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	path = filepath.ToSlash(path)

	u := url.URL{Scheme: "file"}
	if host, rest, ok := uncParts(path); ok {
		u.Host = host
		u.Path = rest
	} else {
		if !strings.HasPrefix(path, "/") {
			path = "/" + path
		}
		u.Path = path
	}
	return u.String()
}

// URIToPath converts a file:// URI to a file system path using the OS
// separator. Anything that does not parse as a file URI is returned with a
// leading file:// stripped.
func URIToPath(uri string) string {
	u, err := url.Parse(uri)
	if err != nil || u.Scheme != "file" {
		return filepath.FromSlash(stripDriveSlash(strings.TrimPrefix(uri, "file://")))
	}

	if u.Host != "" && u.Host != "localhost" {
		return filepath.FromSlash("//" + u.Host + u.Path)
	}
	return filepath.FromSlash(stripDriveSlash(u.Path))
}

// stripDriveSlash turns /C:/proj into C:/proj
func stripDriveSlash(p string) string {
	if len(p) >= 3 && p[0] == '/' && p[2] == ':' {
		return p[1:]
	}
	return p
}

// uncParts splits //server/share/path into its host and path
func uncParts(p string) (host, rest string, ok bool) {
	if !strings.HasPrefix(p, "//") || strings.HasPrefix(p, "///") {
		return "", "", false
	}
	host, rest, _ = strings.Cut(p[2:], "/")
	return host, "/" + rest, host != ""
}
