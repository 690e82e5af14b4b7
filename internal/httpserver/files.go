package httpserver

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

var extensionContentTypes = map[string]string{
	".html": "text/html",
	".htm":  "text/html",
	".txt":  "text/plain",
}

const defaultContentType = "application/octet-stream"

// ServeFiles dispatches GET/HEAD requests to static file serving under
// root. POST and other methods get 501. Paths containing "/.." are
// rejected. "/" maps to "/index.html".
func ServeFiles(s *Session, root string, r *Request) {
	if r.Method != "GET" && r.Method != "HEAD" {
		notImplemented(s)
		return
	}

	path := r.Path
	if path == "/" {
		path = "/index.html"
	}
	if strings.Contains(path, "/..") {
		notAllowed(s)
		return
	}

	full := filepath.Join(root, filepath.FromSlash(path))
	f, err := os.Open(full)
	if err != nil {
		if os.IsNotExist(err) {
			notFound(s)
			return
		}
		internalError(s)
		return
	}

	info, err := f.Stat()
	if err != nil || info.IsDir() {
		f.Close()
		notFound(s)
		return
	}

	contentType := extensionContentTypes[strings.ToLower(filepath.Ext(path))]
	if contentType == "" {
		contentType = defaultContentType
	}

	header := fmt.Sprintf("HTTP/1.1 200 OK\r\nContent-Type: %s\r\nContent-Length: %d\r\nConnection: close\r\n\r\n",
		contentType, info.Size())
	s.EnqueueFixed([]byte(header))

	if r.Method == "HEAD" {
		f.Close()
		return
	}
	s.EnqueueFile(f, info.Size())
}

func notImplemented(s *Session) {
	s.EnqueueFixed([]byte("HTTP/1.1 501 Not Implemented\r\nContent-Length: 0\r\nConnection: close\r\n\r\n"))
}

func notAllowed(s *Session) {
	s.EnqueueFixed([]byte("HTTP/1.1 405 Not Allowed\r\nContent-Length: 0\r\nConnection: close\r\n\r\n"))
}

func notFound(s *Session) {
	s.EnqueueFixed([]byte("HTTP/1.1 404 Not Found\r\nContent-Length: 0\r\nConnection: close\r\n\r\n"))
}

func internalError(s *Session) {
	s.EnqueueFixed([]byte("HTTP/1.1 500 Internal Server Error\r\nContent-Length: 0\r\nConnection: close\r\n\r\n"))
}
