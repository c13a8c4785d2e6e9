package testsupport

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"golang.org/x/net/webdav"
)

// NewWebDAVServer starts an in-memory WebDAV server that lives for the
// duration of the test.
func NewWebDAVServer(t testing.TB) *httptest.Server {
	t.Helper()

	server := StartWebDAVServer()
	t.Cleanup(server.Close)
	return server
}

// StartWebDAVServer starts an in-memory WebDAV server. The caller closes it.
func StartWebDAVServer() *httptest.Server {
	return httptest.NewServer(NewWebDAVHandler())
}

// NewWebDAVHandler returns a WebDAV handler backed by memory.
func NewWebDAVHandler() http.Handler {
	return &webdav.Handler{
		FileSystem: webdav.NewMemFS(),
		LockSystem: webdav.NewMemLS(),
	}
}
