// Package remote is a small WebDAV client addressed by paths relative to a
// base collection. It knows nothing about tasks.
package remote

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"path"
	"strings"
	"time"

	"github.com/amonks/tasks/task"
	"github.com/studio-b12/gowebdav"
)

// ErrNotFound is returned when the remote path does not exist.
var ErrNotFound = fmt.Errorf("%w: remote path not found", task.ErrTransport)

// DefaultTimeout bounds each HTTP exchange when Options.Timeout is zero.
const DefaultTimeout = 30 * time.Second

// Depth selects how much of a tree List returns.
type Depth int

const (
	// DepthZero lists only the path itself.
	DepthZero Depth = iota
	// DepthOne lists the immediate children of the path.
	DepthOne
	// DepthInfinity lists the whole subtree below the path.
	DepthInfinity
)

// Options configures a Client.
type Options struct {
	// URL is the WebDAV endpoint, e.g. https://dav.example.com/remote.php/dav/files/me.
	URL      string
	Username string
	Password string
	// BasePath is the collection under URL that all paths are relative to.
	BasePath string
	// Timeout bounds each HTTP exchange. Zero means DefaultTimeout.
	Timeout time.Duration
	// Transport overrides the HTTP transport.
	Transport http.RoundTripper
}

// Entry describes one remote file or collection.
type Entry struct {
	// Path is relative to the client's base path, using forward slashes.
	Path    string
	IsDir   bool
	Size    int64
	ModTime time.Time
	ETag    string
}

// Client performs WebDAV requests. Calls are sequential; a Client is not
// safe for concurrent use.
type Client struct {
	dav      *gowebdav.Client
	basePath string
}

// New returns a client for opts. It does not contact the server.
func New(opts Options) (*Client, error) {
	if strings.TrimSpace(opts.URL) == "" {
		return nil, fmt.Errorf("%w: empty WebDAV URL", task.ErrTransport)
	}
	dav := gowebdav.NewClient(opts.URL, opts.Username, opts.Password)
	timeout := opts.Timeout
	if timeout == 0 {
		timeout = DefaultTimeout
	}
	dav.SetTimeout(timeout)
	if opts.Transport != nil {
		dav.SetTransport(opts.Transport)
	}
	return &Client{dav: dav, basePath: opts.BasePath}, nil
}

// Upload replaces the remote file at rel with data, creating parent
// collections as needed.
func (c *Client) Upload(ctx context.Context, rel string, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	target := c.resolve(rel)
	if err := c.dav.Write(target, data, 0o644); err != nil {
		return wrap("upload", target, err)
	}
	return nil
}

// Download returns the content of the remote file at rel.
func (c *Client) Download(ctx context.Context, rel string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	target := c.resolve(rel)
	data, err := c.dav.Read(target)
	if err != nil {
		return nil, wrap("download", target, err)
	}
	return data, nil
}

// Delete removes the remote file or collection at rel. Deleting a missing
// path succeeds.
func (c *Client) Delete(ctx context.Context, rel string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	target := c.resolve(rel)
	if err := c.dav.Remove(target); err != nil {
		return wrap("delete", target, err)
	}
	return nil
}

// CreateDir creates the collection at rel and any missing parents.
func (c *Client) CreateDir(ctx context.Context, rel string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	target := c.resolve(rel)
	if err := c.dav.MkdirAll(target, 0o755); err != nil {
		return wrap("create collection", target, err)
	}
	return nil
}

// Exists reports whether rel exists on the remote.
func (c *Client) Exists(ctx context.Context, rel string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	target := c.resolve(rel)
	_, err := c.dav.Stat(target)
	if err == nil {
		return true, nil
	}
	if gowebdav.IsErrNotFound(err) {
		return false, nil
	}
	return false, wrap("stat", target, err)
}

// List describes rel and, depending on depth, what lies below it. Entries
// for DepthOne and DepthInfinity exclude rel itself. DepthInfinity walks
// the tree one collection at a time, since servers commonly refuse
// infinite-depth PROPFIND.
func (c *Client) List(ctx context.Context, rel string, depth Depth) ([]Entry, error) {
	rel = cleanRel(rel)
	switch depth {
	case DepthZero:
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		target := c.resolve(rel)
		info, err := c.dav.Stat(target)
		if err != nil {
			return nil, wrap("stat", target, err)
		}
		return []Entry{entryFor(rel, info)}, nil
	case DepthOne:
		return c.readDir(ctx, rel)
	case DepthInfinity:
		var all []Entry
		pending := []string{rel}
		for len(pending) > 0 {
			dir := pending[0]
			pending = pending[1:]
			entries, err := c.readDir(ctx, dir)
			if err != nil {
				return nil, err
			}
			for _, entry := range entries {
				all = append(all, entry)
				if entry.IsDir {
					pending = append(pending, entry.Path)
				}
			}
		}
		return all, nil
	default:
		return nil, fmt.Errorf("%w: unknown depth %d", task.ErrTransport, depth)
	}
}

func (c *Client) readDir(ctx context.Context, rel string) ([]Entry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	target := c.resolve(rel)
	infos, err := c.dav.ReadDir(target)
	if err != nil {
		return nil, wrap("list", target, err)
	}
	entries := make([]Entry, 0, len(infos))
	for _, info := range infos {
		entries = append(entries, entryFor(joinRel(rel, info.Name()), info))
	}
	return entries, nil
}

func (c *Client) resolve(rel string) string {
	return JoinPath(c.basePath, rel)
}

func entryFor(rel string, info os.FileInfo) Entry {
	entry := Entry{
		Path:    rel,
		IsDir:   info.IsDir(),
		Size:    info.Size(),
		ModTime: info.ModTime().UTC(),
	}
	if tagged, ok := info.(interface{ ETag() string }); ok {
		entry.ETag = tagged.ETag()
	}
	return entry
}

// JoinPath joins a remote base path and a relative path. A leading slash
// on rel is ignored, and an empty base yields "/rel".
func JoinPath(base, rel string) string {
	rel = strings.TrimLeft(rel, "/")
	base = strings.TrimRight(base, "/")
	if base == "" {
		return "/" + rel
	}
	if rel == "" {
		return base + "/"
	}
	return base + "/" + rel
}

func joinRel(dir, name string) string {
	if dir == "" {
		return name
	}
	return path.Join(dir, name)
}

func cleanRel(rel string) string {
	rel = strings.Trim(rel, "/")
	if rel == "" || rel == "." {
		return ""
	}
	return path.Clean(rel)
}

func wrap(action, target string, err error) error {
	if gowebdav.IsErrNotFound(err) {
		return fmt.Errorf("%s %s: %w: %w", action, target, ErrNotFound, err)
	}
	return fmt.Errorf("%s %s: %w: %w", action, target, task.ErrTransport, err)
}
