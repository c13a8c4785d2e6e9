// Package credentials stores WebDAV passwords outside the workspace.
//
// Passwords are kept in a TOML file readable only by the owner and are
// keyed by "tasks.webdav.<host>" plus the username. TASKS_WEBDAV_PASSWORD
// overrides the file for every lookup.
package credentials

import (
	"bytes"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"sort"

	"github.com/BurntSushi/toml"

	"github.com/amonks/tasks/internal/atomicfile"
	"github.com/amonks/tasks/internal/paths"
)

// EnvPassword overrides stored passwords when set.
const EnvPassword = "TASKS_WEBDAV_PASSWORD"

const servicePrefix = "tasks.webdav."

var (
	// ErrNotFound indicates no password is stored for the endpoint and user.
	ErrNotFound = errors.New("credentials not found")
	// ErrInvalidEndpoint indicates the endpoint is not a URL with a host.
	ErrInvalidEndpoint = errors.New("invalid WebDAV URL")
)

// Supplier returns the password for a WebDAV endpoint and user.
type Supplier interface {
	Password(endpoint, username string) (string, error)
}

// Store is a file-backed Supplier.
type Store struct {
	path string
}

var _ Supplier = (*Store)(nil)

type entry struct {
	Service  string `toml:"service"`
	Username string `toml:"username"`
	Password string `toml:"password"`
}

type file struct {
	Credentials []entry `toml:"credential"`
}

// Open returns a store backed by the default credentials file.
func Open() (*Store, error) {
	path, err := paths.DefaultCredentialsPath()
	if err != nil {
		return nil, err
	}
	return NewStore(path), nil
}

// NewStore returns a store backed by the file at path.
func NewStore(path string) *Store {
	return &Store{path: path}
}

// ServiceKey returns the lookup key for an endpoint.
func ServiceKey(endpoint string) (string, error) {
	u, err := url.Parse(endpoint)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrInvalidEndpoint, err)
	}
	if u.Hostname() == "" {
		return "", fmt.Errorf("%w: %q has no host", ErrInvalidEndpoint, endpoint)
	}
	return servicePrefix + u.Hostname(), nil
}

// Password returns the stored password, or the value of TASKS_WEBDAV_PASSWORD
// when that is non-empty.
func (s *Store) Password(endpoint, username string) (string, error) {
	if password := EnvOverride(); password != "" {
		return password, nil
	}

	service, err := ServiceKey(endpoint)
	if err != nil {
		return "", err
	}
	f, err := s.load()
	if err != nil {
		return "", err
	}
	for _, e := range f.Credentials {
		if e.Service == service && e.Username == username {
			return e.Password, nil
		}
	}
	return "", fmt.Errorf("%w for %s@%s", ErrNotFound, username, service)
}

// EnvOverride returns the password set in TASKS_WEBDAV_PASSWORD, or "".
func EnvOverride() string {
	return os.Getenv(EnvPassword)
}

// Save stores the password for an endpoint and user, replacing any previous
// value.
func (s *Store) Save(endpoint, username, password string) error {
	service, err := ServiceKey(endpoint)
	if err != nil {
		return err
	}
	f, err := s.load()
	if err != nil {
		return err
	}

	replaced := false
	for i, e := range f.Credentials {
		if e.Service == service && e.Username == username {
			f.Credentials[i].Password = password
			replaced = true
		}
	}
	if !replaced {
		f.Credentials = append(f.Credentials, entry{Service: service, Username: username, Password: password})
	}
	return s.save(f)
}

// Delete removes the stored password for an endpoint and user.
func (s *Store) Delete(endpoint, username string) error {
	service, err := ServiceKey(endpoint)
	if err != nil {
		return err
	}
	f, err := s.load()
	if err != nil {
		return err
	}

	kept := f.Credentials[:0]
	for _, e := range f.Credentials {
		if e.Service == service && e.Username == username {
			continue
		}
		kept = append(kept, e)
	}
	if len(kept) == len(f.Credentials) {
		return fmt.Errorf("%w for %s@%s", ErrNotFound, username, service)
	}
	f.Credentials = kept
	return s.save(f)
}

func (s *Store) load() (*file, error) {
	var f file
	if _, err := toml.DecodeFile(s.path, &f); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &file{}, nil
		}
		return nil, fmt.Errorf("read credentials file %s: %w", s.path, err)
	}
	return &f, nil
}

func (s *Store) save(f *file) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0700); err != nil {
		return fmt.Errorf("create credentials dir: %w", err)
	}

	sort.SliceStable(f.Credentials, func(i, j int) bool {
		if f.Credentials[i].Service != f.Credentials[j].Service {
			return f.Credentials[i].Service < f.Credentials[j].Service
		}
		return f.Credentials[i].Username < f.Credentials[j].Username
	})

	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(f); err != nil {
		return fmt.Errorf("encode credentials: %w", err)
	}
	if err := atomicfile.Write(s.path, buf.Bytes(), 0600); err != nil {
		return fmt.Errorf("write credentials file: %w", err)
	}
	return nil
}
