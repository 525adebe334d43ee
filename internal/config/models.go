package config

import (
	"time"

	"github.com/google/uuid"

	"github.com/platrum/chatcfg/internal/permissions"
)

// Registry represents the entire user configuration file.
// This stores the configured chat servers and application preferences.
type Registry struct {
	Version     int                `yaml:"version"`
	Servers     map[string]*Server `yaml:"servers,omitempty"` // Keyed by server id
	Preferences *Preferences       `yaml:"preferences,omitempty"`
}

// Server represents one configured chat server endpoint.
type Server struct {
	Name string `yaml:"name"` // User-friendly display name
	Host string `yaml:"host"` // Bare host label (canonical form)
	URL  string `yaml:"url"`  // Fully qualified server URL

	ServerVersion string    `yaml:"server_version,omitempty"` // Version reported on last validation
	LastValidated time.Time `yaml:"last_validated,omitempty"` // When the server last validated successfully

	Permissions permissions.Set `yaml:"permissions,omitempty"` // Per-server permission grants
}

// Preferences represents application-wide user preferences.
type Preferences struct {
	DebounceMillis  int `yaml:"debounce_millis"`  // Delay after the last edit before validating
	ValidateTimeout int `yaml:"validate_timeout"` // Remote validation timeout in seconds
	DiscoverTimeout int `yaml:"discover_timeout"` // mDNS discovery timeout in seconds
}

// NewRegistry creates a new Registry with default values.
func NewRegistry() *Registry {
	return &Registry{
		Version: 1,
		Servers: make(map[string]*Server),
		Preferences: &Preferences{
			DebounceMillis:  350,
			ValidateTimeout: 5,
			DiscoverTimeout: 10,
		},
	}
}

// GetServer retrieves a server by id.
// Returns nil if the server doesn't exist in the registry.
func (r *Registry) GetServer(id string) *Server {
	return r.Servers[id]
}

// AddServer stores a new server entry and returns its generated id.
func (r *Registry) AddServer(name, host, url string) (string, *Server) {
	if r.Servers == nil {
		r.Servers = make(map[string]*Server)
	}

	id := uuid.NewString()
	server := &Server{
		Name:        name,
		Host:        host,
		URL:         url,
		Permissions: permissions.Defaults(),
	}
	r.Servers[id] = server
	return id, server
}

// RemoveServer deletes a server by id or, failing that, by host label.
// Returns true when an entry was removed.
func (r *Registry) RemoveServer(idOrHost string) bool {
	if _, ok := r.Servers[idOrHost]; ok {
		delete(r.Servers, idOrHost)
		return true
	}
	for id, server := range r.Servers {
		if server.Host == idOrHost {
			delete(r.Servers, id)
			return true
		}
	}
	return false
}

// FindByURL returns the id and entry of the server configured with the given
// URL, or ("", nil) when no server matches. Used for duplicate detection.
func (r *Registry) FindByURL(url string) (string, *Server) {
	for id, server := range r.Servers {
		if server.URL == url {
			return id, server
		}
	}
	return "", nil
}

// UpdateValidation records the outcome of a successful validation.
func (r *Registry) UpdateValidation(id, version string) {
	server := r.Servers[id]
	if server == nil {
		return
	}
	server.ServerVersion = version
	server.LastValidated = time.Now()
}

// SetServerName sets the display name for a server.
func (r *Registry) SetServerName(id, name string) {
	if server := r.Servers[id]; server != nil {
		server.Name = name
	}
}
