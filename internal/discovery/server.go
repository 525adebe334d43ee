package discovery

import (
	"fmt"
	"time"
)

// Server represents a self-hosted chat server discovered on the network
type Server struct {
	// Name is the advertised instance name (e.g., "Team Chat")
	Name string

	// Hostname is the mDNS hostname (e.g., "chatsrv.local.")
	Hostname string

	// IP is the IPv4 address (e.g., "192.168.1.20")
	IP string

	// Port is the HTTP port (typically 8065)
	Port int

	// Metadata contains additional mDNS TXT record data
	// Common fields: "chat=1", "version=9.5.0"
	Metadata map[string]string

	// DiscoveredAt is when the server was discovered
	DiscoveredAt time.Time
}

// String returns a human-readable string representation of the server
func (s *Server) String() string {
	return fmt.Sprintf("Chat server %q at %s:%d", s.Name, s.IP, s.Port)
}

// BaseURL returns the HTTP base URL for the server. LAN servers found via
// mDNS are addressed directly; TLS setup is up to the deployment.
func (s *Server) BaseURL() string {
	return fmt.Sprintf("http://%s:%d", s.IP, s.Port)
}

// Version returns the advertised server version, if present in TXT records
func (s *Server) Version() string {
	if s.Metadata == nil {
		return ""
	}
	return s.Metadata["version"]
}
