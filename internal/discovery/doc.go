// Package discovery locates self-hosted chat servers on the local network
// via multicast DNS (mDNS) service discovery.
//
// Self-hosted deployments can advertise themselves as "_http._tcp" services
// with a "chat=1" TXT record; the scanner browses for those services and
// offers the results as wizard prefill, saving the user from typing LAN
// addresses by hand.
//
// # Usage Example
//
//	// Discover servers with 10-second timeout
//	servers, err := discovery.ScanForServers(10 * time.Second)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	for _, server := range servers {
//	    fmt.Printf("Found: %s at %s:%d\n", server.Name, server.IP, server.Port)
//	}
//
// # Network Requirements
//
//   - Requires multicast support on the network interface
//   - Servers must be on the same local network segment
//   - Firewall must allow mDNS (UDP port 5353)
//
// # Thread Safety
//
// This package is safe for concurrent use. Multiple discovery sessions can
// run simultaneously without interference.
package discovery
