package discovery

import (
	"net"
	"testing"
	"time"

	"github.com/grandcat/zeroconf"
)

func TestScanner_parseServiceEntry(t *testing.T) {
	scanner := NewScanner()

	tests := []struct {
		name     string
		entry    *zeroconf.ServiceEntry
		wantNil  bool
		wantName string
		wantIP   string
		wantPort int
	}{
		{
			name: "advertised chat server with IPv4",
			entry: &zeroconf.ServiceEntry{
				ServiceRecord: zeroconf.ServiceRecord{Instance: "Team Chat"},
				HostName:      "chatsrv.local.",
				Port:          8065,
				AddrIPv4:      []net.IP{net.ParseIP("192.168.1.20")},
				Text:          []string{"chat=1", "version=9.5.0"},
			},
			wantNil:  false,
			wantName: "Team Chat",
			wantIP:   "192.168.1.20",
			wantPort: 8065,
		},
		{
			name: "no instance name falls back to hostname",
			entry: &zeroconf.ServiceEntry{
				HostName: "chatsrv.local.",
				Port:     8065,
				AddrIPv4: []net.IP{net.ParseIP("10.0.0.5")},
				Text:     []string{"chat=1"},
			},
			wantNil:  false,
			wantName: "chatsrv.local",
			wantIP:   "10.0.0.5",
			wantPort: 8065,
		},
		{
			name: "no port specified defaults",
			entry: &zeroconf.ServiceEntry{
				HostName: "chatsrv.local.",
				Port:     0,
				AddrIPv4: []net.IP{net.ParseIP("172.16.0.1")},
				Text:     []string{"chat=1"},
			},
			wantNil:  false,
			wantName: "chatsrv.local",
			wantIP:   "172.16.0.1",
			wantPort: DefaultPort,
		},
		{
			name: "plain HTTP service without chat TXT record",
			entry: &zeroconf.ServiceEntry{
				HostName: "printer.local.",
				Port:     80,
				AddrIPv4: []net.IP{net.ParseIP("192.168.1.1")},
				Text:     []string{"path=/"},
			},
			wantNil: true,
		},
		{
			name: "chat TXT record with wrong value",
			entry: &zeroconf.ServiceEntry{
				HostName: "other.local.",
				Port:     80,
				AddrIPv4: []net.IP{net.ParseIP("192.168.1.2")},
				Text:     []string{"chat=0"},
			},
			wantNil: true,
		},
		{
			name: "empty hostname",
			entry: &zeroconf.ServiceEntry{
				HostName: "",
				Port:     8065,
				AddrIPv4: []net.IP{net.ParseIP("192.168.1.1")},
				Text:     []string{"chat=1"},
			},
			wantNil: true,
		},
		{
			name: "no IP address",
			entry: &zeroconf.ServiceEntry{
				HostName: "chatsrv.local.",
				Port:     8065,
				AddrIPv4: []net.IP{},
				AddrIPv6: []net.IP{},
				Text:     []string{"chat=1"},
			},
			wantNil: true,
		},
		{
			name: "IPv6 fallback",
			entry: &zeroconf.ServiceEntry{
				HostName: "chatsrv.local.",
				Port:     8065,
				AddrIPv4: []net.IP{},
				AddrIPv6: []net.IP{net.ParseIP("fe80::1")},
				Text:     []string{"chat=1"},
			},
			wantNil:  false,
			wantName: "chatsrv.local",
			wantIP:   "fe80::1",
			wantPort: 8065,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := scanner.parseServiceEntry(tt.entry)

			if tt.wantNil {
				if got != nil {
					t.Errorf("parseServiceEntry() = %+v, want nil", got)
				}
				return
			}

			if got == nil {
				t.Fatal("parseServiceEntry() = nil, want server")
			}
			if got.Name != tt.wantName {
				t.Errorf("Name = %q, want %q", got.Name, tt.wantName)
			}
			if got.IP != tt.wantIP {
				t.Errorf("IP = %q, want %q", got.IP, tt.wantIP)
			}
			if got.Port != tt.wantPort {
				t.Errorf("Port = %d, want %d", got.Port, tt.wantPort)
			}
			if got.DiscoveredAt.IsZero() {
				t.Error("DiscoveredAt should be set")
			}
		})
	}
}

func TestNewScanner(t *testing.T) {
	scanner := NewScanner()
	if scanner.Timeout != DefaultScanTimeout {
		t.Errorf("NewScanner().Timeout = %v, want %v", scanner.Timeout, DefaultScanTimeout)
	}
}

func TestServerBaseURL(t *testing.T) {
	server := &Server{IP: "192.168.1.20", Port: 8065}
	if got, want := server.BaseURL(), "http://192.168.1.20:8065"; got != want {
		t.Errorf("BaseURL() = %q, want %q", got, want)
	}
}

func TestServerVersion(t *testing.T) {
	server := &Server{Metadata: map[string]string{"version": "9.5.0"}}
	if got := server.Version(); got != "9.5.0" {
		t.Errorf("Version() = %q, want %q", got, "9.5.0")
	}

	empty := &Server{}
	if got := empty.Version(); got != "" {
		t.Errorf("Version() on empty metadata = %q, want empty", got)
	}
}

func TestServerString(t *testing.T) {
	server := &Server{Name: "Team Chat", IP: "192.168.1.20", Port: 8065, DiscoveredAt: time.Now()}
	got := server.String()
	if got == "" {
		t.Error("String() returned empty string")
	}
}
