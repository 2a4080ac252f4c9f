// Package mdns advertises the wardrobe server on the local network via
// Avahi, so the mobile app can discover it without manual configuration.
package mdns

import (
	"fmt"
	"log/slog"
	"os"
	"sync"

	"github.com/godbus/dbus/v5"
	"github.com/holoplot/go-avahi"
)

const (
	// ServiceType is the DNS-SD service type for wardrobe servers.
	ServiceType = "_wardrobe._tcp"

	// APIVersion is the current API version advertised in TXT records.
	APIVersion = "v1"

	// ServerVersion is the current server version advertised in TXT records.
	ServerVersion = "1.0.0"
)

// Service manages mDNS advertisement through the system Avahi daemon.
type Service struct {
	server *avahi.Server
	group  *avahi.EntryGroup
	logger *slog.Logger
	mu     sync.Mutex
}

// NewService creates a new mDNS service.
func NewService(logger *slog.Logger) *Service {
	return &Service{
		logger: logger,
	}
}

// Start begins advertising the server. It should be called after the HTTP
// server is listening. Errors are typically non-fatal: containers and
// machines without an Avahi daemon simply skip discovery.
func (s *Service) Start(serverName string, port int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Tear down an existing advertisement for restart scenarios.
	s.stopLocked()

	conn, err := dbus.SystemBus()
	if err != nil {
		return fmt.Errorf("connect system bus: %w", err)
	}

	server, err := avahi.ServerNew(conn)
	if err != nil {
		return fmt.Errorf("connect avahi daemon: %w", err)
	}

	group, err := server.EntryGroupNew()
	if err != nil {
		server.Close()
		return fmt.Errorf("create entry group: %w", err)
	}

	host, err := os.Hostname()
	if err != nil {
		host = "wardrobe-server"
	}

	txt := [][]byte{
		[]byte(fmt.Sprintf("name=%s", serverName)),
		[]byte(fmt.Sprintf("version=%s", ServerVersion)),
		[]byte(fmt.Sprintf("api=%s", APIVersion)),
	}

	err = group.AddService(
		avahi.InterfaceUnspec,
		avahi.ProtoUnspec,
		0,
		host,
		ServiceType,
		"", // domain, empty = .local
		"", // host, empty = system hostname
		uint16(port),
		txt,
	)
	if err != nil {
		server.Close()
		return fmt.Errorf("add service: %w", err)
	}

	if err := group.Commit(); err != nil {
		server.Close()
		return fmt.Errorf("commit entry group: %w", err)
	}

	s.server = server
	s.group = group

	s.logger.Info("mDNS advertisement started",
		"service", ServiceType,
		"port", port,
		"name", serverName,
	)

	return nil
}

// Stop stops mDNS advertising. Safe to call multiple times or if not
// started.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopLocked()
}

func (s *Service) stopLocked() {
	if s.server != nil {
		s.server.Close()
		s.server = nil
		s.group = nil
		s.logger.Info("mDNS advertisement stopped")
	}
}
