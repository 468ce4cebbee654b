package core

import (
	"fmt"
	"log"
	"net"
	"os"
	"strings"
	"sync"

	"github.com/zacjones93/script-kit-next-sub006/internal/config"
	"github.com/zacjones93/script-kit-next-sub006/internal/hotkey"
)

// IPCServer accepts trigger tokens from kit-client over a unix socket.
// The compositor's keybindings exec the client, so this socket is the
// daemon's global-hotkey mechanism; each connection handler goroutine
// is the foreign thread of the hotkey callback contract.
//
// It doubles as the hotkey.Registrar: bindings claim a trigger name
// and get their fire callback invoked for matching messages.
type IPCServer struct {
	config  *config.Config
	server  *net.UnixListener
	running bool

	mu       sync.Mutex
	handlers map[string]func()
	nextID   hotkey.BindingID
}

func NewIPCServer(cfg *config.Config) *IPCServer {
	return &IPCServer{
		config:   cfg,
		handlers: make(map[string]func()),
	}
}

// Register claims a trigger name. A second claim for the same name
// fails with hotkey.ErrBindingClaimed and is not retried.
func (s *IPCServer) Register(trigger string, fire func()) (hotkey.BindingID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, taken := s.handlers[trigger]; taken {
		return 0, fmt.Errorf("%w: %q", hotkey.ErrBindingClaimed, trigger)
	}
	s.handlers[trigger] = fire
	s.nextID++
	return s.nextID, nil
}

func (s *IPCServer) Start() error {
	if s.running {
		return fmt.Errorf("IPC server already running")
	}

	socketPath := s.config.SocketPath
	if _, err := os.Stat(socketPath); err == nil {
		os.Remove(socketPath)
	}

	listener, err := net.Listen("unix", socketPath)
	if err != nil {
		return fmt.Errorf("failed to create socket listener: %w", err)
	}

	s.server = listener.(*net.UnixListener)
	s.running = true

	log.Printf("IPC server listening on %s", socketPath)

	go s.acceptConnections()

	return nil
}

func (s *IPCServer) acceptConnections() {
	for s.running {
		conn, err := s.server.Accept()
		if err != nil {
			if s.running {
				log.Printf("Error accepting connection: %v", err)
			}
			continue
		}

		unixConn, ok := conn.(*net.UnixConn)
		if !ok {
			log.Printf("Not a Unix connection")
			conn.Close()
			continue
		}

		go s.handleConnection(unixConn)
	}
}

func (s *IPCServer) handleConnection(conn *net.UnixConn) {
	defer conn.Close()

	buf := make([]byte, 1024)
	n, err := conn.Read(buf)
	if err != nil {
		log.Printf("Error reading from connection: %v", err)
		return
	}

	message := strings.TrimSpace(string(buf[:n]))
	log.Printf("Received trigger: %s", message)

	s.mu.Lock()
	fire := s.handlers[message]
	s.mu.Unlock()

	if fire == nil {
		log.Printf("No binding for trigger %q", message)
		return
	}
	// Still on the connection goroutine; fire only crosses a channel.
	fire()
}

func (s *IPCServer) Stop() error {
	if !s.running {
		return nil
	}

	s.running = false

	if s.server != nil {
		s.server.Close()
	}

	socketPath := s.config.SocketPath
	if _, err := os.Stat(socketPath); err == nil {
		os.Remove(socketPath)
	}

	log.Println("IPC server stopped")
	return nil
}
