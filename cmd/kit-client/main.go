// kit-client is the thin end of the global-hotkey pipeline: the
// compositor's keybindings exec it with a trigger name and it writes
// that token to the daemon's socket.
//
//	bindsym $mod+space exec kit-client toggle
//	bindsym $mod+n     exec kit-client notes
//	bindsym $mod+a     exec kit-client assistant
package main

import (
	"fmt"
	"net"
	"os"
	"strings"
)

const defaultSocketPath = "/tmp/kit_socket"

func sendMessage(message string) error {
	socketPath := os.Getenv("KIT_SOCKET")
	if socketPath == "" {
		socketPath = defaultSocketPath
	}

	conn, err := net.Dial("unix", socketPath)
	if err != nil {
		return fmt.Errorf("failed to connect to kit socket: %w", err)
	}
	defer conn.Close()

	_, err = conn.Write([]byte(message))
	if err != nil {
		return fmt.Errorf("failed to send message: %w", err)
	}

	return nil
}

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintf(os.Stderr, "Usage: kit-client toggle | notes | assistant | secondary <kind> | <raw trigger>\n")
		os.Exit(1)
	}

	var message string
	switch os.Args[1] {
	case "toggle":
		message = "primary-toggle"
	case "notes", "assistant":
		message = "secondary:" + os.Args[1]
	case "secondary":
		if len(os.Args) < 3 {
			fmt.Fprintf(os.Stderr, "Usage: kit-client secondary <kind>\n")
			os.Exit(1)
		}
		message = "secondary:" + os.Args[2]
	default:
		// Raw trigger name, for kinds added in config.
		message = strings.Join(os.Args[1:], " ")
	}

	if err := sendMessage(message); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
