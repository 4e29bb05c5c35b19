// Command demoserver starts a small demo site whose pages exist in several
// quality versions, for trying the auditor against something local.
// Usage: go run ./cmd/demoserver [port]
// Default port: 9999
package main

import (
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/pagelens/pagelens/internal/demoserver"
)

func main() {
	cfg := demoserver.DefaultConfig()

	// Optional: custom port from command line
	if len(os.Args) > 1 {
		port, err := strconv.Atoi(os.Args[1])
		if err != nil || port < 1 || port > 65535 {
			log.Fatalf("Invalid port: %s", os.Args[1])
		}
		cfg.Port = port
	}

	fmt.Println("===========================================")
	fmt.Println("   Pagelens Demo Site")
	fmt.Println("===========================================")
	fmt.Println()
	fmt.Println("Each page exists in several versions of increasing quality.")
	fmt.Println("Audit a page, bump its version from the control panel, then")
	fmt.Println("audit again and compare the two reports.")
	fmt.Println()

	server := demoserver.NewDemoServer(cfg)
	if err := server.Start(); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}
