package main

import (
	"fmt"
	"log"
	"log/slog"
	"os"

	_ "github.com/ironsheep/imageio-mcp/internal/formats/pnm"
	_ "github.com/ironsheep/imageio-mcp/internal/formats/stdimage"
	_ "github.com/ironsheep/imageio-mcp/internal/formats/tiff"
	"github.com/ironsheep/imageio-mcp/internal/imageio"
	"github.com/ironsheep/imageio-mcp/internal/server"
)

// Version information - set by ldflags during build
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	// Handle --version and -v flags
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "--version", "-v", "version":
			fmt.Printf("imageio-mcp %s\n", Version)
			fmt.Printf("  Build time: %s\n", BuildTime)
			fmt.Printf("  Git commit: %s\n", GitCommit)
			return
		case "--help", "-h", "help":
			fmt.Println("imageio-mcp - MCP server for reading, inspecting and converting images")
			fmt.Println()
			fmt.Println("Usage: imageio-mcp [options]")
			fmt.Println()
			fmt.Println("Options:")
			fmt.Println("  --version, -v    Print version information")
			fmt.Println("  --help, -h       Print this help message")
			fmt.Println()
			fmt.Println("Environment variables:")
			fmt.Println("  IMAGEIO_MCP_LOG_LEVEL=debug    Enable debug logging")
			fmt.Println()
			fmt.Println("Formats: TIFF, PNM (ppm/pgm/pbm), PNG, JPEG, BMP, GIF")
			fmt.Println()
			fmt.Println("This server communicates via MCP protocol over stdin/stdout.")
			fmt.Println("Configure it in your MCP client (e.g., Claude Desktop).")
			return
		}
	}

	// Configure logging to stderr (stdout is for MCP protocol)
	log.SetOutput(os.Stderr)
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)

	logLevel := os.Getenv("IMAGEIO_MCP_LOG_LEVEL")
	if logLevel == "debug" {
		imageio.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug})))
		log.Printf("ImageIO MCP Server v%s (built %s, commit %s)", Version, BuildTime, GitCommit)
	}

	if Version != "dev" {
		server.Version = Version
	}
	srv := server.New()
	if err := srv.Run(); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}
