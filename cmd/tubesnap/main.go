package main

import (
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"tubesnap/internal/api"
	"tubesnap/internal/cli"
	"tubesnap/internal/config"
	"tubesnap/internal/downloader"
	"tubesnap/internal/ytdl"
	"tubesnap/pkg/models"
)

const Version = "0.1.0"

func main() {
	cliApp := cli.NewCLI(Version)

	if len(os.Args) < 2 {
		cliApp.PrintHelp(os.Stderr)
		os.Exit(1)
	}

	cmd, err := cliApp.ParseCommand(os.Args[1:])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n\n", err)
		cliApp.PrintHelp(os.Stderr)
		os.Exit(1)
	}

	// Handle help and version commands
	if cmd.Type == cli.CommandHelp {
		cliApp.PrintHelp(os.Stdout)
		os.Exit(0)
	}

	if cmd.Type == cli.CommandVersion {
		cliApp.PrintVersion(os.Stdout)
		os.Exit(0)
	}

	os.Exit(executeCommand(cmd))
}

func executeCommand(cmd *cli.Command) int {
	switch cmd.Type {
	case cli.CommandServer:
		return runServer(cmd.Port, cmd.ConfigPath)
	case cli.CommandUpdate:
		return runUpdate(cmd.CheckOnly)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", cmd.String())
		return 1
	}
}

func runServer(port int, configPath string) int {
	// Initialize configuration
	if configPath == "" {
		configPath = config.GetDefaultConfigPath()
	}
	cfgMgr, err := config.NewManager(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		return 1
	}

	// Get config and override port if specified
	cfg := cfgMgr.Get()
	if port != 0 {
		cfg.WebServerPort = port
	}

	// Resolve the yt-dlp binary: an explicit path in the config wins,
	// otherwise the managed copy under the data dir is used.
	ytdlPath := cfg.YtdlPath
	if ytdlPath == "" {
		binDir := filepath.Join(config.GetDataDir(), "bin")
		manager := ytdl.NewManager(binDir)

		fmt.Println("Checking yt-dlp installation...")
		if err := manager.EnsureInstalled(); err != nil {
			fmt.Fprintf(os.Stderr, "Error installing yt-dlp: %v\n", err)
			return 1
		}
		if cfg.YtdlAutoUpdate {
			if err := manager.AutoUpdate(); err != nil {
				fmt.Fprintf(os.Stderr, "Warning: yt-dlp update failed: %v\n", err)
			}
		}
		ytdlPath = manager.Path()
	}

	server := newServerFromConfig(cfg, ytdlPath)
	if err := server.Start(); err != nil {
		fmt.Fprintf(os.Stderr, "Server error: %v\n", err)
		return 1
	}

	fmt.Printf("Server listening on http://%s\n", server.GetActualAddr())
	fmt.Println("Press Ctrl+C to stop")

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	fmt.Println("\nShutting down...")
	if err := server.Stop(); err != nil {
		fmt.Fprintf(os.Stderr, "Shutdown error: %v\n", err)
		return 1
	}

	return 0
}

// newServerFromConfig wires the yt-dlp client, the orchestrator and the
// HTTP server together
func newServerFromConfig(cfg *models.Config, ytdlPath string) *api.Server {
	client := ytdl.NewClient(ytdlPath, splitArgs(cfg.YtdlAdditionalArgs)...)
	orchestrator := downloader.NewOrchestrator(client)
	return api.NewServer(cfg, client, orchestrator)
}

// splitArgs splits the configured extra yt-dlp arguments on whitespace
func splitArgs(s string) []string {
	return strings.Fields(s)
}

func runUpdate(checkOnly bool) int {
	binDir := filepath.Join(config.GetDataDir(), "bin")
	manager := ytdl.NewManager(binDir)

	if checkOnly {
		fmt.Println("Checking for yt-dlp updates...")
	} else {
		fmt.Println("Updating yt-dlp...")
	}

	latest, hasUpdate, err := manager.CheckForUpdate()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error checking for updates: %v\n", err)
		return 1
	}

	if !hasUpdate {
		fmt.Printf("yt-dlp is up to date (version %s)\n", manager.CurrentVersion())
		return 0
	}

	if current := manager.CurrentVersion(); current != "" {
		fmt.Printf("Update available: %s -> %s\n", current, latest)
	} else {
		fmt.Printf("yt-dlp not installed, latest version: %s\n", latest)
	}

	if checkOnly {
		fmt.Println("Run 'tubesnap update' to install it")
		return 0
	}

	if err := manager.Install(); err != nil {
		fmt.Fprintf(os.Stderr, "Error installing yt-dlp: %v\n", err)
		return 1
	}

	fmt.Printf("Successfully installed yt-dlp %s\n", latest)
	return 0
}
