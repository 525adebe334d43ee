package main

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/platrum/chatcfg/internal/config"
	"github.com/platrum/chatcfg/internal/discovery"
	"github.com/platrum/chatcfg/internal/serverurl"
	"github.com/platrum/chatcfg/internal/validation"
	"github.com/platrum/chatcfg/internal/wizard/tui"
)

// Command flags
var (
	outputFormat   string
	scanTimeout    int
	serverName     string
	skipValidate   bool
	timeoutSeconds int
)

func init() {
	rootCmd.AddCommand(wizardCmd)
	rootCmd.AddCommand(addCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(removeCmd)
	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(discoverCmd)

	listCmd.Flags().StringVar(&outputFormat, "format", "detailed", "Output format (detailed, compact, json)")
	addCmd.Flags().StringVar(&serverName, "name", "", "Display name for the server")
	addCmd.Flags().BoolVar(&skipValidate, "no-validate", false, "Save without contacting the server")
	addCmd.Flags().IntVar(&timeoutSeconds, "timeout", 0, "Validation timeout in seconds (0 uses the configured default)")
	validateCmd.Flags().IntVar(&timeoutSeconds, "timeout", 0, "Validation timeout in seconds (0 uses the configured default)")
	discoverCmd.Flags().IntVar(&scanTimeout, "timeout", 0, "Scan timeout in seconds (0 uses the configured default)")
}

// newRemote builds the validation client used by both the wizard and the
// direct commands, with duplicate detection backed by the registry.
func newRemote(registry *config.Registry) *validation.Client {
	client := validation.NewClient()
	client.LookupURL = func(url string) (string, bool) {
		id, server := registry.FindByURL(url)
		return id, server != nil
	}
	return client
}

// validateTimeout returns the remote validation deadline, from the --timeout
// flag when given and from preferences otherwise.
func validateTimeout(registry *config.Registry) time.Duration {
	if timeoutSeconds > 0 {
		return time.Duration(timeoutSeconds) * time.Second
	}
	if prefs := registry.Preferences; prefs != nil && prefs.ValidateTimeout > 0 {
		return time.Duration(prefs.ValidateTimeout) * time.Second
	}
	return validation.DefaultTimeout
}

// wizardCmd launches the interactive TUI wizard
var wizardCmd = &cobra.Command{
	Use:   "wizard",
	Short: "Launch the interactive server setup wizard",
	Long: `Launch an interactive TUI wizard for managing chat servers.

The wizard provides a user-friendly interface for:
- Viewing and removing configured servers
- Adding and editing servers with live address validation
- Managing per-server permissions
- Discovering self-hosted servers on the local network

This is the recommended way to manage servers for most users.`,
	Example: `  # Launch the wizard
  chatcfg wizard
  # Or simply (wizard is default):
  chatcfg`,
	RunE: runWizard,
}

func runWizard(cmd *cobra.Command, args []string) error {
	registry, err := config.LoadRegistry()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	model := tui.NewAppModel(registry, newRemote(registry))

	p := tea.NewProgram(model, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("wizard error: %w", err)
	}

	return nil
}

// addCmd adds a server non-interactively
var addCmd = &cobra.Command{
	Use:   "add <server>",
	Short: "Add a chat server",
	Long: `Add a chat server to the configuration.

The argument is a server name or URL; it is reduced to the canonical
server name and validated against the live endpoint before saving.
Validation failures that merely warn (plain HTTP, corrected URL) still
save, with the warning printed.`,
	Example: `  # Add by name
  chatcfg add yourteam

  # A pasted URL works too
  chatcfg add https://yourteam.chat.platrum.ru/landing

  # Custom display name
  chatcfg add yourteam --name "Our Team"`,
	Args: cobra.ExactArgs(1),
	RunE: runAdd,
}

func runAdd(cmd *cobra.Command, args []string) error {
	registry, err := config.LoadRegistry()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	host := serverurl.HostFromURL(args[0])
	if status := validation.CheckHostFormat(host); status != validation.StatusNone {
		return fmt.Errorf("%s", status.Message())
	}
	url := serverurl.URLFromHost(host)

	var result validation.Result
	if !skipValidate {
		ctx, cancel := context.WithTimeout(context.Background(), validateTimeout(registry))
		defer cancel()

		result = newRemote(registry).ValidateURL(ctx, url, "")

		// Adopt the corrected canonical address when the server reports one
		if result.ValidatedURL != "" {
			if corrected := serverurl.HostFromURL(result.ValidatedURL); corrected != "" {
				host = corrected
			}
			url = result.ValidatedURL
		}

		if result.Status.Blocking() {
			return fmt.Errorf("%s: %s", host, result.Status.Message())
		}
		if result.Status.Warning() || result.Status == validation.StatusUnknownVersion {
			fmt.Printf("Warning: %s\n", result.Status.Message())
		}
	}

	if id, _ := registry.FindByURL(url); id != "" {
		return fmt.Errorf("server %q is already configured", host)
	}

	name := serverName
	if name == "" {
		name = host
	}

	id, _ := registry.AddServer(name, host, url)
	if result.ServerVersion != "" {
		registry.UpdateValidation(id, result.ServerVersion)
	}

	if err := registry.Save(); err != nil {
		return fmt.Errorf("failed to save configuration: %w", err)
	}

	fmt.Printf("Added %s (%s)\n", name, url)
	if result.ServerVersion != "" {
		fmt.Printf("Server version: %s\n", result.ServerVersion)
	}

	return nil
}

// listCmd prints the configured servers
var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List configured servers",
	Example: `  # Human-readable list
  chatcfg list

  # JSON output for scripting
  chatcfg list --format json`,
	RunE: runList,
}

func runList(cmd *cobra.Command, args []string) error {
	registry, err := config.LoadRegistry()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	if len(registry.Servers) == 0 {
		fmt.Println("No servers configured. Run 'chatcfg add <server>' or 'chatcfg' for the wizard.")
		return nil
	}

	type listedServer struct {
		ID     string         `json:"id"`
		Name   string         `json:"name"`
		Host   string         `json:"host"`
		URL    string         `json:"url"`
		Server *config.Server `json:"-"`
	}

	servers := make([]listedServer, 0, len(registry.Servers))
	for id, server := range registry.Servers {
		servers = append(servers, listedServer{
			ID:     id,
			Name:   server.Name,
			Host:   server.Host,
			URL:    server.URL,
			Server: server,
		})
	}
	sort.Slice(servers, func(i, j int) bool { return servers[i].Host < servers[j].Host })

	switch outputFormat {
	case "json":
		data, err := json.MarshalIndent(servers, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal JSON: %w", err)
		}
		fmt.Println(string(data))

	case "compact":
		for _, s := range servers {
			fmt.Printf("%s\t%s\t%s\n", s.ID, s.Host, s.URL)
		}

	case "detailed":
		fallthrough
	default:
		for i, s := range servers {
			fmt.Printf("%d. %s\n", i+1, s.Name)
			fmt.Printf("   ID:   %s\n", s.ID)
			fmt.Printf("   URL:  %s\n", s.URL)
			if s.Server.ServerVersion != "" {
				fmt.Printf("   Version: %s (validated %s)\n",
					s.Server.ServerVersion,
					s.Server.LastValidated.Format("2006-01-02 15:04"),
				)
			}
			fmt.Println()
		}
	}

	return nil
}

// removeCmd removes a configured server
var removeCmd = &cobra.Command{
	Use:   "remove <id|server>",
	Short: "Remove a configured server",
	Example: `  # Remove by server name
  chatcfg remove yourteam

  # Remove by id
  chatcfg remove 2f1c7c7e-...`,
	Args: cobra.ExactArgs(1),
	RunE: runRemove,
}

func runRemove(cmd *cobra.Command, args []string) error {
	registry, err := config.LoadRegistry()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	if !registry.RemoveServer(args[0]) {
		return fmt.Errorf("no configured server matches %q", args[0])
	}

	if err := registry.Save(); err != nil {
		return fmt.Errorf("failed to save configuration: %w", err)
	}

	fmt.Printf("Removed %s\n", args[0])
	return nil
}

// validateCmd checks a server address without saving anything
var validateCmd = &cobra.Command{
	Use:   "validate <server>",
	Short: "Validate a server address",
	Long: `Validate a server address against the live endpoint without saving.

Prints the validation outcome, the reported server version, and the
corrected URL when the server redirects to a different address. Exits
nonzero when the address would be rejected.`,
	Example: `  # Validate by name
  chatcfg validate yourteam

  # Validate a pasted URL
  chatcfg validate https://yourteam.chat.platrum.ru`,
	Args: cobra.ExactArgs(1),
	RunE: runValidate,
}

func runValidate(cmd *cobra.Command, args []string) error {
	registry, err := config.LoadRegistry()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	host := serverurl.HostFromURL(args[0])
	if status := validation.CheckHostFormat(host); status != validation.StatusNone {
		return fmt.Errorf("%s", status.Message())
	}

	ctx, cancel := context.WithTimeout(context.Background(), validateTimeout(registry))
	defer cancel()

	result := newRemote(registry).ValidateURL(ctx, serverurl.URLFromHost(host), "")

	fmt.Printf("Server: %s\n", host)
	fmt.Printf("Status: %s\n", result.Status.Message())
	if result.ServerVersion != "" {
		fmt.Printf("Version: %s\n", result.ServerVersion)
	}
	if result.ValidatedURL != "" {
		fmt.Printf("Corrected URL: %s\n", result.ValidatedURL)
	}

	if result.Status.Blocking() {
		return fmt.Errorf("validation failed")
	}
	return nil
}

// discoverCmd scans the local network for self-hosted servers
var discoverCmd = &cobra.Command{
	Use:   "discover",
	Short: "Scan the local network for chat servers",
	Long: `Scan for self-hosted chat servers using mDNS/DNS-SD discovery.

This command listens for mDNS broadcasts and displays servers that
announce themselves on the local network. Discovered servers are shown
for reference; hosted servers are added by name with 'chatcfg add'.`,
	Example: `  # Scan with the configured timeout
  chatcfg discover

  # Quick 3-second scan
  chatcfg discover --timeout 3`,
	RunE: runDiscover,
}

func runDiscover(cmd *cobra.Command, args []string) error {
	registry, err := config.LoadRegistry()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	timeout := discovery.DefaultScanTimeout
	if prefs := registry.Preferences; prefs != nil && prefs.DiscoverTimeout > 0 {
		timeout = time.Duration(prefs.DiscoverTimeout) * time.Second
	}
	if scanTimeout > 0 {
		timeout = time.Duration(scanTimeout) * time.Second
	}

	fmt.Printf("Scanning for chat servers (timeout: %s)...\n\n", timeout)

	servers, err := discovery.ScanForServers(timeout)
	if err != nil {
		return fmt.Errorf("scan failed: %w", err)
	}

	if len(servers) == 0 {
		fmt.Println("No servers found.")
		fmt.Println("\nTroubleshooting:")
		fmt.Println("  - Ensure the server announces itself over mDNS")
		fmt.Println("  - Check that your machine is on the same network segment")
		fmt.Println("  - Try increasing --timeout for slower networks")
		return nil
	}

	fmt.Printf("Found %d server(s):\n\n", len(servers))

	for i, server := range servers {
		fmt.Printf("%d. %s\n", i+1, server.Name)
		fmt.Printf("   Address: %s\n", server.BaseURL())
		if v := server.Version(); v != "" {
			fmt.Printf("   Version: %s\n", v)
		}
		fmt.Println()
	}

	return nil
}
