package tui

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/platrum/chatcfg/internal/config"
	"github.com/platrum/chatcfg/internal/discovery"
)

// Messages for async operations
type discoverCompleteMsg struct {
	servers []*discovery.Server
	err     error
}
type removeCompleteMsg struct {
	err error
}

// serversKeyMap defines key bindings for the server list screen
type serversKeyMap struct {
	Up       key.Binding
	Down     key.Binding
	Add      key.Binding
	Edit     key.Binding
	Perms    key.Binding
	Remove   key.Binding
	Discover key.Binding
	Quit     key.Binding
}

// ShortHelp returns keybindings to be shown in the mini help view
func (k serversKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Add, k.Edit, k.Perms, k.Remove, k.Discover, k.Quit}
}

// FullHelp returns keybindings for the expanded help view
func (k serversKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Add, k.Edit},
		{k.Perms, k.Remove, k.Discover, k.Quit},
	}
}

// serverItem wraps a configured server for use with bubbles/list
type serverItem struct {
	id     string
	server *config.Server
}

// FilterValue implements list.Item
func (s serverItem) FilterValue() string {
	return s.server.Name + " " + s.server.Host + " " + s.server.URL
}

// Title returns the display name for list rendering
func (s serverItem) Title() string {
	if s.server.Name != "" {
		return s.server.Name
	}
	return s.server.Host
}

// Description returns server details for list rendering
func (s serverItem) Description() string {
	details := s.server.URL
	if s.server.ServerVersion != "" {
		details += " • v" + s.server.ServerVersion
	}
	if !s.server.LastValidated.IsZero() {
		details += " • validated " + s.server.LastValidated.Format("2006-01-02 15:04")
	}
	return details
}

// ServersModel represents the server list screen state
type ServersModel struct {
	Registry   *config.Registry
	ServerList list.Model

	// LAN discovery state
	Discovering bool
	Discovered  []*discovery.Server
	DiscoverErr error

	// Set when the user asked to leave the wizard
	QuitRequested bool

	StatusLine string

	// UI state
	Width   int
	Height  int
	Spinner spinner.Model
	Help    help.Model
	Keys    serversKeyMap
}

// NewServersModel creates a new server list screen model
func NewServersModel(registry *config.Registry) ServersModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = SpinnerStyle

	delegate := list.NewDefaultDelegate()
	serverList := list.New(serverItems(registry), delegate, 0, 0)
	serverList.Title = "Configured Servers"
	serverList.SetShowStatusBar(false)
	serverList.SetFilteringEnabled(true)
	serverList.SetShowHelp(false)
	serverList.Styles.Title = TitleStyle

	keys := serversKeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "move up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "move down"),
		),
		Add: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "add server"),
		),
		Edit: key.NewBinding(
			key.WithKeys("enter", "e"),
			key.WithHelp("enter/e", "edit"),
		),
		Perms: key.NewBinding(
			key.WithKeys("p"),
			key.WithHelp("p", "permissions"),
		),
		Remove: key.NewBinding(
			key.WithKeys("x"),
			key.WithHelp("x", "remove"),
		),
		Discover: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "discover LAN"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "esc"),
			key.WithHelp("q", "quit"),
		),
	}

	return ServersModel{
		Registry:   registry,
		ServerList: serverList,
		Spinner:    s,
		Help:       help.New(),
		Keys:       keys,
	}
}

// serverItems builds sorted list items from the registry.
func serverItems(registry *config.Registry) []list.Item {
	type entry struct {
		id     string
		server *config.Server
	}
	entries := make([]entry, 0, len(registry.Servers))
	for id, server := range registry.Servers {
		entries = append(entries, entry{id, server})
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].server.Host < entries[j].server.Host
	})

	items := make([]list.Item, len(entries))
	for i, e := range entries {
		items[i] = serverItem{id: e.id, server: e.server}
	}
	return items
}

// Resize updates the list dimensions after a window size change
func (m *ServersModel) Resize(width, height int) {
	m.ServerList.SetWidth(width - 4)
	listHeight := height - 12 // Leave room for header, footer and discovery panel
	if listHeight < 5 {
		listHeight = 5
	}
	m.ServerList.SetHeight(listHeight)
}

// Init initializes the servers model
func (m ServersModel) Init() tea.Cmd {
	return m.Spinner.Tick
}

// Update handles messages and updates the model
func (m ServersModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		// Let the list handle keys while the user is filtering
		if m.ServerList.FilterState() == list.Filtering {
			break
		}

		switch {
		case key.Matches(msg, m.Keys.Quit):
			m.QuitRequested = true
			return m, nil

		case key.Matches(msg, m.Keys.Add):
			return m, func() tea.Msg {
				return screenTransitionMsg{screen: ScreenForm, data: formContext{}}
			}

		case key.Matches(msg, m.Keys.Edit):
			if item, ok := m.ServerList.SelectedItem().(serverItem); ok {
				return m, func() tea.Msg {
					return screenTransitionMsg{
						screen: ScreenForm,
						data:   formContext{id: item.id, server: item.server},
					}
				}
			}

		case key.Matches(msg, m.Keys.Perms):
			if item, ok := m.ServerList.SelectedItem().(serverItem); ok {
				return m, func() tea.Msg {
					return screenTransitionMsg{screen: ScreenPermissions, data: item.id}
				}
			}

		case key.Matches(msg, m.Keys.Remove):
			if item, ok := m.ServerList.SelectedItem().(serverItem); ok {
				return m, m.removeServer(item.id)
			}

		case key.Matches(msg, m.Keys.Discover):
			if !m.Discovering {
				m.Discovering = true
				m.DiscoverErr = nil
				timeout := time.Duration(m.Registry.Preferences.DiscoverTimeout) * time.Second
				return m, tea.Batch(discoverServers(timeout), m.Spinner.Tick)
			}
		}

	case discoverCompleteMsg:
		m.Discovering = false
		m.Discovered = msg.servers
		m.DiscoverErr = msg.err

	case removeCompleteMsg:
		if msg.err != nil {
			m.StatusLine = RenderError(fmt.Sprintf("Remove failed: %v", msg.err))
		} else {
			m.StatusLine = RenderSuccess("Server removed")
		}
		m.ServerList.SetItems(serverItems(m.Registry))

	case spinner.TickMsg:
		m.Spinner, cmd = m.Spinner.Update(msg)
		return m, cmd
	}

	m.ServerList, cmd = m.ServerList.Update(msg)
	return m, cmd
}

// removeServer deletes the server and persists the registry.
func (m ServersModel) removeServer(id string) tea.Cmd {
	registry := m.Registry
	return func() tea.Msg {
		registry.RemoveServer(id)
		return removeCompleteMsg{err: registry.Save()}
	}
}

// discoverServers runs a LAN scan as a command
func discoverServers(timeout time.Duration) tea.Cmd {
	return func() tea.Msg {
		servers, err := discovery.ScanForServers(timeout)
		return discoverCompleteMsg{servers: servers, err: err}
	}
}

// View renders the server list screen
func (m ServersModel) View() string {
	var b strings.Builder

	if len(m.ServerList.Items()) == 0 {
		b.WriteString("\n")
		b.WriteString(RenderSubtitle("  No servers configured yet. Press 'a' to add one."))
		b.WriteString("\n")
	} else {
		b.WriteString(m.ServerList.View())
		b.WriteString("\n")
	}

	if m.StatusLine != "" {
		b.WriteString("\n  ")
		b.WriteString(m.StatusLine)
		b.WriteString("\n")
	}

	b.WriteString(m.renderDiscoveryPanel())

	helpText := m.Help.View(m.Keys)
	return RenderApplicationContainer(b.String(), helpText, m.Width, m.Height)
}

// renderDiscoveryPanel shows LAN discovery progress or results
func (m ServersModel) renderDiscoveryPanel() string {
	if m.Discovering {
		return fmt.Sprintf("\n  %s Scanning the local network for chat servers...\n", m.Spinner.View())
	}

	if m.DiscoverErr != nil {
		return "\n  " + RenderError(fmt.Sprintf("Discovery failed: %v", m.DiscoverErr)) + "\n"
	}

	if len(m.Discovered) == 0 {
		return ""
	}

	var b strings.Builder
	b.WriteString("\n  Found on your network:\n")
	for _, server := range m.Discovered {
		line := fmt.Sprintf("  • %s — %s", server.Name, server.BaseURL())
		if v := server.Version(); v != "" {
			line += " (v" + v + ")"
		}
		b.WriteString(line)
		b.WriteString("\n")
	}
	b.WriteString(RenderSubtitle("  LAN servers are shown for reference; hosted servers are added by name."))
	b.WriteString("\n")
	return b.String()
}
