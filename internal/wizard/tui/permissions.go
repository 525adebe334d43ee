package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/platrum/chatcfg/internal/config"
	"github.com/platrum/chatcfg/internal/permissions"
)

type permissionsSavedMsg struct {
	err error
}

// permissionsKeyMap defines key bindings for the permissions screen
type permissionsKeyMap struct {
	Up     key.Binding
	Down   key.Binding
	Toggle key.Binding
	Save   key.Binding
	Back   key.Binding
}

// ShortHelp returns keybindings to be shown in the mini help view
func (k permissionsKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Toggle, k.Save, k.Back}
}

// FullHelp returns keybindings for the expanded help view
func (k permissionsKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down},
		{k.Toggle, k.Save, k.Back},
	}
}

// PermissionsModel represents the per-server permissions screen state
type PermissionsModel struct {
	Registry *config.Registry
	ServerID string

	ServerName string
	Grants     permissions.Set // working copy, applied on save
	Cursor     int

	SaveErr error

	// UI state
	Width  int
	Height int
	Help   help.Model
	Keys   permissionsKeyMap
}

// NewPermissionsModel creates the permissions editor for one configured server
func NewPermissionsModel(registry *config.Registry, serverID string) PermissionsModel {
	keys := permissionsKeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "down"),
		),
		Toggle: key.NewBinding(
			key.WithKeys(" ", "enter"),
			key.WithHelp("space", "toggle"),
		),
		Save: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "save"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "cancel"),
		),
	}

	m := PermissionsModel{
		Registry: registry,
		ServerID: serverID,
		Grants:   permissions.Defaults(),
		Help:     help.New(),
		Keys:     keys,
	}

	if server := registry.GetServer(serverID); server != nil {
		m.ServerName = server.Name
		if server.Permissions != nil {
			m.Grants = server.Permissions.Clone()
		}
	}

	return m
}

// Init initializes the permissions model
func (m PermissionsModel) Init() tea.Cmd {
	return nil
}

// Update handles messages and updates the model
func (m PermissionsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		kinds := permissions.Kinds()
		switch {
		case key.Matches(msg, m.Keys.Back):
			return m, func() tea.Msg { return goBackMsg{} }

		case key.Matches(msg, m.Keys.Up):
			if m.Cursor > 0 {
				m.Cursor--
			}
			return m, nil

		case key.Matches(msg, m.Keys.Down):
			if m.Cursor < len(kinds)-1 {
				m.Cursor++
			}
			return m, nil

		case key.Matches(msg, m.Keys.Toggle):
			m.Grants.Toggle(kinds[m.Cursor])
			return m, nil

		case key.Matches(msg, m.Keys.Save):
			return m, m.savePermissions()
		}

	case permissionsSavedMsg:
		if msg.err != nil {
			m.SaveErr = msg.err
			return m, nil
		}
		return m, func() tea.Msg { return goBackMsg{} }
	}

	return m, nil
}

// savePermissions applies the working copy to the registry and persists it
func (m PermissionsModel) savePermissions() tea.Cmd {
	registry := m.Registry
	id := m.ServerID
	grants := m.Grants.Clone()

	return func() tea.Msg {
		if server := registry.GetServer(id); server != nil {
			server.Permissions = grants
		}
		return permissionsSavedMsg{err: registry.Save()}
	}
}

// View renders the permissions screen
func (m PermissionsModel) View() string {
	var b strings.Builder

	title := "Permissions"
	if m.ServerName != "" {
		title = fmt.Sprintf("Permissions · %s", m.ServerName)
	}
	b.WriteString(RenderTitle(title))
	b.WriteString("\n")
	b.WriteString("  " + RenderSubtitle("What this server may ask of your machine"))
	b.WriteString("\n\n")

	for i, kind := range permissions.Kinds() {
		grant := m.Grants[kind]

		state := "[ ]"
		if grant.Allowed && !grant.AlwaysDeny {
			state = "[x]"
		}

		line := fmt.Sprintf("%s %s", state, kind.Label())
		if grant.AlwaysDeny {
			line += "  (denied by the system)"
		}

		if i == m.Cursor {
			b.WriteString("  " + SelectedMenuItemStyle.Render("> "+line))
		} else {
			b.WriteString("  " + MenuItemStyle.Render("  "+line))
		}
		b.WriteString("\n")
	}

	if m.SaveErr != nil {
		b.WriteString("\n  ")
		b.WriteString(RenderError(fmt.Sprintf("Save failed: %v", m.SaveErr)))
		b.WriteString("\n")
	}

	helpText := m.Help.View(m.Keys)
	return RenderApplicationContainer(b.String(), helpText, m.Width, m.Height)
}
