package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/platrum/chatcfg/internal/config"
	"github.com/platrum/chatcfg/internal/validation"
)

// Screen represents the current active screen in the application
type Screen string

const (
	ScreenServers     Screen = "servers"
	ScreenForm        Screen = "form"
	ScreenPermissions Screen = "permissions"
)

// Messages for screen transitions
type screenTransitionMsg struct {
	screen Screen
	data   interface{}
}

type goBackMsg struct{}

// formContext carries the target of the add/edit form screen.
// An empty id means a new server is being added.
type formContext struct {
	id     string
	server *config.Server
}

// AppModel is the top-level coordinator model that manages screen transitions
type AppModel struct {
	// Current screen state
	CurrentScreen  Screen
	PreviousScreen Screen

	// Screen models
	ServersModel     ServersModel
	FormModel        FormModel
	PermissionsModel PermissionsModel

	// Shared application state
	Registry *config.Registry
	Remote   validation.Remote

	// UI state
	Width  int
	Height int
}

// NewAppModel creates a new application model starting at the server list
func NewAppModel(registry *config.Registry, remote validation.Remote) AppModel {
	width, height := GetTerminalSize()

	model := AppModel{
		CurrentScreen: ScreenServers,
		Registry:      registry,
		Remote:        remote,
		Width:         width,
		Height:        height,
	}
	model.ServersModel = NewServersModel(registry)
	model.ServersModel.Width = width
	model.ServersModel.Height = height

	return model
}

// Init initializes the application
func (m AppModel) Init() tea.Cmd {
	switch m.CurrentScreen {
	case ScreenServers:
		return m.ServersModel.Init()
	case ScreenForm:
		return m.FormModel.Init()
	case ScreenPermissions:
		return m.PermissionsModel.Init()
	default:
		return nil
	}
}

// Update handles all messages and routes them to the appropriate screen
func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.Height = msg.Height
		// Propagate to all screens
		m.ServersModel.Width = msg.Width
		m.ServersModel.Height = msg.Height
		m.ServersModel.Resize(msg.Width, msg.Height)
		m.FormModel.Width = msg.Width
		m.FormModel.Height = msg.Height
		m.PermissionsModel.Width = msg.Width
		m.PermissionsModel.Height = msg.Height
		return m, nil

	case tea.KeyMsg:
		// Global quit handler
		if msg.String() == "ctrl+c" {
			m.teardown()
			return m, tea.Quit
		}

	case screenTransitionMsg:
		return m.transitionTo(msg.screen, msg.data)

	case goBackMsg:
		return m.goBack()
	}

	// Route to current screen
	return m.updateCurrentScreen(msg)
}

// updateCurrentScreen routes updates to the currently active screen
func (m AppModel) updateCurrentScreen(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch m.CurrentScreen {
	case ScreenServers:
		updated, c := m.ServersModel.Update(msg)
		m.ServersModel = updated.(ServersModel)
		cmd = c

		if m.ServersModel.QuitRequested {
			return m, tea.Quit
		}

	case ScreenForm:
		updated, c := m.FormModel.Update(msg)
		m.FormModel = updated.(FormModel)
		cmd = c

	case ScreenPermissions:
		updated, c := m.PermissionsModel.Update(msg)
		m.PermissionsModel = updated.(PermissionsModel)
		cmd = c
	}

	return m, cmd
}

// transitionTo transitions to a new screen
func (m AppModel) transitionTo(screen Screen, data interface{}) (tea.Model, tea.Cmd) {
	// Leaving the form tears its validator down so in-flight results
	// become no-ops.
	if m.CurrentScreen == ScreenForm && screen != ScreenForm {
		m.FormModel.Close()
	}

	m.PreviousScreen = m.CurrentScreen
	m.CurrentScreen = screen

	var cmd tea.Cmd

	switch screen {
	case ScreenServers:
		m.ServersModel = NewServersModel(m.Registry)
		m.ServersModel.Width = m.Width
		m.ServersModel.Height = m.Height
		m.ServersModel.Resize(m.Width, m.Height)
		cmd = m.ServersModel.Init()

	case ScreenForm:
		ctx, _ := data.(formContext)
		m.FormModel = NewFormModel(m.Registry, m.Remote, ctx)
		m.FormModel.Width = m.Width
		m.FormModel.Height = m.Height
		cmd = m.FormModel.Init()

	case ScreenPermissions:
		id, _ := data.(string)
		m.PermissionsModel = NewPermissionsModel(m.Registry, id)
		m.PermissionsModel.Width = m.Width
		m.PermissionsModel.Height = m.Height
		cmd = m.PermissionsModel.Init()
	}

	return m, cmd
}

// goBack returns to the previous screen
func (m AppModel) goBack() (tea.Model, tea.Cmd) {
	switch m.CurrentScreen {
	case ScreenServers:
		// Can't go back from the server list - quit instead
		m.teardown()
		return m, tea.Quit

	case ScreenForm, ScreenPermissions:
		return m.transitionTo(ScreenServers, nil)

	default:
		m.teardown()
		return m, tea.Quit
	}
}

// teardown releases screen resources before quitting
func (m *AppModel) teardown() {
	if m.CurrentScreen == ScreenForm {
		m.FormModel.Close()
	}
}

// View renders the current screen
func (m AppModel) View() string {
	switch m.CurrentScreen {
	case ScreenServers:
		return m.ServersModel.View()
	case ScreenForm:
		return m.FormModel.View()
	case ScreenPermissions:
		return m.PermissionsModel.View()
	default:
		return "Unknown screen"
	}
}
