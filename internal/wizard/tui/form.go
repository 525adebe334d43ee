package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/platrum/chatcfg/internal/config"
	"github.com/platrum/chatcfg/internal/serverurl"
	"github.com/platrum/chatcfg/internal/validation"
)

// Messages for async operations
type validationResolvedMsg struct {
	event validation.Event
}

type saveCompleteMsg struct {
	id  string
	err error
}

// Form field indices
const (
	fieldName = iota
	fieldHost
	fieldSave
	fieldCount
)

// formKeyMap defines key bindings for the add/edit form
type formKeyMap struct {
	Next key.Binding
	Prev key.Binding
	Save key.Binding
	Back key.Binding
}

// ShortHelp returns keybindings to be shown in the mini help view
func (k formKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Next, k.Save, k.Back}
}

// FullHelp returns keybindings for the expanded help view
func (k formKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Next, k.Prev},
		{k.Save, k.Back},
	}
}

// FormModel represents the add/edit server screen state
type FormModel struct {
	Registry *config.Registry
	EditID   string

	NameInput textinput.Model
	HostInput textinput.Model
	Focus     int

	// Validation state for the current input
	Host        string            // normalized host derived from the input
	URL         string            // derived or remotely corrected URL
	Status      validation.Status // outcome of the last resolved cycle
	Result      validation.Result
	CycleActive bool // true from Request until its event arrives

	// lastRequested is the host most recently handed to the validator,
	// so programmatic input updates do not retrigger validation.
	lastRequested string

	Saving  bool
	SaveErr error

	validator *validation.Validator

	// UI state
	Width   int
	Height  int
	Spinner spinner.Model
	Help    help.Model
	Keys    formKeyMap
}

// NewFormModel creates the form for adding (empty context) or editing a server
func NewFormModel(registry *config.Registry, remote validation.Remote, ctx formContext) FormModel {
	nameInput := textinput.New()
	nameInput.Placeholder = "Display name (optional)"
	nameInput.CharLimit = 64
	nameInput.Width = 40

	hostInput := textinput.New()
	hostInput.Placeholder = "yourteam"
	hostInput.CharLimit = 63
	hostInput.Width = 40

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = SpinnerStyle

	keys := formKeyMap{
		Next: key.NewBinding(
			key.WithKeys("tab", "down"),
			key.WithHelp("tab", "next field"),
		),
		Prev: key.NewBinding(
			key.WithKeys("shift+tab", "up"),
			key.WithHelp("shift+tab", "previous field"),
		),
		Save: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "save"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "back"),
		),
	}

	opts := []validation.Option{}
	if prefs := registry.Preferences; prefs != nil {
		if prefs.DebounceMillis > 0 {
			opts = append(opts, validation.WithDebounce(time.Duration(prefs.DebounceMillis)*time.Millisecond))
		}
		if prefs.ValidateTimeout > 0 {
			opts = append(opts, validation.WithTimeout(time.Duration(prefs.ValidateTimeout)*time.Second))
		}
	}
	if ctx.id != "" {
		opts = append(opts, validation.WithExistingID(ctx.id))
	}

	m := FormModel{
		Registry:  registry,
		EditID:    ctx.id,
		NameInput: nameInput,
		HostInput: hostInput,
		Focus:     fieldHost,
		Spinner:   s,
		Help:      help.New(),
		Keys:      keys,
		validator: validation.New(remote, opts...),
	}

	if ctx.server != nil {
		m.NameInput.SetValue(ctx.server.Name)
		m.HostInput.SetValue(ctx.server.Host)
		m.Host = ctx.server.Host
		m.URL = ctx.server.URL
		// Re-validate the existing address on open
		m.lastRequested = ctx.server.Host
		m.CycleActive = true
		m.validator.Request(ctx.server.Host)
	}

	m.HostInput.Focus()

	return m
}

// Init initializes the form model
func (m FormModel) Init() tea.Cmd {
	return tea.Batch(
		textinput.Blink,
		m.Spinner.Tick,
		listenForValidation(m.validator),
	)
}

// Close tears down the form's validator. Safe on the zero value.
func (m FormModel) Close() {
	if m.validator != nil {
		m.validator.Close()
	}
}

// listenForValidation waits for the next resolved validation cycle
func listenForValidation(v *validation.Validator) tea.Cmd {
	return func() tea.Msg {
		select {
		case ev := <-v.Events():
			return validationResolvedMsg{event: ev}
		case <-v.Done():
			return nil
		}
	}
}

// Update handles messages and updates the model
func (m FormModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.Keys.Back):
			return m, func() tea.Msg { return goBackMsg{} }

		case key.Matches(msg, m.Keys.Next):
			m.setFocus((m.Focus + 1) % fieldCount)
			return m, nil

		case key.Matches(msg, m.Keys.Prev):
			m.setFocus((m.Focus + fieldCount - 1) % fieldCount)
			return m, nil

		case key.Matches(msg, m.Keys.Save):
			if m.Focus == fieldSave {
				if m.canSave() && !m.Saving {
					m.Saving = true
					m.SaveErr = nil
					return m, m.saveServer()
				}
				return m, nil
			}
			// Enter on an input advances to the next field
			m.setFocus(m.Focus + 1)
			return m, nil
		}

	case validationResolvedMsg:
		return m.resolveValidation(msg.event)

	case saveCompleteMsg:
		m.Saving = false
		if msg.err != nil {
			m.SaveErr = msg.err
			return m, nil
		}
		return m, func() tea.Msg { return goBackMsg{} }

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.Spinner, cmd = m.Spinner.Update(msg)
		return m, cmd
	}

	return m.updateInputs(msg)
}

// setFocus moves keyboard focus between the form fields
func (m *FormModel) setFocus(focus int) {
	if focus >= fieldCount {
		focus = fieldCount - 1
	}
	m.Focus = focus

	m.NameInput.Blur()
	m.HostInput.Blur()
	switch focus {
	case fieldName:
		m.NameInput.Focus()
	case fieldHost:
		m.HostInput.Focus()
	}
}

// updateInputs routes a message to the focused text input and starts a new
// validation cycle when the host value settles on something new.
func (m FormModel) updateInputs(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd
	var cmd tea.Cmd

	m.NameInput, cmd = m.NameInput.Update(msg)
	cmds = append(cmds, cmd)
	m.HostInput, cmd = m.HostInput.Update(msg)
	cmds = append(cmds, cmd)

	host := serverurl.HostFromURL(m.HostInput.Value())
	if host != m.lastRequested {
		m.Host = host
		m.URL = serverurl.URLFromHost(host)
		m.Status = validation.StatusNone
		m.Result = validation.Result{}
		m.CycleActive = true
		m.lastRequested = host
		m.validator.Request(host)
	}

	return m, tea.Batch(cmds...)
}

// resolveValidation applies one resolved validation cycle to the form
func (m FormModel) resolveValidation(ev validation.Event) (tea.Model, tea.Cmd) {
	// The validator already discards stale cycles; this guards against a
	// resolution racing a programmatic input rewrite.
	if ev.Host != m.lastRequested {
		return m, listenForValidation(m.validator)
	}

	m.CycleActive = false
	m.Result = ev.Result
	m.Status = ev.Result.Status

	// A corrected canonical URL replaces the working host, URL and,
	// when the user never set one, the display name.
	if corrected := ev.Result.ValidatedURL; corrected != "" {
		newHost := serverurl.HostFromURL(corrected)
		oldHost := m.Host
		m.URL = corrected
		if newHost != "" && newHost != m.Host {
			m.Host = newHost
			m.lastRequested = newHost
			m.HostInput.SetValue(newHost)
			name := strings.TrimSpace(m.NameInput.Value())
			if name == "" || name == oldHost {
				m.NameInput.SetValue(newHost)
			}
		}
	}

	return m, listenForValidation(m.validator)
}

// canSave evaluates the save gate for the current form state
func (m FormModel) canSave() bool {
	return validation.CanSave(validation.SaveState{
		Host:             m.Host,
		Pending:          m.CycleActive || m.validator.InFlight(),
		Status:           m.Status,
		VersionConfirmed: m.Result.ServerVersion != "",
	})
}

// saveServer persists the form into the registry
func (m FormModel) saveServer() tea.Cmd {
	registry := m.Registry
	id := m.EditID

	name := strings.TrimSpace(m.NameInput.Value())
	if name == "" {
		name = m.Host
	}
	host, url, version := m.Host, m.URL, m.Result.ServerVersion

	return func() tea.Msg {
		if id == "" {
			newID, _ := registry.AddServer(name, host, url)
			id = newID
		} else if server := registry.GetServer(id); server != nil {
			server.Name = name
			server.Host = host
			server.URL = url
		}
		if version != "" {
			registry.UpdateValidation(id, version)
		}
		return saveCompleteMsg{id: id, err: registry.Save()}
	}
}

// View renders the form screen
func (m FormModel) View() string {
	var b strings.Builder

	if m.EditID != "" {
		b.WriteString(RenderTitle("Edit Server"))
	} else {
		b.WriteString(RenderTitle("Add Server"))
	}
	b.WriteString("\n")

	b.WriteString(m.renderField("Name", m.NameInput.View(), m.Focus == fieldName))
	b.WriteString("\n")
	b.WriteString(m.renderField("Server", m.HostInput.View(), m.Focus == fieldHost))

	if m.URL != "" {
		b.WriteString("  ")
		b.WriteString(RenderSubtitle(m.URL))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(m.renderStatusLine())
	b.WriteString("\n\n")
	b.WriteString(m.renderSaveButton())
	b.WriteString("\n")

	if m.SaveErr != nil {
		b.WriteString("\n  ")
		b.WriteString(RenderError(fmt.Sprintf("Save failed: %v", m.SaveErr)))
		b.WriteString("\n")
	}

	helpText := m.Help.View(m.Keys)
	return RenderApplicationContainer(b.String(), helpText, m.Width, m.Height)
}

// renderField renders one labelled input row
func (m FormModel) renderField(label, input string, focused bool) string {
	style := BlurredInputStyle
	if focused {
		style = FocusedInputStyle
	}
	return fmt.Sprintf("  %s\n  %s\n", style.Render(label), input)
}

// renderStatusLine renders the inline validation status for the host field
func (m FormModel) renderStatusLine() string {
	if m.CycleActive || m.validator.InFlight() {
		return fmt.Sprintf("  %s Validating...", m.Spinner.View())
	}

	switch {
	case m.Status == validation.StatusNone:
		return "  " + RenderSubtitle("Enter the server name, e.g. \"yourteam\"")
	case m.Status == validation.StatusOK:
		msg := m.Status.Message()
		if m.Result.ServerVersion != "" {
			msg += fmt.Sprintf(" (v%s)", m.Result.ServerVersion)
		}
		return "  " + RenderSuccess(msg)
	case m.Status.Blocking():
		return "  " + RenderError(m.Status.Message())
	default:
		return "  " + RenderWarning(m.Status.Message()+" (you can still connect)")
	}
}

// renderSaveButton renders the gated save action
func (m FormModel) renderSaveButton() string {
	label := "Save"
	if m.Saving {
		label = "Saving..."
	}

	switch {
	case !m.canSave():
		return "  " + DisabledButtonStyle.Render(label)
	case m.Focus == fieldSave:
		return "  " + FocusedButtonStyle.Render(label)
	default:
		return "  " + ButtonStyle.Render(label)
	}
}
