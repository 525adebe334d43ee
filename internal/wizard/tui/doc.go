// Package tui implements the terminal user interface for the chatcfg wizard.
//
// The wizard is an interactive, full-screen TUI for managing configured chat
// servers. Built using the Bubble Tea framework, it follows the Elm
// architecture with immutable state updates and a clean Model-Update-View
// pattern.
//
// # Architecture
//
// The TUI is organized into three screens routed by AppModel:
//   - Servers: list configured servers, scan the LAN for self-hosted ones
//   - Form: add or edit a server, with live validation of the address
//   - Permissions: toggle what a configured server may ask of the machine
//
// All screens render through a unified container (RenderApplicationContainer)
// for consistent layout with header, content area, and context-sensitive
// footer.
//
// # Validation flow
//
// The form screen owns a validation.Validator. Every keystroke in the server
// field normalizes the input and hands it to the validator, which debounces
// and resolves it against the remote endpoint; resolved cycles arrive back as
// Bubble Tea messages via a listening command. The save action stays disabled
// until the current value passes the save gate.
package tui
