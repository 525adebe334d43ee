// Package validation turns user edits of a server address into a single
// settled verdict about the server behind it.
//
// Edits arrive faster than the network can answer, so the Validator
// debounces them: each edit supersedes the previous cycle, and only the
// most recently issued request may update visible state. Every cycle
// carries a monotonically increasing token that is compared at resolution
// time; a remote response belonging to a superseded cycle is discarded
// before it reaches the caller. Remote failures and timeouts never
// propagate as errors - they resolve to StatusNotMattermost.
//
// The package has three layers:
//
//   - Status, Result and CheckHostFormat: the pure classification model.
//   - Validator: the debounce/staleness engine, fed by any Remote.
//   - Client: the production Remote, which identifies a chat server via
//     its ping endpoint and optionally probes its websocket channel.
//
// CanSave folds the current form state into the single question the UI
// asks: may the user save this server right now?
package validation
