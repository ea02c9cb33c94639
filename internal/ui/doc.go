// Package ui provides the terminal user interface for reviewdeck.
//
// # Architecture Overview
//
// The UI is a Bubble Tea program with a two-pane layout: the app roster on
// the left and the selected app's detail on the right. A notification banner
// sits under the header and a key hint or prompt line sits at the bottom.
//
// # Package Structure
//
//   - app.go: Model, Update loop, key handling, and the Run entry point
//   - messages.go: commands that run backend work off the Update loop
//   - layout.go: pane sizing, header, banner, and footer
//   - roster.go: app list rendering
//   - detail.go: app info, analysis, topics, and reviews
//   - scatter.go: character-grid scatter plot of projected reviews
//   - help.go: full key reference overlay
//   - keys.go, theme.go: bindings and color palettes
//
// # Concurrency
//
// Update never blocks. Operations are started with ops.Controller.Begin inside
// Update, so the busy state is visible immediately, and the backend call runs
// in a tea.Cmd whose result comes back as a message. The model holds copies of
// the stores (snapshots) and refreshes them on every tick and result message.
//
// # Key Bindings
//
//   - j/k, g/G, enter: move through the roster and open an app
//   - a: collect reviews for a new app ID
//   - A: analyze the open app; t: topic modeling; d: delete (asks first)
//   - c: close the open app; r: refresh the roster
//   - ] and [: step through the topic plot, showing each review snippet
//   - tab: switch pane; T: cycle theme; ?: help; q: quit
package ui
