// Package ops runs the user-triggered operations (Ingest, Analyze, Delete,
// TopicModel) and tracks their state.
//
// Every (app id, kind) pair has an OperationStatus that moves
// Idle -> Running -> Succeeded | Failed and back to Idle when the next
// operation on that app begins. Begin refuses to start anything on an app
// that already has a Running kind and returns ErrBusy instead; the request is
// simply never issued.
//
// A single Notification is cleared the moment an operation begins and set to
// exactly one Success or Error value when it settles. Error text is the
// backend's detail when it sent one, else a fixed message per kind.
//
// Success side effects:
//
//   - Ingest: the crawled app becomes the selection, then the roster refreshes
//   - Analyze: the app is re-fetched once and replaces the detail if it is
//     still selected
//   - Delete: the detail is cleared if it shows the app, then the roster
//     refreshes
//   - TopicModel: the result is attached to the detail if it is still selected
//
// A failed operation touches nothing but its status and the notification.
//
// Begin is meant to be called from the UI event loop and Run from a tea.Cmd;
// Do combines them for the command-line subcommands.
package ops
