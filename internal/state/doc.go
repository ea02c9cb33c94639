// Package state holds the roster of known apps and the selected app's detail.
//
// # Overview
//
// Two stores sit between the backend gateway and the UI:
//
//   - Roster: every AppSummary the backend knows about, replaced wholesale on
//     each refresh
//   - Detail: the one selected AppDetail plus, transiently, the last topic
//     modeling result for it
//
// Both are safe for concurrent use. Reads go through Snapshot, which returns
// defensive copies, so a render never observes a half-applied update.
//
// # Update Semantics
//
// Roster.Refresh mirrors the classic snapshot store:
//
//	// Success: replace the collection
//	roster.Update(apps, nil)
//	→ snapshot.Apps = apps
//	→ snapshot.LastError = nil
//
//	// Error: keep old data, record error
//	roster.Update(nil, err)
//	→ snapshot.Apps = <unchanged>
//	→ snapshot.LastError = err
//
// Refreshes are sequenced. If two are in flight and the older one resolves
// last, its result is discarded.
//
// # Selection Tokens
//
// Detail hands out a Token on every selection change (Begin, Set, Clear).
// Load, ReplaceIf, and SetTopicsIf apply their result only when the token they
// were started with is still current:
//
//	tokA := detail.Begin("com.a")
//	tokB := detail.Begin("com.b")
//	detail.Load(ctx, tokB, "com.b") // applied
//	detail.Load(ctx, tokA, "com.a") // stale, dropped silently
//
// Topic results are not persisted by the backend and are lost on the next
// selection, ingest, or delete. Analysis results are persisted and survive a
// re-fetch.
package state
