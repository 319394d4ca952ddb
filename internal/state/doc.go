// Package state manages per-user session state.
//
// The session remembers which sprite document commands operate on when no
// --doc flag is given. It is persisted as JSON in ~/.spritedev/session.json.
//
// Key concepts:
//   - SessionState: The active document and when it was chosen
//   - StateStore: Interface for persisting and loading the session
package state
