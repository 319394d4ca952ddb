// Package planner handles the planning phase of frame renumbering.
//
// Hosts expose no way to rename a set of layers simultaneously, so a shift of
// frame numbers is planned first as a pure mapping from current to target
// names. The planner detects every would-be collision before anything is
// mutated and produces the temporary names used by the two-pass apply.
//
// Key responsibilities:
//   - Generate RenamePlan with ordered renames
//   - Detect conflicts (occupied targets, duplicate sources, negative numbers)
//   - Produce collision-free temporary names for the staging pass
package planner
