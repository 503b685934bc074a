// Package ui implements an interactive terminal interface using bubbletea's Elm architecture.
//
// The TUI provides a multi-view workflow for uploading the local library:
//  1. [SongListView] : Browse the scanned local songs
//  2. [ConfirmView] : Confirm the upload operation
//  3. [SyncView] : Monitor real-time progress updates
//  4. [ResultView] : Display the per-status upload breakdown
//
// The (view) [Model] implements bubbletea/Elm's standard Init/Update/View pattern.
// Progress updates flow through a channel from the sync engine, providing non-blocking status reporting during uploads.
//
// Keyboard navigation uses vim-style bindings (j/k, enter, esc, y/n, q) with contextual help displayed via charmbracelet/bubbles/help.
package ui
