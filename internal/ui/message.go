package ui

import (
	"github.com/mlocker/mlx/internal/library"
	"github.com/mlocker/mlx/internal/tasks"
)

// songsLoadedMsg carries the result of the initial local scan.
type songsLoadedMsg struct {
	result library.ScanResult
	err    error
}

// progressUpdateMsg carries one engine progress update into the update loop.
type progressUpdateMsg tasks.ProgressUpdate

// syncCompleteMsg carries the final upload result once the engine returns.
type syncCompleteMsg struct {
	result *tasks.UpResult
	err    error
}
