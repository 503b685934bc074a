package tasks

import (
	"fmt"

	"github.com/mlocker/mlx/internal/models"
)

// ProgressUpdate represents a progress event during a long-running operation.
//
// Used to send real-time updates to the CLI or UI layer for display.
type ProgressUpdate struct {
	Phase   Phase  // Operation phase
	Step    int    // Current step number within phase
	Total   int    // Total steps in this phase
	Message string // Human-readable message for display
	Data    any    // Optional phase-specific data for advanced UIs
}

// Operation phase enumeration
type Phase int

const (
	ScanLocal Phase = iota
	FetchRemote
	Compare
	Upload
	Download
)

func (p Phase) String() string {
	switch p {
	case ScanLocal:
		return "scan_local"
	case FetchRemote:
		return "fetch_remote"
	case Compare:
		return "compare"
	case Upload:
		return "upload"
	case Download:
		return "download"
	default:
		return ""
	}
}

func scanLocalUpdate(paths []string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   ScanLocal,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Scanning %d local path(s)...", len(paths)),
	}
}

func scannedLocalUpdate(count int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   ScanLocal,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Found %d local songs", count),
	}
}

func fetchRemoteUpdate() ProgressUpdate {
	return ProgressUpdate{
		Phase:   FetchRemote,
		Step:    1,
		Total:   1,
		Message: "Fetching songs from the locker...",
	}
}

func fetchedRemoteUpdate(count int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   FetchRemote,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Found %d locker songs", count),
	}
}

func compareUpdate(missing int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   Compare,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("%d songs to transfer", missing),
	}
}

func uploadingUpdate(step, total int, path string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   Upload,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] Uploading: %s...", step, total, path),
	}
}

func uploadedUpdate(step, total int, res SongUploadResult) ProgressUpdate {
	return ProgressUpdate{
		Phase:   Upload,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] ✓ %s (%s)", step, total, res.Path, res.Status),
		Data:    res,
	}
}

func uploadFailedUpdate(step, total int, res SongUploadResult) ProgressUpdate {
	return ProgressUpdate{
		Phase:   Upload,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] ✗ %s: %s", step, total, res.Path, res.Error),
		Data:    res,
	}
}

func downloadingUpdate(step, total int, song models.Song) ProgressUpdate {
	return ProgressUpdate{
		Phase:   Download,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] %s - %s", step, total, song.Artist, song.Title),
	}
}

func downloadedUpdate(step, total int, res SongDownloadResult) ProgressUpdate {
	return ProgressUpdate{
		Phase:   Download,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] ✓ %s", step, total, res.Path),
		Data:    res,
	}
}

func downloadFailedUpdate(step, total int, res SongDownloadResult) ProgressUpdate {
	return ProgressUpdate{
		Phase:   Download,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] ✗ %s: %s", step, total, res.SongID, res.Error),
		Data:    res,
	}
}
