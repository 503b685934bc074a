// package tasks implements sync operations between the local library and the music locker.
//
// The core abstraction is SyncEngine, which orchestrates uploads, downloads, and library comparisons.
// Operations emit progress updates via channels for non-blocking status reporting to CLI/UI layers.
package tasks

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"

	"github.com/mlocker/mlx/internal/library"
	"github.com/mlocker/mlx/internal/models"
	"github.com/mlocker/mlx/internal/services"
	"github.com/mlocker/mlx/internal/shared"
)

// SongCacher caches remote songs as they are fetched.
// Implemented by repositories.SongCacheAdapter.
type SongCacher interface {
	CacheSong(service, serviceID string, song models.Song) error
}

// RunRecorder persists sync run history.
// Implemented by repositories.SyncRunRepository.
type RunRecorder interface {
	Create(run *models.SyncRun) error
	Update(run *models.SyncRun) error
}

// SongUploadResult reports the outcome of uploading one local song.
type SongUploadResult struct {
	Path    string                `json:"path"`
	Status  services.UploadStatus `json:"status"`
	SongID  string                `json:"song_id,omitempty"`
	Error   string                `json:"error,omitempty"`
	Deleted bool                  `json:"deleted,omitempty"`
}

// SongDownloadResult reports the outcome of downloading one locker song.
type SongDownloadResult struct {
	SongID string `json:"song_id"`
	Title  string `json:"title,omitempty"`
	Artist string `json:"artist,omitempty"`
	Path   string `json:"path,omitempty"`
	Error  string `json:"error,omitempty"`
}

// UpResult contains all data from an upload run.
type UpResult struct {
	TotalLocal    int                `json:"total_local"`    // Local songs matched by the scan
	ToUpload      []models.Song      `json:"to_upload"`      // Songs missing from the locker
	Uploaded      int                `json:"uploaded"`       // Songs stored by the server
	Matched       int                `json:"matched"`        // Songs matched against the catalog
	AlreadyExists int                `json:"already_exists"` // Songs the locker already held
	NotUploaded   int                `json:"not_uploaded"`   // Songs the server rejected
	Failed        int                `json:"failed"`         // Songs that errored before a decision
	Results       []SongUploadResult `json:"results,omitempty"`
	DryRun        bool               `json:"dry_run,omitempty"`
}

// DownResult contains all data from a download run.
type DownResult struct {
	TotalRemote int                  `json:"total_remote"` // Locker songs after filtering
	ToDownload  []models.Song        `json:"to_download"`  // Songs missing locally
	Downloaded  int                  `json:"downloaded"`
	Failed      int                  `json:"failed"`
	Results     []SongDownloadResult `json:"results,omitempty"`
	DryRun      bool                 `json:"dry_run,omitempty"`
}

// DiffResult contains the differences between the local library and the locker.
type DiffResult struct {
	TotalLocal    int           `json:"total_local"`
	TotalRemote   int           `json:"total_remote"`
	MissingRemote []models.Song `json:"missing_remote"` // Local songs absent from the locker
	MissingLocal  []models.Song `json:"missing_local"`  // Locker songs absent locally
}

// DiffOpts configures a library comparison.
type DiffOpts struct {
	Paths     []string            // Local roots to scan
	Scan      library.ScanOptions // Depth, exclusions, and metadata filter
	Uploaded  bool                // Include uploaded locker songs
	Purchased bool                // Include purchased locker songs
}

// SyncEngine defines operations for syncing the local library with the locker.
type SyncEngine interface {
	// Up uploads local songs missing from the locker.
	Up(ctx context.Context, progress chan<- ProgressUpdate, opts UpOpts) (*UpResult, error)

	// Down downloads locker songs missing locally, rendering filepaths from
	// the configured template.
	Down(ctx context.Context, progress chan<- ProgressUpdate, opts DownOpts) (*DownResult, error)

	// Diff compares the local library against the locker in both directions.
	Diff(ctx context.Context, progress chan<- ProgressUpdate, opts DiffOpts) (*DiffResult, error)
}

// LockerEngine implements SyncEngine against the locker's manager scope.
type LockerEngine struct {
	manager  services.Uploader
	logger   *log.Logger
	cache    SongCacher
	recorder RunRecorder
}

// EngineOpts configures optional LockerEngine collaborators.
type EngineOpts struct {
	Logger   *log.Logger
	Cache    SongCacher
	Recorder RunRecorder
}

// NewLockerEngine creates a LockerEngine over the given manager service.
func NewLockerEngine(manager services.Uploader, opts EngineOpts) *LockerEngine {
	logger := opts.Logger
	if logger == nil {
		logger = shared.NewLogger(nil)
	}

	return &LockerEngine{
		manager:  manager,
		logger:   logger,
		cache:    opts.Cache,
		recorder: opts.Recorder,
	}
}

// sendProgress sends a progress update through the channel without blocking.
// Uses select with default to ensure progress reporting never blocks execution.
func (e *LockerEngine) sendProgress(progress chan<- ProgressUpdate, update ProgressUpdate) {
	if progress == nil {
		return
	}
	select {
	case progress <- update:
		// Sent successfully
	default:
		// Channel full or closed, skip this update
	}
}

// remoteSongs fetches and caches the locker library.
func (e *LockerEngine) remoteSongs(ctx context.Context, progress chan<- ProgressUpdate, uploaded, purchased bool, filter library.Filter) ([]models.Song, error) {
	if e.manager == nil {
		return nil, fmt.Errorf("%w: manager service not initialized", shared.ErrServiceUnavailable)
	}

	e.sendProgress(progress, fetchRemoteUpdate())

	songs, err := e.manager.LibrarySongs(ctx, uploaded, purchased)
	if err != nil {
		return nil, err
	}

	if e.cache != nil {
		for _, song := range songs {
			if song.ID == "" {
				continue
			}
			if err := e.cache.CacheSong(e.manager.Name(), song.ID, song); err != nil {
				e.logger.Warn("Failed to cache song", "id", song.ID, "error", err)
			}
		}
	}

	songs, filtered := library.Partition(songs, filter)
	if len(filtered) > 0 {
		e.logger.Info("Filtered locker songs", "filtered", len(filtered), "matched", len(songs))
	}

	e.sendProgress(progress, fetchedRemoteUpdate(len(songs)))

	return songs, nil
}

// localSongs scans the local roots.
func (e *LockerEngine) localSongs(progress chan<- ProgressUpdate, paths []string, scan library.ScanOptions) ([]models.Song, error) {
	e.sendProgress(progress, scanLocalUpdate(paths))

	result, err := library.LoadSongs(e.logger, paths, scan)
	if err != nil {
		return nil, err
	}

	e.sendProgress(progress, scannedLocalUpdate(len(result.Matched)))

	return result.Matched, nil
}

// Diff compares the local library against the locker in both directions.
func (e *LockerEngine) Diff(ctx context.Context, progress chan<- ProgressUpdate, opts DiffOpts) (*DiffResult, error) {
	local, err := e.localSongs(progress, opts.Paths, opts.Scan)
	if err != nil {
		return nil, err
	}

	remote, err := e.remoteSongs(ctx, progress, opts.Uploaded, opts.Purchased, opts.Scan.Filter)
	if err != nil {
		return nil, err
	}

	result := &DiffResult{
		TotalLocal:    len(local),
		TotalRemote:   len(remote),
		MissingRemote: library.Compare(local, remote),
		MissingLocal:  library.Compare(remote, local),
	}

	e.sendProgress(progress, compareUpdate(len(result.MissingRemote)+len(result.MissingLocal)))

	return result, nil
}

// beginRun opens a sync run record when a recorder is attached.
func (e *LockerEngine) beginRun(direction string, total int) *models.SyncRun {
	if e.recorder == nil {
		return nil
	}

	run := models.NewSyncRun(0, direction, total)
	if err := e.recorder.Create(run); err != nil {
		e.logger.Warn("Failed to record sync run", "error", err)
		return nil
	}

	return run
}

func (e *LockerEngine) finishRun(run *models.SyncRun, uploaded, matched, existing, failed int) {
	if run == nil {
		return
	}

	run.Complete(uploaded, matched, existing, failed)
	if err := e.recorder.Update(run); err != nil {
		e.logger.Warn("Failed to update sync run", "error", err)
	}
}

func (e *LockerEngine) failRun(run *models.SyncRun, err error) {
	if run == nil {
		return
	}

	run.Fail(err.Error())
	if updateErr := e.recorder.Update(run); updateErr != nil {
		e.logger.Warn("Failed to update sync run", "error", updateErr)
	}
}
