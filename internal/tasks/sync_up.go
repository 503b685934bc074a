package tasks

import (
	"context"
	"fmt"
	"os"
	"sync"

	"golang.org/x/time/rate"

	"github.com/mlocker/mlx/internal/library"
	"github.com/mlocker/mlx/internal/models"
	"github.com/mlocker/mlx/internal/services"
)

// UpOpts contains configuration for upload runs.
type UpOpts struct {
	Paths           []string               // Local roots to scan
	Scan            library.ScanOptions    // Depth, exclusions, and metadata filter
	Upload          services.UploadOptions // Matching and transcode settings
	DeleteOnSuccess bool                   // Remove local files the locker holds after the run
	DryRun          bool                   // Report what would upload without transferring
	NumWorkers      int                    // Concurrent workers (default: 5)
	RateLimit       float64                // Requests per second (default: 5)
}

type uploadJob struct {
	step int
	song models.Song
}

// Up uploads local songs missing from the locker.
//
// This method implements a worker pool pattern to efficiently upload many songs.
// It respects API rate limits, handles partial failures gracefully, and classifies
// every song as uploaded, matched, already present, rejected, or failed.
func (e *LockerEngine) Up(ctx context.Context, progress chan<- ProgressUpdate, opts UpOpts) (*UpResult, error) {
	if opts.NumWorkers <= 0 {
		opts.NumWorkers = 5
	}
	if opts.NumWorkers > 10 {
		opts.NumWorkers = 10
	}
	if opts.RateLimit <= 0 {
		opts.RateLimit = 5.0
	}

	local, err := e.localSongs(progress, opts.Paths, opts.Scan)
	if err != nil {
		return nil, err
	}

	remote, err := e.remoteSongs(ctx, progress, true, true, library.Filter{})
	if err != nil {
		return nil, err
	}

	toUpload := library.Compare(local, remote)
	e.sendProgress(progress, compareUpdate(len(toUpload)))

	result := &UpResult{
		TotalLocal: len(local),
		ToUpload:   toUpload,
		DryRun:     opts.DryRun,
	}

	if opts.DryRun || len(toUpload) == 0 {
		return result, nil
	}

	run := e.beginRun("up", len(toUpload))

	limiter := rate.NewLimiter(rate.Limit(opts.RateLimit), 1)

	jobs := make(chan uploadJob, len(toUpload))
	results := make(chan SongUploadResult, len(toUpload))

	var wg sync.WaitGroup
	for i := 0; i < opts.NumWorkers; i++ {
		wg.Add(1)
		go e.uploadWorker(ctx, &wg, limiter, jobs, results, opts)
	}

	for i, song := range toUpload {
		e.sendProgress(progress, uploadingUpdate(i+1, len(toUpload), song.Path))
		jobs <- uploadJob{step: i + 1, song: song}
	}
	close(jobs)

	go func() {
		wg.Wait()
		close(results)
	}()

	completed := 0
	total := len(toUpload)
	for res := range results {
		completed++
		result.Results = append(result.Results, res)

		switch res.Status {
		case services.StatusUploaded:
			result.Uploaded++
		case services.StatusMatched:
			result.Matched++
		case services.StatusAlreadyExists:
			result.AlreadyExists++
		case services.StatusNotUploaded:
			result.NotUploaded++
		default:
			result.Failed++
		}

		if res.Status == services.StatusFailed || res.Status == services.StatusNotUploaded {
			e.sendProgress(progress, uploadFailedUpdate(completed, total, res))
		} else {
			e.sendProgress(progress, uploadedUpdate(completed, total, res))
		}
	}

	if err := ctx.Err(); err != nil {
		e.failRun(run, err)
		return result, fmt.Errorf("upload interrupted: %w", err)
	}

	e.finishRun(run, result.Uploaded, result.Matched, result.AlreadyExists, result.Failed+result.NotUploaded)

	return result, nil
}

// uploadWorker is a worker goroutine that uploads songs from the jobs channel.
func (e *LockerEngine) uploadWorker(
	ctx context.Context,
	wg *sync.WaitGroup,
	limiter *rate.Limiter,
	jobs <-chan uploadJob,
	results chan<- SongUploadResult,
	opts UpOpts,
) {
	defer wg.Done()

	for job := range jobs {
		select {
		case <-ctx.Done():
			results <- SongUploadResult{
				Path:   job.song.Path,
				Status: services.StatusFailed,
				Error:  ctx.Err().Error(),
			}
			continue
		default:
		}

		if err := limiter.Wait(ctx); err != nil {
			results <- SongUploadResult{
				Path:   job.song.Path,
				Status: services.StatusFailed,
				Error:  err.Error(),
			}
			continue
		}

		results <- e.uploadSingle(ctx, job.song, opts)
	}
}

// uploadSingle uploads one song and applies delete-on-success.
func (e *LockerEngine) uploadSingle(ctx context.Context, song models.Song, opts UpOpts) SongUploadResult {
	res, err := e.manager.Upload(ctx, song.Path, opts.Upload)
	if err != nil {
		return SongUploadResult{
			Path:   song.Path,
			Status: services.StatusFailed,
			Error:  err.Error(),
		}
	}

	result := SongUploadResult{
		Path:   song.Path,
		Status: res.Status,
		SongID: res.SongID,
	}
	if res.Status == services.StatusNotUploaded {
		result.Error = res.Reason
	}

	// Songs the locker already holds count as synced for deletion.
	if opts.DeleteOnSuccess && res.Success() {
		if err := os.Remove(song.Path); err != nil {
			e.logger.Warn("Failed to remove local file", "path", song.Path, "error", err)
		} else {
			result.Deleted = true
		}
	}

	return result
}
