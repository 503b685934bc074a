package tasks

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"golang.org/x/time/rate"

	"github.com/mlocker/mlx/internal/library"
	"github.com/mlocker/mlx/internal/models"
)

// DownOpts contains configuration for download runs.
type DownOpts struct {
	Paths      []string            // Local roots to compare against; empty downloads everything
	Scan       library.ScanOptions // Depth, exclusions, and metadata filter
	Template   string              // Filename template for downloaded songs
	OutputDir  string              // Directory the template renders under (default: current directory)
	Uploaded   bool                // Include uploaded locker songs
	Purchased  bool                // Include purchased locker songs
	DryRun     bool                // Report what would download without transferring
	NumWorkers int                 // Concurrent workers (default: 5)
	RateLimit  float64             // Requests per second (default: 5)
}

type downloadJob struct {
	step int
	song models.Song
}

// Down downloads locker songs missing from the local library.
//
// Remote songs pass through the metadata filter before comparison, and each
// download renders its filepath from the template, falling back to the
// server-suggested filename.
func (e *LockerEngine) Down(ctx context.Context, progress chan<- ProgressUpdate, opts DownOpts) (*DownResult, error) {
	if opts.NumWorkers <= 0 {
		opts.NumWorkers = 5
	}
	if opts.NumWorkers > 10 {
		opts.NumWorkers = 10
	}
	if opts.RateLimit <= 0 {
		opts.RateLimit = 5.0
	}

	remote, err := e.remoteSongs(ctx, progress, opts.Uploaded, opts.Purchased, opts.Scan.Filter)
	if err != nil {
		return nil, err
	}

	toDownload := remote
	if len(opts.Paths) > 0 {
		local, err := e.localSongs(progress, opts.Paths, library.ScanOptions{
			ExcludePatterns: opts.Scan.ExcludePatterns,
			MaxDepth:        opts.Scan.MaxDepth,
		})
		if err != nil {
			return nil, err
		}

		toDownload = library.Compare(remote, local)
	}

	e.sendProgress(progress, compareUpdate(len(toDownload)))

	result := &DownResult{
		TotalRemote: len(remote),
		ToDownload:  toDownload,
		DryRun:      opts.DryRun,
	}

	if opts.DryRun || len(toDownload) == 0 {
		return result, nil
	}

	run := e.beginRun("down", len(toDownload))

	limiter := rate.NewLimiter(rate.Limit(opts.RateLimit), 1)

	jobs := make(chan downloadJob, len(toDownload))
	results := make(chan SongDownloadResult, len(toDownload))

	var wg sync.WaitGroup
	for i := 0; i < opts.NumWorkers; i++ {
		wg.Add(1)
		go e.downloadWorker(ctx, &wg, limiter, jobs, results, opts)
	}

	for i, song := range toDownload {
		e.sendProgress(progress, downloadingUpdate(i+1, len(toDownload), song))
		jobs <- downloadJob{step: i + 1, song: song}
	}
	close(jobs)

	go func() {
		wg.Wait()
		close(results)
	}()

	completed := 0
	total := len(toDownload)
	for res := range results {
		completed++
		result.Results = append(result.Results, res)

		if res.Error == "" {
			result.Downloaded++
			e.sendProgress(progress, downloadedUpdate(completed, total, res))
		} else {
			result.Failed++
			e.sendProgress(progress, downloadFailedUpdate(completed, total, res))
		}
	}

	if err := ctx.Err(); err != nil {
		e.failRun(run, err)
		return result, fmt.Errorf("download interrupted: %w", err)
	}

	e.finishRun(run, result.Downloaded, 0, 0, result.Failed)

	return result, nil
}

// downloadWorker is a worker goroutine that downloads songs from the jobs channel.
func (e *LockerEngine) downloadWorker(
	ctx context.Context,
	wg *sync.WaitGroup,
	limiter *rate.Limiter,
	jobs <-chan downloadJob,
	results chan<- SongDownloadResult,
	opts DownOpts,
) {
	defer wg.Done()

	for job := range jobs {
		select {
		case <-ctx.Done():
			results <- SongDownloadResult{
				SongID: job.song.ID,
				Title:  job.song.Title,
				Artist: job.song.Artist,
				Error:  ctx.Err().Error(),
			}
			continue
		default:
		}

		if err := limiter.Wait(ctx); err != nil {
			results <- SongDownloadResult{
				SongID: job.song.ID,
				Title:  job.song.Title,
				Artist: job.song.Artist,
				Error:  err.Error(),
			}
			continue
		}

		results <- e.downloadSingle(ctx, job.song, opts)
	}
}

// downloadSingle downloads one song to its templated filepath.
func (e *LockerEngine) downloadSingle(ctx context.Context, song models.Song, opts DownOpts) SongDownloadResult {
	result := SongDownloadResult{
		SongID: song.ID,
		Title:  song.Title,
		Artist: song.Artist,
	}

	suggested, data, err := e.manager.Download(ctx, song.ID)
	if err != nil {
		result.Error = err.Error()
		return result
	}

	path := library.RenderTemplate(opts.Template, song, suggested)
	if opts.OutputDir != "" && !filepath.IsAbs(path) {
		path = filepath.Join(opts.OutputDir, path)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		result.Error = fmt.Sprintf("creating directory: %v", err)
		return result
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		result.Error = fmt.Sprintf("writing file: %v", err)
		return result
	}

	result.Path = path
	return result
}
