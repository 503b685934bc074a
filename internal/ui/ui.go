package ui

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/mlocker/mlx/internal/library"
	"github.com/mlocker/mlx/internal/services"
	"github.com/mlocker/mlx/internal/shared"
	"github.com/mlocker/mlx/internal/tasks"
)

// ViewState represents the current view in the TUI.
type ViewState int

const (
	SongListView ViewState = iota
	ConfirmView
	SyncView
	ResultView
)

// Model represents the TUI application state.
type Model struct {
	ctx          context.Context
	view         ViewState
	engine       *tasks.LockerEngine
	logger       *log.Logger
	opts         tasks.UpOpts
	width        int
	height       int
	songList     list.Model
	scan         library.ScanResult
	progressChan chan tasks.ProgressUpdate
	progress     tasks.ProgressUpdate
	result       *tasks.UpResult
	err          error
	help         help.Model
	keys         keyMap
}

// NewModel creates a new TUI model with the provided dependencies.
//
// The upload run is driven by opts; the initial scan uses opts.Paths and
// opts.Scan so the songs shown are exactly the songs the run would upload.
func NewModel(ctx context.Context, engine *tasks.LockerEngine, logger *log.Logger, opts tasks.UpOpts) *Model {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}

	return &Model{
		ctx:    ctx,
		view:   SongListView,
		engine: engine,
		logger: logger,
		opts:   opts,
		help:   help.New(),
		keys:   newKeyMap(),
	}
}

// Init initializes the TUI by scanning the local library.
func (m *Model) Init() tea.Cmd {
	return m.loadSongs()
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		if m.songList.Width() == 0 {
			m.songList.SetSize(msg.Width-4, msg.Height-8)
		}
		return m, nil

	case tea.KeyMsg:
		switch m.view {
		case SongListView:
			return m.handleSongListKeys(msg)
		case ConfirmView:
			return m.handleConfirmKeys(msg)
		case ResultView:
			return m.handleResultKeys(msg)
		}

	case songsLoadedMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, tea.Quit
		}
		m.scan = msg.result
		m.songList = newSongList(msg.result.Matched, m.width, m.height)
		return m, nil

	case progressUpdateMsg:
		m.progress = tasks.ProgressUpdate(msg)
		return m, m.waitForProgress()

	case syncCompleteMsg:
		m.result = msg.result
		m.err = msg.err
		m.view = ResultView
		// The startSync goroutine owns the channel and has already closed it.
		m.progressChan = nil
		return m, nil
	}

	return m.updateList(msg)
}

// View renders the UI based on the current view state.
func (m *Model) View() string {
	if m.err != nil && m.view != ResultView {
		return styles.err.Render(fmt.Sprintf("Error: %v\n\nPress q to quit", m.err))
	}

	switch m.view {
	case SongListView:
		return m.renderSongList()
	case ConfirmView:
		return m.renderConfirm()
	case SyncView:
		return m.renderSync()
	case ResultView:
		return m.renderResult()
	default:
		return ""
	}
}

func (m *Model) handleSongListKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "enter":
		m.view = ConfirmView
		return m, nil
	}

	var cmd tea.Cmd
	m.songList, cmd = m.songList.Update(msg)
	return m, cmd
}

func (m *Model) handleConfirmKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c", "n", "esc":
		m.view = SongListView
		return m, nil
	case "y":
		m.view = SyncView
		return m, m.startSync()
	}
	return m, nil
}

func (m *Model) handleResultKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "r":
		m.view = SongListView
		m.result = nil
		m.err = nil
		return m, m.loadSongs()
	}
	return m, nil
}

func (m *Model) updateList(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	if m.view == SongListView {
		m.songList, cmd = m.songList.Update(msg)
	}
	return m, cmd
}

func (m *Model) loadSongs() tea.Cmd {
	return func() tea.Msg {
		result, err := library.LoadSongs(m.logger, m.opts.Paths, m.opts.Scan)
		return songsLoadedMsg{result: result, err: err}
	}
}

func (m *Model) startSync() tea.Cmd {
	m.progressChan = make(chan tasks.ProgressUpdate, 50)

	go func() {
		result, err := m.engine.Up(m.ctx, m.progressChan, m.opts)
		m.result = result
		m.err = err
		close(m.progressChan)
	}()

	return m.waitForProgress()
}

func (m *Model) waitForProgress() tea.Cmd {
	return func() tea.Msg {
		if m.progressChan == nil {
			return syncCompleteMsg{result: m.result, err: m.err}
		}

		update, ok := <-m.progressChan
		if !ok {
			return syncCompleteMsg{result: m.result, err: m.err}
		}
		return progressUpdateMsg(update)
	}
}

func (m *Model) renderSongList() string {
	helpKeys := []key.Binding{m.keys.enter, m.keys.quit}
	helpView := m.help.ShortHelpView(helpKeys)

	var counts string
	if len(m.scan.Filtered) > 0 || len(m.scan.Excluded) > 0 {
		counts = styles.help.Render(fmt.Sprintf("filtered %d, excluded %d", len(m.scan.Filtered), len(m.scan.Excluded)))
		counts = "\n" + counts
	}

	return fmt.Sprintf("%s%s\n\n%s", m.songList.View(), counts, helpView)
}

func (m *Model) renderConfirm() string {
	title := styles.title.Render(fmt.Sprintf("Upload %d songs to the locker?", len(m.scan.Matched)))
	info := fmt.Sprintf("\nRoots: %d\nSongs: %d\n", len(m.opts.Paths), len(m.scan.Matched))
	if m.opts.DryRun {
		info += styles.warn.Render("Dry run: nothing will be transferred") + "\n"
	}

	helpKeys := []key.Binding{m.keys.yes, m.keys.no, m.keys.quit}
	helpView := m.help.ShortHelpView(helpKeys)

	return fmt.Sprintf("%s\n%s\n%s", title, info, helpView)
}

func (m *Model) renderSync() string {
	title := styles.title.Render("Uploading Library")

	var phase string
	switch m.progress.Phase {
	case tasks.ScanLocal:
		phase = "Scanning local library..."
	case tasks.FetchRemote:
		phase = "Fetching locker library..."
	case tasks.Compare:
		phase = "Comparing libraries..."
	case tasks.Upload:
		phase = fmt.Sprintf("Uploading songs (%d/%d)", m.progress.Step, m.progress.Total)
	default:
		phase = "Processing..."
	}

	return fmt.Sprintf("%s\n\n%s\n%s", title, phase, m.progress.Message)
}

func (m *Model) renderResult() string {
	if m.err != nil {
		return styles.err.Render(fmt.Sprintf("Upload failed: %v\n\nPress r to retry, q to quit", m.err))
	}

	if m.result == nil {
		return styles.err.Render("No result available\n\nPress r to retry, q to quit")
	}

	title := styles.ok.Render("✓ Upload Complete!")
	if m.result.DryRun {
		title = styles.warn.Render("Dry Run Complete")
	}

	info := fmt.Sprintf(
		"\nLocal songs: %d\nMissing from locker: %d\nUploaded: %d\nMatched: %d\nAlready present: %d\nRejected: %d\nFailed: %d",
		m.result.TotalLocal,
		len(m.result.ToUpload),
		m.result.Uploaded,
		m.result.Matched,
		m.result.AlreadyExists,
		m.result.NotUploaded,
		m.result.Failed,
	)

	var failed string
	if m.result.Failed > 0 {
		failed = fmt.Sprintf("\n\n%s", styles.warn.Render(fmt.Sprintf("Failed to upload %d songs:", m.result.Failed)))
		for _, res := range m.result.Results {
			if res.Status == services.StatusFailed {
				failed += fmt.Sprintf("\n  • %s: %s", res.Path, res.Error)
			}
		}
	}

	helpKeys := []key.Binding{m.keys.rescan, m.keys.quit}
	helpView := m.help.ShortHelpView(helpKeys)

	return fmt.Sprintf("%s\n%s%s\n\n%s", title, info, failed, helpView)
}
