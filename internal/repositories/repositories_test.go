package repositories

import (
	"database/sql"
	"testing"

	"github.com/mlocker/mlx/internal/models"
	"github.com/mlocker/mlx/internal/shared"
)

// newTestDB opens an in-memory database with the full schema applied.
func newTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := shared.NewDatabase(":memory:")
	if err != nil {
		t.Fatalf("opening database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	// In-memory SQLite is per-connection; a single connection keeps the
	// schema visible across queries.
	db.SetMaxOpenConns(1)

	if err := shared.RunMigrations(db); err != nil {
		t.Fatalf("running migrations: %v", err)
	}

	return db
}

func sampleSong() models.Song {
	return models.Song{
		ID:          "remote-1",
		Title:       "Apocalypse Please",
		Artist:      "Muse",
		Album:       "Absolution",
		AlbumArtist: "Muse",
		Genre:       "Rock",
		Date:        "2003",
		TrackNumber: 1,
		DiscNumber:  1,
	}
}

func TestNextSequence(t *testing.T) {
	db := newTestDB(t)

	first, err := NextSequence(db, "songs")
	if err != nil {
		t.Fatalf("NextSequence() error = %v", err)
	}

	second, err := NextSequence(db, "songs")
	if err != nil {
		t.Fatalf("NextSequence() error = %v", err)
	}

	if second != first+1 {
		t.Errorf("expected consecutive sequences, got %d then %d", first, second)
	}
}

func TestSongRepository(t *testing.T) {
	t.Run("Create and Get", func(t *testing.T) {
		repo := NewSongRepository(newTestDB(t))

		song := models.NewPersistedSong(0, "locker", "remote-1", sampleSong())
		if err := repo.Create(song); err != nil {
			t.Fatalf("Create() error = %v", err)
		}

		if song.ID() == "" {
			t.Error("expected generated ID")
		}
		if song.Sequence() == 0 {
			t.Error("expected generated sequence")
		}

		got, err := repo.Get(song.ID())
		if err != nil {
			t.Fatalf("Get() error = %v", err)
		}

		dto := got.Song()
		if dto.Title != "Apocalypse Please" || dto.TrackNumber != 1 || dto.AlbumArtist != "Muse" {
			t.Errorf("unexpected song %+v", dto)
		}
	})

	t.Run("GetByServiceID", func(t *testing.T) {
		repo := NewSongRepository(newTestDB(t))

		song := models.NewPersistedSong(0, "locker", "remote-1", sampleSong())
		if err := repo.Create(song); err != nil {
			t.Fatalf("Create() error = %v", err)
		}

		got, err := repo.GetByServiceID("locker", "remote-1")
		if err != nil {
			t.Fatalf("GetByServiceID() error = %v", err)
		}

		if got.ID() != song.ID() {
			t.Errorf("expected song %s, got %s", song.ID(), got.ID())
		}

		if _, err := repo.GetByServiceID("locker", "missing"); err == nil {
			t.Error("expected error for missing song")
		}
	})

	t.Run("Duplicate Service ID Rejected", func(t *testing.T) {
		repo := NewSongRepository(newTestDB(t))

		if err := repo.Create(models.NewPersistedSong(0, "locker", "remote-1", sampleSong())); err != nil {
			t.Fatalf("Create() error = %v", err)
		}

		if err := repo.Create(models.NewPersistedSong(0, "locker", "remote-1", sampleSong())); err == nil {
			t.Error("expected UNIQUE constraint error")
		}
	})

	t.Run("Update", func(t *testing.T) {
		repo := NewSongRepository(newTestDB(t))

		song := models.NewPersistedSong(0, "locker", "remote-1", sampleSong())
		if err := repo.Create(song); err != nil {
			t.Fatalf("Create() error = %v", err)
		}

		dto := song.Song()
		dto.Title = "Renamed"
		song.SetSong(dto)

		if err := repo.Update(song); err != nil {
			t.Fatalf("Update() error = %v", err)
		}

		got, err := repo.Get(song.ID())
		if err != nil {
			t.Fatalf("Get() error = %v", err)
		}
		if got.Song().Title != "Renamed" {
			t.Errorf("expected updated title, got %q", got.Song().Title)
		}
	})

	t.Run("Delete Hides Song", func(t *testing.T) {
		repo := NewSongRepository(newTestDB(t))

		song := models.NewPersistedSong(0, "locker", "remote-1", sampleSong())
		if err := repo.Create(song); err != nil {
			t.Fatalf("Create() error = %v", err)
		}

		if err := repo.Delete(song.ID()); err != nil {
			t.Fatalf("Delete() error = %v", err)
		}

		if _, err := repo.Get(song.ID()); err == nil {
			t.Error("expected soft-deleted song to be hidden")
		}

		if err := repo.Delete(song.ID()); err == nil {
			t.Error("expected error deleting twice")
		}
	})

	t.Run("List With Criteria", func(t *testing.T) {
		repo := NewSongRepository(newTestDB(t))

		first := sampleSong()
		second := sampleSong()
		second.ID = "remote-2"
		second.Artist = "The Beatles"

		if err := repo.Create(models.NewPersistedSong(0, "locker", first.ID, first)); err != nil {
			t.Fatal(err)
		}
		if err := repo.Create(models.NewPersistedSong(0, "locker", second.ID, second)); err != nil {
			t.Fatal(err)
		}

		all, err := repo.List(map[string]any{"service": "locker"})
		if err != nil {
			t.Fatalf("List() error = %v", err)
		}
		if len(all) != 2 {
			t.Errorf("expected 2 songs, got %d", len(all))
		}

		byArtist, err := repo.List(map[string]any{"artist": "Muse"})
		if err != nil {
			t.Fatalf("List() error = %v", err)
		}
		if len(byArtist) != 1 {
			t.Errorf("expected 1 song, got %d", len(byArtist))
		}
	})

	t.Run("DeleteAll", func(t *testing.T) {
		repo := NewSongRepository(newTestDB(t))

		if err := repo.Create(models.NewPersistedSong(0, "locker", "remote-1", sampleSong())); err != nil {
			t.Fatal(err)
		}

		count, err := repo.DeleteAll()
		if err != nil {
			t.Fatalf("DeleteAll() error = %v", err)
		}
		if count != 1 {
			t.Errorf("expected 1 cleared song, got %d", count)
		}

		all, err := repo.List(map[string]any{})
		if err != nil {
			t.Fatalf("List() error = %v", err)
		}
		if len(all) != 0 {
			t.Errorf("expected empty cache, got %d songs", len(all))
		}
	})
}

func TestSongCacheAdapter(t *testing.T) {
	repo := NewSongRepository(newTestDB(t))
	adapter := NewSongCacheAdapter(repo)

	t.Run("Caches Once", func(t *testing.T) {
		if err := adapter.CacheSong("locker", "remote-1", sampleSong()); err != nil {
			t.Fatalf("CacheSong() error = %v", err)
		}

		// Second call hits the dedupe path.
		if err := adapter.CacheSong("locker", "remote-1", sampleSong()); err != nil {
			t.Fatalf("CacheSong() duplicate error = %v", err)
		}

		all, err := repo.List(map[string]any{})
		if err != nil {
			t.Fatalf("List() error = %v", err)
		}
		if len(all) != 1 {
			t.Errorf("expected 1 cached song, got %d", len(all))
		}
	})

	t.Run("CacheSongs Skips Local Songs", func(t *testing.T) {
		local := sampleSong()
		local.ID = ""
		local.Path = "/music/song.mp3"

		remote := sampleSong()
		remote.ID = "remote-2"

		cached := adapter.CacheSongs("locker", []models.Song{local, remote})
		if cached != 1 {
			t.Errorf("expected 1 cached song, got %d", cached)
		}
	})
}

func TestSyncRunRepository(t *testing.T) {
	t.Run("Lifecycle", func(t *testing.T) {
		repo := NewSyncRunRepository(newTestDB(t))

		run := models.NewSyncRun(0, "up", 10)
		if err := repo.Create(run); err != nil {
			t.Fatalf("Create() error = %v", err)
		}

		got, err := repo.Get(run.ID())
		if err != nil {
			t.Fatalf("Get() error = %v", err)
		}
		if got.Status() != models.SyncStatusRunning || got.Total() != 10 {
			t.Errorf("unexpected run %+v", got)
		}

		run.Complete(7, 1, 2, 0)
		if err := repo.Update(run); err != nil {
			t.Fatalf("Update() error = %v", err)
		}

		got, err = repo.Get(run.ID())
		if err != nil {
			t.Fatalf("Get() error = %v", err)
		}
		if got.Status() != models.SyncStatusCompleted || got.Uploaded() != 7 || got.Existing() != 2 {
			t.Errorf("unexpected run after complete: status=%s uploaded=%d existing=%d", got.Status(), got.Uploaded(), got.Existing())
		}
	})

	t.Run("Failed Run Keeps Error", func(t *testing.T) {
		repo := NewSyncRunRepository(newTestDB(t))

		run := models.NewSyncRun(0, "down", 3)
		if err := repo.Create(run); err != nil {
			t.Fatalf("Create() error = %v", err)
		}

		run.Fail("server unreachable")
		if err := repo.Update(run); err != nil {
			t.Fatalf("Update() error = %v", err)
		}

		got, err := repo.Get(run.ID())
		if err != nil {
			t.Fatalf("Get() error = %v", err)
		}
		if got.Status() != models.SyncStatusFailed || got.ErrorMsg() != "server unreachable" {
			t.Errorf("unexpected run %v %q", got.Status(), got.ErrorMsg())
		}
	})

	t.Run("List By Direction", func(t *testing.T) {
		repo := NewSyncRunRepository(newTestDB(t))

		up := models.NewSyncRun(0, "up", 1)
		down := models.NewSyncRun(0, "down", 1)
		if err := repo.Create(up); err != nil {
			t.Fatal(err)
		}
		if err := repo.Create(down); err != nil {
			t.Fatal(err)
		}

		runs, err := repo.List(map[string]any{"direction": "down"})
		if err != nil {
			t.Fatalf("List() error = %v", err)
		}
		if len(runs) != 1 || runs[0].Direction() != "down" {
			t.Errorf("unexpected runs %v", runs)
		}

		all, err := repo.List(map[string]any{})
		if err != nil {
			t.Fatalf("List() error = %v", err)
		}
		if len(all) != 2 || all[0].Direction() != "down" {
			t.Errorf("expected newest run first, got %v", all)
		}
	})

	t.Run("Invalid Direction Rejected", func(t *testing.T) {
		repo := NewSyncRunRepository(newTestDB(t))

		if err := repo.Create(models.NewSyncRun(0, "sideways", 1)); err == nil {
			t.Error("expected validation error")
		}
	})
}
