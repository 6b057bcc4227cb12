package repository

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/bassista/go_notes/internal/logger"
	"github.com/fsnotify/fsnotify"
	"github.com/go-playground/validator/v10"
)

const watchDebounce = 200 * time.Millisecond

// JSONRepository keeps all notes in a single JSON array on disk.
// Every operation reads the whole file; every save rewrites it.
type JSONRepository struct {
	path      string
	dir       string
	base      string
	validator *validator.Validate
	mu        sync.Mutex
}

var _ NoteStore = (*JSONRepository)(nil)
var _ Watcher = (*JSONRepository)(nil)

// NewJSONRepository creates a repository for the given JSON file path.
// When the file is missing, its parent directory is created and the file is
// initialized with an empty array.
func NewJSONRepository(path string) (*JSONRepository, error) {
	if path == "" {
		return nil, errors.New("notes file path is required")
	}

	dir := filepath.Dir(path)
	base := filepath.Base(path)
	if dir == "" || dir == "." {
		dir = "."
	}

	r := &JSONRepository{path: path, dir: dir, base: base, validator: validator.New()}
	if err := r.init(); err != nil {
		return nil, err
	}
	return r, nil
}

// Path returns the location of the backing file.
func (r *JSONRepository) Path() string {
	return r.path
}

func (r *JSONRepository) init() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, err := os.Stat(r.path)
	if err == nil {
		return nil
	}
	if !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("stat notes file: %w", err)
	}

	if err := os.MkdirAll(r.dir, 0o755); err != nil {
		return fmt.Errorf("create notes dir: %w", err)
	}
	logger.WithComponent("json-repo").Infof("initializing empty notes file: %s", r.path)
	return r.saveUnlocked([]Note{})
}

// List returns every stored note in file order.
func (r *JSONRepository) List(ctx context.Context) ([]Note, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.loadUnlocked()
}

// Get returns the first note with the given id, or ErrNoteNotFound.
func (r *JSONRepository) Get(ctx context.Context, id string) (*Note, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	notes, err := r.loadUnlocked()
	if err != nil {
		return nil, err
	}
	for i := range notes {
		if notes[i].ID == id {
			return &notes[i], nil
		}
	}
	return nil, ErrNoteNotFound
}

// Save upserts the note by id and rewrites the file.
// The lock is held across the read-modify-write so concurrent saves in the
// same process cannot drop each other's entries.
func (r *JSONRepository) Save(ctx context.Context, note Note) (Note, error) {
	if err := ctx.Err(); err != nil {
		return Note{}, err
	}
	note = note.Clone()
	note.ApplyDefaults()
	if err := r.validator.Struct(&note); err != nil {
		return Note{}, fmt.Errorf("validate before save: %w", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	notes, err := r.loadUnlocked()
	if err != nil {
		return Note{}, err
	}

	if note.ensureID() {
		notes = append(notes, note)
	} else {
		replaced := false
		for i := range notes {
			if notes[i].ID == note.ID {
				notes[i] = note
				replaced = true
				break
			}
		}
		if !replaced {
			notes = append(notes, note)
		}
	}

	if err := r.saveUnlocked(notes); err != nil {
		return Note{}, err
	}
	return note, nil
}

// Close is a no-op; the file is opened per operation.
func (r *JSONRepository) Close() error {
	return nil
}

// loadUnlocked reads the JSON file without acquiring the lock (caller must hold it).
func (r *JSONRepository) loadUnlocked() ([]Note, error) {
	file, err := os.Open(r.path)
	if err != nil {
		return nil, fmt.Errorf("open notes file: %w", err)
	}
	defer file.Close()

	var notes []Note
	if err := json.NewDecoder(file).Decode(&notes); err != nil {
		return nil, fmt.Errorf("decode notes file: %w", err)
	}
	return applyDefaults(notes), nil
}

// saveUnlocked writes the notes atomically without acquiring the lock (caller must hold it).
func (r *JSONRepository) saveUnlocked(notes []Note) error {
	payload, err := encodeNotes(notes)
	if err != nil {
		return fmt.Errorf("marshal notes: %w", err)
	}

	tmpFile, err := os.CreateTemp(r.dir, r.base+".tmp-")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer func() {
		tmpFile.Close()
		os.Remove(tmpFile.Name())
	}()

	if _, err := tmpFile.Write(payload); err != nil {
		return fmt.Errorf("write temp file: %w", err)
	}

	if err := tmpFile.Sync(); err != nil {
		return fmt.Errorf("sync temp file: %w", err)
	}

	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}

	if err := os.Rename(tmpFile.Name(), r.path); err != nil {
		return fmt.Errorf("replace notes file: %w", err)
	}

	return nil
}

// encodeNotes renders the array indented, leaving HTML and non-ASCII text unescaped.
func encodeNotes(notes []Note) ([]byte, error) {
	if notes == nil {
		notes = []Note{}
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(notes); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// StartWatcher listens for changes to the notes file and re-parses it after debounce.
// It watches the parent directory (not the file) so atomic replace sequences (temp+rename)
// are still observed. The caller owns the provided context: cancel it to stop the
// goroutine and close the watcher.
func (r *JSONRepository) StartWatcher(ctx context.Context) error {
	onChange := r.MakeWatcherCallback()

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}

	if err := watcher.Add(r.dir); err != nil {
		watcher.Close()
		return fmt.Errorf("watch dir: %w", err)
	}

	go func() {
		defer watcher.Close()

		// debounce coalesces bursty fsnotify events (write+chmod/rename) into a single check.
		var debounce *time.Timer
		schedule := func() {
			if debounce != nil {
				debounce.Stop()
			}
			debounce = time.AfterFunc(watchDebounce, onChange)
		}

		for {
			select {
			case <-ctx.Done():
				if debounce != nil {
					debounce.Stop()
				}
				return
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if filepath.Base(event.Name) != r.base {
					continue
				}
				if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) != 0 {
					schedule()
				}
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				logger.WithComponent("json-repo").Warnf("watcher error: %v", err)
			}
		}
	}()

	return nil
}

// MakeWatcherCallback returns the callback run after the notes file changed on disk.
// It reports whether the file still parses, so a broken hand edit shows up in the
// logs before the next request fails on it.
func (r *JSONRepository) MakeWatcherCallback() func() {
	return func() {
		notes, err := r.List(context.Background())
		if err != nil {
			logger.WithComponent("json-repo").Errorf("notes file changed and cannot be read: %v", err)
			return
		}
		logger.WithComponent("json-repo").Debugf("notes file changed on disk, %d notes", len(notes))
	}
}
