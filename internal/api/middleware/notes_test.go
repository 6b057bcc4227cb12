package middleware

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"time"

	"github.com/bassista/go_notes/internal/api/controller"
	"github.com/bassista/go_notes/internal/repository"
	"github.com/gin-gonic/gin"
)

// stubStore is an in-memory NoteStore with knobs for slow and failing calls.
type stubStore struct {
	mu    sync.Mutex
	notes []repository.Note

	err       error
	panicWith any
	// delay holds List back; with ignoreCtx the call runs past the deadline.
	delay     time.Duration
	ignoreCtx bool

	sawDeadline bool
	calls       int
}

func (s *stubStore) List(ctx context.Context) ([]repository.Note, error) {
	s.mu.Lock()
	s.calls++
	_, s.sawDeadline = ctx.Deadline()
	s.mu.Unlock()

	if s.panicWith != nil {
		panic(s.panicWith)
	}
	if s.delay > 0 {
		if s.ignoreCtx {
			time.Sleep(s.delay)
		} else {
			select {
			case <-time.After(s.delay):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}
	}
	if s.err != nil {
		return nil, s.err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]repository.Note{}, s.notes...), nil
}

func (s *stubStore) Get(_ context.Context, id string) (*repository.Note, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	for i := range s.notes {
		if s.notes[i].ID == id {
			n := s.notes[i]
			return &n, nil
		}
	}
	return nil, repository.ErrNoteNotFound
}

func (s *stubStore) Save(_ context.Context, n repository.Note) (repository.Note, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	if s.err != nil {
		return repository.Note{}, s.err
	}
	if n.ID == "" {
		n.ID = "generated"
	}
	s.notes = append(s.notes, n)
	return n, nil
}

func (s *stubStore) Close() error { return nil }

func (s *stubStore) callCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

// newNotesEngine mounts the note API behind the given middleware.
func newNotesEngine(store repository.NoteStore, mw ...gin.HandlerFunc) *gin.Engine {
	r := gin.New()
	r.Use(mw...)
	controller.NewNoteController(store).RegisterRoutes(r.Group("/api"))
	return r
}

func send(r http.Handler, method, path, body string, headers map[string]string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, bytes.NewBufferString(body))
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}
