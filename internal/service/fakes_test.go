package service

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sort"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/Clark-Hu/cinema-catalog/internal/domain"
)

// memStore backs the three fake repositories so association changes made
// through one are visible through the others.
type memStore struct {
	movies    map[uuid.UUID]domain.Movie
	actors    map[uuid.UUID]domain.Actor
	directors map[uuid.UUID]domain.Director
	cast      map[uuid.UUID][]uuid.UUID

	updateErr error
	writes    int
}

func newMemStore() *memStore {
	return &memStore{
		movies:    make(map[uuid.UUID]domain.Movie),
		actors:    make(map[uuid.UUID]domain.Actor),
		directors: make(map[uuid.UUID]domain.Director),
		cast:      make(map[uuid.UUID][]uuid.UUID),
	}
}

func (m *memStore) castOf(movieID uuid.UUID) []domain.Actor {
	out := make([]domain.Actor, 0, len(m.cast[movieID]))
	for _, id := range m.cast[movieID] {
		out = append(out, m.actors[id])
	}
	return out
}

func (m *memStore) moviesOf(actorID uuid.UUID) []uuid.UUID {
	out := make([]uuid.UUID, 0)
	for movieID, ids := range m.cast {
		for _, id := range ids {
			if id == actorID {
				out = append(out, movieID)
			}
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].String() < out[j].String() })
	return out
}

func (m *memStore) storeCast(movieID uuid.UUID, actors []domain.Actor) {
	ids := make([]uuid.UUID, 0, len(actors))
	for _, actor := range actors {
		if _, ok := m.actors[actor.ID]; !ok {
			actor.MovieIDs = nil
			m.actors[actor.ID] = actor
		}
		ids = append(ids, actor.ID)
	}
	m.cast[movieID] = ids
}

type fakeMovies struct{ m *memStore }

func (f fakeMovies) Add(_ context.Context, movie domain.Movie) error {
	if _, ok := f.m.directors[movie.DirectorID]; !ok {
		return domain.ErrNotFound
	}
	f.m.writes++
	f.m.movies[movie.ID] = movie
	f.m.storeCast(movie.ID, movie.Actors)
	return nil
}

func (f fakeMovies) GetByID(_ context.Context, id uuid.UUID) (domain.Movie, error) {
	movie, ok := f.m.movies[id]
	if !ok {
		return domain.Movie{}, domain.ErrNotFound
	}
	movie.Actors = []domain.Actor{}
	return movie, nil
}

func (f fakeMovies) GetWithActors(_ context.Context, id uuid.UUID) (domain.Movie, error) {
	movie, ok := f.m.movies[id]
	if !ok {
		return domain.Movie{}, domain.ErrNotFound
	}
	movie.Actors = f.m.castOf(id)
	return movie, nil
}

func (f fakeMovies) GetAll(_ context.Context) ([]domain.Movie, error) {
	out := make([]domain.Movie, 0, len(f.m.movies))
	for id, movie := range f.m.movies {
		movie.Actors = f.m.castOf(id)
		out = append(out, movie)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (f fakeMovies) Update(_ context.Context, movie domain.Movie) (domain.Movie, error) {
	if f.m.updateErr != nil {
		return domain.Movie{}, f.m.updateErr
	}
	if _, ok := f.m.movies[movie.ID]; !ok {
		return domain.Movie{}, domain.ErrNotFound
	}
	f.m.writes++
	f.m.movies[movie.ID] = movie
	f.m.storeCast(movie.ID, movie.Actors)
	movie.Actors = f.m.castOf(movie.ID)
	return movie, nil
}

func (f fakeMovies) Delete(_ context.Context, id uuid.UUID) (bool, error) {
	if _, ok := f.m.movies[id]; !ok {
		return false, nil
	}
	delete(f.m.movies, id)
	delete(f.m.cast, id)
	return true, nil
}

func (f fakeMovies) DeleteMany(ctx context.Context, ids []string) (int64, error) {
	var removed int64
	for _, raw := range ids {
		id, err := uuid.Parse(raw)
		if err != nil {
			continue
		}
		ok, _ := f.Delete(ctx, id)
		if ok {
			removed++
		}
	}
	return removed, nil
}

type fakeActors struct{ m *memStore }

func (f fakeActors) Add(_ context.Context, actor domain.Actor) error {
	for _, movieID := range actor.MovieIDs {
		if _, ok := f.m.movies[movieID]; !ok {
			return domain.ErrNotFound
		}
	}
	f.m.writes++
	movieIDs := actor.MovieIDs
	actor.MovieIDs = nil
	f.m.actors[actor.ID] = actor
	for _, movieID := range movieIDs {
		f.m.cast[movieID] = append(f.m.cast[movieID], actor.ID)
	}
	return nil
}

func (f fakeActors) GetByID(_ context.Context, id uuid.UUID) (domain.Actor, error) {
	actor, ok := f.m.actors[id]
	if !ok {
		return domain.Actor{}, domain.ErrNotFound
	}
	actor.MovieIDs = []uuid.UUID{}
	return actor, nil
}

func (f fakeActors) GetWithMovies(_ context.Context, id uuid.UUID) (domain.Actor, error) {
	actor, ok := f.m.actors[id]
	if !ok {
		return domain.Actor{}, domain.ErrNotFound
	}
	actor.MovieIDs = f.m.moviesOf(id)
	return actor, nil
}

func (f fakeActors) GetAll(_ context.Context) ([]domain.Actor, error) {
	out := make([]domain.Actor, 0, len(f.m.actors))
	for id, actor := range f.m.actors {
		actor.MovieIDs = f.m.moviesOf(id)
		out = append(out, actor)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (f fakeActors) Update(_ context.Context, actor domain.Actor) (domain.Actor, error) {
	if _, ok := f.m.actors[actor.ID]; !ok {
		return domain.Actor{}, domain.ErrNotFound
	}
	f.m.writes++
	actor.MovieIDs = nil
	f.m.actors[actor.ID] = actor
	return actor, nil
}

func (f fakeActors) Delete(_ context.Context, id uuid.UUID) (bool, error) {
	if _, ok := f.m.actors[id]; !ok {
		return false, nil
	}
	delete(f.m.actors, id)
	for movieID, ids := range f.m.cast {
		kept := ids[:0]
		for _, actorID := range ids {
			if actorID != id {
				kept = append(kept, actorID)
			}
		}
		f.m.cast[movieID] = kept
	}
	return true, nil
}

type fakeDirectors struct{ m *memStore }

func (f fakeDirectors) Add(_ context.Context, director domain.Director) error {
	f.m.directors[director.ID] = director
	return nil
}

func (f fakeDirectors) GetByID(_ context.Context, id uuid.UUID) (domain.Director, error) {
	director, ok := f.m.directors[id]
	if !ok {
		return domain.Director{}, domain.ErrNotFound
	}
	return director, nil
}

func (f fakeDirectors) GetAll(_ context.Context) ([]domain.Director, error) {
	out := make([]domain.Director, 0, len(f.m.directors))
	for _, director := range f.m.directors {
		out = append(out, director)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (f fakeDirectors) Update(_ context.Context, director domain.Director) (domain.Director, error) {
	if _, ok := f.m.directors[director.ID]; !ok {
		return domain.Director{}, domain.ErrNotFound
	}
	f.m.directors[director.ID] = director
	return director, nil
}

func (f fakeDirectors) Delete(_ context.Context, id uuid.UUID) (bool, error) {
	if _, ok := f.m.directors[id]; !ok {
		return false, nil
	}
	for _, movie := range f.m.movies {
		if movie.DirectorID == id {
			return false, domain.ErrInUse
		}
	}
	delete(f.m.directors, id)
	return true, nil
}

var fixedNow = time.Date(2025, time.June, 1, 12, 0, 0, 0, time.UTC)

func testOptions() Options {
	return Options{
		Now:    func() time.Time { return fixedNow },
		Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

type fixture struct {
	store     *memStore
	movies    *MovieService
	actors    *ActorService
	directors *DirectorService
}

func newFixture(tb testing.TB) fixture {
	tb.Helper()
	m := newMemStore()
	opts := testOptions()
	return fixture{
		store:     m,
		movies:    NewMovieService(fakeMovies{m}, fakeDirectors{m}, fakeActors{m}, opts),
		actors:    NewActorService(fakeActors{m}, fakeMovies{m}, opts),
		directors: NewDirectorService(fakeDirectors{m}, opts),
	}
}

func (f fixture) seedDirector(tb testing.TB, name string) uuid.UUID {
	tb.Helper()
	resp, err := f.directors.Add(context.Background(), DirectorInput{Name: name})
	if err != nil {
		tb.Fatalf("seed director: %v", err)
	}
	return resp.ID
}

func (f fixture) seedActor(tb testing.TB, name string) uuid.UUID {
	tb.Helper()
	id := uuid.New()
	f.store.actors[id] = domain.Actor{ID: id, Name: name, Age: 40}
	return id
}

func (f fixture) seedMovie(tb testing.TB, name string, directorID uuid.UUID, actorIDs ...uuid.UUID) uuid.UUID {
	tb.Helper()
	entries := make([]ActorEntry, 0, len(actorIDs))
	for _, id := range actorIDs {
		id := id
		entries = append(entries, ActorEntry{ID: &id})
	}
	resp, err := f.movies.Create(context.Background(), MovieCreateRequest{
		Name:        name,
		Description: name + " description",
		Year:        2001,
		DirectorID:  directorID,
		Actors:      entries,
	})
	if err != nil {
		tb.Fatalf("seed movie: %v", err)
	}
	return resp.ID
}

// expectKind asserts err is a ValidationError of kind carrying exactly msgs.
func expectKind(tb testing.TB, err error, kind domain.ErrorKind, msgs ...string) {
	tb.Helper()
	var verr *domain.ValidationError
	if !errors.As(err, &verr) {
		tb.Fatalf("expected *domain.ValidationError, got %T (%v)", err, err)
	}
	if verr.Kind != kind {
		tb.Fatalf("expected kind %s, got %s", kind, verr.Kind)
	}
	if len(verr.Errors) != len(msgs) {
		tb.Fatalf("expected messages %q, got %q", msgs, verr.Errors)
	}
	for i := range msgs {
		if verr.Errors[i] != msgs[i] {
			tb.Fatalf("message %d: expected %q, got %q", i, msgs[i], verr.Errors[i])
		}
	}
}

func sameIDs(a, b []uuid.UUID) bool {
	if len(a) != len(b) {
		return false
	}
	seen := make(map[uuid.UUID]int, len(a))
	for _, id := range a {
		seen[id]++
	}
	for _, id := range b {
		seen[id]--
		if seen[id] < 0 {
			return false
		}
	}
	return true
}
