package service

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"

	"github.com/Clark-Hu/cinema-catalog/internal/domain"
)

func TestDirectorAdd(t *testing.T) {
	f := newFixture(t)

	_, err := f.directors.Add(context.Background(), DirectorInput{Name: " "})
	expectKind(t, err, domain.KindValidation, "Name is required.")

	resp, err := f.directors.Add(context.Background(), DirectorInput{Name: "Agnès Varda"})
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if resp.ID == uuid.Nil || resp.Name != "Agnès Varda" {
		t.Fatalf("unexpected projection %+v", resp)
	}
}

func TestDirectorGetByIDAndGetAll(t *testing.T) {
	f := newFixture(t)
	id := f.seedDirector(t, "Sofia Coppola")
	f.seedDirector(t, "Francis Ford Coppola")
	f.seedDirector(t, "Kurosawa")

	got, err := f.directors.GetByID(context.Background(), id)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Name != "Sofia Coppola" {
		t.Fatalf("unexpected name %q", got.Name)
	}

	missing := uuid.New()
	_, err = f.directors.GetByID(context.Background(), missing)
	expectKind(t, err, domain.KindNotFound, fmt.Sprintf("The director with the %s not found", missing))

	matched, err := f.directors.GetAll(context.Background(), "coppola")
	if err != nil {
		t.Fatalf("get all: %v", err)
	}
	if len(matched) != 2 {
		t.Fatalf("expected 2 directors, got %d", len(matched))
	}
}

func TestDirectorUpdate(t *testing.T) {
	f := newFixture(t)
	id := f.seedDirector(t, "Bong")

	cases := []struct {
		name    string
		id      uuid.UUID
		in      DirectorInput
		kind    domain.ErrorKind
		message string
	}{
		{name: "missing director", id: uuid.New(), in: DirectorInput{Name: "x"}, kind: domain.KindNotFound, message: "Director not found"},
		{name: "empty name", id: id, in: DirectorInput{Name: ""}, kind: domain.KindValidation, message: "Name is required."},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.directors.Update(context.Background(), tc.id, tc.in)
			expectKind(t, err, tc.kind, tc.message)
		})
	}

	got, err := f.directors.Update(context.Background(), id, DirectorInput{Name: "Bong Joon-ho"})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if got.Name != "Bong Joon-ho" {
		t.Fatalf("unexpected name %q", got.Name)
	}
}

func TestDirectorDeleteRules(t *testing.T) {
	f := newFixture(t)
	busy := f.seedDirector(t, "Miyazaki")
	idle := f.seedDirector(t, "Takahata")
	f.seedMovie(t, "Spirited Away", busy)

	err := f.directors.Delete(context.Background(), busy)
	expectKind(t, err, domain.KindDeleteFailed, "Failed to delete the director.")
	if _, ok := f.store.directors[busy]; !ok {
		t.Fatalf("referenced director must not be removed")
	}

	if err := f.directors.Delete(context.Background(), idle); err != nil {
		t.Fatalf("delete: %v", err)
	}
	err = f.directors.Delete(context.Background(), idle)
	expectKind(t, err, domain.KindDeleteFailed, "Failed to delete the director.")

	opts := testOptions()
	opts.DeletePolicy = DeleteIgnoreMissing
	lenient := NewDirectorService(fakeDirectors{f.store}, opts)
	if err := lenient.Delete(context.Background(), idle); err != nil {
		t.Fatalf("ignore-missing delete must succeed: %v", err)
	}
}

func TestParseDeletePolicy(t *testing.T) {
	cases := []struct {
		raw     string
		want    DeletePolicy
		wantErr bool
	}{
		{raw: "strict", want: DeleteStrict},
		{raw: " Ignore-Missing ", want: DeleteIgnoreMissing},
		{raw: "soft", wantErr: true},
		{raw: "", wantErr: true},
	}
	for _, tc := range cases {
		got, err := ParseDeletePolicy(tc.raw)
		if tc.wantErr {
			if err == nil {
				t.Fatalf("expected error for %q", tc.raw)
			}
			continue
		}
		if err != nil {
			t.Fatalf("parse %q: %v", tc.raw, err)
		}
		if got != tc.want {
			t.Fatalf("expected %q, got %q", tc.want, got)
		}
	}
}
