package store

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/ODADJE/NoSqLBackendESMT/internal/model"
)

func sampleSong() *model.Song {
	return &model.Song{
		Name:       "Paranoid",
		Artists:    []string{"Black Sabbath"},
		Album:      "Paranoid",
		Genre:      "metal",
		Popularity: 80,
		DurationMS: 170000,
		Explicit:   false,
	}
}

func TestSongStore_CreateFetchRoundTrip(t *testing.T) {
	songs := NewSongStore(testDB(t))
	ctx := context.Background()

	song := sampleSong()
	if err := songs.Create(ctx, song); err != nil {
		t.Fatalf("create: %v", err)
	}

	got, err := songs.FindByID(ctx, song.ID)
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if got.Name != song.Name || got.Album != song.Album || got.Genre != song.Genre ||
		got.Popularity != song.Popularity || got.DurationMS != song.DurationMS || got.Explicit != song.Explicit {
		t.Fatalf("round trip mismatch: %+v vs %+v", got, song)
	}
	if !reflect.DeepEqual(got.Artists, song.Artists) {
		t.Fatalf("artists mismatch: %v vs %v", got.Artists, song.Artists)
	}
}

func TestSongStore_PartialUpdateKeepsOtherFields(t *testing.T) {
	songs := NewSongStore(testDB(t))
	ctx := context.Background()

	song := sampleSong()
	if err := songs.Create(ctx, song); err != nil {
		t.Fatalf("create: %v", err)
	}

	newName := "War Pigs"
	newPopularity := 85
	updated, err := songs.Update(ctx, song.ID, SongPatch{Name: &newName, Popularity: &newPopularity})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Name != "War Pigs" || updated.Popularity != 85 {
		t.Fatalf("patch not applied: %+v", updated)
	}
	if updated.Album != song.Album || updated.Genre != song.Genre ||
		updated.DurationMS != song.DurationMS || updated.Explicit != song.Explicit {
		t.Fatalf("untouched fields must keep their values: %+v", updated)
	}
	if !reflect.DeepEqual(updated.Artists, song.Artists) {
		t.Fatalf("artists must keep their value: %v", updated.Artists)
	}
}

func TestSongStore_UpdateArtists(t *testing.T) {
	songs := NewSongStore(testDB(t))
	ctx := context.Background()

	song := sampleSong()
	if err := songs.Create(ctx, song); err != nil {
		t.Fatalf("create: %v", err)
	}

	updated, err := songs.Update(ctx, song.ID, SongPatch{Artists: []string{"Black Sabbath", "Ozzy Osbourne"}})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	got, err := songs.FindByID(ctx, song.ID)
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if !reflect.DeepEqual(got.Artists, updated.Artists) || len(got.Artists) != 2 {
		t.Fatalf("artists not persisted: %v", got.Artists)
	}
}

func TestSongStore_DeleteThenFetch(t *testing.T) {
	songs := NewSongStore(testDB(t))
	ctx := context.Background()

	song := sampleSong()
	if err := songs.Create(ctx, song); err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := songs.Delete(ctx, song.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := songs.FindByID(ctx, song.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if err := songs.Delete(ctx, song.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("second delete: expected ErrNotFound, got %v", err)
	}
}

func TestSongStore_ListAndCount(t *testing.T) {
	songs := NewSongStore(testDB(t))
	ctx := context.Background()

	n, err := songs.Count(ctx)
	if err != nil || n != 0 {
		t.Fatalf("expected empty catalog, got n=%d err=%v", n, err)
	}

	if err := songs.Create(ctx, sampleSong()); err != nil {
		t.Fatalf("create: %v", err)
	}
	list, err := songs.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 1 {
		t.Fatalf("expected 1 song, got %d", len(list))
	}
	if n, _ := songs.Count(ctx); n != 1 {
		t.Fatalf("expected count 1, got %d", n)
	}
}
