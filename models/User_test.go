package models

import (
	"errors"
	"reflect"
	"testing"
)

func TestAddFavoriteIDConflict(t *testing.T) {
	var user User
	if err := user.AddFavoriteID(10); err != nil {
		t.Fatalf("first add: %v", err)
	}
	if err := user.AddFavoriteID(11); err != nil {
		t.Fatalf("second add: %v", err)
	}

	// Adding an existing favorite is an explicit conflict, never a silent
	// no-op.
	if err := user.AddFavoriteID(10); !errors.Is(err, ErrDuplicateFavorite) {
		t.Fatalf("expected ErrDuplicateFavorite, got %v", err)
	}
	if got := user.FavoriteIDs(); !reflect.DeepEqual(got, []uint{10, 11}) {
		t.Fatalf("failed add must not change the set, got %v", got)
	}
}

func TestRemoveFavoriteIDIdempotent(t *testing.T) {
	var user User
	user.SetFavoriteIDs([]uint{10, 11, 12})

	removed, err := user.RemoveFavoriteID(11)
	if err != nil {
		t.Fatal(err)
	}
	if !removed {
		t.Fatal("expected removal of a present favorite")
	}
	if got := user.FavoriteIDs(); !reflect.DeepEqual(got, []uint{10, 12}) {
		t.Fatalf("got %v", got)
	}

	// Removing an absent favorite succeeds without changing anything.
	removed, err = user.RemoveFavoriteID(99)
	if err != nil {
		t.Fatal(err)
	}
	if removed {
		t.Fatal("absent favorite reported as removed")
	}
	if got := user.FavoriteIDs(); !reflect.DeepEqual(got, []uint{10, 12}) {
		t.Fatalf("no-op removal changed the set: %v", got)
	}
}
