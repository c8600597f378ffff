package place

import (
	"testing"

	"github.com/google/uuid"
)

func TestOwnedBy(t *testing.T) {
	owner := uuid.New()
	p := &Place{ID: uuid.New(), CreatorID: owner}

	if !p.OwnedBy(owner) {
		t.Fatalf("OwnedBy(owner) = false")
	}
	if p.OwnedBy(uuid.New()) {
		t.Fatalf("OwnedBy(stranger) = true")
	}
	if p.OwnedBy(uuid.Nil) {
		t.Fatalf("OwnedBy(uuid.Nil) = true")
	}

	var nilPlace *Place
	if nilPlace.OwnedBy(owner) {
		t.Fatalf("OwnedBy on nil place = true")
	}
}
