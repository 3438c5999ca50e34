// Copyright (c) 2026 Softwhere Team
// Softwhere - software license inventory
// This source code is licensed under the MIT license found in the LICENSE file.

package licenses

import (
	"context"
	"errors"
	"testing"

	"github.com/softwhere/softwhere/internal/model"
)

// scriptedSelector answers Confirm and Choose with fixed values.
type scriptedSelector struct {
	confirm    bool
	choice     int
	err        error
	confirmed  []model.License
	candidates []model.License
}

func (s *scriptedSelector) Confirm(l model.License) (bool, error) {
	s.confirmed = append(s.confirmed, l)
	return s.confirm, s.err
}

func (s *scriptedSelector) Choose(c []model.License) (int, error) {
	s.candidates = c
	return s.choice, s.err
}

func TestDelete_MultipleMatchesSelectSecond(t *testing.T) {
	r, cs := newRepo(t)
	ctx := context.Background()
	mustAdd(t, r, input("Microsoft Office", "OF-1", "2030-01-01"))
	mustAdd(t, r, input("Photoshop", "PS-1", "2030-01-01"))
	mustAdd(t, r, input("LibreOffice", "LO-1", "2030-01-01"))
	saves := cs.licenseSaves

	// The user types "2" for the second entry of the presented list.
	sel := &scriptedSelector{choice: 1}
	res, err := r.Delete(ctx, "office", sel)
	if err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if len(sel.candidates) != 2 || sel.candidates[0].LicenseKey != "OF-1" || sel.candidates[1].LicenseKey != "LO-1" {
		t.Fatalf("expected both office licenses presented, got %#v", sel.candidates)
	}
	if res.Outcome != DeleteRemoved || res.Removed.LicenseKey != "LO-1" || res.Matches != 2 {
		t.Fatalf("unexpected result %#v", res)
	}
	all, _ := r.List(ctx)
	if len(all) != 2 || all[0].LicenseKey != "OF-1" || all[1].LicenseKey != "PS-1" {
		t.Fatalf("expected only LO-1 removed, got %#v", all)
	}
	if cs.licenseSaves != saves+1 {
		t.Fatalf("expected one save")
	}
}

func TestDelete_SingleMatchNeedsConfirmation(t *testing.T) {
	r, cs := newRepo(t)
	ctx := context.Background()
	mustAdd(t, r, input("Photoshop", "PS-1", "2030-01-01"))
	saves := cs.licenseSaves

	sel := &scriptedSelector{confirm: false}
	res, err := r.Delete(ctx, "PHOTO", sel)
	if err != nil || res.Outcome != DeleteCancelled {
		t.Fatalf("expected cancelled, got %#v %v", res, err)
	}
	if len(sel.confirmed) != 1 || cs.licenseSaves != saves {
		t.Fatalf("expected a confirmation prompt and no save")
	}

	sel.confirm = true
	res, err = r.Delete(ctx, "photo", sel)
	if err != nil || res.Outcome != DeleteRemoved {
		t.Fatalf("expected removed, got %#v %v", res, err)
	}
	all, _ := r.List(ctx)
	if len(all) != 0 {
		t.Fatalf("expected empty collection, got %#v", all)
	}
}

func TestDelete_NotFoundAndCancel(t *testing.T) {
	r, cs := newRepo(t)
	ctx := context.Background()
	mustAdd(t, r, input("Office A", "A", "2030-01-01"))
	mustAdd(t, r, input("Office B", "B", "2030-01-01"))
	saves := cs.licenseSaves

	res, err := r.Delete(ctx, "autocad", &scriptedSelector{})
	if err != nil || res.Outcome != DeleteNotFound {
		t.Fatalf("expected not found, got %#v %v", res, err)
	}
	res, err = r.Delete(ctx, "office", &scriptedSelector{choice: -1})
	if err != nil || res.Outcome != DeleteCancelled {
		t.Fatalf("expected cancelled, got %#v %v", res, err)
	}
	res, err = r.Delete(ctx, "office", &scriptedSelector{choice: 5})
	if err != nil || res.Outcome != DeleteCancelled {
		t.Fatalf("out-of-range choice must cancel, got %#v %v", res, err)
	}
	if cs.licenseSaves != saves {
		t.Fatalf("no save expected without removal")
	}

	boom := errors.New("input closed")
	if _, err := r.Delete(ctx, "office", &scriptedSelector{err: boom}); !errors.Is(err, boom) {
		t.Fatalf("expected selector error, got %v", err)
	}
}

func TestDeleteOutcomeString(t *testing.T) {
	if DeleteRemoved.String() != "removed" || DeleteOutcome(9).String() != "DeleteOutcome(9)" {
		t.Fatalf("unexpected strings")
	}
}
