// Copyright (c) 2026 Softwhere Team
// Softwhere - software license inventory
// This source code is licensed under the MIT license found in the LICENSE file.

package licenses

import (
	"context"
	"fmt"

	"github.com/softwhere/softwhere/internal/logging"
	"github.com/softwhere/softwhere/internal/model"
)

// Selector resolves which license a delete removes.
type Selector interface {
	// Confirm is asked when exactly one license matches.
	Confirm(l model.License) (bool, error)
	// Choose is asked when several licenses match. It returns the index into
	// candidates of the license to remove, or a negative value to cancel.
	Choose(candidates []model.License) (int, error)
}

// DeleteOutcome is the result of a delete request.
type DeleteOutcome int

const (
	DeleteNotFound DeleteOutcome = iota
	DeleteCancelled
	DeleteRemoved
)

func (o DeleteOutcome) String() string {
	switch o {
	case DeleteNotFound:
		return "not_found"
	case DeleteCancelled:
		return "cancelled"
	case DeleteRemoved:
		return "removed"
	}
	return fmt.Sprintf("DeleteOutcome(%d)", int(o))
}

// DeleteResult describes a finished delete request.
type DeleteResult struct {
	Outcome DeleteOutcome
	// Removed is set when Outcome is DeleteRemoved.
	Removed model.License
	// Matches is the number of licenses that matched the keyword.
	Matches int
}

// Delete removes at most one license whose software name contains keyword.
// A single match must be confirmed; several matches must be narrowed down by
// the selector. The collection is saved only when a license was removed.
func (r *Repository) Delete(ctx context.Context, keyword string, sel Selector) (DeleteResult, error) {
	all, err := r.licenses.LoadLicenses(ctx)
	if err != nil {
		return DeleteResult{}, err
	}
	idx := matchIndexes(all, keyword)
	res := DeleteResult{Matches: len(idx)}

	var target int
	switch len(idx) {
	case 0:
		res.Outcome = DeleteNotFound
		return res, nil
	case 1:
		ok, err := sel.Confirm(all[idx[0]])
		if err != nil {
			return res, err
		}
		if !ok {
			res.Outcome = DeleteCancelled
			return res, nil
		}
		target = idx[0]
	default:
		candidates := make([]model.License, 0, len(idx))
		for _, i := range idx {
			candidates = append(candidates, all[i])
		}
		choice, err := sel.Choose(candidates)
		if err != nil {
			return res, err
		}
		if choice < 0 || choice >= len(idx) {
			res.Outcome = DeleteCancelled
			return res, nil
		}
		target = idx[choice]
	}

	removed := all[target]
	rest := make([]model.License, 0, len(all)-1)
	rest = append(rest, all[:target]...)
	rest = append(rest, all[target+1:]...)
	if err := r.licenses.SaveLicenses(ctx, rest); err != nil {
		return res, err
	}
	logging.Infof("deleted license %s (%s)", removed.LicenseKey, removed.Software)
	res.Outcome = DeleteRemoved
	res.Removed = removed
	return res, nil
}
