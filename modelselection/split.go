// Package modelselection provides the dataset splitting helpers used
// to evaluate recommenders on held-out interactions.
package modelselection

import (
	"math/rand"
	"sort"

	"github.com/recsys-go/memrec/dataset"
	"github.com/recsys-go/memrec/pkg/errors"
)

// TrainTestSplit holds out a fraction of each user's play events for
// testing. The split is stratified per user so every user keeps at
// least one training event; users with a single event contribute to the
// training set only. testSize is the held-out fraction in (0, 1). The
// same seed always produces the same split.
func TrainTestSplit(events dataset.PlayTable, testSize float64, seed int64) (train, test dataset.PlayTable, err error) {
	if len(events) == 0 {
		return nil, nil, errors.NewModelError("TrainTestSplit", "empty data", errors.ErrEmptyData)
	}
	if testSize <= 0 || testSize >= 1 {
		return nil, nil, errors.NewValidationError("test_size", "must be in (0, 1)", testSize)
	}

	byUser := groupByUser(events)
	users := sortedKeys(byUser)

	rng := rand.New(rand.NewSource(seed))
	train = make(dataset.PlayTable, 0, len(events))
	test = make(dataset.PlayTable, 0)

	for _, u := range users {
		rows := byUser[u]
		if len(rows) < 2 {
			train = append(train, rows...)
			continue
		}

		perm := rng.Perm(len(rows))
		nTest := int(float64(len(rows)) * testSize)
		if nTest < 1 {
			nTest = 1
		}
		if nTest >= len(rows) {
			nTest = len(rows) - 1
		}

		for i, p := range perm {
			if i < nTest {
				test = append(test, rows[p])
			} else {
				train = append(train, rows[p])
			}
		}
	}

	return train, test, nil
}

// LeaveOneOut holds out exactly one random play event per user. Users
// with a single event stay entirely in the training set.
func LeaveOneOut(events dataset.PlayTable, seed int64) (train, test dataset.PlayTable, err error) {
	if len(events) == 0 {
		return nil, nil, errors.NewModelError("LeaveOneOut", "empty data", errors.ErrEmptyData)
	}

	byUser := groupByUser(events)
	users := sortedKeys(byUser)

	rng := rand.New(rand.NewSource(seed))
	train = make(dataset.PlayTable, 0, len(events))
	test = make(dataset.PlayTable, 0, len(users))

	for _, u := range users {
		rows := byUser[u]
		if len(rows) < 2 {
			train = append(train, rows...)
			continue
		}
		held := rng.Intn(len(rows))
		for i, row := range rows {
			if i == held {
				test = append(test, row)
			} else {
				train = append(train, row)
			}
		}
	}

	return train, test, nil
}

func groupByUser(events dataset.PlayTable) map[string]dataset.PlayTable {
	byUser := make(map[string]dataset.PlayTable)
	for _, e := range events {
		byUser[e.UserID] = append(byUser[e.UserID], e)
	}
	return byUser
}

// sortedKeys fixes the user iteration order so the split depends only
// on the seed.
func sortedKeys(byUser map[string]dataset.PlayTable) []string {
	users := make([]string, 0, len(byUser))
	for u := range byUser {
		users = append(users, u)
	}
	sort.Strings(users)
	return users
}
