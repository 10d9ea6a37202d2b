// Package reconcile computes and applies minimal-edit updates to an
// ordered, keyed child sequence under a document container: inserts for
// keys present only in the desired list, removals for keys present only
// in the current list, and moves for surviving keys whose relative order
// changed. Surviving children keep their node identity.
package reconcile

import (
	"sort"

	"github.com/pericope/citesync/core/doc"
	"github.com/pericope/citesync/core/errors"
)

// OpKind identifies the kind of a reconciliation edit.
type OpKind int

const (
	// OpRemove removes the child with the given key.
	OpRemove OpKind = iota
	// OpInsert creates a new child with the given key at Index.
	OpInsert
	// OpMove repositions an existing child to Index.
	OpMove
)

// Op is one structural edit of a reconciliation plan.
type Op struct {
	Kind  OpKind
	Key   string
	Index int // target index in the desired list, insert/move only
}

// Plan computes the minimal edit sequence transforming oldKeys into
// newKeys. Keys are assumed unique within each list. Surviving keys on
// the longest increasing subsequence of their new positions act as
// anchors and are never moved, which makes the move count minimal.
func Plan(oldKeys, newKeys []string) []Op {
	ops, _ := plan(oldKeys, newKeys)
	return ops
}

func plan(oldKeys, newKeys []string) ([]Op, map[string]bool) {
	newIndex := make(map[string]int, len(newKeys))
	for i, key := range newKeys {
		newIndex[key] = i
	}
	oldSet := make(map[string]bool, len(oldKeys))
	for _, key := range oldKeys {
		oldSet[key] = true
	}

	var ops []Op
	for _, key := range oldKeys {
		if _, ok := newIndex[key]; !ok {
			ops = append(ops, Op{Kind: OpRemove, Key: key})
		}
	}

	// Survivors in old order, projected onto their new positions. The
	// longest increasing subsequence of those positions already has the
	// desired relative order; everything else moves.
	var survivors []string
	var positions []int
	for _, key := range oldKeys {
		if idx, ok := newIndex[key]; ok {
			survivors = append(survivors, key)
			positions = append(positions, idx)
		}
	}

	anchors := make(map[string]bool, len(survivors))
	for _, i := range longestIncreasing(positions) {
		anchors[survivors[i]] = true
	}

	for idx, key := range newKeys {
		switch {
		case !oldSet[key]:
			ops = append(ops, Op{Kind: OpInsert, Key: key, Index: idx})
		case !anchors[key]:
			ops = append(ops, Op{Kind: OpMove, Key: key, Index: idx})
		}
	}

	return ops, anchors
}

// longestIncreasing returns the indices of one longest strictly
// increasing subsequence of seq, in ascending order.
func longestIncreasing(seq []int) []int {
	if len(seq) == 0 {
		return nil
	}

	// tails[k] is the index in seq of the smallest tail of any increasing
	// subsequence of length k+1.
	tails := make([]int, 0, len(seq))
	prev := make([]int, len(seq))

	for i, v := range seq {
		k := sort.Search(len(tails), func(j int) bool {
			return seq[tails[j]] >= v
		})
		if k > 0 {
			prev[i] = tails[k-1]
		} else {
			prev[i] = -1
		}
		if k == len(tails) {
			tails = append(tails, i)
		} else {
			tails[k] = i
		}
	}

	result := make([]int, len(tails))
	i := tails[len(tails)-1]
	for k := len(tails) - 1; k >= 0; k-- {
		result[k] = i
		i = prev[i]
	}
	return result
}

// Apply transforms the children of containerID so that their keyAttr
// values, read in order, equal newKeys exactly. Surviving children are
// reused (moved, never recreated); new children are created with the
// given childType and key attribute. All edits run in one transaction.
// It returns the executed plan.
func Apply(d *doc.Document, containerID, childType, keyAttr string, newKeys []string) ([]Op, error) {
	container, ok := d.Get(containerID)
	if !ok {
		return nil, errors.NewNotFound("container", containerID)
	}

	byKey := make(map[string]string) // key -> child node id
	var oldKeys []string
	for _, child := range container.Children() {
		if child.Type() != childType {
			continue
		}
		key := child.Attr(keyAttr)
		oldKeys = append(oldKeys, key)
		byKey[key] = child.ID()
	}

	ops, anchors := plan(oldKeys, newKeys)

	err := d.Mutate(func(tx *doc.Tx) error {
		for _, op := range ops {
			if op.Kind == OpRemove {
				if err := tx.Remove(byKey[op.Key]); err != nil {
					return err
				}
			}
		}

		// Non-anchor keys are placed left to right, each before the next
		// anchor that is already in position; keys after the last anchor
		// append.
		nextAnchor := func(from int) string {
			for i := from; i < len(newKeys); i++ {
				if anchors[newKeys[i]] {
					return byKey[newKeys[i]]
				}
			}
			return ""
		}

		for idx, key := range newKeys {
			if anchors[key] {
				continue
			}
			beforeID := nextAnchor(idx + 1)
			if id, ok := byKey[key]; ok {
				if err := tx.MoveBefore(id, containerID, beforeID); err != nil {
					return err
				}
				continue
			}
			created, err := tx.CreateElementBefore(containerID, childType,
				map[string]string{keyAttr: key}, beforeID)
			if err != nil {
				return err
			}
			byKey[key] = created.ID()
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return ops, nil
}
