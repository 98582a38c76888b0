package memory

import (
	"maps"
	"slices"
	"time"

	"github.com/pesio-ai/be-lit-backoffice/internal/domain"
)

// entity is any domain row embedding domain.Model.
type entity[T any] interface {
	*T
	Base() *domain.Model
}

// table stores rows by value so callers never alias stored state.
type table[T any, P entity[T]] struct {
	rows map[int64]T
	next int64
}

func newTable[T any, P entity[T]]() *table[T, P] {
	return &table[T, P]{rows: make(map[int64]T)}
}

func (t *table[T, P]) insert(row *T, now time.Time) {
	t.next++
	base := P(row).Base()
	base.ID = t.next
	base.CreatedAt = now
	base.UpdatedAt = now
	t.rows[base.ID] = *row
}

func (t *table[T, P]) get(id int64) (*T, bool) {
	row, ok := t.rows[id]
	if !ok {
		return nil, false
	}
	return &row, true
}

func (t *table[T, P]) has(id int64) bool {
	_, ok := t.rows[id]
	return ok
}

// replace overwrites an existing row, keeping its creation time.
func (t *table[T, P]) replace(row *T, now time.Time) bool {
	base := P(row).Base()
	old, ok := t.rows[base.ID]
	if !ok {
		return false
	}
	base.CreatedAt = P(&old).Base().CreatedAt
	base.UpdatedAt = now
	t.rows[base.ID] = *row
	return true
}

func (t *table[T, P]) remove(id int64) bool {
	if _, ok := t.rows[id]; !ok {
		return false
	}
	delete(t.rows, id)
	return true
}

// where returns copies of matching rows in id order.
func (t *table[T, P]) where(match func(*T) bool) []*T {
	ids := slices.Sorted(maps.Keys(t.rows))
	out := make([]*T, 0, len(ids))
	for _, id := range ids {
		row := t.rows[id]
		if match == nil || match(&row) {
			out = append(out, &row)
		}
	}
	return out
}

// mutate applies fn to every stored row in place.
func (t *table[T, P]) mutate(fn func(*T) bool, now time.Time) {
	for id, row := range t.rows {
		if fn(&row) {
			P(&row).Base().UpdatedAt = now
			t.rows[id] = row
		}
	}
}

func (t *table[T, P]) removeWhere(match func(*T) bool) []int64 {
	var removed []int64
	for id, row := range t.rows {
		if match(&row) {
			delete(t.rows, id)
			removed = append(removed, id)
		}
	}
	slices.Sort(removed)
	return removed
}

func (t *table[T, P]) clone() *table[T, P] {
	return &table[T, P]{rows: maps.Clone(t.rows), next: t.next}
}

// links is a many-to-many join table of (left, right) id pairs.
type links map[[2]int64]struct{}

func (l links) add(left, right int64) { l[[2]int64{left, right}] = struct{}{} }

func (l links) remove(left, right int64) bool {
	k := [2]int64{left, right}
	if _, ok := l[k]; !ok {
		return false
	}
	delete(l, k)
	return true
}

func (l links) rights(left int64) []int64 {
	out := []int64{}
	for k := range l {
		if k[0] == left {
			out = append(out, k[1])
		}
	}
	slices.Sort(out)
	return out
}

func (l links) lefts(right int64) []int64 {
	out := []int64{}
	for k := range l {
		if k[1] == right {
			out = append(out, k[0])
		}
	}
	slices.Sort(out)
	return out
}

func (l links) dropLeft(left int64) {
	for k := range l {
		if k[0] == left {
			delete(l, k)
		}
	}
}

func (l links) dropRight(right int64) {
	for k := range l {
		if k[1] == right {
			delete(l, k)
		}
	}
}

func (l links) setRights(left int64, rights []int64) {
	l.dropLeft(left)
	for _, r := range rights {
		l.add(left, r)
	}
}

func (l links) setLefts(right int64, lefts []int64) {
	l.dropRight(right)
	for _, left := range lefts {
		l.add(left, right)
	}
}
