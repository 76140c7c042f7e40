package rtscam

import (
	"reflect"
	"slices"
)

// Queries iterate every entity whose archetype holds all required
// components. Components passed as optionals may be missing, in which case
// the callback receives nil for them. Components passed to Without exclude
// any archetype that holds them. Iteration order is ascending EntityId.
type Query1[A any] struct {
	ecs     *Ecs
	without []any
}
type Query2[A, B any] struct {
	ecs     *Ecs
	without []any
}
type Query3[A, B, C any] struct {
	ecs     *Ecs
	without []any
}

func MakeQuery1[A any](cmd *Commands) Query1[A]       { return Query1[A]{ecs: cmd.app.ecs} }
func MakeQuery2[A, B any](cmd *Commands) Query2[A, B] { return Query2[A, B]{ecs: cmd.app.ecs} }
func MakeQuery3[A, B, C any](cmd *Commands) Query3[A, B, C] {
	return Query3[A, B, C]{ecs: cmd.app.ecs}
}

func (q Query1[A]) Without(components ...any) Query1[A] {
	q.without = append(slices.Clone(q.without), components...)
	return q
}

func (q Query2[A, B]) Without(components ...any) Query2[A, B] {
	q.without = append(slices.Clone(q.without), components...)
	return q
}

func (q Query3[A, B, C]) Without(components ...any) Query3[A, B, C] {
	q.without = append(slices.Clone(q.without), components...)
	return q
}

func (q Query1[A]) Map(m func(EntityId, *A) bool, optionals ...any) {
	id1 := identifyComponent[A](q.ecs)
	opt := identifyComponents(q.ecs, optionals...)

	rows := matchRows(q.ecs, q.without, func(arch *archetype) bool {
		_, ok1 := column[A](arch, id1, opt)
		return ok1
	})
	for _, mr := range rows {
		comps1, _ := column[A](mr.arch, id1, opt)
		if !m(mr.eid, cell(comps1, mr.row)) {
			return
		}
	}
}

func (q Query2[A, B]) Map(m func(EntityId, *A, *B) bool, optionals ...any) {
	id1 := identifyComponent[A](q.ecs)
	id2 := identifyComponent[B](q.ecs)
	opt := identifyComponents(q.ecs, optionals...)

	rows := matchRows(q.ecs, q.without, func(arch *archetype) bool {
		_, ok1 := column[A](arch, id1, opt)
		_, ok2 := column[B](arch, id2, opt)
		return ok1 && ok2
	})
	for _, mr := range rows {
		comps1, _ := column[A](mr.arch, id1, opt)
		comps2, _ := column[B](mr.arch, id2, opt)
		if !m(mr.eid, cell(comps1, mr.row), cell(comps2, mr.row)) {
			return
		}
	}
}

func (q Query3[A, B, C]) Map(m func(EntityId, *A, *B, *C) bool, optionals ...any) {
	id1 := identifyComponent[A](q.ecs)
	id2 := identifyComponent[B](q.ecs)
	id3 := identifyComponent[C](q.ecs)
	opt := identifyComponents(q.ecs, optionals...)

	rows := matchRows(q.ecs, q.without, func(arch *archetype) bool {
		_, ok1 := column[A](arch, id1, opt)
		_, ok2 := column[B](arch, id2, opt)
		_, ok3 := column[C](arch, id3, opt)
		return ok1 && ok2 && ok3
	})
	for _, mr := range rows {
		comps1, _ := column[A](mr.arch, id1, opt)
		comps2, _ := column[B](mr.arch, id2, opt)
		comps3, _ := column[C](mr.arch, id3, opt)
		if !m(mr.eid, cell(comps1, mr.row), cell(comps2, mr.row), cell(comps3, mr.row)) {
			return
		}
	}
}

type matchedRow struct {
	arch *archetype
	eid  EntityId
	row  row
}

// matchRows collects the rows of every archetype accepted by match that
// holds none of the without components, sorted by EntityId.
func matchRows(ecs *Ecs, without []any, match func(*archetype) bool) []matchedRow {
	excluded := identifyComponents(ecs, without...)

	var rows []matchedRow
	for _, arch := range ecs.archetypes {
		if len(arch.entities) == 0 || holdsAny(arch, excluded) || !match(arch) {
			continue
		}
		for eid, r := range arch.entities {
			rows = append(rows, matchedRow{arch: arch, eid: eid, row: r})
		}
	}
	slices.SortFunc(rows, func(a, b matchedRow) int {
		switch {
		case a.eid < b.eid:
			return -1
		case a.eid > b.eid:
			return 1
		}
		return 0
	})
	return rows
}

func holdsAny(arch *archetype, ids set[componentId]) bool {
	for id := range ids {
		if _, ok := arch.componentData[id]; ok {
			return true
		}
	}
	return false
}

// column returns the typed component slice of arch. A nil slice with ok set
// means the component is optional and absent.
func column[T any](arch *archetype, id componentId, optionals set[componentId]) ([]T, bool) {
	if data, ok := arch.componentData[id]; ok {
		return data.([]T), true
	}
	if _, ok := optionals[id]; ok {
		return nil, true
	}
	return nil, false
}

func cell[T any](comps []T, r row) *T {
	if comps == nil {
		return nil
	}
	return &comps[r]
}

func identifyComponents(ecs *Ecs, components ...any) set[componentId] {
	res := make(set[componentId])
	for _, c := range components {
		res[ecs.getComponentId(componentType(c))] = struct{}{}
	}
	return res
}

func identifyComponent[T any](ecs *Ecs) componentId {
	var zero T
	return ecs.getComponentId(reflect.TypeOf(zero))
}
