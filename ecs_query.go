package camrig

import (
	"reflect"
)

// Queries walk every archetype that stores all of the requested components.
// WithTypes / WithoutTypes narrow the match by component presence without
// handing the filtered components to the callback.
type queryFilter struct {
	with    []any
	without []any
}

type Query1[A any] struct {
	ecs *Ecs
	queryFilter
}
type Query2[A, B any] struct {
	ecs *Ecs
	queryFilter
}
type Query3[A, B, C any] struct {
	ecs *Ecs
	queryFilter
}

func MakeQuery1[A any](cmd *Commands) Query1[A]       { return Query1[A]{ecs: cmd.app.ecs} }
func MakeQuery2[A, B any](cmd *Commands) Query2[A, B] { return Query2[A, B]{ecs: cmd.app.ecs} }
func MakeQuery3[A, B, C any](cmd *Commands) Query3[A, B, C] {
	return Query3[A, B, C]{ecs: cmd.app.ecs}
}

func (q Query1[A]) WithTypes(components ...any) Query1[A] {
	q.with = append(append([]any{}, q.with...), components...)
	return q
}

func (q Query1[A]) WithoutTypes(components ...any) Query1[A] {
	q.without = append(append([]any{}, q.without...), components...)
	return q
}

func (q Query2[A, B]) WithTypes(components ...any) Query2[A, B] {
	q.with = append(append([]any{}, q.with...), components...)
	return q
}

func (q Query2[A, B]) WithoutTypes(components ...any) Query2[A, B] {
	q.without = append(append([]any{}, q.without...), components...)
	return q
}

func (q Query3[A, B, C]) WithTypes(components ...any) Query3[A, B, C] {
	q.with = append(append([]any{}, q.with...), components...)
	return q
}

func (q Query3[A, B, C]) WithoutTypes(components ...any) Query3[A, B, C] {
	q.without = append(append([]any{}, q.without...), components...)
	return q
}

// Map calls m for every matching entity until m returns false.
func (q Query1[A]) Map(m func(EntityId, *A) bool) {
	id1 := identifyComponent[A](q.ecs)
	with, without := q.resolve(q.ecs)

	for _, arch := range q.ecs.archetypes {
		if !arch.matches(with, without) {
			continue
		}
		comps1, ok := arch.componentData[id1].([]A)
		if !ok {
			continue
		}

		for entityId, r := range arch.entities {
			if !m(entityId, &comps1[r]) {
				return
			}
		}
	}
}

func (q Query2[A, B]) Map(m func(EntityId, *A, *B) bool) {
	id1 := identifyComponent[A](q.ecs)
	id2 := identifyComponent[B](q.ecs)
	with, without := q.resolve(q.ecs)

	for _, arch := range q.ecs.archetypes {
		if !arch.matches(with, without) {
			continue
		}
		comps1, ok := arch.componentData[id1].([]A)
		if !ok {
			continue
		}
		comps2, ok := arch.componentData[id2].([]B)
		if !ok {
			continue
		}

		for entityId, r := range arch.entities {
			if !m(entityId, &comps1[r], &comps2[r]) {
				return
			}
		}
	}
}

func (q Query3[A, B, C]) Map(m func(EntityId, *A, *B, *C) bool) {
	id1 := identifyComponent[A](q.ecs)
	id2 := identifyComponent[B](q.ecs)
	id3 := identifyComponent[C](q.ecs)
	with, without := q.resolve(q.ecs)

	for _, arch := range q.ecs.archetypes {
		if !arch.matches(with, without) {
			continue
		}
		comps1, ok := arch.componentData[id1].([]A)
		if !ok {
			continue
		}
		comps2, ok := arch.componentData[id2].([]B)
		if !ok {
			continue
		}
		comps3, ok := arch.componentData[id3].([]C)
		if !ok {
			continue
		}

		for entityId, r := range arch.entities {
			if !m(entityId, &comps1[r], &comps2[r], &comps3[r]) {
				return
			}
		}
	}
}

// Single returns the only matching entity. ok is false when nothing or more
// than one entity matches.
func (q Query1[A]) Single() (eid EntityId, a *A, ok bool) {
	n := 0
	q.Map(func(id EntityId, ca *A) bool {
		n++
		eid, a = id, ca
		return n < 2
	})
	if n != 1 {
		return 0, nil, false
	}
	return eid, a, true
}

func (q Query2[A, B]) Single() (eid EntityId, a *A, b *B, ok bool) {
	n := 0
	q.Map(func(id EntityId, ca *A, cb *B) bool {
		n++
		eid, a, b = id, ca, cb
		return n < 2
	})
	if n != 1 {
		return 0, nil, nil, false
	}
	return eid, a, b, true
}

func (q Query3[A, B, C]) Single() (eid EntityId, a *A, b *B, c *C, ok bool) {
	n := 0
	q.Map(func(id EntityId, ca *A, cb *B, cc *C) bool {
		n++
		eid, a, b, c = id, ca, cb, cc
		return n < 2
	})
	if n != 1 {
		return 0, nil, nil, nil, false
	}
	return eid, a, b, c, true
}

// HasComponent reports whether the entity currently stores a T. Pending
// (unflushed) commands are not visible.
func HasComponent[T any](cmd *Commands, eid EntityId) bool {
	return cmd.app.ecs.hasComponentId(eid, identifyComponent[T](cmd.app.ecs))
}

func (f queryFilter) resolve(ecs *Ecs) (with, without []componentId) {
	for _, c := range f.with {
		with = append(with, ecs.getComponentId(componentType(c)))
	}
	for _, c := range f.without {
		without = append(without, ecs.getComponentId(componentType(c)))
	}
	return with, without
}

func (arch *archetype) matches(with, without []componentId) bool {
	for _, id := range with {
		if _, ok := arch.componentData[id]; !ok {
			return false
		}
	}
	for _, id := range without {
		if _, ok := arch.componentData[id]; ok {
			return false
		}
	}
	return true
}

func identifyComponent[A any](ecs *Ecs) componentId {
	return ecs.getComponentId(reflect.TypeFor[A]())
}
