package ecs

import "github.com/milk9111/physicstest/ecs/component"

// Add stores a copy of value for e. Systems mutate the stored copy through
// the pointer returned by Get.
func Add[T any](w *World, e Entity, handle component.ComponentHandle[T], value T) error {
	v := value
	return w.AddComponent(e, handle.Kind(), &v)
}

func Remove[T any](w *World, e Entity, handle component.ComponentHandle[T]) bool {
	return w.RemoveComponent(e, handle.Kind())
}

func Has[T any](w *World, e Entity, handle component.ComponentHandle[T]) bool {
	return w.HasComponent(e, handle.Kind())
}

func Get[T any](w *World, e Entity, handle component.ComponentHandle[T]) (*T, bool) {
	value, ok := w.GetComponent(e, handle.Kind())
	if !ok {
		return nil, false
	}
	cast, ok := value.(*T)
	if !ok || cast == nil {
		return nil, false
	}
	return cast, true
}

// ForEach visits every entity carrying handle's component.
func ForEach[T any](w *World, handle component.ComponentHandle[T], fn func(e Entity, v *T)) {
	for _, e := range w.Query(handle.Kind()) {
		if v, ok := Get(w, e, handle); ok {
			fn(e, v)
		}
	}
}

// Singleton returns the first entity carrying handle's component, creating
// one with the zero value when none exists.
func Singleton[T any](w *World, handle component.ComponentHandle[T]) (Entity, *T) {
	if e, ok := w.First(handle.Kind()); ok {
		if v, ok := Get(w, e, handle); ok {
			return e, v
		}
	}
	e := w.CreateEntity()
	var zero T
	if err := Add(w, e, handle, zero); err != nil {
		panic("ecs: add singleton: " + err.Error())
	}
	v, _ := Get(w, e, handle)
	return e, v
}

// ForEach2 visits every entity carrying both components.
func ForEach2[A, B any](w *World, ha component.ComponentHandle[A], hb component.ComponentHandle[B], fn func(e Entity, a *A, b *B)) {
	for _, e := range w.Query(ha.Kind(), hb.Kind()) {
		a, okA := Get(w, e, ha)
		b, okB := Get(w, e, hb)
		if okA && okB {
			fn(e, a, b)
		}
	}
}
