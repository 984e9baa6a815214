package daicho

import (
	"fmt"
	"reflect"
)

// ComponentID is a unique identifier for a component type.
type ComponentID uint32

const (
	bitsPerWord       = 64
	maskWords         = 4
	maxComponentTypes = maskWords * bitsPerWord
)

var (
	nextComponentID ComponentID
	typeToID        = make(map[reflect.Type]ComponentID, maxComponentTypes)
	idToType        = make(map[ComponentID]reflect.Type, maxComponentTypes)
	nameToID        = make(map[string]ComponentID, maxComponentTypes)
	componentNames  [maxComponentTypes]string
	poolMakers      [maxComponentTypes]func() anyPool
)

// ResetGlobalRegistry resets the global component registry.
// This is useful for tests or applications that need to re-initialize state.
func ResetGlobalRegistry() {
	nextComponentID = 0
	typeToID = make(map[reflect.Type]ComponentID, maxComponentTypes)
	idToType = make(map[ComponentID]reflect.Type, maxComponentTypes)
	nameToID = make(map[string]ComponentID, maxComponentTypes)
	componentNames = [maxComponentTypes]string{}
	poolMakers = [maxComponentTypes]func() anyPool{}
}

// RegisterComponent registers a component type and returns its unique ID.
// If the component type is already registered, it returns the existing ID.
// It panics if the maximum number of component types is exceeded.
//
// The registered name (the type's package-qualified string) keys this type
// in snapshots, so renaming a component type invalidates old snapshots.
func RegisterComponent[T any]() ComponentID {
	var t T
	compType := reflect.TypeOf(t)

	if id, ok := typeToID[compType]; ok {
		return id
	}

	if int(nextComponentID) >= maxComponentTypes {
		panic(fmt.Sprintf("cannot register component %s: maximum number of component types (%d) reached", compType.Name(), maxComponentTypes))
	}

	id := nextComponentID
	typeToID[compType] = id
	idToType[id] = compType
	name := compType.String()
	componentNames[id] = name
	nameToID[name] = id
	poolMakers[id] = func() anyPool { return NewPool[T]() }
	nextComponentID++
	return id
}

// GetID returns the ComponentID for a given component type.
// It panics if the component type has not been registered.
func GetID[T any]() ComponentID {
	var zero T
	typ := reflect.TypeOf(zero)
	id, ok := typeToID[typ]
	if !ok {
		panic(fmt.Sprintf("component type %s not registered", typ))
	}
	return id
}

// TryGetID returns the ComponentID for a given component type and a boolean
// indicating if it was found. It does not panic if the component type is not
// registered.
func TryGetID[T any]() (ComponentID, bool) {
	var zero T
	typ := reflect.TypeOf(zero)
	id, ok := typeToID[typ]
	return id, ok
}

// ComponentName returns the registered name for id, or "" if id is unknown.
func ComponentName(id ComponentID) string {
	if int(id) >= int(nextComponentID) {
		return ""
	}
	return componentNames[id]
}

// RegisteredComponents returns the IDs of every registered component type,
// in registration order.
func RegisteredComponents() []ComponentID {
	ids := make([]ComponentID, nextComponentID)
	for i := range ids {
		ids[i] = ComponentID(i)
	}
	return ids
}

// registeredCount returns one past the highest assigned ComponentID.
func registeredCount() ComponentID {
	return nextComponentID
}

// idForName resolves a registered component name back to its current ID.
func idForName(name string) (ComponentID, bool) {
	id, ok := nameToID[name]
	return id, ok
}

// newPoolFor builds an empty typed pool for a registered component ID.
func newPoolFor(id ComponentID) anyPool {
	mk := poolMakers[id]
	if mk == nil {
		panic(fmt.Sprintf("daicho: no pool constructor for component ID %d", id))
	}
	return mk()
}
