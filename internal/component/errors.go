package component

import "fmt"

// UnknownTypeError reports a type reference with no matching registry
// entry.
type UnknownTypeError struct {
	Type   string
	Reason string
}

func (e *UnknownTypeError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("unknown component type %q: %s", e.Type, e.Reason)
	}
	return fmt.Sprintf("unknown component type %q", e.Type)
}

// DuplicateComponentError reports two registrations under the same
// (category, name) key.
type DuplicateComponentError struct {
	Category string
	Name     string
}

func (e *DuplicateComponentError) Error() string {
	return fmt.Sprintf("component type %s:%s already registered", e.Category, e.Name)
}

// DuplicateIDError reports two components sharing the same id within one
// manager.
type DuplicateIDError struct {
	ID string
}

func (e *DuplicateIDError) Error() string {
	return fmt.Sprintf("component id %q already in use", e.ID)
}

// UnknownDependencyError reports a string id reference that does not
// resolve to any constructed component.
type UnknownDependencyError struct {
	Requester string
	ID        string
}

func (e *UnknownDependencyError) Error() string {
	return fmt.Sprintf("%s: unknown dependency %q", e.Requester, e.ID)
}

// WrongDependencyTypeError reports a resolved component that does not
// satisfy the requested capability.
type WrongDependencyTypeError struct {
	Requester  string
	Dependency string
}

func (e *WrongDependencyTypeError) Error() string {
	return fmt.Sprintf("%s: dependency %q does not provide the required capability", e.Requester, e.Dependency)
}

// ChannelCountMismatchError reports a producer/consumer channel-count
// mismatch across a connection boundary.
type ChannelCountMismatchError struct {
	Component string
	Emits     int
}

func (e *ChannelCountMismatchError) Error() string {
	return fmt.Sprintf("%s does not accept %d channels", e.Component, e.Emits)
}
