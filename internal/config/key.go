package config

// Key names a property with a default value substituted when the property
// is absent from the document, mirroring a per-access default instead of
// failing with a missing-property error.
type Key struct {
	name     string
	hasDef   bool
	defValue any
}

// NewKey builds a Key with a default value.
func NewKey(name string, defaultValue any) Key {
	return Key{name: name, hasDef: true, defValue: defaultValue}
}

// RequiredKey builds a Key with no default; looking it up behaves exactly
// like a plain string lookup.
func RequiredKey(name string) Key {
	return Key{name: name}
}

func (k Key) Name() string { return k.name }
