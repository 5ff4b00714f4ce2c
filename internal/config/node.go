package config

import (
	"encoding/json"
	"fmt"
	"os"
)

// Node is a read-only view over one position in a hierarchical,
// JSON-shaped configuration document. Every node remembers its path for
// error messages.
type Node struct {
	path  string
	value any
}

// Root builds the top-level node for an already-decoded document.
func Root(value any) Node {
	return Node{path: "", value: value}
}

// Load reads and parses a JSON document from path.
func Load(path string) (Node, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Node{}, &ParseFailureError{Source: path, Err: err}
	}
	return Parse(path, data)
}

// Parse decodes data as JSON into a Node tree. source names the origin of
// data for error messages (a file path, or "<inline>").
func Parse(source string, data []byte) (Node, error) {
	var value any
	if err := json.Unmarshal(data, &value); err != nil {
		return Node{}, &ParseFailureError{Source: source, Err: err}
	}
	return Root(value), nil
}

// Path returns the node's location within the document, e.g. "/components[2]/id".
func (n Node) Path() string { return n.path }

// Valid reports whether the node holds a non-null value.
func (n Node) Valid() bool { return n.value != nil }

// TypeName names the JSON type of the node's value, for error messages.
func (n Node) TypeName() string {
	switch v := n.value.(type) {
	case nil:
		return "null"
	case bool:
		return "boolean"
	case float64:
		if v == float64(int64(v)) {
			return "number"
		}
		return "decimal"
	case string:
		return "string"
	case []any:
		return "array"
	case map[string]any:
		return "object"
	default:
		return fmt.Sprintf("%T", v)
	}
}

// Has reports whether key is present on an object node.
func (n Node) Has(key string) bool {
	obj, ok := n.value.(map[string]any)
	if !ok {
		return false
	}
	_, ok = obj[key]
	return ok
}

// Key looks up key on an object node, failing with MissingPropertyError if
// absent.
func (n Node) Key(key string) (Node, error) {
	obj, err := n.object()
	if err != nil {
		return Node{}, err
	}
	value, ok := obj[key]
	if !ok {
		return Node{}, &MissingPropertyError{Path: n.path + "/" + key}
	}
	return Node{path: n.path + "/" + key, value: value}, nil
}

// KeyOr looks up key.Name() on an object node, substituting key's default
// when absent rather than failing.
func (n Node) KeyOr(key Key) (Node, error) {
	obj, err := n.object()
	if err != nil {
		return Node{}, err
	}
	value, ok := obj[key.name]
	if !ok {
		if !key.hasDef {
			return Node{}, &MissingPropertyError{Path: n.path + "/" + key.name}
		}
		value = key.defValue
	}
	return Node{path: n.path + "/" + key.name, value: value}, nil
}

func (n Node) object() (map[string]any, error) {
	obj, ok := n.value.(map[string]any)
	if !ok {
		return nil, &TypeMismatchError{Path: n.path, Expected: "object", Actual: n.TypeName()}
	}
	return obj, nil
}

// Len reports the number of elements on an array node.
func (n Node) Len() int {
	arr, ok := n.value.([]any)
	if !ok {
		return 0
	}
	return len(arr)
}

// Index looks up the i-th element of an array node.
func (n Node) Index(i int) (Node, error) {
	arr, ok := n.value.([]any)
	if !ok {
		return Node{}, &TypeMismatchError{Path: n.path, Expected: "array", Actual: n.TypeName()}
	}
	if i < 0 || i >= len(arr) {
		return Node{}, &TypeMismatchError{Path: fmt.Sprintf("%s[%d]", n.path, i), Expected: "element", Actual: "out of range"}
	}
	return Node{path: fmt.Sprintf("%s[%d]", n.path, i), value: arr[i]}, nil
}

// Iter yields every element of an array node as indexed child nodes.
// Iterating a non-array node fails with TypeMismatchError.
func (n Node) Iter() ([]Node, error) {
	arr, ok := n.value.([]any)
	if !ok {
		return nil, &TypeMismatchError{Path: n.path, Expected: "array", Actual: n.TypeName()}
	}
	nodes := make([]Node, len(arr))
	for i, v := range arr {
		nodes[i] = Node{path: fmt.Sprintf("%s[%d]", n.path, i), value: v}
	}
	return nodes, nil
}
