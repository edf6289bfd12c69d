package geo

import "strings"

// Attribute key/value pair.
type Attribute struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// Attributes ordered key/value collection attached to an input location or a
// network edge. The zero value is an empty collection.
type Attributes struct {
	items []Attribute
}

// NewAttributes builds a collection from alternating key/value strings.
// A trailing key without value is ignored.
func NewAttributes(keyValues ...string) Attributes {
	var a Attributes
	for i := 1; i < len(keyValues); i += 2 {
		a.AddOrReplace(keyValues[i-1], keyValues[i])
	}
	return a
}

// AttributesFromMap builds a collection from a map, ordered by key.
func AttributesFromMap(m map[string]string) Attributes {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sortStrings(keys)

	var a Attributes
	for _, k := range keys {
		a.AddOrReplace(k, m[k])
	}
	return a
}

// AddOrReplace sets the value for key, keeping the original position of an
// existing key.
func (a *Attributes) AddOrReplace(key, value string) {
	for i := range a.items {
		if a.items[i].Key == key {
			a.items[i].Value = value
			return
		}
	}
	a.items = append(a.items, Attribute{Key: key, Value: value})
}

// TryGetValue returns the value for key.
func (a Attributes) TryGetValue(key string) (string, bool) {
	for _, item := range a.items {
		if item.Key == key {
			return item.Value, true
		}
	}
	return "", false
}

// Get returns the value for key or "".
func (a Attributes) Get(key string) string {
	v, _ := a.TryGetValue(key)
	return v
}

// Len number of attributes.
func (a Attributes) Len() int {
	return len(a.items)
}

// Keys returns the keys in insertion order.
func (a Attributes) Keys() []string {
	keys := make([]string, len(a.items))
	for i, item := range a.items {
		keys[i] = item.Key
	}
	return keys
}

// Items returns a copy of the attributes in insertion order.
func (a Attributes) Items() []Attribute {
	out := make([]Attribute, len(a.items))
	copy(out, a.items)
	return out
}

// Equal reports whether both collections hold the same pairs in the same order.
func (a Attributes) Equal(other Attributes) bool {
	if len(a.items) != len(other.items) {
		return false
	}
	for i := range a.items {
		if a.items[i] != other.items[i] {
			return false
		}
	}
	return true
}

// String renders "k=v,k=v".
func (a Attributes) String() string {
	parts := make([]string, 0, len(a.items))
	for _, item := range a.items {
		parts = append(parts, item.Key+"="+item.Value)
	}
	return strings.Join(parts, ",")
}

// MarshalJSON encodes the collection as a JSON object.
func (a Attributes) MarshalJSON() ([]byte, error) {
	return marshalAttributes(a.items)
}

// UnmarshalJSON decodes a JSON object into the collection, ordered by key.
func (a *Attributes) UnmarshalJSON(data []byte) error {
	m, err := unmarshalAttributes(data)
	if err != nil {
		return err
	}
	*a = AttributesFromMap(m)
	return nil
}
