package geo

import (
	"bytes"
	"encoding/json"
	"sort"
)

func marshalAttributes(items []Attribute) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, item := range items {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(item.Key)
		if err != nil {
			return nil, err
		}
		v, err := json.Marshal(item.Value)
		if err != nil {
			return nil, err
		}
		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func unmarshalAttributes(data []byte) (map[string]string, error) {
	m := make(map[string]string)
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, err
	}
	return m, nil
}

func sortStrings(s []string) {
	sort.Strings(s)
}
