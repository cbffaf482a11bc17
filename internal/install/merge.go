// Package install writes principal-md into the MCP server configuration of
// editor and assistant applications.
//
// The merge step is a pure function over bytes so it can be tested without a
// filesystem. Existing keys keep their order and their exact values; only the
// principal-md entry under "mcpServers" is added or replaced.
package install

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// ServersKey is the top-level key holding MCP server entries.
const ServersKey = "mcpServers"

var (
	// ErrMalformed is returned when an existing config file is not valid JSON.
	ErrMalformed = errors.New("existing config is not valid JSON")
	// ErrNotObject is returned when an existing config, or its mcpServers
	// value, is valid JSON but not an object.
	ErrNotObject = errors.New("existing config is not a JSON object")
)

type object = orderedmap.OrderedMap[string, json.RawMessage]

// Merge returns existing with entry stored at mcpServers[key].
//
// Empty input is treated as {}. Input that is not a JSON object is rejected
// rather than replaced, so unrelated user settings are never discarded.
// The output is indented with two spaces and ends in a newline.
func Merge(existing []byte, key string, entry any) ([]byte, error) {
	root, err := parseObject(existing, "")
	if err != nil {
		return nil, err
	}

	var servers *object
	if raw, ok := root.Get(ServersKey); ok && !isNull(raw) {
		if servers, err = parseObject(raw, ServersKey); err != nil {
			return nil, err
		}
	} else {
		servers = orderedmap.New[string, json.RawMessage]()
	}

	entryRaw, err := encode(entry)
	if err != nil {
		return nil, fmt.Errorf("encoding entry: %w", err)
	}
	servers.Set(key, entryRaw)

	serversRaw, err := encodeObject(servers)
	if err != nil {
		return nil, fmt.Errorf("encoding %s: %w", ServersKey, err)
	}
	root.Set(ServersKey, serversRaw)

	compact, err := encodeObject(root)
	if err != nil {
		return nil, fmt.Errorf("encoding config: %w", err)
	}
	var out bytes.Buffer
	if err := json.Indent(&out, compact, "", "  "); err != nil {
		return nil, fmt.Errorf("encoding config: %w", err)
	}
	out.WriteByte('\n')
	return out.Bytes(), nil
}

// encode marshals v without HTML escaping.
func encode(v any) ([]byte, error) {
	var b bytes.Buffer
	enc := json.NewEncoder(&b)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimSuffix(b.Bytes(), []byte("\n")), nil
}

// encodeObject writes obj in insertion order. Values are copied byte for
// byte; json.Marshal would re-escape &, < and > inside existing strings.
func encodeObject(obj *object) ([]byte, error) {
	var b bytes.Buffer
	b.WriteByte('{')
	for pair := obj.Oldest(); pair != nil; pair = pair.Next() {
		if b.Len() > 1 {
			b.WriteByte(',')
		}
		k, err := encode(pair.Key)
		if err != nil {
			return nil, err
		}
		b.Write(k)
		b.WriteByte(':')
		b.Write(pair.Value)
	}
	b.WriteByte('}')
	return b.Bytes(), nil
}

// parseObject decodes data into an ordered object. field names the value in
// errors; empty means the document root.
func parseObject(data []byte, field string) (*object, error) {
	obj := orderedmap.New[string, json.RawMessage]()

	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return obj, nil
	}
	if !json.Valid(trimmed) {
		return nil, ErrMalformed
	}
	if trimmed[0] != '{' {
		if field != "" {
			return nil, fmt.Errorf("%w: %s", ErrNotObject, field)
		}
		return nil, ErrNotObject
	}
	if err := json.Unmarshal(trimmed, obj); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	return obj, nil
}

func isNull(raw json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}
