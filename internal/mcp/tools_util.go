// tools_util.go decodes tool arguments into typed payloads.
//
// Each tool has its own argument struct. Arguments are checked against the
// declared schema here, before any bridge call: required strings must be
// present, optional fields must have the declared type when given. A JSON
// null counts as absent. Deeper checks (does the file exist, is the markdown
// sensible) stay with the bridge.

package mcp

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"

	"github.com/jpl-au/principal-md/internal/bridge"
	"github.com/mark3labs/mcp-go/mcp"
)

// errInvalidArgument marks a request the tool rejected before calling the bridge.
var errInvalidArgument = errors.New("invalid argument")

func invalid(format string, a ...any) error {
	return fmt.Errorf("%w: %s", errInvalidArgument, fmt.Sprintf(format, a...))
}

// decodeShowArgs builds the show-markdown payload.
func decodeShowArgs(args map[string]any) (bridge.MarkdownContent, error) {
	var m bridge.MarkdownContent

	content, err := requiredString(args, "content")
	if err != nil {
		return m, err
	}
	m.Content = content

	if m.Title, err = optionalString(args, "title"); err != nil {
		return m, err
	}

	if v, ok := present(args, "metadata"); ok {
		obj, isObj := v.(map[string]any)
		if !isObj {
			return m, invalid("metadata must be an object")
		}
		raw, err := json.Marshal(obj)
		if err != nil {
			return m, invalid("metadata: %v", err)
		}
		m.Metadata = raw
	}
	return m, nil
}

// decodeOpenArgs builds the open-file payload.
func decodeOpenArgs(args map[string]any) (bridge.FileOpenRequest, error) {
	var r bridge.FileOpenRequest

	p, err := requiredString(args, "filePath")
	if err != nil {
		return r, err
	}
	r.FilePath = p

	if v, ok := present(args, "lineNumber"); ok {
		// JSON numbers decode as float64
		f, isNum := v.(float64)
		if !isNum || f < 0 || f != math.Trunc(f) || f > math.MaxInt32 {
			return r, invalid("lineNumber must be a non-negative integer")
		}
		n := int(f)
		r.LineNumber = &n
	}
	return r, nil
}

// present returns the argument value unless it is missing or null.
func present(args map[string]any, name string) (any, bool) {
	v, ok := args[name]
	if !ok || v == nil {
		return nil, false
	}
	return v, true
}

func requiredString(args map[string]any, name string) (string, error) {
	v, ok := present(args, name)
	if !ok {
		return "", invalid("%s is required", name)
	}
	s, ok := v.(string)
	if !ok {
		return "", invalid("%s must be a string", name)
	}
	return s, nil
}

func optionalString(args map[string]any, name string) (*string, error) {
	v, ok := present(args, name)
	if !ok {
		return nil, nil
	}
	s, ok := v.(string)
	if !ok {
		return nil, invalid("%s must be a string", name)
	}
	return &s, nil
}

// jsonResult serialises v as indented JSON in a text result.
func jsonResult(v any) *mcp.CallToolResult {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(err.Error())
	}
	return mcp.NewToolResultText(string(data))
}
