package commands

import (
	"encoding/hex"
	"fmt"
	"math/big"
	"sort"
	"strings"

	"github.com/chaisql/packstream"
)

// formatValue renders a decoded value as a compact, stable string for
// terminal inspection. It is not meant to round-trip back through
// jsonToValue — decode output is for humans reading packcli's stdout.
func formatValue(v any) string {
	switch x := v.(type) {
	case nil:
		return "null"
	case bool:
		if x {
			return "true"
		}
		return "false"
	case packstream.I64:
		return fmt.Sprintf("%d", x.Int64())
	case *big.Int:
		return x.String()
	case float64:
		return fmt.Sprintf("%g", x)
	case string:
		return fmt.Sprintf("%q", x)
	case []byte:
		return "0x" + hex.EncodeToString(x)
	case []any:
		parts := make([]string, len(x))
		for i, e := range x {
			parts[i] = formatValue(e)
		}
		return "[" + strings.Join(parts, ", ") + "]"
	case map[string]any:
		keys := make([]string, 0, len(x))
		for k := range x {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		parts := make([]string, len(keys))
		for i, k := range keys {
			parts[i] = fmt.Sprintf("%q: %s", k, formatValue(x[k]))
		}
		return "{" + strings.Join(parts, ", ") + "}"
	case *packstream.Structure:
		parts := make([]string, len(x.Fields))
		for i, f := range x.Fields {
			parts[i] = formatValue(f)
		}
		return fmt.Sprintf("Structure(0x%02X)[%s]", x.Signature, strings.Join(parts, ", "))
	default:
		return fmt.Sprintf("%v", x)
	}
}
