// Package sharelink encodes cabinet parameters into URL tokens and back.
package sharelink

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"net/url"
	"strconv"
	"strings"

	"github.com/Simplici0/cabkit/internal/cabinet"
)

// QueryKey is the query parameter that carries a share token.
const QueryKey = "cabkit"

var ErrInvalidToken = errors.New("invalid share token")

// Encode returns a URL-safe token for p.
func Encode(p cabinet.Params) (string, error) {
	data, err := json.Marshal(p)
	if err != nil {
		return "", fmt.Errorf("encode share params: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(data), nil
}

// Decode parses a token into a raw parameter map. Unknown keys are dropped
// and numeric fields that are not finite numbers are skipped. The result is
// meant for cabinet.ParseRaw.
func Decode(token string) (map[string]any, error) {
	data, err := decodeBase64(strings.TrimSpace(token))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	var payload map[string]any
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	out := make(map[string]any, len(payload))
	for key, v := range payload {
		numeric, known := fields[key]
		if !known {
			continue
		}
		if !numeric {
			out[key] = v
			continue
		}
		if n, ok := finite(v); ok {
			out[key] = n
		}
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("%w: no parameters", ErrInvalidToken)
	}
	return out, nil
}

// BuildURL sets the share token on base's query string.
func BuildURL(base string, p cabinet.Params) (string, error) {
	u, err := url.Parse(base)
	if err != nil {
		return "", fmt.Errorf("parse base url: %w", err)
	}
	token, err := Encode(p)
	if err != nil {
		return "", err
	}
	q := u.Query()
	q.Set(QueryKey, token)
	u.RawQuery = q.Encode()
	return u.String(), nil
}

// Accepts tokens produced by either base64 alphabet, padded or not.
func decodeBase64(s string) ([]byte, error) {
	if s == "" {
		return nil, errors.New("empty token")
	}
	if unescaped, err := url.PathUnescape(s); err == nil {
		s = unescaped
	}
	s = strings.TrimRight(s, "=")
	if data, err := base64.RawURLEncoding.DecodeString(s); err == nil {
		return data, nil
	}
	return base64.RawStdEncoding.DecodeString(s)
}

func finite(v any) (float64, bool) {
	var n float64
	switch x := v.(type) {
	case float64:
		n = x
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(x), 64)
		if err != nil {
			return 0, false
		}
		n = parsed
	default:
		return 0, false
	}
	if math.IsNaN(n) || math.IsInf(n, 0) {
		return 0, false
	}
	return n, true
}

// fields maps every parameter key to whether it is numeric.
var fields = map[string]bool{
	"width":             true,
	"height":            true,
	"depth":             true,
	"thickness":         true,
	"backThickness":     true,
	"doorCount":         true,
	"gap":               true,
	"doorThickness":     true,
	"shelfCount":        true,
	"material":          false,
	"handle":            false,
	"handlePosition":    false,
	"handleOrientation": false,
	"hingeSide":         false,
	"pricingPreset":     false,
}
