package keyboard

import (
	"fmt"
	"strconv"
	"strings"
)

// String returns the human-readable name of the key, or its hex value when unnamed.
func (c Code) String() string {
	if n, ok := codeNames[c]; ok {
		return n
	}
	return fmt.Sprintf("0x%02x", uint8(c))
}

// ParseCode looks up a key by name (case-insensitive) or accepts a decimal
// or 0x-prefixed usage code.
func ParseCode(s string) (Code, error) {
	if c, ok := namedCodes[strings.ToLower(s)]; ok {
		return c, nil
	}
	if v, err := strconv.ParseUint(s, 0, 8); err == nil {
		return Code(v), nil
	}
	return 0, fmt.Errorf("unknown key %q", s)
}

// MarshalText encodes the key by name so configuration and JSON stay readable.
func (c Code) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler via ParseCode.
func (c *Code) UnmarshalText(b []byte) error {
	v, err := ParseCode(string(b))
	if err != nil {
		return err
	}
	*c = v
	return nil
}

