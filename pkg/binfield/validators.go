package binfield

import (
	"bytes"
	"fmt"
)

// MagicBytes returns a validator requiring a decoded byte run to equal want.
// File magics use it to reject foreign input at the first field.
func MagicBytes(want []byte) Validator {
	return func(value any) error {
		got, ok := value.([]byte)
		if !ok {
			return fmt.Errorf("expected bytes, got %T", value)
		}
		if !bytes.Equal(got, want) {
			return fmt.Errorf("bad magic: got %q, want %q", got, want)
		}
		return nil
	}
}
