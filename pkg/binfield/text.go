package binfield

import (
	"golang.org/x/text/encoding"
)

// decodeText converts wire bytes to a string through enc. A nil encoding
// means the bytes already are UTF-8 and pass through unchanged.
func decodeText(data []byte, enc encoding.Encoding) (string, error) {
	if enc == nil {
		return string(data), nil
	}
	decoded, err := enc.NewDecoder().Bytes(data)
	if err != nil {
		return "", err
	}
	return string(decoded), nil
}

// encodeText converts a string to wire bytes through enc. A nil encoding
// passes the UTF-8 bytes through unchanged.
func encodeText(s string, enc encoding.Encoding) ([]byte, error) {
	if enc == nil {
		return []byte(s), nil
	}
	return enc.NewEncoder().Bytes([]byte(s))
}
