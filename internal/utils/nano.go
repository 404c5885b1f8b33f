package utils

import gonanoid "github.com/matoous/go-nanoid/v2"

// Row identifiers are 32-character alphanumeric NanoIDs. Storage keys
// use shorter ones via NanoIDSize.
var (
	NanoidSize     = 32
	nanoidAlphabet = "0123456789abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ"
)

// NanoID returns a fresh identifier at the default size.
func NanoID() string {
	return NanoIDSize(NanoidSize)
}

func NanoIDSize(size int) string {
	if size <= 0 {
		size = NanoidSize
	}

	return gonanoid.MustGenerate(nanoidAlphabet, size)
}
