// Package id generates and validates the opaque, collision-resistant
// identifiers used throughout StreamLib: ProcessorId, LinkId, and
// RuntimeId.
package id

import (
	"strings"

	gonanoid "github.com/matoous/go-nanoid/v2"
)

// Kind tags which entity an id belongs to, purely for the log-friendly
// prefix character.
type Kind byte

const (
	KindProcessor Kind = 'P'
	KindLink      Kind = 'L'
	KindRuntime   Kind = 'R'
)

// suffixLength is the number of random characters generated after the
// prefix, comfortably above a 20-character collision-resistance floor.
const suffixLength = 21

// generationAlphabet is the alphabet new ids are minted from. It is a
// subset of validAlphabet: we only ever generate from this narrower,
// URL-safe set, but we accept the wider set (below) when parsing ids
// that may have come from logs or another implementation's wire format.
const generationAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789_-"

// validAlphabet is the full accepted alphabet for Parse: alphanumeric
// plus `_-.>:`.
const validAlphabet = generationAlphabet + ".>:"

// New mints a fresh id of the given kind.
func New(k Kind) string {
	suffix, err := gonanoid.Generate(generationAlphabet, suffixLength)
	if err != nil {
		// gonanoid.Generate only fails if crypto/rand is broken; that is
		// unrecoverable for the whole process, not something a caller
		// can meaningfully handle.
		panic("id: failed to generate random suffix: " + err.Error())
	}
	return string(k) + suffix
}

// NewProcessorId mints a fresh ProcessorId-shaped string ("P...").
func NewProcessorId() string { return New(KindProcessor) }

// NewLinkId mints a fresh LinkId-shaped string ("L...").
func NewLinkId() string { return New(KindLink) }

// NewRuntimeId mints a fresh RuntimeId-shaped string ("R...").
func NewRuntimeId() string { return New(KindRuntime) }

// Valid reports whether s is a syntactically well-formed id: non-empty
// and composed entirely of characters from validAlphabet.
func Valid(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !strings.ContainsRune(validAlphabet, r) {
			return false
		}
	}
	return true
}

// KindOf returns the Kind encoded in the id's prefix character, and
// whether the id was non-empty and thus had one.
func KindOf(s string) (Kind, bool) {
	if s == "" {
		return 0, false
	}
	return Kind(s[0]), true
}
