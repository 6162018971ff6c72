// Package tokenstream implements the minimal §6.1 token stream format:
// nested labelled sections with string/integer/identifier tokens and a
// <Flags value="0x.."/> element for event/state attribute words. It is
// deliberately small: no Base64 blob sections (DataFile/ImageFile stay
// out of scope), no DOT or FREF reading. It exists to give cmd/pdsynth
// something to read plant/spec automata from and write results to.
package tokenstream

import "github.com/FGDES/pdsynth/symtab"

// Kind discriminates the token types this format supports.
type Kind int

const (
	// Begin opens a labelled section, e.g. "<Generator>".
	Begin Kind = iota
	// End closes the most recently opened section, e.g. "</Generator>".
	End
	// String is a double-quoted token, e.g. "q0".
	String
	// Int is a decimal or 0x-prefixed hexadecimal integer.
	Int
	// Ident is a bare identifier, used for event/state names without
	// embedded whitespace.
	Ident
	// Flags is a self-closed "<Flags value=\"0x..\"/>" element.
	Flags
)

// Token is one lexical unit of a token stream.
type Token struct {
	Kind  Kind
	Label string // section name for Begin/End
	Text  string // literal text for String/Ident
	Int   int64  // value for Int
	Flags symtab.Flags
}
