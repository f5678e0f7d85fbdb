package lexer

import (
	"testing"
)

// FuzzTokenize feeds random inputs to the lexer to catch panics.
// The lexer should never panic — it should return an error for invalid input.
func FuzzTokenize(f *testing.F) {
	// Seed corpus with valid tokens and edge cases
	seeds := []string{
		// Keywords
		`write trace if then else endif for in do enddo`,
		`true false null now currenttime`,
		`time sqrt uppercase maximum minimum average count sum`,
		`first last increase isnumber islist iswithin isnotwithin to`,
		// Literals
		`42 3.25 0 00 0.0`,
		`"hello" 'single'`,
		`14:30 9:05:59 23:59`,
		// Operators
		`+ - * / ^ &`,
		`:= ; , [ ] ( ) ...`,
		// Identifiers
		`x foo bar_baz MyVar`,
		// Comments
		`// a comment`,
		`write 1; // trailing`,
		// Mixed
		`x := [1, 2, 3]; write maximum x;`,
		`trace 1 iswithin 0 to 2;`,
		// Edge cases
		``,
		`   `,
		"\t\n\r",
		`"unterminated`,
		`'`,
		`:`,
		`.`,
		`..`,
		`...`,
		`1.`,
		`1...5`,
		`25:00`,
		`1:60`,
		`99:99:99`,
		`@#$%`,
		"\x00",
		// Long input
		`aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa := 1;`,
	}

	for _, s := range seeds {
		f.Add(s)
	}

	f.Fuzz(func(t *testing.T, input string) {
		// Tokenize should never panic, regardless of input.
		func() {
			defer func() {
				if r := recover(); r != nil {
					t.Fatalf("Tokenize panicked on input %q: %v", input, r)
				}
			}()
			Tokenize(input, "fuzz.ice")
		}()
	})
}
