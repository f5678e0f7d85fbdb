package parser_test

import (
	"testing"

	"github.com/icelang/ice/pkg/parser"
)

// FuzzParse feeds random inputs to the parser to catch panics.
// The parser should never panic — it should return an error for invalid input.
func FuzzParse(f *testing.F) {
	// Seed corpus with valid and edge-case Ice programs
	seeds := []string{
		// Minimal valid programs
		`write 1;`,
		`write "hello";`,
		`x := 5;`,
		// Assignments and variables
		`x := 1; y := x + 1; write y;`,
		// Time assignment
		`x := 5; time x := now; write time x;`,
		`time x := 14:30;`,
		// Control flow
		`if true then write 1; endif;`,
		`if x iswithin 1 to 10 then write 1; else write 2; endif;`,
		`for i in [1, 2, 3] do write i; enddo;`,
		`for i in 1 ... 10 do trace i; enddo;`,
		// Nested blocks
		`if true then for i in [1] do write i; enddo; endif;`,
		// Operators
		`write 1 + 2 * 3 ^ 4;`,
		`write "a" & "b" & 42;`,
		`write sqrt 4 + 5;`,
		`write (sqrt 4) + 5;`,
		`write -x;`,
		`write maximum [1, 2, 3];`,
		`write increase [100, 200, 150];`,
		`write 5 isnotwithin 1 to 10;`,
		// Lists
		`write [];`,
		`write [1, "a", [2, 3], null];`,
		// Literals
		`write 14:30:15;`,
		`write true; write false; write null;`,
		`write now; write currenttime;`,
		// Comments
		`// comment
write 1;`,
		// Empty and whitespace
		``,
		`   `,
		// Malformed
		`write 1`,
		`write ;`,
		`x :=;`,
		`if true then`,
		`for i in do enddo;`,
		`write [1, 2;`,
		`write (1;`,
		`write 1 iswithin 2;`,
		`time 5;`,
		`enddo;`,
		`"unterminated`,
	}

	for _, s := range seeds {
		f.Add(s)
	}

	f.Fuzz(func(t *testing.T, input string) {
		// parser.Parse should never panic, regardless of input.
		// It may return an error, but should not crash.
		func() {
			defer func() {
				if r := recover(); r != nil {
					t.Fatalf("parser.Parse panicked on input %q: %v", input, r)
				}
			}()
			parser.Parse(input, "fuzz.ice")
		}()
	})
}
