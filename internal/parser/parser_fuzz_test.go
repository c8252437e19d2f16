//go:build go1.18
// +build go1.18

package parser

import (
	"testing"
)

// FuzzParse throws random inputs at the parser to find panics and
// violations of the all-or-nothing contract.
// Run with: go test -fuzz=FuzzParse -fuzztime=30s ./internal/parser
func FuzzParse(f *testing.F) {
	seeds := []string{
		"",
		"a",
		"a,b,c",
		"a,b,c\n",
		"a,b\nc,d",
		"\"quoted\"",
		"\"with,comma\"",
		"\"with\"\"quote\"",
		"\"multi\nline\"",
		"a,\"b\",c",
		"\r\n",
		"a\r\nb",
		"a,b,c\r\nd,e,f",
		",,",
		"\"\"",
		"\"\"\"\"",
		"a,\"b,c\",d",
		"\"a\"\"b\"",
		"\"a\" ",
		"  \"a\"",
		"héllo,wörld",
		"\"a\xffb\",c\xffd",
	}

	for _, s := range seeds {
		f.Add(s)
	}

	f.Fuzz(func(t *testing.T, input string) {
		records, diags := New(',', input).Parse()
		if records != nil && diags != nil {
			t.Errorf("Parse(%q) returned both records and diagnostics", input)
		}
		if records == nil && diags == nil {
			t.Errorf("Parse(%q) returned neither records nor diagnostics", input)
		}
		if diags == nil && len(records) == 0 {
			t.Errorf("Parse(%q) succeeded with zero records", input)
		}
	})
}
