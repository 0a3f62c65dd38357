package main

import (
	"bytes"
	"strings"
	"testing"
)

func TestRunDedupe(t *testing.T) {
	var out bytes.Buffer
	if err := runDedupe(nil, strings.NewReader("TOAST BREAD TOAST BREAD\n\nBURGER\n"), &out); err != nil {
		t.Fatalf("runDedupe: %v", err)
	}
	want := "TOAST BREAD TOAST BREAD\tTOAST BREAD\ttrue\nBURGER\tBURGER\tfalse\n"
	if out.String() != want {
		t.Fatalf("output = %q, want %q", out.String(), want)
	}
}
