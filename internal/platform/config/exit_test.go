package config

import (
	"bytes"
	"testing"
)

func TestExitfWritesMessageAndExitsWithCode1(t *testing.T) {
	var out bytes.Buffer
	var code int
	prevOut, prevExit := exitStderr, exitFunc
	exitStderr = &out
	exitFunc = func(c int) { code = c }
	t.Cleanup(func() {
		exitStderr = prevOut
		exitFunc = prevExit
	})

	Exitf("fatal: %s", "something broke")

	if code != 1 {
		t.Fatalf("expected exit code 1, got %d", code)
	}
	if out.String() != "fatal: something broke\n" {
		t.Fatalf("unexpected stderr %q", out.String())
	}
}
