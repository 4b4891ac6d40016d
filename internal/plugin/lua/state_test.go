package lua

import (
	"context"
	"errors"
	"testing"
	"time"

	lua "github.com/yuin/gopher-lua"
)

func TestStateSandbox(t *testing.T) {
	s := NewState()
	defer s.Close()

	tests := []struct {
		name string
		code string
	}{
		{"io", `io.open("/etc/passwd")`},
		{"os", `os.execute("true")`},
		{"dofile", `dofile("/tmp/x.lua")`},
		{"loadstring", `loadstring("return 1")()`},
		{"require", `require("os")`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := s.DoString(context.Background(), tt.code); err == nil {
				t.Errorf("%s should be unavailable", tt.name)
			}
		})
	}

	if err := s.DoString(context.Background(), `x = string.upper("ok") .. math.floor(1.5) .. table.concat({"a"})`); err != nil {
		t.Fatalf("safe libraries failed: %v", err)
	}
	if got := lua.LVAsString(s.L.GetGlobal("x")); got != "OK1a" {
		t.Errorf("x = %q, want OK1a", got)
	}
}

func TestStateTimeout(t *testing.T) {
	s := NewState(WithExecutionTimeout(50 * time.Millisecond))
	defer s.Close()

	err := s.DoString(context.Background(), `while true do end`)
	if !errors.Is(err, ErrExecutionTimeout) {
		t.Errorf("error = %v, want ErrExecutionTimeout", err)
	}

	// The state stays usable after a timeout.
	if err := s.DoString(context.Background(), `y = 1`); err != nil {
		t.Errorf("DoString after timeout failed: %v", err)
	}
}

func TestStateCancel(t *testing.T) {
	s := NewState(WithExecutionTimeout(0))
	defer s.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := s.DoString(ctx, `while true do end`); !errors.Is(err, context.Canceled) {
		t.Errorf("error = %v, want context.Canceled", err)
	}
}

func TestStateClosed(t *testing.T) {
	s := NewState()
	if err := s.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
	if !s.IsClosed() {
		t.Error("IsClosed() = false after Close")
	}
	if err := s.DoString(context.Background(), `x = 1`); !errors.Is(err, ErrStateClosed) {
		t.Errorf("error = %v, want ErrStateClosed", err)
	}
	if err := s.Close(); err != nil {
		t.Errorf("second Close failed: %v", err)
	}
}
