package slot

import (
	"context"
	"errors"
	"testing"
)

func TestMemoryRoundTrip(t *testing.T) {
	ctx := context.Background()
	m := NewMemory(DefaultKey)

	if _, err := m.Read(ctx); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound on empty slot, got %v", err)
	}
	if err := m.Write(ctx, []byte(`{"people":[]}`)); err != nil {
		t.Fatalf("write: %v", err)
	}
	got, err := m.Read(ctx)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if string(got) != `{"people":[]}` {
		t.Fatalf("unexpected payload: %s", got)
	}

	// Returned buffer is a copy.
	got[0] = 'X'
	again, _ := m.Read(ctx)
	if string(again) != `{"people":[]}` {
		t.Fatalf("slot payload aliased to caller buffer: %s", again)
	}
	if m.Writes() != 1 {
		t.Fatalf("expected 1 write, got %d", m.Writes())
	}
}

func TestOpenSelectsDriverFromEnv(t *testing.T) {
	ctx := context.Background()

	t.Setenv("RIMBORSIKM_SLOT_DRIVER", "memory")
	s, err := Open(ctx)
	if err != nil {
		t.Fatalf("open memory: %v", err)
	}
	if s.Driver() != DriverMemory {
		t.Fatalf("expected memory driver, got %s", s.Driver())
	}

	t.Setenv("RIMBORSIKM_SLOT_DRIVER", "fs")
	t.Setenv("RIMBORSIKM_SLOT_FS_ROOT", t.TempDir())
	s, err = Open(ctx)
	if err != nil {
		t.Fatalf("open fs: %v", err)
	}
	if s.Driver() != DriverFilesystem {
		t.Fatalf("expected fs driver, got %s", s.Driver())
	}

	t.Setenv("RIMBORSIKM_SLOT_DRIVER", "bogus")
	if _, err := Open(ctx); err == nil {
		t.Fatalf("expected error for unknown driver")
	}
}

func TestOpenDefaultsToFilesystem(t *testing.T) {
	t.Setenv("RIMBORSIKM_SLOT_DRIVER", "")
	t.Setenv("RIMBORSIKM_SLOT_FS_ROOT", t.TempDir())
	s, err := Open(context.Background())
	if err != nil {
		t.Fatalf("open default: %v", err)
	}
	if s.Driver() != DriverFilesystem {
		t.Fatalf("expected fs default, got %s", s.Driver())
	}
}

func TestValidateKey(t *testing.T) {
	for _, bad := range []string{"", "  ", "../escape", "a/b", `a\b`} {
		if err := validateKey(bad); err == nil {
			t.Fatalf("expected rejection of key %q", bad)
		}
	}
	if err := validateKey(DefaultKey); err != nil {
		t.Fatalf("default key rejected: %v", err)
	}
}
