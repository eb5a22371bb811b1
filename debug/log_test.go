package debug

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLogWritesCategories(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "debug.log")
	if err := EnableTo(path); err != nil {
		t.Fatalf("EnableTo: %v", err)
	}

	Log("midi", "sent cc %d = %d", 14, 64)
	for i := 0; i < 4; i++ {
		LogEvery(2, "tick", "processed")
	}
	Disable()

	Log("midi", "after disable")

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	out := string(data)

	if !strings.Contains(out, "midi") || !strings.Contains(out, "sent cc 14 = 64") {
		t.Fatalf("missing midi entry:\n%s", out)
	}
	if n := strings.Count(out, "processed (every 2"); n != 2 {
		t.Fatalf("LogEvery wrote %d entries, want 2:\n%s", n, out)
	}
	if strings.Contains(out, "after disable") {
		t.Fatal("logged after Disable")
	}
	if Enabled() {
		t.Fatal("still enabled")
	}
}
