package logging

import (
	"bytes"
	stdlog "log"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// TestValidateLogLevel tests the canonical log level validation
func TestValidateLogLevel(t *testing.T) {
	tests := []struct {
		name    string
		level   string
		wantErr bool
	}{
		{"debug", "DEBUG", false},
		{"info", "INFO", false},
		{"warn", "WARN", false},
		{"error", "ERROR", false},
		{"lowercase rejected", "info", true},
		{"empty rejected", "", true},
		{"unknown rejected", "TRACE", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateLogLevel(tt.level)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateLogLevel(%q) = %v, wantErr %v", tt.level, err, tt.wantErr)
			}
		})
	}
}

// TestFormatID tests context-aware identifier truncation
func TestFormatID(t *testing.T) {
	longID := "a1b2c3d4e5f6a7b8c9d0e1f2a3b4c5d6"

	SetLevel("INFO")
	if got := FormatID(longID); got != longID[:12] {
		t.Errorf("FormatID at INFO = %q, want %q", got, longID[:12])
	}
	if got := FormatID("short"); got != "short" {
		t.Errorf("FormatID(short) = %q, want unchanged", got)
	}

	SetLevel("DEBUG")
	if got := FormatID(longID); got != longID {
		t.Errorf("FormatID at DEBUG = %q, want full ID", got)
	}

	// Restore default level for other tests
	SetLevel("INFO")
}

// TestFormatReceiptID tests the receipt-specific wrapper
func TestFormatReceiptID(t *testing.T) {
	SetLevel("INFO")
	id := "deadbeefdeadbeefdeadbeef"
	if got := FormatReceiptID(id); got != id[:12] {
		t.Errorf("FormatReceiptID = %q, want %q", got, id[:12])
	}
}

// newLogFile creates a log file the tests can read back after writing
func newLogFile(t *testing.T) (*os.File, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "relay.log")
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create log file: %v", err)
	}
	t.Cleanup(func() { f.Close() })
	return f, path
}

// TestSetOutputToFile tests redirecting all log output to a single file,
// the daemon's --log-file mode
func TestSetOutputToFile(t *testing.T) {
	f, path := newLogFile(t)

	SetOutput(f)
	t.Cleanup(RestoreOutput)
	SetLevel("INFO")

	Info("file sink line %d", 7)
	Error("file sink error")

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	if !strings.Contains(string(data), "file sink line 7") {
		t.Errorf("log file missing info line, got %q", string(data))
	}
	if !strings.Contains(string(data), "file sink error") {
		t.Errorf("log file missing error line, got %q", string(data))
	}
}

// TestSuppressOutput tests the error-only mode CLI tools use by default:
// info output is dropped while errors still get through
func TestSuppressOutput(t *testing.T) {
	f, path := newLogFile(t)

	SetOutput(f)
	t.Cleanup(RestoreOutput)
	SetLevel("INFO")
	SuppressOutput()

	Info("hidden info line")
	Error("visible error line")

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	if strings.Contains(string(data), "hidden info line") {
		t.Errorf("suppressed output still contains info line: %q", string(data))
	}
	if !strings.Contains(string(data), "visible error line") {
		t.Errorf("suppressed output dropped error line, got %q", string(data))
	}
	if !IsConfiguredByCLI() {
		t.Error("IsConfiguredByCLI() = false after SuppressOutput")
	}
}

// TestRedirectStandardLog tests capturing the standard library logger, which
// net/http uses for internal server errors
func TestRedirectStandardLog(t *testing.T) {
	var buf bytes.Buffer
	RedirectStandardLog(&buf)
	t.Cleanup(func() { stdlog.SetOutput(os.Stderr) })

	stdlog.Print("captured server line")
	if !strings.Contains(buf.String(), "captured server line") {
		t.Errorf("redirected standard log output = %q, want captured line", buf.String())
	}

	// nil routes the standard logger to io.Discard
	before := buf.Len()
	RedirectStandardLog(nil)
	stdlog.Print("discarded line")
	if buf.Len() != before {
		t.Errorf("standard log still writing after nil redirect: %q", buf.String())
	}
}
