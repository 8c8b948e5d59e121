package validate

import (
	"strings"
	"testing"
)

// TestParseBindAddress_Valid tests ParseBindAddress with well-formed addresses
func TestParseBindAddress_Valid(t *testing.T) {
	tests := []struct {
		name     string
		addr     string
		wantHost string
		wantPort int
	}{
		{"loopback", "127.0.0.1:8418", "127.0.0.1", 8418},
		{"all interfaces", "0.0.0.0:9000", "0.0.0.0", 9000},
		{"private range", "192.168.1.10:4200", "192.168.1.10", 4200},
		{"high port", "10.0.0.1:65535", "10.0.0.1", 65535},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			na, err := ParseBindAddress(tt.addr)
			if err != nil {
				t.Fatalf("ParseBindAddress(%q) = %v, want nil", tt.addr, err)
			}
			if na.Host != tt.wantHost {
				t.Errorf("Host = %q, want %q", na.Host, tt.wantHost)
			}
			if na.Port != tt.wantPort {
				t.Errorf("Port = %d, want %d", na.Port, tt.wantPort)
			}
			if na.String() != tt.addr {
				t.Errorf("String() = %q, want %q", na.String(), tt.addr)
			}
		})
	}
}

// TestParseBindAddress_Invalid tests ParseBindAddress error handling
func TestParseBindAddress_Invalid(t *testing.T) {
	tests := []struct {
		name string
		addr string
	}{
		{"empty", ""},
		{"missing port", "127.0.0.1"},
		{"non-numeric port", "127.0.0.1:http"},
		{"port out of range", "127.0.0.1:70000"},
		{"hostname not IP", "ledger.example.com:8418"},
		{"garbage", "not-an-address"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ParseBindAddress(tt.addr); err == nil {
				t.Errorf("ParseBindAddress(%q) = nil, want error", tt.addr)
			}
		})
	}
}

// TestValidateField tests single-field validation against validator tags
func TestValidateField(t *testing.T) {
	if err := ValidateField("192.168.1.1", "required,ip"); err != nil {
		t.Errorf("ValidateField(valid ip) = %v, want nil", err)
	}
	if err := ValidateField("not-an-ip", "required,ip"); err == nil {
		t.Error("ValidateField(invalid ip) = nil, want error")
	}
	if err := ValidateField(0, "required,min=1,max=65535"); err == nil {
		t.Error("ValidateField(0, port range) = nil, want error")
	}
}

// TestValidateHelpers tests the shared config validation helpers
func TestValidateHelpers(t *testing.T) {
	if err := ValidatePortRange(8418); err != nil {
		t.Errorf("ValidatePortRange(8418) = %v, want nil", err)
	}
	if err := ValidatePortRange(0); err == nil {
		t.Error("ValidatePortRange(0) = nil, want error")
	}

	if err := ValidateRequiredString("x", "field"); err != nil {
		t.Errorf("ValidateRequiredString(non-empty) = %v, want nil", err)
	}
	err := ValidateRequiredString("", "signing key ID")
	if err == nil || !strings.Contains(err.Error(), "signing key ID") {
		t.Errorf("ValidateRequiredString(empty) = %v, want error naming the field", err)
	}

	if err := ValidatePositiveTimeout(0, "settle delay"); err == nil {
		t.Error("ValidatePositiveTimeout(0) = nil, want error")
	}
	if err := ValidateNonNegativeDuration(-1, "pacing interval"); err == nil {
		t.Error("ValidateNonNegativeDuration(-1) = nil, want error")
	}
	if err := ValidateNonNegativeDuration(0, "pacing interval"); err != nil {
		t.Errorf("ValidateNonNegativeDuration(0) = %v, want nil", err)
	}
	if err := ValidatePositiveCount(0, "max rounds"); err == nil {
		t.Error("ValidatePositiveCount(0) = nil, want error")
	}
}
