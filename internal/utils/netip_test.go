package utils

import (
	"net/http/httptest"
	"testing"
)

func TestParseHostNoPort(t *testing.T) {
	tests := map[string]string{
		"":                 "",
		"10.0.0.1":         "10.0.0.1",
		"10.0.0.1:8080":    "10.0.0.1",
		"[2001:db8::1]:80": "2001:db8::1",
		"[2001:db8::1]":    "2001:db8::1",
		"swaply.cc:443":    "swaply.cc",
	}
	for in, want := range tests {
		if got := ParseHostNoPort(in); got != want {
			t.Errorf("ParseHostNoPort(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestClientIP(t *testing.T) {
	req := httptest.NewRequest("GET", "/", nil)
	req.RemoteAddr = "192.0.2.10:5000"
	req.Header.Set("X-Forwarded-For", "203.0.113.7, 10.0.0.1")

	if got := ClientIP(req, false); got != "192.0.2.10" {
		t.Errorf("ClientIP(untrusted) = %q, want RemoteAddr", got)
	}
	if got := ClientIP(req, true); got != "203.0.113.7" {
		t.Errorf("ClientIP(trusted) = %q, want left-most forwarded ip", got)
	}

	req.Header.Set("CF-Connecting-IP", "198.51.100.4")
	if got := ClientIP(req, true); got != "198.51.100.4" {
		t.Errorf("ClientIP() = %q, CF-Connecting-IP should win", got)
	}
}

func TestIPMatcher(t *testing.T) {
	m := NewIPMatcher([]string{"10.0.0.0/8", " 127.0.0.1 ", "2001:db8::/32", "garbage", ""})
	if m.IsEmpty() {
		t.Fatal("matcher should not be empty")
	}

	tests := []struct {
		ip   string
		want bool
	}{
		{"10.20.30.40", true},
		{"127.0.0.1", true},
		{"::ffff:127.0.0.1", true},
		{"127.0.0.2", false},
		{"2001:db8::42", true},
		{"2001:db9::1", false},
		{"not-an-ip", false},
	}
	for _, tt := range tests {
		if got := m.Allow(tt.ip); got != tt.want {
			t.Errorf("Allow(%q) = %v, want %v", tt.ip, got, tt.want)
		}
	}

	if !NewIPMatcher(nil).IsEmpty() {
		t.Error("nil list should give an empty matcher")
	}
}
