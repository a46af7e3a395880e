package core

import (
	"encoding/json"
	"testing"
)

func TestParseDecimalToCents(t *testing.T) {
	cases := []struct {
		in   string
		want int64
		ok   bool
	}{
		{"12.34", 1234, true},
		{"12,34", 1234, true},
		{"1500", 150000, true},
		{"0.5", 50, true},
		{"12.345", 1235, true}, // rounds up (half-up)
		{"12.344", 1234, true}, // rounds down
		{"", 0, false},
		{"0", 0, false},
		{"-5", 0, false},
		{"abc", 0, false},
		{"1.2.3", 0, false},
	}
	for _, tc := range cases {
		got, err := ParseDecimalToCents(tc.in)
		if tc.ok && (err != nil || got != tc.want) {
			t.Fatalf("%q: got (%d, %v), want %d", tc.in, got, err, tc.want)
		}
		if !tc.ok && err == nil {
			t.Fatalf("%q: expected error", tc.in)
		}
	}
}

func TestMoneyJSONMatchesBlobLayout(t *testing.T) {
	// Whole units serialize without a fraction, like the original blob.
	b, err := json.Marshal(Money{Cents: 150000})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(b) != "1500" {
		t.Fatalf("got %s, want 1500", b)
	}

	b, _ = json.Marshal(Money{Cents: 5025})
	if string(b) != "50.25" {
		t.Fatalf("got %s, want 50.25", b)
	}

	var m Money
	if err := json.Unmarshal([]byte("50.25"), &m); err != nil || m.Cents != 5025 {
		t.Fatalf("unmarshal 50.25: got (%d, %v)", m.Cents, err)
	}
}

func TestDateJSON(t *testing.T) {
	b, err := json.Marshal(NewDate(2025, 10, 2))
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(b) != `"2025-10-02"` {
		t.Fatalf("got %s", b)
	}

	var d Date
	if err := json.Unmarshal([]byte(`"2025-10-02"`), &d); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !d.Equal(NewDate(2025, 10, 2)) {
		t.Fatalf("got %v", d)
	}

	if err := json.Unmarshal([]byte(`"02/10/2025"`), &d); err == nil {
		t.Fatal("expected error for non-ISO date")
	}
}
