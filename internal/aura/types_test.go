package aura

import (
	"testing"
	"time"
)

func TestNanos_UnmarshalJSON(t *testing.T) {
	cases := []struct {
		in   string
		want Nanos
	}{
		{`1700000000000000000`, 1700000000000000000},
		{`"1700000000000000000"`, 1700000000000000000},
		{`null`, 0},
		{`""`, 0},
		{`1.7e9`, 1700000000},
	}
	for _, tc := range cases {
		var n Nanos
		if err := n.UnmarshalJSON([]byte(tc.in)); err != nil {
			t.Fatalf("UnmarshalJSON(%s) returned error: %v", tc.in, err)
		}
		if n != tc.want {
			t.Fatalf("UnmarshalJSON(%s) = %d, want %d", tc.in, n, tc.want)
		}
	}

	var n Nanos
	if err := n.UnmarshalJSON([]byte(`"soon"`)); err == nil {
		t.Fatal("UnmarshalJSON(soon) returned nil error")
	}
}

func TestNanos_Time(t *testing.T) {
	if !Nanos(0).Time().IsZero() {
		t.Fatal("Nanos(0).Time() should be zero")
	}
	got := Nanos(1700000000000000000).Time()
	if !got.Equal(time.Unix(1700000000, 0)) {
		t.Fatalf("Time() = %v, want %v", got, time.Unix(1700000000, 0))
	}
}

func TestDashboardPayload_NilSections(t *testing.T) {
	var p *dashboardPayload
	if p.toDashboard() != nil {
		t.Fatal("nil payload should convert to nil dashboard")
	}

	d := (&dashboardPayload{Status: "idle"}).toDashboard()
	if d.Sentiment != nil || d.Price != nil {
		t.Fatalf("toDashboard = %#v, want nil sentiment and price", d)
	}
	if d.Status != "idle" {
		t.Fatalf("Status = %q, want idle", d.Status)
	}
}
