package asset

import "testing"

func TestIsTransitionAllowedMatchesGraph(t *testing.T) {
	allowed := map[Status][]Status{
		StatusPending:    {StatusCertified, StatusFraudulent},
		StatusCertified:  {StatusInEscrow, StatusDisputed},
		StatusInEscrow:   {StatusCertified, StatusDisputed},
		StatusDisputed:   {StatusCertified, StatusInEscrow, StatusFraudulent},
		StatusFraudulent: nil,
	}
	for _, from := range Statuses() {
		want := make(map[Status]bool)
		for _, to := range allowed[from] {
			want[to] = true
		}
		for _, to := range Statuses() {
			if got := IsTransitionAllowed(from, to); got != want[to] {
				t.Fatalf("IsTransitionAllowed(%s, %s) = %v, want %v", from, to, got, want[to])
			}
		}
	}
}

func TestNoSelfLoops(t *testing.T) {
	for _, s := range Statuses() {
		if IsTransitionAllowed(s, s) {
			t.Fatalf("unexpected self-loop on %s", s)
		}
	}
}

func TestAllowedTransitionsOrderAndCopy(t *testing.T) {
	got := AllowedTransitions(StatusDisputed)
	want := []Status{StatusCertified, StatusInEscrow, StatusFraudulent}
	if len(got) != len(want) {
		t.Fatalf("AllowedTransitions = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("AllowedTransitions = %v, want %v", got, want)
		}
	}
	got[0] = StatusPending
	if !IsTransitionAllowed(StatusDisputed, StatusCertified) {
		t.Fatal("mutating the returned slice must not change the graph")
	}
	if AllowedTransitions(StatusFraudulent) != nil {
		t.Fatal("expected no transitions out of Fraudulent")
	}
	if AllowedTransitions(Status("Unknown")) != nil {
		t.Fatal("expected no transitions out of an unknown status")
	}
}

func TestIsTerminal(t *testing.T) {
	for _, s := range Statuses() {
		if got := s.IsTerminal(); got != (s == StatusFraudulent) {
			t.Fatalf("%s.IsTerminal() = %v", s, got)
		}
	}
	if Status("Unknown").IsTerminal() {
		t.Fatal("unknown status must not be terminal")
	}
}

func TestParseStatus(t *testing.T) {
	tests := []struct {
		in   string
		want Status
		ok   bool
	}{
		{in: "Certified", want: StatusCertified, ok: true},
		{in: " pending ", want: StatusPending, ok: true},
		{in: "IN_ESCROW", want: StatusInEscrow, ok: true},
		{in: "ASSET_STATUS_DISPUTED", want: StatusDisputed, ok: true},
		{in: "fraudulent", want: StatusFraudulent, ok: true},
		{in: "burned", ok: false},
		{in: "", ok: false},
	}
	for _, tt := range tests {
		got, ok := ParseStatus(tt.in)
		if ok != tt.ok || got != tt.want {
			t.Fatalf("ParseStatus(%q) = %q, %v; want %q, %v", tt.in, got, ok, tt.want, tt.ok)
		}
	}
}
