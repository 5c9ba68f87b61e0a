package matching

import "testing"

func TestToDbFormat_RoundTripsVocabulary(t *testing.T) {
	for display, db := range displayToDB {
		if got := ToDbFormat(display); got != db {
			t.Fatalf("ToDbFormat(%q) = %q, want %q", display, got, db)
		}
		if got := ToDisplayFormat(ToDbFormat(display)); got != display {
			t.Fatalf("round trip of %q gave %q", display, got)
		}
	}
}

func TestToDisplayFormat_Idempotent(t *testing.T) {
	inputs := []string{
		"Anxiety and Stress",
		"Supportive and Relational (I focus on creating safety, trust, and emotional validation)",
		"Somatic Experiencing",
		"Foo and Bar",
	}
	for _, in := range inputs {
		once := ToDisplayFormat(in)
		if twice := ToDisplayFormat(once); twice != once {
			t.Fatalf("expected idempotent display conversion for %q, got %q then %q", in, once, twice)
		}
	}
}

func TestToDbFormat_Fallbacks(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{name: "unknown phrase", in: "Foo and Bar", want: "Foo & Bar"},
		{name: "empty", in: "", want: ""},
		{name: "blank", in: "   ", want: ""},
		{name: "no conjunction", in: "CBT", want: "CBT"},
		{name: "known base with custom suffix", in: "Grief and Loss (pets and family)", want: "Grief & Loss (pets & family)"},
		{name: "word containing and", in: "Understanding Patterns", want: "Understanding Patterns"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := ToDbFormat(tc.in); got != tc.want {
				t.Fatalf("ToDbFormat(%q) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}

func TestToDisplayFormat_Fallbacks(t *testing.T) {
	if got := ToDisplayFormat("Foo & Bar"); got != "Foo and Bar" {
		t.Fatalf("expected fallback conversion, got %q", got)
	}
	if got := ToDisplayFormat("Trauma & PTSD"); got != "Trauma and PTSD" {
		t.Fatalf("expected table conversion, got %q", got)
	}
	if got := ToDisplayFormat(""); got != "" {
		t.Fatalf("expected empty, got %q", got)
	}
}

func TestFormatAll_ToleratesNil(t *testing.T) {
	if got := ToDbFormatAll(nil); got == nil || len(got) != 0 {
		t.Fatalf("expected empty non-nil slice, got %#v", got)
	}
	got := ToDisplayFormatAll([]string{"Work & Career", "Yoga"})
	if len(got) != 2 || got[0] != "Work and Career" || got[1] != "Yoga" {
		t.Fatalf("unexpected batch conversion: %#v", got)
	}
}

func TestFormatValidators_ArePermissive(t *testing.T) {
	if !IsDbFormat("Anxiety & Stress") || IsDisplayFormat("Anxiety & Stress") {
		t.Fatalf("expected canonical label to validate only as db format")
	}
	if !IsDisplayFormat("Anxiety and Stress") || IsDbFormat("Anxiety and Stress") {
		t.Fatalf("expected display label to validate only as display format")
	}
	if !IsDbFormat("Mindfulness") || !IsDisplayFormat("Mindfulness") {
		t.Fatalf("expected label without conjunction to validate as both")
	}
	if IsDbFormat("") || IsDisplayFormat("") {
		t.Fatalf("expected empty string to validate as neither")
	}
}
