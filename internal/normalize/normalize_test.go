package normalize

import "testing"

func TestNormalizeTypography(t *testing.T) {
	cases := []struct{ in, want string }{
		{"“Call me Ishmael.”", "\"Call me Ishmael.\""},
		{"it’s fine — really", "it's fine - really"},
	}
	for _, c := range cases {
		if got := NormalizeTypography(c.in); got != c.want {
			t.Errorf("NormalizeTypography(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestNormalize(t *testing.T) {
	cases := []struct {
		in                    string
		expandContractions    bool
		removeNumbers         bool
		want                  string
	}{
		{"Chapter one", true, false, "chapter one"},
		{"Call me Ishmael.", true, false, "call me ishmael"},
		{"can't stop won't stop", true, false, "cannot stop will not stop"},
		{"can't stop", false, false, "can't stop"},
		{"14 fourteen", true, false, "fourteen fourteen"},
		{"1984 was the year", true, false, "nineteen eighty-four was the year"},
		{"14", true, true, "14"},
	}
	for _, c := range cases {
		got := Normalize(c.in, c.expandContractions, c.removeNumbers)
		if got != c.want {
			t.Errorf("Normalize(%q,%v,%v) = %q, want %q", c.in, c.expandContractions, c.removeNumbers, got, c.want)
		}
	}
}

func TestTokenizeWords(t *testing.T) {
	got := TokenizeWords("Call me, Ishmael.")
	want := []string{"Call", "me", "Ishmael"}
	if len(got) != len(want) {
		t.Fatalf("TokenizeWords length = %d, want %d (%v)", len(got), len(want), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("token %d = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestNumberToWords(t *testing.T) {
	cases := map[string]string{
		"14":   "fourteen",
		"1984": "nineteen eighty-four",
		"0":    "zero",
		"100":  "one hundred",
		"2024": "twenty twenty-four",
		"1000": "one thousand",
	}
	for in, want := range cases {
		if got := NumberToWords(in); got != want {
			t.Errorf("NumberToWords(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestDefaultDictionariesLoad(t *testing.T) {
	stop := DefaultStopwords()
	if !stop["the"] || !stop["chapter"] {
		t.Fatalf("expected stopword dictionary to contain 'the' and 'chapter', got %v entries", len(stop))
	}
	fillers := DefaultFillers()
	if !fillers["um"] {
		t.Fatalf("expected filler dictionary to contain 'um'")
	}
}
