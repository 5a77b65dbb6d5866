package locale

import "testing"

func TestParse(t *testing.T) {
	cases := []struct {
		in   string
		want Locale
	}{
		{"Hindi", Hindi},
		{"hindi", Hindi},
		{"hi", Hindi},
		{" Hindi ", Hindi},
		{"English", English},
		{"en", English},
		{"", English},
		{"french", English},
	}
	for _, tc := range cases {
		if got := Parse(tc.in); got != tc.want {
			t.Errorf("Parse(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestTextFallsBackToEnglish(t *testing.T) {
	if Text(Locale("German")).MissingCrop != Text(English).MissingCrop {
		t.Fatal("unknown locale should serve English strings")
	}
	if Text(Hindi).MissingCrop == Text(English).MissingCrop {
		t.Fatal("hindi strings should differ from english")
	}
}
