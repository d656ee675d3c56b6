package slug

import "testing"

func TestMake(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"Summit Ends With Accord", "summit-ends-with-accord"},
		{"  Breaking: Markets Rally!  ", "breaking-markets-rally"},
		{"a---b___c", "a-b-c"},
		{"Già città", "già-città"},
		{"", ""},
		{"!!!", ""},
	}
	for _, tc := range cases {
		if got := Make(tc.in); got != tc.want {
			t.Errorf("Make(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
