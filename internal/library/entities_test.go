package library

import "testing"

func TestGenreValid(t *testing.T) {
	for _, g := range Genres() {
		if !g.Valid() {
			t.Fatalf("%s should be valid", g)
		}
	}
	for _, g := range []Genre{"", "ROMANCE", "fiction", "SCI-FI"} {
		if g.Valid() {
			t.Fatalf("%q should be invalid", g)
		}
	}
}

func TestNormalizeISBN(t *testing.T) {
	cases := map[string]string{
		"9780134190440":          "9780134190440",
		"978-0-13-419044-0":      "9780134190440",
		"ISBN 978-0-13-419044-0": "9780134190440",
		"ISBN-13: 9780134190440": "9780134190440",
		"isbn-10: 0-306-40615-2": "0306406152",
		"  0 306 40615 2  ":      "0306406152",
	}
	for in, want := range cases {
		if got := NormalizeISBN(in); got != want {
			t.Errorf("NormalizeISBN(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestValidISBN(t *testing.T) {
	valid := []string{
		"9780134190440",
		"978-0-13-419044-0",
		"0306406152",
		"0-306-40615-2",
		"080442957X",
		"080442957x",
		"ISBN-13: 978-0-13-419044-0",
	}
	for _, s := range valid {
		if !ValidISBN(s) {
			t.Errorf("ValidISBN(%q) = false, want true", s)
		}
	}
	invalid := []string{
		"",
		"abc",
		"123456789",
		"12345678901234",
		"97801341904X0",
		"X780134190440",
		"978-0-13-419044",
	}
	for _, s := range invalid {
		if ValidISBN(s) {
			t.Errorf("ValidISBN(%q) = true, want false", s)
		}
	}
}
