package utils

import "testing"

func TestFormatItemCode(t *testing.T) {
	cases := []struct {
		seq      int64
		esperado string
	}{
		{271, "ITEM-0271"},
		{999, "ITEM-0999"},
		{1000, "ITEM-1000"},
		{10000, "ITEM-10000"},
	}
	for _, tc := range cases {
		if got := FormatItemCode(tc.seq); got != tc.esperado {
			t.Fatalf("FormatItemCode(%d) expected %q, got %q", tc.seq, tc.esperado, got)
		}
	}
}
