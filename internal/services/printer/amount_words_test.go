package printer

import "testing"

func TestAmountInWords(t *testing.T) {
	cases := []struct {
		amount float64
		want   string
	}{
		{0, "Zero Dirhams Only"},
		{1, "One Dirham Only"},
		{2, "Two Dirhams Only"},
		{15, "Fifteen Dirhams Only"},
		{42, "Forty Two Dirhams Only"},
		{100, "One Hundred Dirhams Only"},
		{105, "One Hundred Five Dirhams Only"},
		{1234.50, "One Thousand Two Hundred Thirty Four Dirhams and Fifty Fils Only"},
		{0.25, "Zero Dirhams and Twenty Five Fils Only"},
		{20.05, "Twenty Dirhams and Five Fils Only"},
		{1_000_000, "One Million Dirhams Only"},
		{2_500_000, "Two Million Five Hundred Thousand Dirhams Only"},
		{999.99, "Nine Hundred Ninety Nine Dirhams and Ninety Nine Fils Only"},
	}

	for _, tc := range cases {
		if got := AmountInWords(tc.amount); got != tc.want {
			t.Errorf("AmountInWords(%v) = %q, want %q", tc.amount, got, tc.want)
		}
	}
}

func TestAmountInWords_RoundsFilsUp(t *testing.T) {
	// 4.999 rounds to 5.00, not "4 Dirhams and 100 Fils"
	if got := AmountInWords(4.999); got != "Five Dirhams Only" {
		t.Errorf("AmountInWords(4.999) = %q, want %q", got, "Five Dirhams Only")
	}
}
