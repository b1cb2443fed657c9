package printer

import (
	"fmt"
	"math"
	"strings"
)

var ones = []string{
	"", "One", "Two", "Three", "Four", "Five", "Six", "Seven", "Eight", "Nine",
	"Ten", "Eleven", "Twelve", "Thirteen", "Fourteen", "Fifteen", "Sixteen",
	"Seventeen", "Eighteen", "Nineteen",
}

var tens = []string{
	"", "", "Twenty", "Thirty", "Forty", "Fifty", "Sixty", "Seventy", "Eighty", "Ninety",
}

// AmountInWords spells an AED amount for the invoice footer, e.g.
// 1234.50 -> "One Thousand Two Hundred Thirty Four Dirhams and Fifty Fils Only"
func AmountInWords(amount float64) string {
	amount = math.Abs(amount)
	dirhams := int64(amount)
	fils := int64(math.Round((amount - float64(dirhams)) * 100))
	if fils == 100 {
		dirhams++
		fils = 0
	}

	var b strings.Builder
	if dirhams == 0 {
		b.WriteString("Zero Dirhams")
	} else {
		b.WriteString(spellNumber(dirhams))
		if dirhams == 1 {
			b.WriteString(" Dirham")
		} else {
			b.WriteString(" Dirhams")
		}
	}
	if fils > 0 {
		b.WriteString(" and ")
		b.WriteString(spellNumber(fils))
		b.WriteString(" Fils")
	}
	b.WriteString(" Only")
	return b.String()
}

func spellNumber(n int64) string {
	if n == 0 {
		return "Zero"
	}
	groups := []struct {
		value int64
		name  string
	}{
		{1_000_000_000, "Billion"},
		{1_000_000, "Million"},
		{1_000, "Thousand"},
		{1, ""},
	}

	var parts []string
	for _, g := range groups {
		if n < g.value {
			continue
		}
		chunk := n / g.value
		n %= g.value
		word := spellBelowThousand(chunk)
		if g.name != "" {
			word += " " + g.name
		}
		parts = append(parts, word)
	}
	return strings.Join(parts, " ")
}

func spellBelowThousand(n int64) string {
	var parts []string
	if n >= 100 {
		parts = append(parts, ones[n/100]+" Hundred")
		n %= 100
	}
	if n >= 20 {
		word := tens[n/10]
		if n%10 != 0 {
			word += " " + ones[n%10]
		}
		parts = append(parts, word)
	} else if n > 0 {
		parts = append(parts, ones[n])
	}
	if len(parts) == 0 {
		return fmt.Sprintf("%d", n)
	}
	return strings.Join(parts, " ")
}
