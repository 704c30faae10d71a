package services

import (
	"math"
	"strings"
)

// AmountToWords converts a VND amount to Vietnamese words for printing on
// receipts. Example: 1500000 -> "Một triệu năm trăm nghìn đồng chẵn".
func AmountToWords(amount float64) string {
	n := int64(math.Round(amount))
	if n == 0 {
		return "Không đồng"
	}

	prefix := ""
	if n < 0 {
		prefix = "âm "
		n = -n
	}

	words := convertNumberToWords(n) + " đồng chẵn"
	words = prefix + words

	// Capitalize the first rune only
	r := []rune(words)
	return strings.ToUpper(string(r[0])) + string(r[1:])
}

var viDigits = []string{
	"không", "một", "hai", "ba", "bốn", "năm", "sáu", "bảy", "tám", "chín",
}

var viScales = []string{"", " nghìn", " triệu", " tỷ", " nghìn tỷ"}

func convertNumberToWords(n int64) string {
	// Split into groups of three digits, least significant first
	var groups []int64
	for n > 0 {
		groups = append(groups, n%1000)
		n /= 1000
	}

	var parts []string
	for i := len(groups) - 1; i >= 0; i-- {
		g := groups[i]
		if g == 0 {
			continue
		}
		// Leading zeros inside a middle group need the hundreds spelled out
		// ("một triệu không trăm hai mươi" style is only used on formal
		// documents; here we follow the common spoken form).
		full := i < len(groups)-1
		parts = append(parts, convertGroup(g, full)+viScales[i])
	}

	return strings.Join(parts, " ")
}

// convertGroup spells a 0..999 group. full forces the hundreds position to be
// spelled even when zero, which is required for non-leading groups.
func convertGroup(g int64, full bool) string {
	h := g / 100
	t := (g % 100) / 10
	u := g % 10

	var parts []string

	if h > 0 || full {
		parts = append(parts, viDigits[h]+" trăm")
	}

	switch {
	case t == 0 && u == 0:
		// nothing after the hundreds
	case t == 0:
		if h > 0 || full {
			parts = append(parts, "lẻ", viDigits[u])
		} else {
			parts = append(parts, viDigits[u])
		}
	case t == 1:
		parts = append(parts, "mười")
		if u == 5 {
			parts = append(parts, "lăm")
		} else if u > 0 {
			parts = append(parts, viDigits[u])
		}
	default:
		parts = append(parts, viDigits[t], "mươi")
		switch u {
		case 0:
		case 1:
			parts = append(parts, "mốt")
		case 5:
			parts = append(parts, "lăm")
		default:
			parts = append(parts, viDigits[u])
		}
	}

	return strings.Join(parts, " ")
}
