package repodata

import (
	"strconv"
	"strings"
)

// CompareVersions orders two conda version strings. Segments are compared
// numerically when both parse as integers, otherwise lexicographically, with
// a purely numeric segment ordering above an alphanumeric one of the same
// position (so 1.0 > 1.0rc1, matching conda's treatment of pre-release
// suffixes as lower). Missing segments compare as zero.
func CompareVersions(a, b string) int {
	as := splitVersion(a)
	bs := splitVersion(b)

	n := len(as)
	if len(bs) > n {
		n = len(bs)
	}

	for i := 0; i < n; i++ {
		av, bv := "0", "0"
		if i < len(as) {
			av = as[i]
		}
		if i < len(bs) {
			bv = bs[i]
		}

		if cmp := compareSegment(av, bv); cmp != 0 {
			return cmp
		}
	}

	return 0
}

func splitVersion(v string) []string {
	v = strings.TrimSpace(strings.ToLower(v))
	return strings.FieldsFunc(v, func(r rune) bool {
		return r == '.' || r == '-' || r == '_' || r == '+'
	})
}

func compareSegment(a, b string) int {
	an, aNum := segmentInt(a)
	bn, bNum := segmentInt(b)

	switch {
	case aNum && bNum:
		switch {
		case an < bn:
			return -1
		case an > bn:
			return 1
		default:
			return 0
		}
	case aNum:
		// 1.0 ranks above 1.0rc1: numeric beats alphanumeric unless the
		// alphanumeric segment has a greater leading number.
		if bl, ok := leadingInt(b); ok && bl > an {
			return -1
		}
		return 1
	case bNum:
		if al, ok := leadingInt(a); ok && al > bn {
			return 1
		}
		return -1
	default:
		return strings.Compare(a, b)
	}
}

func segmentInt(s string) (int, bool) {
	n, err := strconv.Atoi(s)
	return n, err == nil
}

func leadingInt(s string) (int, bool) {
	i := 0
	for i < len(s) && s[i] >= '0' && s[i] <= '9' {
		i++
	}
	if i == 0 {
		return 0, false
	}
	n, err := strconv.Atoi(s[:i])
	return n, err == nil
}
