package report

import "strings"

// AddressNotSpecified is printed when a company has no address data.
const AddressNotSpecified = "Not specified"

// FormatAddress lays an address out one line per street segment. Street is
// split on commas; blank segments are dropped. Street lines end with a comma
// except the one directly above the "postcode district, state" line, which
// ends bare. The final line ends with a period.
func FormatAddress(street, postcode, district, state string) []string {
	var segments []string
	for _, seg := range strings.Split(street, ",") {
		if seg = trimPunct(seg); seg != "" {
			segments = append(segments, seg)
		}
	}

	locality := strings.Join(nonEmpty(trimPunct(postcode), trimPunct(district)), " ")
	closing := strings.Join(nonEmpty(locality, trimPunct(state)), ", ")

	parts := segments
	if closing != "" {
		parts = append(parts, closing)
	}
	if len(parts) == 0 {
		return []string{AddressNotSpecified}
	}

	lines := make([]string, len(parts))
	for i, p := range parts {
		switch {
		case i == len(parts)-1:
			lines[i] = p + "."
		case i == len(parts)-2 && closing != "":
			lines[i] = p
		default:
			lines[i] = p + ","
		}
	}
	return lines
}

func trimPunct(s string) string {
	return strings.Trim(strings.TrimSpace(s), ".,")
}

func nonEmpty(values ...string) []string {
	out := values[:0:0]
	for _, v := range values {
		if v != "" {
			out = append(out, v)
		}
	}
	return out
}
