package cache

import (
	"strconv"
	"strings"
	"time"
)

const day = 24 * time.Hour

// ageUnits are the units FormatAge uses, largest first.
//
//nolint:gochecknoglobals // Lookup table.
var ageUnits = []struct {
	size   time.Duration
	suffix string
}{
	{day, "d"},
	{time.Hour, "h"},
	{time.Minute, "m"},
	{time.Second, "s"},
}

// FormatAge renders the age of a snapshot with its two largest non-zero
// units, truncated: "45s", "30m", "1h30m", "2d3h". Ages under a second and
// negative ages (clock skew) read "0s".
func FormatAge(d time.Duration) string {
	if d < time.Second {
		return "0s"
	}
	var b strings.Builder
	parts := 0
	for _, u := range ageUnits {
		n := d / u.size
		if n == 0 {
			if parts > 0 {
				break
			}
			continue
		}
		b.WriteString(strconv.FormatInt(int64(n), 10))
		b.WriteString(u.suffix)
		d -= n * u.size
		if parts++; parts == 2 {
			break
		}
	}
	return b.String()
}
