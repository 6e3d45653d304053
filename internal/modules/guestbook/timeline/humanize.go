package timeline

import (
	"fmt"
	"time"
)

const day = 24 * time.Hour

type unit struct {
	size time.Duration
	name string
}

// Largest first.
var units = []unit{
	{day, "day"},
	{time.Hour, "hour"},
	{time.Minute, "minute"},
	{time.Second, "second"},
}

// HumanizeElapsed renders d in the largest unit it reaches, rounded to the
// nearest whole unit. A value that rounds up to the next unit is reported in
// that unit, so 59m40s reads "1 hour". Negative and sub-second durations read
// "0 seconds".
func HumanizeElapsed(d time.Duration) string {
	if d < time.Second {
		return plural(0, "second")
	}
	for i, u := range units {
		if d < u.size {
			continue
		}
		n := int64((d + u.size/2) / u.size)
		if i > 0 && time.Duration(n)*u.size >= units[i-1].size {
			return plural(1, units[i-1].name)
		}
		return plural(n, u.name)
	}
	return plural(0, "second")
}

func plural(n int64, name string) string {
	if n == 1 {
		return "1 " + name
	}
	return fmt.Sprintf("%d %ss", n, name)
}
