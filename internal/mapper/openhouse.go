package mapper

import "time"

// openHouseLayout renders "Wed 8 Oct, 5:00 pm": short weekday, unpadded
// day, short month, 12-hour clock with lowercase meridiem.
const openHouseLayout = "Mon 2 Jan, 3:04 pm"

// FormatOpenHouse renders an ISO-8601 timestamp for display on the pass,
// keeping the timestamp's own UTC offset. Unparseable input reports ok ==
// false and the caller omits the field.
func FormatOpenHouse(iso string) (string, bool) {
	t, err := time.Parse(time.RFC3339, iso)
	if err != nil {
		return "", false
	}
	return t.Format(openHouseLayout), true
}
