package state

// ChromeLines is how many rows the header, message panel and footer take.
const ChromeLines = 4

func ClampCursor(cursor, size int) int {
	if size <= 0 {
		return 0
	}
	if cursor >= size {
		return size - 1
	}
	if cursor < 0 {
		return 0
	}
	return cursor
}

// CardHeight is the number of rows one story card gets: the terminal height
// minus chrome, and two more when a banner or loading line is shown.
func CardHeight(height int, hasStatus bool) int {
	if height <= 0 {
		return 12
	}
	h := height - ChromeLines
	if hasStatus {
		h -= 2
	}
	if h < 3 {
		h = 3
	}
	return h
}

func CenteredWindow(totalRows, cursor, height int) (int, int) {
	if totalRows <= 0 {
		return 0, 0
	}
	if height <= 0 || totalRows <= height {
		return 0, totalRows
	}
	cursor = ClampCursor(cursor, totalRows)
	start := cursor - height/2
	if start < 0 {
		start = 0
	}
	maxStart := totalRows - height
	if start > maxStart {
		start = maxStart
	}
	return start, start + height
}
