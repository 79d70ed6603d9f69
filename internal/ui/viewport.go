package ui

// listViewport keeps the selected result row inside the visible window
type listViewport struct {
	Offset int
	Height int
}

// clamp adjusts the window for a list of total rows with cursor selected
func (v *listViewport) clamp(cursor, total int) {
	if v.Height < 1 {
		v.Height = 1
	}
	if cursor < v.Offset {
		v.Offset = cursor
	} else if cursor >= v.Offset+v.Height {
		v.Offset = cursor - v.Height + 1
	}
	if maxOffset := total - v.Height; v.Offset > maxOffset {
		v.Offset = maxOffset
	}
	if v.Offset < 0 {
		v.Offset = 0
	}
}

// visible returns how many rows the window shows
func (v *listViewport) visible(total int) int {
	return min(v.Height, max(total-v.Offset, 0))
}
