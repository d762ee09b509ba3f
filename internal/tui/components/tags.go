package components

import "github.com/charmbracelet/lipgloss"

// TagButtons renders tags as a row of buttons, highlighting the one at
// selected (none when selected is out of range). With a positive width the
// buttons wrap onto further rows.
func TagButtons(tags []string, selected, width int) string {
	if len(tags) == 0 {
		return ""
	}

	var rows []string
	var row []string
	used := 0

	for i, tag := range tags {
		style := TagStyle
		if i == selected {
			style = TagActiveStyle
		}
		button := style.Render(tag)
		w := lipgloss.Width(button)

		if width > 0 && used > 0 && used+w > width {
			rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, row...))
			row, used = nil, 0
		}
		row = append(row, button)
		used += w
	}
	rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, row...))

	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}
