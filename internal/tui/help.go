package tui

import (
	"strings"

	"github.com/charmbracelet/glamour"
)

const keysMarkdown = `# Keys

| Key | Action |
|-----|--------|
| tab / shift+tab | Move between fields |
| ↑ / ↓ | Select a record |
| enter | Save the form |
| ctrl+e | Edit the selected record |
| esc | Cancel editing |
| ctrl+d | Delete the selected record |
| ctrl+r | Reload the list |
`

const signOutMarkdown = "| ctrl+o | Sign out |\n"

const quitMarkdown = "| ctrl+c | Quit |\n\nPress **f1** to close this help.\n"

// renderHelp renders the key reference. When the renderer cannot be built
// the markdown source is returned as is.
func renderHelp(style string, width int, signOut bool) string {
	var md strings.Builder
	md.WriteString(keysMarkdown)
	if signOut {
		md.WriteString(signOutMarkdown)
	}
	md.WriteString(quitMarkdown)

	if width <= 0 {
		width = 80
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithStylePath(style),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return md.String()
	}
	out, err := r.Render(md.String())
	if err != nil {
		return md.String()
	}
	return out
}
