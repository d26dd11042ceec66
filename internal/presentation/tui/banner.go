package tui

import (
	"fmt"
	"io"

	"github.com/muesli/termenv"
)

var bannerLines = []struct{ text, color string }{
	{`     _    _            __     ___     `, "#818cf8"},
	{`    / \  | | __ _  ___ \ \   / (_)____`, "#a78bfa"},
	{`   / _ \ | |/ _' |/ _ \ \ \ / /| |_  /`, "#c084fc"},
	{`  / ___ \| | (_| | (_) | \ V / | |/ / `, "#e879f9"},
	{` /_/   \_\_|\__, |\___/   \_/  |_/___|`, "#f472b6"},
	{`            |___/                     `, "#fb7185"},
}

// PrintBanner writes the AlgoViz banner and version to w.
func PrintBanner(w io.Writer, version string) {
	out := termenv.NewOutput(w)
	fmt.Fprintln(out)
	for _, l := range bannerLines {
		fmt.Fprintln(out, out.String(l.text).Foreground(out.Color(l.color)))
	}
	fmt.Fprintf(out, "  v%s\n\n", version)
}
