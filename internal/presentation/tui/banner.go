package tui

import (
	"fmt"
	"io"
	"strings"

	"github.com/muesli/termenv"
)

var bannerLines = []string{
	`  ___ _ __ ___  ___ ___ _ __ ___   __ _  __| |___ `,
	` / __| '__/ _ \/ __/ __| '__/ _ \ / _' |/ _' / __|`,
	`| (__| | | (_) \__ \__ \ | | (_) | (_| | (_| \__ \`,
	` \___|_|  \___/|___/___/_|  \___/ \__,_|\__,_|___/`,
}

var bannerColors = []string{"#818cf8", "#a78bfa", "#c084fc", "#e879f9"}

// PrintBanner writes the ASCII banner and version to w using the terminal's color profile.
func PrintBanner(w io.Writer, version string) {
	PrintBannerWithProfile(w, termenv.NewOutput(w).ColorProfile(), version)
}

// PrintBannerWithProfile is PrintBanner with an explicit color profile.
func PrintBannerWithProfile(w io.Writer, p termenv.Profile, version string) {
	fmt.Fprintln(w)
	for i, line := range bannerLines {
		fmt.Fprintln(w, p.String(line).Foreground(p.Color(bannerColors[i])))
	}
	if v := strings.TrimSpace(version); v != "" {
		fmt.Fprintln(w, p.String("v"+v).Faint())
	}
	fmt.Fprintln(w)
}
