package cli

import "github.com/fatih/color"

func okMark() string {
	return color.GreenString("✓")
}

func warnMark() string {
	return color.YellowString("!")
}

func infoMark() string {
	return color.CyanString("→")
}
