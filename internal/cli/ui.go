package cli

import (
	"fmt"

	"github.com/fatih/color"
)

func printHeader(title string) {
	fmt.Println(color.CyanString(logo))
	if title != "" {
		fmt.Println(title)
		fmt.Println("─────────────────────")
	}
}

func statusMark(ok bool) string {
	if ok {
		return color.GreenString("✓")
	}
	return color.RedString("✗")
}
