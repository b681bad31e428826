package cli

import (
	"fmt"

	"github.com/diillson/kr-realestate-report/pkg/version"
	"github.com/fatih/color"
)

// displayWelcomeBanner exibe o banner de boas-vindas com informações de versão.
func displayWelcomeBanner(versionStr string) {
	banner := `
   ____  _____    _    _       _____ ____ _____  _  _____ _____
  |  _ \| ____|  / \  | |     | ____/ ___|_   _|/ \|_   _| ____|
  | |_) |  _|   / _ \ | |     |  _| \___ \ | | / _ \ | | |  _|
  |  _ <| |___ / ___ \| |___  | |___ ___) || |/ ___ \| | | |___
  |_| \_\_____/_/   \_\_____| |_____|____/ |_/_/   \_\_| |_____|
                                                       REPORT
	`
	red := color.New(color.FgRed, color.Bold).SprintFunc()
	blue := color.New(color.FgBlue, color.Bold).SprintFunc()

	fmt.Println(red(banner))
	fmt.Println(blue(fmt.Sprintf("Korean Real-Estate Report CLI (v%s)", version.FormatVersion())))
}

// displayUpdateNotice avisa que existe uma versão mais recente.
func displayUpdateNotice(current, latest string) {
	yellow := color.New(color.FgYellow, color.Bold).SprintFunc()
	fmt.Println(yellow(fmt.Sprintf("A new version is available: %s (current %s)", latest, current)))
	fmt.Println(yellow("  go install github.com/diillson/kr-realestate-report/cmd/realestate-report@latest"))
}
