package cli

import (
	"fmt"

	"github.com/diillson/maternity-reports-go/pkg/version"
	"github.com/fatih/color"
)

// displayWelcomeBanner exibe o banner de boas-vindas com informações de versão.
func displayWelcomeBanner(organization string) {
	banner := `
  __  __    _  _____ _____ ____  _   _ ___ _______   __
 |  \/  |  / \|_   _| ____|  _ \| \ | |_ _|_   _\ \ / /
 | |\/| | / _ \ | | |  _| | |_) |  \| || |  | |  \ V / 
 | |  | |/ ___ \| | | |___|  _ <| |\  || |  | |   | |  
 |_|  |_/_/   \_\_| |_____|_| \_\_| \_|___| |_|   |_|  
`
	magenta := color.New(color.FgMagenta, color.Bold).SprintFunc()
	blue := color.New(color.FgBlue, color.Bold).SprintFunc()

	fmt.Println(magenta(banner))
	fmt.Println(blue(fmt.Sprintf("Maternity Reports CLI (v%s) - %s", version.FormatVersion(), organization)))
}
