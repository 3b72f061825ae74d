package app

import (
	"fmt"
	"os"
	"runtime"

	"github.com/nspcc-dev/neo-txauth/cli/txcontext"
	"github.com/nspcc-dev/neo-txauth/cli/wallet"
	"github.com/nspcc-dev/neo-txauth/pkg/config"
	"github.com/urfave/cli"
)

func versionPrinter(c *cli.Context) {
	_, _ = fmt.Fprintf(c.App.Writer, "neo-txauth\nVersion: %s\nGoVersion: %s\n",
		config.Version,
		runtime.Version(),
	)
}

// New creates a neo-txauth instance of [cli.App] with all commands included.
func New() *cli.App {
	cli.VersionPrinter = versionPrinter
	ctl := cli.NewApp()
	ctl.Name = "neo-txauth"
	ctl.Version = config.Version
	ctl.Usage = "Offline Neo N3 transaction signing and witness assembly"
	ctl.ErrWriter = os.Stdout

	ctl.Commands = append(ctl.Commands, txcontext.NewCommands()...)
	ctl.Commands = append(ctl.Commands, wallet.NewCommands()...)
	return ctl
}
