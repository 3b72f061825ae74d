package app_test

import (
	"runtime"
	"testing"

	"github.com/nspcc-dev/neo-txauth/internal/testcli"
	"github.com/nspcc-dev/neo-txauth/pkg/config"
)

func TestCLIVersion(t *testing.T) {
	config.Version = "0.0.0-test"
	e := testcli.NewExecutor(t)
	e.Run(t, "neo-txauth", "--version")
	e.CheckNextLine(t, "^neo-txauth")
	e.CheckNextLine(t, "^Version: 0.0.0-test")
	e.CheckNextLine(t, "^GoVersion: "+runtime.Version())
	e.CheckEOF(t)
}
