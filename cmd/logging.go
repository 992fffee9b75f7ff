package cmd

import (
	"github.com/df07/go-meshtrace/pkg/log"
	"github.com/urfave/cli"
)

var logger = log.New("meshtrace")

// setupLogging derives levels from the global flags. --log-level is applied
// last so a module override wins over -v and -vv.
func setupLogging(ctx *cli.Context) error {
	log.ResetModuleLevels()
	log.SetLevel(log.Notice)

	if ctx.GlobalBool("v") {
		log.SetLevel(log.Info)
	}

	if ctx.GlobalBool("vv") {
		log.SetLevel(log.Debug)
	}

	if spec := ctx.GlobalString("log-level"); spec != "" {
		if err := log.Configure(spec); err != nil {
			return cli.NewExitError("--log-level: "+err.Error(), 1)
		}
	}
	return nil
}
