// helmlens parses rendered Helm release output and resolves cluster metadata.
package main

import (
	"os"

	"github.com/hupe1980/helmlens/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
