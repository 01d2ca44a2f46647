// Command layoutdump inspects binary layouts: it hex dumps files and encodes
// or decodes ShortVec counts.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/afero"
)

func main() {
	cfg, err := loadEnvConfig(os.LookupEnv)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if err := newRootCmd(afero.NewOsFs(), cfg).Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
