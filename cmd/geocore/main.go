package main

import (
	goflag "flag"
	"fmt"
	"os"

	flag "github.com/spf13/pflag"
)

func main() {
	// glog reads its settings from the go flag set; expose them through
	// pflag and mark the go set parsed so glog does not complain.
	flag.CommandLine.AddGoFlagSet(goflag.CommandLine)
	_ = goflag.CommandLine.Parse([]string{})

	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
