package main

import (
	"os"

	log "github.com/sirupsen/logrus"

	"github.com/imgtool/imgtool/util"
)

func main() {
	if err := newCmd().Execute(); err != nil {
		log.Errorf("%v", err)
		if util.IsUsage(err) {
			os.Exit(2)
		}
		os.Exit(1)
	}
}
