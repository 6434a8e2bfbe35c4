package config

import (
	"log"
	"os"
)

func Logger() {
	log.SetOutput(os.Stdout)
	log.SetPrefix("[dvp] ")
	log.SetFlags(log.LstdFlags | log.Lshortfile)
}
