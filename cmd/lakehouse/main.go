package main

import (
	"os"

	"github.com/sparkify/lakehouse/logging"
)

func main() {
	logging.Initialize()
	os.Exit(Execute())
}
