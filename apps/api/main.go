package main

import (
	_ "expvar"         // Register the expvar handlers
	_ "net/http/pprof" // Register the pprof handlers
)

func main() {
	startWithDig()
}
