package main

import "os"

// version is set during build with -ldflags
var version = "dev"

func main() {
	os.Exit(execute(os.Args[1:]))
}
