/*
Copyright © 2024 paul <paul@denknerd.org>
*/

package main

import "log"

func main() {
	// Errors already carry their package prefix.
	log.SetFlags(0)
	if err := Execute(); err != nil {
		log.Fatal(err)
	}
}
