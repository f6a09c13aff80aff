package main

import (
	"flag"
	"fmt"
	"os"

	"rpgm-asset-decrypter/internal/asset"
)

func main() {
	flag.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: keygen <password>...")
		fmt.Fprintln(os.Stderr, "Prints the asset key the engine derives from each password.")
	}
	flag.Parse()

	if flag.NArg() == 0 {
		// Blank password in the editor.
		fmt.Println(asset.KeyFromPassword(""))
		return
	}
	for _, pw := range flag.Args() {
		fmt.Printf("%s\t%s\n", asset.KeyFromPassword(pw), pw)
	}
}
