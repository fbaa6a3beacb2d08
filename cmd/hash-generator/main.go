// Command hash-generator prints bcrypt hashes, at the cost the server stores
// passwords with, for seeding user rows by hand.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/phrazzld/feed-api/internal/service/auth"
)

func main() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "usage: %s password [password...]\n", os.Args[0])
	}
	flag.Parse()

	if flag.NArg() == 0 {
		flag.Usage()
		os.Exit(2)
	}

	hasher := auth.NewBcryptHasher()
	failed := false
	for _, password := range flag.Args() {
		hash, err := hasher.Hash(password)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error generating hash: %v\n", err)
			failed = true
			continue
		}
		fmt.Printf("Password: %s\nHash: %s\n\n", password, hash)
	}

	if failed {
		os.Exit(1)
	}
}
