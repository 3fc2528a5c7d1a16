package main

//// Small CLI tool that prints a bcrypt hash usable as password_hash in the seed users file.

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/2beens/statuspanel/pkg"

	"github.com/spf13/pflag"
)

func main() {
	password := pflag.StringP("password", "p", "", "password to hash (read from stdin when empty)")
	pflag.Parse()

	if *password == "" {
		line, err := bufio.NewReader(os.Stdin).ReadString('\n')
		if err != nil && line == "" {
			fmt.Printf("Error: read password: %v\n", err)
			os.Exit(1)
		}
		*password = strings.TrimRight(line, "\r\n")
	}

	if *password == "" {
		fmt.Println("Error: empty password")
		os.Exit(1)
	}

	hash, err := pkg.HashPassword(*password)
	if err != nil {
		fmt.Printf("Error: hash password: %v\n", err)
		os.Exit(1)
	}

	fmt.Println(hash)
}
