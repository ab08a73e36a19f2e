package main

import (
	"fmt"
	"io/fs"
	"os"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
)

var envFiles = []string{
	".env",
	".env.local",
}

// loadEnvFiles fills unset environment variables from dotenv files. Later
// files override earlier ones; variables already set in the process win
// over every file.
func loadEnvFiles(filenames ...string) {
	merged := map[string]string{}

	for _, filename := range filenames {
		values, err := godotenv.Read(filename)
		if err != nil {
			if !errors.Is(err, fs.ErrNotExist) {
				fmt.Fprintf(os.Stderr, "warning: failed to load %s: %v\n", filename, err)
			}
			continue
		}

		for key, value := range values {
			merged[key] = value
		}
	}

	for key, value := range merged {
		if _, set := os.LookupEnv(key); set {
			continue
		}
		os.Setenv(key, value)
	}
}
