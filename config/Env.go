package config

import (
	"fmt"

	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"
)

// Prefix is the prefix of all environment variables read by Overlay
const Prefix = "MASTERMIND_"

// DotEnvFiles are the files LoadDotEnv searches, in order
var DotEnvFiles = []string{".env", "../.env"}

// LoadDotEnv loads the first of files that exists into the process
// environment, without overriding variables that are already set. The
// name of the loaded file is returned, or the empty string if none of
// the files could be loaded.
func LoadDotEnv(files ...string) string {
	for _, f := range files {
		if err := godotenv.Load(f); err == nil {
			return f
		}
	}
	return ""
}

// Overlay sets the fields of the Run that have a value in environ.
// Each field is read from Prefix followed by the name in its env tag,
// for example MASTERMIND_EPISODES or MASTERMIND_CODE_LENGTH. Fields
// with no value are left unchanged. A nil environ reads the process
// environment.
func (r *Run) Overlay(environ map[string]string) error {
	opts := env.Options{
		Environment: environ,
		Prefix:      Prefix,
	}
	if err := env.Parse(r, opts); err != nil {
		return fmt.Errorf("overlay: %v", err)
	}
	return nil
}
