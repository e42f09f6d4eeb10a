//go:build mage

package main

import (
	"fmt"

	"github.com/magefile/mage/mg"
)

type Run mg.Namespace

// Runs the asset validator with the default configuration.
func (Run) Validator() error {
	fmt.Println("Run validator...")
	if _, err := executeCmd("go", withArgs("run", "main.go", "--config", "config.toml"), withStream()); err != nil {
		return err
	}
	return nil
}

// Runs all tests.
func (Run) Tests() error {
	if _, err := executeCmd("go", withArgs("test", "./..."), withStream()); err != nil {
		return err
	}
	return nil
}
