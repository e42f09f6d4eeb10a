//go:build mage

package main

import (
	"github.com/magefile/mage/mg"
)

type Build mg.Namespace

// Compiles the asset validator binary.
func (Build) Validator() error {
	if _, err := executeCmd("go", withArgs("build", "-o", "bin/aurora", "."), withStream()); err != nil {
		return err
	}
	return nil
}

// Runs go vet over the whole module.
func (Build) Vet() error {
	if _, err := executeCmd("go", withArgs("vet", "./..."), withStream()); err != nil {
		return err
	}
	return nil
}
