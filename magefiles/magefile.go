//go:build mage

package main

import (
	"fmt"
	"runtime"

	"github.com/magefile/mage/mg"
)

type Build mg.Namespace

type Test mg.Namespace

// CLI builds the stl-thumb command into bin/.
func (Build) CLI() error {
	fmt.Println("Building stl-thumb...")
	if _, err := executeCmd("go", withArgs("build", "-o", "bin/stl-thumb"+exeSuffix(), "./cmd/stl-thumb"), withStream()); err != nil {
		return err
	}
	return nil
}

// Lib builds the C shared library and its header into bin/.
func (Build) Lib() error {
	fmt.Println("Building libstlthumb...")
	out := "bin/libstlthumb" + sharedSuffix()
	if _, err := executeCmd("go", withArgs("build", "-buildmode=c-shared", "-o", out, "./cmd/libstlthumb"), withEnv("CGO_ENABLED=1"), withStream()); err != nil {
		return err
	}
	return nil
}

// All runs every test, including the GPU-backed ones when a context can be acquired.
func (Test) All() error {
	if _, err := executeCmd("go", withArgs("test", "./..."), withStream()); err != nil {
		return err
	}
	return nil
}

// Short runs the tests that need no GPU.
func (Test) Short() error {
	if _, err := executeCmd("go", withArgs("test", "-short", "./..."), withStream()); err != nil {
		return err
	}
	return nil
}

// Tidy runs go mod tidy.
func Tidy() error {
	if _, err := executeCmd("go", withArgs("mod", "tidy")); err != nil {
		return fmt.Errorf("failed to run go mod tidy: %w", err)
	}
	return nil
}

func exeSuffix() string {
	if runtime.GOOS == "windows" {
		return ".exe"
	}
	return ""
}

func sharedSuffix() string {
	switch runtime.GOOS {
	case "windows":
		return ".dll"
	case "darwin":
		return ".dylib"
	}
	return ".so"
}
