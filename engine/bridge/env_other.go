//go:build !linux

package bridge

func applyEnvironment() {}
