//go:build !linux

package ssd1306fx

import "errors"

// SerialInput is only available on Linux.
type SerialInput struct{}

// OpenSerial always fails on this platform.
func OpenSerial(path string) (*SerialInput, error) {
	return nil, errors.New("ssd1306fx: serial input is only supported on linux")
}

func (*SerialInput) HasEvent() bool { return false }
func (*SerialInput) Consume()       {}
func (*SerialInput) Clear()         {}
func (*SerialInput) Close() error   { return nil }
func (*SerialInput) String() string { return "serial(unsupported)" }
