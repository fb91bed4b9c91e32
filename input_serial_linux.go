//go:build linux

package ssd1306fx

import (
	"fmt"

	"golang.org/x/sys/unix"
)

// SerialInput is a stream Input reading bytes from a tty such as a USB serial
// adapter. Every received byte is one event.
type SerialInput struct {
	fd      int
	path    string
	pending int
	buf     []byte
}

// OpenSerial opens the tty at path in non-blocking raw mode. Settings other
// than canonical mode and echo (baud rate, parity) are left as configured.
func OpenSerial(path string) (*SerialInput, error) {
	fd, err := unix.Open(path, unix.O_RDONLY|unix.O_NOCTTY|unix.O_NONBLOCK, 0)
	if err != nil {
		return nil, fmt.Errorf("ssd1306fx: open %s: %w", path, err)
	}

	// Not every stream is a tty (e.g. a FIFO); raw mode is best-effort.
	if t, err := unix.IoctlGetTermios(fd, unix.TCGETS); err == nil {
		t.Lflag &^= unix.ICANON | unix.ECHO | unix.ISIG
		t.Cc[unix.VMIN] = 0
		t.Cc[unix.VTIME] = 0
		if err := unix.IoctlSetTermios(fd, unix.TCSETS, t); err != nil {
			_ = unix.Close(fd)
			return nil, fmt.Errorf("ssd1306fx: raw mode on %s: %w", path, err)
		}
	}

	return &SerialInput{fd: fd, path: path, buf: make([]byte, 256)}, nil
}

// HasEvent reports whether a byte is buffered, polling the tty without blocking.
func (s *SerialInput) HasEvent() bool {
	if s.pending > 0 {
		return true
	}
	s.pending += s.drain()
	return s.pending > 0
}

// Consume drops one received byte.
func (s *SerialInput) Consume() {
	if s.pending > 0 {
		s.pending--
	}
}

// Clear drops every received byte, including bytes still in the kernel buffer.
func (s *SerialInput) Clear() {
	for s.drain() > 0 {
	}
	s.pending = 0
}

// drain reads whatever is immediately available and returns the byte count.
func (s *SerialInput) drain() int {
	fds := []unix.PollFd{{Fd: int32(s.fd), Events: unix.POLLIN}}
	n, err := unix.Poll(fds, 0)
	if err != nil || n == 0 || fds[0].Revents&unix.POLLIN == 0 {
		return 0
	}
	read, err := unix.Read(s.fd, s.buf)
	if err != nil || read < 0 {
		return 0
	}
	return read
}

// Close releases the tty.
func (s *SerialInput) Close() error {
	return unix.Close(s.fd)
}

// String returns the device path.
func (s *SerialInput) String() string {
	return "serial(" + s.path + ")"
}
