package server

import (
	"errors"
	"fmt"

	"github.com/Brownie44l1/http-pool/internal/headers"
	"github.com/Brownie44l1/http-pool/internal/request"
)

// minReadBufferSize is enough for "GET / HTTP/1.1\r\n\r\n" with room to spare
const minReadBufferSize = 64

var ErrInvalidConfig = errors.New("invalid server config")

// Config holds the knobs owned by the startup code
type Config struct {
	Addr           string
	Workers        int  // size of the worker pool
	ReadBufferSize int  // request head bytes read per connection
	MaxHeaders     int  // header lines kept per request
	StrictMethods  bool // answer 405 to anything but GET
}

// DefaultConfig returns the stock configuration
func DefaultConfig() Config {
	return Config{
		Addr:           ":4221",
		Workers:        10,
		ReadBufferSize: request.DefaultBufferSize,
		MaxHeaders:     headers.DefaultMaxLines,
	}
}

func (c Config) validate() error {
	if c.Workers <= 0 {
		return fmt.Errorf("%w: workers must be positive, got %d", ErrInvalidConfig, c.Workers)
	}
	if c.ReadBufferSize < minReadBufferSize {
		return fmt.Errorf("%w: read buffer must be at least %d bytes, got %d",
			ErrInvalidConfig, minReadBufferSize, c.ReadBufferSize)
	}
	if c.MaxHeaders <= 0 {
		return fmt.Errorf("%w: max headers must be positive, got %d", ErrInvalidConfig, c.MaxHeaders)
	}
	return nil
}
