package layout

import (
	"errors"
	"fmt"
	"io"

	"github.com/sirupsen/logrus"

	"github.com/Deanly/struct-layout-sub000/internal/options"
)

// DefaultDumpLimit is the number of input bytes included in the hex dump
// logged on a decode failure.
const DefaultDumpLimit = 256

type config struct {
	logger    logrus.FieldLogger
	dumpLimit int
}

// Option configures an Engine.
type Option = options.Option[*config]

func defaultConfig() *config {
	logger := logrus.New()
	logger.SetOutput(io.Discard)

	return &config{
		logger:    logger,
		dumpLimit: DefaultDumpLimit,
	}
}

// WithLogger sets the logger receiving encode and decode failure diagnostics.
// Diagnostics are logged at debug level.
func WithLogger(logger logrus.FieldLogger) Option {
	return options.New(func(c *config) error {
		if logger == nil {
			return errors.New("layout: nil logger")
		}
		c.logger = logger

		return nil
	})
}

// WithDumpLimit caps the bytes rendered in decode failure hex dumps.
// Zero disables the dump.
func WithDumpLimit(n int) Option {
	return options.New(func(c *config) error {
		if n < 0 {
			return fmt.Errorf("layout: dump limit must not be negative, got %d", n)
		}
		c.dumpLimit = n

		return nil
	})
}
