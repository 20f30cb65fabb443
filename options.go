package vicar

import (
	"io"

	"github.com/sirupsen/logrus"

	"github.com/arloliu/vicar/internal/options"
)

type config struct {
	logger logrus.FieldLogger
}

// Option configures Parse, ReadFrom, Open and New.
type Option = options.Option[*config]

// WithLogger sets the logger that receives debug records of the parse state
// machine. Without it nothing is logged.
func WithLogger(logger logrus.FieldLogger) Option {
	return options.New(func(c *config) error {
		if logger != nil {
			c.logger = logger
		}

		return nil
	})
}

func newConfig(opts []Option) (*config, error) {
	c := &config{logger: discardLogger()}
	if err := options.Apply(c, opts...); err != nil {
		return nil, err
	}

	return c, nil
}

func discardLogger() logrus.FieldLogger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	l.SetLevel(logrus.PanicLevel)

	return l
}
