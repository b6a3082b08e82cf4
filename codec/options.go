package codec

import (
	"github.com/erraggy/restcodec"
	"github.com/erraggy/restcodec/codecerrors"
	"github.com/erraggy/restcodec/description"
	"github.com/erraggy/restcodec/requestlocation"
	"github.com/erraggy/restcodec/responselocation"
	"github.com/erraggy/restcodec/validation"
)

// Option configures a Serializer or Deserializer. Options that only
// concern one side are ignored by the other.
type Option func(*config) error

type config struct {
	requestLocations  map[description.Location]requestlocation.Location
	responseLocations map[description.Location]responselocation.Location

	logger    description.Logger
	metrics   *Metrics
	validator *validation.Validator
	userAgent string
}

func applyOptions(opts ...Option) (*config, error) {
	cfg := &config{
		requestLocations:  requestlocation.Defaults(),
		responseLocations: responselocation.Defaults(),
		logger:            description.NopLogger{},
		userAgent:         restcodec.UserAgent(),
	}
	for _, opt := range opts {
		if err := opt(cfg); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}

// WithRequestLocation registers h for loc on the request side, replacing
// any built-in handler of the same name.
func WithRequestLocation(loc description.Location, h requestlocation.Location) Option {
	return func(c *config) error {
		if loc.IsNone() {
			return &codecerrors.ConfigError{Option: "WithRequestLocation", Message: "location name cannot be empty"}
		}
		if h == nil {
			return &codecerrors.ConfigError{Option: "WithRequestLocation", Value: string(loc), Message: "handler cannot be nil"}
		}
		c.requestLocations[loc] = h
		return nil
	}
}

// WithResponseLocation registers h for loc on the response side.
func WithResponseLocation(loc description.Location, h responselocation.Location) Option {
	return func(c *config) error {
		if loc.IsNone() {
			return &codecerrors.ConfigError{Option: "WithResponseLocation", Message: "location name cannot be empty"}
		}
		if h == nil {
			return &codecerrors.ConfigError{Option: "WithResponseLocation", Value: string(loc), Message: "handler cannot be nil"}
		}
		c.responseLocations[loc] = h
		return nil
	}
}

// WithLogger sets the logger for per-call debug events.
// Default is description.NopLogger.
func WithLogger(l description.Logger) Option {
	return func(c *config) error {
		if l == nil {
			l = description.NopLogger{}
		}
		c.logger = l
		return nil
	}
}

// WithMetrics records call counts and durations on m.
func WithMetrics(m *Metrics) Option {
	return func(c *config) error {
		c.metrics = m
		return nil
	}
}

// WithValidation validates command values against the operation before a
// request is built. Default is false.
func WithValidation(enabled bool) Option {
	return func(c *config) error {
		if enabled {
			c.validator = validation.New()
		} else {
			c.validator = nil
		}
		return nil
	}
}

// WithUserAgent sets the User-Agent header of serialized requests. An
// empty string disables the header. Default is restcodec.UserAgent().
// A User-Agent placed by a header parameter always wins.
func WithUserAgent(ua string) Option {
	return func(c *config) error {
		c.userAgent = ua
		return nil
	}
}
