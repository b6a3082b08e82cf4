// Package codecerrors provides structured error types for restcodec.
//
// Import path: github.com/erraggy/restcodec/codecerrors
//
// Every failure surfaced by the serializer, the deserializer, the location
// handlers and the description loader is one of the types below, so callers
// can branch with [errors.Is] and [errors.As] instead of matching strings.
//
// # Error Types
//
//   - [UnknownOperationError]: a command names an operation the description lacks
//   - [UnregisteredLocationError]: a parameter declares a location with no handler
//   - [FilterError]: a filter rejected a parameter value
//   - [LocationHandlerError]: a handler could not place or extract a value
//   - [ValidationError]: command values violate the operation's parameter rules
//   - [ParseError]: a description document could not be decoded
//   - [ConfigError]: invalid options or an inconsistent description
//
// # Sentinel Errors
//
// Each type matches its sentinel with errors.Is:
//
//	req, err := s.Serialize(ctx, cmd)
//	if errors.Is(err, codecerrors.ErrUnknownOperation) {
//	    // the command name is wrong, not the values
//	}
//
// The typed errors carry the operation, parameter and location involved:
//
//	var ferr *codecerrors.FilterError
//	if errors.As(err, &ferr) {
//	    log.Printf("%s.%s (%s) failed filter %s", ferr.Operation, ferr.Parameter, ferr.Location, ferr.Filter)
//	}
package codecerrors
