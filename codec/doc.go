// Package codec converts named commands into HTTP requests and HTTP
// responses into results, driven by a [description.Description].
//
// # Serializing
//
// A [Serializer] resolves the command's operation, expands its URI
// template against the description's base URL, hands each supplied
// parameter to the handler registered for its location, and finally lets
// every handler that saw a parameter finish the request:
//
//	s, err := codec.NewSerializer(desc)
//	req, err := s.Serialize(ctx, command.New("GetUser", map[string]any{"id": 42}))
//
// # Deserializing
//
// A [Deserializer] reads the operation's response model from a response.
// Each model property is extracted by the handler of its location (or the
// model's location when the property has none):
//
//	d, err := codec.NewDeserializer(desc)
//	result, err := d.Deserialize(cmd, resp)
//
// # Customizing
//
// Handlers for new locations are added with [WithRequestLocation] and
// [WithResponseLocation]; the built-in ones can be replaced the same way.
// [WithValidation] checks command values before serialization, and
// [WithMetrics] records call counts and latencies in Prometheus collectors.
//
// Serializers and Deserializers keep no per-call state and may be shared
// between goroutines.
package codec
