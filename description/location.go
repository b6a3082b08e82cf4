package description

// Location names where a parameter's value lives in an HTTP message.
// The set below is what the built-in handlers understand; any other
// non-empty string is a custom location resolved against the handler
// registry of a Serializer or Deserializer.
type Location string

// Built-in locations.
const (
	// LocationNone marks a parameter that is never placed on the wire.
	LocationNone Location = ""

	LocationURI          Location = "uri"
	LocationBody         Location = "body"
	LocationQuery        Location = "query"
	LocationHeader       Location = "header"
	LocationJSON         Location = "json"
	LocationXML          Location = "xml"
	LocationPostField    Location = "postField"
	LocationPostFile     Location = "postFile"
	LocationStatusCode   Location = "statusCode"
	LocationReasonPhrase Location = "reasonPhrase"
)

// String returns the location name.
func (l Location) String() string { return string(l) }

// IsNone reports whether l places nothing on the wire.
func (l Location) IsNone() bool { return l == LocationNone }
