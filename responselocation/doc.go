// Package responselocation extracts structured values from an
// *http.Response.
//
// The deserializer walks the properties of an operation's response model.
// Each property is read from its own location, or from the model's location
// when it declares none. As on the request side, Visit runs once per
// property and After once per touched location in first-visited order;
// After is where a location gathers values no property claimed into the
// model's additionalProperties.
//
// Decoded bodies are cached on the per-call [Response], so a JSON or XML
// document is parsed once however many properties read from it.
package responselocation
