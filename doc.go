// Package restcodec converts named command parameters into wire-level HTTP
// requests and converts HTTP responses back into structured values, driven by a
// static service description instead of hand-written per-endpoint code.
//
// # Overview
//
// The library is split into a few packages:
//
//   - description: the schema model (Description, Operation, Parameter) and
//     a loader for YAML and JSON description files
//   - command: the named value bag passed by callers
//   - filter: named value transformations referenced by parameters
//   - requestlocation: handlers that place values on an outgoing request
//   - responselocation: handlers that extract values from a response
//   - codec: the Serializer and Deserializer that dispatch parameters to
//     location handlers
//   - validation: optional JSON Schema validation of command values
//
// None of the packages perform network I/O. A serialized *http.Request is
// handed to whatever transport the caller already uses.
//
// # Quick Start
//
// Load a description and serialize a command:
//
//	desc, err := description.ParseWithOptions(description.WithFilePath("users.yaml"))
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	s, err := codec.NewSerializer(desc)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	req, err := s.Serialize(ctx, command.New("GetUser", map[string]any{"id": 42}))
//	if err != nil {
//		log.Fatal(err)
//	}
//	resp, err := http.DefaultClient.Do(req)
//
// Decode the response with the operation's response model:
//
//	d, _ := codec.NewDeserializer(desc)
//	result, err := d.Deserialize(cmd, resp)
//	fmt.Println(result["name"])
//
// # Description Files
//
// A description names a base endpoint, a set of operations and a set of
// reusable models:
//
//	name: Users
//	baseUrl: https://api.example.com/v1
//	operations:
//	  CreateUser:
//	    httpMethod: POST
//	    uri: /users
//	    parameters:
//	      name: {location: json, type: string, filters: [trim]}
//	      age:  {location: json, type: integer}
//	models:
//	  User:
//	    type: object
//	    location: json
//	    properties:
//	      name: {type: string}
//
// See the description package documentation for the full format.
//
// # Command Line
//
// The restcodec command lists operations, prints the request an operation
// would send, and decodes a captured response:
//
//	restcodec operations -detail users.yaml
//	restcodec serialize -p id=42 users.yaml GetUser
//	curl -si https://api.example.com/v1/users/42 | restcodec deserialize users.yaml GetUser
//
// restcodec mcp serves the same three actions as MCP tools over stdio.
package restcodec
