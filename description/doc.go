// Package description holds the static schema that drives the codec: a
// [Description] of named [Operation] values, each with an ordered set of
// [Parameter] definitions, plus reusable models.
//
// # Loading
//
// Descriptions are usually loaded from YAML or JSON:
//
//	desc, err := description.ParseWithOptions(description.WithFilePath("users.yaml"))
//
// or built in code from a [Document]:
//
//	desc, err := description.New(description.Document{
//	    BaseURL: "https://api.example.com/v1",
//	    Operations: map[string]*description.Operation{
//	        "GetUser": {
//	            HTTPMethod: "GET",
//	            URI:        "/users/{id}",
//	            Params: description.NewParams(
//	                &description.Parameter{Name: "id", Location: description.LocationURI},
//	            ),
//	        },
//	    },
//	})
//
// Loading resolves everything that can fail up front: "$ref" and "extends"
// on parameters are expanded from models, "extends" on operations merges the
// parent operation, filter names are bound to a filter.Registry, and
// response model names are checked. The result is immutable and may be
// shared by any number of goroutines.
//
// # Parameters
//
// A parameter's Location selects the handler that places it on the wire.
// Nested parameters (Properties, Items, AdditionalProperties) describe the
// shape of a value and are never dispatched on their own; their Location is
// only consulted for response models, where a property may override the
// model's location.
package description
