// Package requestlocation places command values on an outgoing
// *http.Request.
//
// Each [Location] handles one parameter location. The serializer calls
// Visit once for every parameter of that location the command supplies,
// then After exactly once per touched location, in the order locations were
// first visited. Handlers are stateless: anything accumulated between Visit
// and After lives on the per-call [Request], so one handler value serves
// any number of concurrent serializations.
//
// Built-in handlers:
//
//	body       the filtered value becomes the raw body (last writer wins)
//	query      appended to the URL query; arrays repeat the key unless the
//	           parameter declares a delimiter, objects use name[key]
//	header     header named by the wire name; arrays joined by the delimiter
//	json       collected into one JSON object body
//	xml        collected into one XML document body
//	postField  url-encoded form body
//	postFile   multipart/form-data body, including any postField values
//
// Every After also places the command's undeclared values when the
// operation's additionalParameters targets that location.
package requestlocation
