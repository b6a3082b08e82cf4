// Package validation checks command values against the constraints their
// parameters declare before a request is built.
//
// Each operation is translated once into a JSON Schema (draft 2020-12)
// document: parameter types, required flags, enums, numeric bounds, string
// lengths, patterns, nested properties and array items all carry over.
// The compiled schema is cached on the [Validator], so repeated commands
// for the same operation only pay for validation.
//
//	v := validation.New()
//	if err := v.Validate(op, cmd); err != nil {
//	    var ve *codecerrors.ValidationError
//	    if errors.As(err, &ve) {
//	        for _, violation := range ve.Violations {
//	            fmt.Println(violation)
//	        }
//	    }
//	}
//
// Required parameters that carry a default or static value never fail the
// required check, since the serializer supplies the value itself. File
// uploads and streamed bodies are not validated.
package validation
