// Package testutil provides test utilities and fixtures for unit tests.
package testutil

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"go.yaml.in/yaml/v4"
)

// UsersYAML is a description exercising every built-in location, model
// references, operation inheritance and filters.
const UsersYAML = `name: Users
apiVersion: "2024-01-01"
baseUrl: https://api.example.com/v1
description: A small user directory
operations:
  GetUser:
    httpMethod: GET
    uri: /users/{id}
    summary: Fetch a single user
    responseModel: User
    parameters:
      id: {location: uri, type: integer, required: true}
      fields:
        location: query
        type: array
        delimiter: ","
        items: {type: string}
      trace: {location: header, sentAs: X-Trace-Id, type: string}
  ListUsers:
    httpMethod: get
    uri: /users{?page,per_page}
    responseModel: UserList
    parameters:
      page: {location: uri, type: integer}
      per_page: {location: uri, type: integer}
      status: {location: query, type: string, filters: [lowercase]}
  CreateUser:
    httpMethod: POST
    uri: /users
    responseModel: User
    parameters:
      name: {location: json, type: string, required: true, minLength: 1}
      email: {location: json, type: string, sentAs: email_address}
      age: {location: json, type: integer, minimum: 0}
      tags:
        location: json
        type: array
        items: {type: string, filters: [lowercase]}
      address: {location: json, $ref: Address}
      apiVersion: {location: header, sentAs: X-Api-Version, static: true, default: "2024-01-01"}
  UpdateUser:
    extends: CreateUser
    httpMethod: PUT
    uri: /users/{id}
    parameters:
      id: {location: uri, type: integer, required: true}
      name: {location: json, type: string}
  UploadAvatar:
    httpMethod: POST
    uri: /users/{id}/avatar
    parameters:
      id: {location: uri, type: integer}
      caption: {location: postField, type: string}
      avatar: {location: postFile}
  SendNote:
    httpMethod: POST
    uri: /notes
    responseModel: NoteReceipt
    data:
      xmlRoot:
        name: Note
        namespaces: {n: "urn:notes"}
    parameters:
      to: {location: xml, type: string}
      priority: {location: xml, type: string, data: {xmlAttribute: true}}
      body: {location: xml, type: string, sentAs: Body}
  Echo:
    httpMethod: PUT
    uri: /echo
    responseModel: Echo
    parameters:
      payload: {location: body, filters: [uppercase]}
      contentType: {location: header, sentAs: Content-Type}
models:
  Address:
    type: object
    properties:
      street: {type: string}
      city: {type: string, filters: [ucwords]}
  User:
    type: object
    location: json
    properties:
      id: {type: integer}
      name: {type: string}
      email: {type: string, sentAs: email_address}
      requestId: {location: header, sentAs: X-Request-Id, type: string}
      status: {location: statusCode}
  UserList:
    type: object
    location: json
    properties:
      users:
        type: array
        sentAs: data
        items: {$ref: User}
      total: {type: integer}
  Echo:
    type: object
    properties:
      payload: {location: body, filters: [uppercase]}
      code: {location: statusCode}
      reason: {location: reasonPhrase}
  NoteReceipt:
    type: object
    location: xml
    properties:
      id: {type: integer, sentAs: Id}
      status: {type: string, data: {xmlAttribute: true}}
    additionalProperties: {location: xml}
`

// Ptr returns a pointer to v.
func Ptr[T any](v T) *T {
	return &v
}

// WriteTempFile writes data to name inside a per-test temporary directory
// and returns its path.
func WriteTempFile(t *testing.T, name string, data []byte) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, data, 0600); err != nil {
		t.Fatalf("Failed to write temporary file: %v", err)
	}
	return path
}

// WriteTempYAML marshals a document to YAML and writes it to a temporary file.
// The file is automatically cleaned up when the test completes (via t.TempDir).
func WriteTempYAML(t *testing.T, doc any) string {
	t.Helper()

	data, err := yaml.Marshal(doc)
	if err != nil {
		t.Fatalf("Failed to marshal document to YAML: %v", err)
	}
	return WriteTempFile(t, "test.yaml", data)
}

// WriteTempJSON marshals a document to JSON and writes it to a temporary file.
// The file is automatically cleaned up when the test completes (via t.TempDir).
func WriteTempJSON(t *testing.T, doc any) string {
	t.Helper()

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		t.Fatalf("Failed to marshal document to JSON: %v", err)
	}
	return WriteTempFile(t, "test.json", data)
}
