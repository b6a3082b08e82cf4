package requestlocation

import (
	"bytes"
	"fmt"
	"io"
	"maps"
	"mime"
	"mime/multipart"
	"net/textproto"
	"net/url"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/erraggy/restcodec/command"
	"github.com/erraggy/restcodec/description"
	"github.com/erraggy/restcodec/internal/coerce"
	"github.com/erraggy/restcodec/internal/httputil"
)

// File describes one file part of a multipart body.
type File struct {
	// Filename is sent in the part's Content-Disposition. It defaults to
	// the base name of Path, or of the reader when it has a Name method.
	Filename string
	// ContentType defaults to a guess from the filename's extension.
	ContentType string
	// Content is read when the body is written. When nil, Path is opened.
	Content io.Reader
	Path    string
}

type filePart struct {
	field string
	file  File
}

// PostFile collects parameters into a multipart/form-data body. A value may
// be a File, *File, a path string, []byte, an io.Reader (such as *os.File),
// or a slice of those for several parts under one field.
type PostFile struct{}

var _ Location = PostFile{}

// Visit implements Location.
func (PostFile) Visit(cmd *command.Command, req *Request, param *description.Parameter) error {
	v, err := prepared(cmd, param, description.LocationPostFile)
	if err != nil {
		return err
	}
	if v == nil {
		return nil
	}
	values := []any{v}
	if items, ok := coerce.Slice(v); ok {
		values = items
	}
	parts := pendingFiles(req)
	for _, item := range values {
		f, err := toFile(item)
		if err != nil {
			return handlerError(param.Name, description.LocationPostFile, "unsupported file value", err)
		}
		parts = append(parts, filePart{field: param.WireName(), file: f})
	}
	req.SetPending(description.LocationPostFile, parts)
	return nil
}

// After implements Location. Pending postField values, including
// additionalParameters targeting postField, are written as plain parts
// ahead of the files.
func (pf PostFile) After(cmd *command.Command, req *Request, op *description.Operation) error {
	if err := visitAdditional(cmd, req, op, description.LocationPostFile, pf.Visit); err != nil {
		return err
	}
	parts := pendingFiles(req)
	if len(parts) == 0 {
		return nil
	}
	if err := visitAdditional(cmd, req, op, description.LocationPostField, PostField{}.Visit); err != nil {
		return err
	}

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	if fields, ok := req.Pending(description.LocationPostField).(url.Values); ok {
		for _, key := range slices.Sorted(maps.Keys(fields)) {
			for _, value := range fields[key] {
				if err := mw.WriteField(key, value); err != nil {
					return handlerError(key, description.LocationPostField, "cannot write form part", err)
				}
			}
		}
	}
	for _, part := range parts {
		if err := writeFilePart(mw, part); err != nil {
			return handlerError(part.field, description.LocationPostFile, "cannot write file part", err)
		}
	}
	if err := mw.Close(); err != nil {
		return handlerError("", description.LocationPostFile, "cannot close multipart body", err)
	}

	req.SetBody(buf.Bytes())
	req.HTTP.Header.Set(httputil.HeaderContentType, mw.FormDataContentType())
	return nil
}

func pendingFiles(req *Request) []filePart {
	parts, _ := req.Pending(description.LocationPostFile).([]filePart)
	return parts
}

func toFile(v any) (File, error) {
	switch t := v.(type) {
	case File:
		return t, nil
	case *File:
		if t == nil {
			return File{}, fmt.Errorf("nil *File")
		}
		return *t, nil
	case string:
		if t == "" {
			return File{}, fmt.Errorf("empty file path")
		}
		return File{Path: t}, nil
	case []byte:
		return File{Content: bytes.NewReader(t)}, nil
	case io.Reader:
		return File{Content: t}, nil
	}
	return File{}, fmt.Errorf("%T cannot be sent as a file", v)
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

func writeFilePart(mw *multipart.Writer, part filePart) error {
	content := part.file.Content
	if content == nil {
		f, err := os.Open(part.file.Path)
		if err != nil {
			return err
		}
		defer f.Close()
		content = f
	}

	filename := part.file.Filename
	if filename == "" {
		filename = defaultFilename(part)
	}
	contentType := part.file.ContentType
	if contentType == "" {
		contentType = mime.TypeByExtension(filepath.Ext(filename))
	}
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="%s"; filename="%s"`,
		quoteEscaper.Replace(part.field), quoteEscaper.Replace(filename)))
	h.Set(httputil.HeaderContentType, contentType)
	w, err := mw.CreatePart(h)
	if err != nil {
		return err
	}
	_, err = io.Copy(w, content)
	return err
}

func defaultFilename(part filePart) string {
	if part.file.Path != "" {
		return filepath.Base(part.file.Path)
	}
	if named, ok := part.file.Content.(interface{ Name() string }); ok && named.Name() != "" {
		return filepath.Base(named.Name())
	}
	return part.field
}
