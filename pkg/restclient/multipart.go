package restclient

import (
	"bytes"
	"io"
	"mime/multipart"
)

// BodyEncoder lets a request body choose its own wire format. Bodies that do
// not implement it are sent as JSON.
type BodyEncoder interface {
	Encode() (contentType string, body io.Reader, err error)
}

// File is one file part of a multipart body.
type File struct {
	Field   string
	Name    string
	Content []byte
}

// Multipart is a multipart/form-data request body.
type Multipart struct {
	Fields map[string]string
	Files  []File
}

func (m Multipart) Encode() (string, io.Reader, error) {
	buf := &bytes.Buffer{}
	w := multipart.NewWriter(buf)
	for k, v := range m.Fields {
		if err := w.WriteField(k, v); err != nil {
			return "", nil, err
		}
	}
	for _, f := range m.Files {
		part, err := w.CreateFormFile(f.Field, f.Name)
		if err != nil {
			return "", nil, err
		}
		if _, err := part.Write(f.Content); err != nil {
			return "", nil, err
		}
	}
	if err := w.Close(); err != nil {
		return "", nil, err
	}
	return w.FormDataContentType(), buf, nil
}
