// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"mime"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/olegiv/portfolio-go/internal/imaging"
	"github.com/olegiv/portfolio-go/internal/service"
	"github.com/olegiv/portfolio-go/internal/validation"
)

const (
	// maxBodyBytes caps JSON and urlencoded bodies.
	maxBodyBytes = 1 << 20
	// maxMultipartBytes leaves room for one avatar plus the text fields.
	maxMultipartBytes = imaging.MaxInputSize + maxBodyBytes
	// multipartMemory is kept in memory; larger parts spill to disk.
	multipartMemory = 4 << 20
)

// RequestBody is a request body parsed once, from a form (urlencoded or
// multipart) or a JSON object. Fields the handler never asks for are
// ignored. Accessors record type mismatches, reported by Err.
type RequestBody struct {
	form   map[string][]string
	json   map[string]json.RawMessage
	files  map[string][]*multipart.FileHeader
	mf     *multipart.Form
	opened []multipart.File
	errs   validation.Errors
}

// ParseRequestBody reads the request body according to its Content-Type.
// A body that cannot be decoded yields a *validation.Errors on field "body".
func ParseRequestBody(w http.ResponseWriter, r *http.Request) (*RequestBody, error) {
	mediaType := ""
	if ct := r.Header.Get("Content-Type"); ct != "" {
		mt, _, err := mime.ParseMediaType(ct)
		if err != nil {
			return nil, validation.BodyError(fmt.Errorf("invalid content type: %w", err))
		}
		mediaType = mt
	}

	b := &RequestBody{}
	switch {
	case mediaType == "application/json" || strings.HasSuffix(mediaType, "+json"):
		r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
		dec := json.NewDecoder(r.Body)
		if err := dec.Decode(&b.json); err != nil {
			return nil, validation.BodyError(jsonError(err))
		}
		if b.json == nil {
			return nil, validation.BodyError(errors.New("expected a JSON object"))
		}

	case mediaType == "multipart/form-data":
		r.Body = http.MaxBytesReader(w, r.Body, maxMultipartBytes)
		if err := r.ParseMultipartForm(multipartMemory); err != nil {
			return nil, validation.BodyError(err)
		}
		b.mf = r.MultipartForm
		b.form = r.MultipartForm.Value
		b.files = r.MultipartForm.File

	case mediaType == "" || mediaType == "application/x-www-form-urlencoded":
		r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
		if err := r.ParseForm(); err != nil {
			return nil, validation.BodyError(err)
		}
		b.form = r.PostForm

	default:
		return nil, validation.BodyError(fmt.Errorf("unsupported content type %q", mediaType))
	}

	return b, nil
}

func jsonError(err error) error {
	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	switch {
	case errors.As(err, &syntaxErr):
		return fmt.Errorf("malformed JSON at offset %d", syntaxErr.Offset)
	case errors.As(err, &typeErr):
		return errors.New("expected a JSON object")
	default:
		return err
	}
}

// Close closes opened uploads and removes multipart temp files.
func (b *RequestBody) Close() {
	if b == nil {
		return
	}
	for _, f := range b.opened {
		_ = f.Close()
	}
	if b.mf != nil {
		_ = b.mf.RemoveAll()
	}
}

// Lookup returns a string field and whether it was present. JSON null
// counts as absent.
func (b *RequestBody) Lookup(field string) (string, bool) {
	if b.json != nil {
		raw, ok := b.json[field]
		if !ok || isNull(raw) {
			return "", false
		}
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			b.errs.Add(field, "must be a string")
			return "", false
		}
		return s, true
	}
	vals, ok := b.form[field]
	if !ok || len(vals) == 0 {
		return "", false
	}
	return vals[0], true
}

// Value returns a string field, or "" when absent.
func (b *RequestBody) Value(field string) string {
	s, _ := b.Lookup(field)
	return s
}

// Optional returns a pointer to a present string field, or nil.
func (b *RequestBody) Optional(field string) *string {
	if s, ok := b.Lookup(field); ok {
		return &s
	}
	return nil
}

// Keywords returns a keyword list, or nil when the field is absent.
// A JSON array is taken as is; strings and repeated form values go
// through validation.NormalizeKeywords.
func (b *RequestBody) Keywords(field string) []string {
	if b.json != nil {
		raw, ok := b.json[field]
		if !ok || isNull(raw) {
			return nil
		}
		var list []string
		if err := json.Unmarshal(raw, &list); err == nil {
			out := make([]string, 0, len(list))
			for _, k := range list {
				out = append(out, strings.TrimSpace(k))
			}
			return out
		}
		var s string
		if err := json.Unmarshal(raw, &s); err == nil {
			return validation.NormalizeKeywords(s)
		}
		b.errs.Add(field, "must be a list of strings")
		return nil
	}
	vals, ok := b.form[field]
	if !ok {
		return nil
	}
	return validation.NormalizeKeywords(vals...)
}

// File returns the first uploaded file for field, or nil. The upload is
// closed by Close.
func (b *RequestBody) File(field string) (*service.Upload, error) {
	headers := b.files[field]
	if len(headers) == 0 || headers[0].Size == 0 {
		return nil, nil
	}
	fh := headers[0]
	f, err := fh.Open()
	if err != nil {
		return nil, fmt.Errorf("opening upload: %w", err)
	}
	b.opened = append(b.opened, f)
	return &service.Upload{
		Filename:    fh.Filename,
		ContentType: fh.Header.Get("Content-Type"),
		Size:        fh.Size,
		Reader:      f,
	}, nil
}

// Err returns the type mismatches recorded by the accessors, or nil.
func (b *RequestBody) Err() error {
	if len(b.errs.Fields) == 0 {
		return nil
	}
	e := b.errs
	return &e
}

func isNull(raw json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}
