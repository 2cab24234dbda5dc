package client

import (
	"encoding/base64"
	"errors"
	"net/http"
	"strings"
)

// MaxImageBytes is the ceiling for inline image uploads, checked before
// encoding so an oversized file never reaches the wire.
const MaxImageBytes = 5 * 1024 * 1024

// ErrImageTooLarge is returned when an upload exceeds MaxImageBytes.
var ErrImageTooLarge = errors.New("image must be smaller than 5MB")

// ImageForm captures the state of the edit form's image control after the
// user is done with it.
type ImageForm struct {
	FileData []byte // a newly selected file, when non-empty
	URL      string // a manually entered image URL
	Cleared  bool   // the user removed the existing image
}

// ImageDecision computes the image_url value an edit submission should carry,
// from the previous stored value and the form state alone:
//
//  1. a new file wins and is inlined as a base64 data payload;
//  2. otherwise a non-empty URL field is used verbatim;
//  3. otherwise an explicit clear submits null;
//  4. otherwise the previous value is resubmitted unchanged.
//
// The result depends only on (previous, form); callers always send the field
// explicitly so the server never has to guess.
func ImageDecision(previous *string, form ImageForm) (*string, error) {
	if len(form.FileData) > 0 {
		if len(form.FileData) > MaxImageBytes {
			return nil, ErrImageTooLarge
		}
		uri := EncodeDataURI(form.FileData)
		return &uri, nil
	}

	if url := strings.TrimSpace(form.URL); url != "" {
		return &url, nil
	}

	if form.Cleared {
		return nil, nil
	}

	return previous, nil
}

// EncodeDataURI inlines raw image bytes as a data: URI, sniffing the content
// type from the payload itself.
func EncodeDataURI(data []byte) string {
	mime := http.DetectContentType(data)
	return "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(data)
}
