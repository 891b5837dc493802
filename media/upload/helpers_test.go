package upload_test

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
)

type formFile struct {
	field    string
	name     string
	contents []byte
}

// newFormRequest returns a multipart request with the given plain values and
// files.
func newFormRequest(t *testing.T, method string, values map[string]string, files ...formFile) *http.Request {
	t.Helper()

	var body bytes.Buffer
	w := multipart.NewWriter(&body)

	for k, v := range values {
		if err := w.WriteField(k, v); err != nil {
			t.Fatalf("write field %q: %v", k, err)
		}
	}

	for _, f := range files {
		fw, err := w.CreateFormFile(f.field, f.name)
		if err != nil {
			t.Fatalf("create form file %q: %v", f.field, err)
		}
		if _, err := fw.Write(f.contents); err != nil {
			t.Fatalf("write form file %q: %v", f.field, err)
		}
	}

	if err := w.Close(); err != nil {
		t.Fatalf("close multipart writer: %v", err)
	}

	req := httptest.NewRequest(method, "/", &body)
	req.Header.Set("Content-Type", w.FormDataContentType())

	return req
}

// assertEmptyDir fails if dir contains files. A missing directory is empty.
func assertEmptyDir(t *testing.T, dir string) {
	t.Helper()

	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return
		}
		t.Fatalf("read %s: %v", dir, err)
	}

	if len(entries) > 0 {
		names := make([]string, len(entries))
		for i, e := range entries {
			names[i] = e.Name()
		}
		t.Fatalf("%s should be empty; contains %v", dir, names)
	}
}
