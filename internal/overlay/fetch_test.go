package overlay

import (
	"bytes"
	"context"
	"encoding/binary"
	"errors"
	"hash/crc32"
	"image"
	"image/png"
	"net/http"
	"net/http/httptest"
	"testing"

	"coverserver/internal/domain"
)

// withDimensions rewrites the IHDR chunk of a PNG to declare w x h and
// fixes up its checksum. The pixel data is left as it was.
func withDimensions(t *testing.T, data []byte, w, h uint32) []byte {
	t.Helper()
	out := append([]byte(nil), data...)
	if string(out[12:16]) != "IHDR" {
		t.Fatalf("unexpected first chunk %q", out[12:16])
	}
	binary.BigEndian.PutUint32(out[16:20], w)
	binary.BigEndian.PutUint32(out[20:24], h)
	binary.BigEndian.PutUint32(out[29:33], crc32.ChecksumIEEE(out[12:29]))
	return out
}

func smallPNG(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, image.NewGray(image.Rect(0, 0, 4, 4))); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	return buf.Bytes()
}

func TestDecodeRejectsOversizedHeader(t *testing.T) {
	cases := map[string][2]uint32{
		"20000x20000":   {20000, 20000},
		"100000x100000": {100000, 100000},
		"wide strip":    {1 << 30, 1},
	}
	for name, dims := range cases {
		data := withDimensions(t, smallPNG(t), dims[0], dims[1])
		if _, err := Decode(bytes.NewReader(data)); !errors.Is(err, domain.ErrRetrieval) {
			t.Fatalf("%s: error = %v, want ErrRetrieval", name, err)
		}
	}
}

func TestDecodeAcceptsNormalImage(t *testing.T) {
	img, err := Decode(bytes.NewReader(smallPNG(t)))
	if err != nil {
		t.Fatalf("Decode returned error: %v", err)
	}
	if img.Bounds().Size() != image.Pt(4, 4) {
		t.Fatalf("size = %v, want 4x4", img.Bounds().Size())
	}
}

func TestDecodeRejectsOversizedBody(t *testing.T) {
	data := append(smallPNG(t), make([]byte, maxSourceBytes)...)
	if _, err := Decode(bytes.NewReader(data)); !errors.Is(err, domain.ErrRetrieval) {
		t.Fatalf("error = %v, want ErrRetrieval", err)
	}
}

func TestFetchRejectsOversizedHeader(t *testing.T) {
	data := withDimensions(t, smallPNG(t), 20000, 20000)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "image/png")
		_, _ = w.Write(data)
	}))
	defer srv.Close()

	if _, err := NewFetcher(0).Fetch(context.Background(), srv.URL); !errors.Is(err, domain.ErrRetrieval) {
		t.Fatalf("error = %v, want ErrRetrieval", err)
	}
}
