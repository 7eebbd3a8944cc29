package ioutils

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestWriteTempFile(t *testing.T) {
	path, err := WriteTempFile("flare_test_", ".bin", []byte("artwork"))
	if err != nil {
		t.Fatalf("WriteTempFile() error = %v", err)
	}
	defer os.Remove(path)

	if filepath.Dir(path) != filepath.Clean(os.TempDir()) {
		t.Errorf("temp file %q not under %q", path, os.TempDir())
	}
	if !strings.HasPrefix(filepath.Base(path), "flare_test_") || filepath.Ext(path) != ".bin" {
		t.Errorf("unexpected temp file name %q", path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "artwork" {
		t.Errorf("content = %q, want %q", data, "artwork")
	}
}

func TestTempName_Unique(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		name := TempName("flare_", ".jpg")
		if seen[name] {
			t.Fatalf("duplicate temp name %q", name)
		}
		seen[name] = true
	}
}

func TestRemoveIfExists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "file")
	if err := os.WriteFile(path, []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}

	if err := RemoveIfExists(path); err != nil {
		t.Errorf("RemoveIfExists() error = %v", err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("file still exists after RemoveIfExists")
	}
	if err := RemoveIfExists(path); err != nil {
		t.Errorf("RemoveIfExists() on missing file error = %v", err)
	}
	if err := RemoveIfExists(""); err != nil {
		t.Errorf("RemoveIfExists(\"\") error = %v", err)
	}
}

func TestImageService_Fit(t *testing.T) {
	svc := NewImageService()
	ctx := context.Background()

	large := encodePNG(t, 1200, 800)
	data, resized, err := svc.Fit(ctx, large, 600)
	if err != nil {
		t.Fatalf("Fit() error = %v", err)
	}
	if !resized {
		t.Fatal("expected large image to be resized")
	}
	img, err := jpeg.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("resized output is not JPEG: %v", err)
	}
	if got := img.Bounds(); got.Dx() != 600 || got.Dy() != 400 {
		t.Errorf("resized bounds = %dx%d, want 600x400", got.Dx(), got.Dy())
	}

	small := encodePNG(t, 100, 100)
	data, resized, err = svc.Fit(ctx, small, 600)
	if err != nil {
		t.Fatalf("Fit() error = %v", err)
	}
	if resized || !bytes.Equal(data, small) {
		t.Error("small image should be returned untouched")
	}

	data, resized, err = svc.Fit(ctx, large, 0)
	if err != nil || resized || !bytes.Equal(data, large) {
		t.Error("maxSize 0 should disable resizing")
	}
}

func TestImageService_FitInvalidData(t *testing.T) {
	if _, _, err := NewImageService().Fit(context.Background(), []byte("not an image"), 600); err == nil {
		t.Error("Fit() expected error for invalid image data")
	}
}

func encodePNG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		img.Set(x, h/2, color.RGBA{R: 255, A: 255})
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}
