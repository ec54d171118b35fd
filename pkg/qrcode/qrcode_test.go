package qrcode

import (
	"bytes"
	"encoding/base64"
	"image/png"
	"strings"
	"testing"
)

const testZoneID = "65f2a1b3c4d5e6f708192a3b"

func TestGenerate(t *testing.T) {
	payload, err := Generate(testZoneID)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if !strings.HasPrefix(payload, DataURLPrefix) {
		t.Fatalf("payload missing data URL prefix: %.40s", payload)
	}

	raw, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(payload, DataURLPrefix))
	if err != nil {
		t.Fatalf("payload is not valid base64: %v", err)
	}
	img, err := png.Decode(bytes.NewReader(raw))
	if err != nil {
		t.Fatalf("payload is not a PNG: %v", err)
	}
	if w := img.Bounds().Dx(); w != pngSize {
		t.Fatalf("image width = %d, want %d", w, pngSize)
	}
}

func TestGenerate_Deterministic(t *testing.T) {
	first, err := Generate(testZoneID)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	second, err := Generate(testZoneID)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if first != second {
		t.Fatal("payload differs between runs for the same zone id")
	}

	other, err := Generate("65f2a1b3c4d5e6f708192a3c")
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if other == first {
		t.Fatal("distinct zone ids produced the same payload")
	}
}

func TestGenerate_EmptyID(t *testing.T) {
	if _, err := Generate(""); err == nil {
		t.Fatal("expected an error for empty zone id")
	}
}
