package openai

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"net/http/httptest"
	"testing"
)

func tinyPNG(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 2, 2))
	img.Set(0, 0, color.RGBA{R: 255, A: 255})
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	return buf.Bytes()
}

func TestEditImages(t *testing.T) {
	valid := tinyPNG(t)
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(16 << 20); err != nil {
			t.Fatalf("parse multipart: %v", err)
		}
		if got := r.FormValue("prompt"); got != "make an outfit" {
			t.Fatalf("prompt = %q", got)
		}
		if got := r.FormValue("size"); got != "1024x1024" {
			t.Fatalf("size = %q", got)
		}
		if got := r.FormValue("n"); got != "2" {
			t.Fatalf("n = %q", got)
		}
		files := r.MultipartForm.File["image[]"]
		if len(files) != 2 {
			t.Fatalf("expected 2 image parts, got %d", len(files))
		}
		if files[0].Filename != "ref_1.png" || files[1].Filename != "ref_2.png" {
			t.Fatalf("image parts out of order: %s, %s", files[0].Filename, files[1].Filename)
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"data": []map[string]string{
				{"b64_json": base64.StdEncoding.EncodeToString(valid)},
				{"b64_json": base64.StdEncoding.EncodeToString(valid)},
			},
		})
	}))
	defer ts.Close()

	images, err := testClient(t, ts.URL).EditImages(context.Background(), ImageEditRequest{
		Prompt: "make an outfit",
		Size:   "1024x1024",
		Count:  2,
		Images: []ImagePart{{Data: valid}, {Data: valid}},
	})
	if err != nil {
		t.Fatalf("edit images: %v", err)
	}
	if len(images) != 2 {
		t.Fatalf("expected 2 images, got %d", len(images))
	}
}

func TestEditImagesSkipsUndecodable(t *testing.T) {
	valid := tinyPNG(t)
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{
			"data": []map[string]string{
				{"b64_json": base64.StdEncoding.EncodeToString([]byte("garbage"))},
				{"b64_json": "%%%not-base64%%%"},
				{"b64_json": base64.StdEncoding.EncodeToString(valid)},
			},
		})
	}))
	defer ts.Close()

	images, err := testClient(t, ts.URL).EditImages(context.Background(), ImageEditRequest{
		Prompt: "p",
		Count:  2,
		Images: []ImagePart{{Data: valid}},
	})
	if err != nil {
		t.Fatalf("edit images: %v", err)
	}
	if len(images) != 1 {
		t.Fatalf("expected only the decodable candidate, got %d", len(images))
	}
}

func TestEditImagesZeroDecodableFails(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{
			"data": []map[string]string{{"b64_json": base64.StdEncoding.EncodeToString([]byte("garbage"))}},
		})
	}))
	defer ts.Close()

	_, err := testClient(t, ts.URL).EditImages(context.Background(), ImageEditRequest{
		Prompt: "p",
		Count:  1,
		Images: []ImagePart{{Data: []byte("ref")}},
	})
	if err == nil {
		t.Fatalf("expected failure when no candidate decodes")
	}
}

func TestEditImagesUpstreamError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_ = json.NewEncoder(w).Encode(map[string]any{"error": map[string]string{"message": "model overloaded"}})
	}))
	defer ts.Close()

	_, err := testClient(t, ts.URL).EditImages(context.Background(), ImageEditRequest{
		Prompt: "p",
		Count:  1,
		Images: []ImagePart{{Data: []byte("ref")}},
	})
	if err == nil {
		t.Fatalf("expected upstream error")
	}
}

func TestEditImagesRequiresReferences(t *testing.T) {
	if _, err := testClient(t, "http://localhost:0").EditImages(context.Background(), ImageEditRequest{Prompt: "p", Count: 1}); err == nil {
		t.Fatalf("expected error without reference images")
	}
}
