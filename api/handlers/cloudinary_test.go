package handlers

import (
	"crypto/hmac"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGenerateSignature(t *testing.T) {
	t.Setenv("CLOUDINARY_UPLOAD_PRESET", "alumni_profiles")
	t.Setenv("CLOUDINARY_API_SECRET", "test-secret")

	handler := UploadSignatureHandler{}

	req := httptest.NewRequest("POST", "/api/v1/generate-signature", nil)
	w := httptest.NewRecorder()

	handler.GenerateSignature(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp map[string]string
	assert.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	assert.NotEmpty(t, resp["timestamp"])
	assert.NotEmpty(t, resp["signature"])

	h := hmac.New(sha1.New, []byte("test-secret"))
	h.Write([]byte("timestamp=" + resp["timestamp"] + "&upload_preset=alumni_profiles"))
	assert.Equal(t, hex.EncodeToString(h.Sum(nil)), resp["signature"])
}
