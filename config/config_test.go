package config

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNew(t *testing.T) {
	t.Setenv("DB_URI", "mongodb://127.0.0.1:27017")
	t.Setenv("DB_NAME", "test")
	conf := New()

	assert.NotEmpty(t, conf)
	assert.Equal(t, "mongodb://127.0.0.1:27017", conf.URL)
	assert.Equal(t, "test", conf.DatabaseName)
}

func TestNewDefaultsEmailDomain(t *testing.T) {
	t.Setenv("ALLOWED_EMAIL_DOMAIN", "")
	conf := New()
	assert.Equal(t, "kgcas.com", conf.AllowedEmailDomain)
}

func TestNewOverridesEmailDomain(t *testing.T) {
	t.Setenv("ALLOWED_EMAIL_DOMAIN", "alumni.example.edu")
	conf := New()
	assert.Equal(t, "alumni.example.edu", conf.AllowedEmailDomain)
}

func TestErrorStatus(t *testing.T) {
	w := httptest.NewRecorder()
	ErrorStatus("error it borked", http.StatusBadRequest, w, errors.New("bad request"))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "error it borked")
	assert.Contains(t, w.Body.String(), "bad request")
}
