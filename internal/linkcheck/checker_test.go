package linkcheck

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestCheck(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/ok", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(`<html lang="de-DE"><head><title> Amino Shop </title></head><body>Hallo</body></html>`))
	})
	mux.HandleFunc("/nolang", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<html><head><title>Магазин</title></head><body>Привет мир, это тестовый текст</body></html>`))
	})
	mux.HandleFunc("/gone", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusGone)
	})
	mux.HandleFunc("/moved", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/ok", http.StatusFound)
	})
	mux.HandleFunc("/slow", func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	c := NewChecker(50*time.Millisecond, zap.NewNop())

	t.Run("title and html lang", func(t *testing.T) {
		rep, err := c.Check(t.Context(), srv.URL+"/ok")
		require.NoError(t, err)
		assert.True(t, rep.OK)
		assert.Equal(t, http.StatusOK, rep.StatusCode)
		assert.Equal(t, "Amino Shop", rep.Title)
		assert.Equal(t, "de", rep.Language)
	})

	t.Run("language guessed from body", func(t *testing.T) {
		rep, err := c.Check(t.Context(), srv.URL+"/nolang")
		require.NoError(t, err)
		assert.Equal(t, "ru", rep.Language)
	})

	t.Run("non-2xx is reported", func(t *testing.T) {
		rep, err := c.Check(t.Context(), srv.URL+"/gone")
		require.NoError(t, err)
		assert.False(t, rep.OK)
		assert.Equal(t, http.StatusGone, rep.StatusCode)
		assert.Equal(t, "HTTP 410", rep.Error)
	})

	t.Run("redirects are followed", func(t *testing.T) {
		rep, err := c.Check(t.Context(), srv.URL+"/moved")
		require.NoError(t, err)
		assert.True(t, rep.OK)
		assert.Equal(t, srv.URL+"/ok", rep.FinalURL)
	})

	t.Run("timeout", func(t *testing.T) {
		rep, err := c.Check(t.Context(), srv.URL+"/slow")
		require.NoError(t, err)
		assert.False(t, rep.OK)
		assert.NotEmpty(t, rep.Error)
	})

	t.Run("bad url", func(t *testing.T) {
		_, err := c.Check(t.Context(), "://nope")
		assert.Error(t, err)
	})
}

func TestLanguageMatches(t *testing.T) {
	tests := []struct {
		detected, want string
		expected       bool
	}{
		{"en", "en", true},
		{"en-US", "en", true},
		{"EN", "en_GB", true},
		{"de", "en", false},
		{"unknown", "unknown", false},
		{"other", "other", false},
	}
	for _, tt := range tests {
		t.Run(tt.detected+"/"+tt.want, func(t *testing.T) {
			assert.Equal(t, tt.expected, LanguageMatches(tt.detected, tt.want))
		})
	}
}

func TestGuessLanguage(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"Привет мир, это тестовый текст на русском языке", "ru"},
		{"Hello world, this is a test text in English", "en"},
		{"", "unknown"},
		{"مرحبا بالعالم", "ar"},
		{"12345 !!!", "unknown"},
		{"Привет hello мир world тест test текст text", "ru"},
	}
	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			assert.Equal(t, tt.expected, guessLanguage(tt.input))
		})
	}
}
