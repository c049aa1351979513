package report

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGotenbergPrinterRender(t *testing.T) {
	var gotFile string
	var gotDelay string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/forms/chromium/convert/html", r.URL.Path)

		require.NoError(t, r.ParseMultipartForm(1<<20))
		gotDelay = r.FormValue("waitDelay")

		file, header, err := r.FormFile("files")
		require.NoError(t, err)
		defer func() {
			_ = file.Close()
		}()
		assert.Equal(t, "index.html", header.Filename)
		content, err := io.ReadAll(file)
		require.NoError(t, err)
		gotFile = string(content)

		w.Header().Set("Content-Type", "application/pdf")
		_, _ = w.Write([]byte("%PDF-1.7 fake"))
	}))
	defer srv.Close()

	printer := NewGotenbergPrinter(srv.URL)
	pdf, err := printer.Render(context.Background(), "<html><body>doc</body></html>")
	require.NoError(t, err)

	assert.Equal(t, "<html><body>doc</body></html>", gotFile)
	assert.Equal(t, "500", gotDelay)
	assert.Contains(t, string(pdf), "%PDF")
}

func TestGotenbergPrinterRenderFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "chromium crashed", http.StatusInternalServerError)
	}))
	defer srv.Close()

	printer := NewGotenbergPrinter(srv.URL)
	_, err := printer.Render(context.Background(), "<html></html>")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "500")
}

func TestGotenbergPrinterPing(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/health", r.URL.Path)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	printer := NewGotenbergPrinter(srv.URL)
	assert.NoError(t, printer.Ping(context.Background()))
}
