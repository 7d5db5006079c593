package dispatch

import (
	"fmt"
	"mime"
	"net/http"
	"os"
	"path/filepath"

	"github.com/orris-inc/licenser/internal/shared/constants"
)

// RawResponse bodies write the HTTP response themselves and bypass the
// envelope. Render must not write anything when it returns an error.
type RawResponse interface {
	Render(w http.ResponseWriter, r *http.Request) error
}

// HTMLResponse renders an HTML document.
type HTMLResponse struct {
	Body string
}

func (h HTMLResponse) Render(w http.ResponseWriter, _ *http.Request) error {
	w.Header().Set(constants.HeaderContentType, constants.ContentTypeHTML)
	w.WriteHeader(http.StatusOK)
	_, err := w.Write([]byte(h.Body))
	return err
}

// FileResponse streams a file as an attachment.
type FileResponse struct {
	Path string
	// Filename defaults to the base name of Path
	Filename string
}

func (f FileResponse) Render(w http.ResponseWriter, r *http.Request) error {
	file, err := os.Open(f.Path)
	if err != nil {
		return fmt.Errorf("failed to open download: %w", err)
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return fmt.Errorf("failed to stat download: %w", err)
	}
	if info.IsDir() {
		return fmt.Errorf("download %s is a directory", f.Path)
	}

	name := f.Filename
	if name == "" {
		name = filepath.Base(f.Path)
	}
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": name}))
	http.ServeContent(w, r, name, info.ModTime(), file)
	return nil
}
