package handler

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/gin-gonic/gin"

	"github.com/shakti20/Camper/internal/model"
	"github.com/shakti20/Camper/internal/service"
	"github.com/shakti20/Camper/internal/session"
)

// render draws a page with the current user and the session's one-shot
// notifications merged into the template data. Popping the flash here is
// what makes a notification show exactly once.
func render(c *gin.Context, sessions *session.Manager, code int, name string, data gin.H) {
	if data == nil {
		data = gin.H{}
	}
	flash := sessions.PopFlash(c)
	data["currentUser"] = session.CurrentUser(c)
	data["success"] = flash[model.FlashSuccess]
	data["error"] = flash[model.FlashError]
	c.HTML(code, name, data)
}

// capitalize upper-cases the first rune of each word, for greeting
// messages.
func capitalize(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		r, size := utf8.DecodeRuneInString(w)
		words[i] = string(unicode.ToUpper(r)) + w[size:]
	}
	return strings.Join(words, " ")
}

// formUploads collects the request's uploaded files under the "image"
// field. The returned cleanup closes every opened file.
func formUploads(c *gin.Context) ([]service.Upload, func(), error) {
	form, err := c.MultipartForm()
	if err != nil {
		// Not a multipart request; no files is fine.
		return nil, func() {}, nil
	}

	files := form.File["image"]
	uploads := make([]service.Upload, 0, len(files))
	closers := make([]func() error, 0, len(files))
	cleanup := func() {
		for _, closeFile := range closers {
			closeFile()
		}
	}

	for _, fh := range files {
		f, err := fh.Open()
		if err != nil {
			cleanup()
			return nil, func() {}, err
		}
		closers = append(closers, f.Close)
		uploads = append(uploads, service.Upload{Name: fh.Filename, Content: f})
	}
	return uploads, cleanup, nil
}
