package handlers

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
)

// ImageSaver is the slice of the upload store this handler needs.
type ImageSaver interface {
	Save(originalName string, src io.Reader) (url string, size int64, err error)
}

// UploadObserver records upload outcomes; nil-safe via the noop default.
type UploadObserver interface {
	ObserveUpload(size int64, err error)
}

type noopUploadObserver struct{}

func (noopUploadObserver) ObserveUpload(int64, error) {}

type UploadsHandler struct {
	store    ImageSaver
	observer UploadObserver
}

func NewUploadsHandler(store ImageSaver, observer UploadObserver) *UploadsHandler {
	if observer == nil {
		observer = noopUploadObserver{}
	}

	return &UploadsHandler{store: store, observer: observer}
}

// UploadImage accepts a multipart payload under the "file" field and
// returns the public reference path. No content inspection: any bytes the
// caller sends are stored as-is under a fresh random name.
func (h *UploadsHandler) UploadImage(ctx *gin.Context) {
	fileHeader, err := ctx.FormFile("file")

	if err != nil {
		RespondBadRequest(ctx, "invalid_request", "Missing multipart field 'file'")
		return
	}

	src, err := fileHeader.Open()

	if err != nil {
		RespondInternal(ctx, "Could not read upload")
		return
	}

	defer src.Close()

	url, size, err := h.store.Save(fileHeader.Filename, src)

	h.observer.ObserveUpload(size, err)

	if err != nil {
		RespondInternal(ctx, "Could not store upload")
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"url": url})
}
