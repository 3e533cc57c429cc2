/*
Package handler provides the HTTP handler functions for uploading and serving files.

Uploads are stored under a "<uuid>-<name>" key; the returned URL is what
clients put into imageMessage and fileMessage events.
*/
package handler

import (
	"context"
	"errors"
	"io"
	"mime"
	"net/http"
	"net/url"
	"strconv"

	"github.com/go-chi/chi/v5"

	"lanchat/internal/app/chat"
	"lanchat/internal/app/db"
	"lanchat/internal/app/storage"
	"lanchat/internal/pkg/errs"
	"lanchat/internal/pkg/logx"
	"lanchat/internal/pkg/randx"
	"lanchat/internal/pkg/req"
	"lanchat/internal/pkg/resp"
)

// UploadFormField is the multipart field carrying the file.
const UploadFormField = "file"

// UploadResult is the JSON body returned by HandleUpload.
type UploadResult struct {
	Filename     string `json:"filename"`
	OriginalName string `json:"originalname"`
	Size         int64  `json:"size"`
	URL          string `json:"url"`
}

// HandleUpload stores one multipart file and returns its public URL.
func HandleUpload(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if customErr := req.SetupMultipart(w, r, deps.Config.MaxUploadSize()); customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}
		defer func() {
			if r.MultipartForm != nil {
				_ = r.MultipartForm.RemoveAll()
			}
		}()

		file, header, customErr := req.FormFile(r, UploadFormField)
		if customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}
		defer file.Close()

		name := randx.SanitizeFileName(header.Filename)
		if name == "" {
			resp.RespondError(w, r, errs.NewError(errs.ErrFileNameInvalid))
			return
		}

		key := randx.UploadKey(name)
		contentType := chat.ContentTypeFor(name, header.Header.Get("Content-Type"))

		if err := deps.Storage.Put(r.Context(), key, file, header.Size, contentType); err != nil {
			logx.Error(err, "Failed to store upload", "key", key, "size", header.Size)
			resp.RespondError(w, r, errs.NewError(errs.ErrFileStorageFailed))
			return
		}

		record := db.Upload{
			Key:          key,
			OriginalName: name,
			Size:         header.Size,
			ContentType:  contentType,
		}
		if err := deps.Uploads.Record(r.Context(), record); err != nil {
			logx.Error(err, "Failed to index upload. Removing stored object.", "key", key)
			if delErr := deps.Storage.Delete(context.WithoutCancel(r.Context()), key); delErr != nil {
				logx.Error(delErr, "Failed to remove unindexed upload", "key", key)
			}
			resp.RespondError(w, r, errs.NewError(errs.ErrFileStorageFailed))
			return
		}

		logx.Info("File uploaded", "key", key, "size", header.Size, "content_type", contentType)

		resp.RespondJSON(w, r, http.StatusOK, UploadResult{
			Filename:     key,
			OriginalName: name,
			Size:         header.Size,
			URL:          chat.UploadURL(key),
		})
	}
}

// HandleDownload streams a stored upload. Images are shown inline, everything
// else is offered as an attachment under its original name.
func HandleDownload(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		key, err := url.PathUnescape(chi.URLParam(r, "key"))
		if err != nil || storage.ValidateKey(key) != nil {
			resp.RespondError(w, r, errs.NewError(errs.ErrNotFound))
			return
		}

		body, info, err := deps.Storage.Get(r.Context(), key)
		if err != nil {
			if errors.Is(err, storage.ErrObjectNotFound) {
				resp.RespondError(w, r, errs.NewError(errs.ErrNotFound))
				return
			}
			logx.Error(err, "Failed to open upload", "key", key)
			resp.RespondError(w, r, errs.NewError(errs.ErrFileStorageFailed))
			return
		}
		defer body.Close()

		fileName := randx.OriginalNameFromKey(key)
		contentType := chat.ContentTypeFor(fileName, info.ContentType)

		record, ok, err := deps.Uploads.Lookup(r.Context(), key)
		if err != nil {
			logx.Warn("Upload index lookup failed", "key", key, "error", err.Error())
		} else if ok {
			fileName = record.OriginalName
			if record.ContentType != "" {
				contentType = record.ContentType
			}
		}

		disposition := "attachment"
		if chat.IsImageFile(fileName) {
			disposition = "inline"
		}

		h := w.Header()
		h.Set("Content-Type", contentType)
		h.Set("X-Content-Type-Options", "nosniff")
		if cd := mime.FormatMediaType(disposition, map[string]string{"filename": fileName}); cd != "" {
			h.Set("Content-Disposition", cd)
		}
		if info.Size > 0 {
			h.Set("Content-Length", strconv.FormatInt(info.Size, 10))
		}

		w.WriteHeader(http.StatusOK)
		if _, err := io.Copy(w, body); err != nil {
			logx.Debug("Upload stream interrupted", "key", key, "error", err.Error())
		}
	}
}
