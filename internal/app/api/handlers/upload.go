package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/comunidadhq/backend/internal/platform/storage"
	"github.com/comunidadhq/backend/pkg/response"
)

// maxUploadBytes caps banner, logo and QR image uploads.
const maxUploadBytes = 10 << 20

// ApiUpload
// @Summary      Upload an image
// @Description  Stores the file and returns its public URL
// @Tags         Uploads
// @Accept       multipart/form-data
// @Produce      json
// @Param        file  formData  file  true  "file to store"
// @Success      200  {object}  response.APIResponse[map[string]string]
// @Router       /api/v1/uploads [post]
func ApiUpload(store storage.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		header, err := c.FormFile("file")
		if err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeBadRequest, "missing file"))
			return
		}
		if header.Size > maxUploadBytes {
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeBadRequest, "file too large"))
			return
		}

		f, err := header.Open()
		if err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeError, err.Error()))
			return
		}
		defer f.Close()

		url, err := store.Save(header.Filename, f)
		if err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeError, err.Error()))
			return
		}
		c.JSON(http.StatusOK, response.OKT(gin.H{"url": url}))
	}
}
