package server

import (
	"crypto/subtle"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/krau/konacaption/caption"
)

var (
	errUnauthorized = errors.New("unauthorized")
)

const multipartSlack = 64 << 10

func authenticate(c *gin.Context) error {
	auth := c.GetHeader("Authorization")

	expectedToken := settings.Token
	if expectedToken == "" {
		return nil
	}
	providedToken := ""
	if len(auth) > 7 && auth[:7] == "Bearer " {
		providedToken = auth[7:]
	}
	if subtle.ConstantTimeCompare([]byte(providedToken), []byte(expectedToken)) != 1 {
		return errUnauthorized
	}

	return nil
}

func authMiddleware(c *gin.Context) {
	if err := authenticate(c); err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}
	c.Next()
}

type sampleRequest struct {
	Sample string `json:"sample" binding:"required"`
}

type sampleItem struct {
	ID      string `json:"id"`
	Stem    string `json:"stem"`
	Preview string `json:"preview"`
}

func PredictHandler(c *gin.Context) {
	limit := settings.MaxUploadMB << 20
	// multipart framing rides on top of the file itself
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, limit+multipartSlack)
	fileHeader, err := c.FormFile("image")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "Image too large"})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": "No image provided"})
		return
	}
	if fileHeader.Size > limit {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "Image too large"})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Cannot open uploaded file"})
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Cannot read uploaded file"})
		return
	}

	sel := caption.ImageSelection(caption.Image{
		Name:        fileHeader.Filename,
		ContentType: fileHeader.Header.Get("Content-Type"),
		Data:        data,
	})
	respond(c, sel)
}

func PredictSampleHandler(c *gin.Context) {
	var req sampleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No sample selected"})
		return
	}
	respond(c, caption.SampleSelection(req.Sample))
}

func respond(c *gin.Context, sel caption.Selection) {
	res, err := dispatcher.Predict(c.Request.Context(), sel)
	if err != nil {
		c.JSON(statusFor(err), gin.H{"error": caption.UserMessage(err)})
		return
	}
	c.JSON(http.StatusOK, res)
}

func statusFor(err error) int {
	switch caption.KindOf(err) {
	case caption.KindInvalidInput:
		return http.StatusBadRequest
	case caption.KindSampleNotFound:
		return http.StatusNotFound
	case caption.KindBackendError:
		return http.StatusBadGateway
	default:
		return http.StatusServiceUnavailable
	}
}

func SamplesHandler(c *gin.Context) {
	ids := dispatcher.Catalog().IDs()
	items := make([]sampleItem, 0, len(ids))
	for _, id := range ids {
		items = append(items, sampleItem{
			ID:      id,
			Stem:    caption.Stem(id),
			Preview: "/samples/preview/" + id,
		})
	}
	c.JSON(http.StatusOK, gin.H{"mode": dispatcher.Mode(), "samples": items})
}

func PreviewHandler(c *gin.Context) {
	id := strings.TrimPrefix(c.Param("id"), "/")
	img, err := caption.ReadSample(dispatcher.Samples(), dispatcher.Catalog(), id)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Sample not found"})
		return
	}
	thumb, err := caption.Thumbnail(img.Data, settings.PreviewSize)
	if err != nil {
		slog.Error("Preview failed", slog.String("sample", id), slog.String("error", err.Error()))
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "Cannot render preview"})
		return
	}
	c.Header("Cache-Control", "public, max-age=3600")
	c.Data(http.StatusOK, "image/jpeg", thumb)
}

func HealthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy", "mode": dispatcher.Mode()})
}
