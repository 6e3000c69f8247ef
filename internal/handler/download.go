package handler

import (
	"fmt"
	"log"
	"mime"
	"net/http"

	"github.com/gin-gonic/gin"

	"ingestdesk/internal/service"
)

// contentDisposition builds an attachment header that survives non-ASCII
// file names.
func contentDisposition(filename string) string {
	if v := mime.FormatMediaType("attachment", map[string]string{"filename": filename}); v != "" {
		return v
	}
	return fmt.Sprintf("attachment; filename=%q", filename)
}

// sendExport writes a rendered export as a file download.
func sendExport(c *gin.Context, export *service.Export) {
	data, err := export.Bytes()
	if err != nil {
		HandleError(c, err)
		return
	}
	log.Printf("export: %s (%d rows, %d bytes)", export.Filename, len(export.Table.Rows), len(data))
	c.Header("Content-Disposition", contentDisposition(export.Filename))
	c.Data(http.StatusOK, export.ContentType(), data)
}
