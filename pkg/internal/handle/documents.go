package handle

import (
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	appctx "github.com/yeisme/shipdocs/pkg/context"
	"github.com/yeisme/shipdocs/pkg/internal/model"
	"github.com/yeisme/shipdocs/pkg/internal/service"
	"github.com/yeisme/shipdocs/pkg/internal/types"
	"github.com/yeisme/shipdocs/pkg/rule"
)

// uploadField multipart 中文件字段名.
const uploadField = "file"

// DocumentHandlers 文档相关路由的处理器.
type DocumentHandlers struct {
	svc *service.DocumentService
}

// NewDocumentHandlers 创建文档处理器.
func NewDocumentHandlers(svc *service.DocumentService) *DocumentHandlers {
	return &DocumentHandlers{svc: svc}
}

// Upload 处理 POST /jobs/:jobId/documents，multipart 字段为 file 与 doc_type.
func (h *DocumentHandlers) Upload() gin.HandlerFunc {
	return func(c *gin.Context) {
		jobID, err := parseID(c, "jobId")
		if err != nil {
			writeError(c, err)
			return
		}

		fh, err := c.FormFile(uploadField)
		if err != nil {
			if isBodyTooLarge(err) {
				writeError(c, err)
				return
			}

			writeError(c, &service.ValidationError{Field: uploadField, Message: "multipart field \"file\" is required"})

			return
		}

		var form types.UploadDocumentForm
		if err := c.ShouldBind(&form); err != nil {
			writeError(c, &service.ValidationError{Field: "doc_type", Message: err.Error()})
			return
		}

		if err := rule.ValidateStruct(&form); err != nil {
			writeError(c, &service.ValidationError{Field: "doc_type", Message: rule.Describe(err)})
			return
		}

		f, err := fh.Open()
		if err != nil {
			writeError(c, &service.ValidationError{Field: uploadField, Message: "could not read uploaded file"})
			return
		}
		defer f.Close()

		body, err := io.ReadAll(f)
		if err != nil {
			writeError(c, err)
			return
		}

		doc, err := h.svc.Upload(c.Request.Context(), service.UploadInput{
			JobID:      jobID,
			DocType:    form.DocType,
			FileName:   fh.Filename,
			MimeType:   fh.Header.Get("Content-Type"),
			Body:       body,
			UploadedBy: appctx.CallerID(c.Request.Context()),
		})
		if err != nil {
			writeError(c, err)
			return
		}

		c.JSON(http.StatusCreated, types.NewDocumentResponse(doc))
	}
}

// List 处理 GET /jobs/:jobId/documents，带 doc_type 查询参数时只返回该槽位.
func (h *DocumentHandlers) List() gin.HandlerFunc {
	return func(c *gin.Context) {
		jobID, err := parseID(c, "jobId")
		if err != nil {
			writeError(c, err)
			return
		}

		var docs []model.Document

		if docType, ok := c.GetQuery("doc_type"); ok {
			doc, err := h.svc.GetBySlot(c.Request.Context(), jobID, docType)

			switch {
			case service.IsNotFound(err):
				docs = []model.Document{}
			case err != nil:
				writeError(c, err)
				return
			default:
				docs = []model.Document{*doc}
			}
		} else {
			docs, err = h.svc.ListByJob(c.Request.Context(), jobID)
			if err != nil {
				writeError(c, err)
				return
			}
		}

		resp := types.ListDocumentsResponse{
			JobID:     jobID,
			Documents: make([]types.DocumentResponse, 0, len(docs)),
			Total:     len(docs),
		}
		for i := range docs {
			resp.Documents = append(resp.Documents, types.NewDocumentResponse(&docs[i]))
		}

		c.JSON(http.StatusOK, resp)
	}
}

// Link 处理 GET /documents/:id/url，返回预签名下载链接.
func (h *DocumentHandlers) Link() gin.HandlerFunc {
	return func(c *gin.Context) {
		link, ok := h.issue(c)
		if !ok {
			return
		}

		c.JSON(http.StatusOK, types.LinkResponse{
			URL:         link.URL,
			Disposition: link.Disposition,
			FileName:    link.FileName,
			ExpiresIn:   int(link.ExpiresIn / time.Second),
			ExpiresAt:   link.ExpiresAt,
		})
	}
}

// Download 处理 GET /documents/:id/download，302 跳转到预签名链接.
func (h *DocumentHandlers) Download() gin.HandlerFunc {
	return func(c *gin.Context) {
		link, ok := h.issue(c)
		if !ok {
			return
		}

		c.Header("Cache-Control", "no-store")
		c.Redirect(http.StatusFound, link.URL)
	}
}

// Delete 处理 DELETE /documents/:id.
func (h *DocumentHandlers) Delete() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := parseID(c, "id")
		if err != nil {
			writeError(c, err)
			return
		}

		if err := h.svc.Delete(c.Request.Context(), id); err != nil {
			writeError(c, err)
			return
		}

		c.Status(http.StatusNoContent)
	}
}

func (h *DocumentHandlers) issue(c *gin.Context) (*service.Link, bool) {
	id, err := parseID(c, "id")
	if err != nil {
		writeError(c, err)
		return nil, false
	}

	var q types.LinkQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		writeError(c, &service.ValidationError{Field: "disposition", Message: err.Error()})
		return nil, false
	}

	disposition, err := service.ParseDisposition(q.Disposition)
	if err != nil {
		writeError(c, err)
		return nil, false
	}

	link, err := h.svc.IssueLink(c.Request.Context(), id, disposition)
	if err != nil {
		writeError(c, err)
		return nil, false
	}

	return link, true
}

