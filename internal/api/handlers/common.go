package handlers

import (
	"errors"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/yoockh/hirex/internal/resume"
	"github.com/yoockh/hirex/internal/services"
	"github.com/yoockh/hirex/internal/utils"
)

func init() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterTagNameFunc(utils.JSONFieldName)
	}
}

type APIError struct {
	Code    utils.Code `json:"code"`
	Message string     `json:"message"`
}

func writeError(c *gin.Context, err error) {
	status := utils.HTTPStatus(err)

	var ae *utils.AppError
	if errors.As(err, &ae) {
		c.JSON(status, APIError{
			Code:    ae.Code,
			Message: ae.Message,
		})
		return
	}

	c.JSON(status, APIError{
		Code:    utils.CodeInternal,
		Message: http.StatusText(status),
	})
}

// bindJSON decodes and validates the body. On failure it writes a 400 and returns false.
func bindJSON(c *gin.Context, op string, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		writeError(c, utils.E(utils.CodeInvalidArgument, op, utils.ValidationMessage(err), err))
		return false
	}
	return true
}

func requireUserID(c *gin.Context) (string, bool) {
	if v, ok := c.Get("user_id"); ok {
		if s, ok := v.(string); ok && s != "" {
			return s, true
		}
	}

	writeError(c, utils.E(utils.CodeUnauthorized, "Auth", "unauthorized", nil))
	return "", false
}

// requireCaller is requireUserID plus the role claim.
func requireCaller(c *gin.Context) (services.Caller, bool) {
	userID, ok := requireUserID(c)
	if !ok {
		return services.Caller{}, false
	}
	role := c.GetString("role")
	if role == "" {
		role = "user"
	}
	return services.Caller{UserID: userID, Role: role}, true
}

// formFile opens an optional multipart file. The returned content type is the
// declared one unless it is missing or generic, in which case the sniffed type is used.
// A nil input with a nil error means the field was absent.
func formFile(c *gin.Context, field string) (*services.FileInput, io.Closer, error) {
	fh, err := c.FormFile(field)
	if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
		return nil, nil, nil
	}
	if err != nil {
		return nil, nil, utils.E(utils.CodeInvalidArgument, "formFile", "invalid multipart field '"+field+"'", err)
	}
	if fh.Size == 0 {
		return nil, nil, nil
	}
	return openFile(fh)
}

func openFile(fh *multipart.FileHeader) (*services.FileInput, io.Closer, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, nil, utils.E(utils.CodeInternal, "formFile", "failed to open upload", err)
	}
	sniffed, body, err := resume.Sniff(f)
	if err != nil {
		_ = f.Close()
		return nil, nil, utils.E(utils.CodeInvalidArgument, "formFile", "failed to read upload", err)
	}
	return &services.FileInput{
		Filename:    fh.Filename,
		ContentType: resume.ResolveType(fh.Header.Get("Content-Type"), sniffed),
		Size:        fh.Size,
		Body:        body,
	}, f, nil
}
