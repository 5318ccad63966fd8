package upload

import (
	"blogging-backend/internal/errors"
	"blogging-backend/internal/storage"
	"blogging-backend/internal/util"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// UploadHandler 处理图片直传地址的签发
type UploadHandler struct {
	store storage.FileStorage
}

// NewUploadHandler 创建一个新的 UploadHandler 实例
func NewUploadHandler(store storage.FileStorage) *UploadHandler {
	return &UploadHandler{store}
}

// GetUploadURL 为客户端签发一次性的图片直传地址
func (h *UploadHandler) GetUploadURL(c *gin.Context) {
	key := util.GenerateUploadKey()
	uploadURL, err := h.store.SignedUploadURL(key)
	if err != nil {
		util.Logger.Error("签发上传地址失败", zap.Error(err), zap.String("key", key))
		errors.HandleError(c, errors.Wrap(errors.ErrInternal, "签发上传地址失败", err))
		return
	}

	errors.HandleSuccess(c, gin.H{"uploadURL": uploadURL}, "")
}

// DirectUpload 本地后端的直传入口
// 签名地址指向这里，S3/GCS后端由客户端直接PUT到桶，不经过本服务。
func (h *UploadHandler) DirectUpload(c *gin.Context) {
	file, err := c.FormFile("file")
	if err != nil {
		errors.HandleError(c, errors.Wrap(errors.ErrValidation, "缺少上传文件", err))
		return
	}

	key := c.Param("filename")
	url, err := h.store.UploadFile(file, key)
	if err != nil {
		util.Logger.Error("保存上传文件失败", zap.Error(err), zap.String("key", key))
		errors.HandleError(c, errors.Wrap(errors.ErrInternal, "保存上传文件失败", err))
		return
	}

	errors.HandleSuccess(c, gin.H{"url": url}, "")
}
