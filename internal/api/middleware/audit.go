package middleware

import (
	"fmt"

	"github.com/gin-gonic/gin"

	"github.com/AliMohammadiiii/PRS-sub001/internal/model"
	"github.com/AliMohammadiiii/PRS-sub001/internal/repository"
	"github.com/AliMohammadiiii/PRS-sub001/pkg/logger"
)

// OperationLogMiddleware records mutating calls for auditing. Reads are
// skipped; the log answers "who changed what", not "who looked".
func OperationLogMiddleware(approvals *repository.ApprovalRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if c.Request.Method == "GET" {
			return
		}

		userID, exists := c.Get("user_id")
		if !exists {
			return
		}

		username := ""
		if uname, ok := c.Get("username"); ok {
			username = fmt.Sprintf("%v", uname)
		}

		entry := model.OperationLog{
			UserID:   fmt.Sprintf("%v", userID),
			Username: username,
			Method:   c.Request.Method,
			Path:     c.FullPath(),
			Status:   c.Writer.Status(),
			ClientIP: c.ClientIP(),
		}

		go func() {
			if err := approvals.LogOperation(&entry); err != nil {
				logger.Warnf("Failed to write operation log for %s %s: %v", entry.Method, entry.Path, err)
			}
		}()
	}
}
