package api

import "github.com/gin-gonic/gin"

// Identity is supplied by the authenticating front layer as opaque headers.
// Session management itself is out of scope here.
const (
	headerUserID   = "X-User-ID"
	headerUserName = "X-User-Name"
)

func identity(c *gin.Context) (userID, displayName string) {
	userID = c.GetHeader(headerUserID)
	displayName = c.GetHeader(headerUserName)
	if displayName == "" {
		displayName = userID
	}
	return userID, displayName
}
