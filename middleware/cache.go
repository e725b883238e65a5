package middleware

import (
	"bytes"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/GenVas/yatube/utils"
)

// IndexCachePrefix keys the cached rendered listing pages in Redis.
const IndexCachePrefix = "cache:page:index:"

type cachedWriter struct {
	gin.ResponseWriter
	body bytes.Buffer
}

func (w *cachedWriter) Write(b []byte) (int, error) {
	w.body.Write(b)
	return w.ResponseWriter.Write(b)
}

// CachePage serves the rendered listing page from Redis when present and
// stores fresh renders for the configured TTL. Writes through the post
// flows invalidate the prefix. Logged-in renders carry the viewer's nav,
// so only guest responses are cached or served from cache.
func CachePage(ttl time.Duration) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		if ttl <= 0 {
			ctx.Next()
			return
		}
		if _, authed := ctx.Get(ContextUserIDKey); authed {
			ctx.Next()
			return
		}

		key := IndexCachePrefix + "page=" + ctx.DefaultQuery("page", "1")
		if b, ok := utils.CacheGetBytes(key); ok {
			ctx.Data(http.StatusOK, "text/html; charset=utf-8", b)
			ctx.Abort()
			return
		}

		writer := &cachedWriter{ResponseWriter: ctx.Writer}
		ctx.Writer = writer
		ctx.Next()

		if writer.Status() == http.StatusOK {
			utils.CacheSetBytes(key, writer.body.Bytes(), ttl)
		}
	}
}
