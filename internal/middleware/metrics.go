package middleware

import (
	"time"

	"icon-keeper/services"

	"github.com/gin-gonic/gin"
)

/**
 * HTTP请求统计中间件
 * @description
 * - 统计admin服务器收到的请求数量
 * - 记录请求处理时间
 * - 区分成功和失败的请求
 * - 为健康检查接口提供请求数据
 */
func MetricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		duration := time.Since(start).Seconds()
		statusCode := c.Writer.Status()

		// 使用请求路径作为操作标识
		operation := c.FullPath()
		if operation == "" {
			operation = "unknown"
		}

		services.IncrementRequestCount(operation)
		services.RecordRequestDuration(operation, duration)

		if statusCode >= 400 {
			services.IncrementErrorCount(operation)
		}
	}
}
