package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Response 统一响应结构
type Response struct {
	Code    int         `json:"code"`    // 业务码
	Message string      `json:"message"` // 提示信息
	Data    interface{} `json:"data"`    // 数据
}

func write(c *gin.Context, httpCode, code int, msg string, data interface{}) {
	c.JSON(httpCode, Response{Code: code, Message: msg, Data: data})
}

// Success 成功响应
func Success(c *gin.Context, data interface{}) {
	write(c, http.StatusOK, CodeSuccess, "success", data)
}

// Created 创建成功 (HTTP 201)
func Created(c *gin.Context, data interface{}) {
	write(c, http.StatusCreated, CodeSuccess, "created", data)
}

// Error 错误响应
func Error(c *gin.Context, httpCode int, errCode int, msg string) {
	write(c, httpCode, errCode, msg, nil)
}

// Abort 中间件中使用：写入错误并终止后续处理
func Abort(c *gin.Context, httpCode int, errCode int, msg string) {
	c.AbortWithStatusJSON(httpCode, Response{Code: errCode, Message: msg})
}
