package controllers

import (
	"net/http"
	"strings"
	"time"

	"icon-keeper/internal/models"
	"icon-keeper/internal/utils"
	"icon-keeper/services"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type APIController struct {
	client    *services.ApiClient
	sup       *services.ProcessSupervisor
	version   string
	startTime time.Time
}

/**
 * Create new API controller instance
 * @param {*services.ApiClient} client - Icon server API client
 * @param {*services.ProcessSupervisor} sup - Supervisor of the icon server
 * @returns {*APIController} New API controller instance
 * @description
 * - Initializes controller with client and supervisor
 * - Used to manage API routes and handlers for icon operations
 */
func NewAPIController(client *services.ApiClient, sup *services.ProcessSupervisor, version string) *APIController {
	return &APIController{
		client:    client,
		sup:       sup,
		version:   version,
		startTime: time.Now(),
	}
}

/**
 * Register all API routes to Gin engine
 * @param {*gin.Engine} r - Gin router instance
 * @description
 * - Registers routes for:
 *   - Icon search/generate (proxied to the icon server)
 *   - Supervisor control (start/stop/status)
 *   - Readiness probe and prometheus metrics
 */
func (a *APIController) RegisterRoutes(r *gin.Engine) {
	r.GET("/iconkeeper/api/v1/icons/search", a.SearchIcons)
	r.POST("/iconkeeper/api/v1/icons/generate", a.GenerateIcon)
	r.POST("/iconkeeper/api/v1/server/start", a.StartServer)
	r.POST("/iconkeeper/api/v1/server/stop", a.StopServer)
	r.GET("/iconkeeper/api/v1/server/status", a.ServerStatus)
	r.GET("/healthz", a.Healthz)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
}

// failureStatus 失败原因到HTTP状态码的映射
func failureStatus(err error) int {
	switch models.ReasonOf(err) {
	case models.ReasonValidationError:
		return http.StatusBadRequest
	case models.ReasonConfigError:
		return http.StatusInternalServerError
	case models.ReasonServiceUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusBadGateway
	}
}

// @Summary 搜索图标
// @Description 代理图标服务器的搜索接口，name与names互斥
// @Tags Icons
// @Produce json
// @Param name query string false "单个图标名称"
// @Param names query string false "多个图标名称，逗号分隔"
// @Param style query string false "图标风格(element-plus/ant-design/default)"
// @Success 200 {array} models.IconRecord
// @Failure 400 {object} models.ErrorResponse
// @Failure 503 {object} models.ErrorResponse
// @Router /iconkeeper/api/v1/icons/search [get]
func (a *APIController) SearchIcons(c *gin.Context) {
	query := models.SearchQuery{
		Name:  c.Query("name"),
		Style: models.IconStyle(c.Query("style")),
	}
	if names := c.Query("names"); names != "" {
		query.Names = strings.Split(names, ",")
	}

	icons, err := a.client.SearchIcons(c.Request.Context(), query)
	if err != nil {
		c.JSON(failureStatus(err), models.ErrorResponse{
			Code:  string(models.ReasonOf(err)),
			Error: err.Error(),
		})
		return
	}
	c.JSON(http.StatusOK, icons)
}

// @Summary 生成图标
// @Description 代理图标服务器的生成接口，生成不幂等，失败不自动重试
// @Tags Icons
// @Accept json
// @Produce json
// @Param request body models.GenerateRequest true "生成请求"
// @Success 200 {object} models.IconRecord
// @Failure 400 {object} models.ErrorResponse
// @Failure 503 {object} models.ErrorResponse
// @Router /iconkeeper/api/v1/icons/generate [post]
func (a *APIController) GenerateIcon(c *gin.Context) {
	var req models.GenerateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Code:  string(models.ReasonValidationError),
			Error: "invalid request body: " + err.Error(),
		})
		return
	}

	icon, err := a.client.GenerateIcon(c.Request.Context(), req)
	if err != nil {
		c.JSON(failureStatus(err), models.ErrorResponse{
			Code:  string(models.ReasonOf(err)),
			Error: err.Error(),
		})
		return
	}
	c.JSON(http.StatusOK, icon)
}

// @Summary 启动图标服务器
// @Tags Server
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 503 {object} models.ErrorResponse
// @Router /iconkeeper/api/v1/server/start [post]
func (a *APIController) StartServer(c *gin.Context) {
	if !a.sup.Start(c.Request.Context()) {
		c.JSON(http.StatusServiceUnavailable, models.ErrorResponse{
			Code:  string(models.ReasonServiceUnavailable),
			Error: "icon server failed to become healthy",
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "running"})
}

// @Summary 停止图标服务器
// @Tags Server
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /iconkeeper/api/v1/server/stop [post]
func (a *APIController) StopServer(c *gin.Context) {
	a.sup.Stop()
	c.JSON(http.StatusOK, gin.H{"status": "stopped"})
}

// @Summary 图标服务器状态
// @Tags Server
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /iconkeeper/api/v1/server/status [get]
func (a *APIController) ServerStatus(c *gin.Context) {
	endpoint := a.sup.Endpoint()
	detail := a.sup.Detail()

	// 持有的PID可能属于已死的进程，健康与句柄分开上报
	alive := false
	if detail.Pid != 0 {
		alive, _ = utils.IsProcessRunning(detail.Pid)
	}

	c.JSON(http.StatusOK, gin.H{
		"endpoint":     endpoint,
		"healthy":      a.sup.IsRunning(),
		"connectable":  utils.CheckPortConnectable(endpoint.Port),
		"processAlive": alive,
		"process":      detail,
	})
}

// @Summary 业务就绪探针
// @Description 检查keeper是否就绪，返回版本、启动时间、上游健康状态和关键指标
// @Tags System
// @Produce json
// @Success 200 {object} models.HealthResponse
// @Router /healthz [get]
func (a *APIController) Healthz(c *gin.Context) {
	upstream := a.sup.IsRunning()
	status := "UP"
	if !upstream {
		status = "DEGRADED"
	}
	c.JSON(http.StatusOK, models.HealthResponse{
		Version:   a.version,
		StartTime: a.startTime.Format(time.RFC3339),
		Status:    status,
		Uptime:    time.Since(a.startTime).Round(time.Second).String(),
		Upstream:  upstream,
		Metrics: models.Metrics{
			TotalRequests: services.GetTotalRequestCount(),
			ErrorRequests: services.GetTotalErrorCount(),
		},
	})
}
