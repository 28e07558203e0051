package services

import (
	"context"
	"encoding/json"
	"time"

	"icon-keeper/internal/config"
	"icon-keeper/internal/logger"
	"icon-keeper/internal/models"
	"icon-keeper/internal/rpc"
)

// starter 自愈时用于(重)启动图标服务器
type starter interface {
	Start(ctx context.Context) bool
}

/**
 * ApiClient 图标服务器的类型化REST客户端
 * @property {models.ServerEndpoint} endpoint - 图标服务器地址
 * @property {starter} sup - 健康门禁失败时用于自愈的监管器，可为nil
 * @description
 * - 每次调用前先过健康门禁：探测失败则请求监管器启动，仍失败
 *   返回ReasonServiceUnavailable，不发出业务请求
 * - 搜索和生成使用不同的超时（10s/30s）：生成可能调用更慢的AI后端，
 *   这个不对称是有意为之
 * - search对客户端幂等；generate不幂等，本层绝不静默重试
 */
type ApiClient struct {
	endpoint models.ServerEndpoint
	probe    Prober
	sup      starter

	searchClient   rpc.HTTPClient
	generateClient rpc.HTTPClient
}

/**
 * NewApiClient 创建API客户端
 * @param {config.AppConfig} cfg - 应用配置
 * @param {ProcessSupervisor} sup - 监管器，传nil表示只探测不自愈
 * @returns {ApiClient} 返回创建的客户端
 */
func NewApiClient(cfg *config.AppConfig, sup *ProcessSupervisor) *ApiClient {
	endpoint := cfg.Icon.Endpoint()
	c := &ApiClient{
		endpoint: endpoint,
		probe:    NewHealthProbe(endpoint, cfg.Supervisor.ProbeTimeout),
		searchClient: rpc.NewHTTPClient(&rpc.HTTPConfig{
			BaseURL: endpoint.BaseURL(),
			Timeout: cfg.Supervisor.SearchTimeout,
		}),
		generateClient: rpc.NewHTTPClient(&rpc.HTTPConfig{
			BaseURL: endpoint.BaseURL(),
			Timeout: cfg.Supervisor.GenerateTimeout,
		}),
	}
	if sup != nil {
		c.sup = sup
	}
	return c
}

/**
 * SearchIcons 搜索图标
 * @param {context.Context} ctx - 用于取消自愈启动
 * @param {models.SearchQuery} query - 搜索请求，name/names二选一
 * @returns {[]models.IconRecord} 按服务器返回顺序的图标列表，不重排不过滤
 * @returns {error} 失败时返回*models.Failure
 * @description
 * - 形状校验先于一切I/O：校验失败时不发出任何网络请求
 * - 请求参数只携带实际设置的字段，style未设置时不发送style键
 */
func (c *ApiClient) SearchIcons(ctx context.Context, query models.SearchQuery) ([]models.IconRecord, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}
	if fail := c.ensureAvailable(ctx); fail != nil {
		return nil, fail
	}

	params := map[string]interface{}{}
	if len(query.Names) > 0 {
		params["names"] = query.JoinedNames()
	} else {
		params["name"] = query.Name
	}
	if query.Style != "" {
		params["style"] = string(query.Style)
	}

	start := time.Now()
	resp, err := c.searchClient.Get("/api/icons/search", params)
	RecordRequestDuration("search", time.Since(start).Seconds())
	IncrementRequestCount("search")
	if err != nil {
		IncrementErrorCount("search")
		return nil, models.NewFailure(models.ReasonNetworkError, "search request failed: %v", err)
	}
	if !resp.Success() {
		IncrementErrorCount("search")
		return nil, models.NewFailure(models.ReasonNetworkError, "search returned %d: %s", resp.StatusCode, resp.Error)
	}

	var icons []models.IconRecord
	if err := json.Unmarshal(resp.Body, &icons); err != nil {
		IncrementErrorCount("search")
		return nil, models.NewFailure(models.ReasonNetworkError, "malformed search response: %v", err)
	}
	return icons, nil
}

/**
 * GenerateIcon 生成图标
 * @param {context.Context} ctx - 用于取消自愈启动
 * @param {models.GenerateRequest} req - 生成请求，description必填
 * @returns {models.IconRecord} 生成的图标对象
 * @returns {error} 失败时返回*models.Failure
 * @description
 * - style为空时补default；model为空时不出现在请求体中
 * - 生成不幂等，重复调用可能产生不同结果，失败时交由调用方决定是否重试
 */
func (c *ApiClient) GenerateIcon(ctx context.Context, req models.GenerateRequest) (*models.IconRecord, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if req.Style == "" {
		req.Style = models.StyleDefault
	}
	if fail := c.ensureAvailable(ctx); fail != nil {
		return nil, fail
	}

	start := time.Now()
	resp, err := c.generateClient.Post("/api/icons/generate", req)
	RecordRequestDuration("generate", time.Since(start).Seconds())
	IncrementRequestCount("generate")
	if err != nil {
		IncrementErrorCount("generate")
		return nil, models.NewFailure(models.ReasonNetworkError, "generate request failed: %v", err)
	}
	if !resp.Success() {
		IncrementErrorCount("generate")
		return nil, models.NewFailure(models.ReasonNetworkError, "generate returned %d: %s", resp.StatusCode, resp.Error)
	}

	var icon models.IconRecord
	if err := json.Unmarshal(resp.Body, &icon); err != nil {
		IncrementErrorCount("generate")
		return nil, models.NewFailure(models.ReasonNetworkError, "malformed generate response: %v", err)
	}
	return &icon, nil
}

/**
 * ensureAvailable 健康门禁
 * @returns {models.Failure} 门禁未通过时返回ReasonServiceUnavailable
 * @description
 * - 探测通过直接放行
 * - 探测失败且配置了监管器时，同步触发托管启动后放行
 * - 启动失败或没有监管器时拦截请求
 */
func (c *ApiClient) ensureAvailable(ctx context.Context) *models.Failure {
	if c.probe.IsHealthy() {
		return nil
	}
	if c.sup == nil {
		return models.NewFailure(models.ReasonServiceUnavailable,
			"icon server at %s is not reachable", c.endpoint)
	}
	logger.Infof("Icon server at %s is down, trying to start it", c.endpoint)
	if !c.sup.Start(ctx) {
		return models.NewFailure(models.ReasonServiceUnavailable,
			"icon server at %s could not be started", c.endpoint)
	}
	return nil
}

// Close 释放客户端持有的连接
func (c *ApiClient) Close() {
	c.searchClient.Close()
	c.generateClient.Close()
}
