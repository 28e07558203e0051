package services

import (
	"context"
	"net/http"
	"time"

	"icon-keeper/internal/logger"
	"icon-keeper/internal/models"
)

// Prober 健康探测接口，供监管器和客户端做健康门禁
type Prober interface {
	IsHealthy() bool
}

/**
 * HealthProbe 图标服务器健康探测器
 * @property {models.ServerEndpoint} endpoint - 被探测的服务器地址
 * @property {time.Duration} timeout - 单次探测的超时时间
 * @description
 * - 纯查询，除网络调用外无副作用，可重复调用
 * - 任何失败（连接失败、超时、非2xx状态）都收敛为false，从不panic
 */
type HealthProbe struct {
	endpoint models.ServerEndpoint
	timeout  time.Duration
	client   *http.Client
}

func NewHealthProbe(endpoint models.ServerEndpoint, timeout time.Duration) *HealthProbe {
	return &HealthProbe{
		endpoint: endpoint,
		timeout:  timeout,
		client:   &http.Client{},
	}
}

/**
 * IsHealthy 单次健康检查
 * @returns {bool} 服务器在超时内返回2xx时为true，其余一律false
 * @description
 * - 请求 {endpoint}/health
 * - 探测结果计入prometheus指标
 */
func (p *HealthProbe) IsHealthy() bool {
	ctx, cancel := context.WithTimeout(context.Background(), p.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, "GET", p.endpoint.BaseURL()+"/health", nil)
	if err != nil {
		RecordProbe(false)
		return false
	}

	resp, err := p.client.Do(req)
	if err != nil {
		logger.Debugf("Health probe to %s failed: %v", p.endpoint, err)
		RecordProbe(false)
		return false
	}
	defer resp.Body.Close()

	healthy := resp.StatusCode >= 200 && resp.StatusCode < 300
	RecordProbe(healthy)
	return healthy
}
