package models

import (
	"errors"
	"fmt"
)

// FailureReason 失败原因分类
type FailureReason string

const (
	// 服务器入口文件缺失等配置问题，需要用户修正配置后才能启动
	ReasonConfigError FailureReason = "config_error"
	// 请求参数不合法，属于调用方bug，立即失败，不做任何网络请求
	ReasonValidationError FailureReason = "validation_error"
	// 健康门禁未通过，启动尝试耗尽，调用方可稍后重试
	ReasonServiceUnavailable FailureReason = "service_unavailable"
	// 服务健康但请求本身失败（传输错误或非2xx状态），属于瞬时故障
	ReasonNetworkError FailureReason = "network_error"
	// 进程创建/终止失败，只记录日志，不作为崩溃向上传播
	ReasonProcessError FailureReason = "process_error"
)

/**
 * Failure 结构化的失败值，代替异常在公共边界传递
 * @property {FailureReason} reason - 失败原因分类
 * @property {string} detail - 具体的出错细节，用于诊断
 */
type Failure struct {
	Reason FailureReason `json:"reason"`
	Detail string        `json:"detail,omitempty"`
}

func (f *Failure) Error() string {
	if f.Detail == "" {
		return string(f.Reason)
	}
	return fmt.Sprintf("%s: %s", f.Reason, f.Detail)
}

func NewFailure(reason FailureReason, format string, args ...interface{}) *Failure {
	return &Failure{
		Reason: reason,
		Detail: fmt.Sprintf(format, args...),
	}
}

/**
 * ReasonOf 从错误中提取失败原因
 * @param {error} err - 任意错误
 * @returns {FailureReason} 如果是Failure返回其原因，否则返回ReasonNetworkError
 * @description
 * - 调用方用它对失败值进行分支处理，无需类型断言
 */
func ReasonOf(err error) FailureReason {
	var f *Failure
	if errors.As(err, &f) {
		return f.Reason
	}
	return ReasonNetworkError
}
