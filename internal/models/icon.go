package models

import (
	"encoding/json"
	"strings"
)

// IconStyle 图标风格
type IconStyle string

const (
	StyleElementPlus IconStyle = "element-plus"
	StyleAntDesign   IconStyle = "ant-design"
	StyleDefault     IconStyle = "default"
)

// GenerateModel 生成图标使用的AI模型
type GenerateModel string

const (
	ModelOpenAI GenerateModel = "openai"
	ModelTongyi GenerateModel = "tongyi"
	ModelWenxin GenerateModel = "wenxin"
	ModelZhipu  GenerateModel = "zhipu"
	ModelKimi   GenerateModel = "kimi"
	ModelDoubao GenerateModel = "doubao"
)

/**
 * SearchQuery 图标搜索请求
 * @property {string} name - 单个图标名称
 * @property {[]string} names - 多个图标名称，按顺序发送，逗号分隔
 * @property {IconStyle} style - 图标风格，可选
 * @description
 * - name和names二者必须恰好设置一个，两者都设或都不设属于调用方错误
 */
type SearchQuery struct {
	Name  string
	Names []string
	Style IconStyle
}

/**
 * Validate 校验搜索请求的形状
 * @returns {error} 形状不合法时返回ReasonValidationError的Failure
 */
func (q SearchQuery) Validate() error {
	if q.Name != "" && len(q.Names) > 0 {
		return NewFailure(ReasonValidationError, "name and names are mutually exclusive")
	}
	if q.Name == "" && len(q.Names) == 0 {
		return NewFailure(ReasonValidationError, "either name or names must be provided")
	}
	return nil
}

// JoinedNames names字段在请求参数中的线上形式
func (q SearchQuery) JoinedNames() string {
	return strings.Join(q.Names, ",")
}

/**
 * GenerateRequest 图标生成请求
 * @property {string} description - 图标描述，必填
 * @property {IconStyle} style - 图标风格，为空时由客户端补default
 * @property {GenerateModel} model - AI模型，可选，为空时不出现在请求体中
 */
type GenerateRequest struct {
	Description string        `json:"description"`
	Style       IconStyle     `json:"style"`
	Model       GenerateModel `json:"model,omitempty"`
}

func (r GenerateRequest) Validate() error {
	if strings.TrimSpace(r.Description) == "" {
		return NewFailure(ReasonValidationError, "description must not be empty")
	}
	return nil
}

/**
 * IconRecord 图标服务器返回的图标对象
 * @property {string} name - 图标名称
 * @property {string} source - 图标来源（图标库名）
 * @description
 * - 除name/source外的字段原样透传，不做校验，不丢字段
 * - Fields保存完整的原始对象，序列化时按原值写回
 */
type IconRecord struct {
	Name   string
	Source string
	Fields map[string]json.RawMessage
}

func (r *IconRecord) UnmarshalJSON(data []byte) error {
	fields := map[string]json.RawMessage{}
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}
	r.Fields = fields
	if raw, ok := fields["name"]; ok {
		json.Unmarshal(raw, &r.Name)
	}
	if raw, ok := fields["source"]; ok {
		json.Unmarshal(raw, &r.Source)
	}
	return nil
}

func (r IconRecord) MarshalJSON() ([]byte, error) {
	if r.Fields != nil {
		return json.Marshal(r.Fields)
	}
	fields := map[string]json.RawMessage{}
	if r.Name != "" {
		raw, _ := json.Marshal(r.Name)
		fields["name"] = raw
	}
	if r.Source != "" {
		raw, _ := json.Marshal(r.Source)
		fields["source"] = raw
	}
	return json.Marshal(fields)
}
