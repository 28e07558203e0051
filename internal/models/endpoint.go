package models

import "fmt"

/**
 * ServerEndpoint 图标服务器的网络位置，构造后不可变
 * @property {string} host - 主机名，通常是localhost
 * @property {int} port - 侦听端口
 */
type ServerEndpoint struct {
	Host string `json:"host"`
	Port int    `json:"port"`
}

// BaseURL 由host/port推导出的基础URL
func (e ServerEndpoint) BaseURL() string {
	return fmt.Sprintf("http://%s:%d", e.Host, e.Port)
}

func (e ServerEndpoint) String() string {
	return fmt.Sprintf("%s:%d", e.Host, e.Port)
}
