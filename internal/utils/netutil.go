package utils

// CheckPortConnectable 检查localhost上的端口是否可以连通
// 端口连通说明有服务正在侦听
func CheckPortConnectable(port int) bool {
	return checkPortConnectable(port)
}
