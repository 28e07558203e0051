//go:build !windows

package utils

import (
	"fmt"
	"net"
	"time"
)

// checkPortConnectable checks if a port is connectable on localhost (POSIX implementation)
func checkPortConnectable(port int) bool {
	timeout := time.Second
	conn, err := net.DialTimeout("tcp", net.JoinHostPort("localhost", fmt.Sprintf("%d", port)), timeout)
	if err != nil {
		return false
	}
	if conn != nil {
		conn.Close()
		return true
	}
	return false
}
