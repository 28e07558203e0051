package models

import "time"

type RunStatus string

const (
	// 表示正在运行
	StatusRunning RunStatus = "running"
	//	表示未运行或程序主动退出
	StatusExited RunStatus = "exited"
	// 表示启动探测耗尽或进程出错，进程句柄可能仍被持有
	StatusError RunStatus = "error"
	// 表示被用户手动停止
	StatusStopped RunStatus = "stopped"
)

type HealthyStatus string

const (
	Healthy     HealthyStatus = "healthy"
	Unavailable HealthyStatus = "unavailable"
)

type ProcessDetail struct {
	Title          string    `json:"title"`          //显示用的名字
	Command        string    `json:"command"`        //进程启动命令
	Args           []string  `json:"args"`           //命令参数
	WorkDir        string    `json:"workDir"`        //工作目录
	Pid            int       `json:"pid"`            //进程PID
	Status         RunStatus `json:"status"`         //状态
	StartTime      time.Time `json:"startTime"`      //启动时间
	LastExitTime   time.Time `json:"lastExitTime"`   //最后一次退出的时间
	LastExitReason string    `json:"lastExitReason"` //最后一次退出的原因
}
