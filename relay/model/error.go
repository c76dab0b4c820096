package model

import "fmt"

// BackendFailure 远程生成失败：超时、错误状态码或响应不可解析
// 编排器内部吞掉它并转入下一个后端，绝不向调用方抛出
type BackendFailure struct {
	Backend string
	Reason  string
	Err     error
}

func (e *BackendFailure) Error() string {
	msg := fmt.Sprintf("backend %s: %s", e.Backend, e.Reason)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *BackendFailure) Unwrap() error { return e.Err }

func NewBackendFailure(backend string, reason string, err error) *BackendFailure {
	return &BackendFailure{Backend: backend, Reason: reason, Err: err}
}

// CompositorError 合成器收到退化的几何输入，属于上游预处理缺陷而非用户错误
type CompositorError struct {
	Reason string
}

func (e *CompositorError) Error() string {
	return "compositor: " + e.Reason
}
