package kolors

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/pkg/errors"
)

// FileData gradio 的文件引用，path 指向 Space 上传后的服务端路径
type FileData struct {
	Path string   `json:"path"`
	URL  string   `json:"url,omitempty"`
	Meta FileMeta `json:"meta"`
}

type FileMeta struct {
	Type string `json:"_type"`
}

func NewFileData(path string) FileData {
	return FileData{Path: path, Meta: FileMeta{Type: "gradio.FileData"}}
}

// ImageEditorValue IDM-VTON Space 的 ImageEditor 组件输入
type ImageEditorValue struct {
	Background FileData      `json:"background"`
	Layers     []interface{} `json:"layers"`
	Composite  interface{}   `json:"composite"`
}

type CallRequest struct {
	Data []interface{} `json:"data"`
}

type CallResponse struct {
	EventID string `json:"event_id"`
}

// ReadCallResult 顺序读取 gradio 的 SSE 回复，直到 complete 或 error 事件
func ReadCallResult(body io.Reader) (json.RawMessage, error) {
	scanner := bufio.NewScanner(body)
	// 结果事件内嵌完整文件元数据，单行可能很大
	scanner.Buffer(make([]byte, 64*1024), 16*1024*1024)
	event := ""
	for scanner.Scan() {
		line := scanner.Text()
		if strings.HasPrefix(line, "event:") {
			event = strings.TrimSpace(strings.TrimPrefix(line, "event:"))
			continue
		}
		if !strings.HasPrefix(line, "data:") {
			continue
		}
		data := strings.TrimSpace(strings.TrimPrefix(line, "data:"))
		switch event {
		case "complete":
			return json.RawMessage(data), nil
		case "error":
			return nil, fmt.Errorf("space reported error: %s", data)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return nil, errors.New("stream ended without a complete event")
}

// ResultFileURL 从 complete 事件的数据数组里解析出第一个结果文件地址
func ResultFileURL(base string, raw json.RawMessage) (string, error) {
	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		return "", errors.Wrap(err, "parse result data")
	}
	if len(items) == 0 {
		return "", errors.New("empty result data")
	}
	first := items[0]

	var file FileData
	if err := json.Unmarshal(first, &file); err == nil {
		if file.URL != "" {
			return file.URL, nil
		}
		if file.Path != "" {
			return base + "/file=" + file.Path, nil
		}
	}
	var direct string
	if err := json.Unmarshal(first, &direct); err == nil && direct != "" {
		if strings.HasPrefix(direct, "http") {
			return direct, nil
		}
		return base + "/file=" + direct, nil
	}
	return "", errors.New("unexpected result format")
}
