package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"net/http"
	"time"
)

// 对运行中的服务做一次手动冒烟测试
func main() {
	baseURL := flag.String("base", "http://localhost:7789", "server base URL")
	flag.Parse()

	fmt.Println("=== Todo Reminder API 测试 ===")

	fmt.Println("\n1. 健康检查 /health")
	request(*baseURL, "GET", "/health", nil)

	fmt.Println("\n2. 创建任务")
	due := time.Now().Add(2 * time.Minute)
	first := request(*baseURL, "POST", "/api/v1/tasks", map[string]string{
		"text":     "学习Go语言",
		"priority": "high",
		"date":     due.Format("2006-01-02"),
		"time":     due.Format("15:04"),
	})
	second := request(*baseURL, "POST", "/api/v1/tasks", map[string]string{
		"text": "完成第一个Go项目",
	})

	fmt.Println("\n3. 拖动排序：把第二个任务放到第一个前面")
	if id1, id2 := taskID(first), taskID(second); id1 != "" && id2 != "" {
		request(*baseURL, "POST", "/api/v1/tasks/"+id2+"/move", map[string]string{"target_id": id1})
	}

	fmt.Println("\n4. 倒计时")
	request(*baseURL, "GET", "/api/v1/tasks/countdowns", nil)

	fmt.Println("\n5. 统计")
	request(*baseURL, "GET", "/api/v1/tasks/stats", nil)

	fmt.Println("\n=== 测试完成 ===")
}

func taskID(body []byte) string {
	var resp struct {
		Data struct {
			ID string `json:"id"`
		} `json:"data"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return ""
	}
	return resp.Data.ID
}

func request(baseURL, method, endpoint string, payload interface{}) []byte {
	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			fmt.Printf("❌ 编码请求失败: %v\n", err)
			return nil
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequest(method, baseURL+endpoint, body)
	if err != nil {
		fmt.Printf("❌ 创建请求失败: %v\n", err)
		return nil
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	client := &http.Client{Timeout: 5 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		fmt.Printf("❌ 请求失败: %v\n", err)
		return nil
	}
	defer resp.Body.Close()

	data, _ := io.ReadAll(resp.Body)

	fmt.Printf("✅ %s %s - Status: %d\n", method, endpoint, resp.StatusCode)
	if len(data) < 500 {
		fmt.Printf("Response: %s\n", string(data))
	} else {
		fmt.Printf("Response: [Response too large: %d bytes]\n", len(data))
	}
	return data
}
