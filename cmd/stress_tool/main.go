package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/google/uuid"
)

// 压测前请调大服务端 ratelimit.rps / ratelimit.burst，否则大部分请求会被限流
var (
	baseURL     = flag.String("url", "http://localhost:8080", "服务地址")
	concurrency = flag.Int("n", 200, "并发数")
	secret      = flag.String("secret", "stress-secret", "门店 secret")

	httpClient *http.Client
)

func init() {
	// 优化 HTTP Client 配置
	t := http.DefaultTransport.(*http.Transport).Clone()
	t.MaxIdleConns = 2000
	t.MaxIdleConnsPerHost = 2000
	t.MaxConnsPerHost = 2000
	httpClient = &http.Client{
		Transport: t,
		Timeout:   10 * time.Second,
	}
}

type apiResponse struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func main() {
	flag.Parse()

	// 1. 创建压测门店
	slug := "stress-" + uuid.New().String()[:8]
	if _, err := post("/shops", map[string]interface{}{
		"name":   "压测门店",
		"slug":   slug,
		"secret": *secret,
		"meta":   1000000,
	}, http.StatusCreated); err != nil {
		fail("创建门店失败: %v", err)
	}

	code, err := currentCode(slug)
	if err != nil {
		fail("获取购买码失败: %v", err)
	}
	fmt.Printf("门店 %s，购买码 %s，并发 %d\n", slug, code, *concurrency)

	ok := true

	// 2. 同一顾客并发使用同一购买码：只能成功一次
	success, duration := run(*concurrency, func(int) bool {
		_, err := post("/shops/"+slug+"/earn", map[string]string{"customerId": "same-customer", "code": code}, http.StatusOK)
		return err == nil
	})
	ok = report("同一顾客重复使用购买码", success, 1, duration) && ok

	// 3. 不同顾客并发积分：全部成功
	success, duration = run(*concurrency, func(i int) bool {
		_, err := post("/shops/"+slug+"/earn", map[string]string{"customerId": fmt.Sprintf("customer-%d", i), "code": code}, http.StatusOK)
		return err == nil
	})
	ok = report("不同顾客并发积分", success, *concurrency, duration) && ok

	if !ok {
		os.Exit(1)
	}
}

func run(n int, fn func(i int) bool) (int, time.Duration) {
	var wg sync.WaitGroup
	var mu sync.Mutex
	success := 0

	start := time.Now()
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			if fn(i) {
				mu.Lock()
				success++
				mu.Unlock()
			}
		}(i)
	}
	wg.Wait()
	return success, time.Since(start)
}

func report(name string, success, expected int, duration time.Duration) bool {
	fmt.Println("--------------------------------------------------")
	fmt.Printf("%s\n", name)
	fmt.Printf("耗时: %v，QPS: %.2f\n", duration, float64(*concurrency)/duration.Seconds())
	fmt.Printf("成功: %d (预期: %d)\n", success, expected)
	if success != expected {
		fmt.Println("结果: 不符合预期")
		return false
	}
	fmt.Println("结果: 通过")
	return true
}

func currentCode(slug string) (string, error) {
	data, err := post("/shops/"+slug+"/code", map[string]string{"secret": *secret}, http.StatusOK)
	if err != nil {
		return "", err
	}
	var code struct {
		Code string `json:"code"`
	}
	if err := json.Unmarshal(data, &code); err != nil {
		return "", err
	}
	return code.Code, nil
}

func post(path string, payload interface{}, wantStatus int) (json.RawMessage, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	resp, err := httpClient.Post(*baseURL+path, "application/json", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	var result apiResponse
	if err := json.Unmarshal(respBody, &result); err != nil {
		return nil, fmt.Errorf("status %d: %s", resp.StatusCode, respBody)
	}
	if resp.StatusCode != wantStatus {
		return nil, fmt.Errorf("status %d: %s", resp.StatusCode, result.Message)
	}
	return result.Data, nil
}

func fail(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}
