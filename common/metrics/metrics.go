package metrics

import (
	"net/http"
	"time"

	"github.com/arl/statsviz"
)

// NewMux 挂载 /debug/statsviz/ 的 mux
func NewMux() (*http.ServeMux, error) {
	mux := http.NewServeMux()
	if err := statsviz.Register(mux); err != nil {
		return nil, err
	}
	return mux, nil
}

// Serve 阻塞运行运行时监控页面
func Serve(addr string) error {
	mux, err := NewMux()
	if err != nil {
		return err
	}
	server := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return server.ListenAndServe()
}
