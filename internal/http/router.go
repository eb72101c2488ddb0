package httpapi

import (
	"net/http"

	"go.uber.org/zap"
)

// Middleware http.HandlerFunc 装饰器
type Middleware = func(http.HandlerFunc) http.HandlerFunc

// Router 使用标准库 http.ServeMux（避免引入第三方路由依赖）
type Router struct {
	mux    *http.ServeMux
	logger *zap.Logger
}

func NewRouter(logger *zap.Logger) *Router {
	return &Router{
		mux:    http.NewServeMux(),
		logger: logger,
	}
}

func (r *Router) Handle(pattern string, h http.HandlerFunc) {
	r.mux.HandleFunc(pattern, h)
}

func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	r.mux.ServeHTTP(w, req)
}

// chain 从外到内依次套中间件
func chain(h http.HandlerFunc, mws ...Middleware) http.HandlerFunc {
	for i := len(mws) - 1; i >= 0; i-- {
		h = mws[i](h)
	}
	return h
}

// RegisterContactRoutes 注册联系人路由
// common 应用于全部联系人路由（如访问日志、认证）
func (r *Router) RegisterContactRoutes(h *ContactHandler, common ...Middleware) {
	handler := chain(h.ServeHTTP, common...)
	r.Handle(contactsBasePath, handler)
	r.Handle(contactsBasePath+"/", handler)
}

// RegisterAuthRoutes 注册认证路由
// limited 应用于登录/注册（防爆破限流），authed 应用于 users/me
func (r *Router) RegisterAuthRoutes(h *AuthHandler, limited []Middleware, authed []Middleware) {
	r.Handle("/api/v1/auth/register", chain(func(w http.ResponseWriter, req *http.Request) {
		if req.Method != http.MethodPost {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		h.Register(w, req)
	}, limited...))

	r.Handle("/api/v1/auth/login", chain(func(w http.ResponseWriter, req *http.Request) {
		if req.Method != http.MethodPost {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		h.Login(w, req)
	}, limited...))

	r.Handle("/api/v1/users/me", chain(func(w http.ResponseWriter, req *http.Request) {
		if req.Method != http.MethodGet {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		h.Me(w, req)
	}, authed...))
}

// RegisterHealthRoutes 注册健康检查路由
func (r *Router) RegisterHealthRoutes(h *HealthHandler, common ...Middleware) {
	r.Handle("/api/v1/healthchecker", chain(func(w http.ResponseWriter, req *http.Request) {
		if req.Method != http.MethodGet {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		h.Check(w, req)
	}, common...))
}
