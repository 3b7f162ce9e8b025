package httpapi

import (
	"net/http"
	"strings"

	"go.uber.org/zap"
)

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

// HandleHandler 支持 http.Handler 接口
func (r *Router) HandleHandler(pattern string, h http.Handler) {
	r.mux.Handle(pattern, h)
}

func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	r.mux.ServeHTTP(w, req)
}

// idSuffix 从 path 中解析 "{id}" 或 "{id}/{suffix}"（prefix 之后的部分）
func idSuffix(path, prefix string) (id, suffix string) {
	rest := strings.TrimPrefix(path, prefix)
	parts := strings.SplitN(rest, "/", 2)
	id = parts[0]
	if len(parts) == 2 {
		suffix = parts[1]
	}
	return id, suffix
}

// RegisterAuthRoutes 注册认证路由
func (r *Router) RegisterAuthRoutes(h *AuthHandler) {
	r.HandleHandler("/api/auth/", h)
}

// RegisterUserRoutes 注册用户资料路由
func (r *Router) RegisterUserRoutes(h *UserHandler) {
	r.Handle("/api/users/profile", func(w http.ResponseWriter, req *http.Request) {
		switch req.Method {
		case http.MethodGet:
			h.GetProfile(w, req)
		case http.MethodPut:
			h.UpdateProfile(w, req)
		default:
			w.WriteHeader(http.StatusMethodNotAllowed)
		}
	})
	r.Handle("/api/users/account", func(w http.ResponseWriter, req *http.Request) {
		if req.Method != http.MethodDelete {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		h.DeleteAccount(w, req)
	})
}

// RegisterPropertyRoutes 注册房源路由
func (r *Router) RegisterPropertyRoutes(h *PropertyHandler) {
	r.Handle("/api/properties", func(w http.ResponseWriter, req *http.Request) {
		switch req.Method {
		case http.MethodGet:
			h.List(w, req)
		case http.MethodPost:
			h.Create(w, req)
		default:
			w.WriteHeader(http.StatusMethodNotAllowed)
		}
	})
	r.Handle("/api/properties/", func(w http.ResponseWriter, req *http.Request) {
		id, suffix := idSuffix(req.URL.Path, "/api/properties/")
		if id == "" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		switch {
		case suffix == "" && req.Method == http.MethodGet:
			h.Get(w, req, id)
		case suffix == "" && req.Method == http.MethodPut:
			h.Update(w, req, id)
		case suffix == "" && req.Method == http.MethodDelete:
			h.Delete(w, req, id)
		case suffix == "status" && req.Method == http.MethodPatch:
			h.SetStatus(w, req, id)
		case suffix == "images" && req.Method == http.MethodPost:
			h.UploadImage(w, req, id)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	})
}

// RegisterApplicationRoutes 注册申请路由
func (r *Router) RegisterApplicationRoutes(h *ApplicationHandler) {
	r.Handle("/api/applications", func(w http.ResponseWriter, req *http.Request) {
		switch req.Method {
		case http.MethodGet:
			h.List(w, req)
		case http.MethodPost:
			h.Create(w, req)
		default:
			w.WriteHeader(http.StatusMethodNotAllowed)
		}
	})
	r.Handle("/api/applications/", func(w http.ResponseWriter, req *http.Request) {
		id, suffix := idSuffix(req.URL.Path, "/api/applications/")
		if id == "" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		switch {
		case suffix == "" && req.Method == http.MethodGet:
			h.Get(w, req, id)
		case suffix == "status" && req.Method == http.MethodPatch:
			h.UpdateStatus(w, req, id)
		case suffix == "documents" && req.Method == http.MethodPost:
			h.UploadDocument(w, req, id)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	})
}

// RegisterPaymentRoutes 注册支付路由
func (r *Router) RegisterPaymentRoutes(h *PaymentHandler) {
	r.Handle("/api/payments", func(w http.ResponseWriter, req *http.Request) {
		switch req.Method {
		case http.MethodGet:
			h.List(w, req)
		case http.MethodPost:
			h.Create(w, req)
		default:
			w.WriteHeader(http.StatusMethodNotAllowed)
		}
	})
	r.Handle("/api/payments/bulk-status", func(w http.ResponseWriter, req *http.Request) {
		if req.Method != http.MethodPost {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		h.BulkUpdateStatus(w, req)
	})
	r.Handle("/api/payments/", func(w http.ResponseWriter, req *http.Request) {
		id, suffix := idSuffix(req.URL.Path, "/api/payments/")
		if id == "" || id == "bulk-status" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		switch {
		case suffix == "" && req.Method == http.MethodGet:
			h.Get(w, req, id)
		case suffix == "status" && req.Method == http.MethodPatch:
			h.UpdateStatus(w, req, id)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	})
}

// RegisterAgreementRoutes 注册租约路由
func (r *Router) RegisterAgreementRoutes(h *AgreementHandler) {
	r.Handle("/api/agreements", func(w http.ResponseWriter, req *http.Request) {
		switch req.Method {
		case http.MethodGet:
			h.List(w, req)
		case http.MethodPost:
			h.Create(w, req)
		default:
			w.WriteHeader(http.StatusMethodNotAllowed)
		}
	})
	r.Handle("/api/agreements/", func(w http.ResponseWriter, req *http.Request) {
		id, suffix := idSuffix(req.URL.Path, "/api/agreements/")
		if id == "" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		switch {
		case suffix == "" && req.Method == http.MethodGet:
			h.Get(w, req, id)
		case suffix == "status" && req.Method == http.MethodPatch:
			h.UpdateStatus(w, req, id)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	})
}

// RegisterDashboardRoutes 注册仪表盘路由
func (r *Router) RegisterDashboardRoutes(h *DashboardHandler) {
	r.Handle("/api/dashboard", func(w http.ResponseWriter, req *http.Request) {
		if req.Method != http.MethodGet {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		h.Get(w, req)
	})
	r.Handle("/api/dashboard/export", func(w http.ResponseWriter, req *http.Request) {
		if req.Method != http.MethodGet {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		h.Export(w, req)
	})
}

// RegisterHealthRoute 健康检查
func (r *Router) RegisterHealthRoute() {
	r.Handle("/health", func(w http.ResponseWriter, req *http.Request) {
		writeJSON(w, http.StatusOK, OkMessage("ok"))
	})
}
