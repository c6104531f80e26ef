package api

import (
	"log"
	"net/http"

	httpSwagger "github.com/swaggo/http-swagger"

	_ "todo-reminder/docs"
	"todo-reminder/handler"
)

// corsMiddleware 处理 CORS 跨域请求
func corsMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		// 处理预检请求
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next(w, r)
	}
}

// recoverMiddleware 捕获 panic 防止服务崩溃
func recoverMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if err := recover(); err != nil {
				log.Printf("panic recovered: %v", err)
				http.Error(w, "Internal server error", http.StatusInternalServerError)
			}
		}()
		next(w, r)
	}
}

// interactionMiddleware 任何修改类请求都算一次用户交互，解锁提示音
func interactionMiddleware(h *handler.Handler) func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodGet && r.Method != http.MethodOptions {
				h.MarkInteraction()
			}
			next(w, r)
		}
	}
}

// chain 链接多个中间件
func chain(f http.HandlerFunc, middlewares ...func(http.HandlerFunc) http.HandlerFunc) http.HandlerFunc {
	for i := len(middlewares) - 1; i >= 0; i-- {
		f = middlewares[i](f)
	}
	return f
}

func SetupRoutes(h *handler.Handler) *http.ServeMux {
	mux := http.NewServeMux()

	withMiddlewares := func(f http.HandlerFunc) http.HandlerFunc {
		return chain(f, corsMiddleware, recoverMiddleware, interactionMiddleware(h))
	}

	optionsHandler := func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}

	registerTaskRoutes := func(base string) {
		mux.HandleFunc("GET "+base, withMiddlewares(h.ListTasks))
		mux.HandleFunc("POST "+base, withMiddlewares(h.CreateTask))
		mux.HandleFunc("OPTIONS "+base, withMiddlewares(optionsHandler))

		mux.HandleFunc("GET "+base+"/stats", withMiddlewares(h.GetStats))
		mux.HandleFunc("GET "+base+"/countdowns", withMiddlewares(h.GetCountdowns))
		mux.HandleFunc("POST "+base+"/sort", withMiddlewares(h.SortTasks))
		mux.HandleFunc("POST "+base+"/clear-completed", withMiddlewares(h.ClearCompleted))

		mux.HandleFunc("PUT "+base+"/{id}", withMiddlewares(h.EditTask))
		mux.HandleFunc("DELETE "+base+"/{id}", withMiddlewares(h.DeleteTask))
		mux.HandleFunc("POST "+base+"/{id}/toggle", withMiddlewares(h.ToggleTask))
		mux.HandleFunc("POST "+base+"/{id}/move", withMiddlewares(h.MoveTask))
		mux.HandleFunc("OPTIONS "+base+"/{id}", withMiddlewares(optionsHandler))
		mux.HandleFunc("OPTIONS "+base+"/{id}/{action}", withMiddlewares(optionsHandler))
	}

	// Versioned routes with legacy aliases for backward compatibility
	registerTaskRoutes("/api/v1/tasks")
	registerTaskRoutes("/api/tasks")

	mux.HandleFunc("GET /api/v1/notifications/permission", withMiddlewares(h.GetPermission))
	mux.HandleFunc("PUT /api/v1/notifications/permission", withMiddlewares(h.SetPermission))
	mux.HandleFunc("OPTIONS /api/v1/notifications/permission", withMiddlewares(optionsHandler))

	mux.HandleFunc("POST /api/v1/interaction", withMiddlewares(h.Interaction))
	mux.HandleFunc("OPTIONS /api/v1/interaction", withMiddlewares(optionsHandler))

	mux.HandleFunc("/health", h.HealthCheck)
	mux.Handle("/swagger/", httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json")))

	return mux
}
