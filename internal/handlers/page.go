package handlers

import (
	"bytes"
	"embed"
	"html/template"
	"net/http"
	"strings"
	"taskManager/internal/logger"
	"taskManager/internal/models/task"
	"time"

	"go.uber.org/zap"
)

//go:embed templates/index.html
var templatesFS embed.FS

var indexTemplate = template.Must(
	template.New("index.html").
		Funcs(template.FuncMap{"upper": strings.ToUpper}).
		ParseFS(templatesFS, "templates/index.html"),
)

type pageData struct {
	AppName string
	Stats   task.Stats
	Tasks   []*task.Task
}

type PageHandler struct {
	appName     string
	TaskService Service
}

func NewPageHandler(appName string, taskService Service) *PageHandler {
	return &PageHandler{appName: appName, TaskService: taskService}
}

// Index рендерит страницу целиком в буфер, чтобы при ошибке шаблона отдать 500, а не половину HTML
func (p *PageHandler) Index(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logger.HttpRequestInfo(r, "HTTP_IN:")

	tasks, err := p.TaskService.ListTasks(r.Context())
	if err != nil {
		logger.Error("HTTP: Ошибка Service", err, zap.String("operation", "index"))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	var buf bytes.Buffer
	err = indexTemplate.Execute(&buf, pageData{
		AppName: p.appName,
		Stats:   task.ComputeStats(tasks),
		Tasks:   tasks,
	})
	if err != nil {
		logger.Error("HTTP: Ошибка шаблона", err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	if _, err := buf.WriteTo(w); err != nil {
		logger.Warn("HTTP: Ошибка записи страницы", zap.Error(err))
	}

	logger.Info("HTTP_OUT: Страница отдана",
		zap.Int("tasks", len(tasks)),
		zap.Duration("ms", time.Since(start)))
}
