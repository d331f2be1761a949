package apihandlers

import (
	"embed"
	"html/template"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"

	"phishguard/internal/models"
)

const indexTemplate = "index.html"

//go:embed templates/*.html
var templatesFS embed.FS

var templateFuncs = template.FuncMap{
	"modelName": models.ModelName,
	"isPhishing": func(label string) bool {
		return label == models.LabelPhishing
	},
}

// NewRouter wires the form page, the predict endpoint and the health check.
func NewRouter(h *APIHandler, logger *log.Logger) *gin.Engine {
	router := gin.New()
	router.Use(RequestLogger(logger), gin.Recovery())

	tmpl := template.Must(template.New("").Funcs(templateFuncs).ParseFS(templatesFS, "templates/*.html"))
	router.SetHTMLTemplate(tmpl)

	router.GET("/", h.HomeHandler)
	router.POST("/predict", h.PredictHandler)
	router.GET("/health", h.HealthHandler)

	router.NoRoute(func(c *gin.Context) {
		NotFound(c, "No route for "+c.Request.Method+" "+c.Request.URL.Path)
	})
	return router
}
