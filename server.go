package main

import (
	"crypto/rand"
	"crypto/sha256"
	"embed"
	"encoding/hex"
	"html/template"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Zachkp/folio/internal/config"
	"github.com/Zachkp/folio/internal/contact"
	"github.com/Zachkp/folio/internal/content"
	"github.com/Zachkp/folio/internal/effects"
	"github.com/Zachkp/folio/internal/logging"
	"github.com/Zachkp/folio/internal/metrics"
	"github.com/Zachkp/folio/internal/schedule"
	"github.com/Zachkp/folio/internal/store"
	"github.com/Zachkp/folio/internal/throttle"
)

//go:embed templates/*.html
var templateFS embed.FS

// server holds everything the handlers need.
type server struct {
	cfg      *config.Config
	log      *zap.Logger
	profile  *content.Profile
	about    template.HTML
	projects []projectView
	store    *store.Store
	contact  *contact.Service
	metrics  *metrics.Metrics
	scroll   *throttle.Keyed
	clock    schedule.Clock
	admin    *adminAuth
	flash    *effects.Notifier
	salt     string
}

type projectView struct {
	content.Project
	HTML template.HTML
}

type deps struct {
	cfg     *config.Config
	log     *zap.Logger
	profile *content.Profile
	store   *store.Store
	sub     contact.Submitter
	clock   schedule.Clock
	metrics *metrics.Metrics
}

func newServer(d deps) (*server, error) {
	if d.clock == nil {
		d.clock = schedule.RealClock{}
	}
	if d.metrics == nil {
		d.metrics = metrics.New()
	}
	md := content.NewRenderer()
	about, err := md.HTML(d.profile.About)
	if err != nil {
		return nil, err
	}
	projects := make([]projectView, 0, len(d.profile.Projects))
	for _, p := range d.profile.Projects {
		h, err := md.HTML(p.Description)
		if err != nil {
			return nil, err
		}
		projects = append(projects, projectView{Project: p, HTML: h})
	}
	s := &server{
		cfg:      d.cfg,
		log:      d.log,
		profile:  d.profile,
		about:    about,
		projects: projects,
		store:    d.store,
		contact:  contact.NewService(d.store, d.sub, d.clock, d.log),
		metrics:  d.metrics,
		scroll:   throttle.NewKeyed(d.cfg.ScrollInterval),
		clock:    d.clock,
		flash:    effects.NewNotifier(d.clock, effects.DismissAfter),
		salt:     randomToken(),
	}
	s.admin, err = newAdminAuth(d.cfg, d.log)
	if err != nil {
		return nil, err
	}
	return s, nil
}

func (s *server) routes() (*gin.Engine, error) {
	if s.cfg.Env == "prod" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(logging.GinLogger(s.log), logging.GinRecovery(s.log), s.metrics.Middleware())

	tmpl, err := template.New("").Funcs(templateFuncs).ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, err
	}
	r.SetHTMLTemplate(tmpl)

	if dirExists("./images") {
		r.Static("/images", "./images")
	}
	if dirExists("./static") {
		r.Static("/static", "./static")
	}

	r.GET("/metrics", gin.WrapH(s.metrics.Handler()))
	r.GET("/healthz", s.handleHealth)

	site := r.Group("/")
	site.Use(s.visitorTracking())
	site.GET("/", s.handleHome)
	site.GET("/contact-form", s.handleContactForm)
	site.GET("/work-content", s.handleWorkContent)
	site.GET("/education-content", s.handleEducationContent)
	site.POST("/contact", s.handleContact)
	site.POST("/contact/validate/:field", s.handleValidateField)
	site.POST("/theme/toggle", s.handleThemeToggle)
	site.GET("/nav/active", s.handleNavActive)
	site.GET("/api/nav/active", s.handleNavActive)
	site.GET("/api/nav/target/:id", s.handleNavTarget)
	site.GET("/cv/:variant", s.handleCV)
	site.GET("/effects/typewriter", s.handleTypewriter)
	site.GET("/effects/progress", s.handleProgress)

	s.setupAdminRoutes(r)
	return r, nil
}

var templateFuncs = template.FuncMap{
	"join":         strings.Join,
	"ms":           func(d time.Duration) int64 { return d.Milliseconds() },
	"dismissAfter": func() time.Duration { return effects.DismissAfter },
}

func (s *server) handleHealth(c *gin.Context) {
	if err := s.store.Ping(c.Request.Context()); err != nil {
		s.log.Error("health check failed", zap.Error(err))
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// hashIP hashes a client address with a per-process salt so visitor rows
// never hold a raw IP.
func (s *server) hashIP(ip string) string {
	h := sha256.Sum256([]byte(ip + s.salt))
	return hex.EncodeToString(h[:])[:16]
}

func randomToken() string {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		panic("cannot read random bytes: " + err.Error())
	}
	return hex.EncodeToString(b)
}

func isHTMX(c *gin.Context) bool { return c.GetHeader("HX-Request") == "true" }

func dirExists(path string) bool {
	st, err := os.Stat(path)
	return err == nil && st.IsDir()
}
