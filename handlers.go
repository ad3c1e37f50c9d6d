package main

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Zachkp/folio/internal/contact"
	"github.com/Zachkp/folio/internal/cv"
	"github.com/Zachkp/folio/internal/effects"
	"github.com/Zachkp/folio/internal/form"
	"github.com/Zachkp/folio/internal/schedule"
	"github.com/Zachkp/folio/internal/section"
	"github.com/Zachkp/folio/internal/store"
	"github.com/Zachkp/folio/internal/theme"
)

// Home page
func (s *server) handleHome(c *gin.Context) {
	tm := s.themeManager(c)
	tr := section.NewTracker(s.profile.Layout(), s.profile.NavLinks(), s.cfg.ScrollLead)
	tr.Update(0)

	c.HTML(http.StatusOK, "index.html", gin.H{
		"profile":    s.profile,
		"about":      s.about,
		"projects":   s.projects,
		"theme":      string(tm.Get()),
		"icon":       tm.Icon(),
		"links":      tr.Links(),
		"active":     tr.Active(),
		"chrome":     section.ChromeAt(0),
		"typeStart":  effects.TypewriterStart,
		"typeStep":   effects.TypeInterval,
		"submitWait": s.cfg.SubmitDelay,
	})
}

// Work experience content
func (s *server) handleWorkContent(c *gin.Context) {
	c.HTML(http.StatusOK, "work-content.html", gin.H{"positions": s.profile.Experience})
}

// Education content
func (s *server) handleEducationContent(c *gin.Context) {
	c.HTML(http.StatusOK, "education-content.html", gin.H{"degrees": s.profile.Education})
}

// HTMX contact form fragment
func (s *server) handleContactForm(c *gin.Context) {
	c.HTML(http.StatusOK, "contact.html", gin.H{
		"title":  "Contact Me",
		"form":   form.ContactForm{},
		"errors": map[string]form.Result{},
	})
}

// The form is always re-rendered in place; the outcome toast is swapped
// into #notifications out of band. A sent message resets the form.
func (s *server) handleContact(c *gin.Context) {
	var f form.ContactForm
	if err := c.ShouldBind(&f); err != nil {
		c.String(http.StatusBadRequest, "invalid form")
		return
	}

	data := gin.H{
		"title":  "Contact Me",
		"form":   f,
		"errors": map[string]form.Result{},
	}
	receipt, err := s.contact.Submit(c.Request.Context(), f)
	var ve *form.ValidationError
	switch {
	case errors.As(err, &ve):
		s.metrics.Submissions.WithLabelValues("invalid").Inc()
		data["errors"] = ve.Fields
		data["notice"] = effects.Notification{Kind: effects.Error, Message: form.MsgFixErrors}
	case err != nil:
		s.metrics.Submissions.WithLabelValues("failed").Inc()
		_ = c.Error(err)
		data["notice"] = effects.Notification{Kind: effects.Error, Message: contact.FailureMessage}
	default:
		s.metrics.Submissions.WithLabelValues("sent").Inc()
		data["form"] = form.ContactForm{}
		data["notice"] = effects.Notification{Kind: effects.Success, Message: receipt.Message}
	}
	c.HTML(http.StatusOK, "contact.html", data)
}

// Blur validation of a single field. Answers with the error fragment,
// empty when the field is valid.
func (s *server) handleValidateField(c *gin.Context) {
	var f form.ContactForm
	if err := c.ShouldBind(&f); err != nil {
		c.String(http.StatusBadRequest, "invalid form")
		return
	}
	field, ok := f.Field(c.Param("field"))
	if !ok {
		c.String(http.StatusNotFound, "unknown field")
		return
	}
	st := form.FieldState{Field: field}
	st.Blur()
	c.HTML(http.StatusOK, "field-error.html", gin.H{
		"field":   field.Name,
		"message": st.Error(),
	})
}

func (s *server) handleThemeToggle(c *gin.Context) {
	tm := s.themeManager(c)
	next, err := tm.Toggle()
	if err != nil {
		s.log.Warn("theme toggle failed", zap.Error(err))
	} else {
		s.metrics.ThemeToggles.WithLabelValues(string(next)).Inc()
	}
	if !isHTMX(c) {
		c.Redirect(http.StatusSeeOther, "/")
		return
	}
	c.Header("HX-Trigger", `{"themeChanged":"`+string(next)+`"}`)
	c.HTML(http.StatusOK, "theme-toggle.html", gin.H{
		"theme": string(next),
		"icon":  tm.Icon(),
	})
}

// Scroll-driven nav highlight. The client reports its scroll offset and the
// section it currently highlights; the answer keeps that highlight when the
// offset falls between sections.
func (s *server) handleNavActive(c *gin.Context) {
	y, err := strconv.ParseFloat(c.Query("y"), 64)
	if err != nil || y < 0 {
		c.String(http.StatusBadRequest, "y must be a non-negative number")
		return
	}
	if !s.scroll.AllowAt(s.hashIP(c.ClientIP()), s.clock.Now()) {
		s.metrics.ScrollEvents.WithLabelValues("throttled").Inc()
		c.Status(http.StatusNoContent)
		return
	}

	links := s.profile.NavLinks()
	if cur := c.Query("active"); cur != "" {
		for i := range links {
			links[i].Active = links[i].Target == cur
		}
	}
	tr := section.NewTracker(s.profile.Layout(), links, s.cfg.ScrollLead)
	if _, hit := section.ComputeActive(s.profile.Layout(), y, s.cfg.ScrollLead); hit {
		s.metrics.ScrollEvents.WithLabelValues("active").Inc()
	} else {
		s.metrics.ScrollEvents.WithLabelValues("gap").Inc()
	}
	active := tr.Update(y)
	chrome := section.ChromeAt(y)

	if strings.HasPrefix(c.FullPath(), "/api/") {
		c.JSON(http.StatusOK, gin.H{"active": active, "links": tr.Links(), "chrome": chrome})
		return
	}
	c.HTML(http.StatusOK, "nav.html", gin.H{"links": tr.Links(), "active": active, "chrome": chrome})
}

// Offset a nav link click should scroll to.
func (s *server) handleNavTarget(c *gin.Context) {
	id := c.Param("id")
	y, ok := section.ScrollTarget(s.profile.Layout(), id)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown section"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": id, "y": y})
}

func (s *server) handleCV(c *gin.Context) {
	v, ok := cv.ParseVariant(c.Param("variant"))
	if !ok {
		c.String(http.StatusNotFound, "unknown CV variant")
		return
	}
	now := s.clock.Now()
	body := cv.Generate(s.profile, v, now)

	if err := s.store.RecordDownload(c.Request.Context(), string(v), s.hashIP(c.ClientIP()), now); err != nil {
		s.log.Warn("cannot record CV download", zap.Error(err))
	}
	s.metrics.Downloads.WithLabelValues(string(v)).Inc()

	c.Header("Content-Disposition", `attachment; filename="`+cv.Filename(s.profile.Name, v)+`"`)
	c.Data(http.StatusOK, cv.ContentType, []byte(body))
}

func (s *server) handleTypewriter(c *gin.Context) {
	text := s.profile.Tagline
	c.JSON(http.StatusOK, gin.H{
		"text":   text,
		"frames": effects.Frames(text, effects.TypewriterStart, effects.TypeInterval),
	})
}

type progressFrame struct {
	At      time.Duration `json:"at"`
	Percent int           `json:"percent"`
}

// Progress bar frames spread across the submit delay.
func (s *server) handleProgress(c *gin.Context) {
	steps, err := strconv.Atoi(c.DefaultQuery("steps", "10"))
	if err != nil || steps <= 0 || steps > 100 {
		c.String(http.StatusBadRequest, "steps must be between 1 and 100")
		return
	}
	interval := s.cfg.SubmitDelay / time.Duration(steps)
	if interval <= 0 {
		interval = effects.ProgressStep
	}

	clock := schedule.NewFakeClock(time.Time{})
	var frames []progressFrame
	seq := effects.Progress(steps, interval, func(p int) {
		frames = append(frames, progressFrame{At: clock.Now().Sub(time.Time{}), Percent: p})
	})
	schedule.Start(clock, seq, nil)
	clock.Advance(seq.Duration())
	c.JSON(http.StatusOK, gin.H{"frames": frames})
}

// Privacy-conscious visitor tracking: hashed IPs only, Do Not Track
// respected, high-frequency endpoints skipped.
func (s *server) visitorTracking() gin.HandlerFunc {
	skip := []string{
		"/static/", "/images/", "/admin/", "/favicon", "/privacy",
		"/nav/", "/api/", "/effects/", "/contact/validate/",
		"/contact-form", "/work-content", "/education-content",
	}
	return func(c *gin.Context) {
		c.Next()

		path := c.Request.URL.Path
		for _, p := range skip {
			if strings.HasPrefix(path, p) {
				return
			}
		}
		if c.GetHeader("DNT") == "1" || c.Writer.Status() >= 400 {
			return
		}

		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		err := s.store.RecordVisit(ctx, store.Visit{
			HashedIP:  s.hashIP(c.ClientIP()),
			UserAgent: c.Request.UserAgent(),
			Path:      path,
			Timestamp: s.clock.Now(),
		})
		if err != nil {
			s.log.Warn("cannot record visit", zap.Error(err))
		}
	}
}

func (s *server) themeManager(c *gin.Context) *theme.Manager {
	hint := strings.Trim(c.GetHeader("Sec-CH-Prefers-Color-Scheme"), `"`)
	return theme.NewManager(&cookieStorage{c: c, secure: s.cfg.Env == "prod"}, theme.WithSystemPreference(hint))
}

// cookieStorage persists theme values in first-party cookies for one
// request. Values set during the request are visible to later reads.
type cookieStorage struct {
	c      *gin.Context
	secure bool
	set    map[string]string
}

func (cs *cookieStorage) Get(key string) (string, bool) {
	if v, ok := cs.set[key]; ok {
		return v, true
	}
	v, err := cs.c.Cookie(key)
	if err != nil {
		return "", false
	}
	return v, true
}

func (cs *cookieStorage) Set(key, value string) error {
	if cs.set == nil {
		cs.set = make(map[string]string)
	}
	cs.set[key] = value
	cs.c.SetSameSite(http.SameSiteLaxMode)
	cs.c.SetCookie(key, value, 365*24*3600, "/", "", cs.secure, false)
	return nil
}
