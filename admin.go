// admin.go - privacy-conscious admin area
package main

import (
	"context"
	"crypto/subtle"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/Zachkp/folio/internal/config"
	"github.com/Zachkp/folio/internal/effects"
	"github.com/Zachkp/folio/internal/schedule"
)

const adminCookie = "admin_token"

type adminAuth struct {
	token    string
	username string
	hash     []byte
	secure   bool
}

// newAdminAuth accepts the admin password either in plain text or as a
// bcrypt hash ("$2a$...").
func newAdminAuth(cfg *config.Config, log *zap.Logger) (*adminAuth, error) {
	a := &adminAuth{
		token:    randomToken(),
		username: cfg.AdminUsername,
		secure:   cfg.Env == "prod",
	}
	// prod refuses to start without credentials, see config validation
	if a.username == "" {
		a.username = "admin"
		log.Warn("using default admin username; set FOLIO_ADMIN_USERNAME")
	}
	password := cfg.AdminPassword
	if password == "" {
		password = "admin123"
		log.Warn("using default admin password; set FOLIO_ADMIN_PASSWORD")
	}
	if strings.HasPrefix(password, "$2") {
		if _, err := bcrypt.Cost([]byte(password)); err != nil {
			return nil, fmt.Errorf("admin password hash: %w", err)
		}
		a.hash = []byte(password)
	} else {
		h, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
		if err != nil {
			return nil, fmt.Errorf("hash admin password: %w", err)
		}
		a.hash = h
	}
	log.Info("admin access available", zap.String("path", "/admin/login"))
	return a, nil
}

func (a *adminAuth) check(username, password string) bool {
	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(a.username)) == 1
	passOK := bcrypt.CompareHashAndPassword(a.hash, []byte(password)) == nil
	return userOK && passOK
}

// middleware redirects to the login page without a valid session cookie.
func (a *adminAuth) middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(adminCookie)
		if err != nil || subtle.ConstantTimeCompare([]byte(token), []byte(a.token)) != 1 {
			c.Redirect(http.StatusFound, "/admin/login")
			c.Abort()
			return
		}
		c.Next()
	}
}

// Cleanup old visitor data for privacy compliance.
func (s *server) cleanupVisits(ctx context.Context) (int64, error) {
	cutoff := s.clock.Now().Add(-s.cfg.VisitRetention)
	n, err := s.store.DeleteVisitsBefore(ctx, cutoff)
	if err != nil {
		return 0, err
	}
	if n > 0 {
		s.log.Info("privacy cleanup removed visitor records", zap.Int64("rows", n), zap.Time("cutoff", cutoff))
	}
	return n, nil
}

// runCleanup repeats the privacy cleanup once a day until ctx is done.
// Scroll throttles idle for an hour are dropped on the same schedule.
func (s *server) runCleanup(ctx context.Context) {
	for {
		if _, err := s.cleanupVisits(ctx); err != nil {
			s.log.Error("privacy cleanup failed", zap.Error(err))
		}
		if n := s.scroll.Prune(s.clock.Now().Add(-time.Hour)); n > 0 {
			s.log.Debug("pruned idle scroll throttles", zap.Int("visitors", n))
		}
		if err := schedule.Sleep(ctx, s.clock, 24*time.Hour); err != nil {
			return
		}
	}
}

func (s *server) setupAdminRoutes(r *gin.Engine) {
	r.GET("/privacy", func(c *gin.Context) {
		c.HTML(http.StatusOK, "privacy.html", gin.H{
			"title":     "Privacy Policy",
			"retention": s.cfg.VisitRetention,
		})
	})

	r.GET("/admin/login", func(c *gin.Context) {
		c.HTML(http.StatusOK, "admin-login.html", gin.H{"title": "Admin Login"})
	})

	r.POST("/admin/login", func(c *gin.Context) {
		if !s.admin.check(c.PostForm("username"), c.PostForm("password")) {
			s.log.Warn("failed admin login", zap.String("client", s.hashIP(c.ClientIP())))
			c.HTML(http.StatusUnauthorized, "admin-login.html", gin.H{
				"title": "Admin Login",
				"error": "Invalid credentials",
			})
			return
		}
		c.SetSameSite(http.SameSiteStrictMode)
		c.SetCookie(adminCookie, s.admin.token, 3600*24, "/admin", "", s.admin.secure, true)
		s.log.Info("admin login", zap.String("client", s.hashIP(c.ClientIP())))
		s.flash.Show(effects.Success, "Welcome back")
		c.Redirect(http.StatusFound, "/admin/dashboard")
	})

	r.GET("/admin/logout", func(c *gin.Context) {
		c.SetCookie(adminCookie, "", -1, "/admin", "", s.admin.secure, true)
		c.Redirect(http.StatusFound, "/admin/login")
	})

	g := r.Group("/admin")
	g.Use(s.admin.middleware())

	g.GET("/dashboard", func(c *gin.Context) {
		stats, err := s.store.Stats(c.Request.Context(), s.clock.Now())
		if err != nil {
			s.log.Error("cannot load admin stats", zap.Error(err))
			c.HTML(http.StatusInternalServerError, "admin-error.html", gin.H{"error": "Failed to load statistics"})
			return
		}
		c.HTML(http.StatusOK, "admin-dashboard.html", gin.H{
			"stats":         stats,
			"notifications": s.flash.Active(),
		})
	})

	g.GET("/api/stats", func(c *gin.Context) {
		stats, err := s.store.Stats(c.Request.Context(), s.clock.Now())
		if err != nil {
			s.log.Error("cannot load admin stats", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load statistics"})
			return
		}
		c.JSON(http.StatusOK, stats)
	})

	g.GET("/messages", func(c *gin.Context) {
		msgs, err := s.store.Messages(c.Request.Context(), 200)
		if err != nil {
			s.log.Error("cannot load messages", zap.Error(err))
			c.HTML(http.StatusInternalServerError, "admin-error.html", gin.H{"error": "Failed to load messages"})
			return
		}
		c.HTML(http.StatusOK, "admin-messages.html", gin.H{"messages": msgs})
	})

	g.GET("/visitors", func(c *gin.Context) {
		visits, err := s.store.RecentVisits(c.Request.Context(), 200)
		if err != nil {
			s.log.Error("cannot load visitors", zap.Error(err))
			c.HTML(http.StatusInternalServerError, "admin-error.html", gin.H{"error": "Failed to load visitors"})
			return
		}
		c.HTML(http.StatusOK, "admin-visitors.html", gin.H{"visitors": visits})
	})

	g.POST("/privacy/cleanup", func(c *gin.Context) {
		n, err := s.cleanupVisits(c.Request.Context())
		if err != nil {
			s.log.Error("privacy cleanup failed", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "cleanup failed"})
			return
		}
		s.flash.Show(effects.Info, fmt.Sprintf("Removed %d visitor records", n))
		c.JSON(http.StatusOK, gin.H{"removed": n})
	})

	g.GET("/export/stats", func(c *gin.Context) {
		stats, err := s.store.Stats(c.Request.Context(), s.clock.Now())
		if err != nil {
			s.log.Error("cannot export admin stats", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load statistics"})
			return
		}
		c.Header("Content-Disposition", "attachment; filename=admin-stats.json")
		c.JSON(http.StatusOK, stats)
	})
}
