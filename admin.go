// admin.go - privacy-conscious admin dashboard
package main

import (
	"crypto/subtle"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const adminCookie = "admin_token"

type adminHandler struct {
	token   string
	creds   AdminConfig
	tracker *Tracker
	cfg     *Config
	logger  *zap.Logger
}

func newAdminHandler(cfg *Config, tracker *Tracker, logger *zap.Logger) (*adminHandler, error) {
	token, err := randomHex(32)
	if err != nil {
		return nil, err
	}

	if gin.Mode() == gin.DebugMode {
		logger.Debug("admin token (dev only)", zap.String("token", token))
	}
	def := DefaultConfig().Admin
	if cfg.Admin.Username == def.Username || cfg.Admin.Password == def.Password {
		logger.Warn("using default admin credentials; set ADMIN_USERNAME and ADMIN_PASSWORD")
	}

	return &adminHandler{
		token:   token,
		creds:   cfg.Admin,
		tracker: tracker,
		cfg:     cfg,
		logger:  logger,
	}, nil
}

func equal(a, b string) bool {
	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}

func (h *adminHandler) requireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(adminCookie)
		if err != nil || !equal(token, h.token) {
			c.Redirect(http.StatusFound, "/admin/login")
			c.Abort()
			return
		}
		c.Next()
	}
}

func (h *adminHandler) client(c *gin.Context) zap.Field {
	if h.tracker == nil {
		return zap.Skip()
	}
	return zap.String("client", h.tracker.hashIP(c.ClientIP()))
}

func (h *adminHandler) register(r *gin.Engine) {
	r.GET("/admin/login", func(c *gin.Context) {
		c.HTML(http.StatusOK, "admin-login.html", gin.H{
			"title": "Admin Login",
		})
	})

	r.POST("/admin/login", func(c *gin.Context) {
		username := c.PostForm("username")
		password := c.PostForm("password")

		// Evaluate both comparisons to keep timing independent of which failed.
		userOK := equal(username, h.creds.Username)
		passOK := equal(password, h.creds.Password)
		if !userOK || !passOK {
			h.logger.Warn("failed admin login", h.client(c))
			c.HTML(http.StatusUnauthorized, "admin-login.html", gin.H{
				"title": "Admin Login",
				"error": "Invalid credentials",
			})
			return
		}

		c.SetCookie(adminCookie, h.token, 3600*24, "/admin", "", false, true)
		h.logger.Info("admin login", h.client(c))
		c.Redirect(http.StatusFound, "/admin/dashboard")
	})

	r.GET("/admin/logout", func(c *gin.Context) {
		c.SetCookie(adminCookie, "", -1, "/admin", "", false, true)
		h.logger.Info("admin logout", h.client(c))
		c.Redirect(http.StatusFound, "/admin/login")
	})

	group := r.Group("/admin")
	group.Use(h.requireAuth())

	group.GET("/dashboard", func(c *gin.Context) {
		stats, err := h.stats(c)
		if err != nil {
			h.logger.Error("loading admin stats", zap.Error(err))
			c.HTML(http.StatusInternalServerError, "admin-error.html", gin.H{
				"error": "Failed to load statistics",
			})
			return
		}
		c.HTML(http.StatusOK, "admin-dashboard.html", gin.H{
			"title":    "Dashboard",
			"stats":    stats,
			"tracking": h.tracker != nil,
		})
	})

	group.GET("/api/stats", func(c *gin.Context) {
		stats, err := h.stats(c)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, stats)
	})

	group.GET("/export/stats", func(c *gin.Context) {
		stats, err := h.stats(c)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.Header("Content-Disposition", "attachment; filename=admin-stats.json")
		h.logger.Info("admin stats exported", h.client(c))
		c.JSON(http.StatusOK, stats)
	})

	group.POST("/privacy/cleanup", func(c *gin.Context) {
		removed, err := h.tracker.Cleanup(c.Request.Context(), h.cfg.Retention)
		if err != nil {
			h.logger.Error("privacy cleanup", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Cleanup failed"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Privacy cleanup complete", "removed": removed})
	})
}

func (h *adminHandler) stats(c *gin.Context) (*Stats, error) {
	if h.tracker == nil {
		return &Stats{}, nil
	}
	return h.tracker.store.Stats(c.Request.Context(), h.tracker.now())
}
