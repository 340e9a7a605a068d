package main

import (
	"context"
	"errors"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"srms/internal/auth"
	"srms/internal/config"
	"srms/internal/httpmiddleware"
	"srms/internal/photos"
	"srms/internal/records"
	"srms/internal/registry"
	"srms/internal/roster"
	"srms/internal/store"
	"srms/internal/view"
)

func main() {
	cfg := config.Load()

	// Set Gin mode based on environment
	if cfg.Env == "production" || cfg.Env == "prod" {
		gin.SetMode(gin.ReleaseMode)
	}

	if err := runHTTP(cfg); err != nil {
		log.Fatalf("http server failed: %v", err)
	}
}

func runHTTP(cfg config.App) error {
	r := newRouter(cfg)

	srv := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("Starting server on :%s", cfg.HTTPPort)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	// Give outstanding requests 10 seconds to complete
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server forced shutdown: %v", err)
	}

	log.Println("Server exited")
	return nil
}

func newRouter(cfg config.App) *gin.Engine {
	st := store.New(cfg.DataDir)
	reg := registry.New(st, registry.DefaultAccounts())
	authSvc := auth.NewService(reg)
	sessions := auth.NewSessionContext()
	projector := view.NewProjector(st)
	admin := roster.NewService(st)
	photoStore := photos.New(cfg.UploadDir, "/uploads")

	var limiter httpmiddleware.Limiter
	var redisStore *store.Redis
	if cfg.RateLimitBackend == "redis" {
		redisStore = store.NewRedis(cfg.RedisAddr)
		limiter = httpmiddleware.NewRedisCounter(redisStore.Client, cfg.RateLimitPerMin)
	} else {
		limiter = httpmiddleware.NewSimpleTokenBucket(cfg.RateLimitPerMin, cfg.RateLimitPerMin)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(gin.LoggerWithConfig(gin.LoggerConfig{
		SkipPaths: []string{"/healthz", "/metrics"},
	}))
	r.Use(corsMiddleware())
	r.Use(securityHeaders())
	r.Use(httpmiddleware.RateLimit(limiter))

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	r.GET("/healthz", func(c *gin.Context) {
		status := http.StatusOK
		resp := gin.H{"status": "ok"}
		if redisStore != nil {
			healthy := redisStore.Healthy(c.Request.Context())
			resp["redis"] = healthy
			if !healthy {
				status = http.StatusServiceUnavailable
			}
		}
		c.JSON(status, resp)
	})

	r.POST("/api/login", func(c *gin.Context) {
		var req struct {
			Username string `json:"username" binding:"required"`
			Password string `json:"password" binding:"required"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		session, err := authSvc.Authenticate(req.Username, req.Password)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials (students: username must match password)"})
			return
		}
		sessions.Establish(session)

		token, exp, err := auth.Issue(session, cfg.JWTIssuer, cfg.JWTSigningKey, cfg.AccessTTL)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "token issue failed"})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"token":      token,
			"expires_at": exp.Unix(),
			"session":    session,
		})
	})

	r.GET("/api/session", func(c *gin.Context) {
		session := sessions.Current()
		if session == nil {
			c.JSON(http.StatusOK, gin.H{"authenticated": false})
			return
		}
		c.JSON(http.StatusOK, gin.H{"authenticated": true, "session": session})
	})

	api := r.Group("/api", auth.Bearer(cfg.JWTSigningKey, cfg.JWTIssuer))

	api.POST("/logout", func(c *gin.Context) {
		sessions.Clear()
		c.JSON(http.StatusOK, gin.H{"message": "logged out"})
	})

	staff := api.Group("", auth.RequireRoles(auth.RoleAdmin, auth.RoleTeacher))
	adminOnly := api.Group("", auth.RequireRoles(auth.RoleAdmin))

	staff.GET("/students", func(c *gin.Context) {
		students, res := projector.AllStudents()
		resp := gin.H{"students": students}
		if res.Recovered {
			// Document existed but was unreadable; the empty list is a
			// recovery, and the admin view should say so.
			resp["warning"] = "students data was invalid and has been treated as empty"
		}
		c.JSON(http.StatusOK, resp)
	})

	adminOnly.POST("/students", func(c *gin.Context) {
		var in roster.StudentInput
		if err := c.ShouldBindJSON(&in); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		student, err := admin.AddStudent(in)
		if err != nil {
			writeRosterError(c, err)
			return
		}
		c.JSON(http.StatusCreated, student)
	})

	adminOnly.PUT("/students/:id", func(c *gin.Context) {
		var in roster.StudentInput
		if err := c.ShouldBindJSON(&in); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		student, err := admin.UpdateStudent(records.ID(c.Param("id")), in)
		if err != nil {
			writeRosterError(c, err)
			return
		}
		c.JSON(http.StatusOK, student)
	})

	adminOnly.DELETE("/students/:id", func(c *gin.Context) {
		if err := admin.DeleteStudent(records.ID(c.Param("id"))); err != nil {
			writeRosterError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "student deleted"})
	})

	adminOnly.POST("/students/:id/photo", func(c *gin.Context) {
		file, header, err := c.Request.FormFile("photo")
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "photo field required"})
			return
		}
		defer file.Close()
		data, err := io.ReadAll(file)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "read file failed"})
			return
		}
		url, err := photoStore.Save(data, header.Filename)
		if err != nil {
			log.Printf("photo save failed: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "photo save failed"})
			return
		}
		student, err := admin.SetStudentPhoto(records.ID(c.Param("id")), url)
		if err != nil {
			writeRosterError(c, err)
			return
		}
		c.JSON(http.StatusOK, student)
	})

	api.GET("/marks", func(c *gin.Context) {
		claims := claimsFrom(c)
		if claims.Role == auth.RoleStudent {
			student := reg.ResolveStudent(claims.Subject)
			if student == nil {
				c.JSON(http.StatusOK, gin.H{"marks": []records.MarkEntry{}})
				return
			}
			c.JSON(http.StatusOK, gin.H{"marks": projector.MarksFor(student.ID)})
			return
		}
		c.JSON(http.StatusOK, gin.H{"marks": projector.AllMarks()})
	})

	staff.POST("/marks", func(c *gin.Context) {
		var in roster.MarkInput
		if err := c.ShouldBindJSON(&in); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		entry, err := admin.AddMark(in)
		if err != nil {
			writeRosterError(c, err)
			return
		}
		c.JSON(http.StatusCreated, entry)
	})

	api.GET("/attendance", func(c *gin.Context) {
		claims := claimsFrom(c)
		if claims.Role == auth.RoleStudent {
			student := reg.ResolveStudent(claims.Subject)
			if student == nil {
				c.JSON(http.StatusOK, gin.H{"entries": []records.AttendanceEntry{}})
				return
			}
			entries := projector.AttendanceFor(student.ID)
			resp := gin.H{"entries": entries}
			if pct, ok := view.AttendancePercentage(entries); ok {
				resp["percentage"] = pct
			}
			c.JSON(http.StatusOK, resp)
			return
		}
		c.JSON(http.StatusOK, gin.H{"entries": projector.AllAttendance()})
	})

	staff.POST("/attendance", func(c *gin.Context) {
		var in roster.AttendanceInput
		if err := c.ShouldBindJSON(&in); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		entry, err := admin.AddAttendance(in)
		if err != nil {
			writeRosterError(c, err)
			return
		}
		c.JSON(http.StatusCreated, entry)
	})

	api.GET("/timetable", func(c *gin.Context) {
		// The schedule has no per-role association; everyone sees all of it.
		c.JSON(http.StatusOK, gin.H{"timetable": projector.TimetableAll()})
	})

	adminOnly.POST("/timetable", func(c *gin.Context) {
		var in roster.TimetableInput
		if err := c.ShouldBindJSON(&in); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		entry, err := admin.AddTimetable(in)
		if err != nil {
			writeRosterError(c, err)
			return
		}
		c.JSON(http.StatusCreated, entry)
	})

	adminOnly.PUT("/timetable/:id", func(c *gin.Context) {
		var in roster.TimetableInput
		if err := c.ShouldBindJSON(&in); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		entry, err := admin.UpdateTimetable(records.ID(c.Param("id")), in)
		if err != nil {
			writeRosterError(c, err)
			return
		}
		c.JSON(http.StatusOK, entry)
	})

	adminOnly.DELETE("/timetable/:id", func(c *gin.Context) {
		if err := admin.DeleteTimetable(records.ID(c.Param("id"))); err != nil {
			writeRosterError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "timetable entry deleted"})
	})

	r.Static("/uploads", cfg.UploadDir)

	return r
}

func claimsFrom(c *gin.Context) auth.Claims {
	claimsAny, _ := c.Get("claims")
	claims, _ := claimsAny.(auth.Claims)
	return claims
}

func writeRosterError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, roster.ErrValidation):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, roster.ErrConflict):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, roster.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	default:
		log.Printf("store write failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "write failed"})
	}
}

// CORS middleware for browser requests
func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		origin := c.Request.Header.Get("Origin")
		if origin == "" {
			origin = "*"
		}

		c.Header("Access-Control-Allow-Origin", origin)
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Origin, Content-Type, Accept, Authorization")
		c.Header("Access-Control-Allow-Credentials", "true")
		c.Header("Access-Control-Max-Age", "86400")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

// Security headers middleware
func securityHeaders() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("X-Content-Type-Options", "nosniff")
		c.Header("X-Frame-Options", "DENY")
		c.Header("X-XSS-Protection", "1; mode=block")
		c.Header("Referrer-Policy", "strict-origin-when-cross-origin")

		if gin.Mode() == gin.ReleaseMode {
			c.Header("Strict-Transport-Security", "max-age=31536000; includeSubDomains")
		}

		c.Next()
	}
}
