package core

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// NewRouter constructs the Gin engine with routes wired.
func NewRouter(cfg Config, authService AuthService, userRepo UserRepository) *gin.Engine {
	r := gin.Default()

	// Global middleware: CORS -> bearer token gate
	r.Use(CORSMiddleware(cfg))
	r.Use(AuthMiddleware(cfg))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":    "healthy",
			"timestamp": time.Now().UTC().Format(time.RFC3339),
			"service":   "accounts-api",
		})
	})

	api := r.Group("/api")
	{
		api.POST("/auth/register", func(c *gin.Context) {
			var req struct {
				Email    string `json:"email" binding:"required,email"`
				Username string `json:"username" binding:"required,min=3,max=30"`
				Password string `json:"password" binding:"required,min=8"`
			}
			if err := c.ShouldBindJSON(&req); err != nil {
				respondError(c, http.StatusBadRequest, "VALIDATION_ERROR", "invalid request body")
				return
			}

			user, err := authService.Register(c.Request.Context(), req.Email, req.Username, req.Password)
			if err != nil {
				respondServiceError(c, err)
				return
			}
			c.JSON(http.StatusOK, user)
		})

		api.POST("/auth/login", func(c *gin.Context) {
			var req struct {
				Email    string `json:"email" binding:"required"`
				Password string `json:"password" binding:"required"`
			}
			if err := c.ShouldBindJSON(&req); err != nil {
				respondError(c, http.StatusBadRequest, "VALIDATION_ERROR", "invalid request body")
				return
			}

			token, user, err := authService.Login(c.Request.Context(), req.Email, req.Password)
			if err != nil {
				respondServiceError(c, err)
				return
			}
			c.JSON(http.StatusOK, gin.H{"token": token, "user": user})
		})

		api.GET("/users", func(c *gin.Context) {
			users, err := userRepo.List(c.Request.Context())
			if err != nil {
				respondServiceError(c, err)
				return
			}
			views := make([]UserView, 0, len(users))
			for i := range users {
				views = append(views, users[i].View())
			}
			c.JSON(http.StatusOK, views)
		})

		api.GET("/users/:id", func(c *gin.Context) {
			id, err := uuid.Parse(c.Param("id"))
			if err != nil {
				respondError(c, http.StatusBadRequest, "VALIDATION_ERROR", "invalid user id")
				return
			}
			u, err := userRepo.FindByID(c.Request.Context(), id)
			if err != nil {
				respondServiceError(c, err)
				return
			}
			c.JSON(http.StatusOK, u.View())
		})

		updateUser := func(c *gin.Context) {
			authID, ok := CurrentUserID(c)
			if !ok {
				respondError(c, http.StatusUnauthorized, "UNAUTHORIZED", "missing authenticated identity")
				return
			}

			id, err := uuid.Parse(c.Param("id"))
			if err != nil {
				respondError(c, http.StatusBadRequest, "VALIDATION_ERROR", "invalid user id")
				return
			}

			// Ownership check comes before any field validation or
			// storage access.
			if authID != id {
				respondServiceError(c, ErrForbidden)
				return
			}

			var req struct {
				Email    *string `json:"email" binding:"omitempty,email"`
				Username *string `json:"username" binding:"omitempty,min=3,max=30"`
			}
			if err := c.ShouldBindJSON(&req); err != nil {
				respondError(c, http.StatusBadRequest, "VALIDATION_ERROR", "invalid request body")
				return
			}

			u, err := userRepo.Update(c.Request.Context(), id, UserUpdate{Email: req.Email, Username: req.Username})
			if err != nil {
				respondServiceError(c, err)
				return
			}
			c.JSON(http.StatusOK, u.View())
		}
		api.POST("/users/:id", updateUser)
		api.PATCH("/users/:id", updateUser)
	}

	return r
}
