package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"artistplan/internal/auth"
	"artistplan/internal/middleware"
)

type signupRequest struct {
	Name            string `json:"name"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	PasswordConfirm string `json:"passwordConfirm"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// handleSignup registers a new account and returns a session token.
func (s *Server) handleSignup(c *gin.Context) {
	var req signupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondFail(c, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.Name == "" || req.Email == "" || req.Password == "" {
		respondFail(c, http.StatusBadRequest, "name, email and password are required")
		return
	}
	if req.Password != req.PasswordConfirm {
		respondFail(c, http.StatusBadRequest, "passwords do not match")
		return
	}

	user, err := s.authn.Register(c.Request.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrEmailExists):
			respondFail(c, http.StatusBadRequest, "an account with this email already exists")
		case errors.Is(err, auth.ErrWeakPassword):
			respondFail(c, http.StatusBadRequest, err.Error())
		default:
			s.respondServerError(c, err)
		}
		return
	}

	token, err := s.jwt.Generate(user)
	if err != nil {
		s.respondServerError(c, err)
		return
	}

	s.logger.Info("user registered", "user_id", user.ID)
	c.JSON(http.StatusCreated, gin.H{
		"status": "success",
		"token":  token,
		"data":   gin.H{"user": user},
	})
}

// handleLogin exchanges credentials for a session token.
func (s *Server) handleLogin(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondFail(c, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Email == "" || req.Password == "" {
		respondFail(c, http.StatusBadRequest, "please provide email and password")
		return
	}

	user, err := s.authn.Authenticate(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			respondFail(c, http.StatusUnauthorized, "incorrect email or password")
			return
		}
		s.respondServerError(c, err)
		return
	}

	token, err := s.jwt.Generate(user)
	if err != nil {
		s.respondServerError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status": "success",
		"token":  token,
		"data":   gin.H{"user": user},
	})
}

// handleCurrentUser returns the profile of the authenticated user.
func (s *Server) handleCurrentUser(c *gin.Context) {
	user, err := s.store.GetUserByID(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		s.respondStoreError(c, err, "user not found")
		return
	}
	respondData(c, http.StatusOK, "user", user)
}
