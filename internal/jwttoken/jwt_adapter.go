package jwttoken

import "samadhan/internal/platform/middleware"

// MiddlewareAdapter exposes the token service through the middleware's
// JWTValidator interface without the middleware importing this package.
type MiddlewareAdapter struct {
	service *Service
}

func NewMiddlewareAdapter(service *Service) *MiddlewareAdapter {
	return &MiddlewareAdapter{service: service}
}

func (a *MiddlewareAdapter) ValidateToken(tokenString string) (*middleware.AgentClaims, error) {
	claims, err := a.service.ValidateToken(tokenString)
	if err != nil {
		return nil, err
	}
	return &middleware.AgentClaims{AgentID: claims.AgentID}, nil
}
