// Package partner implements the partner-facing services: self
// registration with document uploads, login, the public active-partner
// directory, membership verification and the visit ledger.
package partner

import (
	"github.com/sirupsen/logrus"

	gateway "github.com/medico-app/medico/apigateway"
	"github.com/medico-app/medico/fields"
	"github.com/medico-app/medico/store"
)

// Auther issues and verifies bearer tokens for the service.
type Auther interface {
	VerifyJWT(token string) (*gateway.TokenClaims, error)
	GenerateJWT(id, email, role string) (string, error)
}

// Service is the partner service. All fields must be set.
type Service struct {
	Store  *store.Store
	Config fields.Config
	Logger *logrus.Logger
	Auth   Auther
}
