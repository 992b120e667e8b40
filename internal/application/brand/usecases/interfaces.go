package usecases

import "github.com/entitle-inc/entitle/internal/infrastructure/apikey"

type APIKeyGenerator interface {
	Generate() (*apikey.Issued, error)
	Hash(plain string) string
}
