package repository

import "context"

// CloudIdentityRepository verifica as credenciais AWS configuradas.
type CloudIdentityRepository interface {
	GetAWSProfiles() []string
	GetAccountID(ctx context.Context, profile string) (string, error)
}
