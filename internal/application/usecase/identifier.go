package usecase

import (
	"context"
	"fmt"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/diillson/maternity-reports-go/internal/domain/repository"
	"github.com/sirupsen/logrus"
)

const (
	identifierAlphabet    = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	identifierSuffixLen   = 2
	maxIdentifierAttempts = 10
)

// IdentifierGenerator gera identificadores curtos PREFIXO+DDMMAA+2 caracteres.
// A unicidade é verificada na coleção de destino, sem transação: após
// maxIdentifierAttempts colisões o último candidato é devolvido mesmo assim.
type IdentifierGenerator struct {
	repo repository.IdentifierRepository
	now  func() time.Time
	intn func(n int) int
	log  logrus.FieldLogger
}

// NewIdentifierGenerator cria um gerador que consulta repo a cada tentativa.
func NewIdentifierGenerator(repo repository.IdentifierRepository, now func() time.Time, log logrus.FieldLogger) *IdentifierGenerator {
	if now == nil {
		now = time.Now
	}
	return &IdentifierGenerator{
		repo: repo,
		now:  now,
		intn: rand.IntN,
		log:  log,
	}
}

// Generate devolve um identificador livre (best-effort) para a coleção.
func (g *IdentifierGenerator) Generate(ctx context.Context, prefix, collection string) (string, error) {
	var candidate string
	for attempt := 1; attempt <= maxIdentifierAttempts; attempt++ {
		candidate = g.candidate(prefix)

		exists, err := g.repo.IdentifierExists(ctx, collection, candidate)
		if err != nil {
			return "", fmt.Errorf("checking identifier %s in %s: %w", candidate, collection, err)
		}
		if !exists {
			return candidate, nil
		}
		g.log.WithFields(logrus.Fields{
			"collection": collection,
			"candidate":  candidate,
			"attempt":    attempt,
		}).Debug("identifier already taken, regenerating")
	}

	g.log.WithFields(logrus.Fields{
		"collection": collection,
		"candidate":  candidate,
		"attempts":   maxIdentifierAttempts,
	}).Warn("identifier collisions exhausted, using last candidate")
	return candidate, nil
}

func (g *IdentifierGenerator) candidate(prefix string) string {
	var b strings.Builder
	b.WriteString(prefix)
	b.WriteString(g.now().Format("020106"))
	for i := 0; i < identifierSuffixLen; i++ {
		b.WriteByte(identifierAlphabet[g.intn(len(identifierAlphabet))])
	}
	return b.String()
}
