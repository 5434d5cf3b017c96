package artist

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"
)

// CarnivalArtists is the development catalogue: acts that play the Salvador
// carnival circuits.
var CarnivalArtists = []string{
	"Ivete Sangalo", "Claudia Leitte", "Daniela Mercury", "Carlinhos Brown",
	"Léo Santana", "Ludmilla", "Anitta", "Pabllo Vittar", "Psirico",
	"Harmonia do Samba", "Banda Eva", "Timbalada", "Olodum", "Ilê Aiyê",
	"Ara Ketu", "Parangolé", "Asa de Águia", "Chiclete com Banana",
	"Banda Beijo", "Banda Cheiro de Amor", "Banda Reflexus", "Banda Didá",
	"Margareth Menezes", "Gilberto Gil", "Caetano Veloso", "Maria Bethânia",
	"Tom Zé", "Trio Elétrico Dodô e Osmar", "Bell Marques", "Netinho",
	"Saulo Fernandes", "Durval Lelys", "Xanddy Harmonia", "Banda Mel",
	"Banda Pagodarte", "Banda Vixe Mainha", "Bloco Camaleão", "Bloco Malê Debalê",
	"Bloco Muzenza", "Bloco Cortejo Afro", "Bloco Filhos de Gandhy",
	"Banda Pimenta Nativa", "Gerônimo", "Lazzo", "Banda Akomabu",
}

// Seed inserts every name in names that is not already present, compared
// case-insensitively.  It does nothing once the table holds at least
// len(names) rows, so restarts are cheap.
func Seed(ctx context.Context, repo Repository, names []string) (int64, error) {
	total, err := repo.Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("count artists: %w", err)
	}
	if total >= len(names) {
		return 0, nil
	}

	existing, err := repo.Names(ctx)
	if err != nil {
		return 0, fmt.Errorf("list artist names: %w", err)
	}
	seen := make(map[string]struct{}, len(existing)+len(names))
	for _, n := range existing {
		seen[strings.ToLower(n)] = struct{}{}
	}

	var todo []string
	for _, n := range names {
		key := strings.ToLower(n)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		todo = append(todo, n)
	}
	if len(todo) == 0 {
		return 0, nil
	}

	n, err := repo.CreateMany(ctx, todo)
	if err != nil {
		return 0, fmt.Errorf("seed artists: %w", err)
	}
	zap.S().Infow("artists seeded", "created", n, "total", total+int(n))
	return n, nil
}
